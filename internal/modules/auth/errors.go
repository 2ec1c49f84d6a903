package auth

import "errors"

var (
	ErrInvalidCredentials            = errors.New("invalid credentials")
	ErrEmailAlreadyExists            = errors.New("email already exists")
	ErrUnauthorized                  = errors.New("unauthorized")
	ErrEmailNotConfirmed             = errors.New("email not confirmed")
	ErrInvalidRole                   = errors.New("user_type must be customer or beautician")
	ErrInvalidRefreshToken           = errors.New("invalid refresh token")
	ErrInvalidVerificationCode       = errors.New("invalid or expired code")
	ErrInvalidVerificationCodeFormat = errors.New("code must be 6 digits")
	ErrTooManyAttempts               = errors.New("too many attempts")
	ErrRateLimitExceeded             = errors.New("please wait before requesting another code")
	ErrProviderNotSupported          = errors.New("oauth provider not supported")
	ErrInvalidOAuthState             = errors.New("invalid oauth state")
)
