package auth

import "glowbook/internal/domain"

type SignUpRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
	FullName string `json:"full_name" form:"full_name" binding:"required"`
	UserType string `json:"user_type" form:"user_type" binding:"required"`
}

type PasswordGrantRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

type RefreshGrantRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UserAttributes is a partial update of the signed-in user. Nil fields are untouched.
type UserAttributes struct {
	Password *string `json:"password,omitempty" binding:"omitempty,min=6"`
	FullName *string `json:"full_name,omitempty"`
	UserType *string `json:"user_type,omitempty"`
}

type RecoverRequest struct {
	Email string `json:"email" form:"email" binding:"required,email"`
}

type VerifyRequest struct {
	Email string                     `json:"email" form:"email" binding:"required,email"`
	Token string                     `json:"token" form:"token" binding:"required"`
	Type  domain.VerificationPurpose `json:"type" form:"type"`
}

type SignUpResult struct {
	User                 *domain.User `json:"user"`
	ConfirmationRequired bool         `json:"confirmation_required"`
}
