package auth

import (
	"context"

	"glowbook/internal/session"
)

// Client is the auth surface the rest of the app consumes. *Service
// implements it; the backend stub provides a session-less one.
type Client interface {
	GetSession(ctx context.Context, accessToken string) (*session.Session, error)
	SignUp(ctx context.Context, req SignUpRequest) (*SignUpResult, error)
	SignInWithPassword(ctx context.Context, req PasswordGrantRequest) (*session.Session, error)
	SignInWithOAuth(provider string) (string, error)
	OAuthCallback(ctx context.Context, provider, code, state string) (*session.Session, error)
	RefreshSession(ctx context.Context, refreshToken string) (*session.Session, error)
	SignOut(ctx context.Context, userID string) error
	UpdateUser(ctx context.Context, userID string, attrs UserAttributes) (*session.Session, error)
	ResetPasswordForEmail(ctx context.Context, email string) error
	ResendSignupCode(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, req VerifyRequest) (*session.Session, error)
	OnAuthStateChange(userID string, fn func(session.Change)) (stop func())
	Feed(userID string) session.Feed
}

var _ Client = (*Service)(nil)
