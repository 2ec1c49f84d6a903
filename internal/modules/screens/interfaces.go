package screens

import (
	"context"

	"glowbook/internal/domain"
	"glowbook/internal/modules/auth"
	"glowbook/internal/modules/booking"
	"glowbook/internal/modules/catalog"
	"glowbook/internal/session"
)

// authFlows is the part of the auth client the entry screens drive.
type authFlows interface {
	SignUp(ctx context.Context, req auth.SignUpRequest) (*auth.SignUpResult, error)
	SignInWithPassword(ctx context.Context, req auth.PasswordGrantRequest) (*session.Session, error)
	SignOut(ctx context.Context, userID string) error
	UpdateUser(ctx context.Context, userID string, attrs auth.UserAttributes) (*session.Session, error)
	ResetPasswordForEmail(ctx context.Context, email string) error
	ResendSignupCode(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, req auth.VerifyRequest) (*session.Session, error)
}

type featuredSource interface {
	Featured(ctx context.Context) (*catalog.FeaturedView, error)
}

type scheduleSource interface {
	Dashboard(ctx context.Context, beauticianID string) (*booking.DashboardView, error)
}

type bookingFeed interface {
	ForUser(ctx context.Context, userID string, role domain.UserRole) ([]domain.Booking, error)
}

type messageFeed interface {
	RecentReceived(ctx context.Context, userID string, limit int) ([]domain.Message, error)
}

type profileLookup interface {
	ListByIDs(ctx context.Context, ids []string) ([]domain.Profile, error)
}
