package auth

import (
	"context"
	"time"

	"glowbook/internal/domain"
	"glowbook/internal/pkg/jwt"
)

// UserStore is the slice of the users table auth needs.
type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, u *domain.User) error
	ConfirmEmail(ctx context.Context, id string, at time.Time) error
	UpdatePassword(ctx context.Context, id, hash string) error
}

type RefreshTokenStore interface {
	Create(ctx context.Context, t *domain.RefreshToken) error
	FindByHash(ctx context.Context, hash string) (*domain.RefreshToken, error)
	MarkRotated(ctx context.Context, id, nextID int64) error
	RevokeAll(ctx context.Context, userID string) error
}

type VerificationCodeStore interface {
	Get(ctx context.Context, userID string, purpose domain.VerificationPurpose) (*domain.VerificationCode, error)
	Upsert(ctx context.Context, v *domain.VerificationCode) error
	IncrementAttempts(ctx context.Context, id int64) error
	MarkUsed(ctx context.Context, id int64, at time.Time) error
}

type tokenService interface {
	GenerateToken(userID, email string, metadata map[string]string) (string, time.Time, error)
	GenerateShortLived(subject string, ttl time.Duration) (string, error)
	ValidateToken(token string) (*jwt.Claims, error)
}
