package functions

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"glowbook/internal/domain"
	"glowbook/internal/repository"
	"glowbook/internal/session"
)

const DeleteUserName = "delete-user"

type accountPurger interface {
	Purge(ctx context.Context, userID string) error
}

type profileReader interface {
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
}

type signer interface {
	SignOut(ctx context.Context, userID string) error
}

type objectStore interface {
	Delete(ctx context.Context, key string) error
	KeyFromURL(url string) string
}

// DeleteUser removes the caller's account and everything it owns, then signs
// the user out everywhere. A missing avatar object does not fail the call.
func DeleteUser(auth signer, accounts accountPurger, profiles profileReader, objects objectStore, log *zap.Logger) Func {
	return func(ctx context.Context, sess *session.Session) (any, error) {
		userID := sess.UserID()

		var avatarKey string
		p, err := profiles.GetByID(ctx, userID)
		switch {
		case err == nil:
			if objects != nil && p.AvatarURL != "" {
				avatarKey = objects.KeyFromURL(p.AvatarURL)
			}
		case !errors.Is(err, repository.ErrNotFound):
			return nil, fmt.Errorf("load profile: %w", err)
		}

		if err := auth.SignOut(ctx, userID); err != nil {
			return nil, err
		}
		if err := accounts.Purge(ctx, userID); err != nil {
			return nil, fmt.Errorf("purge account: %w", err)
		}

		if avatarKey != "" {
			if err := objects.Delete(ctx, avatarKey); err != nil {
				log.Warn("avatar cleanup failed", zap.String("user_id", userID), zap.Error(err))
			}
		}

		log.Info("account deleted", zap.String("user_id", userID))
		return map[string]bool{"deleted": true}, nil
	}
}
