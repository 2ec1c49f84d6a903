// Package backendtest builds a working backend client over in-memory SQLite
// for handler tests.
package backendtest

import (
	"context"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"glowbook/internal/backend"
	"glowbook/internal/config"
	"glowbook/internal/database/dbtest"
	"glowbook/internal/domain"
	"glowbook/internal/realtime"
	"glowbook/internal/session"
	"glowbook/internal/storage"
)

type Env struct {
	Client  backend.Client
	DB      *gorm.DB
	Broker  *realtime.MemoryBroker
	Storage *storage.LocalStorage
	Config  *config.Config
}

func New(t testing.TB) *Env {
	t.Helper()
	broker := realtime.NewMemoryBroker()
	objects, err := storage.NewLocalStorage(t.TempDir(), "/static")
	require.NoError(t, err)

	cfg := &config.Config{
		AppEnv:           "test",
		SiteURL:          "http://localhost:5173",
		JWTSecret:        "test-secret",
		Currency:         "usd",
		StoragePublicURL: "/static",

		CORSAllowedOrigins: "http://localhost:5173",
	}
	cfg.Auth.JWTAccessTTL = 15 * time.Minute
	cfg.Auth.RefreshTTL = time.Hour
	cfg.Auth.VerifyCodeTTL = 10 * time.Minute
	cfg.Auth.VerifyMaxAttempts = 5
	cfg.Auth.RefreshTokenPepper = "refresh-pepper"
	cfg.Auth.VerificationCodePepper = "code-pepper"

	db := dbtest.Open(t)
	t.Cleanup(func() { _ = broker.Close() })
	return &Env{
		Client:  backend.NewWithDB(db, broker, objects, cfg, zap.NewNop()),
		DB:      db,
		Broker:  broker,
		Storage: objects,
		Config:  cfg,
	}
}

// User stores a profile for a new user of role and returns a session for it.
func (e *Env) User(t testing.TB, role domain.UserRole, name string) *session.Session {
	t.Helper()
	id := uuid.NewString()
	require.NoError(t, e.Client.Profiles().Upsert(context.Background(), &domain.Profile{
		ID:       id,
		FullName: name,
		UserType: role,
	}))
	return SessionFor(id, role)
}

func SessionFor(userID string, role domain.UserRole) *session.Session {
	meta := map[string]any{}
	if role != "" {
		meta["user_type"] = string(role)
	}
	return &session.Session{
		AccessToken: "test-token",
		TokenType:   "bearer",
		ExpiresAt:   time.Now().Add(time.Hour).Unix(),
		User:        &session.User{ID: userID, Email: userID + "@example.com", UserMetadata: meta},
	}
}

// Sessions is a session provider that always answers with one session.
type Sessions struct {
	Current *session.Session
}

func (s *Sessions) Session(*gin.Context) *session.Session { return s.Current }
