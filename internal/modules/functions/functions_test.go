package functions

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"glowbook/internal/domain"
	"glowbook/internal/repository"
	"glowbook/internal/session"
)

type mockSigner struct{ mock.Mock }

func (m *mockSigner) SignOut(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type mockPurger struct{ mock.Mock }

func (m *mockPurger) Purge(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type mockProfiles struct{ mock.Mock }

func (m *mockProfiles) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

type mockObjects struct{ mock.Mock }

func (m *mockObjects) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockObjects) KeyFromURL(url string) string {
	return m.Called(url).String(0)
}

func userSession(id string) *session.Session {
	return &session.Session{AccessToken: "t", User: &session.User{ID: id}}
}

func TestRegistry_Invoke(t *testing.T) {
	r := NewRegistry()
	r.Register("echo", func(_ context.Context, s *session.Session) (any, error) { return s.UserID(), nil })

	out, err := r.Invoke(context.Background(), "echo", userSession("u1"))
	require.NoError(t, err)
	assert.Equal(t, "u1", out)

	_, err = r.Invoke(context.Background(), "missing", userSession("u1"))
	assert.ErrorIs(t, err, ErrUnknownFunction)

	_, err = r.Invoke(context.Background(), "echo", nil)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestDeleteUser_PurgesAndRemovesAvatar(t *testing.T) {
	ctx := context.Background()
	signer, purger, profiles, objects := &mockSigner{}, &mockPurger{}, &mockProfiles{}, &mockObjects{}

	profiles.On("GetByID", ctx, "u1").Return(&domain.Profile{ID: "u1", AvatarURL: "/static/avatars/u1/a.png"}, nil)
	objects.On("KeyFromURL", "/static/avatars/u1/a.png").Return("avatars/u1/a.png")
	signer.On("SignOut", ctx, "u1").Return(nil)
	purger.On("Purge", ctx, "u1").Return(nil)
	objects.On("Delete", ctx, "avatars/u1/a.png").Return(errors.New("gone already"))

	out, err := DeleteUser(signer, purger, profiles, objects, zap.NewNop())(ctx, userSession("u1"))
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"deleted": true}, out)

	signer.AssertExpectations(t)
	purger.AssertExpectations(t)
	objects.AssertExpectations(t)
}

func TestDeleteUser_WithoutProfile(t *testing.T) {
	ctx := context.Background()
	signer, purger, profiles := &mockSigner{}, &mockPurger{}, &mockProfiles{}

	profiles.On("GetByID", ctx, "u2").Return(nil, repository.ErrNotFound)
	signer.On("SignOut", ctx, "u2").Return(nil)
	purger.On("Purge", ctx, "u2").Return(nil)

	_, err := DeleteUser(signer, purger, profiles, nil, zap.NewNop())(ctx, userSession("u2"))
	require.NoError(t, err)
	purger.AssertExpectations(t)
}

func TestDeleteUser_PurgeFailure(t *testing.T) {
	ctx := context.Background()
	signer, purger, profiles := &mockSigner{}, &mockPurger{}, &mockProfiles{}

	profiles.On("GetByID", ctx, "u3").Return(nil, repository.ErrNotFound)
	signer.On("SignOut", ctx, "u3").Return(nil)
	purger.On("Purge", ctx, "u3").Return(errors.New("db down"))

	_, err := DeleteUser(signer, purger, profiles, nil, zap.NewNop())(ctx, userSession("u3"))
	assert.Error(t, err)
}

type fixedSessions struct{ sess *session.Session }

func (f fixedSessions) Session(*gin.Context) *session.Session { return f.sess }

func TestHandler_Invoke(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := NewRegistry()
	reg.Register("ok", func(context.Context, *session.Session) (any, error) { return "done", nil })
	reg.Register("boom", func(context.Context, *session.Session) (any, error) { return nil, errors.New("x") })

	cases := []struct {
		name string
		sess *session.Session
		fn   string
		code int
	}{
		{"success", userSession("u"), "ok", http.StatusOK},
		{"unknown", userSession("u"), "nope", http.StatusNotFound},
		{"no session", nil, "ok", http.StatusUnauthorized},
		{"failure", userSession("u"), "boom", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			NewHandler(reg, fixedSessions{tc.sess}, zap.NewNop()).RegisterRoutes(r.Group("/api/v1/functions"))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/functions/"+tc.fn, nil))
			assert.Equal(t, tc.code, w.Code)
		})
	}
}
