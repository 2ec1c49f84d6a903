package backend

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"glowbook/internal/config"
	"glowbook/internal/database/dbtest"
	"glowbook/internal/domain"
	"glowbook/internal/modules/auth"
	"glowbook/internal/modules/functions"
	"glowbook/internal/realtime"
	"glowbook/internal/repository"
	"glowbook/internal/session"
	"glowbook/internal/storage"
)

func TestNew_MissingConfigReturnsStub(t *testing.T) {
	c, err := New(context.Background(), &config.Config{DatabaseURL: "file::memory:"}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, c.Configured())
	assert.IsType(t, &Stub{}, c)
}

func TestStub_GetSessionReturnsNilWithoutError(t *testing.T) {
	sess, err := NewStub().Auth().GetSession(context.Background(), "anything")
	assert.NoError(t, err)
	assert.Nil(t, sess)
}

func TestStub_ReadsEmptyWritesFail(t *testing.T) {
	ctx := context.Background()
	s := NewStub()
	defer s.Close()

	services, err := s.Services().List(ctx, repository.ServiceFilter{})
	assert.NoError(t, err)
	assert.Empty(t, services)

	_, err = s.Profiles().GetByID(ctx, "u1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, s.Messages().Create(ctx, &domain.Message{Content: "hi"}), ErrStubBackend)
	assert.ErrorIs(t, s.Bookings().Create(ctx, &domain.Booking{}), ErrStubBackend)

	_, err = s.Functions().Invoke(ctx, functions.DeleteUserName, &session.Session{User: &session.User{ID: "u1"}})
	assert.ErrorIs(t, err, ErrStubBackend)
}

func newTestRemote(t *testing.T) (*remote, *realtime.MemoryBroker) {
	t.Helper()
	broker := realtime.NewMemoryBroker()
	objects, err := storage.NewLocalStorage(t.TempDir(), "/static")
	require.NoError(t, err)

	cfg := &config.Config{SiteURL: "http://localhost:5173", JWTSecret: "test-secret"}
	cfg.Auth.JWTAccessTTL = time.Minute
	cfg.Auth.RefreshTTL = time.Hour
	cfg.Auth.VerifyCodeTTL = 10 * time.Minute
	cfg.Auth.RefreshTokenPepper = "r"
	cfg.Auth.VerificationCodePepper = "v"

	return newRemote(dbtest.Open(t), broker, objects, cfg, zap.NewNop()), broker
}

func TestRemote_MessageCreatePublishesInsert(t *testing.T) {
	ctx := context.Background()
	r, broker := newTestRemote(t)

	var got []realtime.Event
	_, err := broker.Subscribe(ctx, realtime.ChatChannel("bob", "alice"), func(ev realtime.Event) {
		got = append(got, ev)
	})
	require.NoError(t, err)

	msg := &domain.Message{SenderID: "alice", ReceiverID: "bob", Content: "hello"}
	require.NoError(t, r.Messages().Create(ctx, msg))
	require.NotZero(t, msg.ID)

	require.Len(t, got, 1)
	assert.Equal(t, realtime.EventInsert, got[0].Type)
	assert.Equal(t, "messages", got[0].Table)

	var rec domain.Message
	require.NoError(t, json.Unmarshal(got[0].Record, &rec))
	assert.Equal(t, msg.ID, rec.ID)
	assert.Equal(t, "hello", rec.Content)
}

func TestRemote_DeleteUserRegistered(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRemote(t)

	res, err := r.Auth().SignUp(ctx, authSignUp("gone@example.com"))
	require.NoError(t, err)

	out, err := r.Functions().Invoke(ctx, functions.DeleteUserName, &session.Session{User: &session.User{ID: res.User.ID}})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"deleted": true}, out)
}

func authSignUp(email string) auth.SignUpRequest {
	return auth.SignUpRequest{Email: email, Password: "secret1", FullName: "Gone", UserType: string(domain.RoleCustomer)}
}
