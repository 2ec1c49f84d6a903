package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"glowbook/internal/database/dbtest"
	"glowbook/internal/domain"
	"glowbook/internal/pkg/jwt"
	"glowbook/internal/repository"
	"glowbook/internal/session"
)

type captureMailer struct {
	mu    sync.Mutex
	codes map[string]string
	links map[string]string
}

func newCaptureMailer() *captureMailer {
	return &captureMailer{codes: map[string]string{}, links: map[string]string{}}
}

func (m *captureMailer) SendVerificationCode(_ context.Context, email, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[email] = code
	return nil
}

func (m *captureMailer) SendPasswordReset(_ context.Context, email, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links[email] = link
	return nil
}

func (m *captureMailer) code(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[email]
}

type fakeProvider struct {
	identity *OAuthIdentity
}

func (p *fakeProvider) AuthCodeURL(state string) string {
	return "https://provider.test/auth?state=" + state
}

func (p *fakeProvider) Exchange(context.Context, string) (*OAuthIdentity, error) {
	return p.identity, nil
}

type fixture struct {
	svc    *Service
	mailer *captureMailer
	bus    *EventBus
	users  *repository.UserRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	mailer := newCaptureMailer()
	bus := NewEventBus(zap.NewNop())
	users := repository.NewUserRepository(db)
	svc := NewService(
		users,
		repository.NewRefreshTokenRepository(db),
		repository.NewVerificationCodeRepository(db),
		jwt.New("test-secret", 15*time.Minute),
		mailer,
		bus,
		map[string]OAuthProvider{"google": &fakeProvider{identity: &OAuthIdentity{Email: "g@example.com", FullName: "Gia"}}},
		Options{
			RefreshTokenPepper:     "pepper",
			VerificationCodePepper: "pepper",
			RefreshTTL:             time.Hour,
			VerifyCodeTTL:          5 * time.Minute,
			VerifyResendCooldown:   time.Minute,
			VerifyMaxAttempts:      3,
			SiteURL:                "http://localhost:5173",
		},
		zap.NewNop(),
	)
	return &fixture{svc: svc, mailer: mailer, bus: bus, users: users}
}

func (f *fixture) signUpAndVerify(t *testing.T, email string, role domain.UserRole) *session.Session {
	t.Helper()
	ctx := context.Background()
	_, err := f.svc.SignUp(ctx, SignUpRequest{Email: email, Password: "secret1", FullName: "Test", UserType: string(role)})
	require.NoError(t, err)
	sess, err := f.svc.VerifyOTP(ctx, VerifyRequest{Email: email, Token: f.mailer.code(email), Type: domain.PurposeSignup})
	require.NoError(t, err)
	return sess
}

func TestSignUp_RequiresConfirmation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.SignUp(ctx, SignUpRequest{Email: "a@example.com", Password: "secret1", FullName: "Ann", UserType: "customer"})
	require.NoError(t, err)
	assert.True(t, res.ConfirmationRequired)
	assert.Empty(t, res.User.PasswordHash)
	assert.Len(t, f.mailer.code("a@example.com"), 6)

	_, err = f.svc.SignInWithPassword(ctx, PasswordGrantRequest{Email: "a@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrEmailNotConfirmed)

	_, err = f.svc.SignUp(ctx, SignUpRequest{Email: "A@example.com", Password: "secret1", FullName: "Ann", UserType: "customer"})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestSignUp_RejectsUnknownRole(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.SignUp(context.Background(), SignUpRequest{Email: "x@example.com", Password: "secret1", FullName: "X", UserType: "admin"})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestVerifyOTP_SignsInWithRoleMetadata(t *testing.T) {
	f := newFixture(t)
	sess := f.signUpAndVerify(t, "b@example.com", domain.RoleBeautician)

	require.True(t, sess.Valid())
	assert.Equal(t, domain.RoleBeautician, sess.Role())
	assert.NotEmpty(t, sess.RefreshToken)

	got, err := f.svc.GetSession(context.Background(), sess.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, sess.UserID(), got.UserID())
	assert.Equal(t, domain.RoleBeautician, got.Role())
}

func TestVerifyOTP_WrongCodeCountsAttempts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.SignUp(ctx, SignUpRequest{Email: "c@example.com", Password: "secret1", FullName: "C", UserType: "customer"})
	require.NoError(t, err)

	wrong := "000000"
	if f.mailer.code("c@example.com") == wrong {
		wrong = "111111"
	}

	_, err = f.svc.VerifyOTP(ctx, VerifyRequest{Email: "c@example.com", Token: "12ab"})
	assert.ErrorIs(t, err, ErrInvalidVerificationCodeFormat)

	_, err = f.svc.VerifyOTP(ctx, VerifyRequest{Email: "c@example.com", Token: wrong})
	assert.ErrorIs(t, err, ErrInvalidVerificationCode)
	_, err = f.svc.VerifyOTP(ctx, VerifyRequest{Email: "c@example.com", Token: wrong})
	assert.ErrorIs(t, err, ErrInvalidVerificationCode)
	_, err = f.svc.VerifyOTP(ctx, VerifyRequest{Email: "c@example.com", Token: wrong})
	assert.ErrorIs(t, err, ErrTooManyAttempts)

	_, err = f.svc.VerifyOTP(ctx, VerifyRequest{Email: "c@example.com", Token: f.mailer.code("c@example.com")})
	assert.ErrorIs(t, err, ErrTooManyAttempts)
}

func TestResendSignupCode_Cooldown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.SignUp(ctx, SignUpRequest{Email: "d@example.com", Password: "secret1", FullName: "D", UserType: "customer"})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.ResendSignupCode(ctx, "d@example.com"), ErrRateLimitExceeded)
	assert.NoError(t, f.svc.ResendSignupCode(ctx, "nobody@example.com"))

	f.svc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	assert.NoError(t, f.svc.ResendSignupCode(ctx, "d@example.com"))
}

func TestSignInWithPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signUpAndVerify(t, "e@example.com", domain.RoleCustomer)

	_, err := f.svc.SignInWithPassword(ctx, PasswordGrantRequest{Email: "e@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.svc.SignInWithPassword(ctx, PasswordGrantRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	sess, err := f.svc.SignInWithPassword(ctx, PasswordGrantRequest{Email: "E@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, sess.Role())
}

func TestRefreshSession_RotatesToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := f.signUpAndVerify(t, "r@example.com", domain.RoleCustomer)

	next, err := f.svc.RefreshSession(ctx, sess.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, sess.RefreshToken, next.RefreshToken)

	_, err = f.svc.RefreshSession(ctx, sess.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	_, err = f.svc.RefreshSession(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestSignOut_RevokesAndPublishes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := f.signUpAndVerify(t, "s@example.com", domain.RoleCustomer)

	got := make(chan session.Change, 1)
	stop := f.svc.OnAuthStateChange(sess.UserID(), func(ch session.Change) { got <- ch })
	defer stop()

	require.NoError(t, f.svc.SignOut(ctx, sess.UserID()))

	select {
	case ch := <-got:
		assert.Equal(t, session.EventSignedOut, ch.Event)
		assert.Nil(t, ch.Session)
	case <-time.After(time.Second):
		t.Fatal("no sign-out event")
	}

	_, err := f.svc.RefreshSession(ctx, sess.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestUpdateUser_ChangesRoleAndPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := f.signUpAndVerify(t, "u@example.com", domain.RoleCustomer)

	role := "beautician"
	pw := "newsecret"
	updated, err := f.svc.UpdateUser(ctx, sess.UserID(), UserAttributes{UserType: &role, Password: &pw})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleBeautician, updated.Role())

	_, err = f.svc.SignInWithPassword(ctx, PasswordGrantRequest{Email: "u@example.com", Password: "newsecret"})
	assert.NoError(t, err)

	bad := "admin"
	_, err = f.svc.UpdateUser(ctx, sess.UserID(), UserAttributes{UserType: &bad})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestResetPassword_RecoveryFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signUpAndVerify(t, "p@example.com", domain.RoleCustomer)

	require.NoError(t, f.svc.ResetPasswordForEmail(ctx, "p@example.com"))
	require.NoError(t, f.svc.ResetPasswordForEmail(ctx, "unknown@example.com"))

	link := f.mailer.links["p@example.com"]
	require.Contains(t, link, "http://localhost:5173/reset-password?email=p%40example.com&code=")
	code := link[len(link)-6:]

	sess, err := f.svc.VerifyOTP(ctx, VerifyRequest{Email: "p@example.com", Token: code, Type: domain.PurposeRecovery})
	require.NoError(t, err)
	assert.True(t, sess.Valid())
}

func TestGetSession_EmptyAndInvalidTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, err := f.svc.GetSession(ctx, "")
	assert.NoError(t, err)
	assert.Nil(t, sess)

	_, err = f.svc.GetSession(ctx, "garbage")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestOAuth_CreatesRolelessConfirmedUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	url, err := f.svc.SignInWithOAuth("google")
	require.NoError(t, err)
	state := url[len("https://provider.test/auth?state="):]

	_, err = f.svc.OAuthCallback(ctx, "google", "code", "forged")
	assert.ErrorIs(t, err, ErrInvalidOAuthState)

	sess, err := f.svc.OAuthCallback(ctx, "google", "code", state)
	require.NoError(t, err)
	assert.Equal(t, domain.UserRole(""), sess.Role())

	u, err := f.users.GetByEmail(ctx, "g@example.com")
	require.NoError(t, err)
	assert.True(t, u.EmailConfirmed())
	assert.Equal(t, "google", u.Provider)

	_, err = f.svc.SignInWithOAuth("github")
	assert.ErrorIs(t, err, ErrProviderNotSupported)
}
