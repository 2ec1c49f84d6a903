package screens

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"glowbook/internal/backend/backendtest"
	"glowbook/internal/domain"
	"glowbook/internal/middleware"
	"glowbook/internal/modules/auth"
	"glowbook/internal/modules/booking"
	"glowbook/internal/modules/catalog"
	"glowbook/internal/session"
)

type mockAuth struct {
	mock.Mock
}

func (m *mockAuth) SignUp(ctx context.Context, req auth.SignUpRequest) (*auth.SignUpResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*auth.SignUpResult)
	return res, args.Error(1)
}

func (m *mockAuth) SignInWithPassword(ctx context.Context, req auth.PasswordGrantRequest) (*session.Session, error) {
	args := m.Called(ctx, req)
	sess, _ := args.Get(0).(*session.Session)
	return sess, args.Error(1)
}

func (m *mockAuth) SignOut(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockAuth) UpdateUser(ctx context.Context, userID string, attrs auth.UserAttributes) (*session.Session, error) {
	args := m.Called(ctx, userID, attrs)
	sess, _ := args.Get(0).(*session.Session)
	return sess, args.Error(1)
}

func (m *mockAuth) ResetPasswordForEmail(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockAuth) ResendSignupCode(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockAuth) VerifyOTP(ctx context.Context, req auth.VerifyRequest) (*session.Session, error) {
	args := m.Called(ctx, req)
	sess, _ := args.Get(0).(*session.Session)
	return sess, args.Error(1)
}

type screenFixture struct {
	env        *backendtest.Env
	auth       *mockAuth
	customer   *session.Session
	beautician *session.Session
	bookings   *booking.Service
}

func newScreenFixture(t *testing.T) *screenFixture {
	t.Helper()
	env := backendtest.New(t)
	return &screenFixture{
		env:        env,
		auth:       &mockAuth{},
		customer:   env.User(t, domain.RoleCustomer, "Cleo"),
		beautician: env.User(t, domain.RoleBeautician, "Anna"),
		bookings:   booking.NewService(env.Client.Bookings(), env.Client.Services(), env.Client.Profiles(), false, zap.NewNop()),
	}
}

func (f *screenFixture) router(sess *session.Session) *gin.Engine {
	gin.SetMode(gin.TestMode)
	c := f.env.Client
	h := NewHandler(Deps{
		Auth:         f.auth,
		Cookies:      auth.Cookies{RefreshTTL: time.Hour},
		Featured:     catalog.NewService(c.Services(), c.Profiles()),
		Schedule:     f.bookings,
		Notifier:     NewNotifier(f.bookings, c.Messages(), c.Profiles()),
		SupportEmail: "support@glowbook.test",
		Log:          zap.NewNop(),
	})
	sessions := &backendtest.Sessions{Current: sess}

	r := gin.New()
	h.RegisterRoot(r)
	h.RegisterVerifyRoutes(r)
	h.RegisterPublicOnlyRoutes(r.Group("/", middleware.PublicOnly(sessions).Middleware()))
	h.RegisterAuthenticatedRoutes(r.Group("/", middleware.Authenticated(sessions).Middleware()))
	h.RegisterCustomerRoutes(r.Group("/", middleware.RoleRestricted(sessions, domain.RoleCustomer).Middleware()))
	h.RegisterBeauticianRoutes(r.Group("/", middleware.RoleRestricted(sessions, domain.RoleBeautician).Middleware()))
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRootAndPublicOnlyRedirects(t *testing.T) {
	f := newScreenFixture(t)

	w := do(f.router(nil), http.MethodGet, "/", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/welcome", w.Header().Get("Location"))

	w = do(f.router(nil), http.MethodGet, "/welcome", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(f.router(f.beautician), http.MethodGet, "/login", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/beautician/dashboard", w.Header().Get("Location"))

	w = do(f.router(nil), http.MethodGet, "/notifications", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/welcome", w.Header().Get("Location"))
}

func TestLogin(t *testing.T) {
	f := newScreenFixture(t)
	r := f.router(nil)

	f.auth.On("SignInWithPassword", mock.Anything, auth.PasswordGrantRequest{Email: "anna@example.com", Password: "secret1"}).
		Return(backendtest.SessionFor("u1", domain.RoleBeautician), nil).Once()
	w := do(r, http.MethodPost, "/login", `{"email":"anna@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"redirect":"/beautician/dashboard"`)
	assert.Contains(t, w.Header().Get("Set-Cookie"), auth.AccessCookie+"=test-token")

	f.auth.On("SignInWithPassword", mock.Anything, auth.PasswordGrantRequest{Email: "new@example.com", Password: "secret1"}).
		Return(nil, auth.ErrEmailNotConfirmed).Once()
	w = do(r, http.MethodPost, "/login", `{"email":"new@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redirect":"/verify-email?email=new%40example.com"`)

	f.auth.On("SignInWithPassword", mock.Anything, auth.PasswordGrantRequest{Email: "bad@example.com", Password: "nope"}).
		Return(nil, auth.ErrInvalidCredentials).Once()
	w = do(r, http.MethodPost, "/login", `{"email":"bad@example.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	f.auth.On("SignInWithPassword", mock.Anything, auth.PasswordGrantRequest{Email: "down@example.com", Password: "x"}).
		Return(nil, errors.New("connection refused")).Once()
	w = do(r, http.MethodPost, "/login", `{"email":"down@example.com","password":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "REQUEST_FAILED")

	f.auth.AssertExpectations(t)
}

func TestRegisterThenVerify(t *testing.T) {
	f := newScreenFixture(t)
	r := f.router(nil)

	signUp := auth.SignUpRequest{Email: "mia@example.com", Password: "secret1", FullName: "Mia", UserType: "customer"}
	f.auth.On("SignUp", mock.Anything, signUp).Return(&auth.SignUpResult{ConfirmationRequired: true}, nil).Once()
	w := do(r, http.MethodPost, "/register", `{"email":"mia@example.com","password":"secret1","full_name":"Mia","user_type":"customer"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"redirect":"/verify-email?email=mia%40example.com"`)

	verify := auth.VerifyRequest{Email: "mia@example.com", Token: "123456", Type: domain.PurposeSignup}
	f.auth.On("VerifyOTP", mock.Anything, verify).Return(backendtest.SessionFor("u2", domain.RoleCustomer), nil).Once()
	w = do(r, http.MethodPost, "/verify-email", `{"email":"mia@example.com","code":"123456"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"redirect":"/complete-profile"`)

	f.auth.On("ResendSignupCode", mock.Anything, "mia@example.com").Return(auth.ErrRateLimitExceeded).Once()
	w = do(r, http.MethodPost, "/verify-email/resend", `{"email":"mia@example.com"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	f.auth.AssertExpectations(t)
}

func TestResetPassword(t *testing.T) {
	f := newScreenFixture(t)
	r := f.router(nil)

	f.auth.On("ResetPasswordForEmail", mock.Anything, "anna@example.com").Return(nil).Once()
	w := do(r, http.MethodPost, "/forgot-password", `{"email":"anna@example.com"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/reset-password?email=anna%40example.com&code=654321", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"654321"`)

	password := "newpass1"
	f.auth.On("VerifyOTP", mock.Anything, auth.VerifyRequest{Email: "anna@example.com", Token: "654321", Type: domain.PurposeRecovery}).
		Return(backendtest.SessionFor("u1", domain.RoleBeautician), nil).Once()
	f.auth.On("UpdateUser", mock.Anything, "u1", auth.UserAttributes{Password: &password}).
		Return(backendtest.SessionFor("u1", domain.RoleBeautician), nil).Once()
	f.auth.On("SignOut", mock.Anything, "u1").Return(nil).Once()

	w = do(r, http.MethodPost, "/reset-password", `{"email":"anna@example.com","code":"654321","password":"newpass1"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"redirect":"/login"`)

	f.auth.On("VerifyOTP", mock.Anything, auth.VerifyRequest{Email: "anna@example.com", Token: "000000", Type: domain.PurposeRecovery}).
		Return(nil, auth.ErrInvalidVerificationCode).Once()
	w = do(r, http.MethodPost, "/reset-password", `{"email":"anna@example.com","code":"000000","password":"newpass1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	f.auth.AssertExpectations(t)
}

func TestDashboards(t *testing.T) {
	f := newScreenFixture(t)
	ctx := context.Background()
	svc := &domain.Service{BeauticianID: f.beautician.UserID(), Name: "Gel Nails", Category: "Nails", Price: 30, IsActive: true}
	require.NoError(t, f.env.Client.Services().Save(ctx, svc))

	w := do(f.router(f.customer), http.MethodGet, "/dashboard", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Gel Nails")

	w = do(f.router(f.customer), http.MethodGet, "/beautician/dashboard", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	w = do(f.router(f.beautician), http.MethodGet, "/beautician/dashboard", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"full_name":"Anna"`)
}

func TestSupport(t *testing.T) {
	f := newScreenFixture(t)
	w := do(f.router(f.customer), http.MethodGet, "/support", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "How do I book a service?")
	assert.Contains(t, w.Body.String(), "support@glowbook.test")
}
