package backend

import (
	"context"
	"io"
	"time"

	"glowbook/internal/domain"
	"glowbook/internal/modules/auth"
	"glowbook/internal/realtime"
	"glowbook/internal/repository"
	"glowbook/internal/session"
	"glowbook/internal/storage"
)

// Stub stands in for the backend when it is not configured. It has no
// session, reads come back empty and writes fail with ErrStubBackend.
type Stub struct {
	broker *realtime.MemoryBroker
}

func NewStub() *Stub {
	return &Stub{broker: realtime.NewMemoryBroker()}
}

func (s *Stub) Auth() auth.Client         { return stubAuth{} }
func (s *Stub) Profiles() ProfileTable    { return stubProfiles{} }
func (s *Stub) Services() ServiceTable    { return stubServices{} }
func (s *Stub) Bookings() BookingTable    { return stubBookings{} }
func (s *Stub) Messages() MessageTable    { return stubMessages{} }
func (s *Stub) Realtime() realtime.Broker { return s.broker }
func (s *Stub) Storage() storage.Storage  { return stubStorage{} }
func (s *Stub) Functions() Functions      { return stubFunctions{} }
func (s *Stub) Configured() bool          { return false }
func (s *Stub) Close() error              { return s.broker.Close() }

type stubAuth struct{}

func (stubAuth) GetSession(context.Context, string) (*session.Session, error) { return nil, nil }

func (stubAuth) SignUp(context.Context, auth.SignUpRequest) (*auth.SignUpResult, error) {
	return nil, ErrStubBackend
}

func (stubAuth) SignInWithPassword(context.Context, auth.PasswordGrantRequest) (*session.Session, error) {
	return nil, ErrStubBackend
}

func (stubAuth) SignInWithOAuth(string) (string, error) { return "", ErrStubBackend }

func (stubAuth) OAuthCallback(context.Context, string, string, string) (*session.Session, error) {
	return nil, ErrStubBackend
}

func (stubAuth) RefreshSession(context.Context, string) (*session.Session, error) {
	return nil, ErrStubBackend
}

func (stubAuth) SignOut(context.Context, string) error { return nil }

func (stubAuth) UpdateUser(context.Context, string, auth.UserAttributes) (*session.Session, error) {
	return nil, ErrStubBackend
}

func (stubAuth) ResetPasswordForEmail(context.Context, string) error { return ErrStubBackend }
func (stubAuth) ResendSignupCode(context.Context, string) error      { return ErrStubBackend }

func (stubAuth) VerifyOTP(context.Context, auth.VerifyRequest) (*session.Session, error) {
	return nil, ErrStubBackend
}

func (stubAuth) OnAuthStateChange(string, func(session.Change)) func() { return func() {} }
func (stubAuth) Feed(string) session.Feed                              { return stubFeed{} }

type stubFeed struct{}

func (stubFeed) Listen(func(session.Change)) func() { return func() {} }

type stubProfiles struct{}

func (stubProfiles) GetByID(context.Context, string) (*domain.Profile, error) {
	return nil, repository.ErrNotFound
}
func (stubProfiles) Upsert(context.Context, *domain.Profile) error      { return ErrStubBackend }
func (stubProfiles) UpdateAvatar(context.Context, string, string) error { return ErrStubBackend }
func (stubProfiles) ListByRole(context.Context, domain.UserRole, int) ([]domain.Profile, error) {
	return nil, nil
}
func (stubProfiles) ListByIDs(context.Context, []string) ([]domain.Profile, error) { return nil, nil }

type stubServices struct{}

func (stubServices) GetByID(context.Context, int64) (*domain.Service, error) {
	return nil, repository.ErrNotFound
}
func (stubServices) List(context.Context, repository.ServiceFilter) ([]domain.Service, error) {
	return nil, nil
}
func (stubServices) Save(context.Context, *domain.Service) error { return ErrStubBackend }
func (stubServices) Delete(context.Context, int64, string) error { return ErrStubBackend }

type stubBookings struct{}

func (stubBookings) Create(context.Context, *domain.Booking) error { return ErrStubBackend }
func (stubBookings) GetByID(context.Context, int64) (*domain.Booking, error) {
	return nil, repository.ErrNotFound
}
func (stubBookings) ListByCustomer(context.Context, string, ...domain.BookingStatus) ([]domain.Booking, error) {
	return nil, nil
}
func (stubBookings) ListByBeautician(context.Context, string, time.Time, time.Time, ...domain.BookingStatus) ([]domain.Booking, error) {
	return nil, nil
}
func (stubBookings) UpdateStatus(context.Context, int64, domain.BookingStatus) error {
	return ErrStubBackend
}
func (stubBookings) SetPaymentIntent(context.Context, int64, string) error { return ErrStubBackend }

type stubMessages struct{}

func (stubMessages) Create(context.Context, *domain.Message) error { return ErrStubBackend }
func (stubMessages) Conversation(context.Context, string, string) ([]domain.Message, error) {
	return nil, nil
}
func (stubMessages) Partners(context.Context, string) ([]string, error) { return nil, nil }
func (stubMessages) RecentReceived(context.Context, string, int) ([]domain.Message, error) {
	return nil, nil
}

type stubStorage struct{}

func (stubStorage) Upload(context.Context, string, string, io.Reader) (string, error) {
	return "", ErrStubBackend
}
func (stubStorage) Delete(context.Context, string) error { return ErrStubBackend }
func (stubStorage) KeyFromURL(string) string             { return "" }

type stubFunctions struct{}

func (stubFunctions) Invoke(context.Context, string, *session.Session) (any, error) {
	return nil, ErrStubBackend
}

var (
	_ Client      = (*Stub)(nil)
	_ Client      = (*remote)(nil)
	_ auth.Client = stubAuth{}
)
