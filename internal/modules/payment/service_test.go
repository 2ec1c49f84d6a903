package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"glowbook/internal/backend/backendtest"
	"glowbook/internal/domain"
	"glowbook/internal/middleware"
	"glowbook/internal/modules/booking"
	"glowbook/internal/session"
)

type fixture struct {
	env      *backendtest.Env
	bookings *booking.Service
	customer *session.Session
	booking  *domain.Booking
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	env := backendtest.New(t)
	c := env.Client
	ctx := context.Background()

	customer := env.User(t, domain.RoleCustomer, "Cleo")
	beautician := env.User(t, domain.RoleBeautician, "Anna")
	svc := &domain.Service{BeauticianID: beautician.UserID(), Name: "Manicure", Category: "Nails", Price: 40, IsActive: true}
	require.NoError(t, c.Services().Save(ctx, svc))

	bookings := booking.NewService(c.Bookings(), c.Services(), c.Profiles(), true, zap.NewNop())
	date := time.Now().UTC().AddDate(0, 0, 3).Format("2006-01-02")
	b, err := bookings.Create(ctx, customer.UserID(), svc.ID, booking.CreateBookingRequest{Date: date, TimeSlot: "11:00 AM"})
	require.NoError(t, err)

	return &fixture{env: env, bookings: bookings, customer: customer, booking: b}
}

func (f *fixture) service(g Gateway) *Service {
	return NewService(f.bookings, f.env.Client.Bookings(), g, Options{Currency: "usd", PublishableKey: "pk_test"}, zap.NewNop())
}

type pendingGateway struct {
	created int
}

func (g *pendingGateway) Name() string { return "pending" }

func (g *pendingGateway) CreateIntent(_ context.Context, bookingID int64, _ float64) (*Intent, error) {
	g.created++
	id := "pi_pending_" + strconv.FormatInt(bookingID, 10)
	return &Intent{ID: id, ClientSecret: id + "_secret", Status: "requires_payment_method"}, nil
}

func (g *pendingGateway) GetIntent(_ context.Context, id string) (*Intent, error) {
	return &Intent{ID: id, ClientSecret: id + "_secret", Status: "requires_payment_method"}, nil
}

func TestScreen_CreatesIntentOnce(t *testing.T) {
	f := newFixture(t)
	g := &pendingGateway{}
	svc := f.service(g)
	ctx := context.Background()

	view, err := svc.Screen(ctx, f.customer.UserID(), f.booking.ID)
	require.NoError(t, err)
	assert.Equal(t, 42.0, view.Amount)
	assert.False(t, view.Paid)
	assert.Equal(t, "pk_test", view.PublishableKey)
	assert.Equal(t, "pi_pending_"+strconv.FormatInt(f.booking.ID, 10)+"_secret", view.ClientSecret)

	_, err = svc.Screen(ctx, f.customer.UserID(), f.booking.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, g.created)

	stored, err := f.env.Client.Bookings().GetByID(ctx, f.booking.ID)
	require.NoError(t, err)
	assert.Equal(t, "pi_pending_"+strconv.FormatInt(f.booking.ID, 10), stored.PaymentIntentID)
}

func TestPay_IncompleteIntentKeepsBookingPending(t *testing.T) {
	f := newFixture(t)
	svc := f.service(&pendingGateway{})

	err := svc.Pay(context.Background(), f.customer.UserID(), f.booking.ID)
	assert.ErrorIs(t, err, ErrPaymentIncomplete)

	stored, err := f.env.Client.Bookings().GetByID(context.Background(), f.booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingPendingPayment, stored.Status)
}

func TestPay_SimulatedConfirmsBooking(t *testing.T) {
	f := newFixture(t)
	svc := f.service(SimulatedGateway{})
	ctx := context.Background()

	require.NoError(t, svc.Pay(ctx, f.customer.UserID(), f.booking.ID))
	require.NoError(t, svc.Pay(ctx, f.customer.UserID(), f.booking.ID))

	view, err := svc.Screen(ctx, f.customer.UserID(), f.booking.ID)
	require.NoError(t, err)
	assert.True(t, view.Paid)
	assert.Equal(t, domain.BookingConfirmed, view.Booking.Status)
	assert.Empty(t, view.ClientSecret)
}

func TestPay_CancelledAndForeignBookings(t *testing.T) {
	f := newFixture(t)
	svc := f.service(SimulatedGateway{})
	ctx := context.Background()

	other := f.env.User(t, domain.RoleCustomer, "Mia")
	assert.ErrorIs(t, svc.Pay(ctx, other.UserID(), f.booking.ID), booking.ErrBookingNotFound)

	require.NoError(t, f.bookings.Cancel(ctx, f.customer.UserID(), f.booking.ID))
	assert.ErrorIs(t, svc.Pay(ctx, f.customer.UserID(), f.booking.ID), ErrNotPayable)
	_, err := svc.Screen(ctx, f.customer.UserID(), f.booking.ID)
	assert.ErrorIs(t, err, ErrNotPayable)
}

func TestHandler_PayNavigatesToConfirmation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	f := newFixture(t)
	sessions := &backendtest.Sessions{Current: f.customer}

	r := gin.New()
	NewHandler(f.service(SimulatedGateway{}), zap.NewNop()).
		RegisterCustomerRoutes(r.Group("/", middleware.RoleRestricted(sessions, domain.RoleCustomer).Middleware()))

	path := "/payment/" + strconv.FormatInt(f.booking.ID, 10)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"provider":"simulated"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redirect":"/booking-confirmation/`+strconv.FormatInt(f.booking.ID, 10)+`"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/payment/999999", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
