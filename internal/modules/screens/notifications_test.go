package screens

import (
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glowbook/internal/domain"
	"glowbook/internal/modules/booking"
)

func TestNotifier_BookingsAndMessages(t *testing.T) {
	f := newScreenFixture(t)
	ctx := context.Background()
	c := f.env.Client

	svc := &domain.Service{BeauticianID: f.beautician.UserID(), Name: "Classic Manicure", Category: "Nails", Price: 20, IsActive: true}
	require.NoError(t, c.Services().Save(ctx, svc))
	date := time.Now().UTC().AddDate(0, 0, 5).Format("2006-01-02")
	b, err := f.bookings.Create(ctx, f.customer.UserID(), svc.ID, booking.CreateBookingRequest{Date: date, TimeSlot: "10:00 AM"})
	require.NoError(t, err)
	require.NoError(t, f.bookings.Confirm(ctx, f.customer.UserID(), b.ID))
	require.NoError(t, c.Messages().Create(ctx, &domain.Message{SenderID: f.beautician.UserID(), ReceiverID: f.customer.UserID(), Content: "See you soon"}))

	n := NewNotifier(f.bookings, c.Messages(), c.Profiles())

	all, err := n.List(ctx, f.customer.UserID(), domain.RoleCustomer, "all")
	require.NoError(t, err)
	require.Len(t, all.Notifications, 2)

	onlyBookings, err := n.List(ctx, f.customer.UserID(), domain.RoleCustomer, KindBooking)
	require.NoError(t, err)
	require.Len(t, onlyBookings.Notifications, 1)
	assert.Contains(t, onlyBookings.Notifications[0].Message, "Your Classic Manicure with Anna is confirmed for")
	assert.Equal(t, "/booking/"+itoa(b.ID), onlyBookings.Notifications[0].Link)

	onlyMessages, err := n.List(ctx, f.customer.UserID(), domain.RoleCustomer, KindMessage)
	require.NoError(t, err)
	require.Len(t, onlyMessages.Notifications, 1)
	assert.Equal(t, "Anna sent you a new message.", onlyMessages.Notifications[0].Message)
	assert.Equal(t, "/chat/"+f.beautician.UserID(), onlyMessages.Notifications[0].Link)

	forBeautician, err := n.List(ctx, f.beautician.UserID(), domain.RoleBeautician, "bogus")
	require.NoError(t, err)
	assert.Equal(t, FilterAll, forBeautician.Filter)
	require.Len(t, forBeautician.Notifications, 1)
	assert.Contains(t, forBeautician.Notifications[0].Message, "with Cleo")
	assert.Equal(t, "/beautician/calendar?date="+date, forBeautician.Notifications[0].Link)
}

func TestNotificationsScreen_Empty(t *testing.T) {
	f := newScreenFixture(t)
	w := do(f.router(f.customer), http.MethodGet, "/notifications?filter=message", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"notifications":[]`)
	assert.Contains(t, w.Body.String(), `"filter":"message"`)
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
