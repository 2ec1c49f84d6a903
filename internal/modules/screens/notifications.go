package screens

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"glowbook/internal/domain"
)

const recentMessagesLimit = 20

var notificationFilters = []string{FilterAll, KindBooking, KindMessage}

// Notifier derives the notification list from bookings and received messages.
// Nothing is stored.
type Notifier struct {
	bookings bookingFeed
	messages messageFeed
	profiles profileLookup
}

func NewNotifier(bookings bookingFeed, messages messageFeed, profiles profileLookup) *Notifier {
	return &Notifier{bookings: bookings, messages: messages, profiles: profiles}
}

// List returns the user's notifications, newest first. Unknown filters show all.
func (n *Notifier) List(ctx context.Context, userID string, role domain.UserRole, filter string) (*NotificationsView, error) {
	if filter != KindBooking && filter != KindMessage {
		filter = FilterAll
	}

	var out []Notification
	if filter != KindMessage {
		list, err := n.bookings.ForUser(ctx, userID, role)
		if err != nil {
			return nil, fmt.Errorf("load bookings: %w", err)
		}
		for _, b := range list {
			out = append(out, bookingNotification(b, role))
		}
	}
	if filter != KindBooking {
		msgs, err := n.messageNotifications(ctx, userID)
		if err != nil {
			return nil, err
		}
		out = append(out, msgs...)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if out == nil {
		out = []Notification{}
	}
	return &NotificationsView{Filter: filter, Filters: notificationFilters, Notifications: out}, nil
}

func (n *Notifier) messageNotifications(ctx context.Context, userID string) ([]Notification, error) {
	msgs, err := n.messages.RecentReceived(ctx, userID, recentMessagesLimit)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	if len(msgs) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(msgs))
	for _, m := range msgs {
		ids = append(ids, m.SenderID)
	}
	profiles, err := n.profiles.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load senders: %w", err)
	}
	names := make(map[string]string, len(profiles))
	for _, p := range profiles {
		names[p.ID] = p.FullName
	}

	out := make([]Notification, 0, len(msgs))
	for _, m := range msgs {
		name := names[m.SenderID]
		if name == "" {
			name = "Someone"
		}
		out = append(out, Notification{
			ID:        "message-" + strconv.FormatInt(m.ID, 10),
			Kind:      KindMessage,
			Message:   name + " sent you a new message.",
			Link:      "/chat/" + m.SenderID,
			CreatedAt: m.CreatedAt,
		})
	}
	return out, nil
}

func bookingNotification(b domain.Booking, role domain.UserRole) Notification {
	serviceName := "appointment"
	if b.Service != nil {
		serviceName = b.Service.Name
	}
	counterpart, link := b.Beautician, "/booking/"+strconv.FormatInt(b.ID, 10)
	if role == domain.RoleBeautician {
		counterpart, link = b.Customer, "/beautician/calendar?date="+b.BookingTime.UTC().Format("2006-01-02")
	}
	with := ""
	if counterpart != nil && counterpart.FullName != "" {
		with = " with " + counterpart.FullName
	}
	when := b.BookingTime.UTC().Format("Jan 2, 3:04 PM")

	var msg string
	switch b.Status {
	case domain.BookingPendingPayment:
		msg = fmt.Sprintf("Your %s%s on %s is awaiting payment.", serviceName, with, when)
	case domain.BookingConfirmed:
		msg = fmt.Sprintf("Your %s%s is confirmed for %s.", serviceName, with, when)
	case domain.BookingCompleted:
		msg = fmt.Sprintf("Your %s%s on %s is completed.", serviceName, with, when)
	case domain.BookingCancelled:
		msg = fmt.Sprintf("Your %s%s on %s was cancelled.", serviceName, with, when)
	default:
		msg = fmt.Sprintf("Your %s%s on %s was updated.", serviceName, with, when)
	}

	return Notification{
		ID:        "booking-" + strconv.FormatInt(b.ID, 10) + "-" + string(b.Status),
		Kind:      KindBooking,
		Message:   msg,
		Link:      link,
		CreatedAt: b.UpdatedAt,
	}
}
