// Package backend is the single data-access facade used by screens and the
// chat bridge: auth, tables, realtime channels, functions and storage.
package backend

import (
	"context"
	"errors"
	"time"

	"glowbook/internal/domain"
	"glowbook/internal/modules/auth"
	"glowbook/internal/realtime"
	"glowbook/internal/repository"
	"glowbook/internal/session"
	"glowbook/internal/storage"
)

// ErrStubBackend is returned by every write on the stub client.
var ErrStubBackend = errors.New("backend not configured")

type ProfileTable interface {
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	Upsert(ctx context.Context, p *domain.Profile) error
	UpdateAvatar(ctx context.Context, id, url string) error
	ListByRole(ctx context.Context, role domain.UserRole, limit int) ([]domain.Profile, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.Profile, error)
}

type ServiceTable interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	List(ctx context.Context, f repository.ServiceFilter) ([]domain.Service, error)
	Save(ctx context.Context, s *domain.Service) error
	Delete(ctx context.Context, id int64, beauticianID string) error
}

type BookingTable interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByCustomer(ctx context.Context, customerID string, statuses ...domain.BookingStatus) ([]domain.Booking, error)
	ListByBeautician(ctx context.Context, beauticianID string, from, to time.Time, statuses ...domain.BookingStatus) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	SetPaymentIntent(ctx context.Context, id int64, intentID string) error
}

// MessageTable inserts also publish an INSERT event on the pair's chat channel.
type MessageTable interface {
	Create(ctx context.Context, m *domain.Message) error
	Conversation(ctx context.Context, a, b string) ([]domain.Message, error)
	Partners(ctx context.Context, userID string) ([]string, error)
	RecentReceived(ctx context.Context, userID string, limit int) ([]domain.Message, error)
}

type Functions interface {
	Invoke(ctx context.Context, name string, sess *session.Session) (any, error)
}

// Client is implemented by the configured backend and by Stub.
type Client interface {
	Auth() auth.Client
	Profiles() ProfileTable
	Services() ServiceTable
	Bookings() BookingTable
	Messages() MessageTable
	Realtime() realtime.Broker
	Storage() storage.Storage
	Functions() Functions
	Configured() bool
	Close() error
}
