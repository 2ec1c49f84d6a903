package booking

import (
	"context"
	"time"

	"glowbook/internal/domain"
)

type BookingStore interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByCustomer(ctx context.Context, customerID string, statuses ...domain.BookingStatus) ([]domain.Booking, error)
	ListByBeautician(ctx context.Context, beauticianID string, from, to time.Time, statuses ...domain.BookingStatus) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
}

type ServiceReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

type ProfileReader interface {
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.Profile, error)
}
