package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"glowbook/internal/domain"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID              int64     `gorm:"column:id;primaryKey"`
	CustomerID      string    `gorm:"column:customer_id"`
	BeauticianID    string    `gorm:"column:beautician_id"`
	ServiceID       int64     `gorm:"column:service_id"`
	BookingTime     time.Time `gorm:"column:booking_time"`
	Status          string    `gorm:"column:status"`
	TotalPrice      float64   `gorm:"column:total_price"`
	SpecialRequests *string   `gorm:"column:special_requests"`
	PaymentIntentID *string   `gorm:"column:payment_intent_id"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	b := &domain.Booking{
		ID:           m.ID,
		CustomerID:   m.CustomerID,
		BeauticianID: m.BeauticianID,
		ServiceID:    m.ServiceID,
		BookingTime:  m.BookingTime,
		Status:       domain.BookingStatus(m.Status),
		TotalPrice:   m.TotalPrice,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.SpecialRequests != nil {
		b.SpecialRequests = *m.SpecialRequests
	}
	if m.PaymentIntentID != nil {
		b.PaymentIntentID = *m.PaymentIntentID
	}
	return b
}

func toBookingModel(b *domain.Booking) bookingModel {
	return bookingModel{
		ID:              b.ID,
		CustomerID:      b.CustomerID,
		BeauticianID:    b.BeauticianID,
		ServiceID:       b.ServiceID,
		BookingTime:     b.BookingTime,
		Status:          string(b.Status),
		TotalPrice:      b.TotalPrice,
		SpecialRequests: optional(b.SpecialRequests),
		PaymentIntentID: optional(b.PaymentIntentID),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, notFound(err)
	}
	return toDomainBooking(m), nil
}

// ListByCustomer returns the customer's bookings, soonest first. Empty
// statuses means all statuses.
func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID string, statuses ...domain.BookingStatus) ([]domain.Booking, error) {
	q := r.db.WithContext(ctx).Where("customer_id = ?", customerID)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	return r.find(q.Order("booking_time ASC"))
}

// ListByBeautician returns bookings in [from, to) ordered by time. Zero bounds are open.
func (r *BookingRepository) ListByBeautician(ctx context.Context, beauticianID string, from, to time.Time, statuses ...domain.BookingStatus) ([]domain.Booking, error) {
	q := r.db.WithContext(ctx).Where("beautician_id = ?", beauticianID)
	if !from.IsZero() {
		q = q.Where("booking_time >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("booking_time < ?", to)
	}
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	return r.find(q.Order("booking_time ASC"))
}

func (r *BookingRepository) find(q *gorm.DB) ([]domain.Booking, error) {
	var rows []bookingModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	return r.update(ctx, id, map[string]any{"status": string(status)})
}

func (r *BookingRepository) SetPaymentIntent(ctx context.Context, id int64, intentID string) error {
	return r.update(ctx, id, map[string]any{"payment_intent_id": intentID})
}

func (r *BookingRepository) update(ctx context.Context, id int64, updates map[string]any) error {
	updates["updated_at"] = time.Now()
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
