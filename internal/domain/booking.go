package domain

import (
	"math"
	"time"
)

type BookingStatus string

const (
	BookingPendingPayment BookingStatus = "pending_payment"
	BookingConfirmed      BookingStatus = "confirmed"
	BookingCompleted      BookingStatus = "completed"
	BookingCancelled      BookingStatus = "cancelled"
)

// TaxRate is added on top of the service price when a booking is created.
const TaxRate = 0.05

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPendingPayment, BookingConfirmed, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

type Booking struct {
	ID              int64         `json:"id" gorm:"primaryKey"`
	CustomerID      string        `json:"customer_id" gorm:"size:36;index;not null"`
	BeauticianID    string        `json:"beautician_id" gorm:"size:36;index;not null"`
	ServiceID       int64         `json:"service_id" gorm:"index;not null"`
	BookingTime     time.Time     `json:"booking_time" gorm:"index;not null"`
	Status          BookingStatus `json:"status" gorm:"size:20;index;not null"`
	TotalPrice      float64       `json:"total_price" gorm:"type:decimal(10,2);not null"`
	SpecialRequests string        `json:"special_requests,omitempty" gorm:"type:text"`
	PaymentIntentID string        `json:"payment_intent_id,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`

	Service    *Service `json:"service,omitempty" gorm:"-"`
	Customer   *Profile `json:"customer,omitempty" gorm:"-"`
	Beautician *Profile `json:"beautician,omitempty" gorm:"-"`
}

func (Booking) TableName() string { return "bookings" }

// TotalWithTax returns price plus tax, rounded to cents.
func TotalWithTax(price float64) float64 {
	return math.Round(price*(1+TaxRate)*100) / 100
}
