package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidBookingTransition(t *testing.T) {
	assert.True(t, ValidBookingTransition(BookingPendingPayment, BookingConfirmed))
	assert.True(t, ValidBookingTransition(BookingConfirmed, BookingCompleted))
	assert.True(t, ValidBookingTransition(BookingConfirmed, BookingCancelled))
	assert.True(t, ValidBookingTransition(BookingCancelled, BookingCancelled))

	assert.False(t, ValidBookingTransition(BookingCancelled, BookingConfirmed))
	assert.False(t, ValidBookingTransition(BookingCompleted, BookingPendingPayment))
	assert.False(t, ValidBookingTransition(BookingStatus("unknown"), BookingConfirmed))
}

func TestTotalWithTax(t *testing.T) {
	assert.Equal(t, 105.0, TotalWithTax(100))
	assert.Equal(t, 47.25, TotalWithTax(45))
	assert.Equal(t, 0.0, TotalWithTax(0))
}

func TestUserRoleValid(t *testing.T) {
	assert.True(t, RoleCustomer.Valid())
	assert.True(t, RoleBeautician.Valid())
	assert.False(t, UserRole("admin").Valid())
	assert.False(t, UserRole("").Valid())
}
