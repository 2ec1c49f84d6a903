package booking

import "glowbook/internal/domain"

// TimeSlots are the start times offered on the booking screen.
var TimeSlots = []string{"09:00 AM", "10:00 AM", "11:00 AM", "02:00 PM", "03:00 PM", "04:00 PM"}

const (
	TabUpcoming  = "upcoming"
	TabCompleted = "completed"
	TabCancelled = "cancelled"
)

type CreateBookingRequest struct {
	Date            string `json:"date" form:"date" binding:"required"`
	TimeSlot        string `json:"time_slot" form:"time_slot" binding:"required"`
	SpecialRequests string `json:"special_requests" form:"special_requests"`
}

type UpdateStatusRequest struct {
	Status domain.BookingStatus `json:"status" form:"status" binding:"required"`
}

type BookView struct {
	Service   *domain.Service `json:"service"`
	TimeSlots []string        `json:"time_slots"`
	Tax       float64         `json:"tax"`
	Total     float64         `json:"total"`
}

type ListView struct {
	Tab      string           `json:"tab"`
	Tabs     []string         `json:"tabs"`
	Bookings []domain.Booking `json:"bookings"`
}

type CalendarView struct {
	Date     string           `json:"date"`
	Bookings []domain.Booking `json:"bookings"`
}

type DashboardView struct {
	Profile *domain.Profile  `json:"profile"`
	Today   []domain.Booking `json:"today"`
}
