package domain

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPendingPayment: {BookingConfirmed, BookingCancelled},
	BookingConfirmed:      {BookingCompleted, BookingCancelled},
	BookingCompleted:      {},
	BookingCancelled:      {},
}

// ValidBookingTransition reports whether a booking may move from one status
// to another under strict transition rules.
func ValidBookingTransition(from, to BookingStatus) bool {
	if from == to {
		return true
	}
	allowed, ok := bookingTransitions[from]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == to {
			return true
		}
	}
	return false
}
