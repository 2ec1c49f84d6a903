package booking

import "errors"

var (
	ErrValidation        = errors.New("validation error")
	ErrServiceNotFound   = errors.New("service not found")
	ErrServiceInactive   = errors.New("service is not bookable")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrInvalidStatus     = errors.New("invalid booking status")
	ErrInvalidTransition = errors.New("booking status change not allowed")
)
