package payment

import "errors"

var (
	ErrNotPayable        = errors.New("booking is not awaiting payment")
	ErrPaymentIncomplete = errors.New("payment has not succeeded")
	ErrIntentNotFound    = errors.New("payment intent not found")
)
