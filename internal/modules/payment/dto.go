package payment

import "glowbook/internal/domain"

// ScreenView feeds the payment widget.
type ScreenView struct {
	Booking        *domain.Booking `json:"booking"`
	Amount         float64         `json:"amount"`
	Currency       string          `json:"currency"`
	Provider       string          `json:"provider"`
	Paid           bool            `json:"paid"`
	ClientSecret   string          `json:"client_secret,omitempty"`
	PublishableKey string          `json:"publishable_key,omitempty"`
}
