package screens

import (
	"time"

	"glowbook/internal/domain"
)

// ResetPasswordRequest carries the emailed recovery code with the new password.
type ResetPasswordRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Code     string `json:"code" form:"code" binding:"required"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" form:"email" binding:"required,email"`
	Code  string `json:"code" form:"code" binding:"required"`
}

type ResendRequest struct {
	Email string `json:"email" form:"email" binding:"required,email"`
}

type WelcomeView struct {
	Title   string   `json:"title"`
	Tagline string   `json:"tagline"`
	Actions []string `json:"actions"`
}

type RegisterFormView struct {
	UserTypes []domain.UserRole `json:"user_types"`
}

type EmailFormView struct {
	Email string `json:"email,omitempty"`
	Code  string `json:"code,omitempty"`
}

type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type SupportView struct {
	FAQs         []FAQ  `json:"faqs"`
	ContactEmail string `json:"contact_email"`
}

const (
	KindBooking = "booking"
	KindMessage = "message"

	FilterAll = "all"
)

type Notification struct {
	ID        string    `json:"id"`
	Kind      string    `json:"type"`
	Message   string    `json:"message"`
	Link      string    `json:"link"`
	CreatedAt time.Time `json:"created_at"`
}

type NotificationsView struct {
	Filter        string         `json:"filter"`
	Filters       []string       `json:"filters"`
	Notifications []Notification `json:"notifications"`
}
