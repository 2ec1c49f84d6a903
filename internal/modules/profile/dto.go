package profile

import "glowbook/internal/domain"

type CompleteProfileRequest struct {
	UserType string `json:"user_type" form:"user_type" binding:"required"`
	FullName string `json:"full_name" form:"full_name" binding:"required"`
	Phone    string `json:"phone" form:"phone"`
	Location string `json:"location" form:"location"`
}

// UpdateProfileRequest is the settings form. Specialization and Bio are
// ignored for customers.
type UpdateProfileRequest struct {
	FullName       string `json:"full_name" form:"full_name" binding:"required"`
	Phone          string `json:"phone" form:"phone"`
	Location       string `json:"location" form:"location"`
	Specialization string `json:"specialization" form:"specialization"`
	Bio            string `json:"bio" form:"bio"`
}

type CompleteProfileView struct {
	Email     string            `json:"email"`
	FullName  string            `json:"full_name"`
	UserType  domain.UserRole   `json:"user_type,omitempty"`
	UserTypes []domain.UserRole `json:"user_types"`
}

type SettingsView struct {
	Email   string          `json:"email"`
	Profile *domain.Profile `json:"profile"`
}
