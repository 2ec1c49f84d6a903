package domain

import "time"

type UserRole string

const (
	RoleCustomer   UserRole = "customer"
	RoleBeautician UserRole = "beautician"
)

func (r UserRole) Valid() bool {
	return r == RoleCustomer || r == RoleBeautician
}

// User is the auth-owned account row. Profiles hold everything shown to other users.
type User struct {
	ID               string     `json:"id" gorm:"primaryKey;size:36"`
	Email            string     `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash     string     `json:"-"`
	Role             UserRole   `json:"user_type" gorm:"column:user_type;size:20"`
	FullName         string     `json:"full_name"`
	Provider         string     `json:"provider" gorm:"size:20;default:email"`
	EmailConfirmedAt *time.Time `json:"email_confirmed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) EmailConfirmed() bool {
	return u.EmailConfirmedAt != nil
}
