package domain

import "time"

// Profile is the public face of a user. Its ID equals the owning user's ID.
type Profile struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	FullName       string    `json:"full_name"`
	AvatarURL      string    `json:"avatar_url,omitempty"`
	UserType       UserRole  `json:"user_type" gorm:"column:user_type;size:20;index"`
	Phone          string    `json:"phone,omitempty"`
	Location       string    `json:"location,omitempty"`
	Specialization string    `json:"specialization,omitempty"`
	Bio            string    `json:"bio,omitempty" gorm:"type:text"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }
