package domain

import "time"

// RefreshToken is one link in a user's rotation chain. The raw token never
// reaches the database, only its peppered SHA-256 hash. A rotated row is
// revoked and records the id of the row that replaced it.
type RefreshToken struct {
	ID           int64      `json:"id" gorm:"primaryKey"`
	UserID       string     `json:"user_id" gorm:"size:36;index;not null"`
	TokenHash    string     `json:"-" gorm:"size:64;uniqueIndex;not null"`
	ExpiresAt    time.Time  `json:"expires_at" gorm:"index;not null"`
	RevokedAt    *time.Time `json:"revoked_at,omitempty"`
	ReplacedByID *int64     `json:"replaced_by_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (RefreshToken) TableName() string { return "refresh_tokens" }

// Active reports whether the token can still be exchanged at now.
func (t *RefreshToken) Active(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}
