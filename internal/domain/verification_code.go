package domain

import "time"

type VerificationPurpose string

const (
	PurposeSignup   VerificationPurpose = "signup"
	PurposeRecovery VerificationPurpose = "recovery"
)

// VerificationCode is a one-time six digit code mailed to the user. One row
// per (user, purpose); a resend replaces the hash.
type VerificationCode struct {
	ID         int64               `gorm:"primaryKey"`
	UserID     string              `gorm:"size:36;uniqueIndex:idx_verification_user_purpose;not null"`
	Purpose    VerificationPurpose `gorm:"size:20;uniqueIndex:idx_verification_user_purpose;not null"`
	CodeHash   string              `gorm:"size:64;not null"`
	Attempts   int                 `gorm:"not null;default:0"`
	LastSentAt time.Time           `gorm:"not null"`
	ExpiresAt  time.Time           `gorm:"index;not null"`
	UsedAt     *time.Time
	CreatedAt  time.Time
}

func (VerificationCode) TableName() string { return "verification_codes" }

func (v *VerificationCode) Usable(now time.Time) bool {
	return v.UsedAt == nil && v.ExpiresAt.After(now)
}
