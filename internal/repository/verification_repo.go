package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"glowbook/internal/domain"
)

type VerificationCodeRepository struct {
	db *gorm.DB
}

func NewVerificationCodeRepository(db *gorm.DB) *VerificationCodeRepository {
	return &VerificationCodeRepository{db: db}
}

func (r *VerificationCodeRepository) Get(ctx context.Context, userID string, purpose domain.VerificationPurpose) (*domain.VerificationCode, error) {
	var v domain.VerificationCode
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND purpose = ?", userID, purpose).
		First(&v).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &v, nil
}

// Upsert replaces the code for (user, purpose) and resets attempts.
func (r *VerificationCodeRepository) Upsert(ctx context.Context, v *domain.VerificationCode) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "purpose"}},
		DoUpdates: clause.Assignments(map[string]any{
			"code_hash":    v.CodeHash,
			"attempts":     0,
			"last_sent_at": v.LastSentAt,
			"expires_at":   v.ExpiresAt,
			"used_at":      nil,
		}),
	}).Create(v).Error
}

func (r *VerificationCodeRepository) IncrementAttempts(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&domain.VerificationCode{}).
		Where("id = ?", id).
		Update("attempts", gorm.Expr("attempts + 1")).Error
}

func (r *VerificationCodeRepository) MarkUsed(ctx context.Context, id int64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.VerificationCode{}).
		Where("id = ?", id).
		Update("used_at", at).Error
}

func (r *VerificationCodeRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("expires_at < ? OR used_at IS NOT NULL", time.Now().UTC()).
		Delete(&domain.VerificationCode{})
	return tx.RowsAffected, tx.Error
}
