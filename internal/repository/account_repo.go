package repository

import (
	"context"

	"gorm.io/gorm"

	"glowbook/internal/domain"
)

// AccountRepository removes everything a user owns in one transaction.
type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Purge(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		steps := []struct {
			model any
			where string
			args  []any
		}{
			{&domain.Message{}, "sender_id = ? OR receiver_id = ?", []any{userID, userID}},
			{&domain.Booking{}, "customer_id = ? OR beautician_id = ?", []any{userID, userID}},
			{&domain.Service{}, "beautician_id = ?", []any{userID}},
			{&domain.RefreshToken{}, "user_id = ?", []any{userID}},
			{&domain.VerificationCode{}, "user_id = ?", []any{userID}},
			{&domain.Profile{}, "id = ?", []any{userID}},
		}
		for _, s := range steps {
			if err := tx.Where(s.where, s.args...).Delete(s.model).Error; err != nil {
				return err
			}
		}

		res := tx.Where("id = ?", userID).Delete(&domain.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
