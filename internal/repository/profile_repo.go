package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"glowbook/internal/domain"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	var p domain.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// Upsert inserts the profile or overwrites its editable columns. The avatar
// is left alone; it has its own write path.
func (r *ProfileRepository) Upsert(ctx context.Context, p *domain.Profile) error {
	p.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"full_name", "user_type", "phone", "location", "specialization", "bio", "updated_at",
		}),
	}).Create(p).Error
}

func (r *ProfileRepository) UpdateAvatar(ctx context.Context, id, url string) error {
	tx := r.db.WithContext(ctx).Model(&domain.Profile{}).
		Where("id = ?", id).
		Updates(map[string]any{"avatar_url": url, "updated_at": time.Now()})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProfileRepository) ListByRole(ctx context.Context, role domain.UserRole, limit int) ([]domain.Profile, error) {
	var out []domain.Profile
	q := r.db.WithContext(ctx).Where("user_type = ?", role).Order("full_name ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ProfileRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Profile, error) {
	if len(ids) == 0 {
		return []domain.Profile{}, nil
	}
	var out []domain.Profile
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
