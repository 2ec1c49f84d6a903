package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"glowbook/internal/domain"
)

// ServiceFilter narrows catalog queries. Zero values mean "no filter".
type ServiceFilter struct {
	Query        string
	Category     string
	BeauticianID string
	ActiveOnly   bool
	Limit        int
}

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	var s domain.Service
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

// likeEscaper makes user input match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func (r *ServiceRepository) List(ctx context.Context, f ServiceFilter) ([]domain.Service, error) {
	q := r.db.WithContext(ctx).Model(&domain.Service{})
	if query := strings.TrimSpace(f.Query); query != "" {
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(strings.ToLower(query))+"%")
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.BeauticianID != "" {
		q = q.Where("beautician_id = ?", f.BeauticianID)
	}
	if f.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var out []domain.Service
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Save creates the service when it has no ID, otherwise updates the row owned
// by the same beautician.
func (r *ServiceRepository) Save(ctx context.Context, s *domain.Service) error {
	if s.ID == 0 {
		return r.db.WithContext(ctx).Create(s).Error
	}

	tx := r.db.WithContext(ctx).Model(&domain.Service{}).
		Where("id = ? AND beautician_id = ?", s.ID, s.BeauticianID).
		Updates(map[string]any{
			"name":        s.Name,
			"category":    s.Category,
			"price":       s.Price,
			"duration":    s.Duration,
			"description": s.Description,
			"is_active":   s.IsActive,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ServiceRepository) Delete(ctx context.Context, id int64, beauticianID string) error {
	tx := r.db.WithContext(ctx).
		Where("id = ? AND beautician_id = ?", id, beauticianID).
		Delete(&domain.Service{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
