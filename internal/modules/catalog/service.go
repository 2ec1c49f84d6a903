package catalog

import (
	"context"
	"errors"
	"slices"
	"strings"

	"glowbook/internal/domain"
	"glowbook/internal/repository"
)

const (
	featuredLimit = 3
	searchLimit   = 50
)

type serviceStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	List(ctx context.Context, f repository.ServiceFilter) ([]domain.Service, error)
	Save(ctx context.Context, s *domain.Service) error
	Delete(ctx context.Context, id int64, beauticianID string) error
}

type profileReader interface {
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	ListByRole(ctx context.Context, role domain.UserRole, limit int) ([]domain.Profile, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.Profile, error)
}

type Service struct {
	services serviceStore
	profiles profileReader
}

func NewService(services serviceStore, profiles profileReader) *Service {
	return &Service{services: services, profiles: profiles}
}

// Search matches active services by name, case-insensitively, and category.
func (s *Service) Search(ctx context.Context, query, category string) ([]domain.Service, error) {
	out, err := s.services.List(ctx, repository.ServiceFilter{
		Query:      query,
		Category:   category,
		ActiveOnly: true,
		Limit:      searchLimit,
	})
	if err != nil {
		return nil, err
	}
	return out, s.attachBeauticians(ctx, out)
}

// Featured returns the newest services and some beauticians for the dashboard.
func (s *Service) Featured(ctx context.Context) (*FeaturedView, error) {
	services, err := s.services.List(ctx, repository.ServiceFilter{ActiveOnly: true, Limit: featuredLimit})
	if err != nil {
		return nil, err
	}
	if err := s.attachBeauticians(ctx, services); err != nil {
		return nil, err
	}
	beauticians, err := s.profiles.ListByRole(ctx, domain.RoleBeautician, featuredLimit)
	if err != nil {
		return nil, err
	}
	return &FeaturedView{Services: services, Beauticians: beauticians}, nil
}

func (s *Service) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	svc, err := s.services.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, err
	}
	p, err := s.profiles.GetByID(ctx, svc.BeauticianID)
	switch {
	case err == nil:
		svc.Beautician = p
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}
	return svc, nil
}

// Beautician returns a beautician's public profile with active services.
func (s *Service) Beautician(ctx context.Context, id string) (*BeauticianView, error) {
	p, err := s.profiles.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrBeauticianNotFound
	}
	if err != nil {
		return nil, err
	}
	if p.UserType != domain.RoleBeautician {
		return nil, ErrBeauticianNotFound
	}

	services, err := s.services.List(ctx, repository.ServiceFilter{BeauticianID: id, ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	return &BeauticianView{Profile: p, Services: services}, nil
}

// OwnServices lists all of a beautician's services, inactive ones included.
func (s *Service) OwnServices(ctx context.Context, beauticianID string) ([]domain.Service, error) {
	return s.services.List(ctx, repository.ServiceFilter{BeauticianID: beauticianID})
}

// OwnService loads a service for editing. Services of other beauticians are
// reported as not found.
func (s *Service) OwnService(ctx context.Context, beauticianID string, id int64) (*domain.Service, error) {
	svc, err := s.services.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, err
	}
	if svc.BeauticianID != beauticianID {
		return nil, ErrServiceNotFound
	}
	return svc, nil
}

// SaveService creates the service when id is 0 and updates it otherwise.
func (s *Service) SaveService(ctx context.Context, beauticianID string, id int64, req SaveServiceRequest) (*domain.Service, error) {
	category := strings.TrimSpace(req.Category)
	if !slices.Contains(domain.ServiceCategories, category) {
		return nil, ErrInvalidCategory
	}
	if req.Price <= 0 {
		return nil, ErrInvalidPrice
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	svc := &domain.Service{
		ID:           id,
		BeauticianID: beauticianID,
		Name:         strings.TrimSpace(req.Name),
		Category:     category,
		Price:        req.Price,
		Duration:     strings.TrimSpace(req.Duration),
		Description:  strings.TrimSpace(req.Description),
		IsActive:     active,
	}
	if err := s.services.Save(ctx, svc); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	return svc, nil
}

func (s *Service) DeleteService(ctx context.Context, beauticianID string, id int64) error {
	err := s.services.Delete(ctx, id, beauticianID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrServiceNotFound
	}
	return err
}

func (s *Service) attachBeauticians(ctx context.Context, services []domain.Service) error {
	if len(services) == 0 {
		return nil
	}
	ids := make([]string, 0, len(services))
	for _, svc := range services {
		if !slices.Contains(ids, svc.BeauticianID) {
			ids = append(ids, svc.BeauticianID)
		}
	}
	profiles, err := s.profiles.ListByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[string]*domain.Profile, len(profiles))
	for i := range profiles {
		byID[profiles[i].ID] = &profiles[i]
	}
	for i := range services {
		services[i].Beautician = byID[services[i].BeauticianID]
	}
	return nil
}
