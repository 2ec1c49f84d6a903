package catalog

import "glowbook/internal/domain"

type SaveServiceRequest struct {
	Name        string  `json:"name" form:"name" binding:"required"`
	Category    string  `json:"category" form:"category" binding:"required"`
	Price       float64 `json:"price" form:"price" binding:"required"`
	Duration    string  `json:"duration" form:"duration"`
	Description string  `json:"description" form:"description"`
	IsActive    *bool   `json:"is_active" form:"is_active"`
}

type SearchView struct {
	Query      string           `json:"query"`
	Category   string           `json:"category"`
	Categories []string         `json:"categories"`
	Results    []domain.Service `json:"results"`
}

type FeaturedView struct {
	Services    []domain.Service `json:"services"`
	Beauticians []domain.Profile `json:"beauticians"`
}

type BeauticianView struct {
	Profile  *domain.Profile  `json:"profile"`
	Services []domain.Service `json:"services"`
}

type ServiceFormView struct {
	Service    *domain.Service `json:"service,omitempty"`
	Categories []string        `json:"categories"`
}
