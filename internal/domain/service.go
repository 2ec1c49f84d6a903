package domain

import "time"

// Service is one offering a beautician lists in the catalog.
type Service struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	BeauticianID string    `json:"beautician_id" gorm:"size:36;index;not null"`
	Name         string    `json:"name" gorm:"not null"`
	Category     string    `json:"category" gorm:"size:50;index"`
	Price        float64   `json:"price" gorm:"type:decimal(10,2);not null"`
	Duration     string    `json:"duration"`
	Description  string    `json:"description" gorm:"type:text"`
	IsActive     bool      `json:"is_active" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Beautician *Profile `json:"beautician,omitempty" gorm:"-"`
}

func (Service) TableName() string { return "services" }

// ServiceCategories are the chips offered on the search screen.
var ServiceCategories = []string{"Hair", "Nails", "Makeup", "Skincare", "Massage", "Lashes"}
