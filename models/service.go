package models

import (
	"time"

	"gorm.io/gorm"
)

// Service is a catalog listing offered by a provider.
type Service struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"size:100;not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Price       float64   `json:"price" gorm:"type:decimal(10,2);not null"`
	Rating      float64   `json:"rating" gorm:"type:decimal(3,2);default:0"`
	Category    string    `json:"category" gorm:"size:50;not null;index"`
	Duration    int       `json:"duration" gorm:"type:int"` // in minutes
	UserID      uint      `json:"user_id" gorm:"not null"`
	ProviderID  uint      `json:"provider_id" gorm:"not null"`
	Provider    Provider  `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Service model
func (Service) TableName() string {
	return "services"
}

// BeforeSave clamps the aggregate rating into [0, 5] so review math can never
// push a listing outside the displayable range.
func (s *Service) BeforeSave(tx *gorm.DB) error {
	if s.Rating < 0 {
		s.Rating = 0
	}
	if s.Rating > 5 {
		s.Rating = 5
	}
	return nil
}

// ServiceCategories returns the known listing categories, used for seeding
// and for category pickers on the client.
func ServiceCategories() []string {
	return []string{
		"Cleaning",
		"Plumbing",
		"Electrical",
		"Painting",
		"Gardening",
		"Carpentry",
		"Appliance Repair",
		"Pest Control",
	}
}

// CreateServiceRequest is the payload for creating or updating a listing
type CreateServiceRequest struct {
	Title       string  `json:"title" binding:"required,min=3,max=100"`
	Description string  `json:"description" binding:"required"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Category    string  `json:"category" binding:"required,max=50"`
	Duration    int     `json:"duration" binding:"required,gt=0"`
}
