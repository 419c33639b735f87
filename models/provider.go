package models

import (
	"time"
)

// Provider is the service-provider profile of a user. Its primary key is the
// owning user's id, so the relation is strictly one-to-one.
type Provider struct {
	ID         uint      `json:"id" gorm:"primaryKey;autoIncrement:false"`
	User       User      `json:"user,omitempty" gorm:"foreignKey:ID"`
	NationalID string    `json:"national_id" gorm:"size:50;uniqueIndex;not null"`
	Bio        string    `json:"bio" gorm:"type:text"`
	Location   string    `json:"location" gorm:"size:120"`
	IsVerified bool      `json:"is_verified" gorm:"default:false"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relationships
	Services []Service `json:"services,omitempty" gorm:"foreignKey:ProviderID"`
}

// TableName specifies the table name for the Provider model
func (Provider) TableName() string {
	return "providers"
}

// BecomeProviderRequest is the payload for the provider application
type BecomeProviderRequest struct {
	NationalID string `json:"national_id" binding:"required,min=5,max=50"`
	Bio        string `json:"bio"`
	Location   string `json:"location" binding:"required,max=120"`
}
