package models

import (
	"time"
)

// ComplaintAction is the terminal action an admin takes on a complaint
type ComplaintAction string

const (
	ComplaintActionRefund         ComplaintAction = "refund"
	ComplaintActionRemoveProvider ComplaintAction = "remove_provider"
	ComplaintActionWarn           ComplaintAction = "warn"
)

// Label returns the fixed action description recorded on the complaint row
func (a ComplaintAction) Label() string {
	switch a {
	case ComplaintActionRefund:
		return "Customer refunded"
	case ComplaintActionRemoveProvider:
		return "Service provider removed"
	case ComplaintActionWarn:
		return "Provider warned"
	default:
		return ""
	}
}

// Complaint is a customer-filed grievance against an order. It is created by
// the customer, resolved exactly once by an admin action, then immutable.
type Complaint struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	OrderID     uint      `json:"order_id" gorm:"not null"`
	Order       Order     `json:"order,omitempty" gorm:"foreignKey:OrderID"`
	FilerID     uint      `json:"filer_id" gorm:"not null"`
	Filer       User      `json:"filer,omitempty" gorm:"foreignKey:FilerID"`
	Message     string    `json:"message" gorm:"type:text;not null"`
	Resolved    bool      `json:"resolved" gorm:"default:false"`
	ActionTaken string    `json:"action_taken" gorm:"size:100"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Complaint model
func (Complaint) TableName() string {
	return "complaints"
}

// CreateComplaintRequest is the payload for filing a complaint
type CreateComplaintRequest struct {
	OrderID uint   `json:"order_id" binding:"required"`
	Message string `json:"message" binding:"required,min=10"`
}

// ResolveComplaintRequest is the payload for admin resolution
type ResolveComplaintRequest struct {
	Action ComplaintAction `json:"action" binding:"required,oneof=refund remove_provider warn"`
}
