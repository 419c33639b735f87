package models

import (
	"errors"
	"time"
)

// OrderStatus represents the current position of an order in its lifecycle
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusAccepted  OrderStatus = "accepted"
	OrderStatusOnTheWay  OrderStatus = "on_the_way"
	OrderStatusReached   OrderStatus = "reached"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusRejected  OrderStatus = "rejected"
)

// ErrRatingOutOfRange is returned when a rating falls outside [0, 5].
var ErrRatingOutOfRange = errors.New("rating must be between 0 and 5")

// ErrIllegalTransition is returned for a status change the lifecycle does not
// permit from the order's current status.
var ErrIllegalTransition = errors.New("illegal order status transition")

// IsValid checks that the status is one of the known lifecycle states
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusAccepted, OrderStatusOnTheWay,
		OrderStatusReached, OrderStatusCompleted, OrderStatusRejected:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether moving from s to next is a legal lifecycle
// step. The lifecycle is one-directional:
// pending -> {accepted, rejected}; accepted -> on_the_way -> reached -> completed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return next == OrderStatusAccepted || next == OrderStatusRejected
	case OrderStatusAccepted:
		return next == OrderStatusOnTheWay
	case OrderStatusOnTheWay:
		return next == OrderStatusReached
	case OrderStatusReached:
		return next == OrderStatusCompleted
	case OrderStatusCompleted, OrderStatusRejected:
		return false
	default:
		return false
	}
}

// IsTerminal reports whether no further transitions are possible
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusRejected
}

// Order is one booking of a service by a customer. It is created at checkout
// and mutated only through status-transition endpoints; it is never deleted.
type Order struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	Location     string      `json:"location" gorm:"type:text;not null"`
	ScheduledFor *time.Time  `json:"scheduled_for"`
	Status       OrderStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	Price        float64     `json:"price" gorm:"type:decimal(10,2);not null"`
	Review       string      `json:"review" gorm:"type:text"`
	Rating       *float64    `json:"rating" gorm:"type:decimal(3,2)"`
	Viewed       bool        `json:"viewed" gorm:"default:false"` // provider has seen this order
	CustomerID   uint        `json:"customer_id" gorm:"not null"`
	Customer     User        `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	ServiceID    uint        `json:"service_id" gorm:"not null"`
	Service      Service     `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
	ProviderID   uint        `json:"provider_id" gorm:"not null"`
	Provider     Provider    `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// Transition moves the order to next after checking the lifecycle permits it.
// On an illegal step the status is left untouched.
func (o *Order) Transition(next OrderStatus) error {
	if !next.IsValid() {
		return ErrIllegalTransition
	}
	if !o.Status.CanTransitionTo(next) {
		return ErrIllegalTransition
	}
	o.Status = next
	return nil
}

// SetRating records a review rating. Values outside [0, 5] are rejected and
// the prior rating is left unchanged.
func (o *Order) SetRating(r float64) error {
	if r < 0 || r > 5 {
		return ErrRatingOutOfRange
	}
	o.Rating = &r
	return nil
}

// PlaceOrderRequest is the payload for checkout
type PlaceOrderRequest struct {
	ServiceID    uint       `json:"service_id" binding:"required"`
	Location     string     `json:"location" binding:"required"`
	ScheduledFor *time.Time `json:"scheduled_for"`
}

// ReviewRequest is the payload for attaching a review to a completed order
type ReviewRequest struct {
	Rating *float64 `json:"rating" binding:"required"`
	Review string   `json:"review"`
}
