package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service is a salon service definition. The engine reads services and
// their inventory requirements but does not own their lifecycle.
type Service struct {
	ID              int64
	Name            string
	Price           decimal.Decimal
	DurationMinutes int
	IsActive        bool
	Requirements    []InventoryRequirement
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Duration returns the service duration as time.Duration
func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

// InventoryRequirement is a fixed quantity of a stock item consumed each
// time the service is performed
type InventoryRequirement struct {
	ItemID        int64
	ItemName      string
	QtyPerService decimal.Decimal
}

// Item is an inventory stock item. The engine reads stock on availability
// checks and decrements it on appointment completion.
type Item struct {
	ID    int64
	Name  string
	Stock decimal.Decimal
	Unit  string
}
