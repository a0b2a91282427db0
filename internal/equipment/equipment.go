package equipment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("equipment not found")
	ErrInvalid  = errors.New("invalid equipment")
)

// DefaultServiceInterval is used when no interval is given on creation.
const DefaultServiceInterval = 365

// Equipment is a customer-owned asset serviced by orders.
type Equipment struct {
	ID                  uuid.UUID
	CustomerID          uuid.UUID
	CustomerName        string // Loaded via JOIN
	CustomerEmail       string // Loaded via JOIN
	Name                string
	SerialNumber        string
	Model               string
	Manufacturer        string
	Location            string
	Notes               string
	PurchaseDate        *time.Time
	WarrantyStart       *time.Time
	WarrantyEnd         *time.Time
	ServiceIntervalDays int
	LastServiceDate     *time.Time
	NextServiceDate     *time.Time
	Active              bool
	CreatedAt           time.Time
	UpdatedAt           *time.Time
}

// UnderWarranty reports whether the warranty covers the given day.
func (e *Equipment) UnderWarranty(at time.Time) bool {
	if e.WarrantyEnd == nil {
		return false
	}

	if e.WarrantyStart != nil && at.Before(*e.WarrantyStart) {
		return false
	}

	return !at.After(*e.WarrantyEnd)
}

// ServiceDue reports whether the next service date has been reached.
func (e *Equipment) ServiceDue(at time.Time) bool {
	return e.NextServiceDate != nil && !at.Before(*e.NextServiceDate)
}

func nextService(from time.Time, intervalDays int) time.Time {
	return from.AddDate(0, 0, intervalDays)
}
