package technician

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("technician not found")
	ErrInvalid  = errors.New("invalid technician")
)

// Technician is an employee who performs service orders.
type Technician struct {
	ID                  uuid.UUID
	Code                string
	Name                string
	Email               string
	ManagerEmail        string // Receives certification expiry notices
	Phone               string
	Specialization      string
	Certification       string
	CertificationDate   *time.Time
	CertificationExpiry *time.Time
	Active              bool
	Available           bool
	CreatedAt           time.Time
	UpdatedAt           *time.Time
}

// CertificationExpired reports whether the certification ended before the given day.
func (t *Technician) CertificationExpired(at time.Time) bool {
	return t.CertificationExpiry != nil && t.CertificationExpiry.Before(at)
}
