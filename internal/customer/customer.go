package customer

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("customer not found")
	ErrInvalid  = errors.New("invalid customer")
)

// Segment classifies service customers.
type Segment string

const (
	SegmentResidential Segment = "residential"
	SegmentCommercial  Segment = "commercial"
	SegmentIndustrial  Segment = "industrial"
)

// Preference is the channel a customer wants to be contacted on.
type Preference string

const (
	PreferenceEmail Preference = "email"
	PreferencePhone Preference = "phone"
	PreferenceSMS   Preference = "sms"
)

// Customer owns its service-domain fields directly.
type Customer struct {
	ID                uuid.UUID
	Name              string
	Email             string
	Phone             string
	Street            string
	City              string
	IsServiceCustomer bool
	Segment           Segment
	Preference        Preference
	ServiceContact    string
	ServicePhone      string
	ServiceEmail      string
	CreatedAt         time.Time
	UpdatedAt         *time.Time
}

// ContactEmail is where service notifications go.
func (c *Customer) ContactEmail() string {
	if c.ServiceEmail != "" {
		return c.ServiceEmail
	}

	return c.Email
}
