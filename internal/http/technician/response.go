package technician

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fieldservice/internal/technician"
)

type technicianResponse struct {
	ID                   uuid.UUID  `json:"id"`
	Code                 string     `json:"code,omitempty"`
	Name                 string     `json:"name"`
	Email                string     `json:"email,omitempty"`
	ManagerEmail         string     `json:"manager_email,omitempty"`
	Phone                string     `json:"phone,omitempty"`
	Specialization       string     `json:"specialization,omitempty"`
	Certification        string     `json:"certification,omitempty"`
	CertificationDate    *time.Time `json:"certification_date,omitempty"`
	CertificationExpiry  *time.Time `json:"certification_expiry,omitempty"`
	CertificationExpired bool       `json:"certification_expired"`
	Active               bool       `json:"active"`
	Available            bool       `json:"available"`
	CreatedAt            time.Time  `json:"created_at"`
}

type availabilityResponse struct {
	TechnicianID uuid.UUID `json:"technician_id"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Available    bool      `json:"available"`
}

type slotResponse struct {
	TechnicianID uuid.UUID  `json:"technician_id"`
	Found        bool       `json:"found"`
	Start        *time.Time `json:"start,omitempty"`
	End          *time.Time `json:"end,omitempty"`
}

func toResponse(t *technician.Technician, now time.Time) technicianResponse {
	return technicianResponse{
		ID:                   t.ID,
		Code:                 t.Code,
		Name:                 t.Name,
		Email:                t.Email,
		ManagerEmail:         t.ManagerEmail,
		Phone:                t.Phone,
		Specialization:       t.Specialization,
		Certification:        t.Certification,
		CertificationDate:    t.CertificationDate,
		CertificationExpiry:  t.CertificationExpiry,
		CertificationExpired: t.CertificationExpired(now),
		Active:               t.Active,
		Available:            t.Available,
		CreatedAt:            t.CreatedAt,
	}
}
