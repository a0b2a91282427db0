package equipment

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fieldservice/internal/equipment"
)

type equipmentResponse struct {
	ID                  uuid.UUID  `json:"id"`
	CustomerID          uuid.UUID  `json:"customer_id"`
	CustomerName        string     `json:"customer_name,omitempty"`
	Name                string     `json:"name"`
	SerialNumber        string     `json:"serial_number,omitempty"`
	Model               string     `json:"model,omitempty"`
	Manufacturer        string     `json:"manufacturer,omitempty"`
	Location            string     `json:"location,omitempty"`
	Notes               string     `json:"notes,omitempty"`
	PurchaseDate        *time.Time `json:"purchase_date,omitempty"`
	WarrantyStart       *time.Time `json:"warranty_start,omitempty"`
	WarrantyEnd         *time.Time `json:"warranty_end,omitempty"`
	UnderWarranty       bool       `json:"under_warranty"`
	ServiceIntervalDays int        `json:"service_interval_days"`
	LastServiceDate     *time.Time `json:"last_service_date,omitempty"`
	NextServiceDate     *time.Time `json:"next_service_date,omitempty"`
	ServiceDue          bool       `json:"service_due"`
	Active              bool       `json:"active"`
	CreatedAt           time.Time  `json:"created_at"`
}

type paramsResponse struct {
	Name                string     `json:"name"`
	SerialNumber        string     `json:"serial_number,omitempty"`
	Model               string     `json:"model,omitempty"`
	Manufacturer        string     `json:"manufacturer,omitempty"`
	Location            string     `json:"location,omitempty"`
	PurchaseDate        *time.Time `json:"purchase_date,omitempty"`
	WarrantyEnd         *time.Time `json:"warranty_end,omitempty"`
	ServiceIntervalDays int        `json:"service_interval_days,omitempty"`
}

type importResponse struct {
	Imported  int                 `json:"imported"`
	Equipment []equipmentResponse `json:"equipment,omitempty"`
	Preview   []paramsResponse    `json:"preview,omitempty"`
}

func toResponse(e *equipment.Equipment, now time.Time) equipmentResponse {
	return equipmentResponse{
		ID:                  e.ID,
		CustomerID:          e.CustomerID,
		CustomerName:        e.CustomerName,
		Name:                e.Name,
		SerialNumber:        e.SerialNumber,
		Model:               e.Model,
		Manufacturer:        e.Manufacturer,
		Location:            e.Location,
		Notes:               e.Notes,
		PurchaseDate:        e.PurchaseDate,
		WarrantyStart:       e.WarrantyStart,
		WarrantyEnd:         e.WarrantyEnd,
		UnderWarranty:       e.UnderWarranty(now),
		ServiceIntervalDays: e.ServiceIntervalDays,
		LastServiceDate:     e.LastServiceDate,
		NextServiceDate:     e.NextServiceDate,
		ServiceDue:          e.ServiceDue(now),
		Active:              e.Active,
		CreatedAt:           e.CreatedAt,
	}
}

func toResponseList(items []*equipment.Equipment, now time.Time) []equipmentResponse {
	resp := make([]equipmentResponse, len(items))
	for i, e := range items {
		resp[i] = toResponse(e, now)
	}

	return resp
}

func toParamsResponse(p equipment.CreateParams) paramsResponse {
	return paramsResponse{
		Name:                p.Name,
		SerialNumber:        p.SerialNumber,
		Model:               p.Model,
		Manufacturer:        p.Manufacturer,
		Location:            p.Location,
		PurchaseDate:        p.PurchaseDate,
		WarrantyEnd:         p.WarrantyEnd,
		ServiceIntervalDays: p.ServiceIntervalDays,
	}
}
