package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fieldservice/internal/order"
)

type serviceTypeResponse struct {
	ID                 uuid.UUID        `json:"id"`
	Name               string           `json:"name"`
	Description        string           `json:"description,omitempty"`
	Duration           float64          `json:"duration"`
	RequiresEquipment  bool             `json:"requires_equipment"`
	RequiresTechnician bool             `json:"requires_technician"`
	ProductID          *uuid.UUID       `json:"product_id,omitempty"`
	ProductName        string           `json:"product_name,omitempty"`
	ListPrice          *decimal.Decimal `json:"list_price,omitempty"`
}

type lineResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Notes       string          `json:"notes,omitempty"`
}

type invoiceResponse struct {
	ID    uuid.UUID       `json:"id"`
	Total decimal.Decimal `json:"total"`
}

// OrderResponse is shared by staff and portal routes.
type OrderResponse struct {
	ID             uuid.UUID           `json:"id"`
	Reference      string              `json:"reference"`
	CustomerID     uuid.UUID           `json:"customer_id"`
	CustomerName   string              `json:"customer_name"`
	ServiceType    serviceTypeResponse `json:"service_type"`
	EquipmentID    *uuid.UUID          `json:"equipment_id,omitempty"`
	TechnicianID   *uuid.UUID          `json:"technician_id,omitempty"`
	TechnicianName string              `json:"technician_name,omitempty"`
	DateRequested  time.Time           `json:"date_requested"`
	DateScheduled  *time.Time          `json:"date_scheduled,omitempty"`
	DateStarted    *time.Time          `json:"date_started,omitempty"`
	DateCompleted  *time.Time          `json:"date_completed,omitempty"`
	Description    string              `json:"description,omitempty"`
	Notes          string              `json:"notes,omitempty"`
	State          order.State         `json:"state"`
	Priority       order.Priority      `json:"priority"`
	Lines          []lineResponse      `json:"lines"`
	Total          decimal.Decimal     `json:"total"`
	Duration       float64             `json:"duration"`
	Invoiced       bool                `json:"invoiced"`
	Invoice        *invoiceResponse    `json:"invoice,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      *time.Time          `json:"updated_at,omitempty"`
}

type resultResponse struct {
	Order    OrderResponse `json:"order"`
	Warnings []string      `json:"warnings,omitempty"`
}

// StatusResponse is the public view of an order's progress.
type StatusResponse struct {
	ID            uuid.UUID   `json:"id"`
	Reference     string      `json:"reference"`
	State         order.State `json:"state"`
	DateRequested time.Time   `json:"date_requested"`
	DateScheduled *time.Time  `json:"date_scheduled"`
	DateStarted   *time.Time  `json:"date_started"`
	DateCompleted *time.Time  `json:"date_completed"`
	Technician    *string     `json:"technician"`
}

type conflictResponse struct {
	OrderID   uuid.UUID `json:"order_id"`
	Reference string    `json:"reference"`
	Reason    string    `json:"reason"`
}

type estimateResponse struct {
	OrderID uuid.UUID `json:"order_id"`
	Hours   float64   `json:"hours"`
}

type rescheduleResponse struct {
	OldDate   *time.Time `json:"old_date,omitempty"`
	NewDate   time.Time  `json:"new_date"`
	Reason    string     `json:"reason"`
	CreatedAt time.Time  `json:"created_at"`
}

func toServiceTypeResponse(st *order.ServiceType) serviceTypeResponse {
	resp := serviceTypeResponse{
		ID:                 st.ID,
		Name:               st.Name,
		Description:        st.Description,
		Duration:           st.Duration,
		RequiresEquipment:  st.RequiresEquipment,
		RequiresTechnician: st.RequiresTechnician,
		ProductID:          st.ProductID,
	}

	if st.Product != nil {
		resp.ProductName = st.Product.Name
		resp.ListPrice = &st.Product.ListPrice
	}

	return resp
}

// ToResponse renders an order for any route that returns one.
func ToResponse(o *order.Order) OrderResponse {
	resp := OrderResponse{
		ID:             o.ID,
		Reference:      o.Reference,
		CustomerID:     o.CustomerID,
		CustomerName:   o.CustomerName,
		ServiceType:    toServiceTypeResponse(&o.ServiceType),
		EquipmentID:    o.EquipmentID,
		TechnicianID:   o.TechnicianID,
		TechnicianName: o.TechnicianName,
		DateRequested:  o.DateRequested,
		DateScheduled:  o.DateScheduled,
		DateStarted:    o.DateStarted,
		DateCompleted:  o.DateCompleted,
		Description:    o.Description,
		Notes:          o.Notes,
		State:          o.State,
		Priority:       o.Priority,
		Lines:          make([]lineResponse, len(o.Lines)),
		Total:          o.Total(),
		Duration:       o.Duration(),
		Invoiced:       o.Invoiced,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}

	for i, l := range o.Lines {
		resp.Lines[i] = lineResponse{
			ID:          l.ID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal(),
			Notes:       l.Notes,
		}
	}

	if o.Invoice != nil {
		resp.Invoice = &invoiceResponse{ID: o.Invoice.ID, Total: o.Invoice.Total}
	}

	return resp
}

func ToResponseList(orders []*order.Order) []OrderResponse {
	resp := make([]OrderResponse, len(orders))
	for i, o := range orders {
		resp[i] = ToResponse(o)
	}

	return resp
}

func toResultResponse(res *order.Result) resultResponse {
	resp := resultResponse{Order: ToResponse(res.Order)}
	for _, w := range res.Warnings {
		resp.Warnings = append(resp.Warnings, w.Error())
	}

	return resp
}

func ToStatusResponse(o *order.Order) StatusResponse {
	resp := StatusResponse{
		ID:            o.ID,
		Reference:     o.Reference,
		State:         o.State,
		DateRequested: o.DateRequested,
		DateScheduled: o.DateScheduled,
		DateStarted:   o.DateStarted,
		DateCompleted: o.DateCompleted,
	}

	if o.TechnicianName != "" {
		resp.Technician = &o.TechnicianName
	}

	return resp
}
