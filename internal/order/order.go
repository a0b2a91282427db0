package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// State represents the lifecycle state of a service order.
type State string

const (
	StateDraft      State = "draft"
	StateScheduled  State = "scheduled"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
	StateCancelled  State = "cancelled"
)

func (s State) Valid() bool {
	switch s {
	case StateDraft, StateScheduled, StateInProgress, StateCompleted, StateCancelled:
		return true
	}

	return false
}

// Active reports whether an order in this state occupies its technician and equipment.
func (s State) Active() bool {
	return s == StateScheduled || s == StateInProgress
}

// Priority ranks how urgently an order must be handled.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}

	return false
}

// Factor is the multiplier applied to the estimated duration.
func (p Priority) Factor() float64 {
	switch p {
	case PriorityHigh:
		return 1.2
	case PriorityUrgent:
		return 1.5
	default:
		return 1.0
	}
}

// Product is a sellable item referenced by service types and refaction lines.
type Product struct {
	ID        uuid.UUID
	Name      string
	ListPrice decimal.Decimal
}

// ServiceType is static configuration for a kind of work.
type ServiceType struct {
	ID                 uuid.UUID
	Name               string
	Description        string
	Duration           float64 // Base duration in hours
	RequiresEquipment  bool
	RequiresTechnician bool
	ProductID          *uuid.UUID
	Product            *Product // Loaded via JOIN
	Active             bool
	CreatedAt          time.Time
}

// Line is one priced part or labor item owned by an order.
type Line struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Notes       string
}

func (l Line) Subtotal() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// Invoice is the billing document generated for a completed order.
type Invoice struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	Total     decimal.Decimal
	Lines     []InvoiceLine
	CreatedAt time.Time
}

type InvoiceLine struct {
	ProductID   *uuid.UUID
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

func (l InvoiceLine) Subtotal() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// Order is one unit of requested field work.
type Order struct {
	ID              uuid.UUID
	Reference       string
	CustomerID      uuid.UUID
	CustomerName    string // Loaded via JOIN
	CustomerEmail   string // Loaded via JOIN
	ServiceType     ServiceType
	EquipmentID     *uuid.UUID
	TechnicianID    *uuid.UUID
	TechnicianName  string // Loaded via JOIN
	TechnicianEmail string // Loaded via JOIN
	DateRequested   time.Time
	DateScheduled   *time.Time
	DateStarted     *time.Time
	DateCompleted   *time.Time
	Description     string
	Notes           string
	State           State
	Priority        Priority
	Lines           []Line
	InvoiceID       *uuid.UUID
	Invoice         *Invoice
	Invoiced        bool
	ReminderSentAt  *time.Time
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

// Window returns the interval the order occupies, if it is scheduled.
func (o *Order) Window() (Window, bool) {
	if o.DateScheduled == nil {
		return Window{}, false
	}

	return WindowAt(*o.DateScheduled, EstimateDuration(o)), true
}

// Duration returns the actual hours spent, or 0 when the order has not been worked.
func (o *Order) Duration() float64 {
	if o.DateStarted == nil || o.DateCompleted == nil {
		return 0
	}

	return o.DateCompleted.Sub(*o.DateStarted).Hours()
}

// Total is the sum of all line subtotals.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.Subtotal())
	}

	return total
}

// Reschedule records one reprogramming of an order.
type Reschedule struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	OldDate   *time.Time
	NewDate   time.Time
	Reason    string
	CreatedAt time.Time
}
