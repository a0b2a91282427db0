package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fieldservice/internal/notify"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=order
type Repository interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id uuid.UUID) (*Order, error)
	GetByReference(ctx context.Context, reference string) (*Order, error)
	List(ctx context.Context, filter ListFilter) ([]*Order, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
	ActiveOrders(ctx context.Context, filter ActiveFilter) ([]*Order, error)
	Reschedules(ctx context.Context, orderID uuid.UUID) ([]Reschedule, error)

	DueReminders(ctx context.Context, from, to time.Time) ([]*Order, error)
	MarkReminded(ctx context.Context, id uuid.UUID, at time.Time) error

	CreateServiceType(ctx context.Context, st *ServiceType) error
	GetServiceType(ctx context.Context, id uuid.UUID) (*ServiceType, error)
	ListServiceTypes(ctx context.Context) ([]*ServiceType, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)

	// Begin opens a transaction holding a row lock on the order.
	Begin(ctx context.Context, orderID uuid.UUID) (Tx, error)
}

// Tx is one atomic state change of a single order.
type Tx interface {
	Load(ctx context.Context) (*Order, error)
	Lock(ctx context.Context, keys ...uuid.UUID) error
	ActiveOrders(ctx context.Context, filter ActiveFilter) ([]*Order, error)
	AvailableTechnicians(ctx context.Context) ([]Assignee, error)
	Save(ctx context.Context, o *Order) error
	RecordReschedule(ctx context.Context, r *Reschedule) error
	CreateInvoice(ctx context.Context, inv *Invoice) error
	RecordEquipmentService(ctx context.Context, equipmentID uuid.UUID, servicedAt time.Time) error
	Commit() error
	Rollback() error
}

// Issuer hands out order references.
type Issuer interface {
	Next(ctx context.Context) (string, error)
}

type Notifier interface {
	Notify(ctx context.Context, e notify.Event) error
}

// Assignee is a technician that may be put on an order.
type Assignee struct {
	ID    uuid.UUID
	Name  string
	Email string
}

type Service struct {
	repo     Repository
	issuer   Issuer
	notifier Notifier
	planner  *Planner
	now      func() time.Time
}

type Option func(*Service)

func WithWorkHours(h WorkHours) Option {
	return func(s *Service) { s.planner = NewPlanner(h, s.now) }
}

// WithClock replaces time.Now for the service and its planner.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
		s.planner.now = now
	}
}

func NewService(repo Repository, issuer Issuer, notifier Notifier, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		issuer:   issuer,
		notifier: notifier,
		now:      time.Now,
	}
	s.planner = NewPlanner(DefaultWorkHours, s.now)

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Result is the outcome of a committed lifecycle action.
type Result struct {
	Order    *Order
	Warnings []*NotificationWarning
}

type Sort string

const (
	SortDate      Sort = "date"
	SortReference Sort = "reference"
	SortState     Sort = "state"
)

type ListFilter struct {
	State        *State
	CustomerID   *uuid.UUID
	TechnicianID *uuid.UUID
	EquipmentID  *uuid.UUID
	From         *time.Time // date_requested lower bound, inclusive
	To           *time.Time // date_requested upper bound, exclusive
	Sort         Sort
	Limit        int
	Offset       int
}

type LineParams struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
	UnitPrice *decimal.Decimal // Defaults to the product list price
	Notes     string
}

type CreateParams struct {
	CustomerID    uuid.UUID
	ServiceTypeID uuid.UUID
	EquipmentID   *uuid.UUID
	TechnicianID  *uuid.UUID
	DateRequested *time.Time
	Description   string
	Priority      Priority
	Lines         []LineParams
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Order, error) {
	var v validation

	v.check(params.CustomerID != uuid.Nil, "Customer is required")
	v.check(params.ServiceTypeID != uuid.Nil, "Service type is required")

	if params.Priority == "" {
		params.Priority = PriorityMedium
	}

	v.check(params.Priority.Valid(), "unknown priority %q", params.Priority)
	validateLines(&v, params.Lines)

	if err := v.err(); err != nil {
		return nil, err
	}

	st, err := s.repo.GetServiceType(ctx, params.ServiceTypeID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, &ValidationError{Problems: []string{"Service type does not exist"}}
		}

		return nil, fmt.Errorf("getting service type: %w", err)
	}

	lines, err := s.buildLines(ctx, params.Lines)
	if err != nil {
		return nil, err
	}

	ref, err := s.issuer.Next(ctx)
	if err != nil {
		return nil, fmt.Errorf("issuing reference: %w", err)
	}

	requested := s.now()
	if params.DateRequested != nil {
		requested = *params.DateRequested
	}

	o := &Order{
		Reference:     ref,
		CustomerID:    params.CustomerID,
		ServiceType:   *st,
		EquipmentID:   params.EquipmentID,
		TechnicianID:  params.TechnicianID,
		DateRequested: requested,
		Description:   params.Description,
		State:         StateDraft,
		Priority:      params.Priority,
		Lines:         lines,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	return o, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetByReference(ctx context.Context, reference string) (*Order, error) {
	return s.repo.GetByReference(ctx, reference)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Order, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) Count(ctx context.Context, filter ListFilter) (int, error) {
	return s.repo.Count(ctx, filter)
}

func (s *Service) Reschedules(ctx context.Context, id uuid.UUID) ([]Reschedule, error) {
	return s.repo.Reschedules(ctx, id)
}

type ServiceTypeParams struct {
	Name               string
	Description        string
	Duration           float64
	RequiresEquipment  bool
	RequiresTechnician *bool // Defaults to true
	ProductID          *uuid.UUID
}

func (s *Service) CreateServiceType(ctx context.Context, params ServiceTypeParams) (*ServiceType, error) {
	var v validation

	name := strings.TrimSpace(params.Name)
	v.check(name != "", "Name is required")
	v.check(params.Duration >= 0, "Duration cannot be negative")

	if err := v.err(); err != nil {
		return nil, err
	}

	st := &ServiceType{
		Name:               name,
		Description:        params.Description,
		Duration:           params.Duration,
		RequiresEquipment:  params.RequiresEquipment,
		RequiresTechnician: params.RequiresTechnician == nil || *params.RequiresTechnician,
		ProductID:          params.ProductID,
		Active:             true,
	}

	if params.ProductID != nil {
		product, err := s.product(ctx, *params.ProductID)
		if err != nil {
			return nil, err
		}

		st.Product = product
	}

	if err := s.repo.CreateServiceType(ctx, st); err != nil {
		return nil, err
	}

	return st, nil
}

func (s *Service) ListServiceTypes(ctx context.Context) ([]*ServiceType, error) {
	return s.repo.ListServiceTypes(ctx)
}

// Schedule moves a draft order to scheduled. Without a preferred or existing date the
// next free slot of the technician is used.
func (s *Service) Schedule(ctx context.Context, id uuid.UUID, preferred *time.Time) (*Result, error) {
	tx, err := s.repo.Begin(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("begin schedule: %w", err)
	}
	defer tx.Rollback()

	o, err := tx.Load(ctx)
	if err != nil {
		return nil, err
	}

	next, err := Next(o.State, ActionSchedule)
	if err != nil {
		return nil, err
	}

	if err := validateForSchedule(o); err != nil {
		return nil, err
	}

	if o.TechnicianID == nil && o.ServiceType.RequiresTechnician {
		techs, err := tx.AvailableTechnicians(ctx)
		if err != nil {
			return nil, fmt.Errorf("finding technicians: %w", err)
		}

		if len(techs) == 0 {
			return nil, &SchedulingError{Err: ErrNoTechnician}
		}

		o.TechnicianID = &techs[0].ID
		o.TechnicianName = techs[0].Name
		o.TechnicianEmail = techs[0].Email
	}

	if err := tx.Lock(ctx, lockKeys(o)...); err != nil {
		return nil, fmt.Errorf("locking schedule: %w", err)
	}

	date := preferred
	if date == nil {
		date = o.DateScheduled
	}

	if date == nil {
		if o.TechnicianID == nil {
			return nil, &ValidationError{Problems: []string{"a scheduled date is required when no technician is assigned"}}
		}

		w, found, err := s.planner.FindNextSlot(ctx, tx, *o.TechnicianID, EstimateDuration(o))
		if err != nil {
			return nil, fmt.Errorf("finding slot: %w", err)
		}

		if !found {
			return nil, &SchedulingError{Err: ErrNoSlot}
		}

		date = &w.Start
	}

	candidate := *o
	candidate.DateScheduled = date

	if err := s.ensureNoConflicts(ctx, tx, &candidate); err != nil {
		return nil, err
	}

	o.DateScheduled = date
	o.State = next

	if err := s.commit(ctx, tx, o); err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("Service order %s scheduled for %s", o.Reference, o.DateScheduled.Format(time.DateTime))

	return s.result(ctx, o, notify.KindOrderScheduled, msg), nil
}

func (s *Service) Start(ctx context.Context, id uuid.UUID) (*Result, error) {
	tx, err := s.repo.Begin(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("begin start: %w", err)
	}
	defer tx.Rollback()

	o, err := tx.Load(ctx)
	if err != nil {
		return nil, err
	}

	next, err := Next(o.State, ActionStart)
	if err != nil {
		return nil, err
	}

	now := s.now()
	o.DateStarted = &now
	o.State = next

	if err := s.commit(ctx, tx, o); err != nil {
		return nil, err
	}

	return s.result(ctx, o, notify.KindOrderStarted, fmt.Sprintf("Service order %s started", o.Reference)), nil
}

// LineEdit changes the order's refaction lines on completion. A nil ID adds a line.
type LineEdit struct {
	ID        *uuid.UUID
	ProductID uuid.UUID
	Quantity  decimal.Decimal
	UnitPrice *decimal.Decimal
	Notes     string
	Remove    bool
}

type CompleteParams struct {
	CompletionDate *time.Time // Defaults to now
	Notes          string
	Lines          []LineEdit
	Invoice        bool
}

func (s *Service) Complete(ctx context.Context, id uuid.UUID, params CompleteParams) (*Result, error) {
	tx, err := s.repo.Begin(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("begin complete: %w", err)
	}
	defer tx.Rollback()

	o, err := tx.Load(ctx)
	if err != nil {
		return nil, err
	}

	next, err := Next(o.State, ActionComplete)
	if err != nil {
		return nil, err
	}

	completed := s.now()
	if params.CompletionDate != nil {
		completed = *params.CompletionDate
	}

	lines, err := s.applyLineEdits(ctx, o, completed, params.Lines)
	if err != nil {
		return nil, err
	}

	o.Lines = lines
	o.DateCompleted = &completed
	o.State = next

	if params.Notes != "" {
		o.Notes = params.Notes
	}

	if err := tx.Save(ctx, o); err != nil {
		return nil, fmt.Errorf("saving order: %w", err)
	}

	if o.EquipmentID != nil {
		if err := tx.RecordEquipmentService(ctx, *o.EquipmentID, completed); err != nil {
			return nil, fmt.Errorf("recording equipment service: %w", err)
		}
	}

	if params.Invoice {
		if err := s.invoice(ctx, tx, o); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit complete: %w", err)
	}

	return s.result(ctx, o, notify.KindOrderCompleted, fmt.Sprintf("Service order %s completed", o.Reference)), nil
}

func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Result, error) {
	tx, err := s.repo.Begin(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("begin cancel: %w", err)
	}
	defer tx.Rollback()

	o, err := tx.Load(ctx)
	if err != nil {
		return nil, err
	}

	next, err := Next(o.State, ActionCancel)
	if err != nil {
		return nil, err
	}

	o.State = next

	if err := s.commit(ctx, tx, o); err != nil {
		return nil, err
	}

	return s.result(ctx, o, notify.KindOrderCancelled, fmt.Sprintf("Service order %s cancelled", o.Reference)), nil
}

// Reprogram moves a scheduled or in-progress order to a new date and records the reason.
func (s *Service) Reprogram(ctx context.Context, id uuid.UUID, newDate time.Time, reason string) (*Result, error) {
	tx, err := s.repo.Begin(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("begin reprogram: %w", err)
	}
	defer tx.Rollback()

	o, err := tx.Load(ctx)
	if err != nil {
		return nil, err
	}

	next, err := Next(o.State, ActionReprogram)
	if err != nil {
		return nil, err
	}

	reason = strings.TrimSpace(reason)

	var v validation

	v.check(!newDate.IsZero(), "New date is required")
	v.check(newDate.IsZero() || !newDate.Before(s.now()), "New date cannot be in the past")
	v.check(reason != "", "Reason is required")

	if err := v.err(); err != nil {
		return nil, err
	}

	if err := tx.Lock(ctx, lockKeys(o)...); err != nil {
		return nil, fmt.Errorf("locking schedule: %w", err)
	}

	candidate := *o
	candidate.DateScheduled = &newDate

	if err := s.ensureNoConflicts(ctx, tx, &candidate); err != nil {
		return nil, err
	}

	previous := o.DateScheduled
	if o.State == StateInProgress {
		o.DateStarted = nil
	}

	o.DateScheduled = &newDate
	o.Notes = appendNote(o.Notes, "Reprogrammed: "+reason)
	o.ReminderSentAt = nil
	o.State = next

	if err := tx.Save(ctx, o); err != nil {
		return nil, fmt.Errorf("saving order: %w", err)
	}

	if err := tx.RecordReschedule(ctx, &Reschedule{
		OrderID: o.ID,
		OldDate: previous,
		NewDate: newDate,
		Reason:  reason,
	}); err != nil {
		return nil, fmt.Errorf("recording reschedule: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit reprogram: %w", err)
	}

	msg := fmt.Sprintf("Service order %s reprogrammed to %s. Reason: %s", o.Reference, newDate.Format(time.DateTime), reason)

	return s.result(ctx, o, notify.KindOrderReprogrammed, msg), nil
}

// FindConflicts lists the active orders overlapping the order's scheduled window.
func (s *Service) FindConflicts(ctx context.Context, id uuid.UUID) ([]Conflict, error) {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.planner.FindConflicts(ctx, s.repo, o)
}

func (s *Service) Estimate(ctx context.Context, id uuid.UUID) (float64, error) {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return 0, err
	}

	return EstimateDuration(o), nil
}

// IsAvailable reports whether the technician has no active order overlapping w.
func (s *Service) IsAvailable(ctx context.Context, technicianID uuid.UUID, w Window) (bool, error) {
	return s.planner.IsAvailable(ctx, s.repo, technicianID, w)
}

func (s *Service) NextSlot(ctx context.Context, technicianID uuid.UUID, hours float64) (Window, bool, error) {
	return s.planner.FindNextSlot(ctx, s.repo, technicianID, hours)
}

func (s *Service) CreateInvoice(ctx context.Context, id uuid.UUID) (*Order, error) {
	tx, err := s.repo.Begin(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("begin invoice: %w", err)
	}
	defer tx.Rollback()

	o, err := tx.Load(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.invoice(ctx, tx, o); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit invoice: %w", err)
	}

	return o, nil
}

func (s *Service) invoice(ctx context.Context, tx Tx, o *Order) error {
	if o.State != StateCompleted {
		return &StateError{Action: ActionInvoice, State: o.State}
	}

	if o.Invoiced {
		return ErrAlreadyInvoiced
	}

	inv := BuildInvoice(o)
	if err := tx.CreateInvoice(ctx, inv); err != nil {
		return fmt.Errorf("creating invoice: %w", err)
	}

	o.InvoiceID = &inv.ID
	o.Invoice = inv
	o.Invoiced = true

	if err := tx.Save(ctx, o); err != nil {
		return fmt.Errorf("linking invoice: %w", err)
	}

	return nil
}

// SendReminders notifies customers and assigned technicians of scheduled orders
// starting within lead. Each order is reminded once. An order is left for the next
// sweep only when nothing was delivered and some failure was not a missing address.
func (s *Service) SendReminders(ctx context.Context, lead time.Duration) (int, error) {
	now := s.now()

	orders, err := s.repo.DueReminders(ctx, now, now.Add(lead))
	if err != nil {
		return 0, fmt.Errorf("listing due reminders: %w", err)
	}

	sent := 0

	for _, o := range orders {
		msg := fmt.Sprintf("Reminder: service order %s is scheduled for %s", o.Reference, o.DateScheduled.Format(time.DateTime))

		to := recipients(o, notify.KindOrderReminder)
		if warnings := s.announce(ctx, o, to, notify.KindOrderReminder, msg); len(warnings) == len(to) && retryable(warnings) {
			continue
		}

		if err := s.repo.MarkReminded(ctx, o.ID, now); err != nil {
			return sent, fmt.Errorf("marking reminder for %s: %w", o.Reference, err)
		}

		sent++
	}

	return sent, nil
}

func retryable(warnings []*NotificationWarning) bool {
	for _, w := range warnings {
		if !errors.Is(w, ErrNoRecipient) {
			return true
		}
	}

	return false
}

func (s *Service) ensureNoConflicts(ctx context.Context, f Finder, candidate *Order) error {
	conflicts, err := s.planner.FindConflicts(ctx, f, candidate)
	if err != nil {
		return fmt.Errorf("checking conflicts: %w", err)
	}

	if len(conflicts) > 0 {
		return &ConflictError{Conflicts: conflicts}
	}

	return nil
}

func (s *Service) commit(ctx context.Context, tx Tx, o *Order) error {
	if err := tx.Save(ctx, o); err != nil {
		return fmt.Errorf("saving order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

func (s *Service) buildLines(ctx context.Context, params []LineParams) ([]Line, error) {
	lines := make([]Line, 0, len(params))

	for _, p := range params {
		product, err := s.product(ctx, p.ProductID)
		if err != nil {
			return nil, err
		}

		price := product.ListPrice
		if p.UnitPrice != nil {
			price = *p.UnitPrice
		}

		lines = append(lines, Line{
			ProductID:   p.ProductID,
			ProductName: product.Name,
			Quantity:    p.Quantity,
			UnitPrice:   price,
			Notes:       p.Notes,
		})
	}

	return lines, nil
}

func (s *Service) applyLineEdits(ctx context.Context, o *Order, completed time.Time, edits []LineEdit) ([]Line, error) {
	var v validation

	if o.DateStarted != nil && completed.Before(*o.DateStarted) {
		v.add("Completion date cannot be before the start date")
	}

	index := make(map[uuid.UUID]int, len(o.Lines))
	for i, l := range o.Lines {
		index[l.ID] = i
	}

	for _, e := range edits {
		if e.ID != nil {
			_, ok := index[*e.ID]
			v.check(ok, "line %s does not belong to order %s", *e.ID, o.Reference)
		}

		if e.Remove {
			continue
		}

		v.check(e.Quantity.IsPositive(), "Quantity must be greater than zero")
		v.check(e.UnitPrice == nil || !e.UnitPrice.IsNegative(), "Unit price cannot be negative")
	}

	if err := v.err(); err != nil {
		return nil, err
	}

	lines := make([]Line, len(o.Lines))
	copy(lines, o.Lines)

	removed := make(map[uuid.UUID]bool)

	for _, e := range edits {
		if e.ID != nil {
			if e.Remove {
				removed[*e.ID] = true
				continue
			}

			l := &lines[index[*e.ID]]
			l.Quantity = e.Quantity
			l.Notes = e.Notes

			if e.UnitPrice != nil {
				l.UnitPrice = *e.UnitPrice
			}

			if e.ProductID != uuid.Nil && e.ProductID != l.ProductID {
				product, err := s.product(ctx, e.ProductID)
				if err != nil {
					return nil, err
				}

				l.ProductID = product.ID
				l.ProductName = product.Name
			}

			continue
		}

		if e.Remove {
			continue
		}

		added, err := s.buildLines(ctx, []LineParams{{
			ProductID: e.ProductID,
			Quantity:  e.Quantity,
			UnitPrice: e.UnitPrice,
			Notes:     e.Notes,
		}})
		if err != nil {
			return nil, err
		}

		added[0].OrderID = o.ID
		lines = append(lines, added[0])
	}

	kept := lines[:0]

	for _, l := range lines {
		if l.ID != uuid.Nil && removed[l.ID] {
			continue
		}

		kept = append(kept, l)
	}

	return kept, nil
}

func (s *Service) product(ctx context.Context, id uuid.UUID) (*Product, error) {
	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, &ValidationError{Problems: []string{fmt.Sprintf("product %s does not exist", id)}}
		}

		return nil, fmt.Errorf("getting product: %w", err)
	}

	return p, nil
}

func (s *Service) result(ctx context.Context, o *Order, kind notify.Kind, message string) *Result {
	return &Result{Order: o, Warnings: s.announce(ctx, o, recipients(o, kind), kind, message)}
}

// ErrNoRecipient is reported when the addressee has no email address on file.
var ErrNoRecipient = errors.New("no email address on file")

type recipient struct {
	role  string
	email string
}

// technicianKinds are the events the assigned technician receives as well as the customer.
var technicianKinds = map[notify.Kind]bool{
	notify.KindOrderReprogrammed: true,
	notify.KindOrderCompleted:    true,
	notify.KindOrderReminder:     true,
}

func recipients(o *Order, kind notify.Kind) []recipient {
	out := []recipient{{role: "customer", email: o.CustomerEmail}}
	if technicianKinds[kind] && o.TechnicianID != nil {
		out = append(out, recipient{role: "technician", email: o.TechnicianEmail})
	}

	return out
}

// announce delivers one event per recipient. Each failure becomes its own warning
// and never undoes the committed action.
func (s *Service) announce(ctx context.Context, o *Order, to []recipient, kind notify.Kind, message string) []*NotificationWarning {
	var warnings []*NotificationWarning

	for _, r := range to {
		err := ErrNoRecipient
		if r.email != "" {
			err = s.notifier.Notify(ctx, notify.Event{
				Kind:       kind,
				SubjectID:  o.ID,
				Reference:  o.Reference,
				Recipient:  r.email,
				Message:    message,
				OccurredAt: s.now(),
			})
		}

		if err == nil {
			continue
		}

		slog.Warn("notification not delivered", "kind", kind, "order", o.Reference, "recipient", r.role, "error", err)

		warnings = append(warnings, &NotificationWarning{Event: string(kind), Recipient: r.role, Err: err})
	}

	return warnings
}

func validateLines(v *validation, lines []LineParams) {
	for i, l := range lines {
		v.check(l.ProductID != uuid.Nil, "line %d: product is required", i+1)
		v.check(l.Quantity.IsPositive(), "line %d: quantity must be greater than zero", i+1)
		v.check(l.UnitPrice == nil || !l.UnitPrice.IsNegative(), "line %d: unit price cannot be negative", i+1)
	}
}

func validateForSchedule(o *Order) error {
	var v validation

	v.check(o.CustomerID != uuid.Nil, "Customer is required")
	v.check(o.ServiceType.ID != uuid.Nil, "Service type is required")
	v.check(!o.ServiceType.RequiresEquipment || o.EquipmentID != nil, "Equipment is required for this service type")
	v.check(o.ServiceType.Duration >= 0, "Service type duration cannot be negative")

	return v.err()
}

func lockKeys(o *Order) []uuid.UUID {
	var keys []uuid.UUID
	if o.TechnicianID != nil {
		keys = append(keys, *o.TechnicianID)
	}

	if o.EquipmentID != nil {
		keys = append(keys, *o.EquipmentID)
	}

	return keys
}

func appendNote(notes, note string) string {
	if strings.TrimSpace(notes) == "" {
		return note
	}

	return notes + "\n\n" + note
}
