package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

func WindowAt(start time.Time, hours float64) Window {
	return Window{Start: start, End: start.Add(hoursToDuration(hours))}
}

// Overlaps reports whether two half-open windows intersect. Touching boundaries do not overlap.
func (w Window) Overlaps(other Window) bool {
	return w.Start.Before(other.End) && other.Start.Before(w.End)
}

// ActiveFilter selects scheduled and in-progress orders by technician or equipment.
type ActiveFilter struct {
	TechnicianID *uuid.UUID
	EquipmentID  *uuid.UUID
}

// Finder reads the orders that currently occupy technicians and equipment.
type Finder interface {
	ActiveOrders(ctx context.Context, filter ActiveFilter) ([]*Order, error)
}

type Conflict struct {
	Order  *Order
	Reason string
}

// WorkHours bounds the slots the planner may propose.
type WorkHours struct {
	Start       int // Hour of day
	End         int // Hour of day
	HorizonDays int
}

var DefaultWorkHours = WorkHours{Start: 8, End: 18, HorizonDays: 7}

// Planner answers availability, slot and conflict questions over a Finder.
type Planner struct {
	hours WorkHours
	now   func() time.Time
}

func NewPlanner(hours WorkHours, now func() time.Time) *Planner {
	if now == nil {
		now = time.Now
	}

	return &Planner{hours: hours, now: now}
}

// IsAvailable reports whether no active order of the technician overlaps w.
func (p *Planner) IsAvailable(ctx context.Context, f Finder, technicianID uuid.UUID, w Window) (bool, error) {
	orders, err := f.ActiveOrders(ctx, ActiveFilter{TechnicianID: &technicianID})
	if err != nil {
		return false, fmt.Errorf("loading technician orders: %w", err)
	}

	return len(overlapping(orders, uuid.Nil, w)) == 0, nil
}

// FindNextSlot returns the first day within the horizon, starting tomorrow, whose
// workday-start slot of the given length is free and ends by the workday end.
func (p *Planner) FindNextSlot(ctx context.Context, f Finder, technicianID uuid.UUID, hours float64) (Window, bool, error) {
	now := p.now()
	tomorrow := time.Date(now.Year(), now.Month(), now.Day()+1, p.hours.Start, 0, 0, 0, now.Location())

	for day := range p.hours.HorizonDays {
		start := tomorrow.AddDate(0, 0, day)
		closing := time.Date(start.Year(), start.Month(), start.Day(), p.hours.End, 0, 0, 0, start.Location())

		w := WindowAt(start, hours)
		if w.End.After(closing) {
			continue
		}

		free, err := p.IsAvailable(ctx, f, technicianID, w)
		if err != nil {
			return Window{}, false, err
		}

		if free {
			return w, true, nil
		}
	}

	return Window{}, false, nil
}

// FindConflicts lists the active orders that share the candidate's technician or
// equipment within its window. An order may appear once per reason.
func (p *Planner) FindConflicts(ctx context.Context, f Finder, candidate *Order) ([]Conflict, error) {
	if candidate.TechnicianID == nil || candidate.DateScheduled == nil {
		return nil, nil
	}

	w, _ := candidate.Window()

	var conflicts []Conflict

	byTechnician, err := f.ActiveOrders(ctx, ActiveFilter{TechnicianID: candidate.TechnicianID})
	if err != nil {
		return nil, fmt.Errorf("loading technician orders: %w", err)
	}

	for _, o := range overlapping(byTechnician, candidate.ID, w) {
		conflicts = append(conflicts, Conflict{
			Order:  o,
			Reason: fmt.Sprintf("technician overlap with order %s", o.Reference),
		})
	}

	if candidate.EquipmentID == nil {
		return conflicts, nil
	}

	byEquipment, err := f.ActiveOrders(ctx, ActiveFilter{EquipmentID: candidate.EquipmentID})
	if err != nil {
		return nil, fmt.Errorf("loading equipment orders: %w", err)
	}

	for _, o := range overlapping(byEquipment, candidate.ID, w) {
		conflicts = append(conflicts, Conflict{
			Order:  o,
			Reason: fmt.Sprintf("equipment conflict with order %s", o.Reference),
		})
	}

	return conflicts, nil
}

func overlapping(orders []*Order, exclude uuid.UUID, w Window) []*Order {
	var out []*Order

	for _, o := range orders {
		if o.ID == exclude || !o.State.Active() {
			continue
		}

		ow, ok := o.Window()
		if ok && ow.Overlaps(w) {
			out = append(out, o)
		}
	}

	return out
}
