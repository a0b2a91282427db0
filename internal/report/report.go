package report

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fieldservice/internal/order"
)

// Lister is the part of the order service the aggregator reads from.
type Lister interface {
	List(ctx context.Context, filter order.ListFilter) ([]*order.Order, error)
}

// Range is the half-open interval [From, To) matched against the requested date.
type Range struct {
	From time.Time
	To   time.Time
}

type TechnicianStats struct {
	TechnicianID uuid.UUID
	Name         string
	Orders       int
	Completed    int
	AvgDuration  float64
}

type ServiceTypeStats struct {
	ServiceTypeID uuid.UUID
	Name          string
	Orders        int
}

// Summary is the aggregate view of the orders requested within a Range.
type Summary struct {
	Range           Range
	Total           int
	ByState         map[order.State]int
	InvoicedRevenue decimal.Decimal
	AvgDuration     float64
	Technicians     []TechnicianStats
	ServiceTypes    []ServiceTypeStats
}

type Service struct {
	orders Lister
}

func NewService(orders Lister) *Service {
	return &Service{orders: orders}
}

// Summary loads every order requested in r and folds it into a Summary.
func (s *Service) Summary(ctx context.Context, r Range) (*Summary, error) {
	if !r.From.Before(r.To) {
		return nil, fmt.Errorf("%w: range start must be before its end", ErrInvalidRange)
	}

	orders, err := s.orders.List(ctx, order.ListFilter{From: &r.From, To: &r.To})
	if err != nil {
		return nil, fmt.Errorf("listing service orders: %w", err)
	}

	return Aggregate(r, orders), nil
}

type durationAcc struct {
	sum float64
	n   int
}

func (a *durationAcc) add(hours float64) {
	if hours == 0 {
		return
	}

	a.sum += hours
	a.n++
}

func (a durationAcc) avg() float64 {
	if a.n == 0 {
		return 0
	}

	return a.sum / float64(a.n)
}

// Aggregate folds orders into a Summary. Orders requested outside r are ignored.
func Aggregate(r Range, orders []*order.Order) *Summary {
	sum := &Summary{
		Range:           r,
		ByState:         make(map[order.State]int),
		InvoicedRevenue: decimal.Zero,
	}

	var overall durationAcc

	techs := make(map[uuid.UUID]*TechnicianStats)
	techDur := make(map[uuid.UUID]*durationAcc)
	types := make(map[uuid.UUID]*ServiceTypeStats)

	for _, o := range orders {
		if o.DateRequested.Before(r.From) || !o.DateRequested.Before(r.To) {
			continue
		}

		sum.Total++
		sum.ByState[o.State]++

		if o.Invoiced && o.Invoice != nil {
			sum.InvoicedRevenue = sum.InvoicedRevenue.Add(o.Invoice.Total)
		}

		overall.add(o.Duration())

		if o.TechnicianID != nil {
			id := *o.TechnicianID

			ts, ok := techs[id]
			if !ok {
				ts = &TechnicianStats{TechnicianID: id, Name: o.TechnicianName}
				techs[id] = ts
				techDur[id] = &durationAcc{}
			}

			ts.Orders++
			if o.State == order.StateCompleted {
				ts.Completed++
			}

			techDur[id].add(o.Duration())
		}

		st, ok := types[o.ServiceType.ID]
		if !ok {
			st = &ServiceTypeStats{ServiceTypeID: o.ServiceType.ID, Name: o.ServiceType.Name}
			types[o.ServiceType.ID] = st
		}

		st.Orders++
	}

	sum.AvgDuration = overall.avg()

	for id, ts := range techs {
		ts.AvgDuration = techDur[id].avg()
		sum.Technicians = append(sum.Technicians, *ts)
	}

	for _, st := range types {
		sum.ServiceTypes = append(sum.ServiceTypes, *st)
	}

	slices.SortFunc(sum.Technicians, func(a, b TechnicianStats) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), strings.Compare(a.TechnicianID.String(), b.TechnicianID.String()))
	})
	slices.SortFunc(sum.ServiceTypes, func(a, b ServiceTypeStats) int {
		return cmp.Or(cmp.Compare(b.Orders, a.Orders), cmp.Compare(a.Name, b.Name))
	})

	return sum
}

// States lists the lifecycle states in display order.
var States = []order.State{
	order.StateDraft,
	order.StateScheduled,
	order.StateInProgress,
	order.StateCompleted,
	order.StateCancelled,
}

// Text renders the summary as a plain-text block for the console.
func (s *Summary) Text() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Period: %s to %s\n", s.Range.From.Format(time.DateOnly), s.Range.To.Format(time.DateOnly))
	fmt.Fprintf(&sb, "Orders: %d\n", s.Total)

	for _, st := range States {
		fmt.Fprintf(&sb, "  %-12s %d\n", st, s.ByState[st])
	}

	fmt.Fprintf(&sb, "Invoiced revenue: %s\n", s.InvoicedRevenue.StringFixed(2))
	fmt.Fprintf(&sb, "Average duration: %.2f h\n", s.AvgDuration)

	if len(s.Technicians) > 0 {
		sb.WriteString("\nTechnicians\n")

		for _, t := range s.Technicians {
			fmt.Fprintf(&sb, "* %s | %d orders | %d completed | %.2f h avg\n", t.Name, t.Orders, t.Completed, t.AvgDuration)
		}
	}

	if len(s.ServiceTypes) > 0 {
		sb.WriteString("\nService types\n")

		for _, st := range s.ServiceTypes {
			fmt.Fprintf(&sb, "* %s | %d orders\n", st.Name, st.Orders)
		}
	}

	return sb.String()
}
