package report_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/fieldservice/internal/order"
	"github.com/MrJamesThe3rd/fieldservice/internal/report"
)

type listerFunc func(ctx context.Context, filter order.ListFilter) ([]*order.Order, error)

func (f listerFunc) List(ctx context.Context, filter order.ListFilter) ([]*order.Order, error) {
	return f(ctx, filter)
}

var (
	januaryRange = report.Range{
		From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	alice       = uuid.New()
	bob         = uuid.New()
	maintenance = order.ServiceType{ID: uuid.New(), Name: "Maintenance"}
	repair      = order.ServiceType{ID: uuid.New(), Name: "Repair"}
)

func day(d, hour int) time.Time {
	return time.Date(2024, 1, d, hour, 0, 0, 0, time.UTC)
}

func worked(o *order.Order, start time.Time, hours int) *order.Order {
	o.State = order.StateCompleted
	o.DateStarted = new(start)
	o.DateCompleted = new(start.Add(time.Duration(hours) * time.Hour))

	return o
}

func fixtureOrders() []*order.Order {
	o1 := worked(&order.Order{
		Reference: "SO00001", DateRequested: day(2, 9), ServiceType: maintenance,
		TechnicianID: &alice, TechnicianName: "Alice",
		Invoiced: true, Invoice: &order.Invoice{Total: decimal.RequireFromString("150.50")},
	}, day(3, 9), 2)

	o2 := worked(&order.Order{
		Reference: "SO00002", DateRequested: day(4, 9), ServiceType: repair,
		TechnicianID: &alice, TechnicianName: "Alice",
	}, day(5, 9), 4)

	o3 := &order.Order{
		Reference: "SO00003", DateRequested: day(6, 9), ServiceType: maintenance,
		TechnicianID: &bob, TechnicianName: "Bob", State: order.StateScheduled,
		DateScheduled: new(day(8, 8)),
	}

	o4 := &order.Order{
		Reference: "SO00004", DateRequested: day(7, 9), ServiceType: maintenance,
		State: order.StateDraft,
	}

	// Invoiced flag without a loaded invoice contributes nothing.
	o5 := &order.Order{
		Reference: "SO00005", DateRequested: day(9, 9), ServiceType: repair,
		State: order.StateCancelled, Invoiced: false,
		Invoice: &order.Invoice{Total: decimal.NewFromInt(999)},
	}

	outside := worked(&order.Order{
		Reference: "SO00006", DateRequested: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), ServiceType: repair,
		TechnicianID: &bob, TechnicianName: "Bob",
	}, day(10, 9), 8)

	return []*order.Order{o1, o2, o3, o4, o5, outside}
}

func TestAggregate(t *testing.T) {
	sum := report.Aggregate(januaryRange, fixtureOrders())

	assert.Equal(t, 5, sum.Total)
	assert.Equal(t, map[order.State]int{
		order.StateCompleted: 2,
		order.StateScheduled: 1,
		order.StateDraft:     1,
		order.StateCancelled: 1,
	}, sum.ByState)
	assert.True(t, decimal.RequireFromString("150.50").Equal(sum.InvoicedRevenue), sum.InvoicedRevenue.String())
	assert.InDelta(t, 3.0, sum.AvgDuration, 1e-9)

	require.Len(t, sum.Technicians, 2)
	assert.Equal(t, report.TechnicianStats{TechnicianID: alice, Name: "Alice", Orders: 2, Completed: 2, AvgDuration: 3}, sum.Technicians[0])
	assert.Equal(t, report.TechnicianStats{TechnicianID: bob, Name: "Bob", Orders: 1, Completed: 0, AvgDuration: 0}, sum.Technicians[1])

	require.Len(t, sum.ServiceTypes, 2)
	assert.Equal(t, "Maintenance", sum.ServiceTypes[0].Name)
	assert.Equal(t, 3, sum.ServiceTypes[0].Orders)
	assert.Equal(t, "Repair", sum.ServiceTypes[1].Name)
	assert.Equal(t, 2, sum.ServiceTypes[1].Orders)
}

func TestAggregate_Empty(t *testing.T) {
	sum := report.Aggregate(januaryRange, nil)

	assert.Zero(t, sum.Total)
	assert.Zero(t, sum.AvgDuration)
	assert.True(t, sum.InvoicedRevenue.IsZero())
	assert.Empty(t, sum.Technicians)
	assert.Empty(t, sum.ServiceTypes)
}

func TestService_Summary(t *testing.T) {
	t.Run("passes range to lister", func(t *testing.T) {
		var got order.ListFilter

		svc := report.NewService(listerFunc(func(_ context.Context, filter order.ListFilter) ([]*order.Order, error) {
			got = filter
			return fixtureOrders(), nil
		}))

		sum, err := svc.Summary(context.Background(), januaryRange)
		require.NoError(t, err)

		require.NotNil(t, got.From)
		require.NotNil(t, got.To)
		assert.Equal(t, januaryRange.From, *got.From)
		assert.Equal(t, januaryRange.To, *got.To)
		assert.Equal(t, 5, sum.Total)
	})

	t.Run("rejects inverted range", func(t *testing.T) {
		svc := report.NewService(listerFunc(func(context.Context, order.ListFilter) ([]*order.Order, error) {
			t.Fatal("lister must not be called")
			return nil, nil
		}))

		_, err := svc.Summary(context.Background(), report.Range{From: januaryRange.To, To: januaryRange.From})
		assert.ErrorIs(t, err, report.ErrInvalidRange)
	})

	t.Run("lister error", func(t *testing.T) {
		svc := report.NewService(listerFunc(func(context.Context, order.ListFilter) ([]*order.Order, error) {
			return nil, errors.New("db down")
		}))

		_, err := svc.Summary(context.Background(), januaryRange)
		assert.ErrorContains(t, err, "db down")
	})
}

func TestSummary_Text(t *testing.T) {
	text := report.Aggregate(januaryRange, fixtureOrders()).Text()

	assert.Contains(t, text, "Period: 2024-01-01 to 2024-02-01")
	assert.Contains(t, text, "Orders: 5")
	assert.Contains(t, text, "Invoiced revenue: 150.50")
	assert.Contains(t, text, "* Alice | 2 orders | 2 completed | 3.00 h avg")
	assert.Contains(t, text, "* Maintenance | 3 orders")
}

func TestSummary_WriteXLSX(t *testing.T) {
	sum := report.Aggregate(januaryRange, fixtureOrders())

	var buf bytes.Buffer
	require.NoError(t, sum.WriteXLSX(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)

	defer f.Close()

	assert.Equal(t, []string{"Summary", "Technicians", "Service Types"}, f.GetSheetList())

	total, err := f.GetCellValue("Summary", "B4")
	require.NoError(t, err)
	assert.Equal(t, "5", total)

	name, err := f.GetCellValue("Technicians", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Alice", name)

	footer, err := f.GetCellValue("Technicians", "B4")
	require.NoError(t, err)
	assert.Equal(t, "3", footer)

	st, err := f.GetCellValue("Service Types", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Maintenance", st)

	assert.Equal(t, "service_orders_20240101_20240201.xlsx", sum.Filename())
}
