package report_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/mock/gomock"

	handler "github.com/MrJamesThe3rd/fieldservice/internal/http/report"
	"github.com/MrJamesThe3rd/fieldservice/internal/order"
	"github.com/MrJamesThe3rd/fieldservice/internal/report"
)

func newRouter(t *testing.T) (*order.MockRepository, chi.Router) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := order.NewMockRepository(ctrl)
	orderSvc := order.NewService(repo, order.NewMockIssuer(ctrl), order.NewMockNotifier(ctrl))

	r := chi.NewRouter()
	r.Route("/reports", handler.NewHandler(report.NewService(orderSvc)).Routes)

	return repo, r
}

func januaryOrders() []*order.Order {
	alice := uuid.New()
	started := time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC)

	return []*order.Order{
		{
			Reference:      "SO00001",
			DateRequested:  time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC),
			ServiceType:    order.ServiceType{ID: uuid.New(), Name: "Maintenance"},
			TechnicianID:   &alice,
			TechnicianName: "Alice",
			State:          order.StateCompleted,
			DateStarted:    &started,
			DateCompleted:  new(started.Add(2 * time.Hour)),
			Invoiced:       true,
			Invoice:        &order.Invoice{Total: decimal.RequireFromString("120.00")},
		},
		{
			Reference:     "SO00002",
			DateRequested: time.Date(2024, 1, 31, 17, 0, 0, 0, time.UTC),
			ServiceType:   order.ServiceType{ID: uuid.New(), Name: "Repair"},
			State:         order.StateDraft,
		},
	}
}

func expectJanuary(t *testing.T, repo *order.MockRepository) {
	t.Helper()

	repo.EXPECT().List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter order.ListFilter) ([]*order.Order, error) {
			assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *filter.From)
			assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), *filter.To)

			return januaryOrders(), nil
		})
}

func TestHandler_Summary(t *testing.T) {
	repo, r := newRouter(t)
	expectJanuary(t, repo)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/summary?from=2024-01-01&to=2024-01-31", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Total           int                 `json:"total"`
		ByState         map[order.State]int `json:"by_state"`
		InvoicedRevenue string              `json:"invoiced_revenue"`
		Technicians     []struct {
			Name      string `json:"name"`
			Completed int    `json:"completed"`
		} `json:"technicians"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, 2, body.Total)
	assert.Equal(t, 1, body.ByState[order.StateCompleted])
	assert.Equal(t, "120", body.InvoicedRevenue)
	require.Len(t, body.Technicians, 1)
	assert.Equal(t, "Alice", body.Technicians[0].Name)
}

func TestHandler_Summary_BadRange(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{name: "missing from", query: "?to=2024-01-31"},
		{name: "bad to", query: "?from=2024-01-01&to=31/01/2024"},
		{name: "inverted", query: "?from=2024-02-01&to=2024-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, r := newRouter(t)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/summary"+tt.query, nil))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandler_XLSX(t *testing.T) {
	repo, r := newRouter(t)
	expectJanuary(t, repo)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/summary.xlsx?from=2024-01-01&to=2024-01-31", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Contains(t, rec.Header().Get("Content-Disposition"), "service_orders_20240101_20240201.xlsx")

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)

	defer f.Close()

	total, err := f.GetCellValue("Summary", "B4")
	require.NoError(t, err)
	assert.Equal(t, "2", total)
}

func TestHandler_Bundle(t *testing.T) {
	repo, r := newRouter(t)
	expectJanuary(t, repo)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/summary.zip?from=2024-01-01&to=2024-01-31", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	data := rec.Body.Bytes()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	names := make([]string, len(zr.File))
	for i, f := range zr.File {
		names[i] = f.Name
	}

	assert.ElementsMatch(t, []string{"service_orders_20240101_20240201.xlsx", "summary.txt"}, names)

	for _, f := range zr.File {
		if f.Name != "summary.txt" {
			continue
		}

		rc, err := f.Open()
		require.NoError(t, err)

		text, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())

		assert.Contains(t, string(text), "Orders: 2")
		assert.Contains(t, string(text), "Invoiced revenue: 120.00")
	}
}
