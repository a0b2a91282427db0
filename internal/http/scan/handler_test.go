package scan_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/fieldservice/internal/http/scan"
	"github.com/MrJamesThe3rd/fieldservice/internal/order"
	"github.com/MrJamesThe3rd/fieldservice/internal/qrcode"
)

type finderFunc func(ctx context.Context, reference string) (*order.Order, error)

func (f finderFunc) GetByReference(ctx context.Context, reference string) (*order.Order, error) {
	return f(ctx, reference)
}

func TestHandler_Resolve(t *testing.T) {
	known := &order.Order{
		ID:             uuid.New(),
		Reference:      "SO00042",
		CustomerName:   "ACME Corp",
		TechnicianName: "Alice",
		DateRequested:  time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		State:          order.StateScheduled,
	}

	finder := finderFunc(func(_ context.Context, reference string) (*order.Order, error) {
		if reference == known.Reference {
			return known, nil
		}

		return nil, order.ErrNotFound
	})

	r := chi.NewRouter()
	r.Route("/scan", scan.NewHandler(qrcode.NewScanner(finder)).Routes)

	tests := []struct {
		name       string
		payload    string
		wantStatus int
	}{
		{name: "label of a known order", payload: qrcode.ForOrder(known).String(), wantStatus: http.StatusOK},
		{name: "unknown reference", payload: "SO99999|ACME Corp|2024-01-01T09:00:00Z", wantStatus: http.StatusNotFound},
		{name: "customer mismatch", payload: "SO00042|Someone Else|2024-01-01T09:00:00Z", wantStatus: http.StatusForbidden},
		{name: "too few fields", payload: "SO00042|ACME Corp", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/scan/"+url.PathEscape(tt.payload), nil))

			require.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus != http.StatusOK {
				return
			}

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "SO00042", body["reference"])
			assert.Equal(t, "Alice", body["technician"])
		})
	}
}
