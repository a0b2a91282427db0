package equipment_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/fieldservice/internal/equipment"
	handler "github.com/MrJamesThe3rd/fieldservice/internal/http/equipment"
	"github.com/MrJamesThe3rd/fieldservice/internal/importer"
	"github.com/MrJamesThe3rd/fieldservice/internal/order"
)

type fixture struct {
	equipment *equipment.MockRepository
	orders    *order.MockRepository
	router    chi.Router
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		equipment: equipment.NewMockRepository(ctrl),
		orders:    order.NewMockRepository(ctrl),
	}

	equipSvc := equipment.NewService(f.equipment)
	orderSvc := order.NewService(f.orders, order.NewMockIssuer(ctrl), order.NewMockNotifier(ctrl))

	f.router = chi.NewRouter()
	f.router.Route("/equipment", handler.NewHandler(equipSvc, orderSvc, importer.NewService(equipSvc)).Routes)

	return f
}

func upload(t *testing.T, fields map[string]string, content string) *http.Request {
	t.Helper()

	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}

	if content != "" {
		fw, err := mw.CreateFormFile("file", "equipment.csv")
		require.NoError(t, err)

		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}

	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/equipment/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return req
}

const equipmentCSV = "Name,Serial Number,Model\nBoiler,SN-1,B200\nPump,SN-2,P10\n"

func TestHandler_Import(t *testing.T) {
	owner := uuid.New()

	tests := []struct {
		name       string
		fields     map[string]string
		content    string
		setupMock  func(m *equipment.MockRepository)
		wantStatus int
		wantBody   string
	}{
		{
			name:    "creates every row",
			fields:  map[string]string{"customer_id": owner.String()},
			content: equipmentCSV,
			setupMock: func(m *equipment.MockRepository) {
				m.EXPECT().CreateBatch(gomock.Any(), gomock.Len(2)).
					DoAndReturn(func(_ context.Context, items []*equipment.Equipment) error {
						for _, e := range items {
							assert.Equal(t, owner, e.CustomerID)
							e.ID = uuid.New()
						}

						return nil
					})
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"imported":2`,
		},
		{
			name:       "dry run previews without writing",
			fields:     map[string]string{"customer_id": owner.String(), "dry_run": "true"},
			content:    equipmentCSV,
			setupMock:  func(m *equipment.MockRepository) {},
			wantStatus: http.StatusOK,
			wantBody:   `"serial_number":"SN-2"`,
		},
		{
			name:       "missing customer",
			content:    equipmentCSV,
			setupMock:  func(m *equipment.MockRepository) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   "customer_id field is required",
		},
		{
			name:       "missing file",
			fields:     map[string]string{"customer_id": owner.String()},
			setupMock:  func(m *equipment.MockRepository) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   "file field is required",
		},
		{
			name:       "unrecognized layout",
			fields:     map[string]string{"customer_id": owner.String()},
			content:    "Model\nB200\n",
			setupMock:  func(m *equipment.MockRepository) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   "no matching equipment layout",
		},
		{
			name:       "unknown format",
			fields:     map[string]string{"customer_id": owner.String(), "format": "xml"},
			content:    equipmentCSV,
			setupMock:  func(m *equipment.MockRepository) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   "unknown import format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f.equipment)

			rec := httptest.NewRecorder()
			f.router.ServeHTTP(rec, upload(t, tt.fields, tt.content))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestHandler_History(t *testing.T) {
	id := uuid.New()

	t.Run("lists orders of the equipment", func(t *testing.T) {
		f := newFixture(t)

		f.equipment.EXPECT().Get(gomock.Any(), id).Return(&equipment.Equipment{ID: id, Name: "Boiler"}, nil)
		f.orders.EXPECT().List(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter order.ListFilter) ([]*order.Order, error) {
				assert.Equal(t, id, *filter.EquipmentID)

				return []*order.Order{{ID: uuid.New(), Reference: "SO00001", EquipmentID: &id, State: order.StateCompleted}}, nil
			})

		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/equipment/"+id.String()+"/history", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var body []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body, 1)
		assert.Equal(t, "SO00001", body[0]["reference"])
	})

	t.Run("unknown equipment", func(t *testing.T) {
		f := newFixture(t)

		f.equipment.EXPECT().Get(gomock.Any(), id).Return(nil, equipment.ErrNotFound)

		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/equipment/"+id.String()+"/history", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandler_Create(t *testing.T) {
	f := newFixture(t)

	f.equipment.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	body := `{"customer_id":"` + uuid.NewString() + `","name":"Boiler","warranty_end":"` +
		time.Now().AddDate(1, 0, 0).UTC().Format(time.RFC3339) + `"}`

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/equipment", bytes.NewBufferString(body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"under_warranty":true`)
	assert.Contains(t, rec.Body.String(), `"service_interval_days":365`)

	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/equipment", bytes.NewBufferString(`{"name":"Boiler"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "owner is required")
}

func TestHandler_List_BadDate(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/equipment?due_before=tomorrow", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
