package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/fieldservice/internal/customer"
	"github.com/MrJamesThe3rd/fieldservice/internal/equipment"
	fsHttp "github.com/MrJamesThe3rd/fieldservice/internal/http"
	"github.com/MrJamesThe3rd/fieldservice/internal/http/auth"
	customerHandler "github.com/MrJamesThe3rd/fieldservice/internal/http/customer"
	equipmentHandler "github.com/MrJamesThe3rd/fieldservice/internal/http/equipment"
	orderHandler "github.com/MrJamesThe3rd/fieldservice/internal/http/order"
	portalHandler "github.com/MrJamesThe3rd/fieldservice/internal/http/portal"
	reportHandler "github.com/MrJamesThe3rd/fieldservice/internal/http/report"
	scanHandler "github.com/MrJamesThe3rd/fieldservice/internal/http/scan"
	technicianHandler "github.com/MrJamesThe3rd/fieldservice/internal/http/technician"
	"github.com/MrJamesThe3rd/fieldservice/internal/importer"
	"github.com/MrJamesThe3rd/fieldservice/internal/order"
	"github.com/MrJamesThe3rd/fieldservice/internal/qrcode"
	"github.com/MrJamesThe3rd/fieldservice/internal/report"
	"github.com/MrJamesThe3rd/fieldservice/internal/technician"
)

type fixture struct {
	orders    *order.MockRepository
	customers *customer.MockRepository
	router    http.Handler
}

func newFixture(t *testing.T, authn *auth.Authenticator) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		orders:    order.NewMockRepository(ctrl),
		customers: customer.NewMockRepository(ctrl),
	}

	orderSvc := order.NewService(f.orders, order.NewMockIssuer(ctrl), order.NewMockNotifier(ctrl))
	equipSvc := equipment.NewService(equipment.NewMockRepository(ctrl))

	f.router = fsHttp.New(fsHttp.Handlers{
		Orders:      orderHandler.NewHandler(orderSvc),
		Equipment:   equipmentHandler.NewHandler(equipSvc, orderSvc, importer.NewService(equipSvc)),
		Technicians: technicianHandler.NewHandler(technician.NewService(technician.NewMockRepository(ctrl)), orderSvc),
		Customers:   customerHandler.NewHandler(customer.NewService(f.customers), authn),
		Reports:     reportHandler.NewHandler(report.NewService(orderSvc)),
		Portal:      portalHandler.NewHandler(orderSvc),
		Scan:        scanHandler.NewHandler(qrcode.NewScanner(orderSvc)),
	}, fsHttp.Options{Auth: authn, AllowedOrigins: []string{"https://portal.example.test"}})

	return f
}

func (f *fixture) do(method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

func TestRouter_Healthz(t *testing.T) {
	f := newFixture(t, nil)

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/healthz", "").Code)
}

func TestRouter_WithoutAuth(t *testing.T) {
	f := newFixture(t, nil)

	f.customers.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, nil)

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/v1/customers", "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/portal/orders", "").Code)
}

func TestRouter_WithAuth(t *testing.T) {
	authn := auth.New("router-secret")

	staff, err := authn.Issue(auth.Claims{Role: auth.RoleDispatcher}, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		target     string
		token      string
		setupMock  func(f *fixture)
		wantStatus int
	}{
		{
			name:       "staff route without token",
			target:     "/api/v1/customers",
			setupMock:  func(f *fixture) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "staff route with dispatcher token",
			target: "/api/v1/customers",
			token:  staff,
			setupMock: func(f *fixture) {
				f.customers.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "portal refuses staff token",
			target:     "/portal/orders",
			token:      staff,
			setupMock:  func(f *fixture) {},
			wantStatus: http.StatusForbidden,
		},
		{
			name:   "scan is public",
			target: "/scan/SO00001%7CACME%7C",
			setupMock: func(f *fixture) {
				f.orders.EXPECT().GetByReference(gomock.Any(), "SO00001").Return(nil, order.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, authn)
			tt.setupMock(f)

			assert.Equal(t, tt.wantStatus, f.do(http.MethodGet, tt.target, tt.token).Code)
		})
	}
}

func TestRouter_CORS(t *testing.T) {
	f := newFixture(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/customers", nil)
	req.Header.Set("Origin", "https://portal.example.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, "https://portal.example.test", rec.Header().Get("Access-Control-Allow-Origin"))
}
