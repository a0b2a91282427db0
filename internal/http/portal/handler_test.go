package portal_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/fieldservice/internal/http/auth"
	"github.com/MrJamesThe3rd/fieldservice/internal/http/portal"
	"github.com/MrJamesThe3rd/fieldservice/internal/order"
)

const secret = "portal-secret"

type fixture struct {
	repo   *order.MockRepository
	tokens *auth.Authenticator
	router chi.Router
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		repo:   order.NewMockRepository(ctrl),
		tokens: auth.New(secret),
	}

	svc := order.NewService(f.repo, order.NewMockIssuer(ctrl), order.NewMockNotifier(ctrl))

	f.router = chi.NewRouter()
	f.router.Route("/portal", func(r chi.Router) {
		r.Use(f.tokens.Require(auth.RoleCustomer))
		portal.NewHandler(svc).Routes(r)
	})

	return f
}

func (f *fixture) get(t *testing.T, target string, claims auth.Claims) *httptest.ResponseRecorder {
	t.Helper()

	token, err := f.tokens.Issue(claims, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

func customerClaims(id uuid.UUID) auth.Claims {
	return auth.Claims{Role: auth.RoleCustomer, CustomerID: &id}
}

func TestHandler_List(t *testing.T) {
	owner := uuid.New()

	tests := []struct {
		name       string
		query      string
		setupMock  func(m *order.MockRepository)
		wantStatus int
		wantCount  int
		wantPages  int
	}{
		{
			name:  "first page sorted by date",
			query: "",
			setupMock: func(m *order.MockRepository) {
				m.EXPECT().Count(gomock.Any(), gomock.Any()).Return(45, nil)
				m.EXPECT().List(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, filter order.ListFilter) ([]*order.Order, error) {
						assert.Equal(t, owner, *filter.CustomerID)
						assert.Equal(t, order.SortDate, filter.Sort)
						assert.Equal(t, 20, filter.Limit)
						assert.Equal(t, 0, filter.Offset)

						return []*order.Order{{ID: uuid.New(), CustomerID: owner, Reference: "SO00001"}}, nil
					})
			},
			wantStatus: http.StatusOK,
			wantCount:  45,
			wantPages:  3,
		},
		{
			name:  "third page by reference",
			query: "?page=3&sort=reference",
			setupMock: func(m *order.MockRepository) {
				m.EXPECT().Count(gomock.Any(), gomock.Any()).Return(45, nil)
				m.EXPECT().List(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, filter order.ListFilter) ([]*order.Order, error) {
						assert.Equal(t, order.SortReference, filter.Sort)
						assert.Equal(t, 40, filter.Offset)

						return nil, nil
					})
			},
			wantStatus: http.StatusOK,
			wantCount:  45,
			wantPages:  3,
		},
		{
			name:       "unknown sort",
			query:      "?sort=price",
			setupMock:  func(m *order.MockRepository) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad page",
			query:      "?page=0",
			setupMock:  func(m *order.MockRepository) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f.repo)

			rec := f.get(t, "/portal/orders"+tt.query, customerClaims(owner))
			require.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus != http.StatusOK {
				return
			}

			var body struct {
				Count int `json:"count"`
				Pages int `json:"pages"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCount, body.Count)
			assert.Equal(t, tt.wantPages, body.Pages)
		})
	}
}

func TestHandler_Get(t *testing.T) {
	owner := uuid.New()
	id := uuid.New()

	t.Run("own order", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), id).Return(&order.Order{ID: id, CustomerID: owner, Reference: "SO00007"}, nil)

		rec := f.get(t, "/portal/orders/"+id.String(), customerClaims(owner))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "SO00007")
	})

	t.Run("another customer's order looks missing", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), id).Return(&order.Order{ID: id, CustomerID: uuid.New(), Reference: "SO00008"}, nil)

		rec := f.get(t, "/portal/orders/"+id.String(), customerClaims(owner))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.NotContains(t, rec.Body.String(), "SO00008")
	})

	t.Run("staff token is refused", func(t *testing.T) {
		f := newFixture(t)

		rec := f.get(t, "/portal/orders/"+id.String(), auth.Claims{Role: auth.RoleDispatcher})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
