package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/fieldservice/internal/http/auth"
)

const secret = "test-secret"

func TestAuthenticator_Require(t *testing.T) {
	a := auth.New(secret)
	customerID := uuid.New()

	sign := func(t *testing.T, c auth.Claims, ttl time.Duration) string {
		t.Helper()

		token, err := a.Issue(c, ttl)
		require.NoError(t, err)

		return token
	}

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{Role: auth.RoleDispatcher}).
		SignedString([]byte("other-secret"))
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		roles      []auth.Role
		wantStatus int
		wantRole   auth.Role
	}{
		{
			name:       "missing header",
			roles:      []auth.Role{auth.RoleDispatcher},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			header:     "Basic abc",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "foreign signature",
			header:     "Bearer " + foreign,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired",
			header:     "Bearer " + sign(t, auth.Claims{Role: auth.RoleDispatcher}, -time.Minute),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "customer token without customer id",
			header:     "Bearer " + sign(t, auth.Claims{Role: auth.RoleCustomer}, time.Hour),
			roles:      []auth.Role{auth.RoleCustomer},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "role not allowed",
			header:     "Bearer " + sign(t, auth.Claims{Role: auth.RoleCustomer, CustomerID: &customerID}, time.Hour),
			roles:      []auth.Role{auth.RoleDispatcher, auth.RoleTechnician},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "allowed",
			header:     "Bearer " + sign(t, auth.Claims{Role: auth.RoleTechnician}, time.Hour),
			roles:      []auth.Role{auth.RoleDispatcher, auth.RoleTechnician},
			wantStatus: http.StatusOK,
			wantRole:   auth.RoleTechnician,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *auth.Claims

			h := a.Require(tt.roles...)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = auth.FromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusOK {
				require.NotNil(t, seen)
				assert.Equal(t, tt.wantRole, seen.Role)
			}
		})
	}
}
