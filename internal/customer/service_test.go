package customer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/fieldservice/internal/customer"
)

func TestService_Create(t *testing.T) {
	type testCase struct {
		name    string
		params  customer.CreateParams
		wantErr bool
		check   func(t *testing.T, c *customer.Customer)
	}

	tests := []testCase{
		{
			name: "ServiceDefaultsFromBaseFields",
			params: customer.CreateParams{
				Name:              "ACME Corp",
				Email:             "info@acme.test",
				Phone:             "+34 600 000 000",
				IsServiceCustomer: true,
				Segment:           customer.SegmentCommercial,
			},
			check: func(t *testing.T, c *customer.Customer) {
				assert.Equal(t, "ACME Corp", c.ServiceContact)
				assert.Equal(t, "+34 600 000 000", c.ServicePhone)
				assert.Equal(t, "info@acme.test", c.ServiceEmail)
				assert.Equal(t, customer.PreferenceEmail, c.Preference)
			},
		},
		{
			name: "ExplicitServiceFieldsKept",
			params: customer.CreateParams{
				Name:              "ACME Corp",
				Email:             "info@acme.test",
				IsServiceCustomer: true,
				ServiceEmail:      "ops@acme.test",
				Preference:        customer.PreferenceSMS,
			},
			check: func(t *testing.T, c *customer.Customer) {
				assert.Equal(t, "ops@acme.test", c.ContactEmail())
				assert.Equal(t, customer.PreferenceSMS, c.Preference)
			},
		},
		{
			name:   "NotServiceCustomer",
			params: customer.CreateParams{Name: "Jane", Email: "jane@example.test"},
			check: func(t *testing.T, c *customer.Customer) {
				assert.Empty(t, c.ServiceEmail)
				assert.Equal(t, "jane@example.test", c.ContactEmail())
			},
		},
		{name: "MissingName", params: customer.CreateParams{Email: "x@example.test"}, wantErr: true},
		{name: "BadEmail", params: customer.CreateParams{Name: "X", Email: "not-an-email"}, wantErr: true},
		{name: "BadSegment", params: customer.CreateParams{Name: "X", Segment: "government"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := customer.NewMockRepository(ctrl)

			if !tt.wantErr {
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
			}

			got, err := customer.NewService(repo).Create(context.Background(), tt.params)
			if tt.wantErr {
				assert.ErrorIs(t, err, customer.ErrInvalid)

				return
			}

			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}
