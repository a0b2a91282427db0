package importer_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/fieldservice/internal/equipment"
	"github.com/MrJamesThe3rd/fieldservice/internal/importer"
)

const sampleCSV = `Name,Serial Number
Boiler,SN-1
Pump,SN-2
`

func TestService_Import(t *testing.T) {
	owner := uuid.New()

	tests := []struct {
		name      string
		format    importer.Format
		input     string
		setupMock func(m *importer.MockCreator)
		wantLen   int
		wantErr   string
	}{
		{
			name:   "creates every row in one batch",
			format: importer.FormatCSV,
			input:  sampleCSV,
			setupMock: func(m *importer.MockCreator) {
				m.EXPECT().CreateBatch(gomock.Any(), gomock.Len(2)).
					DoAndReturn(func(_ context.Context, params []equipment.CreateParams) ([]*equipment.Equipment, error) {
						out := make([]*equipment.Equipment, len(params))
						for i, p := range params {
							assert.Equal(t, owner, p.CustomerID)
							out[i] = &equipment.Equipment{ID: uuid.New(), Name: p.Name}
						}

						return out, nil
					})
			},
			wantLen: 2,
		},
		{
			name:      "empty format defaults to csv",
			input:     "Name,Serial Number\n",
			setupMock: func(m *importer.MockCreator) {},
			wantLen:   0,
		},
		{
			name:      "unknown format",
			format:    "xml",
			input:     sampleCSV,
			setupMock: func(m *importer.MockCreator) {},
			wantErr:   "unknown import format",
		},
		{
			name:      "parse error",
			format:    importer.FormatCSV,
			input:     "Model\nB200\n",
			setupMock: func(m *importer.MockCreator) {},
			wantErr:   "parsing equipment file",
		},
		{
			name:   "batch failure",
			format: importer.FormatCSV,
			input:  sampleCSV,
			setupMock: func(m *importer.MockCreator) {
				m.EXPECT().CreateBatch(gomock.Any(), gomock.Any()).Return(nil, errors.New("row 1: invalid equipment"))
			},
			wantErr: "creating equipment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			m := importer.NewMockCreator(ctrl)
			tt.setupMock(m)

			svc := importer.NewService(m)

			created, err := svc.Import(context.Background(), tt.format, strings.NewReader(tt.input), owner)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Len(t, created, tt.wantLen)
		})
	}
}
