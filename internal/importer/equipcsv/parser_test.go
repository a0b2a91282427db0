package equipcsv_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/fieldservice/internal/importer/equipcsv"
)

var owner = uuid.MustParse("7d1c1b0e-6f51-4a7e-9b0a-2f4f6a0c1d11")

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestParser_English(t *testing.T) {
	csv := `Name,Serial Number,Model,Manufacturer,Location,Notes,Purchase Date,Warranty Start,Warranty End,Service Interval (days)
Boiler,SN-001,B200,Heatco,Basement,,2023-05-01,2023-05-01,2025-05-01,180
Chiller,SN-002,,,Roof,outdoor unit,,,,
`

	params, err := equipcsv.NewParser().Parse(strings.NewReader(csv), owner)
	require.NoError(t, err)
	require.Len(t, params, 2)

	assert.Equal(t, owner, params[0].CustomerID)
	assert.Equal(t, "Boiler", params[0].Name)
	assert.Equal(t, "SN-001", params[0].SerialNumber)
	assert.Equal(t, "B200", params[0].Model)
	assert.Equal(t, "Heatco", params[0].Manufacturer)
	assert.Equal(t, "Basement", params[0].Location)
	require.NotNil(t, params[0].PurchaseDate)
	assert.Equal(t, date(2023, 5, 1), *params[0].PurchaseDate)
	require.NotNil(t, params[0].WarrantyEnd)
	assert.Equal(t, date(2025, 5, 1), *params[0].WarrantyEnd)
	assert.Equal(t, 180, params[0].ServiceIntervalDays)

	assert.Equal(t, "outdoor unit", params[1].Notes)
	assert.Nil(t, params[1].PurchaseDate)
	assert.Nil(t, params[1].WarrantyEnd)
	assert.Zero(t, params[1].ServiceIntervalDays)
}

func TestParser_SpanishSemicolon(t *testing.T) {
	csv := `Inventario de equipos;;
Cliente;ACME

Nombre;Número de Serie;Ubicación;Fin de Garantía
Caldera;SN-100;Sótano;31/12/2025
`

	params, err := equipcsv.NewParser().Parse(strings.NewReader(csv), owner)
	require.NoError(t, err)
	require.Len(t, params, 1)

	assert.Equal(t, "Caldera", params[0].Name)
	assert.Equal(t, "SN-100", params[0].SerialNumber)
	assert.Equal(t, "Sótano", params[0].Location)
	require.NotNil(t, params[0].WarrantyEnd)
	assert.Equal(t, date(2025, 12, 31), *params[0].WarrantyEnd)
}

func TestParser_Latin1Encoding(t *testing.T) {
	utf8CSV := "Nombre;Número de Serie;Ubicación\nCaldera;SN-100;Sótano\n"

	latin1Bytes, err := charmap.Windows1252.NewEncoder().Bytes([]byte(utf8CSV))
	require.NoError(t, err)

	params, err := equipcsv.NewParser().Parse(bytes.NewReader(latin1Bytes), owner)
	require.NoError(t, err)
	require.Len(t, params, 1)

	assert.Equal(t, "Sótano", params[0].Location)
}

func TestParser_HeaderCaseAndOrder(t *testing.T) {
	csv := `SERIAL NUMBER,ignored,NAME
SN-9,x,Pump
`

	params, err := equipcsv.NewParser().Parse(strings.NewReader(csv), owner)
	require.NoError(t, err)
	require.Len(t, params, 1)

	assert.Equal(t, "Pump", params[0].Name)
	assert.Equal(t, "SN-9", params[0].SerialNumber)
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		wantErr string
	}{
		{
			name:    "empty file",
			csv:     "",
			wantErr: "no matching equipment layout",
		},
		{
			name:    "missing serial column",
			csv:     "Name,Model\nBoiler,B200\n",
			wantErr: "no matching equipment layout",
		},
		{
			name:    "missing name",
			csv:     "Name,Serial Number\n,SN-1\n",
			wantErr: "row 2: missing name",
		},
		{
			name:    "bad date",
			csv:     "Name,Serial Number,Warranty End\nBoiler,SN-1,soon\n",
			wantErr: "row 2: warranty end",
		},
		{
			name:    "bad interval",
			csv:     "Name,Serial Number,Service Interval (days)\nBoiler,SN-1,yearly\n",
			wantErr: "row 2: service interval (days)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := equipcsv.NewParser().Parse(strings.NewReader(tt.csv), owner)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParser_SkipsBlankRows(t *testing.T) {
	csv := "Name,Serial Number,Notes\nBoiler,SN-1,\n,,page 1/1\nPump,SN-2,\n"

	params, err := equipcsv.NewParser().Parse(strings.NewReader(csv), owner)
	require.NoError(t, err)
	require.Len(t, params, 2)
	assert.Equal(t, "Pump", params[1].Name)
}

func TestParser_HeaderOnly(t *testing.T) {
	params, err := equipcsv.NewParser().Parse(strings.NewReader("Name,Serial Number"), owner)
	require.NoError(t, err)
	assert.Empty(t, params)
}
