package importer

import (
	"io"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fieldservice/internal/equipment"
)

type Format string

const (
	FormatCSV Format = "csv"
)

// Importer turns an uploaded file into equipment owned by one customer.
type Importer interface {
	Parse(r io.Reader, customerID uuid.UUID) ([]equipment.CreateParams, error)
}
