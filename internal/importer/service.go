package importer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fieldservice/internal/equipment"
	"github.com/MrJamesThe3rd/fieldservice/internal/importer/equipcsv"
)

// ErrUnreadable marks files that could not be parsed; nothing was created.
var ErrUnreadable = errors.New("parsing equipment file")

//go:generate mockgen -source=service.go -destination=creator_mock.go -package=importer
type Creator interface {
	CreateBatch(ctx context.Context, params []equipment.CreateParams) ([]*equipment.Equipment, error)
}

type Service struct {
	equipment   Creator
	csvImporter Importer
}

func NewService(equipment Creator) *Service {
	return &Service{
		equipment:   equipment,
		csvImporter: equipcsv.NewParser(),
	}
}

// Parse reads the file without persisting anything.
func (s *Service) Parse(format Format, r io.Reader, customerID uuid.UUID) ([]equipment.CreateParams, error) {
	var importer Importer

	switch format {
	case FormatCSV, "":
		importer = s.csvImporter
	default:
		return nil, fmt.Errorf("unknown import format: %s", format)
	}

	return importer.Parse(r, customerID)
}

// Import parses the file and creates every row, all or nothing.
func (s *Service) Import(ctx context.Context, format Format, r io.Reader, customerID uuid.UUID) ([]*equipment.Equipment, error) {
	params, err := s.Parse(format, r, customerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}

	if len(params) == 0 {
		return nil, nil
	}

	created, err := s.equipment.CreateBatch(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("creating equipment: %w", err)
	}

	return created, nil
}
