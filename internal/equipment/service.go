package equipment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=equipment
type Repository interface {
	Create(ctx context.Context, e *Equipment) error
	CreateBatch(ctx context.Context, items []*Equipment) error
	Get(ctx context.Context, id uuid.UUID) (*Equipment, error)
	List(ctx context.Context, filter ListFilter) ([]*Equipment, error)
	WarrantiesEnding(ctx context.Context, from, to time.Time) ([]*Equipment, error)
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithClock returns a copy of the service that reads time from now.
func (s *Service) WithClock(now func() time.Time) *Service {
	return &Service{repo: s.repo, now: now}
}

type CreateParams struct {
	CustomerID          uuid.UUID
	Name                string
	SerialNumber        string
	Model               string
	Manufacturer        string
	Location            string
	Notes               string
	PurchaseDate        *time.Time
	WarrantyStart       *time.Time
	WarrantyEnd         *time.Time
	ServiceIntervalDays int
}

type ListFilter struct {
	CustomerID *uuid.UUID
	DueBefore  *time.Time // next service date on or before
	Search     string     // matches name or serial number
}

func (s *Service) build(p CreateParams) (*Equipment, error) {
	name := strings.TrimSpace(p.Name)

	switch {
	case p.CustomerID == uuid.Nil:
		return nil, fmt.Errorf("%w: owner is required", ErrInvalid)
	case name == "":
		return nil, fmt.Errorf("%w: name is required", ErrInvalid)
	case p.ServiceIntervalDays < 0:
		return nil, fmt.Errorf("%w: service interval cannot be negative", ErrInvalid)
	case p.WarrantyStart != nil && p.WarrantyEnd != nil && p.WarrantyEnd.Before(*p.WarrantyStart):
		return nil, fmt.Errorf("%w: warranty ends before it starts", ErrInvalid)
	}

	interval := p.ServiceIntervalDays
	if interval == 0 {
		interval = DefaultServiceInterval
	}

	next := nextService(s.now(), interval)

	return &Equipment{
		CustomerID:          p.CustomerID,
		Name:                name,
		SerialNumber:        strings.TrimSpace(p.SerialNumber),
		Model:               p.Model,
		Manufacturer:        p.Manufacturer,
		Location:            p.Location,
		Notes:               p.Notes,
		PurchaseDate:        p.PurchaseDate,
		WarrantyStart:       p.WarrantyStart,
		WarrantyEnd:         p.WarrantyEnd,
		ServiceIntervalDays: interval,
		NextServiceDate:     &next,
		Active:              true,
	}, nil
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Equipment, error) {
	e, err := s.build(params)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

// CreateBatch validates every row before writing any of them.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Equipment, error) {
	if len(params) == 0 {
		return nil, nil
	}

	items := make([]*Equipment, len(params))

	for i, p := range params {
		e, err := s.build(p)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		items[i] = e
	}

	if err := s.repo.CreateBatch(ctx, items); err != nil {
		return nil, fmt.Errorf("create equipment batch: %w", err)
	}

	return items, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Equipment, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Equipment, error) {
	return s.repo.List(ctx, filter)
}

// ExpiringWarranties returns active equipment whose warranty ends between today and today+window.
func (s *Service) ExpiringWarranties(ctx context.Context, window time.Duration) ([]*Equipment, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	return s.repo.WarrantiesEnding(ctx, today, today.Add(window))
}
