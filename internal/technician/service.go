package technician

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=technician
type Repository interface {
	Create(ctx context.Context, t *Technician) error
	Get(ctx context.Context, id uuid.UUID) (*Technician, error)
	List(ctx context.Context, filter ListFilter) ([]*Technician, error)
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) error
	CertificationsExpiredBefore(ctx context.Context, day time.Time) ([]*Technician, error)
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
	Code                string
	Name                string
	Email               string
	ManagerEmail        string
	Phone               string
	Specialization      string
	Certification       string
	CertificationDate   *time.Time
	CertificationExpiry *time.Time
}

type ListFilter struct {
	ActiveOnly    bool
	AvailableOnly bool
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Technician, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalid)
	}

	if params.CertificationDate != nil && params.CertificationExpiry != nil &&
		params.CertificationExpiry.Before(*params.CertificationDate) {
		return nil, fmt.Errorf("%w: certification expires before it was issued", ErrInvalid)
	}

	t := &Technician{
		Code:                strings.TrimSpace(params.Code),
		Name:                name,
		Email:               params.Email,
		ManagerEmail:        params.ManagerEmail,
		Phone:               params.Phone,
		Specialization:      params.Specialization,
		Certification:       params.Certification,
		CertificationDate:   params.CertificationDate,
		CertificationExpiry: params.CertificationExpiry,
		Active:              true,
		Available:           true,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Technician, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Technician, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) SetAvailability(ctx context.Context, id uuid.UUID, available bool) (*Technician, error) {
	if err := s.repo.SetAvailability(ctx, id, available); err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, id)
}

// ExpiredCertifications lists active technicians whose certification ended before today.
func (s *Service) ExpiredCertifications(ctx context.Context) ([]*Technician, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	return s.repo.CertificationsExpiredBefore(ctx, today)
}
