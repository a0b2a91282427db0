package customer

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=customer
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	Get(ctx context.Context, id uuid.UUID) (*Customer, error)
	List(ctx context.Context, filter ListFilter) ([]*Customer, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name              string
	Email             string
	Phone             string
	Street            string
	City              string
	IsServiceCustomer bool
	Segment           Segment
	Preference        Preference
	ServiceContact    string
	ServicePhone      string
	ServiceEmail      string
}

type ListFilter struct {
	ServiceOnly bool
	Search      string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Customer, error) {
	c := &Customer{
		Name:              strings.TrimSpace(params.Name),
		Email:             strings.TrimSpace(params.Email),
		Phone:             params.Phone,
		Street:            params.Street,
		City:              params.City,
		IsServiceCustomer: params.IsServiceCustomer,
		Segment:           params.Segment,
		Preference:        params.Preference,
		ServiceContact:    params.ServiceContact,
		ServicePhone:      params.ServicePhone,
		ServiceEmail:      strings.TrimSpace(params.ServiceEmail),
	}

	if c.Preference == "" {
		c.Preference = PreferenceEmail
	}

	if c.IsServiceCustomer {
		applyServiceDefaults(c)
	}

	if err := validate(c); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Customer, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Customer, error) {
	return s.repo.List(ctx, filter)
}

// applyServiceDefaults fills empty service contact fields from the base fields.
func applyServiceDefaults(c *Customer) {
	if c.ServiceContact == "" {
		c.ServiceContact = c.Name
	}

	if c.ServicePhone == "" {
		c.ServicePhone = c.Phone
	}

	if c.ServiceEmail == "" {
		c.ServiceEmail = c.Email
	}
}

func validate(c *Customer) error {
	if c.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}

	for _, addr := range []string{c.Email, c.ServiceEmail} {
		if addr == "" {
			continue
		}

		if _, err := mail.ParseAddress(addr); err != nil {
			return fmt.Errorf("%w: email %q: %v", ErrInvalid, addr, err)
		}
	}

	switch c.Segment {
	case "", SegmentResidential, SegmentCommercial, SegmentIndustrial:
	default:
		return fmt.Errorf("%w: unknown segment %q", ErrInvalid, c.Segment)
	}

	switch c.Preference {
	case PreferenceEmail, PreferencePhone, PreferenceSMS:
	default:
		return fmt.Errorf("%w: unknown contact preference %q", ErrInvalid, c.Preference)
	}

	return nil
}
