package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fieldservice/internal/customer"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectCustomerColumns = `
	id, name, email, phone, street, city, is_service_customer, service_type, service_preference,
	service_contact, service_phone, service_email, created_at, updated_at
`

func scanCustomer(s scanner) (*customer.Customer, error) {
	var c customer.Customer

	var segment, preference string

	if err := s.Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Street, &c.City, &c.IsServiceCustomer, &segment, &preference,
		&c.ServiceContact, &c.ServicePhone, &c.ServiceEmail, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}

	c.Segment = customer.Segment(segment)
	c.Preference = customer.Preference(preference)

	return &c, nil
}

func (s *Store) Create(ctx context.Context, c *customer.Customer) error {
	query := `
		INSERT INTO customers (
			name, email, phone, street, city, is_service_customer, service_type, service_preference,
			service_contact, service_phone, service_email, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		RETURNING id, created_at`

	err := s.db.QueryRowContext(ctx, query,
		c.Name,
		c.Email,
		c.Phone,
		c.Street,
		c.City,
		c.IsServiceCustomer,
		c.Segment,
		c.Preference,
		c.ServiceContact,
		c.ServicePhone,
		c.ServiceEmail,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating customer: %w", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	query := `SELECT ` + selectCustomerColumns + ` FROM customers WHERE id = $1`

	c, err := scanCustomer(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customer.ErrNotFound
		}

		return nil, fmt.Errorf("getting customer: %w", err)
	}

	return c, nil
}

func (s *Store) List(ctx context.Context, filter customer.ListFilter) ([]*customer.Customer, error) {
	query := `SELECT ` + selectCustomerColumns + ` FROM customers WHERE TRUE`

	var args []any

	if filter.ServiceOnly {
		query += " AND is_service_customer"
	}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d)", len(args), len(args))
	}

	query += " ORDER BY name ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}
	defer rows.Close()

	var out []*customer.Customer

	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning customer: %w", err)
		}

		out = append(out, c)
	}

	return out, rows.Err()
}
