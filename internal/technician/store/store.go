package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fieldservice/internal/technician"
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

const selectTechnicianColumns = `
	id, code, name, email, manager_email, phone, specialization, certification, certification_date, certification_expiry,
	active, available, created_at, updated_at
`

func scanTechnician(s scanner) (*technician.Technician, error) {
	var t technician.Technician

	if err := s.Scan(
		&t.ID, &t.Code, &t.Name, &t.Email, &t.ManagerEmail, &t.Phone, &t.Specialization, &t.Certification,
		&t.CertificationDate, &t.CertificationExpiry, &t.Active, &t.Available, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &t, nil
}

func (s *Store) Create(ctx context.Context, t *technician.Technician) error {
	query := `
		INSERT INTO technicians (
			code, name, email, manager_email, phone, specialization, certification, certification_date,
			certification_expiry, active, available, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		RETURNING id, created_at`

	err := s.db.QueryRowContext(ctx, query,
		t.Code,
		t.Name,
		t.Email,
		t.ManagerEmail,
		t.Phone,
		t.Specialization,
		t.Certification,
		t.CertificationDate,
		t.CertificationExpiry,
		t.Active,
		t.Available,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating technician: %w", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*technician.Technician, error) {
	query := `SELECT ` + selectTechnicianColumns + ` FROM technicians WHERE id = $1`

	t, err := scanTechnician(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, technician.ErrNotFound
		}

		return nil, fmt.Errorf("getting technician: %w", err)
	}

	return t, nil
}

func (s *Store) List(ctx context.Context, filter technician.ListFilter) ([]*technician.Technician, error) {
	query := `SELECT ` + selectTechnicianColumns + ` FROM technicians WHERE TRUE`

	if filter.ActiveOnly {
		query += " AND active"
	}

	if filter.AvailableOnly {
		query += " AND available"
	}

	query += " ORDER BY code ASC, name ASC"

	return s.query(ctx, query)
}

func (s *Store) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE technicians SET available = $1, updated_at = NOW() WHERE id = $2`, available, id)
	if err != nil {
		return fmt.Errorf("updating availability: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating availability: %w", err)
	}

	if n == 0 {
		return technician.ErrNotFound
	}

	return nil
}

func (s *Store) CertificationsExpiredBefore(ctx context.Context, day time.Time) ([]*technician.Technician, error) {
	query := `SELECT ` + selectTechnicianColumns + `
		FROM technicians
		WHERE active AND certification_expiry < $1
		ORDER BY certification_expiry ASC`

	return s.query(ctx, query, day)
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]*technician.Technician, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing technicians: %w", err)
	}
	defer rows.Close()

	var out []*technician.Technician

	for rows.Next() {
		t, err := scanTechnician(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning technician: %w", err)
		}

		out = append(out, t)
	}

	return out, rows.Err()
}
