package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fieldservice/internal/equipment"
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

const selectEquipmentColumns = `
	e.id, e.customer_id, c.name, COALESCE(NULLIF(c.service_email, ''), c.email),
	e.name, e.serial_number, e.model, e.manufacturer, e.location, e.notes,
	e.purchase_date, e.warranty_start, e.warranty_end, e.service_interval_days,
	e.last_service_date, e.next_service_date, e.active, e.created_at, e.updated_at
`

func scanEquipment(s scanner) (*equipment.Equipment, error) {
	var e equipment.Equipment

	if err := s.Scan(
		&e.ID, &e.CustomerID, &e.CustomerName, &e.CustomerEmail,
		&e.Name, &e.SerialNumber, &e.Model, &e.Manufacturer, &e.Location, &e.Notes,
		&e.PurchaseDate, &e.WarrantyStart, &e.WarrantyEnd, &e.ServiceIntervalDays,
		&e.LastServiceDate, &e.NextServiceDate, &e.Active, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &e, nil
}

const insertEquipment = `
	INSERT INTO equipment (
		customer_id, name, serial_number, model, manufacturer, location, notes,
		purchase_date, warranty_start, warranty_end, service_interval_days, next_service_date, active, created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW())
	RETURNING id, created_at`

type execer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insert(ctx context.Context, q execer, e *equipment.Equipment) error {
	err := q.QueryRowContext(ctx, insertEquipment,
		e.CustomerID,
		e.Name,
		e.SerialNumber,
		e.Model,
		e.Manufacturer,
		e.Location,
		e.Notes,
		e.PurchaseDate,
		e.WarrantyStart,
		e.WarrantyEnd,
		e.ServiceIntervalDays,
		e.NextServiceDate,
		e.Active,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating equipment %q: %w", e.Name, err)
	}

	return nil
}

func (s *Store) Create(ctx context.Context, e *equipment.Equipment) error {
	return insert(ctx, s.db, e)
}

// CreateBatch inserts all items in one transaction.
func (s *Store) CreateBatch(ctx context.Context, items []*equipment.Equipment) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	for _, e := range items {
		if err := insert(ctx, dbTx, e); err != nil {
			return err
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*equipment.Equipment, error) {
	query := `SELECT ` + selectEquipmentColumns + `
		FROM equipment e
		JOIN customers c ON c.id = e.customer_id
		WHERE e.id = $1`

	e, err := scanEquipment(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, equipment.ErrNotFound
		}

		return nil, fmt.Errorf("getting equipment: %w", err)
	}

	return e, nil
}

func (s *Store) List(ctx context.Context, filter equipment.ListFilter) ([]*equipment.Equipment, error) {
	query := `SELECT ` + selectEquipmentColumns + `
		FROM equipment e
		JOIN customers c ON c.id = e.customer_id
		WHERE e.active`

	var args []any

	argIdx := 1

	if filter.CustomerID != nil {
		query += fmt.Sprintf(" AND e.customer_id = $%d", argIdx)

		args = append(args, *filter.CustomerID)
		argIdx++
	}

	if filter.DueBefore != nil {
		query += fmt.Sprintf(" AND e.next_service_date <= $%d", argIdx)

		args = append(args, *filter.DueBefore)
		argIdx++
	}

	if filter.Search != "" {
		query += fmt.Sprintf(" AND (e.name ILIKE $%d OR e.serial_number ILIKE $%d)", argIdx, argIdx)

		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	query += " ORDER BY e.name ASC"

	return s.query(ctx, query, args...)
}

func (s *Store) WarrantiesEnding(ctx context.Context, from, to time.Time) ([]*equipment.Equipment, error) {
	query := `SELECT ` + selectEquipmentColumns + `
		FROM equipment e
		JOIN customers c ON c.id = e.customer_id
		WHERE e.active AND e.warranty_end >= $1 AND e.warranty_end <= $2
		ORDER BY e.warranty_end ASC`

	return s.query(ctx, query, from, to)
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]*equipment.Equipment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing equipment: %w", err)
	}
	defer rows.Close()

	var out []*equipment.Equipment

	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning equipment: %w", err)
		}

		out = append(out, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating equipment rows: %w", err)
	}

	return out, nil
}
