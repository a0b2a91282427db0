package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fieldservice/internal/order"
)

const selectServiceTypeColumns = `
	st.id, st.name, st.description, st.duration, st.requires_equipment, st.requires_technician,
	st.product_id, p.name, p.list_price, st.active, st.created_at
`

func scanServiceType(s scanner) (*order.ServiceType, error) {
	var st order.ServiceType

	var productName sql.NullString

	var listPrice decimal.NullDecimal

	if err := s.Scan(
		&st.ID, &st.Name, &st.Description, &st.Duration, &st.RequiresEquipment, &st.RequiresTechnician,
		&st.ProductID, &productName, &listPrice, &st.Active, &st.CreatedAt,
	); err != nil {
		return nil, err
	}

	if st.ProductID != nil && productName.Valid {
		st.Product = &order.Product{ID: *st.ProductID, Name: productName.String, ListPrice: listPrice.Decimal}
	}

	return &st, nil
}

func (s *Store) CreateServiceType(ctx context.Context, st *order.ServiceType) error {
	query := `
		INSERT INTO service_types (name, description, duration, requires_equipment, requires_technician, product_id, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, created_at`

	err := s.db.QueryRowContext(ctx, query,
		st.Name,
		st.Description,
		st.Duration,
		st.RequiresEquipment,
		st.RequiresTechnician,
		st.ProductID,
		st.Active,
	).Scan(&st.ID, &st.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating service type: %w", err)
	}

	return nil
}

func (s *Store) GetServiceType(ctx context.Context, id uuid.UUID) (*order.ServiceType, error) {
	query := `SELECT ` + selectServiceTypeColumns + `
		FROM service_types st
		LEFT JOIN products p ON p.id = st.product_id
		WHERE st.id = $1`

	st, err := scanServiceType(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, order.ErrNotFound
		}

		return nil, fmt.Errorf("getting service type: %w", err)
	}

	return st, nil
}

func (s *Store) ListServiceTypes(ctx context.Context) ([]*order.ServiceType, error) {
	query := `SELECT ` + selectServiceTypeColumns + `
		FROM service_types st
		LEFT JOIN products p ON p.id = st.product_id
		WHERE st.active
		ORDER BY st.name ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing service types: %w", err)
	}
	defer rows.Close()

	var out []*order.ServiceType

	for rows.Next() {
		st, err := scanServiceType(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning service type: %w", err)
		}

		out = append(out, st)
	}

	return out, rows.Err()
}

func (s *Store) GetProduct(ctx context.Context, id uuid.UUID) (*order.Product, error) {
	var p order.Product

	err := s.db.QueryRowContext(ctx, `SELECT id, name, list_price FROM products WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.ListPrice)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, order.ErrNotFound
		}

		return nil, fmt.Errorf("getting product: %w", err)
	}

	return &p, nil
}

func (s *Store) DueReminders(ctx context.Context, from, to time.Time) ([]*order.Order, error) {
	query := `SELECT ` + selectOrderColumns + fromOrders + `
		WHERE o.state = 'scheduled'
		AND o.reminder_sent_at IS NULL
		AND o.date_scheduled >= $1 AND o.date_scheduled < $2
		ORDER BY o.date_scheduled ASC`

	return queryOrders(ctx, s.db, query, from, to)
}

func (s *Store) MarkReminded(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `UPDATE service_orders SET reminder_sent_at = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("marking reminder: %w", err)
	}

	return nil
}
