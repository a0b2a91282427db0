package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fieldservice/internal/order"
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

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const selectOrderColumns = `
	o.id, o.reference, o.customer_id, c.name, COALESCE(NULLIF(c.service_email, ''), c.email),
	st.id, st.name, st.description, st.duration, st.requires_equipment, st.requires_technician,
	st.product_id, p.name, p.list_price, st.active,
	o.equipment_id, o.technician_id, t.name, t.email,
	o.date_requested, o.date_scheduled, o.date_started, o.date_completed,
	o.description, o.notes, o.state, o.priority,
	o.invoice_id, i.total, o.is_invoiced, o.reminder_sent_at, o.created_at, o.updated_at
`

const fromOrders = `
	FROM service_orders o
	JOIN customers c ON c.id = o.customer_id
	JOIN service_types st ON st.id = o.service_type_id
	LEFT JOIN products p ON p.id = st.product_id
	LEFT JOIN technicians t ON t.id = o.technician_id
	LEFT JOIN invoices i ON i.id = o.invoice_id
`

// scanOrder reads a row selected with selectOrderColumns. Lines are loaded separately.
func scanOrder(s scanner) (*order.Order, error) {
	var o order.Order

	var state, priority string

	var productName, techName, techEmail sql.NullString

	var listPrice, invoiceTotal decimal.NullDecimal

	if err := s.Scan(
		&o.ID, &o.Reference, &o.CustomerID, &o.CustomerName, &o.CustomerEmail,
		&o.ServiceType.ID, &o.ServiceType.Name, &o.ServiceType.Description, &o.ServiceType.Duration,
		&o.ServiceType.RequiresEquipment, &o.ServiceType.RequiresTechnician,
		&o.ServiceType.ProductID, &productName, &listPrice, &o.ServiceType.Active,
		&o.EquipmentID, &o.TechnicianID, &techName, &techEmail,
		&o.DateRequested, &o.DateScheduled, &o.DateStarted, &o.DateCompleted,
		&o.Description, &o.Notes, &state, &priority,
		&o.InvoiceID, &invoiceTotal, &o.Invoiced, &o.ReminderSentAt, &o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}

	o.State = order.State(state)
	o.Priority = order.Priority(priority)
	o.TechnicianName = techName.String
	o.TechnicianEmail = techEmail.String

	if o.ServiceType.ProductID != nil && productName.Valid {
		o.ServiceType.Product = &order.Product{
			ID:        *o.ServiceType.ProductID,
			Name:      productName.String,
			ListPrice: listPrice.Decimal,
		}
	}

	if o.InvoiceID != nil && invoiceTotal.Valid {
		o.Invoice = &order.Invoice{
			ID:      *o.InvoiceID,
			OrderID: o.ID,
			Total:   invoiceTotal.Decimal,
		}
	}

	return &o, nil
}

func getOrder(ctx context.Context, q querier, where string, arg any) (*order.Order, error) {
	query := `SELECT ` + selectOrderColumns + fromOrders + ` WHERE ` + where

	o, err := scanOrder(q.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, order.ErrNotFound
		}

		return nil, fmt.Errorf("getting service order: %w", err)
	}

	if err := loadLines(ctx, q, []*order.Order{o}); err != nil {
		return nil, err
	}

	return o, nil
}

func queryOrders(ctx context.Context, q querier, query string, args ...any) ([]*order.Order, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing service orders: %w", err)
	}
	defer rows.Close()

	var orders []*order.Order

	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning service order: %w", err)
		}

		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating service orders: %w", err)
	}

	if err := loadLines(ctx, q, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// loadLines fills the refaction lines of all given orders with one query.
func loadLines(ctx context.Context, q querier, orders []*order.Order) error {
	if len(orders) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*order.Order, len(orders))
	ids := make([]string, len(orders))

	for i, o := range orders {
		byID[o.ID] = o
		ids[i] = o.ID.String()
	}

	query := `
		SELECT l.id, l.order_id, l.product_id, p.name, l.quantity, l.unit_price, l.notes
		FROM refaction_lines l
		JOIN products p ON p.id = l.product_id
		WHERE l.order_id = ANY($1::uuid[])
		ORDER BY l.order_id, l.position`

	rows, err := q.QueryContext(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("loading refaction lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l order.Line
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.ProductName, &l.Quantity, &l.UnitPrice, &l.Notes); err != nil {
			return fmt.Errorf("scanning refaction line: %w", err)
		}

		o := byID[l.OrderID]
		o.Lines = append(o.Lines, l)
	}

	return rows.Err()
}

func insertLines(ctx context.Context, q querier, orderID uuid.UUID, lines []order.Line, offset int) error {
	query := `
		INSERT INTO refaction_lines (order_id, product_id, quantity, unit_price, notes, position)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	for i := range lines {
		l := &lines[i]
		l.OrderID = orderID

		if err := q.QueryRowContext(ctx, query,
			orderID, l.ProductID, l.Quantity, l.UnitPrice, l.Notes, offset+i,
		).Scan(&l.ID); err != nil {
			return fmt.Errorf("inserting refaction line: %w", err)
		}
	}

	return nil
}

func (s *Store) Create(ctx context.Context, o *order.Order) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		INSERT INTO service_orders (
			reference, customer_id, service_type_id, equipment_id, technician_id,
			date_requested, description, notes, state, priority, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		RETURNING id, created_at`

	err = dbTx.QueryRowContext(ctx, query,
		o.Reference,
		o.CustomerID,
		o.ServiceType.ID,
		o.EquipmentID,
		o.TechnicianID,
		o.DateRequested,
		o.Description,
		o.Notes,
		o.State,
		o.Priority,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating service order: %w", err)
	}

	if err := insertLines(ctx, dbTx, o.ID, o.Lines, 0); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return getOrder(ctx, s.db, "o.id = $1", id)
}

func (s *Store) GetByReference(ctx context.Context, reference string) (*order.Order, error) {
	return getOrder(ctx, s.db, "o.reference = $1", reference)
}

func filterClause(filter order.ListFilter) (string, []any) {
	var conds []string

	var args []any

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.State != nil {
		add("o.state = $%d", *filter.State)
	}

	if filter.CustomerID != nil {
		add("o.customer_id = $%d", *filter.CustomerID)
	}

	if filter.TechnicianID != nil {
		add("o.technician_id = $%d", *filter.TechnicianID)
	}

	if filter.EquipmentID != nil {
		add("o.equipment_id = $%d", *filter.EquipmentID)
	}

	if filter.From != nil {
		add("o.date_requested >= $%d", *filter.From)
	}

	if filter.To != nil {
		add("o.date_requested < $%d", *filter.To)
	}

	if len(conds) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

var sortColumns = map[order.Sort]string{
	order.SortDate:      "o.date_requested DESC",
	order.SortReference: "o.reference ASC",
	order.SortState:     "o.state ASC, o.date_requested DESC",
}

func (s *Store) List(ctx context.Context, filter order.ListFilter) ([]*order.Order, error) {
	where, args := filterClause(filter)

	sortBy, ok := sortColumns[filter.Sort]
	if !ok {
		sortBy = sortColumns[order.SortDate]
	}

	query := `SELECT ` + selectOrderColumns + fromOrders + where + ` ORDER BY ` + sortBy

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	return queryOrders(ctx, s.db, query, args...)
}

func (s *Store) Count(ctx context.Context, filter order.ListFilter) (int, error) {
	where, args := filterClause(filter)

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM service_orders o`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting service orders: %w", err)
	}

	return n, nil
}

func activeOrders(ctx context.Context, q querier, filter order.ActiveFilter) ([]*order.Order, error) {
	query := `SELECT ` + selectOrderColumns + fromOrders + ` WHERE o.state IN ('scheduled', 'in_progress')`

	var args []any

	if filter.TechnicianID != nil {
		args = append(args, *filter.TechnicianID)
		query += fmt.Sprintf(" AND o.technician_id = $%d", len(args))
	}

	if filter.EquipmentID != nil {
		args = append(args, *filter.EquipmentID)
		query += fmt.Sprintf(" AND o.equipment_id = $%d", len(args))
	}

	query += " ORDER BY o.date_scheduled ASC"

	return queryOrders(ctx, q, query, args...)
}

func (s *Store) ActiveOrders(ctx context.Context, filter order.ActiveFilter) ([]*order.Order, error) {
	return activeOrders(ctx, s.db, filter)
}

func (s *Store) Reschedules(ctx context.Context, orderID uuid.UUID) ([]order.Reschedule, error) {
	query := `
		SELECT id, order_id, old_date, new_date, reason, created_at
		FROM service_order_reschedules
		WHERE order_id = $1
		ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("listing reschedules: %w", err)
	}
	defer rows.Close()

	var out []order.Reschedule

	for rows.Next() {
		var r order.Reschedule
		if err := rows.Scan(&r.ID, &r.OrderID, &r.OldDate, &r.NewDate, &r.Reason, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning reschedule: %w", err)
		}

		out = append(out, r)
	}

	return out, rows.Err()
}
