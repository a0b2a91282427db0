package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fieldservice/internal/order"
)

type orderTx struct {
	tx      *sql.Tx
	orderID uuid.UUID
}

// Begin opens a transaction and row-locks the order until Commit or Rollback.
func (s *Store) Begin(ctx context.Context, orderID uuid.UUID) (order.Tx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning order tx: %w", err)
	}

	var id uuid.UUID

	err = dbTx.QueryRowContext(ctx, `SELECT id FROM service_orders WHERE id = $1 FOR UPDATE`, orderID).Scan(&id)
	if err != nil {
		dbTx.Rollback()

		if errors.Is(err, sql.ErrNoRows) {
			return nil, order.ErrNotFound
		}

		return nil, fmt.Errorf("locking service order: %w", err)
	}

	return &orderTx{tx: dbTx, orderID: orderID}, nil
}

func (otx *orderTx) Commit() error   { return otx.tx.Commit() }
func (otx *orderTx) Rollback() error { return otx.tx.Rollback() }

func (otx *orderTx) Load(ctx context.Context) (*order.Order, error) {
	return getOrder(ctx, otx.tx, "o.id = $1", otx.orderID)
}

func scheduleLockKey(id uuid.UUID) int64 {
	h := fnv.New64a()
	h.Write([]byte("schedule"))
	h.Write([]byte{0})
	h.Write(id[:])

	return int64(h.Sum64())
}

// Lock takes transaction-scoped advisory locks on technician and equipment schedules.
// Keys are locked in a fixed order so two transactions never wait on each other in a cycle.
func (otx *orderTx) Lock(ctx context.Context, keys ...uuid.UUID) error {
	lockKeys := make([]int64, len(keys))
	for i, k := range keys {
		lockKeys[i] = scheduleLockKey(k)
	}

	slices.Sort(lockKeys)

	for _, k := range slices.Compact(lockKeys) {
		if _, err := otx.tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", k); err != nil {
			return fmt.Errorf("acquiring schedule lock: %w", err)
		}
	}

	return nil
}

func (otx *orderTx) ActiveOrders(ctx context.Context, filter order.ActiveFilter) ([]*order.Order, error) {
	return activeOrders(ctx, otx.tx, filter)
}

func (otx *orderTx) AvailableTechnicians(ctx context.Context) ([]order.Assignee, error) {
	query := `
		SELECT id, name, email FROM technicians
		WHERE active AND available
		ORDER BY code ASC, name ASC`

	rows, err := otx.tx.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing available technicians: %w", err)
	}
	defer rows.Close()

	var out []order.Assignee

	for rows.Next() {
		var a order.Assignee
		if err := rows.Scan(&a.ID, &a.Name, &a.Email); err != nil {
			return nil, fmt.Errorf("scanning technician: %w", err)
		}

		out = append(out, a)
	}

	return out, rows.Err()
}

// Save writes the order row and replaces its refaction lines with o.Lines.
func (otx *orderTx) Save(ctx context.Context, o *order.Order) error {
	query := `
		UPDATE service_orders
		SET technician_id = $1, equipment_id = $2, date_scheduled = $3, date_started = $4, date_completed = $5,
			description = $6, notes = $7, state = $8, priority = $9, invoice_id = $10, is_invoiced = $11,
			reminder_sent_at = $12, updated_at = NOW()
		WHERE id = $13
		RETURNING updated_at`

	err := otx.tx.QueryRowContext(ctx, query,
		o.TechnicianID,
		o.EquipmentID,
		o.DateScheduled,
		o.DateStarted,
		o.DateCompleted,
		o.Description,
		o.Notes,
		o.State,
		o.Priority,
		o.InvoiceID,
		o.Invoiced,
		o.ReminderSentAt,
		o.ID,
	).Scan(&o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("updating service order: %w", err)
	}

	keep := make([]string, 0, len(o.Lines))

	for _, l := range o.Lines {
		if l.ID != uuid.Nil {
			keep = append(keep, l.ID.String())
		}
	}

	_, err = otx.tx.ExecContext(ctx,
		`DELETE FROM refaction_lines WHERE order_id = $1 AND NOT (id = ANY($2::uuid[]))`, o.ID, keep)
	if err != nil {
		return fmt.Errorf("removing refaction lines: %w", err)
	}

	update := `
		UPDATE refaction_lines
		SET product_id = $1, quantity = $2, unit_price = $3, notes = $4, position = $5
		WHERE id = $6 AND order_id = $7`

	for i := range o.Lines {
		l := &o.Lines[i]
		if l.ID == uuid.Nil {
			if err := insertLines(ctx, otx.tx, o.ID, o.Lines[i:i+1], i); err != nil {
				return err
			}

			continue
		}

		if _, err := otx.tx.ExecContext(ctx, update, l.ProductID, l.Quantity, l.UnitPrice, l.Notes, i, l.ID, o.ID); err != nil {
			return fmt.Errorf("updating refaction line: %w", err)
		}
	}

	return nil
}

func (otx *orderTx) RecordReschedule(ctx context.Context, r *order.Reschedule) error {
	query := `
		INSERT INTO service_order_reschedules (order_id, old_date, new_date, reason, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at`

	if err := otx.tx.QueryRowContext(ctx, query, r.OrderID, r.OldDate, r.NewDate, r.Reason).Scan(&r.ID, &r.CreatedAt); err != nil {
		return fmt.Errorf("recording reschedule: %w", err)
	}

	return nil
}

func (otx *orderTx) CreateInvoice(ctx context.Context, inv *order.Invoice) error {
	query := `
		INSERT INTO invoices (order_id, total, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, created_at`

	if err := otx.tx.QueryRowContext(ctx, query, inv.OrderID, inv.Total).Scan(&inv.ID, &inv.CreatedAt); err != nil {
		return fmt.Errorf("creating invoice: %w", err)
	}

	lineQuery := `
		INSERT INTO invoice_lines (invoice_id, product_id, description, quantity, unit_price, position)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for i, l := range inv.Lines {
		if _, err := otx.tx.ExecContext(ctx, lineQuery, inv.ID, l.ProductID, l.Description, l.Quantity, l.UnitPrice, i); err != nil {
			return fmt.Errorf("creating invoice line: %w", err)
		}
	}

	return nil
}

func (otx *orderTx) RecordEquipmentService(ctx context.Context, equipmentID uuid.UUID, servicedAt time.Time) error {
	query := `
		UPDATE equipment
		SET last_service_date = $1,
			next_service_date = $1 + make_interval(days => service_interval_days),
			updated_at = NOW()
		WHERE id = $2`

	if _, err := otx.tx.ExecContext(ctx, query, servicedAt, equipmentID); err != nil {
		return fmt.Errorf("recording equipment service: %w", err)
	}

	return nil
}
