package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Kind names an event and doubles as its routing key.
type Kind string

const (
	KindOrderScheduled       Kind = "order.scheduled"
	KindOrderStarted         Kind = "order.started"
	KindOrderCompleted       Kind = "order.completed"
	KindOrderCancelled       Kind = "order.cancelled"
	KindOrderReprogrammed    Kind = "order.reprogrammed"
	KindOrderReminder        Kind = "order.reminder"
	KindWarrantyExpiring     Kind = "equipment.warranty_expiring"
	KindCertificationExpired Kind = "technician.certification_expired"
)

type Event struct {
	Kind       Kind      `json:"kind"`
	SubjectID  uuid.UUID `json:"subject_id"`
	Reference  string    `json:"reference"`
	Recipient  string    `json:"recipient"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Log writes events to the structured log. It is used when no broker is configured.
type Log struct{}

func (Log) Notify(ctx context.Context, e Event) error {
	slog.InfoContext(ctx, "notification",
		"kind", e.Kind,
		"reference", e.Reference,
		"recipient", e.Recipient,
		"message", e.Message,
	)

	return nil
}
