// Package reminder runs the periodic notification sweep: order reminders on
// every tick, warranty and certification notices once per day.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MrJamesThe3rd/fieldservice/internal/equipment"
	"github.com/MrJamesThe3rd/fieldservice/internal/notify"
	"github.com/MrJamesThe3rd/fieldservice/internal/technician"
)

//go:generate mockgen -source=reminder.go -destination=reminder_mock.go -package=reminder
type Orders interface {
	SendReminders(ctx context.Context, lead time.Duration) (int, error)
}

type Warranties interface {
	ExpiringWarranties(ctx context.Context, window time.Duration) ([]*equipment.Equipment, error)
}

type Certifications interface {
	ExpiredCertifications(ctx context.Context) ([]*technician.Technician, error)
}

type Notifier interface {
	Notify(ctx context.Context, e notify.Event) error
}

type Config struct {
	Interval       time.Duration
	Lead           time.Duration
	WarrantyWindow time.Duration
}

// Stats counts what one sweep delivered.
type Stats struct {
	Reminders      int
	Warranties     int
	Certifications int
	Failed         int
}

type Sweeper struct {
	orders         Orders
	warranties     Warranties
	certifications Certifications
	notifier       Notifier
	cfg            Config
	now            func() time.Time
	lastDaily      string
}

func New(orders Orders, warranties Warranties, certifications Certifications, notifier Notifier, cfg Config) *Sweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = 15 * time.Minute
	}

	if cfg.Lead <= 0 {
		cfg.Lead = 24 * time.Hour
	}

	if cfg.WarrantyWindow <= 0 {
		cfg.WarrantyWindow = 30 * 24 * time.Hour
	}

	return &Sweeper{
		orders:         orders,
		warranties:     warranties,
		certifications: certifications,
		notifier:       notifier,
		cfg:            cfg,
		now:            time.Now,
	}
}

func (s *Sweeper) WithClock(now func() time.Time) *Sweeper {
	s.now = now
	return s
}

// Start sweeps once immediately and then on every tick until ctx is done.
// It only returns nil so it can run under an errgroup without tearing it down.
func (s *Sweeper) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		if stats, err := s.Run(ctx); err != nil {
			slog.Error("reminder sweep failed", "error", err)
		} else if stats != (Stats{}) {
			slog.Info("reminder sweep",
				"reminders", stats.Reminders,
				"warranties", stats.Warranties,
				"certifications", stats.Certifications,
				"failed", stats.Failed,
			)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Run performs one sweep. Daily notices go out on the first sweep of each calendar day.
func (s *Sweeper) Run(ctx context.Context) (Stats, error) {
	var stats Stats

	sent, err := s.orders.SendReminders(ctx, s.cfg.Lead)
	stats.Reminders = sent

	if err != nil {
		err = fmt.Errorf("sending order reminders: %w", err)
	}

	day := s.now().Format(time.DateOnly)
	if day == s.lastDaily {
		return stats, err
	}

	warrantyErr := s.warrantyNotices(ctx, &stats)
	certErr := s.certificationNotices(ctx, &stats)

	if warrantyErr == nil && certErr == nil {
		s.lastDaily = day
	}

	return stats, errors.Join(err, warrantyErr, certErr)
}

func (s *Sweeper) warrantyNotices(ctx context.Context, stats *Stats) error {
	items, err := s.warranties.ExpiringWarranties(ctx, s.cfg.WarrantyWindow)
	if err != nil {
		return fmt.Errorf("listing expiring warranties: %w", err)
	}

	for _, e := range items {
		event := notify.Event{
			Kind:       notify.KindWarrantyExpiring,
			SubjectID:  e.ID,
			Reference:  e.SerialNumber,
			Recipient:  e.CustomerEmail,
			Message:    fmt.Sprintf("Warranty of %s (%s) ends on %s", e.Name, e.SerialNumber, e.WarrantyEnd.Format(time.DateOnly)),
			OccurredAt: s.now(),
		}

		if s.deliver(ctx, event) {
			stats.Warranties++
		} else {
			stats.Failed++
		}
	}

	return nil
}

func (s *Sweeper) certificationNotices(ctx context.Context, stats *Stats) error {
	techs, err := s.certifications.ExpiredCertifications(ctx)
	if err != nil {
		return fmt.Errorf("listing expired certifications: %w", err)
	}

	for _, t := range techs {
		// Falls back to the technician when no manager is on file.
		recipient := t.ManagerEmail
		if recipient == "" {
			recipient = t.Email
		}

		event := notify.Event{
			Kind:       notify.KindCertificationExpired,
			SubjectID:  t.ID,
			Reference:  t.Code,
			Recipient:  recipient,
			Message:    fmt.Sprintf("Certification %q of %s expired on %s", t.Certification, t.Name, t.CertificationExpiry.Format(time.DateOnly)),
			OccurredAt: s.now(),
		}

		if s.deliver(ctx, event) {
			stats.Certifications++
		} else {
			stats.Failed++
		}
	}

	return nil
}

func (s *Sweeper) deliver(ctx context.Context, e notify.Event) bool {
	if err := s.notifier.Notify(ctx, e); err != nil {
		slog.Warn("notification not delivered", "kind", e.Kind, "reference", e.Reference, "error", err)
		return false
	}

	return true
}
