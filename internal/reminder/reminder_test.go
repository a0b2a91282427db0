package reminder_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/fieldservice/internal/equipment"
	"github.com/MrJamesThe3rd/fieldservice/internal/notify"
	"github.com/MrJamesThe3rd/fieldservice/internal/reminder"
	"github.com/MrJamesThe3rd/fieldservice/internal/technician"
)

type fixture struct {
	orders   *reminder.MockOrders
	warrants *reminder.MockWarranties
	certs    *reminder.MockCertifications
	notifier *reminder.MockNotifier
	now      time.Time
	sweeper  *reminder.Sweeper
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)

	f := &fixture{
		orders:   reminder.NewMockOrders(ctrl),
		warrants: reminder.NewMockWarranties(ctrl),
		certs:    reminder.NewMockCertifications(ctrl),
		notifier: reminder.NewMockNotifier(ctrl),
		now:      time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	}

	f.sweeper = reminder.New(f.orders, f.warrants, f.certs, f.notifier, reminder.Config{
		Interval:       time.Minute,
		Lead:           24 * time.Hour,
		WarrantyWindow: 30 * 24 * time.Hour,
	}).WithClock(func() time.Time { return f.now })

	return f
}

func boiler() *equipment.Equipment {
	return &equipment.Equipment{
		ID:            uuid.New(),
		Name:          "Boiler",
		SerialNumber:  "SN-1",
		CustomerEmail: "ops@acme.test",
		WarrantyEnd:   new(time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)),
	}
}

func expiredTech() *technician.Technician {
	return &technician.Technician{
		ID:                  uuid.New(),
		Code:                "T01",
		Name:                "Alice",
		Email:               "alice@fieldservice.test",
		Certification:       "Gas Safe",
		CertificationExpiry: new(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)),
	}
}

func TestSweeper_Run_DailyNoticesOncePerDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.orders.EXPECT().SendReminders(gomock.Any(), 24*time.Hour).Return(2, nil).Times(3)
	f.warrants.EXPECT().ExpiringWarranties(gomock.Any(), 30*24*time.Hour).Return([]*equipment.Equipment{boiler()}, nil).Times(2)
	f.certs.EXPECT().ExpiredCertifications(gomock.Any()).Return([]*technician.Technician{expiredTech()}, nil).Times(2)

	var kinds []notify.Kind

	f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e notify.Event) error {
			kinds = append(kinds, e.Kind)
			return nil
		}).Times(4)

	stats, err := f.sweeper.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, reminder.Stats{Reminders: 2, Warranties: 1, Certifications: 1}, stats)

	// Same day: only order reminders.
	f.now = f.now.Add(15 * time.Minute)
	stats, err = f.sweeper.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, reminder.Stats{Reminders: 2}, stats)

	// Next day: daily notices again.
	f.now = f.now.Add(24 * time.Hour)
	_, err = f.sweeper.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, []notify.Kind{
		notify.KindWarrantyExpiring, notify.KindCertificationExpired,
		notify.KindWarrantyExpiring, notify.KindCertificationExpired,
	}, kinds)
}

func TestSweeper_Run_EventContent(t *testing.T) {
	f := newFixture(t)
	eq := boiler()

	f.orders.EXPECT().SendReminders(gomock.Any(), gomock.Any()).Return(0, nil)
	f.warrants.EXPECT().ExpiringWarranties(gomock.Any(), gomock.Any()).Return([]*equipment.Equipment{eq}, nil)
	f.certs.EXPECT().ExpiredCertifications(gomock.Any()).Return(nil, nil)
	f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e notify.Event) error {
			assert.Equal(t, eq.ID, e.SubjectID)
			assert.Equal(t, "ops@acme.test", e.Recipient)
			assert.Equal(t, "Warranty of Boiler (SN-1) ends on 2024-01-20", e.Message)
			assert.Equal(t, f.now, e.OccurredAt)

			return nil
		})

	_, err := f.sweeper.Run(context.Background())
	require.NoError(t, err)
}

func TestSweeper_Run_CertificationRecipient(t *testing.T) {
	tests := []struct {
		name          string
		managerEmail  string
		wantRecipient string
	}{
		{name: "manager is notified", managerEmail: "lead@fieldservice.test", wantRecipient: "lead@fieldservice.test"},
		{name: "technician is notified without a manager", managerEmail: "", wantRecipient: "alice@fieldservice.test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tech := expiredTech()
			tech.ManagerEmail = tt.managerEmail

			f.orders.EXPECT().SendReminders(gomock.Any(), gomock.Any()).Return(0, nil)
			f.warrants.EXPECT().ExpiringWarranties(gomock.Any(), gomock.Any()).Return(nil, nil)
			f.certs.EXPECT().ExpiredCertifications(gomock.Any()).Return([]*technician.Technician{tech}, nil)
			f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, e notify.Event) error {
					assert.Equal(t, notify.KindCertificationExpired, e.Kind)
					assert.Equal(t, tt.wantRecipient, e.Recipient)
					assert.Equal(t, tech.ID, e.SubjectID)

					return nil
				})

			stats, err := f.sweeper.Run(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 1, stats.Certifications)
		})
	}
}

func TestSweeper_Run_Failures(t *testing.T) {
	t.Run("delivery failure is counted and does not stop the sweep", func(t *testing.T) {
		f := newFixture(t)

		f.orders.EXPECT().SendReminders(gomock.Any(), gomock.Any()).Return(0, nil)
		f.warrants.EXPECT().ExpiringWarranties(gomock.Any(), gomock.Any()).Return([]*equipment.Equipment{boiler(), boiler()}, nil)
		f.certs.EXPECT().ExpiredCertifications(gomock.Any()).Return(nil, nil)
		f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))
		f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil)

		stats, err := f.sweeper.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, reminder.Stats{Warranties: 1, Failed: 1}, stats)
	})

	t.Run("listing error retries daily notices on the next sweep", func(t *testing.T) {
		f := newFixture(t)

		f.orders.EXPECT().SendReminders(gomock.Any(), gomock.Any()).Return(1, nil).Times(2)
		f.warrants.EXPECT().ExpiringWarranties(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))
		f.warrants.EXPECT().ExpiringWarranties(gomock.Any(), gomock.Any()).Return(nil, nil)
		f.certs.EXPECT().ExpiredCertifications(gomock.Any()).Return(nil, nil).Times(2)

		stats, err := f.sweeper.Run(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing expiring warranties")
		assert.Equal(t, 1, stats.Reminders)

		_, err = f.sweeper.Run(context.Background())
		require.NoError(t, err)
	})

	t.Run("reminder error still runs daily notices", func(t *testing.T) {
		f := newFixture(t)

		f.orders.EXPECT().SendReminders(gomock.Any(), gomock.Any()).Return(0, errors.New("db down"))
		f.warrants.EXPECT().ExpiringWarranties(gomock.Any(), gomock.Any()).Return(nil, nil)
		f.certs.EXPECT().ExpiredCertifications(gomock.Any()).Return(nil, nil)

		_, err := f.sweeper.Run(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sending order reminders")
	})
}

func TestSweeper_Start_StopsOnCancel(t *testing.T) {
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())

	f.orders.EXPECT().SendReminders(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, time.Duration) (int, error) {
			cancel()
			return 0, nil
		})
	f.warrants.EXPECT().ExpiringWarranties(gomock.Any(), gomock.Any()).Return(nil, nil)
	f.certs.EXPECT().ExpiredCertifications(gomock.Any()).Return(nil, nil)

	done := make(chan error, 1)

	go func() { done <- f.sweeper.Start(ctx) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("sweeper did not stop")
	}
}
