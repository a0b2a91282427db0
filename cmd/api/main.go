package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/fieldservice/internal/config"
	"github.com/MrJamesThe3rd/fieldservice/internal/customer"
	customerStore "github.com/MrJamesThe3rd/fieldservice/internal/customer/store"
	"github.com/MrJamesThe3rd/fieldservice/internal/database"
	"github.com/MrJamesThe3rd/fieldservice/internal/equipment"
	equipmentStore "github.com/MrJamesThe3rd/fieldservice/internal/equipment/store"
	fsHttp "github.com/MrJamesThe3rd/fieldservice/internal/http"
	"github.com/MrJamesThe3rd/fieldservice/internal/http/auth"
	customerHandler "github.com/MrJamesThe3rd/fieldservice/internal/http/customer"
	equipmentHandler "github.com/MrJamesThe3rd/fieldservice/internal/http/equipment"
	orderHandler "github.com/MrJamesThe3rd/fieldservice/internal/http/order"
	portalHandler "github.com/MrJamesThe3rd/fieldservice/internal/http/portal"
	reportHandler "github.com/MrJamesThe3rd/fieldservice/internal/http/report"
	scanHandler "github.com/MrJamesThe3rd/fieldservice/internal/http/scan"
	technicianHandler "github.com/MrJamesThe3rd/fieldservice/internal/http/technician"
	"github.com/MrJamesThe3rd/fieldservice/internal/importer"
	"github.com/MrJamesThe3rd/fieldservice/internal/notify"
	"github.com/MrJamesThe3rd/fieldservice/internal/order"
	orderStore "github.com/MrJamesThe3rd/fieldservice/internal/order/store"
	"github.com/MrJamesThe3rd/fieldservice/internal/qrcode"
	"github.com/MrJamesThe3rd/fieldservice/internal/reminder"
	"github.com/MrJamesThe3rd/fieldservice/internal/report"
	"github.com/MrJamesThe3rd/fieldservice/internal/sequence"
	"github.com/MrJamesThe3rd/fieldservice/internal/technician"
	technicianStore "github.com/MrJamesThe3rd/fieldservice/internal/technician/store"
	"github.com/MrJamesThe3rd/fieldservice/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName: cfg.App.Name,
		Endpoint:    cfg.Telemetry.Endpoint,
		Insecure:    cfg.Telemetry.Insecure,
	})
	if err != nil {
		return fmt.Errorf("setting up telemetry: %w", err)
	}

	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := shutdownTracing(flushCtx); err != nil {
			slog.Warn("failed to flush traces", "error", err)
		}
	}()

	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	issuer, closeIssuer, err := newIssuer(cfg, db)
	if err != nil {
		return err
	}
	defer closeIssuer()

	notifier, closeNotifier, err := newNotifier(cfg)
	if err != nil {
		return err
	}
	defer closeNotifier()

	var (
		orderService = order.NewService(orderStore.New(db), issuer, notifier,
			order.WithWorkHours(order.WorkHours{
				Start:       cfg.Scheduling.WorkdayStart,
				End:         cfg.Scheduling.WorkdayEnd,
				HorizonDays: cfg.Scheduling.HorizonDays,
			}))
		equipmentService  = equipment.NewService(equipmentStore.New(db))
		technicianService = technician.NewService(technicianStore.New(db))
		customerService   = customer.NewService(customerStore.New(db))
		reportService     = report.NewService(orderService)
		importService     = importer.NewService(equipmentService)
		scanner           = qrcode.NewScanner(orderService)
	)

	var authenticator *auth.Authenticator
	if cfg.Auth.JWTSecret != "" {
		authenticator = auth.New(cfg.Auth.JWTSecret)
	} else {
		slog.Warn("JWT_SECRET is empty: staff API is unauthenticated and the portal is disabled")
	}

	router := fsHttp.New(fsHttp.Handlers{
		Orders:      orderHandler.NewHandler(orderService),
		Equipment:   equipmentHandler.NewHandler(equipmentService, orderService, importService),
		Technicians: technicianHandler.NewHandler(technicianService, orderService),
		Customers:   customerHandler.NewHandler(customerService, authenticator),
		Reports:     reportHandler.NewHandler(reportService),
		Portal:      portalHandler.NewHandler(orderService),
		Scan:        scanHandler.NewHandler(scanner),
	}, fsHttp.Options{
		Auth:           authenticator,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      otelhttp.NewHandler(router, cfg.App.Name),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	sweeper := reminder.New(orderService, equipmentService, technicianService, notifier, reminder.Config{
		Interval:       cfg.Scheduling.SweepInterval,
		Lead:           cfg.Scheduling.ReminderLead,
		WarrantyWindow: cfg.Scheduling.WarrantyNotice,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server", "addr", server.Addr)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		return sweeper.Start(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newIssuer(cfg *config.Config, db *sql.DB) (order.Issuer, func(), error) {
	switch cfg.Sequence.Backend {
	case "postgres", "":
		return sequence.NewPostgres(db, "service_order_seq", cfg.Sequence.Prefix, cfg.Sequence.Padding), func() {}, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		return sequence.NewRedis(client, "fieldservice:service_order_seq", cfg.Sequence.Prefix, cfg.Sequence.Padding),
			func() { client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown sequence backend %q", cfg.Sequence.Backend)
	}
}

func newNotifier(cfg *config.Config) (order.Notifier, func(), error) {
	if cfg.AMQP.URL == "" {
		slog.Info("AMQP_URL is empty: notifications are logged only")
		return notify.Log{}, func() {}, nil
	}

	publisher, err := notify.Dial(cfg.AMQP.URL, cfg.AMQP.Exchange)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting notifier: %w", err)
	}

	return publisher, func() {
		if err := publisher.Close(); err != nil {
			slog.Warn("failed to close notifier", "error", err)
		}
	}, nil
}
