package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"fieldservice"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"fieldservice"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Auth struct {
		// Empty secret disables bearer checks on the staff API (local development only).
		JWTSecret string `envconfig:"JWT_SECRET"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	}

	Scheduling struct {
		WorkdayStart   int           `envconfig:"WORKDAY_START_HOUR" default:"8"`
		WorkdayEnd     int           `envconfig:"WORKDAY_END_HOUR" default:"18"`
		HorizonDays    int           `envconfig:"SCHEDULING_HORIZON_DAYS" default:"7"`
		ReminderLead   time.Duration `envconfig:"REMINDER_LEAD" default:"24h"`
		SweepInterval  time.Duration `envconfig:"REMINDER_SWEEP_INTERVAL" default:"15m"`
		WarrantyNotice time.Duration `envconfig:"WARRANTY_NOTICE" default:"720h"`
	}

	Sequence struct {
		Backend string `envconfig:"SEQUENCE_BACKEND" default:"postgres"`
		Prefix  string `envconfig:"SEQUENCE_PREFIX" default:"SO"`
		Padding int    `envconfig:"SEQUENCE_PADDING" default:"5"`
	}

	Redis struct {
		Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
		Password string `envconfig:"REDIS_PASSWORD"`
		DB       int    `envconfig:"REDIS_DB" default:"0"`
	}

	AMQP struct {
		// Empty URL routes notifications to the log instead of a broker.
		URL      string `envconfig:"AMQP_URL"`
		Exchange string `envconfig:"AMQP_EXCHANGE" default:"service_orders"`
	}

	Telemetry struct {
		Endpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
		Insecure bool   `envconfig:"OTEL_EXPORTER_OTLP_INSECURE" default:"false"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.Scheduling.WorkdayStart >= cfg.Scheduling.WorkdayEnd {
		return nil, fmt.Errorf("workday start hour %d must be before end hour %d",
			cfg.Scheduling.WorkdayStart, cfg.Scheduling.WorkdayEnd)
	}

	return &cfg, nil
}
