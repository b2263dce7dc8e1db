package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
	GRPCAddr string `env:"GRPC_ADDR" envDefault:":9090"`
	LogLevel int    `env:"LOG_LEVEL" envDefault:"0"`

	Env     string `env:"ENV" envDefault:"dev"`         // "dev" | "prod"
	Storage string `env:"STORAGE" envDefault:"sqlite"` // "memory" | "sqlite" | "postgres"

	// DB
	DBPath      string `env:"DB_PATH" envDefault:"./data/kiosk.db"`
	PostgresDSN string `env:"POSTGRES_DSN"`

	DeviceAPIKey string `env:"DEVICE_API_KEY"`
	JWT          JWT    `envPrefix:"JWT_"`

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"5s"`

	// Denied-attempt audit log (off by default).
	AuditDeniedAttempts  bool `env:"AUDIT_DENIED_ATTEMPTS" envDefault:"false"`
	AttemptRetentionDays int  `env:"ATTEMPT_RETENTION_DAYS" envDefault:"90"` // 0 = keep forever
	PruneIntervalHours   int  `env:"PRUNE_INTERVAL_HOURS" envDefault:"6"`
}

// JWT holds the administrative session token settings.
type JWT struct {
	Secret string        `env:"SECRET"`
	Issuer string        `env:"ISSUER" envDefault:"kiosk"`
	Leeway time.Duration `env:"LEEWAY" envDefault:"30s"`
	TTL    time.Duration `env:"TTL" envDefault:"12h"`
}

// FromEnv loads configuration from KIOSK_* environment variables.
func FromEnv() (Config, error) {
	return parse(env.Options{Prefix: "KIOSK_"})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	if cfg.Env != "dev" && cfg.Env != "prod" {
		// fail-soft: treat unknown as dev
		cfg.Env = "dev"
	}

	cfg.Storage = strings.ToLower(strings.TrimSpace(cfg.Storage))
	switch cfg.Storage {
	case "memory", "sqlite", "postgres":
	default:
		return Config{}, fmt.Errorf("unknown KIOSK_STORAGE %q", cfg.Storage)
	}
	if cfg.Storage == "postgres" && strings.TrimSpace(cfg.PostgresDSN) == "" {
		return Config{}, fmt.Errorf("KIOSK_POSTGRES_DSN is required for postgres storage")
	}

	if cfg.Env == "prod" {
		if strings.TrimSpace(cfg.DeviceAPIKey) == "" {
			return Config{}, fmt.Errorf("KIOSK_DEVICE_API_KEY is required in prod")
		}
		if strings.TrimSpace(cfg.JWT.Secret) == "" {
			return Config{}, fmt.Errorf("KIOSK_JWT_SECRET is required in prod")
		}
	}

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 5 * time.Second
	}
	if cfg.AttemptRetentionDays < 0 {
		cfg.AttemptRetentionDays = 0
	}
	if cfg.PruneIntervalHours <= 0 {
		cfg.PruneIntervalHours = 6
	}

	return cfg, nil
}
