package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"tasktracker/pkg/auth"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// AppConfig is parsed once at startup and passed down by value or pointer; nothing mutates it afterwards.
type AppConfig struct {
	Environment string `env:"APP_ENV" envDefault:"development"`
	Port        string `env:"PORT" envDefault:"8080"`
	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	ServiceName      string `env:"OTEL_SERVICE_NAME" envDefault:"tasktracker"`
	OTLPEndpoint     string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	LokiURL          string `env:"LOKI_URL"`
	TelemetryEnabled bool   `env:"TELEMETRY_ENABLED" envDefault:"true"`

	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"sqlite"`
	DatabasePath   string `env:"DATABASE_PATH" envDefault:"database.db"`
	DatabaseURL    string `env:"DATABASE_URL"`
	SQLLogLevel    string `env:"SQL_LOG_LEVEL" envDefault:"info"`

	SecretKey             string `env:"SECRET_KEY"`
	Algorithm             string `env:"ALGORITHM" envDefault:"HS256"`
	AccessTokenTTLMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"30"`
	PasswordHashCost      int    `env:"PASSWORD_HASH_COST" envDefault:"10"`

	EnforceHTTPS bool `env:"ENFORCE_HTTPS" envDefault:"false"`
}

// Load reads an optional .env file and then the process environment.
func Load(files ...string) (*AppConfig, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}

		if err := godotenv.Load(file); err != nil {
			return nil, fmt.Errorf("load %s: %w", file, err)
		}
	}

	cfg := &AppConfig{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *AppConfig) Validate() error {
	if err := c.TokenConfig().Validate(); err != nil {
		return err
	}

	switch c.DatabaseDriver {
	case DriverSQLite:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.DatabaseDriver)
	}

	if c.PasswordHashCost < bcrypt.MinCost || c.PasswordHashCost > bcrypt.MaxCost {
		return fmt.Errorf("password hash cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	return nil
}

func (c *AppConfig) TokenConfig() auth.TokenConfig {
	return auth.TokenConfig{
		Secret:    c.SecretKey,
		Algorithm: c.Algorithm,
		TTL:       c.AccessTokenTTL(),
	}
}

func (c *AppConfig) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenTTLMinutes) * time.Minute
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

// GetDefaultConfig is meant for tests; it carries a throwaway secret.
func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		Environment:           "test",
		Port:                  "8080",
		MetricsPort:           "9090",
		ServiceName:           "tasktracker",
		DatabaseDriver:        DriverSQLite,
		DatabasePath:          ":memory:",
		SQLLogLevel:           "disabled",
		SecretKey:             "test-secret",
		Algorithm:             "HS256",
		AccessTokenTTLMinutes: 30,
		PasswordHashCost:      bcrypt.MinCost,
		EnforceHTTPS:          false,
	}
}
