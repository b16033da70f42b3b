package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Backend selects the remote ledger service implementation.
type Backend string

const (
	BackendPostgres Backend = "postgres"
	BackendMemory   Backend = "memory"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Moneyballs"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"moneyballs"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Ledger struct {
		Backend Backend `envconfig:"LEDGER_BACKEND" default:"postgres"`
		// IDs is "server" (backend-generated ids) or "client" (generated locally).
		IDs           string        `envconfig:"LEDGER_IDS" default:"server"`
		Ordering      bool          `envconfig:"LEDGER_ORDERING" default:"true"`
		DedupeInserts bool          `envconfig:"LEDGER_DEDUPE_INSERTS" default:"false"`
		Migrate       bool          `envconfig:"LEDGER_MIGRATE" default:"true"`
		FeedRetry     time.Duration `envconfig:"LEDGER_FEED_RETRY" default:"5s"`
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

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Ledger.Backend {
	case BackendPostgres, BackendMemory:
	default:
		return fmt.Errorf("invalid LEDGER_BACKEND %q: want postgres or memory", c.Ledger.Backend)
	}

	switch c.Ledger.IDs {
	case "server", "client":
	default:
		return fmt.Errorf("invalid LEDGER_IDS %q: want server or client", c.Ledger.IDs)
	}

	return nil
}
