package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/efreitasn/tradeledger/internal/store"
)

// DriverMemory selects the in-process store instead of a SQL database.
const DriverMemory = "memory"

// DefaultSQLiteDSN is the database file used when STORAGE_DRIVER=sqlite and
// DATABASE_DSN is unset.
const DefaultSQLiteDSN = "tradeledger.db"

// Config holds all runtime configuration for the trade ledger.
type Config struct {
	Port int `env:"PORT" envDefault:"8080"`

	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat     string `env:"LOG_FORMAT" envDefault:"json"`
	LogFile       string `env:"LOG_FILE"`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"100"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"3"`
	LogMaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"28"`

	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"sqlite"`
	DatabaseDSN   string `env:"DATABASE_DSN"`

	DefaultPageLimit int    `env:"DEFAULT_PAGE_LIMIT" envDefault:"100"`
	DefaultSortKey   string `env:"DEFAULT_SORT_KEY" envDefault:"trade_id"`
	SeedBatchSize    int    `env:"SEED_BATCH_SIZE" envDefault:"10"`
	SeedOnStart      int    `env:"SEED_ON_START" envDefault:"0"`
	CORSOrigin       string `env:"CORS_ORIGIN" envDefault:"*"`

	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads configuration from environment variables, applies defaults,
// and validates values. It returns an error for any invalid value.
func Load() (*Config, error) {
	return load(env.Options{})
}

// LoadFrom is Load with an explicit environment instead of the process one.
func LoadFrom(environ map[string]string) (*Config, error) {
	return load(env.Options{Environment: environ})
}

func load(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, err
	}
	if cfg.StorageDriver == store.DriverSQLite && cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = DefaultSQLiteDSN
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT: %d, must be between 1 and 65535", c.Port)
	}
	if !isValidLogLevel(c.LogLevel) {
		return fmt.Errorf("invalid LOG_LEVEL: %q, must be one of: debug, info, warn, error", c.LogLevel)
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("invalid LOG_FORMAT: %q, must be json or text", c.LogFormat)
	}
	if c.LogMaxSizeMB < 1 || c.LogMaxBackups < 0 || c.LogMaxAgeDays < 0 {
		return fmt.Errorf("invalid log rotation settings: size %dMB, backups %d, age %d days",
			c.LogMaxSizeMB, c.LogMaxBackups, c.LogMaxAgeDays)
	}

	switch c.StorageDriver {
	case store.DriverSQLite, DriverMemory:
	case store.DriverPostgres:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("DATABASE_DSN is required for STORAGE_DRIVER=%s", c.StorageDriver)
		}
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER: %q, must be one of: sqlite, postgres, memory", c.StorageDriver)
	}

	if c.DefaultPageLimit < 1 {
		return fmt.Errorf("invalid DEFAULT_PAGE_LIMIT: %d, must be >= 1", c.DefaultPageLimit)
	}
	if !store.IsSortKey(c.DefaultSortKey) {
		return fmt.Errorf("invalid DEFAULT_SORT_KEY: %q", c.DefaultSortKey)
	}
	if c.SeedBatchSize < 0 {
		return fmt.Errorf("invalid SEED_BATCH_SIZE: %d, must be >= 0", c.SeedBatchSize)
	}
	if c.SeedOnStart < 0 {
		return fmt.Errorf("invalid SEED_ON_START: %d, must be >= 0", c.SeedOnStart)
	}

	for key, d := range map[string]time.Duration{
		"READ_TIMEOUT":     c.ReadTimeout,
		"WRITE_TIMEOUT":    c.WriteTimeout,
		"IDLE_TIMEOUT":     c.IdleTimeout,
		"SHUTDOWN_TIMEOUT": c.ShutdownTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("invalid %s: %v, must be positive", key, d)
		}
	}
	return nil
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
