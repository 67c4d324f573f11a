// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and PENNANT_ env vars.
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Season is the year predictions are collected for.
	Season int `koanf:"season"`

	// MaxSessions caps concurrently open editor sessions.
	MaxSessions int `koanf:"max_sessions"`

	// SessionTTLSeconds closes editor sessions idle for longer than this.
	SessionTTLSeconds int `koanf:"session_ttl_seconds"`

	Store   StoreConfig   `koanf:"store"`
	Archive ArchiveConfig `koanf:"archive"`
}

// StoreConfig selects and configures the prediction store.
type StoreConfig struct {
	// Driver is one of memory, sqlite, postgres.
	Driver      string `koanf:"driver"`
	SQLitePath  string `koanf:"sqlite_path"`
	PostgresDSN string `koanf:"postgres_dsn"`
}

// ArchiveConfig configures season exports to S3-compatible storage.
type ArchiveConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Bucket    string `koanf:"bucket"`
	Region    string `koanf:"region"`
	Endpoint  string `koanf:"endpoint"` // optional; MinIO and friends
	PathStyle bool   `koanf:"path_style"`
	Prefix    string `koanf:"prefix"`
}

// SessionTTL returns SessionTTLSeconds as a duration.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLSeconds) * time.Second
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		Season:            2026,
		MaxSessions:       10_000,
		SessionTTLSeconds: 1800,
		Store: StoreConfig{
			Driver:     DriverMemory,
			SQLitePath: "pennant.db",
		},
		Archive: ArchiveConfig{
			Region: "us-east-1",
			Prefix: "seasons",
		},
	}
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.Season <= 0:
		return fmt.Errorf("%w: season must be positive", ErrInvalidConfig)
	case c.MaxSessions <= 0:
		return fmt.Errorf("%w: max_sessions must be positive", ErrInvalidConfig)
	}
	switch strings.ToLower(c.Store.Driver) {
	case DriverMemory:
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("%w: store.sqlite_path required for sqlite driver", ErrInvalidConfig)
		}
	case DriverPostgres:
		if c.Store.PostgresDSN == "" {
			return fmt.Errorf("%w: store.postgres_dsn required for postgres driver", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store.driver %q", ErrInvalidConfig, c.Store.Driver)
	}
	if c.Archive.Enabled && c.Archive.Bucket == "" {
		return fmt.Errorf("%w: archive.bucket required when archive is enabled", ErrInvalidConfig)
	}
	return nil
}
