package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/pennant/internal/config"
)

// Open builds the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig, opts ...Option) (Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case config.DriverMemory, "":
		return NewMemoryStore(opts...), nil
	case config.DriverSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath, opts...)
	case config.DriverPostgres:
		return OpenPostgres(ctx, cfg.PostgresDSN, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
