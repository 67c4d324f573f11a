package main

import (
	"context"
	"fmt"

	"github.com/okian/pennant/internal/adapters/archive"
	"github.com/okian/pennant/internal/adapters/repository"
	service "github.com/okian/pennant/internal/app"
	"github.com/okian/pennant/internal/config"
	"github.com/okian/pennant/pkg/logger"
)

// newService opens the configured store and archive and builds a service
// over them. The caller owns Start/Stop; Stop closes the store.
func newService(ctx context.Context, c *config.Config) (*service.Service, error) {
	store, err := repository.Open(ctx, c.Store)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	opts := []service.Option{
		service.WithLogger(logger.Named("service")),
		service.WithSeason(c.Season),
		service.WithMaxSessions(c.MaxSessions),
		service.WithSessionTTL(c.SessionTTL()),
	}
	if c.Archive.Enabled {
		arch, err := archive.New(ctx, c.Archive)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("open archive: %w", err)
		}
		opts = append(opts, service.WithArchiver(arch))
	}
	return service.New(store, opts...), nil
}
