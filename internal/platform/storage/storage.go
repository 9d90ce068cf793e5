// Package storage opens the result store backend selected in configuration.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/pairmatch/internal/config"
	"github.com/phrazzld/pairmatch/internal/platform/memory"
	"github.com/phrazzld/pairmatch/internal/platform/postgres"
	"github.com/phrazzld/pairmatch/internal/platform/redis"
	"github.com/phrazzld/pairmatch/internal/platform/sqlite"
	"github.com/phrazzld/pairmatch/internal/redact"
	"github.com/phrazzld/pairmatch/internal/store"
)

// Store is a ResultStore that owns a connection.
type Store interface {
	store.ResultStore
	Close() error
}

// memoryStore gives the in-memory backend a no-op Close.
type memoryStore struct {
	*memory.ResultStore
}

func (memoryStore) Close() error { return nil }

// Open returns the backend named by cfg.Driver. SQL backends are migrated
// to the latest schema before they are returned.
func Open(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "opening result store",
		slog.String("driver", cfg.Driver),
		slog.String("url", redact.URL(cfg.URL)))

	switch cfg.Driver {
	case config.DriverMemory, "":
		return memoryStore{memory.NewResultStore(logger)}, nil
	case config.DriverSQLite:
		s, err := sqlite.Open(ctx, cfg.URL, logger)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return s, nil
	case config.DriverPostgres:
		s, err := postgres.Open(ctx, cfg.URL, logger)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		return s, nil
	case config.DriverRedis:
		s, err := redis.Open(ctx, cfg.URL, logger)
		if err != nil {
			return nil, fmt.Errorf("open redis store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
