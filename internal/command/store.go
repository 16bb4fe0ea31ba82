package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hongminglow/all-in-auth/internal/config"
	"github.com/hongminglow/all-in-auth/internal/storage"
	"github.com/hongminglow/all-in-auth/internal/storage/cache"
	"github.com/hongminglow/all-in-auth/internal/storage/memory"
	"github.com/hongminglow/all-in-auth/internal/storage/postgres"
	"github.com/hongminglow/all-in-auth/internal/storage/sqlite"
)

// openStore opens the configured user directory, fronted by the Redis cache
// when REDIS_URL is set.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (storage.UserStore, error) {
	var (
		store storage.UserStore
		err   error
	)
	switch cfg.DirectoryDriver {
	case config.DriverPostgres:
		store, err = postgres.NewUserStore(ctx, cfg.DatabaseURL)
	case config.DriverSQLite:
		store, err = sqlite.NewUserStore(ctx, logger, cfg.SQLitePath)
	case config.DriverMemory:
		store = memory.NewUserStore()
	default:
		err = fmt.Errorf("unknown directory driver %q", cfg.DirectoryDriver)
	}
	if err != nil {
		return nil, fmt.Errorf("init user directory: %w", err)
	}
	logger.InfoContext(ctx, "user directory ready", slog.String("driver", cfg.DirectoryDriver))

	if cfg.RedisURL == "" {
		return store, nil
	}
	cached, err := cache.NewUserStore(ctx, store, cfg.RedisURL, cfg.UserCacheTTL, logger)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("init user cache: %w", err)
	}
	logger.InfoContext(ctx, "user cache enabled", slog.Duration("ttl", cfg.UserCacheTTL))
	return cached, nil
}
