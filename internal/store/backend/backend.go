// Package backend opens the store.Store selected by configuration.
package backend

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/idilsaglam/tierlist/internal/config"
	"github.com/idilsaglam/tierlist/internal/store"
	"github.com/idilsaglam/tierlist/internal/store/jsonstore"
	"github.com/idilsaglam/tierlist/internal/store/redisstore"
	"github.com/idilsaglam/tierlist/internal/store/sqlitestore"
)

// Open returns the configured backend. Callers own the returned store.
func Open(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendFile:
		return jsonstore.New(cfg.Storage.Dir, cfg.Storage.Key), nil
	case config.BackendSQLite:
		s, err := sqlitestore.Open(ctx, cfg.SQLitePath(), cfg.Storage.Key)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return s, nil
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Storage.RedisAddr,
			Password: cfg.Storage.RedisPassword,
			DB:       cfg.Storage.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connect redis %s: %w", cfg.Storage.RedisAddr, err)
		}
		return redisstore.New(client, cfg.Storage.Key), nil
	}
	return nil, fmt.Errorf("unsupported storage backend %q", cfg.Storage.Backend)
}
