package session

import (
	"context"
	"fmt"

	"folioadmin/internal/config"
)

// OpenStore builds the token store selected by TOKEN_STORE
func OpenStore(ctx context.Context, cfg config.TokenStoreConfig) (Store, error) {
	switch cfg.Backend {
	case config.StoreFile:
		return NewFileStore(cfg.Dir)
	case config.StoreRedis:
		store := NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisPrefix)
		if err := store.(*redisStore).client.Ping(ctx).Err(); err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return store, nil
	case config.StorePostgres:
		return NewPostgresStore(ctx, cfg.DatabaseURL)
	case config.StoreMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown token store %q", cfg.Backend)
	}
}
