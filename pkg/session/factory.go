package session

import (
	"fmt"
	"time"

	"storebot/pkg/config"
	"storebot/pkg/logger"
)

// NewStore creates a session store based on configuration.
func NewStore(log *logger.Logger, cfg *config.SessionConfig) (Store, error) {
	ttl := time.Duration(cfg.TTLMinutes) * time.Minute
	if ttl == 0 {
		ttl = 4 * time.Hour
	}

	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStore(log, ttl), nil

	case "redis":
		if cfg.Redis.Addr == "" {
			return nil, fmt.Errorf("redis address is required")
		}
		return NewRedisStore(log, &RedisStoreConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
			TTL:      ttl,
		})

	default:
		return nil, fmt.Errorf("unknown session backend: %s", cfg.Backend)
	}
}
