package cache

import (
	"fmt"

	"github.com/oms/avatax/internal/domain/shared"
	"github.com/oms/avatax/internal/infrastructure/config"
)

// NewIdempotencyStore builds the idempotency store selected by
// configuration: "memory" for single-instance deployments, "redis" when
// idempotency state must be shared across instances.
func NewIdempotencyStore(cfg *config.Config) (shared.IdempotencyStore, error) {
	switch cfg.Event.IdempotencyBackend {
	case "memory":
		return NewInMemoryIdempotencyStore(), nil
	case "redis":
		return NewRedisIdempotencyStore(RedisConfig{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	default:
		return nil, fmt.Errorf("unknown idempotency backend %q", cfg.Event.IdempotencyBackend)
	}
}
