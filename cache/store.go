package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/voiceorder/redis"
)

// Store is a keyed backend for cached values. Get reports a miss with
// ok=false; errors are reserved for backend failures.
type Store[V any] interface {
	Get(ctx context.Context, key string) (v V, ok bool, err error)
	Set(ctx context.Context, key string, v V) error
}

// Clock returns the current time. Tests substitute a fake.
type Clock func() time.Time

// NewStore builds the backend named by cfg. client is required for the
// redis backend and ignored otherwise.
func NewStore[V any](cfg Config, client *redis.Client, clock Clock) (Store[V], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case BackendRedis:
		if client == nil {
			return nil, fmt.Errorf("cache: redis backend requires a redis client")
		}
		return NewRedisStore[V](client, cfg, clock), nil
	default:
		return NewMemoryStore[V](cfg.TTL, cfg.Capacity, clock), nil
	}
}
