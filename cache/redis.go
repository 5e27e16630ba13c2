package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/voiceorder/redis"
)

// RedisStore shares cached values across replicas. Values expire through
// Redis key TTLs; capacity is enforced with a sorted set scoring each key by
// its insertion time in milliseconds.
type RedisStore[V any] struct {
	client   *redis.Client
	values   *redis.TypedStore[V]
	index    string
	ttl      time.Duration
	capacity int
	now      Clock
}

var _ Store[int] = (*RedisStore[int])(nil)

// NewRedisStore creates a RedisStore under cfg.Namespace.
func NewRedisStore[V any](client *redis.Client, cfg Config, clock Clock) *RedisStore[V] {
	cfg.ApplyDefaults()
	if clock == nil {
		clock = time.Now
	}
	return &RedisStore[V]{
		client:   client,
		values:   redis.NewTypedStore[V](client, cfg.Namespace),
		index:    client.Key(cfg.Namespace, "index"),
		ttl:      cfg.TTL,
		capacity: cfg.Capacity,
		now:      clock,
	}
}

// Get loads key. A missing value also drops its index member.
func (s *RedisStore[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V
	v, err := s.values.Load(ctx, key)
	if err != nil {
		return zero, false, err
	}
	if v == nil {
		if err := s.client.Unwrap().ZRem(ctx, s.index, key).Err(); err != nil {
			return zero, false, fmt.Errorf("cache index remove: %w", err)
		}
		return zero, false, nil
	}
	return *v, true, nil
}

// Set writes v with the store TTL, evicting the oldest insertions when a new
// key would exceed capacity.
func (s *RedisStore[V]) Set(ctx context.Context, key string, v V) error {
	rdb := s.client.Unwrap()
	now := s.now()

	cutoff := strconv.FormatInt(now.Add(-s.ttl).UnixMilli(), 10)
	if err := rdb.ZRemRangeByScore(ctx, s.index, "-inf", cutoff).Err(); err != nil {
		return fmt.Errorf("cache index prune: %w", err)
	}

	exists := true
	if err := rdb.ZScore(ctx, s.index, key).Err(); err != nil {
		if !errors.Is(err, goredis.Nil) {
			return fmt.Errorf("cache index lookup: %w", err)
		}
		exists = false
	}

	if !exists {
		n, err := rdb.ZCard(ctx, s.index).Result()
		if err != nil {
			return fmt.Errorf("cache index size: %w", err)
		}
		if over := n - int64(s.capacity) + 1; over > 0 {
			if err := s.evict(ctx, rdb, over); err != nil {
				return err
			}
		}
	}

	if err := s.values.Save(ctx, key, &v, s.ttl); err != nil {
		return err
	}
	member := goredis.Z{Score: float64(now.UnixMilli()), Member: key}
	if err := rdb.ZAdd(ctx, s.index, member).Err(); err != nil {
		return fmt.Errorf("cache index add: %w", err)
	}
	return nil
}

func (s *RedisStore[V]) evict(ctx context.Context, rdb *goredis.Client, count int64) error {
	popped, err := rdb.ZPopMin(ctx, s.index, count).Result()
	if err != nil {
		return fmt.Errorf("cache evict: %w", err)
	}
	keys := make([]string, 0, len(popped))
	for _, z := range popped {
		keys = append(keys, fmt.Sprint(z.Member))
	}
	return s.values.Delete(ctx, keys...)
}
