package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/voiceorder/logger"
	"github.com/kbukum/voiceorder/provider"
)

// ErrDisabled is returned by New when the config has Enabled unset.
var ErrDisabled = errors.New("redis: disabled")

var _ provider.Provider = (*Client)(nil)

// Client is a go-redis client that namespaces keys under a prefix and
// reports its availability as a provider.
type Client struct {
	rdb    *goredis.Client
	cfg    Config
	log    *logger.Logger
	closed atomic.Bool
}

// New builds a client. It does not dial; IsAvailable and Ping do.
func New(cfg Config, log *logger.Logger) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("redis config: %w", err)
	}
	if !cfg.Enabled {
		return nil, ErrDisabled
	}
	if log == nil {
		log = logger.Get("redis")
	}
	c := &Client{
		rdb: goredis.NewClient(&goredis.Options{
			Addr:         cfg.Addr,
			Password:     cfg.Password,
			DB:           cfg.DB,
			PoolSize:     cfg.PoolSize,
			MinIdleConns: cfg.MinIdleConns,
			MaxRetries:   cfg.MaxRetries,
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		}),
		cfg: cfg,
		log: log,
	}
	log.Info("redis client created", logger.Fields("addr", cfg.Addr, "db", cfg.DB, "pool_size", cfg.PoolSize))
	return c, nil
}

// Key joins the configured prefix and parts with ':'. Empty parts are skipped.
func (c *Client) Key(parts ...string) string {
	segs := make([]string, 0, len(parts)+1)
	for _, p := range append([]string{c.cfg.KeyPrefix}, parts...) {
		if p != "" {
			segs = append(segs, p)
		}
	}
	return strings.Join(segs, ":")
}

func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Get returns goredis.Nil for a missing key.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	return c.rdb.Get(ctx, key).Result()
}

// Set stores value. A zero ttl keeps the key until deleted.
func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

func (c *Client) Del(ctx context.Context, keys ...string) error {
	return c.rdb.Del(ctx, keys...).Err()
}

func (c *Client) Name() string { return c.cfg.Name }

// IsAvailable reports whether the client is open and the server answers a ping.
func (c *Client) IsAvailable(ctx context.Context) bool {
	return !c.closed.Load() && c.Ping(ctx) == nil
}

// Close is idempotent and nil-safe.
func (c *Client) Close() error {
	if c == nil || !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.log.Info("closing redis connection")
	return c.rdb.Close()
}

// Unwrap exposes the go-redis client for commands the wrapper lacks.
func (c *Client) Unwrap() *goredis.Client { return c.rdb }
