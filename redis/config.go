package redis

import (
	"cmp"
	"time"

	"github.com/kbukum/voiceorder/validation"
)

// Config describes the Redis connection backing the shared parse cache.
type Config struct {
	// Enabled selects the Redis-backed parse cache over the in-memory one.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Name identifies the client in logs and health checks.
	Name     string `yaml:"name" mapstructure:"name"`
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`

	PoolSize     int `yaml:"pool_size" mapstructure:"pool_size"`
	MinIdleConns int `yaml:"min_idle_conns" mapstructure:"min_idle_conns"`
	// MaxRetries is the go-redis command retry count.
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries"`

	DialTimeout  time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`

	// KeyPrefix namespaces every key this service writes.
	KeyPrefix string `yaml:"key_prefix" mapstructure:"key_prefix"`
}

func (c *Config) ApplyDefaults() {
	c.Name = cmp.Or(c.Name, "redis")
	c.Addr = cmp.Or(c.Addr, "localhost:6379")
	c.KeyPrefix = cmp.Or(c.KeyPrefix, "voiceorder")
	positive(&c.PoolSize, 10)
	positive(&c.MinIdleConns, 2)
	positive(&c.MaxRetries, 3)
	positive(&c.DialTimeout, 5*time.Second)
	positive(&c.ReadTimeout, 3*time.Second)
	positive(&c.WriteTimeout, 3*time.Second)
}

func positive[T int | time.Duration](v *T, def T) {
	if *v <= 0 {
		*v = def
	}
}

// Validate is a no-op for a disabled client.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	return validation.New().
		Required("addr", c.Addr).
		Custom(c.PoolSize > 0, "pool_size", "must be positive").
		NonNegative("db", float64(c.DB)).
		Validate()
}
