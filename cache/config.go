package cache

import (
	"fmt"
	"time"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"

	DefaultTTL      = 300 * time.Second
	DefaultCapacity = 100
)

// Config selects and sizes the cache backend.
type Config struct {
	Backend  string        `yaml:"backend" mapstructure:"backend"`
	TTL      time.Duration `yaml:"ttl" mapstructure:"ttl"`
	Capacity int           `yaml:"capacity" mapstructure:"capacity"`
	// Namespace is the Redis key namespace for the redis backend.
	Namespace string `yaml:"namespace" mapstructure:"namespace"`
}

// ApplyDefaults sets defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Backend == "" {
		c.Backend = BackendMemory
	}
	if c.TTL <= 0 {
		c.TTL = DefaultTTL
	}
	if c.Capacity <= 0 {
		c.Capacity = DefaultCapacity
	}
	if c.Namespace == "" {
		c.Namespace = "parse"
	}
}

// Validate checks the backend name.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMemory, BackendRedis:
		return nil
	default:
		return fmt.Errorf("cache.backend must be %q or %q, got %q", BackendMemory, BackendRedis, c.Backend)
	}
}
