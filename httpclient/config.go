package httpclient

import (
	"cmp"
	"errors"
	"time"

	"github.com/kbukum/voiceorder/resilience"
)

const defaultTimeout = 30 * time.Second

// Config describes one upstream. Name labels logs and breaker state;
// BaseURL is joined with each request's relative path.
type Config struct {
	Name    string            `yaml:"name" mapstructure:"name"`
	BaseURL string            `yaml:"base_url" mapstructure:"base_url"`
	Timeout time.Duration     `yaml:"timeout" mapstructure:"timeout"` // per attempt
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// Auth applies to every request that does not carry its own.
	Auth *AuthConfig `yaml:"-" mapstructure:"-"`
	// Retry and CircuitBreaker are off when nil.
	Retry          *resilience.RetryConfig          `yaml:"-" mapstructure:"-"`
	CircuitBreaker *resilience.CircuitBreakerConfig `yaml:"-" mapstructure:"-"`
}

func (c *Config) ApplyDefaults() {
	c.Name = cmp.Or(c.Name, "httpclient")
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return errors.New("httpclient: timeout must be positive")
	}
	return nil
}

// DefaultRetryConfig retries only what IsRetryable accepts: transport
// failures, 429 and 5xx.
func DefaultRetryConfig() *resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig()
	cfg.RetryIf = IsRetryable
	return &cfg
}

func DefaultCircuitBreakerConfig(name string) *resilience.CircuitBreakerConfig {
	cfg := resilience.DefaultCircuitBreakerConfig(name)
	return &cfg
}
