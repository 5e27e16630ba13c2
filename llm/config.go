package llm

import (
	"fmt"
	"strings"
	"time"

	"github.com/kbukum/voiceorder/httpclient"
	"github.com/kbukum/voiceorder/resilience"
)

// TestKeyPrefix marks API keys that must never reach the remote provider.
const TestKeyPrefix = "test-"

// Config holds configuration for creating an LLM adapter.
type Config struct {
	// Name identifies this adapter instance in logs and spans.
	Name string `yaml:"name" mapstructure:"name"`
	// Dialect selects the provider mapping registered via RegisterDialect.
	Dialect string `yaml:"dialect" mapstructure:"dialect"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	// APIKey is sent as a bearer token.
	APIKey      string  `yaml:"api_key" mapstructure:"api_key"`
	Model       string  `yaml:"model" mapstructure:"model"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	// Timeout bounds each HTTP attempt. Defaults to 10s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// SiteURL and SiteName become the HTTP-Referer and X-Title headers.
	SiteURL  string            `yaml:"site_url" mapstructure:"site_url"`
	SiteName string            `yaml:"site_name" mapstructure:"site_name"`
	Headers  map[string]string `yaml:"headers" mapstructure:"headers"`

	Retry          *resilience.RetryConfig          `yaml:"-" mapstructure:"-"`
	CircuitBreaker *resilience.CircuitBreakerConfig `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Dialect == "" {
		c.Dialect = "openai"
	}
	if c.BaseURL == "" {
		c.BaseURL = "https://openrouter.ai/api/v1"
	}
	if c.Model == "" {
		c.Model = "x-ai/grok-4-fast:free"
	}
	if c.Timeout == 0 {
		c.Timeout = 10 * time.Second
	}
	if c.Name == "" {
		c.Name = c.Dialect + "-llm"
	}
}

// Validate checks the adapter configuration.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("llm.base_url is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2, got %v", c.Temperature)
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("llm.max_tokens must not be negative")
	}
	return nil
}

// Usable reports whether the config carries a key that may be sent upstream.
// Empty keys and test keys are not usable.
func (c *Config) Usable() bool {
	return c.APIKey != "" && !strings.HasPrefix(c.APIKey, TestKeyPrefix)
}

func (c *Config) httpConfig() httpclient.Config {
	headers := make(map[string]string, len(c.Headers)+2)
	for k, v := range c.Headers {
		headers[k] = v
	}
	if c.SiteURL != "" {
		headers["HTTP-Referer"] = c.SiteURL
	}
	if c.SiteName != "" {
		headers["X-Title"] = asciiTitle(c.SiteName)
	}
	var auth *httpclient.AuthConfig
	if c.APIKey != "" {
		auth = httpclient.BearerAuth(c.APIKey)
	}
	return httpclient.Config{
		Name:           c.Name,
		BaseURL:        c.BaseURL,
		Timeout:        c.Timeout,
		Auth:           auth,
		Headers:        headers,
		Retry:          c.Retry,
		CircuitBreaker: c.CircuitBreaker,
	}
}

const fallbackTitle = "AI Voice Ordering System"

// asciiTitle keeps header values ASCII; non-ASCII site names fall back to a
// fixed title.
func asciiTitle(name string) string {
	for _, r := range name {
		if r > 0x7e || r < 0x20 {
			return fallbackTitle
		}
	}
	return name
}
