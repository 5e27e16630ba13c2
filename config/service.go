package config

import (
	"cmp"

	"github.com/kbukum/voiceorder/logger"
	"github.com/kbukum/voiceorder/validation"
)

// Environments a service may declare.
var Environments = []string{"development", "staging", "production"}

// ServiceConfig is the part of a binary's config that bootstrap reads.
// Embed it squashed:
//
//	type Config struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Cache cache.Config   `yaml:"cache" mapstructure:"cache"`
//	}
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Version     string        `yaml:"version" mapstructure:"version"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults assumes development, where debug is on.
func (c *ServiceConfig) ApplyDefaults() {
	c.Environment = cmp.Or(c.Environment, Environments[0])
	c.Debug = c.Debug || c.Environment == Environments[0]
	c.Logging.ApplyDefaults()
}

func (c *ServiceConfig) Validate() error {
	return validation.New().
		Required("config.name", c.Name).
		Required("config.environment", c.Environment).
		OneOf("config.environment", c.Environment, Environments).
		Section("config.logging", c.Logging.Validate()).
		Validate()
}

// GetServiceConfig lets bootstrap reach the embedded section of any config.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig { return c }
