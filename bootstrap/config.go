package bootstrap

import "github.com/kbukum/voiceorder/config"

// Config is satisfied by any config embedding config.ServiceConfig that
// also carries ApplyDefaults and Validate.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
