package process

import (
	"context"
	"os/exec"
	"time"

	"github.com/kbukum/voiceorder/provider"
)

var _ provider.RequestResponse[Command, *Result] = (*Adapter)(nil)

// Config configures a process adapter bound to one binary.
type Config struct {
	// Name identifies this adapter instance.
	Name string `yaml:"name,omitempty" mapstructure:"name"`
	// Binary is the executable commands default to, e.g. "ffmpeg".
	Binary      string        `yaml:"binary,omitempty" mapstructure:"binary"`
	GracePeriod time.Duration `yaml:"grace_period,omitempty" mapstructure:"grace_period"`
	// Timeout is the default run timeout. Zero means none.
	Timeout time.Duration `yaml:"timeout,omitempty" mapstructure:"timeout"`
}

// Adapter runs subprocesses as a provider.RequestResponse, filling in
// adapter-level defaults.
type Adapter struct {
	config Config
}

// NewAdapter creates a new process adapter.
func NewAdapter(cfg Config) *Adapter {
	if cfg.Name == "" {
		cfg.Name = cfg.Binary
	}
	return &Adapter{config: cfg}
}

// Name returns the adapter name.
func (a *Adapter) Name() string { return a.config.Name }

// IsAvailable reports whether the configured binary resolves on PATH.
func (a *Adapter) IsAvailable(_ context.Context) bool {
	if a.config.Binary == "" {
		return true
	}
	_, err := exec.LookPath(a.config.Binary)
	return err == nil
}

// Execute runs cmd with the adapter defaults applied.
func (a *Adapter) Execute(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.Binary == "" {
		cmd.Binary = a.config.Binary
	}
	if cmd.GracePeriod == 0 {
		cmd.GracePeriod = a.config.GracePeriod
	}
	if cmd.Timeout == 0 {
		cmd.Timeout = a.config.Timeout
	}
	return Run(ctx, cmd)
}
