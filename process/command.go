package process

import (
	"io"
	"time"
)

// Command configures a subprocess to execute.
type Command struct {
	// Binary is the executable path or name (resolved via PATH).
	Binary string
	Args   []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env holds extra key=value pairs merged over os.Environ.
	Env   []string
	Stdin io.Reader
	// Timeout bounds the whole run. Zero means only ctx bounds it.
	Timeout time.Duration
	// GracePeriod is the wait between SIGTERM and SIGKILL. Defaults to 5s.
	GracePeriod time.Duration
}
