package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"
)

var ErrBinaryRequired = errors.New("process: binary is required")

const defaultGracePeriod = 5 * time.Second

// Run starts cmd and waits for it. Cancellation or timeout sends SIGTERM to
// the whole process group; anything still alive after the grace period is
// killed.
func Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.Binary == "" {
		return nil, ErrBinaryRequired
	}
	if cmd.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cmd.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	c := prepare(ctx, cmd, &stdout, &stderr)

	start := time.Now()
	runErr := c.Run()
	res := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: c.ProcessState.ExitCode(),
		Duration: time.Since(start),
	}
	if runErr == nil {
		return res, nil
	}
	if ctx.Err() != nil {
		return res, fmt.Errorf("process: %s killed by context: %w", cmd.Binary, ctx.Err())
	}
	err := fmt.Errorf("process: %s exit code %d: %w", cmd.Binary, res.ExitCode, runErr)
	if tail := res.StderrTail(); tail != "" {
		err = fmt.Errorf("%w: %s", err, tail)
	}
	return res, err
}

func prepare(ctx context.Context, cmd Command, stdout, stderr *bytes.Buffer) *exec.Cmd {
	c := exec.CommandContext(ctx, cmd.Binary, cmd.Args...) //nolint:gosec // args come from fixed templates
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}
	c.Stdin = cmd.Stdin
	c.Stdout = stdout
	c.Stderr = stderr

	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	c.Cancel = func() error {
		if c.Process == nil {
			return nil
		}
		return syscall.Kill(-c.Process.Pid, syscall.SIGTERM)
	}
	c.WaitDelay = defaultGracePeriod
	if cmd.GracePeriod > 0 {
		c.WaitDelay = cmd.GracePeriod
	}
	return c
}
