package bootstrap

import (
	"context"
	"fmt"
)

// Hook is one step of starting or stopping the service.
type Hook func(ctx context.Context) error

// OnStart registers hooks that bring the service up, e.g. binding the HTTP port.
func (a *App[C]) OnStart(hooks ...Hook) {
	a.onStart = append(a.onStart, hooks...)
}

// OnReady registers hooks that run once start hooks succeeded and the
// ready check ran.
func (a *App[C]) OnReady(hooks ...Hook) {
	a.onReady = append(a.onReady, hooks...)
}

// OnStop registers shutdown hooks. They run in reverse registration order.
func (a *App[C]) OnStop(hooks ...Hook) {
	a.onStop = append(a.onStop, hooks...)
}

// runHooks stops at the first failure or when ctx ends.
func runHooks(ctx context.Context, hooks []Hook) error {
	for i, h := range hooks {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("before hook %d: %w", i, err)
		}
		if err := h(ctx); err != nil {
			return fmt.Errorf("hook %d: %w", i, err)
		}
	}
	return nil
}
