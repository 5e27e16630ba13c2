package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/kbukum/voiceorder/logger"
	"github.com/kbukum/voiceorder/observability"
)

// App is a long-running service with typed config C.
type App[C Config] struct {
	Name    string
	Version string
	Cfg     C
	Logger  *logger.Logger
	Summary *Summary

	gracefulTimeout time.Duration
	checkers        []observability.HealthChecker

	onStart []Hook
	onReady []Hook
	onStop  []Hook
}

// NewApp applies defaults to cfg, validates it and sets up logging.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	base := cfg.GetServiceConfig()

	o := appOptions{gracefulTimeout: 15 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		logger.Init(base.Logging, base.Name)
		o.logger = logger.GetGlobalLogger()
	}

	return &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		Logger:          o.logger,
		Summary:         NewSummary(base.Name, base.Version),
		gracefulTimeout: o.gracefulTimeout,
	}, nil
}

// AddHealthChecks registers checkers consulted by ReadyCheck and the summary.
func (a *App[C]) AddHealthChecks(checkers ...observability.HealthChecker) {
	a.checkers = append(a.checkers, checkers...)
}

// ReadyCheck fails when any registered checker reports down.
func (a *App[C]) ReadyCheck(ctx context.Context) (*observability.ServiceHealth, error) {
	sh := observability.CheckAll(ctx, a.Name, a.Version, a.checkers...)
	if sh.Status != observability.HealthStatusDown {
		return sh, nil
	}
	var down []string
	for _, c := range sh.Components {
		if c.Status == observability.HealthStatusDown {
			down = append(down, c.Name)
		}
	}
	return sh, fmt.Errorf("components down: %v", down)
}

// Run starts the app, blocks until a signal or ctx ends, then shuts down.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		if stopErr := a.Shutdown(); stopErr != nil {
			a.Logger.Error("shutdown after failed start", logger.Fields(logger.FieldError, stopErr.Error()))
		}
		return err
	}
	a.waitForShutdown(ctx)
	return a.Shutdown()
}

// Start runs the start hooks, the ready check and the ready hooks, then
// prints the summary. A failed ready check is logged, not fatal.
func (a *App[C]) Start(ctx context.Context) error {
	start := time.Now()
	a.Logger.Info("starting", logger.Fields("name", a.Name, "version", a.Version))

	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("start hook: %w", err)
	}

	sh, err := a.ReadyCheck(ctx)
	if err != nil {
		a.Logger.Warn("ready check reported issues", logger.Fields(logger.FieldError, err.Error()))
	}
	a.Summary.SetHealth(sh)

	if err := runHooks(ctx, a.onReady); err != nil {
		return fmt.Errorf("ready hook: %w", err)
	}

	a.Summary.SetStartupDuration(time.Since(start))
	a.Summary.Display(a.Logger)
	return nil
}

// waitForShutdown blocks until SIGINT, SIGTERM or the end of ctx.
func (a *App[C]) waitForShutdown(ctx context.Context) {
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()
	reason := "signal"
	if ctx.Err() != nil {
		reason = "context " + ctx.Err().Error()
	}
	a.Logger.Info("shutting down", logger.Fields("reason", reason))
}

// Shutdown runs every stop hook, last registered first, within the
// graceful timeout. All hooks run even when one fails.
func (a *App[C]) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var errs []error
	for _, h := range slices.Backward(a.onStop) {
		if err := h(ctx); err != nil {
			a.Logger.Error("stop hook failed", logger.Fields(logger.FieldError, err.Error()))
			errs = append(errs, err)
		}
	}
	a.Logger.Info("stopped", logger.Fields("stop_hooks", len(a.onStop), "failed", len(errs)))
	return errors.Join(errs...)
}
