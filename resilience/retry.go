package resilience

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// BackoffFunc returns the pause after failed attempt n, counting from 1.
type BackoffFunc func(attempt int) time.Duration

// RetryConfig controls Retry. Zero fields take the DefaultRetryConfig values.
type RetryConfig struct {
	// MaxAttempts counts the first call.
	MaxAttempts int
	// InitialBackoff, MaxBackoff, BackoffFactor and Jitter shape the
	// exponential schedule used when Backoff is nil. Jitter is a fraction
	// in [0, 1].
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	BackoffFactor  float64
	Jitter         float64
	Backoff        BackoffFunc
	// RetryIf decides whether an error is worth another attempt.
	RetryIf func(error) bool
	// OnRetry runs before each pause.
	OnRetry func(attempt int, err error, backoff time.Duration)
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     10 * time.Second,
		BackoffFactor:  2,
		Jitter:         0.1,
		RetryIf:        DefaultRetryIf,
	}
}

// DefaultRetryIf retries everything except context cancellation and expiry.
func DefaultRetryIf(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// ConstantBackoff pauses d every time.
func ConstantBackoff(d time.Duration) BackoffFunc {
	return func(int) time.Duration { return d }
}

// LinearBackoff pauses step after the first failure, 2*step after the second, and so on.
func LinearBackoff(step time.Duration) BackoffFunc {
	return func(attempt int) time.Duration { return time.Duration(attempt) * step }
}

// Retry calls fn until it succeeds, RetryIf rejects its error, the attempts
// are spent, or ctx ends. After exhausting attempts it returns fn's last error.
func Retry[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	cfg = cfg.normalized()
	var zero T
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		v, err := fn()
		if err == nil {
			return v, nil
		}
		if attempt >= cfg.MaxAttempts || !cfg.RetryIf(err) {
			return zero, err
		}
		pause := cfg.Backoff(attempt)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err, pause)
		}
		if err := sleep(ctx, pause); err != nil {
			return zero, err
		}
	}
}

// RetryFunc is Retry for functions without a result.
func RetryFunc(ctx context.Context, cfg RetryConfig, fn func() error) error {
	_, err := Retry(ctx, cfg, func() (struct{}, error) { return struct{}{}, fn() })
	return err
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (c RetryConfig) normalized() RetryConfig {
	def := DefaultRetryConfig()
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = def.MaxAttempts
	}
	if c.RetryIf == nil {
		c.RetryIf = def.RetryIf
	}
	if c.Backoff != nil {
		return c
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = def.InitialBackoff
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = def.MaxBackoff
	}
	if c.BackoffFactor <= 0 {
		c.BackoffFactor = def.BackoffFactor
	}
	c.Backoff = exponential(c.InitialBackoff, c.MaxBackoff, c.BackoffFactor, c.Jitter)
	return c
}

// exponential gives initial*factor^(attempt-1), jittered by ±jitter and
// capped at limit.
func exponential(initial, limit time.Duration, factor, jitter float64) BackoffFunc {
	return func(attempt int) time.Duration {
		d := float64(initial) * math.Pow(factor, float64(attempt-1))
		if jitter > 0 {
			d *= 1 + jitter*(2*rand.Float64()-1)
		}
		d = math.Min(d, float64(limit))
		if d < 0 {
			return initial
		}
		return time.Duration(d)
	}
}
