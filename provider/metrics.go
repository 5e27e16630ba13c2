package provider

import (
	"context"
	"time"

	"github.com/kbukum/voiceorder/observability"
)

// WithMetrics records an operation sample per call, plus an error sample
// when it fails. A nil m leaves the provider undecorated.
func WithMetrics[I, O any](m *observability.Metrics) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		if m == nil {
			return inner
		}
		return &measured[I, O]{RequestResponse: inner, metrics: m}
	}
}

type measured[I, O any] struct {
	RequestResponse[I, O]
	metrics *observability.Metrics
}

func (p *measured[I, O]) Execute(ctx context.Context, input I) (O, error) {
	start := time.Now()
	out, err := p.RequestResponse.Execute(ctx, input)
	status := "ok"
	if err != nil {
		status = "error"
		p.metrics.RecordError(ctx, "provider", p.Name())
	}
	p.metrics.RecordOperation(ctx, "provider", p.Name(), status, time.Since(start))
	return out, err
}
