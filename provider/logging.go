package provider

import (
	"context"
	"time"

	"github.com/kbukum/voiceorder/logger"
)

// WithLogging logs each call's outcome and latency. Failures log at warn,
// successes at debug.
func WithLogging[I, O any](log *logger.Logger) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &logged[I, O]{RequestResponse: inner, log: log}
	}
}

type logged[I, O any] struct {
	RequestResponse[I, O]
	log *logger.Logger
}

func (p *logged[I, O]) Execute(ctx context.Context, input I) (O, error) {
	start := time.Now()
	out, err := p.RequestResponse.Execute(ctx, input)

	log := p.log.WithContext(ctx)
	fields := logger.Fields("provider", p.Name(), logger.FieldDuration, time.Since(start).Milliseconds())
	if err != nil {
		log.Warn("provider call failed", logger.MergeWithError(fields, err))
	} else {
		log.Debug("provider call ok", fields)
	}
	return out, err
}
