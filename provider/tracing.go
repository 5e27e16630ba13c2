package provider

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/voiceorder/observability"
)

// WithTracing runs each call inside a client span named
// "<serviceName>.<provider>".
func WithTracing[I, O any](serviceName string) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &traced[I, O]{
			RequestResponse: inner,
			span:            serviceName + "." + inner.Name(),
			attrs: []attribute.KeyValue{
				attribute.String(observability.AttrServiceName, serviceName),
				attribute.String(observability.AttrOperationName, inner.Name()),
			},
		}
	}
}

type traced[I, O any] struct {
	RequestResponse[I, O]
	span  string
	attrs []attribute.KeyValue
}

func (p *traced[I, O]) Execute(ctx context.Context, input I) (O, error) {
	ctx, span := observability.StartSpan(ctx, p.span,
		trace.WithSpanKind(trace.SpanKindClient), trace.WithAttributes(p.attrs...))
	defer span.End()

	out, err := p.RequestResponse.Execute(ctx, input)
	if err != nil {
		observability.SetSpanError(ctx, err)
	}
	return out, err
}
