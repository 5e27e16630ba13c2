package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RequestScope tracks the span and metrics of a single HTTP request.
type RequestScope struct {
	ServiceName string
	Route       string
	Method      string
	RequestID   string
	StartTime   time.Time
	Metrics     *Metrics

	span trace.Span
}

// BeginRequest starts a server span for the request and counts it as in flight.
// A nil metrics value skips metric recording.
func BeginRequest(ctx context.Context, serviceName, method, route, requestID string, metrics *Metrics) (context.Context, *RequestScope) {
	rs := &RequestScope{
		ServiceName: serviceName,
		Route:       route,
		Method:      method,
		RequestID:   requestID,
		StartTime:   time.Now(),
		Metrics:     metrics,
	}
	ctx, rs.span = StartSpan(ctx, method+" "+route, trace.WithSpanKind(trace.SpanKindServer))
	rs.span.SetAttributes(
		attribute.String(AttrServiceName, serviceName),
		attribute.String(AttrOperationName, route),
		attribute.String(AttrRequestID, requestID),
	)
	metrics.RecordRequestStart(ctx)
	return context.WithValue(ctx, requestScopeKey{}, rs), rs
}

type requestScopeKey struct{}

// RequestScopeFromContext returns the scope stored by BeginRequest, or nil.
func RequestScopeFromContext(ctx context.Context) *RequestScope {
	if rs, ok := ctx.Value(requestScopeKey{}).(*RequestScope); ok {
		return rs
	}
	return nil
}

// End closes the span and records the completed request.
func (rs *RequestScope) End(ctx context.Context, status int, err error) {
	duration := time.Since(rs.StartTime)
	if err != nil {
		rs.span.RecordError(err)
		rs.span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
	}
	rs.span.SetAttributes(
		attribute.Int(AttrStatus, status),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	rs.span.End()
	rs.Metrics.RecordRequestEnd(ctx, rs.Route, rs.Method, status, duration)
}

// Duration returns the elapsed time since the request started.
func (rs *RequestScope) Duration() time.Duration {
	return time.Since(rs.StartTime)
}
