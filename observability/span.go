package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/kbukum/voiceorder"

// Span names.
const (
	SpanHTTPRequest = "http.request"
	SpanNormalize   = "audio.normalize"
	SpanTranscribe  = "speech.transcribe"
	SpanStrategy    = "speech.strategy"
	SpanExtract     = "order.extract"
	SpanRemoteParse = "order.remote_parse"
)

// Attribute keys.
const (
	AttrServiceName   = "service.name"
	AttrOperationName = "operation.name"
	AttrRequestID     = "request.id"
	AttrDurationMs    = "duration_ms"
	AttrStatus        = "status"
	AttrErrorMessage  = "error.message"
	AttrStrategy      = "speech.strategy"
	AttrAttempt       = "speech.attempt"
	AttrContentType   = "audio.content_type"
	AttrAudioBytes    = "audio.bytes"
	AttrCacheHit      = "order.cache_hit"
	AttrParser        = "order.parser"
	AttrModel         = "llm.model"
)

func Tracer(name string) trace.Tracer { return otel.Tracer(name) }

// StartSpan starts a span from the service tracer.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return Tracer(instrumentationName).Start(ctx, name, opts...)
}

// SetSpanAttribute sets key on the span in ctx. Types without an OTel
// attribute form are recorded with fmt.Sprint.
func SetSpanAttribute(ctx context.Context, key string, value any) {
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(attributeOf(key, value))
	}
}

func attributeOf(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case bool:
		return attribute.Bool(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case []string:
		return attribute.StringSlice(key, v)
	case fmt.Stringer:
		return attribute.String(key, v.String())
	}
	return attribute.String(key, fmt.Sprint(value))
}

// SetSpanError records err on the span in ctx and marks the span failed.
func SetSpanError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
}
