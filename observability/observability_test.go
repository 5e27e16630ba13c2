package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return rec
}

func TestDefaultConfigs(t *testing.T) {
	tc := DefaultTracerConfig("voiceorder")
	if tc.ServiceName != "voiceorder" || tc.Endpoint != "localhost:4318" || tc.SampleRate != 1.0 || !tc.Insecure {
		t.Errorf("unexpected tracer defaults %+v", tc)
	}
	mc := DefaultMeterConfig("voiceorder")
	if mc.Interval != 15*time.Second {
		t.Errorf("expected 15s interval, got %v", mc.Interval)
	}
}

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{-1, "AlwaysOffSampler"},
	}
	for _, tt := range tests {
		if got := samplerFor(tt.rate).Description(); got != tt.want {
			t.Errorf("samplerFor(%v) = %s, want %s", tt.rate, got, tt.want)
		}
	}
	if got := samplerFor(0.5).Description(); got == "AlwaysOnSampler" || got == "AlwaysOffSampler" {
		t.Errorf("expected a ratio sampler, got %s", got)
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource(context.Background(), "voiceorder", "1.2.3", "test")
	if err != nil {
		t.Fatalf("newResource: %v", err)
	}
	found := map[string]string{}
	for _, kv := range res.Attributes() {
		found[string(kv.Key)] = kv.Value.Emit()
	}
	if found["service.name"] != "voiceorder" || found["service.version"] != "1.2.3" || found["environment"] != "test" {
		t.Errorf("unexpected resource attributes %v", found)
	}
}

func TestSpanHelpers(t *testing.T) {
	rec := withRecorder(t)

	ctx, span := StartSpan(context.Background(), SpanTranscribe)
	SetSpanAttribute(ctx, AttrStrategy, "single_shot")
	SetSpanAttribute(ctx, AttrAttempt, 2)
	SetSpanAttribute(ctx, AttrCacheHit, true)
	SetSpanAttribute(ctx, "custom", time.Second)
	SetSpanError(ctx, errors.New("boom"))
	span.End()

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	s := spans[0]
	if s.Name() != SpanTranscribe {
		t.Errorf("unexpected span name %q", s.Name())
	}
	attrs := map[string]string{}
	for _, kv := range s.Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	if attrs[AttrStrategy] != "single_shot" || attrs[AttrAttempt] != "2" || attrs[AttrCacheHit] != "true" {
		t.Errorf("unexpected attributes %v", attrs)
	}
	if attrs["custom"] != "1s" || attrs[AttrErrorMessage] != "boom" {
		t.Errorf("unexpected fallback/error attributes %v", attrs)
	}
	if len(s.Events()) != 1 {
		t.Errorf("expected recorded error event, got %d", len(s.Events()))
	}
}

func TestSpanHelpersWithoutSpan(t *testing.T) {
	SetSpanAttribute(context.Background(), "k", "v")
	SetSpanError(context.Background(), errors.New("ignored"))
}

func sumCounter(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					total += dp.Value
				}
			}
		}
	}
	return total
}

func TestMetricsRecording(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	ctx := context.Background()
	m.RecordStrategyAttempt(ctx, "single_shot", false)
	m.RecordStrategyAttempt(ctx, "continuous", true)
	m.RecordTranscription(ctx, true, 2)
	m.RecordCacheLookup(ctx, true)
	m.RecordCacheLookup(ctx, false)
	m.RecordOrderParse(ctx, "local")
	m.RecordAudioBytes(ctx, "wav", 44)
	m.RecordOperation(ctx, "provider", "azure", "ok", time.Millisecond)
	m.RecordError(ctx, "provider", "azure")
	m.RecordRequestStart(ctx)
	m.RecordRequestEnd(ctx, "/api/order/parse", "POST", 200, 10*time.Millisecond)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	checks := map[string]int64{
		"speech.strategy.attempts": 2,
		"speech.transcriptions":    1,
		"order.cache.lookups":      2,
		"order.parses":             1,
		"operation.total":          1,
		"error.total":              1,
		"http.request.total":       1,
		"http.request.active":      0,
	}
	for name, want := range checks {
		if got := sumCounter(t, rm, name); got != want {
			t.Errorf("%s = %d, want %d", name, got, want)
		}
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	m.RecordRequestStart(ctx)
	m.RecordRequestEnd(ctx, "/", "GET", 200, time.Millisecond)
	m.RecordStrategyAttempt(ctx, "single_shot", true)
	m.RecordCacheLookup(ctx, false)
}

func TestNewMetricsNoop(t *testing.T) {
	if _, err := NewMetrics(noop.NewMeterProvider().Meter("test")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRequestScope(t *testing.T) {
	rec := withRecorder(t)

	ctx, rs := BeginRequest(context.Background(), "voiceorder", "POST", "/api/speech/transcribe", "req-1", nil)
	if RequestScopeFromContext(ctx) != rs {
		t.Fatal("expected scope in context")
	}
	if RequestScopeFromContext(context.Background()) != nil {
		t.Fatal("expected nil scope for bare context")
	}
	rs.End(ctx, 500, errors.New("decode failed"))

	spans := rec.Ended()
	if len(spans) != 1 || spans[0].Name() != "POST /api/speech/transcribe" {
		t.Fatalf("unexpected spans %v", spans)
	}
	if rs.Duration() <= 0 {
		t.Error("expected positive duration")
	}
}

func TestServiceHealth(t *testing.T) {
	up := HealthCheckFunc(func(context.Context) Health { return Health{Name: "speech", Status: HealthStatusUp} })
	degraded := HealthCheckFunc(func(context.Context) Health { return Health{Name: "llm", Status: HealthStatusDegraded} })
	down := HealthCheckFunc(func(context.Context) Health { return Health{Name: "cache", Status: HealthStatusDown} })

	tests := []struct {
		name     string
		checkers []HealthChecker
		want     HealthStatus
	}{
		{"all up", []HealthChecker{up}, HealthStatusUp},
		{"degraded", []HealthChecker{up, degraded}, HealthStatusDegraded},
		{"down wins", []HealthChecker{down, degraded}, HealthStatusDown},
		{"empty", nil, HealthStatusUp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sh := CheckAll(context.Background(), "voiceorder", "1.0.0", tt.checkers...)
			if sh.Status != tt.want {
				t.Errorf("status = %s, want %s", sh.Status, tt.want)
			}
			if len(sh.Components) != len(tt.checkers) {
				t.Errorf("expected %d components, got %d", len(tt.checkers), len(sh.Components))
			}
		})
	}
}

func TestCheckAllKeepsOrderAndBoundsChecks(t *testing.T) {
	slow := HealthCheckFunc(func(ctx context.Context) Health {
		if _, ok := ctx.Deadline(); !ok {
			return Health{Name: "redis", Status: HealthStatusDown, Message: "no deadline"}
		}
		time.Sleep(10 * time.Millisecond)
		return Health{Name: "redis", Status: HealthStatusUp}
	})
	fast := HealthCheckFunc(func(context.Context) Health { return Health{Name: "speech", Status: HealthStatusUp} })

	sh := CheckAll(context.Background(), "voiceorder", "dev", slow, fast)
	if sh.Status != HealthStatusUp {
		t.Fatalf("status = %s, components %+v", sh.Status, sh.Components)
	}
	if sh.Components[0].Name != "redis" || sh.Components[1].Name != "speech" {
		t.Errorf("components out of order: %+v", sh.Components)
	}
}
