package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/voiceorder/logger"
)

// MeterConfig points the OTLP metric exporter at a collector.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	Endpoint       string
	Insecure       bool
	Interval       time.Duration // export period; zero keeps the SDK default
}

// DefaultMeterConfig targets a local collector.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter installs a periodic OTLP meter provider as the global provider.
func InitMeter(ctx context.Context, cfg MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("metric exporter: %w", err)
	}
	res, err := newResource(ctx, cfg.ServiceName, cfg.ServiceVersion, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("metric resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.WithComponent("otel").Info("metrics exporting", logger.Fields("endpoint", cfg.Endpoint, "interval", cfg.Interval.String()))
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the service's metric instruments. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	requestTotal      metric.Int64Counter
	requestDuration   metric.Float64Histogram
	requestActive     metric.Int64UpDownCounter
	operationTotal    metric.Int64Counter
	operationDuration metric.Float64Histogram
	errorTotal        metric.Int64Counter

	strategyAttempts metric.Int64Counter
	transcriptions   metric.Int64Counter
	audioBytes       metric.Int64Histogram
	cacheLookups     metric.Int64Counter
	orderParses      metric.Int64Counter
}

// NewMetrics creates the metric instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var errs []error
	check := func(name string, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("instrument %s: %w", name, err))
		}
	}
	counter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc))
		check(name, err)
		return c
	}
	seconds := func(name, desc string) metric.Float64Histogram {
		h, err := meter.Float64Histogram(name, metric.WithDescription(desc), metric.WithUnit("s"))
		check(name, err)
		return h
	}

	m := &Metrics{
		requestTotal:      counter("http.request.total", "HTTP requests served"),
		requestDuration:   seconds("http.request.duration", "HTTP request latency"),
		operationTotal:    counter("operation.total", "Provider calls"),
		operationDuration: seconds("operation.duration", "Provider call latency"),
		errorTotal:        counter("error.total", "Errors by type and component"),
		strategyAttempts:  counter("speech.strategy.attempts", "Recognition strategy runs"),
		transcriptions:    counter("speech.transcriptions", "Orchestrated transcriptions"),
		cacheLookups:      counter("order.cache.lookups", "Parse cache lookups"),
		orderParses:       counter("order.parses", "Order extractions by parser"),
	}
	var err error
	m.requestActive, err = meter.Int64UpDownCounter("http.request.active", metric.WithDescription("In-flight HTTP requests"))
	check("http.request.active", err)
	m.audioBytes, err = meter.Int64Histogram("audio.normalized.bytes", metric.WithDescription("Normalized WAV size"), metric.WithUnit("By"))
	check("audio.normalized.bytes", err)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return m, nil
}

func (m *Metrics) RecordRequestStart(ctx context.Context) {
	if m != nil {
		m.requestActive.Add(ctx, 1)
	}
}

// RecordRequestEnd closes a request opened by RecordRequestStart.
func (m *Metrics) RecordRequestEnd(ctx context.Context, route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requestActive.Add(ctx, -1)
	where := metric.WithAttributes(attribute.String("http.route", route), attribute.String("http.method", method))
	m.requestTotal.Add(ctx, 1, where, metric.WithAttributes(attribute.Int("http.status_code", status)))
	m.requestDuration.Record(ctx, d.Seconds(), where)
}

// RecordOperation records one provider call; status is "ok" or "error".
func (m *Metrics) RecordOperation(ctx context.Context, component, operation, status string, d time.Duration) {
	if m == nil {
		return
	}
	where := metric.WithAttributes(attribute.String("component", component), attribute.String("operation", operation))
	m.operationTotal.Add(ctx, 1, where, metric.WithAttributes(attribute.String("status", status)))
	m.operationDuration.Record(ctx, d.Seconds(), where)
}

func (m *Metrics) RecordError(ctx context.Context, kind, component string) {
	if m != nil {
		m.count(ctx, m.errorTotal, attribute.String("type", kind), attribute.String("component", component))
	}
}

func (m *Metrics) RecordStrategyAttempt(ctx context.Context, strategy string, success bool) {
	if m != nil {
		m.count(ctx, m.strategyAttempts, attribute.String("strategy", strategy), attribute.Bool("success", success))
	}
}

func (m *Metrics) RecordTranscription(ctx context.Context, success bool, attempts int) {
	if m != nil {
		m.count(ctx, m.transcriptions, attribute.Bool("success", success), attribute.Int("attempts", attempts))
	}
}

// RecordAudioBytes records the size of a normalized WAV payload.
func (m *Metrics) RecordAudioBytes(ctx context.Context, decoder string, n int) {
	if m != nil {
		m.audioBytes.Record(ctx, int64(n), metric.WithAttributes(attribute.String("decoder", decoder)))
	}
}

func (m *Metrics) RecordCacheLookup(ctx context.Context, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.count(ctx, m.cacheLookups, attribute.String("result", result))
}

// RecordOrderParse counts an extraction by the parser that produced it.
func (m *Metrics) RecordOrderParse(ctx context.Context, parser string) {
	if m != nil {
		m.count(ctx, m.orderParses, attribute.String("parser", parser))
	}
}

func (m *Metrics) count(ctx context.Context, c metric.Int64Counter, attrs ...attribute.KeyValue) {
	c.Add(ctx, 1, metric.WithAttributes(attrs...))
}
