// Package observability wires OpenTelemetry tracing and metrics for the
// voice ordering service.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("voiceorder"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanTranscribe)
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("voiceorder"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("voiceorder"))
//	metrics.RecordStrategyAttempt(ctx, "single_shot", true)
//
// Health:
//
//	health := observability.CheckAll(ctx, "voiceorder", version, speechCheck, cacheCheck)
package observability
