// Command voiceorder serves the Cantonese voice ordering API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/voiceorder/api"
	"github.com/kbukum/voiceorder/audio"
	"github.com/kbukum/voiceorder/bootstrap"
	"github.com/kbukum/voiceorder/cache"
	"github.com/kbukum/voiceorder/config"
	"github.com/kbukum/voiceorder/llm"
	_ "github.com/kbukum/voiceorder/llm/openai"
	"github.com/kbukum/voiceorder/logger"
	"github.com/kbukum/voiceorder/observability"
	"github.com/kbukum/voiceorder/order"
	"github.com/kbukum/voiceorder/provider"
	"github.com/kbukum/voiceorder/redis"
	"github.com/kbukum/voiceorder/server"
	"github.com/kbukum/voiceorder/server/endpoint"
	"github.com/kbukum/voiceorder/server/middleware"
	"github.com/kbukum/voiceorder/transcription"
	"github.com/kbukum/voiceorder/transcription/azure"
	"github.com/kbukum/voiceorder/transcription/whisper"
	"github.com/kbukum/voiceorder/util"
)

func main() {
	var cfg Config
	if err := config.LoadConfig(serviceName, &cfg, config.WithEnvAliases(envAliases)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	app, err := bootstrap.NewApp(&cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx := context.Background()
	if err := wire(ctx, app); err != nil {
		app.Logger.Fatal("wiring failed", logger.Fields(logger.FieldError, err.Error()))
	}
	if err := app.Run(ctx); err != nil {
		app.Logger.Fatal("service stopped with error", logger.Fields(logger.FieldError, err.Error()))
	}
}

// wire builds every component from the config and registers the lifecycle
// hooks on app.
func wire(ctx context.Context, app *bootstrap.App[*Config]) error {
	cfg := app.Cfg
	log := app.Logger

	metrics, err := setupTelemetry(ctx, app)
	if err != nil {
		return err
	}

	rec, err := newRecognizer(cfg.Speech)
	if err != nil {
		return fmt.Errorf("recognizer: %w", err)
	}
	normalizer := audio.NewNormalizer(cfg.Audio,
		audio.WithLogger(log.WithComponent("audio")),
		audio.WithMetrics(metrics),
	)
	orchestrator := transcription.NewOrchestrator(rec, normalizer, cfg.Speech.Transcription,
		transcription.WithLogger(log.WithComponent("transcription")),
		transcription.WithMetrics(metrics),
	)

	adapter, err := llm.New(cfg.LLM)
	if err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	completer := provider.Chain(
		provider.WithLogging[llm.CompletionRequest, llm.CompletionResponse](log.WithComponent("llm")),
		provider.WithTracing[llm.CompletionRequest, llm.CompletionResponse](cfg.Name),
		provider.WithMetrics[llm.CompletionRequest, llm.CompletionResponse](metrics),
	)(adapter)
	remote := order.NewRemoteParser(completer, cfg.Parser, log.WithComponent("order"))

	checkers := []observability.HealthChecker{
		endpoint.ProviderCheck(rec, true),
		endpoint.ProviderCheck(adapter, false),
	}

	var rc *redis.Client
	if cfg.Redis.Enabled {
		rc, err = redis.New(cfg.Redis, log.WithComponent("redis"))
		if err != nil {
			return err
		}
		app.OnStop(func(context.Context) error { return rc.Close() })
		checkers = append(checkers, endpoint.ProviderCheck(rc, false))
	}

	store, err := cache.NewStore[order.ParsedOrder](cfg.Cache, rc, nil)
	if err != nil {
		return err
	}
	parseCache := cache.New(store, order.ParsedOrder.Clone,
		cache.WithLogger(log.WithComponent("cache")),
		cache.WithMetrics(metrics),
	)

	engine := order.NewEngine(
		order.WithCache(parseCache),
		order.WithRemoteParser(remote),
		order.WithLogger(log.WithComponent("order")),
		order.WithMetrics(metrics),
	)

	srv := server.New(cfg.Server, log)
	srv.ApplyMiddleware(cfg.Name, metrics)
	srv.RegisterDefaultEndpoints(cfg.Name, order.CatalogVersion, checkers...)

	var pre []gin.HandlerFunc
	if cfg.Server.RateLimit.Enabled() {
		pre = append(pre, middleware.GinWrap(middleware.RateLimit(cfg.Server.RateLimit)))
	}
	api.New(orchestrator, rec, engine, cfg.API, log.WithComponent("api")).Register(srv.GinEngine(), pre...)

	for _, r := range srv.GinEngine().Routes() {
		app.Summary.AddRoute(r.Method, r.Path)
	}
	app.Summary.Set("recognizer", rec.Name())
	app.Summary.Set("cache", cfg.Cache.Backend)
	app.Summary.Set("catalog", order.CatalogVersion)
	app.Summary.Set("llm_model", cfg.LLM.Model)
	if cfg.LLM.APIKey != "" {
		app.Summary.Set("llm_key", util.MaskSecret(cfg.LLM.APIKey, 8))
	}

	app.AddHealthChecks(checkers...)
	app.OnStart(srv.Start)
	app.OnStop(srv.Stop)
	return nil
}

func newRecognizer(cfg SpeechConfig) (transcription.Recognizer, error) {
	switch cfg.Recognizer {
	case RecognizerWhisper:
		return whisper.New(cfg.Whisper)
	default:
		return azure.New(cfg.Azure)
	}
}

// setupTelemetry installs OTLP exporters when tracing is enabled. Metrics
// instruments are always created; without exporters they are no-ops.
func setupTelemetry(ctx context.Context, app *bootstrap.App[*Config]) (*observability.Metrics, error) {
	cfg := app.Cfg
	if cfg.Tracing.Enabled {
		tp, err := observability.InitTracer(ctx, observability.TracerConfig{
			ServiceName:    cfg.Name,
			ServiceVersion: cfg.Version,
			Environment:    cfg.Environment,
			Endpoint:       cfg.Tracing.Endpoint,
			Insecure:       cfg.Tracing.Insecure,
			SampleRate:     cfg.Tracing.SampleRate,
		})
		if err != nil {
			return nil, err
		}
		mp, err := observability.InitMeter(ctx, observability.MeterConfig{
			ServiceName:    cfg.Name,
			ServiceVersion: cfg.Version,
			Environment:    cfg.Environment,
			Endpoint:       cfg.Tracing.Endpoint,
			Insecure:       cfg.Tracing.Insecure,
			Interval:       cfg.Tracing.MetricInterval,
		})
		if err != nil {
			_ = tp.Shutdown(ctx)
			return nil, err
		}
		app.OnStop(tp.Shutdown, mp.Shutdown)
	}
	return observability.NewMetrics(observability.Meter(cfg.Name))
}
