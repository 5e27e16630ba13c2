package transcription

import (
	"context"
	"errors"
	"time"

	"github.com/kbukum/voiceorder/audio"
	apperrors "github.com/kbukum/voiceorder/errors"
	"github.com/kbukum/voiceorder/logger"
	"github.com/kbukum/voiceorder/observability"
	"github.com/kbukum/voiceorder/resilience"
)

// Normalizer coerces raw client audio into recognizer format.
type Normalizer interface {
	Normalize(ctx context.Context, raw []byte, contentType string) (audio.NormalizedAudio, error)
}

// Config configures the orchestrator.
type Config struct {
	// MaxRetries is the number of extra passes over all strategies.
	// Zero means the default of 2; a negative value disables retries.
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries"`
	// RetryDelay is the fixed wait between passes.
	RetryDelay time.Duration `yaml:"retry_delay" mapstructure:"retry_delay"`
	Strategies []Strategy    `yaml:"strategies" mapstructure:"strategies"`
	// TempDir holds file inputs. Empty means os.TempDir.
	TempDir    string           `yaml:"temp_dir" mapstructure:"temp_dir"`
	Recognizer RecognizerConfig `yaml:"recognizer" mapstructure:"recognizer"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.MaxRetries == 0 {
		c.MaxRetries = 2
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = time.Second
	}
	if len(c.Strategies) == 0 {
		c.Strategies = append([]Strategy(nil), DefaultStrategies...)
	}
	c.Recognizer.ApplyDefaults()
}

// Passes returns the total number of passes over the strategies.
func (c Config) Passes() int {
	return 1 + max(c.MaxRetries, 0)
}

// Orchestrator turns raw audio into a transcript, trying every strategy on
// every pass until one yields non-blank text.
type Orchestrator struct {
	cfg         Config
	recognizer  Recognizer
	normalizer  Normalizer
	streamSetup StreamSetup
	log         *logger.Logger
	metrics     *observability.Metrics
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithStreamSetup replaces how in-memory inputs are built.
func WithStreamSetup(fn StreamSetup) Option {
	return func(o *Orchestrator) { o.streamSetup = fn }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

// WithMetrics sets the metric instruments.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// NewOrchestrator creates an orchestrator over rec.
func NewOrchestrator(rec Recognizer, norm Normalizer, cfg Config, opts ...Option) *Orchestrator {
	cfg.ApplyDefaults()
	o := &Orchestrator{
		cfg:         cfg,
		recognizer:  rec,
		normalizer:  norm,
		streamSetup: NewStreamInput,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logger.WithComponent("transcription")
	}
	return o
}

// Config returns the effective configuration.
func (o *Orchestrator) Config() Config { return o.cfg }

var errPassFailed = errors.New("transcription: no strategy produced text")

// Transcribe normalizes raw and runs the strategies. Failure is reported
// through the Outcome, never as an error.
func (o *Orchestrator) Transcribe(ctx context.Context, raw []byte, contentType string) Outcome {
	ctx, span := observability.StartSpan(ctx, observability.SpanTranscribe)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrContentType, contentType)

	log := o.log.WithContext(ctx)
	start := time.Now()

	na, err := o.normalizer.Normalize(ctx, raw, contentType)
	if err != nil {
		detail := err.Error()
		if appErr, ok := apperrors.AsAppError(err); ok {
			detail = appErr.Message
		}
		observability.SetSpanError(ctx, err)
		log.Warn("audio normalization failed", logger.MergeWithError(logger.Fields(logger.FieldContentType, contentType), err))
		o.metrics.RecordTranscription(ctx, false, 0)
		return Outcome{ErrorDetail: detail, err: err}
	}

	var (
		attempts    int
		lastDetail  string
		last        Outcome
		reconfigure bool
	)
	retry := resilience.RetryConfig{
		MaxAttempts: o.cfg.Passes(),
		Backoff:     resilience.ConstantBackoff(o.cfg.RetryDelay),
		OnRetry: func(pass int, _ error, wait time.Duration) {
			log.Info("recognition pass failed, retrying", logger.Fields(
				logger.FieldAttempt, pass, "wait_ms", wait.Milliseconds(), "last_error", lastDetail))
		},
	}

	out, err := resilience.Retry(ctx, retry, func() (Outcome, error) {
		if reconfigure {
			o.reconfigure(ctx)
			reconfigure = false
		}
		for _, s := range o.cfg.Strategies {
			res := o.runWithInput(ctx, s, na)
			attempts++
			last = res
			if res.Usable() {
				return res, nil
			}
			lastDetail = res.ErrorDetail
			if o.isTransient(ctx, s, res) {
				reconfigure = true
			}
			if ctx.Err() != nil {
				return Outcome{}, ctx.Err()
			}
		}
		return Outcome{}, errPassFailed
	})
	if err == nil {
		out.Attempts = attempts
		log.Info("transcription succeeded", logger.Fields(
			logger.FieldStrategy, string(out.Strategy),
			logger.FieldAttempt, attempts,
			"confidence", out.Confidence,
			logger.FieldDuration, time.Since(start).Milliseconds(),
		))
		o.metrics.RecordTranscription(ctx, true, attempts)
		return out
	}

	detail := lastDetail
	if detail == "" && ctx.Err() != nil {
		detail = ctx.Err().Error()
	}
	if detail == "" {
		detail = MsgUnknownError
	}
	terminal := apperrors.RecognitionTerminal(attempts, detail)
	observability.SetSpanError(ctx, terminal)
	log.Error("transcription failed", logger.MergeWithError(logger.Fields(
		logger.FieldAttempt, attempts,
		logger.FieldDuration, time.Since(start).Milliseconds(),
	), terminal))
	o.metrics.RecordTranscription(ctx, false, attempts)

	return Outcome{
		ErrorDetail: MsgAllFailed + detail,
		Strategy:    last.Strategy,
		Input:       last.Input,
		Attempts:    attempts,
		err:         terminal,
	}
}

// runWithInput acquires the strategy input, memory first and a temp file
// only when stream setup fails, and releases it afterwards.
func (o *Orchestrator) runWithInput(ctx context.Context, s Strategy, na audio.NormalizedAudio) Outcome {
	log := o.log.WithContext(ctx)

	in, err := o.streamSetup(na)
	if err != nil {
		log.Warn("stream input unavailable, using temp file", logger.MergeWithError(logger.Fields(logger.FieldStrategy, string(s)), err))

		tf, ferr := CreateTempFile(o.cfg.TempDir, na.WAV, o.log)
		if ferr != nil {
			o.metrics.RecordStrategyAttempt(ctx, string(s), false)
			return Outcome{ErrorDetail: ferr.Error(), Strategy: s, Input: InputFile, Attempts: 1, err: ferr}
		}
		defer tf.Release(ctx)

		if in, ferr = NewFileInput(tf.Path(), na.Format); ferr != nil {
			o.metrics.RecordStrategyAttempt(ctx, string(s), false)
			return Outcome{ErrorDetail: ferr.Error(), Strategy: s, Input: InputFile, Attempts: 1, err: ferr}
		}
	}

	res := RunStrategy(ctx, s, o.recognizer, in, o.cfg.Recognizer)
	o.metrics.RecordStrategyAttempt(ctx, string(s), res.Usable())

	fields := logger.Fields(logger.FieldStrategy, string(s), "input", string(in.Kind))
	if res.Usable() {
		log.Debug("strategy succeeded", fields)
	} else {
		fields["detail"] = res.ErrorDetail
		log.Warn("strategy produced no text", fields)
	}
	return res
}

// isTransient reports whether res failed on speech-context validation, the
// one failure a fresh recognizer client can cure.
func (o *Orchestrator) isTransient(ctx context.Context, s Strategy, res Outcome) bool {
	msg := res.ErrorDetail
	if res.err != nil {
		msg += " " + res.err.Error()
	}
	if !IsContextValidationError(msg) {
		return false
	}
	cause := res.err
	if cause == nil {
		cause = errors.New(res.ErrorDetail)
	}
	o.log.WithContext(ctx).Warn("speech context validation failed, reconfiguring before the next pass",
		logger.MergeWithError(nil, apperrors.RecognitionTransient(string(s), cause)))
	return true
}

// reconfigure rebuilds the recognizer client when the recognizer supports it.
func (o *Orchestrator) reconfigure(ctx context.Context) {
	rc, ok := o.recognizer.(Reconfigurer)
	if !ok {
		return
	}
	if err := rc.Reconfigure(ctx); err != nil {
		o.log.WithContext(ctx).Error("recognizer reconfigure failed", logger.MergeWithError(nil, err))
	}
}
