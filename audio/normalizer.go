package audio

import (
	"context"
	"time"

	apperrors "github.com/kbukum/voiceorder/errors"
	"github.com/kbukum/voiceorder/logger"
	"github.com/kbukum/voiceorder/observability"
	"github.com/kbukum/voiceorder/process"
	"github.com/kbukum/voiceorder/provider"
)

// DefaultCandidates is the fixed decode order. The declared content type
// never reorders it.
var DefaultCandidates = []string{"webm", "mp3", "ogg", "wav", "m4a"}

// Config configures the normalizer.
type Config struct {
	// FFmpegPath is the ffmpeg binary, resolved via PATH.
	FFmpegPath string        `yaml:"ffmpeg_path" mapstructure:"ffmpeg_path"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Candidates []string      `yaml:"candidates" mapstructure:"candidates"`
	// DisableAutoDetect skips the final probe-the-container ffmpeg pass.
	DisableAutoDetect bool `yaml:"disable_auto_detect" mapstructure:"disable_auto_detect"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.FFmpegPath == "" {
		c.FFmpegPath = "ffmpeg"
	}
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if len(c.Candidates) == 0 {
		c.Candidates = append([]string(nil), DefaultCandidates...)
	}
}

// Normalizer coerces client audio into 16 kHz mono 16-bit PCM WAV.
type Normalizer struct {
	decoders []Decoder
	log      *logger.Logger
	metrics  *observability.Metrics
}

// Option configures a Normalizer.
type Option func(*normalizerOptions)

type normalizerOptions struct {
	runner   provider.RequestResponse[process.Command, *process.Result]
	decoders []Decoder
	log      *logger.Logger
	metrics  *observability.Metrics
}

// WithRunner replaces the ffmpeg process runner.
func WithRunner(r provider.RequestResponse[process.Command, *process.Result]) Option {
	return func(o *normalizerOptions) { o.runner = r }
}

// WithDecoders replaces the decoder chain built from Config.
func WithDecoders(d ...Decoder) Option {
	return func(o *normalizerOptions) { o.decoders = d }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *normalizerOptions) { o.log = l }
}

// WithMetrics sets the metric instruments.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *normalizerOptions) { o.metrics = m }
}

// NewNormalizer builds the decoder chain from cfg.
func NewNormalizer(cfg Config, opts ...Option) *Normalizer {
	cfg.ApplyDefaults()
	o := normalizerOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.WithComponent("audio")
	}
	if o.runner == nil {
		o.runner = process.NewAdapter(process.Config{
			Name:    "ffmpeg",
			Binary:  cfg.FFmpegPath,
			Timeout: cfg.Timeout,
		})
	}

	decoders := o.decoders
	if decoders == nil {
		for _, c := range cfg.Candidates {
			if c == "wav" {
				decoders = append(decoders, WAVDecoder{})
				continue
			}
			decoders = append(decoders, NewFFmpegDecoder(c, o.runner))
		}
		if !cfg.DisableAutoDetect {
			decoders = append(decoders, NewFFmpegDecoder("", o.runner))
		}
	}

	return &Normalizer{decoders: decoders, log: o.log, metrics: o.metrics}
}

// Decoders returns the names of the decoder chain in order.
func (n *Normalizer) Decoders() []string {
	names := make([]string, len(n.decoders))
	for i, d := range n.decoders {
		names[i] = d.Name()
	}
	return names
}

// Normalize returns raw as recognizer-ready WAV. The first success wins:
// an already canonical WAV is returned unchanged, then each decoder is
// tried in order, and finally raw is treated as headerless target PCM.
// An AUDIO_FORMAT error is returned only when raw is empty or not whole
// 16-bit samples.
func (n *Normalizer) Normalize(ctx context.Context, raw []byte, contentType string) (NormalizedAudio, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanNormalize)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrContentType, contentType)
	observability.SetSpanAttribute(ctx, observability.AttrAudioBytes, len(raw))

	log := n.log.WithContext(ctx)

	if len(raw) == 0 {
		err := apperrors.AudioFormat("empty input")
		observability.SetSpanError(ctx, err)
		return NormalizedAudio{}, err
	}

	if IsTarget(raw) {
		out := NormalizedAudio{WAV: raw, Format: TargetFormat, Decoder: "passthrough"}
		n.done(ctx, out)
		return out, nil
	}

	for _, d := range n.decoders {
		out, err := d.Execute(ctx, raw)
		if err == nil {
			log.Debug("audio decoded", logger.Fields("decoder", d.Name(), logger.FieldContentType, contentType))
			n.done(ctx, out)
			return out, nil
		}
		log.Debug("decoder rejected input", logger.MergeWithError(logger.Fields("decoder", d.Name()), err))
	}

	if len(raw)%2 != 0 {
		err := apperrors.AudioFormat("odd byte length is not 16-bit PCM").WithDetail("bytes", len(raw))
		observability.SetSpanError(ctx, err)
		log.Warn("audio normalization failed", logger.MergeWithError(logger.Fields(logger.FieldContentType, contentType), err))
		return NormalizedAudio{}, err
	}

	log.Info("treating audio as raw PCM", logger.Fields(logger.FieldContentType, contentType, "bytes", len(raw)))
	out := newNormalized(raw, "raw")
	n.done(ctx, out)
	return out, nil
}

func (n *Normalizer) done(ctx context.Context, out NormalizedAudio) {
	observability.SetSpanAttribute(ctx, "audio.decoder", out.Decoder)
	n.metrics.RecordAudioBytes(ctx, out.Decoder, len(out.WAV))
}
