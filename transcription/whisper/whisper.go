// Package whisper implements transcription.Recognizer over a faster-whisper
// HTTP sidecar.
package whisper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kbukum/voiceorder/httpclient"
	"github.com/kbukum/voiceorder/httpclient/rest"
	"github.com/kbukum/voiceorder/transcription"
)

const (
	// ProviderName is the recognizer name.
	ProviderName = "whisper"

	defaultWhisperURL     = "http://localhost:8387"
	defaultWhisperModel   = "base"
	defaultWhisperTimeout = 120 * time.Second
	defaultSegment        = 30 * time.Second
)

// Config holds configuration for the whisper sidecar.
type Config struct {
	URL   string `yaml:"url" mapstructure:"url"`
	Model string `yaml:"model" mapstructure:"model"`
	// Language overrides the language derived from the recognizer config.
	// faster-whisper names Cantonese "yue".
	Language string        `yaml:"language" mapstructure:"language"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Segment  time.Duration `yaml:"segment" mapstructure:"segment"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.URL == "" {
		c.URL = defaultWhisperURL
	}
	if c.Model == "" {
		c.Model = defaultWhisperModel
	}
	if c.Timeout == 0 {
		c.Timeout = defaultWhisperTimeout
	}
	if c.Segment == 0 {
		c.Segment = defaultSegment
	}
}

// Recognizer sends WAV clips to the sidecar's /transcribe endpoint.
type Recognizer struct {
	cfg    Config
	client *rest.Client
}

var _ transcription.Recognizer = (*Recognizer)(nil)

// New creates a whisper recognizer.
func New(cfg Config) (*Recognizer, error) {
	cfg.ApplyDefaults()
	client, err := rest.New(httpclient.Config{
		Name:    ProviderName,
		BaseURL: cfg.URL,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, err
	}
	return &Recognizer{cfg: cfg, client: client}, nil
}

// Name returns the provider name.
func (r *Recognizer) Name() string { return ProviderName }

// IsAvailable checks the sidecar health endpoint.
func (r *Recognizer) IsAvailable(ctx context.Context) bool {
	_, err := rest.Get[map[string]any](ctx, r.client, "/health")
	return err == nil
}

// RecognizeOnce uploads the whole input.
func (r *Recognizer) RecognizeOnce(ctx context.Context, in transcription.Input, cfg transcription.RecognizerConfig) (transcription.RecognitionResult, error) {
	data, err := in.Bytes()
	if err != nil {
		return transcription.RecognitionResult{}, fmt.Errorf("whisper: read input: %w", err)
	}
	return r.transcribe(ctx, data, cfg)
}

// StartContinuous uploads the input in segments.
func (r *Recognizer) StartContinuous(ctx context.Context, in transcription.Input, cfg transcription.RecognizerConfig) (transcription.Session, error) {
	return transcription.StartSegmented(ctx, in, r.cfg.Segment, cfg.Silence(), func(ctx context.Context, wav []byte) (transcription.RecognitionResult, error) {
		return r.transcribe(ctx, wav, cfg)
	})
}

type whisperResponse struct {
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
	Language string           `json:"language"`
}

type whisperSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func (r *Recognizer) transcribe(ctx context.Context, wav []byte, cfg transcription.RecognizerConfig) (transcription.RecognitionResult, error) {
	cfg.ApplyDefaults()

	body := &httpclient.MultipartBody{
		Fields: map[string]string{"model": r.cfg.Model},
		Files: []httpclient.FileField{{
			FieldName:   "audio",
			FileName:    "audio.wav",
			ContentType: "audio/wav",
			Data:        wav,
		}},
	}
	if lang := r.language(cfg); lang != "" {
		body.Fields["language"] = lang
	}

	resp, err := rest.Post[whisperResponse](ctx, r.client, "/transcribe", body)
	if err != nil {
		return transcription.RecognitionResult{}, fmt.Errorf("whisper: %w", err)
	}
	return toResult(resp.Data), nil
}

// language maps a BCP-47 tag to the whisper language code.
func (r *Recognizer) language(cfg transcription.RecognizerConfig) string {
	if r.cfg.Language != "" {
		return r.cfg.Language
	}
	tag := strings.ToLower(cfg.Language)
	if tag == "zh-hk" || tag == "yue" || strings.HasPrefix(tag, "yue-") {
		return "yue"
	}
	base, _, _ := strings.Cut(tag, "-")
	return base
}

func toResult(resp whisperResponse) transcription.RecognitionResult {
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return transcription.RecognitionResult{Status: transcription.StatusNoMatch}
	}
	res := transcription.RecognitionResult{Status: transcription.StatusRecognized, Text: text}
	if n := len(resp.Segments); n > 0 {
		res.Offset = seconds(resp.Segments[0].Start)
		res.Duration = seconds(resp.Segments[n-1].End) - res.Offset
	}
	return res
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
