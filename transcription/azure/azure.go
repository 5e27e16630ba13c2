// Package azure implements transcription.Recognizer over the Azure Speech
// short-audio REST API.
package azure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/kbukum/voiceorder/httpclient"
	"github.com/kbukum/voiceorder/logger"
	"github.com/kbukum/voiceorder/transcription"
)

const (
	// ProviderName is the recognizer name.
	ProviderName = "azure-speech"

	recognitionPath = "/speech/recognition/conversation/cognitiveservices/v1"
	wavContentType  = "audio/wav; codecs=audio/pcm; samplerate=16000"

	defaultTimeout = 30 * time.Second
	// The short-audio API accepts at most 60s per request.
	defaultSegment = 20 * time.Second
)

// Config holds Azure Speech settings.
type Config struct {
	Key    string `yaml:"key" mapstructure:"key"`
	Region string `yaml:"region" mapstructure:"region"`
	// Endpoint overrides the regional host, e.g. for sovereign clouds.
	Endpoint string        `yaml:"endpoint" mapstructure:"endpoint"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// Segment is the clip length used by continuous sessions.
	Segment time.Duration `yaml:"segment" mapstructure:"segment"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	if c.Segment == 0 {
		c.Segment = defaultSegment
	}
	if c.Endpoint == "" && c.Region != "" {
		c.Endpoint = fmt.Sprintf("https://%s.stt.speech.microsoft.com", c.Region)
	}
}

// Validate checks that the recognizer can be built.
func (c *Config) Validate() error {
	if c.Key == "" || c.Region == "" {
		return errors.New("azure: speech key and region are required")
	}
	return nil
}

// Recognizer calls the Azure Speech REST API.
type Recognizer struct {
	cfg Config
	log *logger.Logger

	mu     sync.RWMutex
	client *httpclient.Client
}

var (
	_ transcription.Recognizer   = (*Recognizer)(nil)
	_ transcription.Reconfigurer = (*Recognizer)(nil)
)

// New creates an Azure recognizer.
func New(cfg Config) (*Recognizer, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Recognizer{cfg: cfg, log: logger.WithComponent(ProviderName)}
	client, err := r.newClient()
	if err != nil {
		return nil, err
	}
	r.client = client
	r.log.Info("azure speech configured", logger.Fields("region", cfg.Region))
	return r, nil
}

func (r *Recognizer) newClient() (*httpclient.Client, error) {
	return httpclient.New(httpclient.Config{
		Name:           ProviderName,
		BaseURL:        r.cfg.Endpoint,
		Timeout:        r.cfg.Timeout,
		Auth:           httpclient.APIKeyAuthHeader(r.cfg.Key, "Ocp-Apim-Subscription-Key"),
		CircuitBreaker: httpclient.DefaultCircuitBreakerConfig(ProviderName),
		Headers:        map[string]string{"Accept": "application/json"},
	})
}

// Name returns the provider name.
func (r *Recognizer) Name() string { return ProviderName }

// Region returns the configured Azure region.
func (r *Recognizer) Region() string { return r.cfg.Region }

// IsAvailable reports whether credentials are configured.
func (r *Recognizer) IsAvailable(_ context.Context) bool {
	return r.cfg.Key != "" && r.cfg.Region != ""
}

// Reconfigure replaces the HTTP client, dropping pooled connections and
// breaker state.
func (r *Recognizer) Reconfigure(_ context.Context) error {
	client, err := r.newClient()
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.client = client
	r.mu.Unlock()
	r.log.Info("azure speech client reconfigured")
	return nil
}

// RecognizeOnce sends the whole input in one request.
func (r *Recognizer) RecognizeOnce(ctx context.Context, in transcription.Input, cfg transcription.RecognizerConfig) (transcription.RecognitionResult, error) {
	data, err := in.Bytes()
	if err != nil {
		return transcription.RecognitionResult{}, fmt.Errorf("azure: read input: %w", err)
	}
	return r.recognize(ctx, data, cfg)
}

// StartContinuous recognizes the input in segments.
func (r *Recognizer) StartContinuous(ctx context.Context, in transcription.Input, cfg transcription.RecognizerConfig) (transcription.Session, error) {
	return transcription.StartSegmented(ctx, in, r.cfg.Segment, cfg.Silence(), func(ctx context.Context, wav []byte) (transcription.RecognitionResult, error) {
		return r.recognize(ctx, wav, cfg)
	})
}

type response struct {
	RecognitionStatus string `json:"RecognitionStatus"`
	DisplayText       string `json:"DisplayText"`
	Offset            int64  `json:"Offset"`
	Duration          int64  `json:"Duration"`
	NBest             []struct {
		Confidence float64 `json:"Confidence"`
		Display    string  `json:"Display"`
	} `json:"NBest"`
}

func (r *Recognizer) recognize(ctx context.Context, wav []byte, cfg transcription.RecognizerConfig) (transcription.RecognitionResult, error) {
	cfg.ApplyDefaults()

	r.mu.RLock()
	client := r.client
	r.mu.RUnlock()

	resp, err := client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   recognitionPath,
		Query: map[string]string{
			"language": cfg.Language,
			"format":   cfg.OutputFormat,
		},
		Headers: map[string]string{"Content-Type": wavContentType},
		Body:    wav,
	})
	if err != nil {
		if resp != nil && len(resp.Body) > 0 {
			return transcription.RecognitionResult{}, fmt.Errorf("azure: %w: %s", err, strings.TrimSpace(string(resp.Body)))
		}
		return transcription.RecognitionResult{}, fmt.Errorf("azure: %w", err)
	}

	var body response
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return transcription.RecognitionResult{}, fmt.Errorf("azure: decode response: %w", err)
	}
	return toResult(body), nil
}

// Offsets are reported in 100ns ticks.
const tick = 100 * time.Nanosecond

func toResult(body response) transcription.RecognitionResult {
	res := transcription.RecognitionResult{
		Offset:   time.Duration(body.Offset) * tick,
		Duration: time.Duration(body.Duration) * tick,
	}
	switch body.RecognitionStatus {
	case "Success":
		res.Status = transcription.StatusRecognized
		res.Text = body.DisplayText
		if len(body.NBest) > 0 {
			res.Confidence = body.NBest[0].Confidence
			if res.Text == "" {
				res.Text = body.NBest[0].Display
			}
		}
	case "NoMatch", "InitialSilenceTimeout", "BabbleTimeout":
		res.Status = transcription.StatusNoMatch
		res.Detail = body.RecognitionStatus
	default:
		res.Status = transcription.StatusCanceled
		res.Detail = body.RecognitionStatus
		if res.Detail == "" {
			res.Detail = "empty recognition status"
		}
	}
	return res
}
