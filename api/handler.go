package api

import (
	"context"
	"math"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/voiceorder/logger"
	"github.com/kbukum/voiceorder/order"
	"github.com/kbukum/voiceorder/provider"
	"github.com/kbukum/voiceorder/transcription"
)

// Transcriber turns uploaded audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, raw []byte, contentType string) transcription.Outcome
}

// OrderService parses transcripts and re-ranks edited orders.
type OrderService interface {
	Extract(ctx context.Context, text string) order.Extraction
	Upsell(o order.ParsedOrder) (order.ParsedOrder, order.Upselling)
}

// Config configures the handlers.
type Config struct {
	// MaxAudioSize is the largest accepted upload in bytes.
	MaxAudioSize int64 `yaml:"max_audio_size" mapstructure:"max_audio_size"`
	// Region is reported by the speech test endpoint.
	Region string `yaml:"region" mapstructure:"region"`
}

// DefaultMaxAudioSize is 10 MiB.
const DefaultMaxAudioSize = 10 << 20

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.MaxAudioSize <= 0 {
		c.MaxAudioSize = DefaultMaxAudioSize
	}
}

// Handler owns the API routes.
type Handler struct {
	transcriber Transcriber
	recognizer  provider.Provider
	orders      OrderService
	cfg         Config
	log         *logger.Logger
	now         func() time.Time
}

// New creates a Handler. recognizer is the backend behind transcriber and
// is only used for reporting.
func New(t Transcriber, recognizer provider.Provider, orders OrderService, cfg Config, log *logger.Logger) *Handler {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.WithComponent("api")
	}
	return &Handler{
		transcriber: t,
		recognizer:  recognizer,
		orders:      orders,
		cfg:         cfg,
		log:         log,
		now:         time.Now,
	}
}

// Register mounts the routes under /api. Extra handlers run before every
// route, e.g. a rate limiter.
func (h *Handler) Register(r gin.IRouter, pre ...gin.HandlerFunc) {
	g := r.Group("/api", pre...)

	speech := g.Group("/speech")
	speech.POST("/transcribe", h.Transcribe)
	speech.GET("/test", h.SpeechTest)

	orders := g.Group("/order")
	orders.POST("/parse", h.ParseOrder)
	orders.POST("/upsell", h.UpsellOrder)
}

// seconds rounds a duration to two decimals of seconds.
func seconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}
