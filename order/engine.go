package order

import (
	"context"

	"github.com/kbukum/voiceorder/logger"
	"github.com/kbukum/voiceorder/observability"
)

// Cache memoizes parsed orders by transcript.
type Cache interface {
	Get(ctx context.Context, text string) (ParsedOrder, bool)
	Put(ctx context.Context, text string, o ParsedOrder)
}

// LocalParser is the signature of ParseLocally.
type LocalParser func(text string) ParsedOrder

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithCache enables result caching.
func WithCache(c Cache) EngineOption {
	return func(e *Engine) { e.cache = c }
}

// WithRemoteParser sets the model-backed parser tried before the local one.
func WithRemoteParser(p *RemoteParser) EngineOption {
	return func(e *Engine) { e.remote = p }
}

// WithLocalParser replaces ParseLocally.
func WithLocalParser(fn LocalParser) EngineOption {
	return func(e *Engine) { e.local = fn }
}

// WithUpseller sets the suggestion ranker.
func WithUpseller(u *Upseller) EngineOption {
	return func(e *Engine) { e.upsell = u }
}

// WithLogger sets the engine logger.
func WithLogger(l *logger.Logger) EngineOption {
	return func(e *Engine) { e.log = l }
}

// WithMetrics records which parser produced each order.
func WithMetrics(m *observability.Metrics) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

// Engine extracts orders from transcripts.
type Engine struct {
	cache   Cache
	remote  *RemoteParser
	local   LocalParser
	upsell  *Upseller
	log     *logger.Logger
	metrics *observability.Metrics
}

// NewEngine creates an Engine. Without options it parses locally, uncached,
// with a wall-clock Upseller.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.local == nil {
		e.local = ParseLocally
	}
	if e.upsell == nil {
		e.upsell = NewUpseller(nil)
	}
	if e.log == nil {
		e.log = logger.WithComponent("order")
	}
	return e
}

// Extract returns the order for text and its upsell suggestions. A cached
// order is returned as is; otherwise the remote parser runs when available,
// falling back to the local parser on any failure. Extract never fails.
func (e *Engine) Extract(ctx context.Context, text string) Extraction {
	ctx, span := observability.StartSpan(ctx, observability.SpanExtract)
	defer span.End()
	log := e.log.WithContext(ctx)

	if e.cache != nil {
		if o, ok := e.cache.Get(ctx, text); ok {
			o.Recompute()
			observability.SetSpanAttribute(ctx, observability.AttrCacheHit, true)
			e.metrics.RecordOrderParse(ctx, "cache")
			log.Debug("order served from cache")
			return Extraction{Order: o, Upselling: e.upsell.Envelope(o), Cached: true}
		}
	}
	observability.SetSpanAttribute(ctx, observability.AttrCacheHit, false)

	o := e.parse(ctx, log, text)
	o.Recompute()

	if e.cache != nil {
		e.cache.Put(ctx, text, o)
	}
	observability.SetSpanAttribute(ctx, observability.AttrParser, string(o.Source))
	e.metrics.RecordOrderParse(ctx, string(o.Source))
	log.Info("order extracted", logger.Fields(logger.FieldParser, string(o.Source), "items", len(o.Items), "total", o.Total))

	return Extraction{Order: o, Upselling: e.upsell.Envelope(o), Cached: false}
}

// Upsell ranks suggestions for an order supplied by the caller, after
// recomputing its totals.
func (e *Engine) Upsell(o ParsedOrder) (ParsedOrder, Upselling) {
	o = o.Clone()
	o.Recompute()
	return o, e.upsell.Envelope(o)
}

// RemoteAvailable reports whether Extract would try the remote parser.
func (e *Engine) RemoteAvailable(ctx context.Context) bool {
	return e.remote.Available(ctx)
}

func (e *Engine) parse(ctx context.Context, log *logger.Logger, text string) ParsedOrder {
	if !e.remote.Available(ctx) {
		log.Debug("remote parser unavailable, parsing locally")
		return e.local(text)
	}
	o, err := e.remote.Parse(ctx, text)
	if err != nil {
		log.Warn("remote parse failed, falling back to local parser", logger.MergeWithError(nil, err))
		return e.local(text)
	}
	return o
}
