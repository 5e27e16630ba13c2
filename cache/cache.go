package cache

import (
	"context"

	"github.com/kbukum/voiceorder/logger"
	"github.com/kbukum/voiceorder/observability"
)

// Option configures a ParseCache.
type Option func(*options)

type options struct {
	log     *logger.Logger
	metrics *observability.Metrics
}

// WithLogger sets the logger used for backend failures.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMetrics records hits and misses.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// ParseCache maps transcript text to a parsed value through a Store.
// Backend errors degrade to misses.
type ParseCache[V any] struct {
	store   Store[V]
	clone   func(V) V
	log     *logger.Logger
	metrics *observability.Metrics
}

// New creates a ParseCache. clone must return a deep copy; nil means values
// are copied by assignment.
func New[V any](store Store[V], clone func(V) V, opts ...Option) *ParseCache[V] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.WithComponent("cache")
	}
	if clone == nil {
		clone = func(v V) V { return v }
	}
	return &ParseCache[V]{store: store, clone: clone, log: o.log, metrics: o.metrics}
}

// Get returns a copy of the value cached for text.
func (c *ParseCache[V]) Get(ctx context.Context, text string) (V, bool) {
	key := Key(text)
	v, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.WithContext(ctx).Warn("parse cache read failed", logger.MergeWithError(logger.Fields(logger.FieldCacheKey, key), err))
		ok = false
	}
	c.metrics.RecordCacheLookup(ctx, ok)
	if !ok {
		var zero V
		return zero, false
	}
	c.log.Debug("parse cache hit", logger.Fields(logger.FieldCacheKey, key))
	return c.clone(v), true
}

// Put stores a copy of v for text.
func (c *ParseCache[V]) Put(ctx context.Context, text string, v V) {
	key := Key(text)
	if err := c.store.Set(ctx, key, c.clone(v)); err != nil {
		c.log.WithContext(ctx).Warn("parse cache write failed", logger.MergeWithError(logger.Fields(logger.FieldCacheKey, key), err))
	}
}
