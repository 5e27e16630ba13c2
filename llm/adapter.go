package llm

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kbukum/voiceorder/httpclient/rest"
	"github.com/kbukum/voiceorder/provider"
)

var ErrNoDialect = errors.New("llm: dialect is required")

var _ provider.RequestResponse[CompletionRequest, CompletionResponse] = (*Adapter)(nil)

// Adapter sends chat completions to one endpoint. Transport concerns live in
// the REST client; the Dialect owns the wire format.
type Adapter struct {
	cfg     Config
	client  *rest.Client
	dialect Dialect
}

// New builds an adapter for the dialect registered as cfg.Dialect.
func New(cfg Config) (*Adapter, error) {
	cfg.ApplyDefaults()
	dialect, err := GetDialect(cfg.Dialect)
	if err != nil {
		return nil, err
	}
	return build(dialect, cfg)
}

// NewWithDialect builds an adapter around an unregistered dialect.
func NewWithDialect(dialect Dialect, cfg Config) (*Adapter, error) {
	if dialect == nil {
		return nil, ErrNoDialect
	}
	cfg.Dialect = cmp.Or(cfg.Dialect, dialect.Name())
	cfg.ApplyDefaults()
	return build(dialect, cfg)
}

func build(dialect Dialect, cfg Config) (*Adapter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client, err := rest.New(cfg.httpConfig())
	if err != nil {
		return nil, fmt.Errorf("llm: rest client: %w", err)
	}
	return &Adapter{cfg: cfg, client: client, dialect: dialect}, nil
}

func (a *Adapter) Name() string { return a.cfg.Name }

// IsAvailable reports whether a real API key is configured. No network probe.
func (a *Adapter) IsAvailable(context.Context) bool { return a.cfg.Usable() }

func (a *Adapter) Dialect() Dialect { return a.dialect }

// Execute fills unset model, temperature and token limit from the config and
// sends req.
func (a *Adapter) Execute(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	req.Model = cmp.Or(req.Model, a.cfg.Model)
	req.Temperature = cmp.Or(req.Temperature, a.cfg.Temperature)
	req.MaxTokens = cmp.Or(req.MaxTokens, a.cfg.MaxTokens)

	body, err := a.dialect.BuildRequest(req)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("llm: build request: %w", err)
	}
	var opts []rest.RequestOption
	if len(req.Headers) > 0 {
		opts = append(opts, rest.WithHeaders(req.Headers))
	}
	raw, err := rest.Post[json.RawMessage](ctx, a.client, a.dialect.ChatPath(), body, opts...)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("llm: execute: %w", err)
	}
	out, err := a.dialect.ParseResponse(raw.Data)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("llm: parse response: %w", err)
	}
	return *out, nil
}
