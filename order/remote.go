package order

import (
	"context"
	"fmt"
	"math"
	"strings"

	apperrors "github.com/kbukum/voiceorder/errors"
	"github.com/kbukum/voiceorder/llm"
	"github.com/kbukum/voiceorder/logger"
	"github.com/kbukum/voiceorder/observability"
	"github.com/kbukum/voiceorder/provider"
	"github.com/kbukum/voiceorder/validation"
)

const (
	remoteConfidence  = 0.90
	remoteTemperature = 0.1
	remoteMaxTokens   = 800
)

// Completer is the chat-completion capability the remote parser consumes.
type Completer = provider.RequestResponse[llm.CompletionRequest, llm.CompletionResponse]

// RemoteConfig tunes the completion request.
type RemoteConfig struct {
	// Model overrides the adapter's default model when set.
	Model       string  `yaml:"model" mapstructure:"model"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// ApplyDefaults sets the low-temperature, bounded-output defaults.
func (c *RemoteConfig) ApplyDefaults() {
	if c.Temperature == 0 {
		c.Temperature = remoteTemperature
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = remoteMaxTokens
	}
}

// RemoteParser parses transcripts with a language model.
type RemoteParser struct {
	llm Completer
	cfg RemoteConfig
	log *logger.Logger
}

// NewRemoteParser wraps c. A nil log uses the "order" component logger.
func NewRemoteParser(c Completer, cfg RemoteConfig, log *logger.Logger) *RemoteParser {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.WithComponent("order")
	}
	return &RemoteParser{llm: c, cfg: cfg, log: log}
}

// Available reports whether the parser has a completer holding a usable
// credential. It is safe on a nil receiver.
func (p *RemoteParser) Available(ctx context.Context) bool {
	return p != nil && p.llm != nil && p.llm.IsAvailable(ctx)
}

// remoteOrder is the JSON shape requested from the model. Pointers tell
// missing fields apart from zero values.
type remoteOrder struct {
	Items               []remoteItem `json:"items" validate:"min=1,dive"`
	SpecialRequests     []string     `json:"special_requests"`
	ClarificationNeeded *bool        `json:"clarification_needed"`
	UnclearItems        []string     `json:"unclear_items"`
}

type remoteItem struct {
	Name           *string        `json:"name"`
	Quantity       *float64       `json:"quantity" validate:"omitnil,gte=0"`
	UnitPrice      *float64       `json:"unit_price" validate:"omitnil,gte=0"`
	Customizations map[string]any `json:"customizations"`
}

// Parse asks the model for a structured order. Every failure is returned as
// a REMOTE_PARSE AppError naming the failed stage.
func (p *RemoteParser) Parse(ctx context.Context, text string) (ParsedOrder, error) {
	if !p.Available(ctx) {
		return ParsedOrder{}, apperrors.RemoteParse("availability", apperrors.ServiceUnavailable("llm"))
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanRemoteParse)
	defer span.End()

	req := llm.UserPrompt(SystemPrompt, BuildPrompt(text))
	req.Model = p.cfg.Model
	req.Temperature = p.cfg.Temperature
	req.MaxTokens = p.cfg.MaxTokens
	if p.cfg.Model != "" {
		observability.SetSpanAttribute(ctx, observability.AttrModel, p.cfg.Model)
	}

	content, err := llm.Complete(ctx, p.llm, req)
	if err != nil {
		return ParsedOrder{}, p.fail(ctx, "complete", err)
	}

	var raw remoteOrder
	if err := llm.DecodeJSONObject(content, &raw); err != nil {
		return ParsedOrder{}, p.fail(ctx, "decode", err)
	}
	if err := validation.Validate(raw); err != nil {
		return ParsedOrder{}, p.fail(ctx, "validate", err)
	}

	o := raw.repair(text)
	p.log.WithContext(ctx).Debug("remote parse succeeded", logger.Fields("items", len(o.Items)))
	return o, nil
}

func (p *RemoteParser) fail(ctx context.Context, stage string, cause error) error {
	err := apperrors.RemoteParse(stage, cause)
	observability.SetSpanError(ctx, err)
	return err
}

// repair fills defaults the model omitted and folds sweetness and ice
// requests into the first item.
func (r remoteOrder) repair(text string) ParsedOrder {
	o := ParsedOrder{
		TranscriptionSource: text,
		ConfidenceScore:     remoteConfidence,
		SpecialRequests:     []string{},
		UnclearItems:        append([]string{}, r.UnclearItems...),
		Source:              SourceRemote,
	}
	if r.ClarificationNeeded != nil {
		o.ClarificationNeeded = *r.ClarificationNeeded
	}
	for _, req := range r.SpecialRequests {
		if req = strings.TrimSpace(req); req != "" {
			o.addRequest(req)
		}
	}

	for _, ri := range r.Items {
		name := UnrecognizedItem
		if ri.Name != nil && strings.TrimSpace(*ri.Name) != "" {
			name = strings.TrimSpace(*ri.Name)
		}
		qty := 1
		if ri.Quantity != nil {
			qty = clampQuantity(math.Round(*ri.Quantity))
		}
		price := PriceFor(name)
		if ri.UnitPrice != nil {
			price = *ri.UnitPrice
		}
		o.Items = append(o.Items, newItem(name, qty, price, customizationsFrom(ri.Customizations)))
	}

	if len(o.Items) > 0 {
		first := o.Items[0].Customizations
		for _, req := range o.SpecialRequests {
			switch {
			case strings.Contains(req, "少甜"):
				first[AxisSweetness] = "少甜"
			case strings.Contains(req, "走冰"), strings.Contains(req, "無冰"):
				first[AxisIce] = "走冰"
			}
		}
	}

	o.Recompute()
	return o
}

func customizationsFrom(m map[string]any) map[Axis]string {
	out := make(map[Axis]string, len(m))
	for k, v := range m {
		if v == nil {
			continue
		}
		s := strings.TrimSpace(fmt.Sprint(v))
		if s == "" {
			continue
		}
		out[Axis(k)] = s
	}
	return out
}
