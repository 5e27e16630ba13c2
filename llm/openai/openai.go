// Package openai implements the llm Dialect for OpenAI-compatible chat
// completion APIs such as OpenRouter.
package openai

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kbukum/voiceorder/llm"
)

// DialectName is the registry name of this dialect.
const DialectName = "openai"

func init() {
	llm.RegisterDialect(DialectName, &Dialect{})
}

// Dialect maps llm types to the /chat/completions wire format.
type Dialect struct{}

var _ llm.Dialect = (*Dialect)(nil)

func (d *Dialect) Name() string     { return DialectName }
func (d *Dialect) ChatPath() string { return "/chat/completions" }

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []llm.Message `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// BuildRequest prepends the system prompt and merges Extra into the body.
func (d *Dialect) BuildRequest(req llm.CompletionRequest) (any, error) {
	msgs := make([]llm.Message, 0, len(req.Messages)+1)
	if req.SystemPrompt != "" {
		msgs = append(msgs, llm.Message{Role: "system", Content: req.SystemPrompt})
	}
	msgs = append(msgs, req.Messages...)
	if len(msgs) == 0 {
		return nil, errors.New("openai: at least one message is required")
	}

	body := chatRequest{Model: req.Model, Messages: msgs, MaxTokens: req.MaxTokens}
	if req.Temperature > 0 {
		t := req.Temperature
		body.Temperature = &t
	}
	if len(req.Extra) == 0 {
		return body, nil
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	merged := map[string]any{}
	if err := json.Unmarshal(raw, &merged); err != nil {
		return nil, err
	}
	for k, v := range req.Extra {
		if _, taken := merged[k]; !taken {
			merged[k] = v
		}
	}
	return merged, nil
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage llm.Usage `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// ParseResponse takes the first choice. OpenRouter may answer 200 with an
// error envelope, which is reported as an error.
func (d *Dialect) ParseResponse(body []byte) (*llm.CompletionResponse, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("openai: decode response: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("openai: provider error: %s", resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("openai: response has no choices")
	}
	return &llm.CompletionResponse{
		Content:      resp.Choices[0].Message.Content,
		Model:        resp.Model,
		Usage:        resp.Usage,
		FinishReason: resp.Choices[0].FinishReason,
	}, nil
}
