package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kbukum/voiceorder/provider"
)

// ErrNoJSONObject is returned when a completion holds no balanced JSON object.
var ErrNoJSONObject = errors.New("llm: no JSON object in response")

// Complete sends a system and a user prompt and returns the text response.
// It accepts any RequestResponse so middleware-wrapped adapters work too.
func Complete(ctx context.Context, p provider.RequestResponse[CompletionRequest, CompletionResponse], req CompletionRequest) (string, error) {
	resp, err := p.Execute(ctx, req)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// UserPrompt builds a request with a system prompt and one user message.
func UserPrompt(system, user string) CompletionRequest {
	return CompletionRequest{
		SystemPrompt: system,
		Messages:     []Message{{Role: "user", Content: user}},
	}
}

// DecodeJSONObject extracts the first balanced JSON object from content and
// unmarshals it into result.
func DecodeJSONObject(content string, result any) error {
	obj, ok := ExtractJSONObject(content)
	if !ok {
		return ErrNoJSONObject
	}
	if err := json.Unmarshal([]byte(obj), result); err != nil {
		return fmt.Errorf("llm: unmarshal structured response: %w", err)
	}
	return nil
}

// ExtractJSONObject returns the first balanced {...} object in s. Braces
// inside JSON strings, including escaped quotes, are ignored. Markdown fences
// and surrounding prose are skipped implicitly.
func ExtractJSONObject(s string) (string, bool) {
	for start := 0; start < len(s); start++ {
		if s[start] != '{' {
			continue
		}
		if end := matchBrace(s, start); end > 0 {
			return s[start : end+1], true
		}
	}
	return "", false
}

// matchBrace returns the index of the brace closing the one at open, or -1.
func matchBrace(s string, open int) int {
	depth := 0
	inString := false
	escaped := false
	for i := open; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
