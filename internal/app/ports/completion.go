package ports

import (
	"context"

	"villagesage/internal/domain/advisor"
)

// CompletionRequest carries one call to the completion API. Zero values for
// Model, MaxTokens and Temperature are replaced by the gateway's named
// defaults.
type CompletionRequest struct {
	Model       string
	MaxTokens   int
	Temperature float64
	System      string
	Messages    []advisor.Message
}

// CompletionResult mirrors the upstream response: status plus the decoded
// payload (or raw text when the body was not JSON). Non-2xx is a normal
// result for the caller to translate, never an error.
type CompletionResult struct {
	Status int
	Body   any
	Raw    []byte
}

// OK reports a 2xx status.
func (r CompletionResult) OK() bool { return r.Status >= 200 && r.Status < 300 }

// ReplyText extracts the assistant's reply from the completion payload
// (content[0].text), or "" when the shape does not match.
func (r CompletionResult) ReplyText() string {
	root, ok := r.Body.(map[string]any)
	if !ok {
		return ""
	}
	content, ok := root["content"].([]any)
	if !ok || len(content) == 0 {
		return ""
	}
	first, ok := content[0].(map[string]any)
	if !ok {
		return ""
	}
	text, _ := first["text"].(string)
	return text
}

// CompletionClient calls the completion API. No retries; a transport
// failure propagates as an error because a failed completion has no
// fallback: it is the requested work.
type CompletionClient interface {
	Configured() bool
	Complete(ctx context.Context, req CompletionRequest) (CompletionResult, error)
}
