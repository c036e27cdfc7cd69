package completion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"villagesage/internal/adapter/httpclient"
	"villagesage/internal/app/ports"
)

// Named defaults for the plain completion flow. The advisor chat flow
// deliberately uses its own, higher max-token default (chat.DefaultMaxTokens).
const (
	DefaultBaseURL     = "https://api.anthropic.com"
	DefaultModel       = "claude-sonnet-4-20250514"
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.7

	apiVersion = "2023-06-01"
)

type httpDoer interface {
	Do(ctx context.Context, r httpclient.Request) (httpclient.Outcome, error)
}

// Client calls the completion API. Unlike the memory path this one is not
// best-effort: a transport failure propagates unchanged, and a non-2xx
// outcome is handed back for the orchestrator to translate.
type Client struct {
	http    httpDoer
	apiKey  string
	baseURL string
}

func New(doer httpDoer, apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:    doer,
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (c *Client) Configured() bool { return c.apiKey != "" }

func (c *Client) Complete(ctx context.Context, req ports.CompletionRequest) (ports.CompletionResult, error) {
	model := req.Model
	if model == "" {
		model = DefaultModel
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	temperature := req.Temperature
	if temperature == 0 {
		temperature = DefaultTemperature
	}

	payload := map[string]any{
		"model":       model,
		"max_tokens":  maxTokens,
		"messages":    req.Messages,
		"temperature": temperature,
	}
	if req.System != "" {
		payload["system"] = req.System
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return ports.CompletionResult{}, fmt.Errorf("encode completion request: %w", err)
	}

	out, err := c.http.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		URL:    c.baseURL + "/v1/messages",
		Headers: map[string]string{
			"Content-Type":      "application/json",
			"x-api-key":         c.apiKey,
			"anthropic-version": apiVersion,
		},
		Body: body,
	})
	if err != nil {
		return ports.CompletionResult{}, err
	}
	return ports.CompletionResult{Status: out.Status, Body: out.Body, Raw: out.Raw}, nil
}
