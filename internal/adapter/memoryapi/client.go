package memoryapi

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"villagesage/internal/adapter/httpclient"
	"villagesage/internal/domain/advisor"
	"villagesage/internal/domain/game"
)

// DefaultBaseURL is the mem0-style memory service endpoint.
const DefaultBaseURL = "https://api.mem0.ai"

type httpDoer interface {
	Do(ctx context.Context, r httpclient.Request) (httpclient.Outcome, error)
}

// Client talks to the long-term memory service. Every failure on either
// operation is absorbed here: search degrades to an empty slice, store logs
// and returns. The orchestrator never sees a memory error.
type Client struct {
	http    httpDoer
	apiKey  string
	baseURL string
	now     func() time.Time
}

func New(doer httpDoer, apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:    doer,
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
}

// Enabled reports whether a store credential is configured. Without one the
// gateway behaves as if no memories exist, never as if something failed.
func (c *Client) Enabled() bool { return c.apiKey != "" }

// Search looks up memories for the user, optionally narrowed by query text.
// No credential or empty userID short-circuits with zero network calls.
func (c *Client) Search(ctx context.Context, userID, query string) []advisor.Memory {
	if !c.Enabled() || strings.TrimSpace(userID) == "" {
		return nil
	}

	params := url.Values{}
	params.Set("user_id", userID)
	if strings.TrimSpace(query) != "" {
		params.Set("search_query", query)
	}

	out, err := c.http.Do(ctx, httpclient.Request{
		Method:  http.MethodGet,
		URL:     c.baseURL + "/v1/memories/?" + params.Encode(),
		Headers: c.authHeaders(),
	})
	if err != nil {
		log.Printf("[MEMORY] search failed for user %s: %v", userID, err)
		return nil
	}
	if !out.OK() {
		log.Printf("[MEMORY] search returned status %d for user %s", out.Status, userID)
		return nil
	}

	memories := decodeMemories(out.Body)
	log.Printf("[MEMORY] retrieved %d memories for user %s", len(memories), userID)
	return memories
}

// Store submits a conversational turn for persistence, tagging it with a
// metadata summary of the game snapshot. At-most-once, no retry; the call
// never fails its caller.
func (c *Client) Store(ctx context.Context, userID string, turn []advisor.Message, state *game.State) {
	if !c.Enabled() || strings.TrimSpace(userID) == "" {
		return
	}

	metadata := map[string]any{
		"timestamp": c.now().UTC().Format(time.RFC3339),
	}
	if state != nil {
		metadata["gamePhase"] = game.Phase(state)
		metadata["villages"] = state.VillageCount()
		metadata["population"] = state.TotalPopulation()
	}

	body, err := json.Marshal(map[string]any{
		"messages": turn,
		"user_id":  userID,
		"metadata": metadata,
	})
	if err != nil {
		log.Printf("[MEMORY] store encode failed for user %s: %v", userID, err)
		return
	}

	headers := c.authHeaders()
	headers["Content-Type"] = "application/json"
	out, err := c.http.Do(ctx, httpclient.Request{
		Method:  http.MethodPost,
		URL:     c.baseURL + "/v1/memories/",
		Headers: headers,
		Body:    body,
	})
	if err != nil {
		log.Printf("[MEMORY] store failed for user %s: %v", userID, err)
		return
	}
	if !out.OK() {
		log.Printf("[MEMORY] store returned status %d for user %s", out.Status, userID)
		return
	}
	log.Printf("[MEMORY] stored turn for user %s", userID)
}

func (c *Client) authHeaders() map[string]string {
	return map[string]string{"Authorization": "Token " + c.apiKey}
}

// decodeMemories tolerates both a bare array payload and an object with a
// results/memories field, dropping anything it cannot make sense of.
func decodeMemories(body any) []advisor.Memory {
	var entries []any
	switch v := body.(type) {
	case []any:
		entries = v
	case map[string]any:
		for _, key := range []string{"results", "memories"} {
			if list, ok := v[key].([]any); ok {
				entries = list
				break
			}
		}
	}

	out := make([]advisor.Memory, 0, len(entries))
	for _, e := range entries {
		record, ok := e.(map[string]any)
		if !ok {
			continue
		}
		if m, ok := normalizeRecord(record); ok {
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// normalizeRecord maps a loosely-structured memory record onto the single
// canonical text shape, checking the known field names in priority order.
func normalizeRecord(record map[string]any) (advisor.Memory, bool) {
	for _, key := range []string{"memory", "text", "content"} {
		if text, ok := record[key].(string); ok && strings.TrimSpace(text) != "" {
			m := advisor.Memory{Text: text}
			if score, ok := record["score"].(float64); ok {
				m.Score = score
			}
			return m, true
		}
	}
	return advisor.Memory{}, false
}
