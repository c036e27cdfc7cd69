package httpadapter

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"villagesage/internal/app/chat"
	"villagesage/internal/app/ports"
	"villagesage/internal/app/replay"
	"villagesage/internal/domain/advisor"
	"villagesage/internal/domain/game"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type fakeCompletion struct {
	configured bool
	calls      int
	lastReq    ports.CompletionRequest
	result     ports.CompletionResult
	err        error
}

func (f *fakeCompletion) Configured() bool { return f.configured }

func (f *fakeCompletion) Complete(_ context.Context, req ports.CompletionRequest) (ports.CompletionResult, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return ports.CompletionResult{}, f.err
	}
	return f.result, nil
}

var _ ports.CompletionClient = (*fakeCompletion)(nil)

type fakeMemoryStore struct {
	enabled    bool
	storeCalls int
}

func (f *fakeMemoryStore) Enabled() bool { return f.enabled }

func (f *fakeMemoryStore) Search(_ context.Context, _, _ string) []advisor.Memory { return nil }

func (f *fakeMemoryStore) Store(_ context.Context, _ string, _ []advisor.Message, _ *game.State) {
	f.storeCalls++
}

var _ ports.MemoryStore = (*fakeMemoryStore)(nil)

func errorCode(t *testing.T, ctx *app.RequestContext) string {
	t.Helper()
	var body map[string]map[string]any
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	code, _ := body["error"]["code"].(string)
	return code
}

func TestWriteError_MissingMessages(t *testing.T) {
	ctx := &app.RequestContext{}
	writeError(ctx, chat.ErrInvalidRequest)

	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if got, want := errorCode(t, ctx), "missing_messages"; got != want {
		t.Fatalf("error code mismatch: got=%q want=%q", got, want)
	}
}

func TestWriteError_NotConfigured(t *testing.T) {
	ctx := &app.RequestContext{}
	writeError(ctx, ports.ErrNotConfigured)

	if got, want := ctx.Response.StatusCode(), consts.StatusInternalServerError; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if got, want := errorCode(t, ctx), "not_configured"; got != want {
		t.Fatalf("error code mismatch: got=%q want=%q", got, want)
	}
}

func TestWriteError_UpstreamUnreachable(t *testing.T) {
	ctx := &app.RequestContext{}
	writeError(ctx, ports.ErrUpstreamUnreachable)

	if got, want := ctx.Response.StatusCode(), consts.StatusBadGateway; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if got, want := errorCode(t, ctx), "upstream_unreachable"; got != want {
		t.Fatalf("error code mismatch: got=%q want=%q", got, want)
	}
}

func TestWriteError_ReplayBadRequest(t *testing.T) {
	ctx := &app.RequestContext{}
	writeError(ctx, replay.ErrInvalidRequest)

	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestWriteCompletion_EchoesUpstreamStatusAndBody(t *testing.T) {
	ctx := &app.RequestContext{}
	raw := []byte(`{"error":{"type":"rate_limit_error"}}`)
	writeCompletion(ctx, http.StatusTooManyRequests, map[string]any{"error": map[string]any{"type": "rate_limit_error"}}, raw)

	if got, want := ctx.Response.StatusCode(), http.StatusTooManyRequests; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if got := string(ctx.Response.Body()); got != string(raw) {
		t.Fatalf("body mismatch: got=%s", got)
	}
}

func TestWriteCompletion_NonJSONUpstreamBody(t *testing.T) {
	ctx := &app.RequestContext{}
	writeCompletion(ctx, http.StatusOK, "<html>overloaded</html>", []byte("<html>overloaded</html>"))

	if got, want := ctx.Response.StatusCode(), consts.StatusInternalServerError; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if got, want := errorCode(t, ctx), "upstream_parse_error"; got != want {
		t.Fatalf("error code mismatch: got=%q want=%q", got, want)
	}
}

func TestProxy_RequiresMessages(t *testing.T) {
	comp := &fakeCompletion{configured: true}
	h := Handler{Proxy: comp}
	ctx := &app.RequestContext{}
	ctx.Request.SetBody([]byte(`{"model":"claude-sonnet-4-20250514"}`))

	h.proxy(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if got, want := errorCode(t, ctx), "missing_messages"; got != want {
		t.Fatalf("error code mismatch: got=%q want=%q", got, want)
	}
	if comp.calls != 0 {
		t.Fatalf("no upstream call expected, got %d", comp.calls)
	}
}

func TestProxy_MissingAPIKey(t *testing.T) {
	h := Handler{Proxy: &fakeCompletion{configured: false}}
	ctx := &app.RequestContext{}
	ctx.Request.SetBody([]byte(`{"messages":[{"role":"user","content":"hi"}]}`))

	h.proxy(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusInternalServerError; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if got, want := errorCode(t, ctx), "not_configured"; got != want {
		t.Fatalf("error code mismatch: got=%q want=%q", got, want)
	}
}

func TestProxy_ForwardsConversation(t *testing.T) {
	raw := []byte(`{"content":[{"type":"text","text":"ok"}]}`)
	comp := &fakeCompletion{configured: true, result: ports.CompletionResult{
		Status: http.StatusOK,
		Body:   map[string]any{"content": []any{}},
		Raw:    raw,
	}}
	h := Handler{Proxy: comp}
	ctx := &app.RequestContext{}
	ctx.Request.SetBody([]byte(`{"model":"m1","max_tokens":50,"messages":[{"role":"user","content":"hi"}]}`))

	h.proxy(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), http.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if got := string(ctx.Response.Body()); got != string(raw) {
		t.Fatalf("body mismatch: got=%s", got)
	}
	if comp.lastReq.Model != "m1" || comp.lastReq.MaxTokens != 50 {
		t.Fatalf("request not forwarded: %+v", comp.lastReq)
	}
	if comp.lastReq.System != "" {
		t.Fatalf("proxy must not compose a system prompt, got %q", comp.lastReq.System)
	}
}

func TestChat_RunsBackgroundStepAfterResponse(t *testing.T) {
	raw := []byte(`{"content":[{"type":"text","text":"build a cranny"}]}`)
	comp := &fakeCompletion{configured: true, result: ports.CompletionResult{
		Status: http.StatusOK,
		Body: map[string]any{
			"content": []any{map[string]any{"type": "text", "text": "build a cranny"}},
		},
		Raw: raw,
	}}
	mem := &fakeMemoryStore{enabled: true}
	h := Handler{ChatUC: chat.UseCase{Completion: comp, Memory: mem}}
	ctx := &app.RequestContext{}
	ctx.Request.SetBody([]byte(`{"userId":"u1","message":"what next?"}`))

	h.chat(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), http.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if got := string(ctx.Response.Body()); got != string(raw) {
		t.Fatalf("body mismatch: got=%s", got)
	}
	if mem.storeCalls != 1 {
		t.Fatalf("expected one background store, got %d", mem.storeCalls)
	}
}
