package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"villagesage/internal/app/chat"
	"villagesage/internal/app/ports"
	"villagesage/internal/app/replay"
	"villagesage/internal/domain/advisor"
	"villagesage/internal/domain/game"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type Handler struct {
	ChatUC   chat.UseCase
	ReplayUC replay.UseCase
	Proxy    ports.CompletionClient
	KPI      kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	api := s.Group("/api")
	api.POST("/chat", h.chat)
	api.POST("/proxy", h.proxy)
	api.GET("/replay", h.replay)

	s.GET("/ops/kpi", h.kpi)
}

type chatRequest struct {
	UserID      string            `json:"userId"`
	GameState   *game.State       `json:"gameState"`
	Messages    []advisor.Message `json:"messages"`
	Message     string            `json:"message"`
	Model       string            `json:"model"`
	MaxTokens   int               `json:"max_tokens"`
	Temperature float64           `json:"temperature"`
	System      string            `json:"system"`
}

type proxyRequest struct {
	Model       string            `json:"model"`
	MaxTokens   int               `json:"max_tokens"`
	Temperature float64           `json:"temperature"`
	System      string            `json:"system"`
	Messages    []advisor.Message `json:"messages"`
}

func (h Handler) chat(c context.Context, ctx *app.RequestContext) {
	var body chatRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.ChatUC.Execute(c, chat.Request{
		UserID:      body.UserID,
		GameState:   body.GameState,
		Messages:    body.Messages,
		Message:     body.Message,
		Model:       body.Model,
		MaxTokens:   body.MaxTokens,
		Temperature: body.Temperature,
		System:      body.System,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}

	writeCompletion(ctx, resp.Status, resp.Payload, resp.Raw)
	if resp.Background != nil {
		resp.Background()
	}
}

// proxy forwards a raw completion call without memory retrieval or prompt
// composition. The upstream status and payload pass through unchanged.
func (h Handler) proxy(c context.Context, ctx *app.RequestContext) {
	var body proxyRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if len(body.Messages) == 0 {
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_messages", "messages is required")
		return
	}
	if h.Proxy == nil || !h.Proxy.Configured() {
		writeError(ctx, ports.ErrNotConfigured)
		return
	}

	result, err := h.Proxy.Complete(c, ports.CompletionRequest{
		Model:       body.Model,
		MaxTokens:   body.MaxTokens,
		Temperature: body.Temperature,
		System:      body.System,
		Messages:    body.Messages,
	})
	if err != nil {
		writeError(ctx, ports.ErrUpstreamUnreachable)
		return
	}

	writeCompletion(ctx, result.Status, result.Body, result.Raw)
}

func (h Handler) replay(c context.Context, ctx *app.RequestContext) {
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	resp, err := h.ReplayUC.Execute(c, replay.Request{
		UserID: string(ctx.Query("user_id")),
		Limit:  limit,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

// writeCompletion relays an upstream completion outcome. The raw bytes are
// echoed so the client sees exactly what the completion API produced; a
// body that did not parse as JSON is reported as a gateway failure instead
// of being forwarded.
func writeCompletion(ctx *app.RequestContext, status int, payload any, raw []byte) {
	if _, notJSON := payload.(string); notJSON || payload == nil {
		writeErrorBody(ctx, consts.StatusInternalServerError, "upstream_parse_error", "failed to parse completion response")
		return
	}
	ctx.Data(status, "application/json; charset=utf-8", raw)
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, chat.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_messages", err.Error())
	case errors.Is(err, replay.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotConfigured):
		writeErrorBody(ctx, consts.StatusInternalServerError, "not_configured", "completion api key not configured")
	case errors.Is(err, ports.ErrUpstreamUnreachable):
		writeErrorBody(ctx, consts.StatusBadGateway, "upstream_unreachable", "completion api unreachable")
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
