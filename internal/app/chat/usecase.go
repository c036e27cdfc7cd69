package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"villagesage/internal/app/ports"
	"villagesage/internal/domain/advisor"
	"villagesage/internal/domain/game"

	"github.com/google/uuid"
)

var ErrInvalidRequest = errors.New("invalid chat request")

// DefaultMaxTokens is the advisor-flow token budget, higher than the plain
// proxy default because advisory answers carry build orders and reasoning.
const DefaultMaxTokens = 2000

// UseCase coordinates one chat turn: validate, retrieve memories while the
// outbound messages are prepared, call the completion API, and hand back a
// detached storage step for the new turn.
type UseCase struct {
	Completion ports.CompletionClient
	Memory     ports.MemoryStore
	Turns      ports.TurnLogRepository
	Metrics    ports.ChatMetrics
	Detach     ports.Detacher
	Now        func() time.Time
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	messages, userMessage, err := normalizeConversation(req)
	if err != nil {
		return Response{}, err
	}
	if u.Completion == nil || !u.Completion.Configured() {
		return Response{}, ports.ErrNotConfigured
	}

	requestID := uuid.New().String()

	// Memory retrieval runs while the outbound conversation is prepared;
	// both must be done before the completion call, which needs the
	// composed prompt.
	var memories []advisor.Memory
	augmented := u.Memory != nil && u.Memory.Enabled() && strings.TrimSpace(req.UserID) != ""
	if augmented {
		found := make(chan []advisor.Memory, 1)
		go func() { found <- u.Memory.Search(ctx, req.UserID, userMessage) }()
		messages = withGameContext(messages, req.GameState)
		memories = <-found
		if u.Metrics != nil {
			u.Metrics.RecordMemorySearch(len(memories))
		}
	} else {
		messages = withGameContext(messages, req.GameState)
	}

	system := req.System
	if system == "" {
		system = advisor.BuildSystemPrompt(memories, req.GameState)
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	result, err := u.Completion.Complete(ctx, ports.CompletionRequest{
		Model:       req.Model,
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
		System:      system,
		Messages:    messages,
	})
	if err != nil {
		if u.Metrics != nil {
			u.Metrics.RecordTransportFailure()
		}
		return Response{}, fmt.Errorf("%w: %v", ports.ErrUpstreamUnreachable, err)
	}
	if u.Metrics != nil {
		u.Metrics.RecordCompletion(result.Status)
	}

	resp := Response{Status: result.Status, Payload: result.Body, Raw: result.Raw}
	if !result.OK() || !augmented {
		return resp, nil
	}

	assistant := result.ReplyText()
	if assistant == "" {
		return resp, nil
	}

	userID := req.UserID
	state := req.GameState
	occurredAt := u.now()
	turn := []advisor.Message{
		{Role: advisor.RoleUser, Content: userMessage},
		{Role: advisor.RoleAssistant, Content: assistant},
	}
	resp.Background = func() {
		u.detach("store-turn", func(bctx context.Context) {
			u.Memory.Store(bctx, userID, turn, state)
			u.appendTurnLog(bctx, requestID, userID, userMessage, assistant, state, occurredAt)
			if u.Metrics != nil {
				u.Metrics.RecordBackgroundStore()
			}
		})
	}
	return resp, nil
}

func (u UseCase) appendTurnLog(ctx context.Context, requestID, userID, userText, assistantText string, state *game.State, occurredAt time.Time) {
	if u.Turns == nil {
		return
	}
	rec := ports.TurnRecord{
		RequestID:     requestID,
		UserID:        userID,
		UserText:      userText,
		AssistantText: assistantText,
		OccurredAt:    occurredAt,
	}
	if state != nil {
		rec.GamePhase = game.Phase(state)
		rec.Villages = state.VillageCount()
		rec.Population = state.TotalPopulation()
	}
	if err := u.Turns.Append(ctx, rec); err != nil {
		log.Printf("[CHAT] turn log append failed for user %s: %v", userID, err)
	}
}

func (u UseCase) detach(name string, fn func(ctx context.Context)) {
	if u.Detach != nil {
		u.Detach.Go(name, fn)
		return
	}
	fn(context.Background())
}

func (u UseCase) now() time.Time {
	if u.Now != nil {
		return u.Now()
	}
	return time.Now()
}

// normalizeConversation accepts either a messages sequence or a single
// message string and extracts the most recent user-authored content.
func normalizeConversation(req Request) ([]advisor.Message, string, error) {
	messages := req.Messages
	if len(messages) == 0 {
		if strings.TrimSpace(req.Message) == "" {
			return nil, "", ErrInvalidRequest
		}
		messages = []advisor.Message{{Role: advisor.RoleUser, Content: req.Message}}
	}
	userMessage := advisor.LastUserContent(messages)
	if userMessage == "" {
		return nil, "", ErrInvalidRequest
	}
	return messages, userMessage, nil
}

// withGameContext rewrites the most recent user message with the bracketed
// game summary. The input slice is never mutated.
func withGameContext(messages []advisor.Message, state *game.State) []advisor.Message {
	if state == nil {
		return messages
	}
	out := make([]advisor.Message, len(messages))
	copy(out, messages)
	for i := len(out) - 1; i >= 0; i-- {
		if out[i].Role == advisor.RoleUser {
			out[i].Content = advisor.BuildContextualMessage(out[i].Content, state)
			break
		}
	}
	return out
}
