package chat

import (
	"villagesage/internal/domain/advisor"
	"villagesage/internal/domain/game"
)

type Request struct {
	UserID      string
	GameState   *game.State
	Messages    []advisor.Message
	Message     string
	Model       string
	MaxTokens   int
	Temperature float64
	System      string
}

// Response mirrors the completion API outcome. Status may be non-2xx; the
// adapter passes the upstream status and payload through unchanged.
type Response struct {
	Status  int
	Payload any
	Raw     []byte

	// Background schedules the detached turn storage. Nil when there is
	// nothing to store. The adapter invokes it after the response has been
	// written so that storage never delays the caller.
	Background func()
}
