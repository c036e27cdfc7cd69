package ports

import (
	"context"
	"time"
)

// TurnRecord is one stored conversational turn in the local turn log.
type TurnRecord struct {
	RequestID     string    `json:"request_id"`
	UserID        string    `json:"user_id"`
	UserText      string    `json:"user_text"`
	AssistantText string    `json:"assistant_text"`
	GamePhase     string    `json:"game_phase,omitempty"`
	Villages      int       `json:"villages"`
	Population    int       `json:"population"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// TurnLogRepository keeps a local, queryable trail of stored turns. It is
// an optional complement to the remote memory store; writes happen on the
// background path and follow the same best-effort policy.
type TurnLogRepository interface {
	Append(ctx context.Context, rec TurnRecord) error
	ListRecent(ctx context.Context, userID string, limit int) ([]TurnRecord, error)
}
