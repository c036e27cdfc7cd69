package ports

import (
	"context"

	"villagesage/internal/domain/advisor"
	"villagesage/internal/domain/game"
)

// MemoryStore is the client contract toward the long-term memory service.
// Both operations are strictly best-effort: retrieval degrades to an empty
// slice and storage swallows every failure, because memory is a latency-
// adding enhancement, never a correctness requirement.
type MemoryStore interface {
	// Enabled reports whether a store credential is configured.
	Enabled() bool

	// Search returns memories relevant to the user, optionally narrowed by
	// query text. Empty on any failure, missing credential, or empty userID;
	// it never fails its caller.
	Search(ctx context.Context, userID, query string) []advisor.Memory

	// Store persists a conversational turn with metadata derived from the
	// game snapshot. Failures are logged internally and never propagated.
	Store(ctx context.Context, userID string, turn []advisor.Message, state *game.State)
}
