package memory

import (
	"context"
	"sync"

	"villagesage/internal/app/ports"
)

// TurnRepo is the in-process fallback turn log, used when no database DSN
// is configured. Contents are lost on restart.
type TurnRepo struct {
	mu    sync.RWMutex
	turns map[string][]ports.TurnRecord
}

func NewTurnRepo() *TurnRepo {
	return &TurnRepo{turns: make(map[string][]ports.TurnRecord)}
}

func (r *TurnRepo) Append(_ context.Context, rec ports.TurnRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.turns[rec.UserID] = append(r.turns[rec.UserID], rec)
	return nil
}

func (r *TurnRepo) ListRecent(_ context.Context, userID string, limit int) ([]ports.TurnRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	recs := r.turns[userID]
	if limit > 0 && len(recs) > limit {
		recs = recs[len(recs)-limit:]
	}
	out := make([]ports.TurnRecord, len(recs))
	copy(out, recs)
	return out, nil
}
