package replay

import (
	"context"
	"errors"
	"strings"

	"villagesage/internal/app/ports"
)

var ErrInvalidRequest = errors.New("invalid replay request")

const (
	defaultLimit = 50
	maxLimit     = 200
)

// UseCase reads back the recent advisory turns recorded for one player,
// most recent last, so a client can rebuild its conversation view after a
// reload.
type UseCase struct {
	Turns ports.TurnLogRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return Response{}, ErrInvalidRequest
	}
	if u.Turns == nil {
		return Response{}, ports.ErrNotFound
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	turns, err := u.Turns.ListRecent(ctx, req.UserID, limit)
	if err != nil {
		return Response{}, err
	}
	return Response{Turns: turns, LatestPhase: latestPhase(turns)}, nil
}

func latestPhase(turns []ports.TurnRecord) string {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].GamePhase != "" {
			return turns[i].GamePhase
		}
	}
	return ""
}
