package replay

import "villagesage/internal/app/ports"

type Request struct {
	UserID string
	Limit  int
}

type Response struct {
	Turns       []ports.TurnRecord `json:"turns"`
	LatestPhase string             `json:"latest_phase,omitempty"`
}
