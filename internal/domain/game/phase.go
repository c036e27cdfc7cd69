package game

// Phase labels used as memory-store metadata.
const (
	PhaseEarly    = "early-game"
	PhaseSettling = "settling-phase"
	PhaseGrowth   = "growth-phase"
	PhaseMid      = "mid-game"
	PhaseLate     = "late-game"
)

// Phase classifies an account snapshot into a coarse progression label.
// Rules are evaluated in order; the first match wins.
func Phase(s *State) string {
	villages := s.VillageCount()
	switch {
	case villages == 1 && s.TotalPopulation() < 500:
		return PhaseEarly
	case villages < 3:
		return PhaseSettling
	case villages < 10:
		return PhaseGrowth
	case villages < 20:
		return PhaseMid
	default:
		return PhaseLate
	}
}
