package game

// State is a read-only snapshot of the player's account as supplied by the
// game client alongside a chat turn. It lives for the duration of one
// request and is never persisted by the gateway itself.
type State struct {
	Villages      []Village      `json:"villages"`
	Population    int            `json:"population"`
	ServerSpeed   int            `json:"serverSpeed,omitempty"`
	Resources     *Resources     `json:"resources,omitempty"`
	Production    *Resources     `json:"production,omitempty"`
	CulturePoints *CulturePoints `json:"culturePoints,omitempty"`
	Hero          *Hero          `json:"heroData,omitempty"`
}

// Village records are opaque beyond the fields below; only the count of
// villages carries gameplay meaning for the gateway.
type Village struct {
	Name       string `json:"name,omitempty"`
	Population int    `json:"population,omitempty"`
}

// Resources holds the four stockpile values. The same shape doubles as
// per-hour production rates.
type Resources struct {
	Wood int `json:"wood"`
	Clay int `json:"clay"`
	Iron int `json:"iron"`
	Crop int `json:"crop"`
}

type CulturePoints struct {
	Current        int     `json:"current"`
	Needed         int     `json:"needed"`
	HoursRemaining float64 `json:"hoursRemaining,omitempty"`
}

type Hero struct {
	Level              int `json:"level"`
	Health             int `json:"health,omitempty"`
	Attack             int `json:"attack,omitempty"`
	Defense            int `json:"defense,omitempty"`
	ResourceProduction int `json:"resourceProduction,omitempty"`
}

// VillageCount tolerates a nil snapshot.
func (s *State) VillageCount() int {
	if s == nil {
		return 0
	}
	return len(s.Villages)
}

// TotalPopulation tolerates a nil snapshot.
func (s *State) TotalPopulation() int {
	if s == nil {
		return 0
	}
	return s.Population
}
