package visa

// Destination is one row of the difficulty table.
type Destination struct {
	Country    string
	Difficulty float64
}

// DifficultyTable maps destinations to a coefficient in [0,1]. It keeps
// insertion order, which is the tie-break order for alternate suggestions.
// A table is read-only once built.
type DifficultyTable struct {
	entries []Destination
	index   map[string]int
}

// NewDifficultyTable builds a table from rows in iteration order. A repeated
// country keeps its first position and takes the last coefficient.
func NewDifficultyTable(rows ...Destination) *DifficultyTable {
	t := &DifficultyTable{index: make(map[string]int, len(rows))}
	for _, r := range rows {
		if i, ok := t.index[r.Country]; ok {
			t.entries[i].Difficulty = r.Difficulty
			continue
		}
		t.index[r.Country] = len(t.entries)
		t.entries = append(t.entries, r)
	}
	return t
}

// DefaultDifficultyTable is the serving table.
func DefaultDifficultyTable() *DifficultyTable {
	return NewDifficultyTable(
		Destination{Country: "USA", Difficulty: 0.90},
		Destination{Country: "Australia", Difficulty: 0.85},
		Destination{Country: "UK", Difficulty: 0.75},
		Destination{Country: "Canada", Difficulty: 0.65},
		Destination{Country: "Germany", Difficulty: 0.60},
	)
}

func (t *DifficultyTable) Lookup(country string) (float64, bool) {
	i, ok := t.index[country]
	if !ok {
		return 0, false
	}
	return t.entries[i].Difficulty, true
}

func (t *DifficultyTable) Destinations() []Destination {
	out := make([]Destination, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t *DifficultyTable) Countries() []string {
	out := make([]string, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Country
	}
	return out
}
