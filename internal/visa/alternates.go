package visa

import "sort"

// MaxSuggestions caps the alternate destinations returned.
const MaxSuggestions = 2

// easingBand applies Factor to destinations whose coefficient is at most Max.
// Ordered lowest Max first.
type easingBand struct {
	Max    float64
	Factor float64
}

var easingBands = []easingBand{
	{Max: 0.60, Factor: 1.15},
	{Max: 0.65, Factor: 1.10},
	{Max: 0.75, Factor: 1.05},
}

func easingFor(difficulty float64) float64 {
	for _, b := range easingBands {
		if difficulty <= b.Max {
			return b.Factor
		}
	}
	return 1.0
}

// SuggestAlternates ranks destinations strictly easier than chosen by their
// eased probability, as presented (percent, 2 decimals). Ties keep table
// order. adjusted is in [0,1].
func SuggestAlternates(table *DifficultyTable, chosen, adjusted float64) []Suggestion {
	out := make([]Suggestion, 0, len(table.Destinations()))
	for _, d := range table.Destinations() {
		if d.Difficulty >= chosen {
			continue
		}
		out = append(out, Suggestion{
			Country:              d.Country,
			EstimatedProbability: percent(clamp01(adjusted * easingFor(d.Difficulty))),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EstimatedProbability > out[j].EstimatedProbability
	})

	if len(out) > MaxSuggestions {
		out = out[:MaxSuggestions]
	}
	return out
}
