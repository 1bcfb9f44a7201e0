package visa

// factorBand multiplies by Factor when the coefficient is at least Min.
type factorBand struct {
	Min    float64
	Factor float64
}

var difficultyDampening = []factorBand{
	{Min: 0.85, Factor: 0.82},
	{Min: 0.75, Factor: 0.90},
}

const (
	defaultDampening      = 0.97
	criminalRecordPenalty = 0.40
)

func dampeningFor(difficulty float64) float64 {
	for _, b := range difficultyDampening {
		if difficulty >= b.Min {
			return b.Factor
		}
	}
	return defaultDampening
}

// AdjustProbability applies destination dampening and the criminal record
// penalty to a raw model probability. Input and output are in [0,1].
func AdjustProbability(raw, difficulty float64, criminal bool) float64 {
	p := clamp01(clamp01(raw) * dampeningFor(difficulty))
	if criminal {
		p = clamp01(p * criminalRecordPenalty)
	}
	return p
}
