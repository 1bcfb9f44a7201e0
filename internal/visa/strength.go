package visa

import "math"

// floorBand awards Points when the value is at least Min. Tables are ordered
// highest Min first and the first match wins.
type floorBand struct {
	Min    int
	Points int
}

var incomeStrengthBands = []floorBand{
	{Min: 80000, Points: 30},
	{Min: 50000, Points: 25},
	{Min: 30000, Points: 18},
	{Min: 15000, Points: 10},
}

var educationPoints = map[Education]int{
	EducationMasters:   20,
	EducationBachelors: 15,
}

var englishPoints = map[EnglishLevel]int{
	EnglishHigh:   10,
	EnglishMedium: 5,
}

const (
	otherEducationPoints = 5
	employedPoints       = 15
	pointsPerTrip        = 5
	criminalPenalty      = 40
	maxStrength          = 100

	// saturatingTrips is enough travel to reach maxStrength from zero even
	// after the criminal penalty. Larger counts score the same.
	saturatingTrips = (maxStrength+criminalPenalty)/pointsPerTrip + 1
)

func bandPoints(value int, bands []floorBand) int {
	for _, b := range bands {
		if value >= b.Min {
			return b.Points
		}
	}
	return 0
}

// ProfileStrength scores an applicant in [0,100]. Unknown education values
// earn the lowest tier; unknown English levels earn nothing.
func ProfileStrength(p Profile) int {
	score := bandPoints(p.MonthlyIncome, incomeStrengthBands)

	if pts, ok := educationPoints[p.Education]; ok {
		score += pts
	} else {
		score += otherEducationPoints
	}

	if p.Employment == EmploymentEmployed {
		score += employedPoints
	}

	trips := p.TravelHistory
	if trips > saturatingTrips {
		trips = saturatingTrips
	}
	score += pointsPerTrip * trips
	score += englishPoints[p.EnglishLevel]

	if p.CriminalRecord {
		score -= criminalPenalty
	}

	return clampInt(score, 0, maxStrength)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(p float64) float64 {
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// percent presents a probability as a percentage rounded to 2 decimals.
func percent(p float64) float64 {
	return math.Round(p*100*100) / 100
}
