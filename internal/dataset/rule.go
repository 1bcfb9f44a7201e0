// Package dataset generates the synthetic training set. Its rule table is
// deliberately separate from the serving engine in internal/visa: the two
// disagree on difficulty coefficients and scoring scale.
package dataset

import "fmt"

var (
	HomeCountries = []string{"India", "Brazil", "Nigeria", "Philippines", "Mexico"}
	Destinations  = []string{"USA", "Canada", "Germany", "UK", "Australia"}
	Educations    = []string{"HighSchool", "Bachelors", "Masters"}
	Employments   = []string{"Unemployed", "Employed"}
	Purposes      = []string{"Study", "Work", "Tourist", "Business"}
	EnglishLevels = []string{"Low", "Medium", "High"}
)

var difficulty = map[string]float64{
	"USA":       0.85,
	"Australia": 0.80,
	"UK":        0.70,
	"Canada":    0.65,
	"Germany":   0.60,
}

const baseThreshold = 7

// Row is one labelled applicant. Categorical columns are kept as strings.
type Row struct {
	Age                int
	HomeCountry        string
	DestinationCountry string
	Education          string
	Employment         string
	MonthlyIncome      int
	TravelPurpose      string
	TravelHistory      int
	CriminalRecord     int
	EnglishLevel       string
	VisaApproved       int
}

// Difficulty returns the generator coefficient for a destination.
func Difficulty(destination string) (float64, bool) {
	d, ok := difficulty[destination]
	return d, ok
}

// Score is the additive ground-truth score of a row.
func Score(r Row) int {
	score := 0

	switch {
	case r.MonthlyIncome >= 50000:
		score += 3
	case r.MonthlyIncome >= 30000:
		score += 2
	case r.MonthlyIncome >= 15000:
		score += 1
	}

	switch r.Education {
	case "Masters":
		score += 3
	case "Bachelors":
		score += 2
	default:
		score += 1
	}

	if r.Employment == "Employed" {
		score += 2
	}

	score += r.TravelHistory

	switch r.EnglishLevel {
	case "High":
		score += 2
	case "Medium":
		score += 1
	}

	if r.CriminalRecord == 1 {
		score -= 5
	}
	return score
}

// Threshold is the minimum score for approval at a destination.
func Threshold(destination string) (int, error) {
	d, ok := difficulty[destination]
	if !ok {
		return 0, fmt.Errorf("unknown destination %q", destination)
	}
	return baseThreshold + int(d*3), nil
}

// Label applies the ground-truth rule: 1 when the score reaches the threshold.
func Label(r Row) (int, error) {
	threshold, err := Threshold(r.DestinationCountry)
	if err != nil {
		return 0, err
	}
	if Score(r) >= threshold {
		return 1, nil
	}
	return 0, nil
}
