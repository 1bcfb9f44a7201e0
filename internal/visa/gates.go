package visa

const (
	ReasonUnderage           = "Applicant must be at least 18 years old."
	ReasonIncomeBelowMinimum = "Income too low for minimum visa requirements."

	MinimumAge    = 18
	MinimumIncome = 10000
)

// gate is a hard eligibility rule. When it matches, the decision is fixed
// and the classifier is never consulted.
type gate struct {
	name        string
	matches     func(Profile) bool
	probability float64
	strength    int
	reason      string
}

var gates = []gate{
	{
		name:        "underage",
		matches:     func(p Profile) bool { return p.Age < MinimumAge },
		probability: 0.0,
		strength:    0,
		reason:      ReasonUnderage,
	},
	{
		name:        "low_income",
		matches:     func(p Profile) bool { return p.MonthlyIncome < MinimumIncome },
		probability: 5.0,
		strength:    10,
		reason:      ReasonIncomeBelowMinimum,
	},
}

// CheckGates returns the fixed result of the first matching gate and its
// name, or nil when the applicant is eligible.
func CheckGates(p Profile) (*Result, string) {
	for _, g := range gates {
		if !g.matches(p) {
			continue
		}
		return &Result{
			VisaApproved:                false,
			ApprovalProbability:         g.probability,
			Status:                      StatusLow,
			ProfileStrengthScore:        g.strength,
			RejectionReasons:            []string{g.reason},
			AlternateCountrySuggestions: []Suggestion{},
		}, g.name
	}
	return nil, ""
}
