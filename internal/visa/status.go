package visa

const (
	ruleHighStrength   = 75
	ruleMediumStrength = 45

	modelHighProbability   = 0.75
	modelMediumProbability = 0.50
)

// RuleStatus buckets a profile strength score.
func RuleStatus(strength int) Status {
	switch {
	case strength >= ruleHighStrength:
		return StatusHigh
	case strength >= ruleMediumStrength:
		return StatusMedium
	default:
		return StatusLow
	}
}

// ModelStatus buckets an adjusted probability in [0,1]. Thresholds are strict.
func ModelStatus(p float64) Status {
	switch {
	case p > modelHighProbability:
		return StatusHigh
	case p > modelMediumProbability:
		return StatusMedium
	default:
		return StatusLow
	}
}

type fusionRule struct {
	matches func(rule, model Status) bool
	status  Status
}

func atLeastMedium(s Status) bool {
	return s == StatusHigh || s == StatusMedium
}

// fusionRules is a decision list; the first matching rule decides.
var fusionRules = []fusionRule{
	{func(r, m Status) bool { return r == StatusHigh && m == StatusHigh }, StatusHigh},
	{func(r, m Status) bool { return atLeastMedium(r) && atLeastMedium(m) }, StatusMedium},
}

// FuseStatus combines the rule and model views. Both must agree for High.
func FuseStatus(rule, model Status) Status {
	for _, f := range fusionRules {
		if f.matches(rule, model) {
			return f.status
		}
	}
	return StatusLow
}
