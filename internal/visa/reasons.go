package visa

const (
	ReasonLowIncome      = "Low monthly income compared to destination requirements."
	ReasonLowEducation   = "Lower education level reduces visa strength."
	ReasonUnemployed     = "Unemployed applicants are considered high risk."
	ReasonNoTravel       = "No international travel history."
	ReasonLowEnglish     = "Low English proficiency affects visa credibility."
	ReasonCriminalRecord = "Criminal record significantly reduces approval chances."
)

const reasonIncomeFloor = 20000

type reasonRule struct {
	applies func(Profile) bool
	reason  string
}

// reasonRules are evaluated in order; every matching rule contributes.
var reasonRules = []reasonRule{
	{func(p Profile) bool { return p.MonthlyIncome < reasonIncomeFloor }, ReasonLowIncome},
	{func(p Profile) bool { return p.Education == EducationHighSchool }, ReasonLowEducation},
	{func(p Profile) bool { return p.Employment == EmploymentUnemployed }, ReasonUnemployed},
	{func(p Profile) bool { return p.TravelHistory == 0 }, ReasonNoTravel},
	{func(p Profile) bool { return p.EnglishLevel == EnglishLow }, ReasonLowEnglish},
	{func(p Profile) bool { return bool(p.CriminalRecord) }, ReasonCriminalRecord},
}

// RejectionReasons lists the weaknesses of a profile. The result is never nil.
func RejectionReasons(p Profile) []string {
	reasons := make([]string, 0, len(reasonRules))
	for _, r := range reasonRules {
		if r.applies(p) {
			reasons = append(reasons, r.reason)
		}
	}
	return reasons
}
