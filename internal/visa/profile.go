// Package visa holds the decision engine: eligibility gates, profile
// strength, rejection reasons, probability adjustment, status fusion and
// alternate destination ranking.
package visa

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type Education string

const (
	EducationHighSchool Education = "HighSchool"
	EducationBachelors  Education = "Bachelors"
	EducationMasters    Education = "Masters"
)

type Employment string

const (
	EmploymentUnemployed Employment = "Unemployed"
	EmploymentEmployed   Employment = "Employed"
)

type EnglishLevel string

const (
	EnglishLow    EnglishLevel = "Low"
	EnglishMedium EnglishLevel = "Medium"
	EnglishHigh   EnglishLevel = "High"
)

type TravelPurpose string

const (
	PurposeStudy    TravelPurpose = "Study"
	PurposeWork     TravelPurpose = "Work"
	PurposeTourist  TravelPurpose = "Tourist"
	PurposeBusiness TravelPurpose = "Business"
)

// Educations, Employments and EnglishLevels list the closed enumerations in
// ordinal order.
var (
	Educations    = []Education{EducationHighSchool, EducationBachelors, EducationMasters}
	Employments   = []Employment{EmploymentUnemployed, EmploymentEmployed}
	EnglishLevels = []EnglishLevel{EnglishLow, EnglishMedium, EnglishHigh}
	Purposes      = []TravelPurpose{PurposeStudy, PurposeWork, PurposeTourist, PurposeBusiness}
)

// Flag is a boolean that also accepts 0 and 1 on the wire.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true", "1":
		*f = true
	case "false", "0":
		*f = false
	default:
		return fmt.Errorf("criminal_record must be true, false, 0 or 1, got %s", data)
	}
	return nil
}

func (f Flag) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(f))
}

// Int returns 1 for true, 0 for false.
func (f Flag) Int() int {
	if f {
		return 1
	}
	return 0
}

// Profile is one applicant. It is treated as immutable by the engine.
type Profile struct {
	Age                int           `json:"age"`
	HomeCountry        string        `json:"home_country"`
	DestinationCountry string        `json:"destination_country"`
	Education          Education     `json:"education"`
	Employment         Employment    `json:"employment"`
	MonthlyIncome      int           `json:"monthly_income"`
	TravelPurpose      TravelPurpose `json:"travel_purpose"`
	TravelHistory      int           `json:"travel_history"`
	CriminalRecord     Flag          `json:"criminal_record"`
	EnglishLevel       EnglishLevel  `json:"english_level"`
}

type Status string

const (
	StatusLow    Status = "Low"
	StatusMedium Status = "Medium"
	StatusHigh   Status = "High"
)

// Suggestion is an easier destination with its re-estimated probability (0-100).
type Suggestion struct {
	Country              string  `json:"country"`
	EstimatedProbability float64 `json:"estimated_probability"`
}

// Result is the decision bundle returned for one profile.
type Result struct {
	VisaApproved                bool         `json:"visa_approved"`
	ApprovalProbability         float64      `json:"approval_probability"`
	Status                      Status       `json:"status"`
	ProfileStrengthScore        int          `json:"profile_strength_score"`
	RejectionReasons            []string     `json:"rejection_reasons"`
	AlternateCountrySuggestions []Suggestion `json:"alternate_country_suggestions"`
}
