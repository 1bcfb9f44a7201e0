package predictvisaapproval

import (
	"visa-predictor/internal/common/validation"
	"visa-predictor/internal/visa"
)

// ProfileFields are the process variables read by the worker.
var ProfileFields = []string{
	"age",
	"home_country",
	"destination_country",
	"education",
	"employment",
	"monthly_income",
	"travel_purpose",
	"travel_history",
	"criminal_record",
	"english_level",
}

// GetInputSchema describes the profile variables. Other process variables are
// tolerated since Zeebe hands the worker the whole scope.
func GetInputSchema(table *visa.DifficultyTable) validation.JSONSchema {
	if table == nil {
		table = visa.DefaultDifficultyTable()
	}

	return validation.JSONSchema{
		Type:     "object",
		Required: ProfileFields,
		Properties: map[string]validation.Property{
			"age": {
				Type:        "integer",
				Description: "Applicant age in years",
				Minimum:     floatPtr(0),
			},
			"home_country": {
				Type:        "string",
				Description: "Country the applicant applies from",
				MinLength:   intPtr(1),
			},
			"destination_country": {
				Type:        "string",
				Description: "Country the visa is requested for",
				Enum:        table.Countries(),
			},
			"education": {
				Type:        "string",
				Description: "Highest education level",
				Enum:        enumOf(visa.Educations),
			},
			"employment": {
				Type:        "string",
				Description: "Employment status",
				Enum:        enumOf(visa.Employments),
			},
			"monthly_income": {
				Type:        "integer",
				Description: "Monthly income",
				Minimum:     floatPtr(0),
			},
			"travel_purpose": {
				Type:        "string",
				Description: "Purpose of travel",
				MinLength:   intPtr(1),
			},
			"travel_history": {
				Type:        "integer",
				Description: "Number of previous international trips",
				Minimum:     floatPtr(0),
			},
			"criminal_record": {
				Type:        "boolean|integer",
				Description: "Whether the applicant has a criminal record (true/false or 1/0)",
				Minimum:     floatPtr(0),
				Maximum:     floatPtr(1),
			},
			"english_level": {
				Type:        "string",
				Description: "Self-reported English level",
				Enum:        enumOf(visa.EnglishLevels),
			},
		},
		AdditionalProperties: true,
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"decisionId", "visa_approved", "approval_probability", "status"},
		Properties: map[string]validation.Property{
			"decisionId": {
				Type:        "string",
				Description: "Identifier of this decision",
			},
			"visa_approved": {
				Type:        "boolean",
				Description: "Classifier verdict, false when an eligibility gate applied",
			},
			"approval_probability": {
				Type:        "number",
				Description: "Adjusted approval probability (0-100)",
				Minimum:     floatPtr(0),
				Maximum:     floatPtr(100),
			},
			"status": {
				Type:        "string",
				Description: "Fused approval status",
				Enum:        []string{string(visa.StatusLow), string(visa.StatusMedium), string(visa.StatusHigh)},
			},
			"profile_strength_score": {
				Type:        "integer",
				Description: "Rule-based profile strength (0-100)",
				Minimum:     floatPtr(0),
				Maximum:     floatPtr(100),
			},
			"rejection_reasons": {
				Type:        "array",
				Description: "Human-readable weaknesses",
			},
			"alternate_country_suggestions": {
				Type:        "array",
				Description: "Up to two easier destinations",
			},
		},
		AdditionalProperties: false,
	}
}

func enumOf[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func intPtr(i int) *int {
	return &i
}

func floatPtr(f float64) *float64 {
	return &f
}
