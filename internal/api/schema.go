package api

import (
	stderrors "errors"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"visa-predictor/internal/visa"
)

// PredictRequestSchema is the JSON schema of a POST /predict body. The
// destination enum follows the difficulty table.
func PredictRequestSchema(table *visa.DifficultyTable) map[string]interface{} {
	if table == nil {
		table = visa.DefaultDifficultyTable()
	}

	count := map[string]interface{}{"type": "integer", "minimum": 0}
	category := map[string]interface{}{"type": "string", "minLength": 1}

	return map[string]interface{}{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type":    "object",
		"required": []interface{}{
			"age", "home_country", "destination_country", "education", "employment",
			"monthly_income", "travel_purpose", "travel_history", "criminal_record", "english_level",
		},
		"properties": map[string]interface{}{
			"age":                 count,
			"home_country":        category,
			"destination_country": enumSchema(table.Countries()),
			"education":           enumSchema(stringsOf(visa.Educations)),
			"employment":          enumSchema(stringsOf(visa.Employments)),
			"monthly_income":      count,
			"travel_purpose":      category,
			"travel_history":      count,
			"criminal_record": map[string]interface{}{
				"anyOf": []interface{}{
					map[string]interface{}{"type": "boolean"},
					map[string]interface{}{"type": "integer", "enum": []interface{}{0, 1}},
				},
			},
			"english_level": enumSchema(stringsOf(visa.EnglishLevels)),
		},
	}
}

// PredictResponseSchema describes the decision result.
func PredictResponseSchema() map[string]interface{} {
	percent := map[string]interface{}{"type": "number", "minimum": 0, "maximum": 100}

	return map[string]interface{}{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type":    "object",
		"required": []interface{}{
			"visa_approved", "approval_probability", "status", "profile_strength_score",
			"rejection_reasons", "alternate_country_suggestions",
		},
		"properties": map[string]interface{}{
			"decisionId":             map[string]interface{}{"type": "string"},
			"visa_approved":          map[string]interface{}{"type": "boolean"},
			"approval_probability":   percent,
			"status":                 enumSchema([]string{string(visa.StatusLow), string(visa.StatusMedium), string(visa.StatusHigh)}),
			"profile_strength_score": map[string]interface{}{"type": "integer", "minimum": 0, "maximum": 100},
			"rejection_reasons": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string"},
			},
			"alternate_country_suggestions": map[string]interface{}{
				"type":     "array",
				"maxItems": visa.MaxSuggestions,
				"items": map[string]interface{}{
					"type":     "object",
					"required": []interface{}{"country", "estimated_probability"},
					"properties": map[string]interface{}{
						"country":               map[string]interface{}{"type": "string"},
						"estimated_probability": percent,
					},
				},
			},
		},
	}
}

// SchemaValidator checks request bodies against a compiled schema.
type SchemaValidator struct {
	schema *gojsonschema.Schema
}

func NewSchemaValidator(doc map[string]interface{}) (*SchemaValidator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &SchemaValidator{schema: schema}, nil
}

// Validate returns one message per violation. body must be valid JSON.
func (v *SchemaValidator) Validate(body []byte) ([]string, error) {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, err
	}
	if result.Valid() {
		return nil, nil
	}

	details := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		details = append(details, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
	}
	return details, nil
}

func enumSchema(values []string) map[string]interface{} {
	enum := make([]interface{}, len(values))
	for i, v := range values {
		enum[i] = v
	}
	return map[string]interface{}{"type": "string", "enum": enum}
}

func stringsOf[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

var errInvalidJSON = stderrors.New("request body is not valid JSON")
