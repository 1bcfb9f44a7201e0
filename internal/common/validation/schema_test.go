package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func testSchema() JSONSchema {
	return JSONSchema{
		Type:     "object",
		Required: []string{"age", "destination_country"},
		Properties: map[string]Property{
			"age":                 {Type: "integer", Minimum: floatPtr(0)},
			"destination_country": {Type: "string", Enum: []string{"USA", "Germany"}},
			"home_country":        {Type: "string", MinLength: intPtr(1)},
			"criminal_record":     {Type: "boolean|integer", Minimum: floatPtr(0), Maximum: floatPtr(1)},
		},
	}
}

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name      string
		input     map[string]interface{}
		wantValid bool
		wantField string
		wantCode  string
	}{
		{
			name:      "valid",
			input:     map[string]interface{}{"age": float64(30), "destination_country": "USA"},
			wantValid: true,
		},
		{
			name:      "missing required",
			input:     map[string]interface{}{"age": float64(30)},
			wantField: "destination_country",
			wantCode:  "REQUIRED_FIELD_MISSING",
		},
		{
			name:      "null counts as missing",
			input:     map[string]interface{}{"age": nil, "destination_country": "USA"},
			wantField: "age",
			wantCode:  "REQUIRED_FIELD_MISSING",
		},
		{
			name:      "fractional integer",
			input:     map[string]interface{}{"age": 30.5, "destination_country": "USA"},
			wantField: "age",
			wantCode:  "INVALID_TYPE",
		},
		{
			name:      "below minimum",
			input:     map[string]interface{}{"age": float64(-1), "destination_country": "USA"},
			wantField: "age",
			wantCode:  "MINIMUM_VIOLATION",
		},
		{
			name:      "enum",
			input:     map[string]interface{}{"age": float64(30), "destination_country": "Mars"},
			wantField: "destination_country",
			wantCode:  "INVALID_ENUM_VALUE",
		},
		{
			name:      "min length",
			input:     map[string]interface{}{"age": float64(30), "destination_country": "USA", "home_country": ""},
			wantField: "home_country",
			wantCode:  "MIN_LENGTH_VIOLATION",
		},
		{
			name:      "union accepts boolean",
			input:     map[string]interface{}{"age": float64(30), "destination_country": "USA", "criminal_record": true},
			wantValid: true,
		},
		{
			name:      "union range",
			input:     map[string]interface{}{"age": float64(30), "destination_country": "USA", "criminal_record": float64(2)},
			wantField: "criminal_record",
			wantCode:  "MAXIMUM_VIOLATION",
		},
		{
			name:      "union rejects string",
			input:     map[string]interface{}{"age": float64(30), "destination_country": "USA", "criminal_record": "yes"},
			wantField: "criminal_record",
			wantCode:  "INVALID_TYPE",
		},
		{
			name:      "extra field",
			input:     map[string]interface{}{"age": float64(30), "destination_country": "USA", "nickname": "x"},
			wantField: "nickname",
			wantCode:  "EXTRA_FIELD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateInput(tt.input, testSchema())
			assert.Equal(t, tt.wantValid, res.Valid, "%v", res.GetErrorMessages())
			if tt.wantValid {
				return
			}
			require.NotEmpty(t, res.Errors)
			assert.Equal(t, tt.wantField, res.Errors[0].Field)
			assert.Equal(t, tt.wantCode, res.Errors[0].Code)
			assert.True(t, res.HasErrors(tt.wantField))
		})
	}
}

func TestValidateInput_JSONNumber(t *testing.T) {
	res := ValidateInput(map[string]interface{}{
		"age":                 json.Number("41"),
		"destination_country": "Germany",
	}, testSchema())
	assert.True(t, res.Valid)
}

func TestValidateInput_AdditionalPropertiesAllowed(t *testing.T) {
	schema := testSchema()
	schema.AdditionalProperties = true
	res := ValidateInput(map[string]interface{}{
		"age": float64(30), "destination_country": "USA", "applicationId": "APP-1",
	}, schema)
	assert.True(t, res.Valid)
}

func TestValidateTaskType(t *testing.T) {
	assert.NoError(t, ValidateTaskType("predict-visa-approval"))
	assert.Error(t, ValidateTaskType("Predict_Visa"))
	assert.Error(t, ValidateTaskType(""))
}

func TestGetSchemaFromJSON(t *testing.T) {
	schema, err := GetSchemaFromJSON(`{"type":"object","required":["age"],"properties":{"age":{"type":"integer","minimum":0}}}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"age"}, schema.Required)
	require.NotNil(t, schema.Properties["age"].Minimum)
	assert.Equal(t, 0.0, *schema.Properties["age"].Minimum)
}
