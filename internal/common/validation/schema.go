package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

type JSONSchema struct {
	Type                 string              `json:"type"`
	Properties           map[string]Property `json:"properties"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties bool                `json:"additionalProperties,omitempty"`
}

// Property describes one field. Type may be a union such as "boolean|integer".
type Property struct {
	Type        string      `json:"type"`
	Description string      `json:"description,omitempty"`
	Default     interface{} `json:"default,omitempty"`
	Minimum     *float64    `json:"minimum,omitempty"`
	Maximum     *float64    `json:"maximum,omitempty"`
	Enum        []string    `json:"enum,omitempty"`
	Pattern     *string     `json:"pattern,omitempty"`
	MinLength   *int        `json:"minLength,omitempty"`
	MaxLength   *int        `json:"maxLength,omitempty"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type collector []ValidationError

func (c *collector) add(field, code, format string, args ...interface{}) {
	*c = append(*c, ValidationError{Field: field, Message: fmt.Sprintf(format, args...), Code: code})
}

// ValidateInput checks input against schema. Errors are reported in field
// order so callers get a stable message.
func ValidateInput(input map[string]interface{}, schema JSONSchema) *ValidationResult {
	var errs collector

	for _, name := range schema.Required {
		if v, ok := input[name]; !ok || v == nil {
			errs.add(name, "REQUIRED_FIELD_MISSING", "required field missing")
		}
	}

	names := make([]string, 0, len(input))
	for k := range input {
		names = append(names, k)
	}
	sort.Strings(names)

	for _, name := range names {
		prop, known := schema.Properties[name]
		switch {
		case !known && !schema.AdditionalProperties:
			errs.add(name, "EXTRA_FIELD", "field not allowed in schema")
		case known && input[name] != nil:
			checkField(&errs, name, input[name], prop)
		}
	}

	return &ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

func checkField(errs *collector, name string, value interface{}, prop Property) {
	if err := validateType(value, prop.Type); err != nil {
		errs.add(name, "INVALID_TYPE", "%s", err.Error())
		return
	}

	if str, ok := value.(string); ok {
		if prop.MinLength != nil && len(str) < *prop.MinLength {
			errs.add(name, "MIN_LENGTH_VIOLATION", "value must be at least %d characters", *prop.MinLength)
		}
		if prop.MaxLength != nil && len(str) > *prop.MaxLength {
			errs.add(name, "MAX_LENGTH_VIOLATION", "value must be at most %d characters", *prop.MaxLength)
		}
		if prop.Pattern != nil {
			if matched, err := regexp.MatchString(*prop.Pattern, str); err != nil || !matched {
				errs.add(name, "PATTERN_MISMATCH", "value must match pattern %s", *prop.Pattern)
			}
		}
		if len(prop.Enum) > 0 && !contains(prop.Enum, str) {
			errs.add(name, "INVALID_ENUM_VALUE", "value must be one of %v", prop.Enum)
		}
	}

	if num, ok := toFloat(value); ok {
		if prop.Minimum != nil && num < *prop.Minimum {
			errs.add(name, "MINIMUM_VIOLATION", "value must be >= %g", *prop.Minimum)
		}
		if prop.Maximum != nil && num > *prop.Maximum {
			errs.add(name, "MAXIMUM_VIOLATION", "value must be <= %g", *prop.Maximum)
		}
	}
}

func validateType(value interface{}, expectedType string) error {
	if strings.Contains(expectedType, "|") {
		for _, alt := range strings.Split(expectedType, "|") {
			if validateType(value, alt) == nil {
				return nil
			}
		}
		return fmt.Errorf("expected %s, got %T", strings.ReplaceAll(expectedType, "|", " or "), value)
	}

	switch expectedType {
	case "string":
		if _, ok := value.(string); !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
	case "number":
		if _, ok := toFloat(value); !ok {
			return fmt.Errorf("expected number, got %T", value)
		}
	case "integer":
		// JSON decoding yields float64; accept it when it has no fraction.
		f, ok := toFloat(value)
		if !ok || f != math.Trunc(f) {
			return fmt.Errorf("expected integer, got %v", value)
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("expected boolean, got %T", value)
		}
	case "object":
		if _, ok := value.(map[string]interface{}); !ok {
			return fmt.Errorf("expected object, got %T", value)
		}
	case "array":
		if _, ok := value.([]interface{}); !ok {
			return fmt.Errorf("expected array, got %T", value)
		}
	}
	return nil
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}

var taskTypePattern = regexp.MustCompile(`^[a-z]+(-[a-z]+)*$`)

// ValidateTaskType checks the kebab-case naming used for Zeebe task types.
func ValidateTaskType(taskType string) error {
	if !taskTypePattern.MatchString(taskType) {
		return fmt.Errorf("task type must be lower kebab-case (e.g., predict-visa-approval), got %q", taskType)
	}
	return nil
}

func GetSchemaFromJSON(schemaJSON string) (JSONSchema, error) {
	var schema JSONSchema
	err := json.Unmarshal([]byte(schemaJSON), &schema)
	return schema, err
}

func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}
