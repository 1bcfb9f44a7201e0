// Package classifier is the boundary between the decision engine and the
// statistical model: label encoding, feature vectors, and the model
// implementations (remote sidecar, surrogate, fallback and Redis cache).
package classifier

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"visa-predictor/internal/common/errors"
	"visa-predictor/internal/common/logger"
	"visa-predictor/internal/common/metrics"
	"visa-predictor/internal/dataset"
)

const (
	FieldHomeCountry   = "home_country"
	FieldDestination   = "destination_country"
	FieldEducation     = "education"
	FieldEmployment    = "employment"
	FieldTravelPurpose = "travel_purpose"
	FieldEnglishLevel  = "english_level"
)

// CategoricalFields are the columns that go through the label encoder.
var CategoricalFields = []string{
	FieldHomeCountry,
	FieldDestination,
	FieldEducation,
	FieldEmployment,
	FieldTravelPurpose,
	FieldEnglishLevel,
}

// FallbackCode is the code assigned to values the table has never seen.
const FallbackCode = 0

// LabelEncoder maps categorical values to the integer codes the model was
// trained on. The table is immutable after construction.
type LabelEncoder struct {
	classes map[string][]string
	codes   map[string]map[string]int
	logger  logger.Logger
}

// NewLabelEncoder builds an encoder from per-field class lists. A class's
// code is its index in the list.
func NewLabelEncoder(classes map[string][]string, log logger.Logger) (*LabelEncoder, error) {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	e := &LabelEncoder{
		classes: make(map[string][]string, len(classes)),
		codes:   make(map[string]map[string]int, len(classes)),
		logger:  log.WithFields(map[string]interface{}{"component": "label-encoder"}),
	}

	for _, field := range CategoricalFields {
		values, ok := classes[field]
		if !ok || len(values) == 0 {
			return nil, fmt.Errorf("no classes for field %q", field)
		}
		index := make(map[string]int, len(values))
		for i, v := range values {
			if _, dup := index[v]; dup {
				return nil, fmt.Errorf("duplicate class %q for field %q", v, field)
			}
			index[v] = i
		}
		e.classes[field] = append([]string(nil), values...)
		e.codes[field] = index
	}
	return e, nil
}

// DefaultClasses returns the training-set classes in sorted order, the order
// a fitted label encoder assigns codes in.
func DefaultClasses() map[string][]string {
	sorted := func(values []string) []string {
		out := append([]string(nil), values...)
		sort.Strings(out)
		return out
	}
	return map[string][]string{
		FieldHomeCountry:   sorted(dataset.HomeCountries),
		FieldDestination:   sorted(dataset.Destinations),
		FieldEducation:     sorted(dataset.Educations),
		FieldEmployment:    sorted(dataset.Employments),
		FieldTravelPurpose: sorted(dataset.Purposes),
		FieldEnglishLevel:  sorted(dataset.EnglishLevels),
	}
}

// DefaultLabelEncoder returns the encoder for the bundled training set.
func DefaultLabelEncoder(log logger.Logger) *LabelEncoder {
	e, err := NewLabelEncoder(DefaultClasses(), log)
	if err != nil {
		panic(fmt.Sprintf("default label encoder: %v", err))
	}
	return e
}

// LoadLabelEncoder reads a JSON object of field -> ordered class list.
func LoadLabelEncoder(path string, log logger.Logger) (*LabelEncoder, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewEncoderLoadFailedError(path, err)
	}

	var classes map[string][]string
	if err := json.Unmarshal(raw, &classes); err != nil {
		return nil, errors.NewEncoderLoadFailedError(path, err)
	}

	e, err := NewLabelEncoder(classes, log)
	if err != nil {
		return nil, errors.NewEncoderLoadFailedError(path, err)
	}
	return e, nil
}

// Encode returns the code for value. Unseen values get FallbackCode; the
// request still succeeds but the event is logged and counted.
func (e *LabelEncoder) Encode(field, value string) int {
	if code, ok := e.codes[field][value]; ok {
		return code
	}
	metrics.EncoderFallbacks.WithLabelValues(field).Inc()
	e.logger.Warn("Unseen categorical value encoded as fallback", map[string]interface{}{
		"field":    field,
		"value":    value,
		"fallback": FallbackCode,
	})
	return FallbackCode
}

// Decode maps a code back to its class.
func (e *LabelEncoder) Decode(field string, code int) (string, bool) {
	values := e.classes[field]
	if code < 0 || code >= len(values) {
		return "", false
	}
	return values[code], true
}

// MarshalJSON writes the table in the format LoadLabelEncoder reads.
func (e *LabelEncoder) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.classes)
}
