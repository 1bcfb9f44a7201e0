// Package errors provides the error taxonomy shared by the HTTP transport and
// the BPMN job workers.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed   ErrorCode = "VALIDATION_FAILED"
	ErrCodeInputParsingFailed ErrorCode = "INPUT_PARSING_FAILED"
	ErrCodeUnknownDestination ErrorCode = "UNKNOWN_DESTINATION"

	ErrCodeClassifierUnavailable     ErrorCode = "CLASSIFIER_UNAVAILABLE"
	ErrCodeClassifierTimeout         ErrorCode = "CLASSIFIER_TIMEOUT"
	ErrCodeClassifierInvalidResponse ErrorCode = "CLASSIFIER_INVALID_RESPONSE"

	ErrCodeEncoderLoadFailed  ErrorCode = "ENCODER_LOAD_FAILED"
	ErrCodeRegistryLoadFailed ErrorCode = "REGISTRY_LOAD_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata attaches a key to the error metadata and returns the error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewValidationFailedError creates a non-retryable input validation error.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Applicant profile failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInputParsingFailedError creates a non-retryable parse error.
func NewInputParsingFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInputParsingFailed,
		Message:   "Request body could not be parsed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownDestinationError creates a non-retryable error for a destination
// missing from the difficulty table.
func NewUnknownDestinationError(country string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownDestination,
		Message:   "Destination country is not supported",
		Details:   fmt.Sprintf("destination_country: %s", country),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewClassifierUnavailableError creates a retryable classifier error.
func NewClassifierUnavailableError(source string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeClassifierUnavailable,
		Message:   fmt.Sprintf("Classifier '%s' unavailable", source),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewClassifierTimeoutError creates a retryable classifier timeout error.
func NewClassifierTimeoutError(source string, timeout time.Duration) *StandardError {
	return &StandardError{
		Code:      ErrCodeClassifierTimeout,
		Message:   fmt.Sprintf("Classifier '%s' timeout", source),
		Details:   fmt.Sprintf("call exceeded %s", timeout),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewClassifierInvalidResponseError creates a non-retryable error for a
// malformed classifier reply.
func NewClassifierInvalidResponseError(source, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeClassifierInvalidResponse,
		Message:   fmt.Sprintf("Classifier '%s' returned an invalid response", source),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEncoderLoadFailedError creates a non-retryable encoder table error.
func NewEncoderLoadFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEncoderLoadFailed,
		Message:   "Label encoder table could not be loaded",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRegistryLoadFailedError creates a non-retryable activity registry error.
func NewRegistryLoadFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRegistryLoadFailed,
		Message:   "Activity registry could not be loaded",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeValidationFailed:          "VALIDATION_FAILED",
	ErrCodeInputParsingFailed:        "INPUT_PARSING_FAILED",
	ErrCodeUnknownDestination:        "UNKNOWN_DESTINATION",
	ErrCodeClassifierUnavailable:     "CLASSIFIER_UNAVAILABLE",
	ErrCodeClassifierTimeout:         "CLASSIFIER_TIMEOUT",
	ErrCodeClassifierInvalidResponse: "CLASSIFIER_INVALID_RESPONSE",
	ErrCodeEncoderLoadFailed:         "ENCODER_LOAD_FAILED",
	ErrCodeRegistryLoadFailed:        "REGISTRY_LOAD_FAILED",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeClassifierUnavailable:
		return 3 // technical errors

	case ErrCodeClassifierTimeout:
		return 2

	default:
		return 0 // business errors
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// AsStandardError unwraps err to a StandardError. Anything else becomes an
// INTERNAL_ERROR.
func AsStandardError(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	return errors.As(err, &stdErr) && stdErr.Code == code
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// HTTPStatus maps an error code to the HTTP status the API answers with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed, ErrCodeUnknownDestination:
		return http.StatusUnprocessableEntity
	case ErrCodeInputParsingFailed:
		return http.StatusBadRequest
	case ErrCodeClassifierUnavailable, ErrCodeClassifierTimeout:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "CLASSIFIER"):
		return "MODEL"
	case strings.Contains(codeStr, "ENCODER") || strings.Contains(codeStr, "REGISTRY"):
		return "CONFIGURATION"
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "PARSING") ||
		strings.Contains(codeStr, "DESTINATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
