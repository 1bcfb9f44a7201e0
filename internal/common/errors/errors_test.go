package errors

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Retry & BPMN Mapping
// ==========================

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name        string
		err         *StandardError
		wantCode    string
		wantRetries int
	}{
		{"validation", NewValidationFailedError("age: required"), "VALIDATION_FAILED", 0},
		{"unknown destination", NewUnknownDestinationError("Atlantis"), "UNKNOWN_DESTINATION", 0},
		{"classifier unavailable", NewClassifierUnavailableError("remote", fmt.Errorf("refused")), "CLASSIFIER_UNAVAILABLE", 3},
		{"classifier timeout", NewClassifierTimeoutError("remote", 2*time.Second), "CLASSIFIER_TIMEOUT", 2},
		{"invalid response", NewClassifierInvalidResponseError("remote", "bad body"), "CLASSIFIER_INVALID_RESPONSE", 0},
		{"internal", NewInternalError(fmt.Errorf("boom")), "INTERNAL_ERROR", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmn := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.wantCode, bpmn.Code)
			assert.Equal(t, tt.wantRetries, bpmn.Retries)
			assert.Equal(t, tt.wantRetries > 0, IsRetryableErrorCode(tt.err.Code))

			vars := bpmn.ToErrorVariables()
			assert.Equal(t, tt.wantCode, vars["errorCode"])
			assert.Equal(t, string(tt.err.Code), vars["originalErrorCode"])
		})
	}
}

func TestConvertToBPMNError_NonRetryableOverride(t *testing.T) {
	err := NewClassifierUnavailableError("remote", fmt.Errorf("refused"))
	err.Retryable = false
	assert.Zero(t, ConvertToBPMNError(err).Retries)
}

func TestErrorHandler_RetryBudget(t *testing.T) {
	tests := []struct {
		name       string
		maxRetries int
		errRetries int
		jobRetries int32
		want       int
		wantFail   bool
	}{
		{"uncapped", -1, 3, 3, 2, true},
		{"capped by handler", 1, 3, 5, 1, true},
		{"cap of zero throws", 0, 3, 5, 0, false},
		{"non-retryable throws", -1, 0, 3, 0, false},
		{"last attempt fails with none left", -1, 3, 1, 0, true},
		{"job exhausted throws", -1, 3, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewErrorHandler(nil).WithMaxRetries(tt.maxRetries)
			got, fail := h.retryBudget(tt.errRetries, tt.jobRetries)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantFail, fail)
		})
	}
}

// ==========================
// Unwrapping
// ==========================

func TestAsStandardError(t *testing.T) {
	orig := NewUnknownDestinationError("Atlantis")
	wrapped := fmt.Errorf("decide: %w", orig)

	assert.Same(t, orig, AsStandardError(wrapped))
	assert.True(t, HasCode(wrapped, ErrCodeUnknownDestination))
	assert.False(t, HasCode(wrapped, ErrCodeValidationFailed))

	plain := AsStandardError(fmt.Errorf("plain"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "plain", plain.Details)
}

func TestStandardError_WithMetadata(t *testing.T) {
	err := NewValidationFailedError("x").WithMetadata("field", "age")
	require.NotNil(t, err.Metadata)
	assert.Equal(t, "age", err.Metadata["field"])
	assert.Contains(t, err.Error(), "VALIDATION_FAILED")
}

// ==========================
// HTTP & Categories
// ==========================

func TestHTTPStatus(t *testing.T) {
	tests := map[ErrorCode]int{
		ErrCodeValidationFailed:          http.StatusUnprocessableEntity,
		ErrCodeUnknownDestination:        http.StatusUnprocessableEntity,
		ErrCodeInputParsingFailed:        http.StatusBadRequest,
		ErrCodeClassifierUnavailable:     http.StatusServiceUnavailable,
		ErrCodeClassifierTimeout:         http.StatusServiceUnavailable,
		ErrCodeClassifierInvalidResponse: http.StatusInternalServerError,
		ErrCodeInternal:                  http.StatusInternalServerError,
	}
	for code, want := range tests {
		assert.Equal(t, want, HTTPStatus(code), string(code))
	}
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "MODEL", GetErrorCategory(ErrCodeClassifierTimeout))
	assert.Equal(t, "CONFIGURATION", GetErrorCategory(ErrCodeEncoderLoadFailed))
	assert.Equal(t, "CONFIGURATION", GetErrorCategory(ErrCodeRegistryLoadFailed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeUnknownDestination))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}
