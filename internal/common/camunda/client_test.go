package camunda

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(maxRetries int) *Client {
	return &Client{config: &ClientConfig{
		RetryConfig: &RetryConfig{
			MaxRetries: maxRetries,
			BaseDelay:  time.Millisecond,
			MaxDelay:   2 * time.Millisecond,
		},
	}}
}

func TestExecuteWithRetry(t *testing.T) {
	tests := []struct {
		name      string
		errs      []error
		wantCalls int
		wantErr   bool
	}{
		{"first attempt succeeds", []error{nil}, 1, false},
		{"transient then success", []error{errors.New("rpc error: code = Unavailable"), nil}, 2, false},
		{"non-retryable stops", []error{errors.New("NOT_FOUND: no such process")}, 1, true},
		{"exhausts retries", []error{
			errors.New("connection refused"),
			errors.New("connection refused"),
			errors.New("connection refused"),
		}, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := testClient(2).ExecuteWithRetry(context.Background(), "op", func(context.Context) error {
				e := tt.errs[calls]
				calls++
				return e
			})
			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "zeebe operation 'op'")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestExecuteWithRetry_ContextCancelled(t *testing.T) {
	c := &Client{config: &ClientConfig{RetryConfig: &RetryConfig{MaxRetries: 5, BaseDelay: time.Hour, MaxDelay: time.Hour}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.ExecuteWithRetry(ctx, "topology", func(context.Context) error {
		return errors.New("deadline exceeded")
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsRetryableZeebeError(t *testing.T) {
	assert.True(t, isRetryableZeebeError(errors.New("dial tcp: Connection Refused")))
	assert.True(t, isRetryableZeebeError(errors.New("context deadline exceeded")))
	assert.False(t, isRetryableZeebeError(errors.New("invalid argument")))
}
