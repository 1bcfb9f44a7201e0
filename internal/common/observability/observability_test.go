package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"

	"visa-predictor/internal/common/logger"
)

func TestNewTracerProvider(t *testing.T) {
	tp, err := newTracerProvider("visa-predictor", "test", TracingOptions{})
	assert.NoError(t, err)
	assert.Nil(t, tp)

	_, err = newTracerProvider("visa-predictor", "test", TracingOptions{Enabled: true})
	assert.Error(t, err)

	tp, err = newTracerProvider("visa-predictor", "test", TracingOptions{
		Enabled:     true,
		Endpoint:    "http://localhost:14268/api/traces",
		SampleRatio: 5,
	})
	require.NoError(t, err)
	require.NotNil(t, tp)
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestObservability_RecordAndSpan(t *testing.T) {
	obs := New(Options{ServiceName: "visa-predictor", Version: "test", Logger: logger.NewTestLogger(t)})
	defer obs.Shutdown()

	require.NotNil(t, obs.Tracer())
	ctx, span := obs.StartSpan(context.Background(), "visa.Test", attribute.String("destination", "Germany"))
	assert.NotNil(t, ctx)
	span.End()

	assert.NotPanics(t, func() {
		obs.RecordDecision(context.Background(), "High", "surrogate", 3*time.Millisecond)
	})
}
