package classifier

import (
	"context"

	"visa-predictor/internal/common/errors"
	"visa-predictor/internal/common/logger"
)

// FallbackModel answers from secondary when primary fails.
type FallbackModel struct {
	primary   Model
	secondary Model
	logger    logger.Logger
}

func NewFallbackModel(primary, secondary Model, log logger.Logger) *FallbackModel {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &FallbackModel{
		primary:   primary,
		secondary: secondary,
		logger:    log.WithFields(map[string]interface{}{"component": "fallback-model"}),
	}
}

func (m *FallbackModel) Name() string {
	return m.primary.Name()
}

func (m *FallbackModel) Predict(ctx context.Context, f Features) (Output, error) {
	out, err := m.primary.Predict(ctx, f)
	if err == nil {
		return out, nil
	}

	m.logger.Warn("Primary model failed, using fallback", map[string]interface{}{
		"primary":   m.primary.Name(),
		"secondary": m.secondary.Name(),
		"errorCode": string(errors.AsStandardError(err).Code),
	})

	out, fbErr := m.secondary.Predict(ctx, f)
	if fbErr != nil {
		m.logger.Error("Fallback model failed", map[string]interface{}{"error": fbErr.Error()})
		return Output{}, err
	}
	return out, nil
}

// Ready only reports the secondary, since the primary is optional while a
// fallback exists.
func (m *FallbackModel) Ready(ctx context.Context) error {
	if rc, ok := m.primary.(ReadinessChecker); ok {
		if err := rc.Ready(ctx); err != nil {
			m.logger.Warn("Primary model not ready, serving from fallback", map[string]interface{}{"error": err.Error()})
		}
	}
	if rc, ok := m.secondary.(ReadinessChecker); ok {
		return rc.Ready(ctx)
	}
	return nil
}
