package classifier

import (
	"context"
	stderrors "errors"
	"net"
	"time"

	"visa-predictor/internal/common/errors"
	commonhttp "visa-predictor/internal/common/http"
	"visa-predictor/internal/common/logger"
	"visa-predictor/internal/common/metrics"
)

const remoteSource = "remote"

type predictRequest struct {
	FeatureNames []string  `json:"feature_names"`
	Features     []float64 `json:"features"`
}

type RemoteOptions struct {
	Endpoint       string
	HealthEndpoint string
	Timeout        time.Duration
	Logger         logger.Logger
}

// RemoteModel calls an HTTP inference sidecar that hosts the trained model.
type RemoteModel struct {
	client         *commonhttp.Client
	endpoint       string
	healthEndpoint string
	timeout        time.Duration
	logger         logger.Logger
}

func NewRemoteModel(opts RemoteOptions) *RemoteModel {
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNoOpLogger()
	}
	return &RemoteModel{
		client:         commonhttp.NewClient(opts.Timeout),
		endpoint:       opts.Endpoint,
		healthEndpoint: opts.HealthEndpoint,
		timeout:        opts.Timeout,
		logger:         opts.Logger.WithFields(map[string]interface{}{"component": "remote-model", "endpoint": opts.Endpoint}),
	}
}

func (m *RemoteModel) Name() string {
	return remoteSource
}

func (m *RemoteModel) Predict(ctx context.Context, f Features) (Output, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	start := time.Now()
	var out Output
	err := m.client.PostJSON(ctx, m.endpoint, predictRequest{
		FeatureNames: FeatureNames,
		Features:     f,
	}, &out)

	if err == nil {
		if verr := out.Validate(); verr != nil {
			err = errors.NewClassifierInvalidResponseError(remoteSource, verr.Error())
		}
	} else {
		err = m.classify(ctx, err)
	}

	result := "ok"
	if err != nil {
		result = string(errors.AsStandardError(err).Code)
		m.logger.Warn("Remote model call failed", map[string]interface{}{
			"error":      err.Error(),
			"durationMs": time.Since(start).Milliseconds(),
		})
	}
	metrics.ClassifierRequests.WithLabelValues(remoteSource, result).Inc()
	if err != nil {
		return Output{}, err
	}

	out.Source = remoteSource
	return out, nil
}

func (m *RemoteModel) classify(ctx context.Context, err error) error {
	var statusErr *commonhttp.StatusError
	var netErr net.Error

	switch {
	case stderrors.Is(err, context.DeadlineExceeded),
		stderrors.Is(ctx.Err(), context.DeadlineExceeded),
		stderrors.As(err, &netErr) && netErr.Timeout():
		return errors.NewClassifierTimeoutError(remoteSource, m.timeout)

	case stderrors.Is(err, commonhttp.ErrInvalidBody):
		return errors.NewClassifierInvalidResponseError(remoteSource, err.Error())

	case stderrors.As(err, &statusErr) && statusErr.StatusCode < 500:
		return errors.NewClassifierInvalidResponseError(remoteSource, err.Error())

	default:
		return errors.NewClassifierUnavailableError(remoteSource, err)
	}
}

// Ready probes the sidecar health endpoint when one is configured.
func (m *RemoteModel) Ready(ctx context.Context) error {
	if m.healthEndpoint == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	if err := m.client.GetJSON(ctx, m.healthEndpoint, nil); err != nil {
		return errors.NewClassifierUnavailableError(remoteSource, err)
	}
	return nil
}
