package classifier

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"visa-predictor/internal/common/database"
	"visa-predictor/internal/common/logger"
	"visa-predictor/internal/common/metrics"
)

const cacheSource = "cache"

// CachedModel memoizes model outputs in Redis keyed by the feature digest.
// Only model outputs are stored, never applicant fields. Redis errors are
// logged and bypassed.
type CachedModel struct {
	next   Model
	redis  *database.RedisClient
	ttl    time.Duration
	prefix string
	logger logger.Logger
}

type CacheOptions struct {
	TTL    time.Duration
	Prefix string
	Logger logger.Logger
}

func NewCachedModel(next Model, redis *database.RedisClient, opts CacheOptions) *CachedModel {
	if opts.TTL <= 0 {
		opts.TTL = time.Hour
	}
	if opts.Prefix == "" {
		opts.Prefix = "visa:prediction:"
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNoOpLogger()
	}
	return &CachedModel{
		next:   next,
		redis:  redis,
		ttl:    opts.TTL,
		prefix: opts.Prefix,
		logger: opts.Logger.WithFields(map[string]interface{}{"component": "prediction-cache"}),
	}
}

func (m *CachedModel) Name() string {
	return m.next.Name()
}

func (m *CachedModel) key(f Features) string {
	return m.prefix + m.next.Name() + ":" + f.Key()
}

func (m *CachedModel) Predict(ctx context.Context, f Features) (Output, error) {
	key := m.key(f)

	if out, ok := m.lookup(ctx, key); ok {
		return out, nil
	}

	out, err := m.next.Predict(ctx, f)
	if err != nil {
		return Output{}, err
	}

	if raw, err := json.Marshal(out); err == nil {
		if err := m.redis.Set(ctx, key, raw, m.ttl); err != nil {
			m.logger.Warn("Failed to store prediction", map[string]interface{}{"error": err.Error()})
		}
	}
	return out, nil
}

func (m *CachedModel) lookup(ctx context.Context, key string) (Output, bool) {
	raw, err := m.redis.Get(ctx, key)
	switch {
	case stderrors.Is(err, database.ErrCacheMiss):
		metrics.PredictionCache.WithLabelValues("miss").Inc()
		return Output{}, false
	case err != nil:
		metrics.PredictionCache.WithLabelValues("error").Inc()
		m.logger.Warn("Prediction cache lookup failed", map[string]interface{}{"error": err.Error()})
		return Output{}, false
	}

	var out Output
	if err := json.Unmarshal(raw, &out); err != nil || out.Validate() != nil {
		metrics.PredictionCache.WithLabelValues("error").Inc()
		m.logger.Warn("Discarding malformed cached prediction", map[string]interface{}{"key": key})
		return Output{}, false
	}

	metrics.PredictionCache.WithLabelValues("hit").Inc()
	out.Source = cacheSource
	return out, true
}

func (m *CachedModel) Ready(ctx context.Context) error {
	if rc, ok := m.next.(ReadinessChecker); ok {
		return rc.Ready(ctx)
	}
	return nil
}
