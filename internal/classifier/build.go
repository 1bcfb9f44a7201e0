package classifier

import (
	"fmt"
	"time"

	"visa-predictor/internal/common/config"
	"visa-predictor/internal/common/database"
	"visa-predictor/internal/common/logger"
)

// Build assembles the classifier stack from config:
// Fallback(Cache(Remote), Surrogate), with each layer optional.
// redis may be nil when the cache is disabled.
func Build(cfg config.ClassifierConfig, redis *database.RedisClient, log logger.Logger) (*Adapter, error) {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	encoder := DefaultLabelEncoder(log)
	if cfg.EncoderPath != "" {
		loaded, err := LoadLabelEncoder(cfg.EncoderPath, log)
		if err != nil {
			return nil, err
		}
		encoder = loaded
	}

	var model Model
	switch cfg.Mode {
	case config.ClassifierModeRemote:
		model = NewRemoteModel(RemoteOptions{
			Endpoint:       cfg.Endpoint,
			HealthEndpoint: cfg.HealthEndpoint,
			Timeout:        config.GetDuration(cfg.Timeout),
			Logger:         log,
		})
	case config.ClassifierModeSurrogate, "":
		model = NewSurrogateModel(encoder)
	default:
		return nil, fmt.Errorf("unknown classifier mode %q", cfg.Mode)
	}

	if cfg.Cache.Enabled && redis != nil {
		model = NewCachedModel(model, redis, CacheOptions{
			TTL:    time.Duration(cfg.Cache.TTL) * time.Second,
			Prefix: cfg.Cache.Prefix,
			Logger: log,
		})
	}

	if cfg.Fallback == config.ClassifierModeSurrogate && model.Name() != surrogateSource {
		model = NewFallbackModel(model, NewSurrogateModel(encoder), log)
	}

	log.Info("Classifier ready", map[string]interface{}{
		"mode":     cfg.Mode,
		"fallback": cfg.Fallback,
		"cache":    cfg.Cache.Enabled && redis != nil,
	})
	return NewAdapter(encoder, model, log), nil
}
