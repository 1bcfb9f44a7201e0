package predictvisaapproval

import (
	"fmt"
	"time"

	"visa-predictor/internal/common/config"
)

// Config controls job activation for the predict-visa-approval worker.
// MaxRetries caps the retries handed back to Zeebe when a classifier failure
// is retryable; zero disables retrying.
type Config struct {
	Enabled       bool          `mapstructure:"enabled"`
	MaxJobsActive int           `mapstructure:"max_jobs_active"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxRetries    int           `mapstructure:"max_retries"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30 * time.Second,
		MaxRetries:    3,
	}
}

func (c *Config) Validate() error {
	switch {
	case c.Timeout <= 0:
		return fmt.Errorf("timeout must be positive")
	case c.MaxJobsActive <= 0:
		return fmt.Errorf("max_jobs_active must be positive")
	case c.MaxRetries < 0:
		return fmt.Errorf("max_retries must not be negative")
	}
	return nil
}

// createConfigFromAppConfig prefers customConfig, then the workers section
// of the app config, then defaults.
func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()
	if appConfig == nil {
		return cfg
	}

	wc := config.GetWorkerConfig(appConfig, TaskType)
	cfg.Enabled = wc.Enabled
	if wc.MaxJobsActive > 0 {
		cfg.MaxJobsActive = wc.MaxJobsActive
	}
	if wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	if wc.MaxRetries != nil {
		cfg.MaxRetries = *wc.MaxRetries
	}
	return cfg
}
