// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App        AppConfig               `mapstructure:"app"`
	Server     ServerConfig            `mapstructure:"server"`
	Camunda    CamundaConfig           `mapstructure:"camunda"`
	Classifier ClassifierConfig        `mapstructure:"classifier"`
	Database   DatabaseConfig          `mapstructure:"database"`
	Workers    map[string]WorkerConfig `mapstructure:"workers"`
	Logging    LoggingConfig           `mapstructure:"logging"`
	Tracing    TracingConfig           `mapstructure:"tracing"`
	Registry   RegistryConfig          `mapstructure:"registry"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig holds the HTTP transport settings.
type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	ReadTimeout    int      `mapstructure:"read_timeout"`    // milliseconds
	WriteTimeout   int      `mapstructure:"write_timeout"`   // milliseconds
	RequestTimeout int      `mapstructure:"request_timeout"` // milliseconds
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type CamundaConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BrokerAddress  string `mapstructure:"broker_address"`
	Plaintext      bool   `mapstructure:"plaintext"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

// Classifier modes.
const (
	ClassifierModeRemote    = "remote"
	ClassifierModeSurrogate = "surrogate"
)

// ClassifierConfig selects and tunes the model behind the decision engine.
type ClassifierConfig struct {
	Mode           string      `mapstructure:"mode"`
	Endpoint       string      `mapstructure:"endpoint"`
	HealthEndpoint string      `mapstructure:"health_endpoint"`
	Timeout        int         `mapstructure:"timeout"` // milliseconds
	Fallback       string      `mapstructure:"fallback"`
	EncoderPath    string      `mapstructure:"encoder_path"`
	Cache          CacheConfig `mapstructure:"cache"`
}

// CacheConfig controls the Redis prediction cache.
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	TTL     int    `mapstructure:"ttl"` // seconds
	Prefix  string `mapstructure:"prefix"`
}

type DatabaseConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    *int `mapstructure:"max_retries"` // nil means the default
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// TracingConfig controls the Jaeger exporter.
type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// RegistryConfig points at the activity registry file. An empty path disables it.
type RegistryConfig struct {
	Path string `mapstructure:"path"`
}
