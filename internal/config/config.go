package config

import (
	"log/slog"
	"strings"
	"time"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Redis      RedisConfig      `yaml:"redis"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Generation GenerationConfig `yaml:"generation"`
	Resilience ResilienceConfig `yaml:"resilience"`
	Filter     FilterConfig     `yaml:"filter"`
	RateLimit  RateLimitConfig  `yaml:"ratelimit"`
	Limits     LimitsConfig     `yaml:"limits"`
}

type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
}

type RedisConfig struct {
	Addresses []string `yaml:"addresses"`
	Password  string   `yaml:"password"`
	DB        int      `yaml:"db"`
	PoolSize  int      `yaml:"pool_size"`
}

type TelemetryConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	MetricsPort int    `yaml:"metrics_port"`
}

// SlogLevel maps log_level to a slog level, defaulting to info.
func (t TelemetryConfig) SlogLevel() slog.Level {
	switch strings.ToLower(t.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// GenerationConfig selects the provider entry from providers.yaml and the
// sampling parameters sent with every prompt.
type GenerationConfig struct {
	Provider        string  `yaml:"provider"`
	Model           string  `yaml:"model"`
	Temperature     float32 `yaml:"temperature"`
	TopP            float32 `yaml:"top_p"`
	TopK            float32 `yaml:"top_k"`
	MaxOutputTokens int32   `yaml:"max_output_tokens"`
}

type ResilienceConfig struct {
	MaxAttempts         int                  `yaml:"max_attempts"`
	InitialBackoff      time.Duration        `yaml:"initial_backoff"`
	Multiplier          float64              `yaml:"multiplier"`
	RandomizationFactor float64              `yaml:"randomization_factor"`
	MaxBackoff          time.Duration        `yaml:"max_backoff"`
	AttemptTimeout      time.Duration        `yaml:"attempt_timeout"`
	CircuitBreaker      CircuitBreakerConfig `yaml:"circuit_breaker"`
}

type CircuitBreakerConfig struct {
	FailureThreshold int           `yaml:"failure_threshold"`
	Cooldown         time.Duration `yaml:"cooldown"`
}

type FilterConfig struct {
	Injection InjectionFilterConfig `yaml:"injection"`
	Policy    PolicyFilterConfig    `yaml:"policy"`
}

type InjectionFilterConfig struct {
	Enabled        bool    `yaml:"enabled"`
	BlockThreshold float64 `yaml:"block_threshold"`
	FlagThreshold  float64 `yaml:"flag_threshold"`
}

type PolicyFilterConfig struct {
	Enabled           bool          `yaml:"enabled"`
	BundlePath        string        `yaml:"bundle_path"`
	EvaluationTimeout time.Duration `yaml:"evaluation_timeout"`
}

type RateLimitConfig struct {
	Enabled    bool          `yaml:"enabled"`
	Window     time.Duration `yaml:"window"`
	UserLimit  int64         `yaml:"user_limit"`
	AdminLimit int64         `yaml:"admin_limit"`
}

type LimitsConfig struct {
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8080,
			ReadTimeout:      30 * time.Second,
			WriteTimeout:     180 * time.Second,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 30 * time.Second,
		},
		Redis: RedisConfig{
			Addresses: []string{"localhost:6379"},
			DB:        0,
			PoolSize:  20,
		},
		Telemetry: TelemetryConfig{
			LogLevel:    "info",
			LogFormat:   "json",
			MetricsPort: 9090,
		},
		Generation: GenerationConfig{
			Provider:        "gemini",
			Model:           "gemini-1.5-flash",
			Temperature:     0.6,
			TopP:            0.8,
			TopK:            40,
			MaxOutputTokens: 8192,
		},
		Resilience: ResilienceConfig{
			MaxAttempts:         3,
			InitialBackoff:      time.Second,
			Multiplier:          2,
			RandomizationFactor: 0.5,
			MaxBackoff:          30 * time.Second,
			AttemptTimeout:      30 * time.Second,
			CircuitBreaker: CircuitBreakerConfig{
				FailureThreshold: 5,
				Cooldown:         60 * time.Second,
			},
		},
		Filter: FilterConfig{
			Injection: InjectionFilterConfig{
				Enabled:        true,
				BlockThreshold: 0.9,
				FlagThreshold:  0.7,
			},
			Policy: PolicyFilterConfig{
				Enabled:           false,
				BundlePath:        "policies",
				EvaluationTimeout: 100 * time.Millisecond,
			},
		},
		RateLimit: RateLimitConfig{
			Enabled:    true,
			Window:     15 * time.Minute,
			UserLimit:  10,
			AdminLimit: 50,
		},
		Limits: LimitsConfig{
			MaxBodyBytes: 10 * 1024,
		},
	}
}
