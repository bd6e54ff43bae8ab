// Package config provides configuration management for the application.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Server          ServerConfig
	DefaultProvider string
	// Providers is keyed by provider type ("openai", "anthropic").
	Providers     map[string]ProviderConfig
	HTTP          HTTPConfig
	TemplatesPath string
	RateLimit     RateLimitConfig
	Metrics       MetricsConfig
	Log           LogConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           string
	BodySizeLimit  string
	SwaggerEnabled bool
}

// ProviderConfig holds the settings of one model provider.
type ProviderConfig struct {
	Type    string
	APIKey  string
	BaseURL string
	// Model is the default model used when a request does not name one.
	Model      string
	MaxRetries int
	// APIKeyEnv names the variable that supplies APIKey, for error messages.
	APIKeyEnv string
}

// HTTPConfig holds upstream HTTP client timeouts.
type HTTPConfig struct {
	Timeout               time.Duration
	ResponseHeaderTimeout time.Duration
}

// RateLimitConfig holds inbound rate limiting settings.
type RateLimitConfig struct {
	Enabled  bool
	Backend  string
	Requests int
	Window   time.Duration
	RedisURL string
}

// MetricsConfig holds Prometheus settings.
type MetricsConfig struct {
	Enabled  bool
	Endpoint string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

const (
	RateLimitBackendMemory = "memory"
	RateLimitBackendRedis  = "redis"
)

func setDefaults() {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("BODY_SIZE_LIMIT", "1M")
	viper.SetDefault("SWAGGER_ENABLED", true)
	viper.SetDefault("DEFAULT_AI_PROVIDER", "openai")
	viper.SetDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	viper.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	viper.SetDefault("ANTHROPIC_MODEL", "claude-3-5-haiku-latest")
	viper.SetDefault("PROVIDER_MAX_RETRIES", 0)
	viper.SetDefault("HTTP_TIMEOUT", "120s")
	viper.SetDefault("HTTP_RESPONSE_HEADER_TIMEOUT", "120s")
	viper.SetDefault("RATE_LIMIT_ENABLED", true)
	viper.SetDefault("RATE_LIMIT_BACKEND", RateLimitBackendMemory)
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_WINDOW", "60s")
	viper.SetDefault("METRICS_ENABLED", true)
	viper.SetDefault("METRICS_ENDPOINT", "/metrics")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "auto")
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win over it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env file")
	}

	setDefaults()
	viper.AutomaticEnv()

	maxRetries := viper.GetInt("PROVIDER_MAX_RETRIES")

	cfg := &Config{
		Server: ServerConfig{
			Port:           viper.GetString("PORT"),
			BodySizeLimit:  viper.GetString("BODY_SIZE_LIMIT"),
			SwaggerEnabled: viper.GetBool("SWAGGER_ENABLED"),
		},
		DefaultProvider: strings.ToLower(viper.GetString("DEFAULT_AI_PROVIDER")),
		Providers: map[string]ProviderConfig{
			"openai": {
				Type:       "openai",
				APIKey:     viper.GetString("OPENAI_API_KEY"),
				BaseURL:    viper.GetString("OPENAI_BASE_URL"),
				Model:      viper.GetString("OPENAI_MODEL"),
				MaxRetries: maxRetries,
				APIKeyEnv:  "OPENAI_API_KEY",
			},
			"anthropic": {
				Type:       "anthropic",
				APIKey:     viper.GetString("ANTHROPIC_API_KEY"),
				BaseURL:    viper.GetString("ANTHROPIC_BASE_URL"),
				Model:      viper.GetString("ANTHROPIC_MODEL"),
				MaxRetries: maxRetries,
				APIKeyEnv:  "ANTHROPIC_API_KEY",
			},
		},
		HTTP: HTTPConfig{
			Timeout:               viper.GetDuration("HTTP_TIMEOUT"),
			ResponseHeaderTimeout: viper.GetDuration("HTTP_RESPONSE_HEADER_TIMEOUT"),
		},
		TemplatesPath: viper.GetString("TEMPLATES_PATH"),
		RateLimit: RateLimitConfig{
			Enabled:  viper.GetBool("RATE_LIMIT_ENABLED"),
			Backend:  strings.ToLower(viper.GetString("RATE_LIMIT_BACKEND")),
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   viper.GetDuration("RATE_LIMIT_WINDOW"),
			RedisURL: viper.GetString("REDIS_URL"),
		},
		Metrics: MetricsConfig{
			Enabled:  viper.GetBool("METRICS_ENABLED"),
			Endpoint: viper.GetString("METRICS_ENDPOINT"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(viper.GetString("LOG_LEVEL")),
			Format: strings.ToLower(viper.GetString("LOG_FORMAT")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be fixed by defaults.
// Missing provider credentials are reported later, when providers are built.
func (c *Config) Validate() error {
	if _, ok := c.Providers[c.DefaultProvider]; !ok {
		return fmt.Errorf("DEFAULT_AI_PROVIDER %q is not a supported provider", c.DefaultProvider)
	}

	if c.RateLimit.Enabled {
		switch c.RateLimit.Backend {
		case RateLimitBackendMemory:
		case RateLimitBackendRedis:
			if c.RateLimit.RedisURL == "" {
				return fmt.Errorf("REDIS_URL is required when RATE_LIMIT_BACKEND is redis")
			}
		default:
			return fmt.Errorf("unknown RATE_LIMIT_BACKEND %q (expected memory or redis)", c.RateLimit.Backend)
		}
		if c.RateLimit.Requests <= 0 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.RateLimit.Requests)
		}
		if c.RateLimit.Window <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
		}
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown LOG_LEVEL %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "auto", "pretty", "json":
	default:
		return fmt.Errorf("unknown LOG_FORMAT %q (expected auto, pretty or json)", c.Log.Format)
	}

	for name, p := range c.Providers {
		if p.MaxRetries < 0 {
			return fmt.Errorf("provider %s: max retries must not be negative", name)
		}
	}
	return nil
}
