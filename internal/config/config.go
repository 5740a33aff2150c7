// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Chat backends selectable through CHAT_BACKEND.
const (
	ChatBackendInference = "inference"
	ChatBackendOpenAI    = "openai"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"5000"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts. WriteTimeout has to outlive InferenceTimeout.
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"90s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Secrets
	SecretKey            string        `env:"SECRET_KEY" envDefault:"dev-secret-key-change-in-production"`
	JWTSecretKey         string        `env:"JWT_SECRET_KEY"`
	JWTAccessTokenExpiry time.Duration `env:"JWT_ACCESS_TOKEN_EXPIRES" envDefault:"24h"`
	AdminSecret          string        `env:"ADMIN_SECRET" envDefault:"admin-secret-change-me"`

	// Remote inference API
	HFAPIKey         string        `env:"HF_API_KEY"`
	HFBaseURL        string        `env:"HF_BASE_URL" envDefault:"https://api-inference.huggingface.co/models"`
	InferenceTimeout time.Duration `env:"INFERENCE_TIMEOUT" envDefault:"60s"`
	// Retries for 502/503/504 answers, which the API sends while a model loads.
	InferenceMaxRetries int `env:"INFERENCE_MAX_RETRIES" envDefault:"2"`

	// Chat backend: "inference" (text generation endpoint) or "openai" (OpenAI-compatible router)
	ChatBackend   string `env:"CHAT_BACKEND" envDefault:"inference"`
	ChatModel     string `env:"CHAT_MODEL" envDefault:"microsoft/DialoGPT-medium"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL" envDefault:"https://router.huggingface.co/v1"`
	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`

	// Generated artifacts
	TempDir               string        `env:"TEMP_DIR" envDefault:"temp"`
	ArtifactTTL           time.Duration `env:"ARTIFACT_TTL" envDefault:"1h"`
	ArtifactSweepInterval time.Duration `env:"ARTIFACT_SWEEP_INTERVAL" envDefault:"10m"`

	// Cache (Redis). Optional; rate limits stay in memory when empty.
	RedisURL string `env:"REDIS_URL"`

	// Rate limiting, in ulule/limiter formatted rates ("10-H", "200-D").
	RateLimitEnabled   bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitDefault   string `env:"RATE_LIMIT_DEFAULT" envDefault:"200-D,50-H"`
	RateLimitImage     string `env:"RATE_LIMIT_IMAGE" envDefault:"10-H"`
	RateLimitTTS       string `env:"RATE_LIMIT_TTS" envDefault:"30-H"`
	RateLimitSTT       string `env:"RATE_LIMIT_STT" envDefault:"30-H"`
	RateLimitTranslate string `env:"RATE_LIMIT_TRANSLATE" envDefault:"50-H"`
	RateLimitWrite     string `env:"RATE_LIMIT_WRITE" envDefault:"20-H"`
	// TrustProxy keys rate limits on X-Forwarded-For / X-Real-IP. Enable only
	// behind a proxy that overwrites those headers.
	TrustProxy bool `env:"TRUST_PROXY" envDefault:"false"`

	// CORS configuration
	// Comma-separated list of allowed origins; "https://*.example.com" matches subdomains.
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000,https://*.vercel.app"`

	// Request body size limit in bytes (default 10MB, audio uploads go through it)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"10485760"`

	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	return splitList(c.CORSAllowedOrigins)
}

// DefaultRateLimits returns the formatted rates applied to routes without their own limit.
func (c *Config) DefaultRateLimits() []string {
	return splitList(c.RateLimitDefault)
}

// Validate checks cross-field constraints that struct tags cannot express.
func (c *Config) Validate() error {
	switch c.ChatBackend {
	case ChatBackendInference, ChatBackendOpenAI:
	default:
		return fmt.Errorf("unsupported CHAT_BACKEND %q", c.ChatBackend)
	}
	if c.InferenceTimeout <= 0 {
		return errors.New("INFERENCE_TIMEOUT must be positive")
	}
	if c.InferenceMaxRetries < 0 {
		return errors.New("INFERENCE_MAX_RETRIES must not be negative")
	}
	if c.TempDir == "" {
		return errors.New("TEMP_DIR must not be empty")
	}
	return nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// LoadDotEnv loads a .env file into the process environment if one exists.
// Variables already set in the environment win.
func LoadDotEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// Load parses environment variables and returns a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.JWTSecretKey == "" {
		cfg.JWTSecretKey = cfg.SecretKey
	}
	if cfg.OpenAIAPIKey == "" {
		cfg.OpenAIAPIKey = cfg.HFAPIKey
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
