// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/learnscope/learnscope/internal/detect"
)

// Config holds all application configuration.
type Config struct {
	Port        string
	FrontendURL string
	DBPath      string
	SessionTTL  time.Duration // idle telemetry sessions are finalized after this

	Gemini            GeminiConfig
	GenerationTimeout time.Duration
	Detector          detect.Config
	RateLimit         RateLimitConfig
	DialogLog         DialogLogConfig
}

// GeminiConfig holds text-generation collaborator settings.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// RateLimitConfig throttles generation endpoints per user.
type RateLimitConfig struct {
	RequestsPerWindow int
	WindowDuration    time.Duration
}

// DialogLogConfig controls NDJSON tutor dialogue logging.
type DialogLogConfig struct {
	Enabled   bool
	Path      string
	QueueSize int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	queueSize := getEnvInt("DIALOG_LOG_QUEUE_SIZE", 1000)
	if queueSize <= 0 {
		queueSize = 1000
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", ""),
		DBPath:      getEnv("DB_PATH", "./data/learnscope.db"),
		SessionTTL:  getEnvDuration("SESSION_TTL", 30*time.Minute),
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		},
		GenerationTimeout: getEnvDuration("GENERATION_TIMEOUT", 30*time.Second),
		Detector:          loadDetectorConfig(),
		RateLimit: RateLimitConfig{
			RequestsPerWindow: getEnvInt("RATE_LIMIT_REQUESTS", 10),
			WindowDuration:    getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		DialogLog: DialogLogConfig{
			Enabled:   getEnvBool("DIALOG_LOG_ENABLED", true),
			Path:      getEnv("DIALOG_LOG_PATH", "./data/logs/dialog.ndjson"),
			QueueSize: queueSize,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadDetectorConfig reads detector thresholds, keeping the stock defaults
// unless explicitly overridden.
func loadDetectorConfig() detect.Config {
	d := detect.DefaultConfig()
	d.SlowReadingWPM = getEnvFloat("DETECT_SLOW_READING_WPM", d.SlowReadingWPM)
	d.LowComprehension = getEnvFloat("DETECT_LOW_COMPREHENSION", d.LowComprehension)
	d.AttentionLossLimit = getEnvInt("DETECT_ATTENTION_LOSS_LIMIT", d.AttentionLossLimit)
	d.DyslexiaConfidence = getEnvFloat("DETECT_DYSLEXIA_CONFIDENCE", d.DyslexiaConfidence)
	d.ADHDConfidence = getEnvFloat("DETECT_ADHD_CONFIDENCE", d.ADHDConfidence)
	return d
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.GenerationTimeout <= 0 {
		return fmt.Errorf("GENERATION_TIMEOUT must be positive")
	}
	if c.RateLimit.RequestsPerWindow <= 0 || c.RateLimit.WindowDuration <= 0 {
		return fmt.Errorf("rate limit settings must be positive")
	}
	if c.DialogLog.Enabled && c.DialogLog.Path == "" {
		return fmt.Errorf("DIALOG_LOG_PATH cannot be empty when dialog logging is enabled")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
