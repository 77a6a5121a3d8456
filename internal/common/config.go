package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	Environment  string             `toml:"environment"` // "development" or "production"
	Server       ServerConfig       `toml:"server"`
	Logging      LoggingConfig      `toml:"logging"`
	Storage      StorageConfig      `toml:"storage"`
	Auth         AuthConfig         `toml:"auth"`
	Gemini       GeminiConfig       `toml:"gemini"`
	Gateway      GatewayConfig      `toml:"gateway"`
	Search       SearchConfig       `toml:"search"`
	Fetch        FetchConfig        `toml:"fetch"`
	Verification VerificationConfig `toml:"verification"`
	History      HistoryConfig      `toml:"history"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // default: "15:04:05"
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

// AuthConfig controls bearer token verification. An empty secret disables
// authentication; verification still works but nothing is persisted.
type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
}

// GeminiConfig configures the grounded-generation endpoint used for text and URLs
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	Temperature float32 `toml:"temperature"`
	BaseURL     string  `toml:"base_url"` // Optional override, mainly for tests
}

// GatewayConfig configures the OpenAI-compatible chat endpoint used for images
type GatewayConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
}

// SearchConfig configures the Google Custom Search JSON API
type SearchConfig struct {
	APIKey    string `toml:"api_key"`
	EngineID  string `toml:"engine_id"`
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"` // requests per second
}

// FetchConfig configures article page retrieval
type FetchConfig struct {
	UserAgent    string `toml:"user_agent"`
	MaxBodyBytes int64  `toml:"max_body_bytes"`
}

// VerificationConfig holds per-stage timeouts as duration strings ("10s")
type VerificationConfig struct {
	SearchTimeout string `toml:"search_timeout"`
	FetchTimeout  string `toml:"fetch_timeout"`
	ModelTimeout  string `toml:"model_timeout"`
}

// HistoryConfig controls persistence of verification results
type HistoryConfig struct {
	Enabled       bool   `toml:"enabled"`
	RecordTimeout string `toml:"record_timeout"`
	RetentionDays int    `toml:"retention_days"`       // 0 keeps records forever
	Maintenance   string `toml:"maintenance_schedule"` // 5-field cron expression
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8085,
			Host: "localhost",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/verifai",
			},
		},
		Gemini: GeminiConfig{
			Model:       "gemini-2.0-flash-exp",
			Temperature: 0.7,
		},
		Gateway: GatewayConfig{
			BaseURL: "https://ai.gateway.lovable.dev/v1",
			Model:   "google/gemini-2.5-flash",
		},
		Search: SearchConfig{
			BaseURL:   "https://www.googleapis.com/customsearch/v1",
			RateLimit: 5,
		},
		Fetch: FetchConfig{
			UserAgent:    "Mozilla/5.0 (compatible; NewsVerifier/1.0)",
			MaxBodyBytes: 2 * 1024 * 1024,
		},
		Verification: VerificationConfig{
			SearchTimeout: "10s",
			FetchTimeout:  "15s",
			ModelTimeout:  "60s",
		},
		History: HistoryConfig{
			Enabled:       true,
			RecordTimeout: "5s",
			Maintenance:   "0 3 * * *",
		},
	}
}

// LoadFromFiles loads configuration with priority: defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier ones.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config.
// Provider credentials also honour the provider's conventional variable names.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("VERIFAI_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server
	if port := os.Getenv("VERIFAI_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("VERIFAI_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Logging
	if level := os.Getenv("VERIFAI_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("VERIFAI_LOG_OUTPUT"); output != "" {
		config.Logging.Output = splitString(output, ",")
	}

	// Storage
	if path := os.Getenv("VERIFAI_STORAGE_PATH"); path != "" {
		config.Storage.Badger.Path = path
	}

	// Auth
	if secret := os.Getenv("VERIFAI_AUTH_JWT_SECRET"); secret != "" {
		config.Auth.JWTSecret = secret
	}

	// Gemini
	config.Gemini.APIKey = firstEnv(config.Gemini.APIKey, "VERIFAI_GEMINI_API_KEY", "GEMINI_API_KEY")
	if model := os.Getenv("VERIFAI_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}

	// Image gateway
	config.Gateway.APIKey = firstEnv(config.Gateway.APIKey, "VERIFAI_GATEWAY_API_KEY", "LOVABLE_API_KEY")
	if baseURL := os.Getenv("VERIFAI_GATEWAY_BASE_URL"); baseURL != "" {
		config.Gateway.BaseURL = baseURL
	}
	if model := os.Getenv("VERIFAI_GATEWAY_MODEL"); model != "" {
		config.Gateway.Model = model
	}

	// Search
	config.Search.APIKey = firstEnv(config.Search.APIKey, "VERIFAI_SEARCH_API_KEY", "GOOGLE_SEARCH_API_KEY")
	config.Search.EngineID = firstEnv(config.Search.EngineID, "VERIFAI_SEARCH_ENGINE_ID", "GOOGLE_SEARCH_ENGINE_ID")

	// History
	if days := os.Getenv("VERIFAI_HISTORY_RETENTION_DAYS"); days != "" {
		if d, err := strconv.Atoi(days); err == nil {
			config.History.RetentionDays = d
		}
	}
	if enabled := os.Getenv("VERIFAI_HISTORY_ENABLED"); enabled != "" {
		if b, err := strconv.ParseBool(enabled); err == nil {
			config.History.Enabled = b
		}
	}
}

// firstEnv returns the first non-empty environment variable among keys,
// or current if none are set.
func firstEnv(current string, keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return current
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	durations := map[string]string{
		"verification.search_timeout": c.Verification.SearchTimeout,
		"verification.fetch_timeout":  c.Verification.FetchTimeout,
		"verification.model_timeout":  c.Verification.ModelTimeout,
		"history.record_timeout":      c.History.RecordTimeout,
	}
	for name, value := range durations {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for %s '%s': %w", name, value, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, value)
		}
	}
	if c.History.RetentionDays < 0 {
		return fmt.Errorf("history.retention_days must not be negative, got %d", c.History.RetentionDays)
	}
	if err := ValidateSchedule(c.History.Maintenance); err != nil {
		return fmt.Errorf("history.maintenance_schedule: %w", err)
	}
	if c.Gemini.Temperature < 0 || c.Gemini.Temperature > 2 {
		return fmt.Errorf("gemini.temperature must be between 0 and 2, got %v", c.Gemini.Temperature)
	}
	return nil
}

// ValidateSchedule checks a standard 5-field cron expression. An empty
// schedule is allowed and disables maintenance.
func ValidateSchedule(schedule string) error {
	if strings.TrimSpace(schedule) == "" {
		return nil
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	return nil
}

// Duration parses a duration string, falling back to def when empty or invalid.
// Values are checked by Validate at load time.
func Duration(value string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// splitString splits a string by separator and trims whitespace
func splitString(s, sep string) []string {
	var result []string
	for _, part := range strings.Split(s, sep) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
