package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Search    SearchConfig
	LLM       LLMConfig
	Scoring   ScoringConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SearchConfig holds Google Custom Search configuration.
// An empty APIKey is allowed: the pipeline degrades to zero lookup signal.
type SearchConfig struct {
	APIKey   string        `mapstructure:"api_key"`
	EngineID string        `mapstructure:"engine_id"`
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// LLMConfig holds generative-model configuration
type LLMConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ScoringConfig holds confidence scoring and decision thresholds.
// The 85/60 thresholds are business rules, not tuning knobs: auto-accept at
// or above AutoAcceptThreshold, disclaimer between the two, refusal below
// DisclaimerThreshold.
type ScoringConfig struct {
	AutoAcceptThreshold float64  `mapstructure:"auto_accept_threshold"`
	DisclaimerThreshold float64  `mapstructure:"disclaimer_threshold"`
	FuzzyMinSimilarity  float64  `mapstructure:"fuzzy_min_similarity"`
	MaxAlternatives     int      `mapstructure:"max_alternatives"`
	TrustedDomains      []string `mapstructure:"trusted_domains"`
	EnableDebugLogging  bool     `mapstructure:"enable_debug_logging"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP  int `mapstructure:"per_ip"` // requests per minute per client IP
	Search int `mapstructure:"search"` // external search queries per day
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/copyforge/")

	// Environment variable settings: nested keys map to underscored env
	// names, e.g. llm.api_key -> COPYFORGE_LLM_API_KEY
	v.SetEnvPrefix("COPYFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Search defaults. Credentials default to empty so the env-bound keys
	// are known to the unmarshaler; an unconfigured search degrades at runtime.
	v.SetDefault("search.api_key", "")
	v.SetDefault("search.engine_id", "")
	v.SetDefault("search.base_url", "https://www.googleapis.com/customsearch")
	v.SetDefault("search.timeout", "10s")

	// LLM defaults
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", "60s")

	// Scoring defaults
	v.SetDefault("scoring.auto_accept_threshold", 85.0)
	v.SetDefault("scoring.disclaimer_threshold", 60.0)
	v.SetDefault("scoring.fuzzy_min_similarity", 0.6)
	v.SetDefault("scoring.max_alternatives", 3)
	v.SetDefault("scoring.trusted_domains", []string{
		"fragrantica.com", "sephora.fr", "sephora.com", "nocibe.fr",
		"marionnaud.fr", "notino.fr", "parfumo.com", "douglas.fr",
	})

	// Cache defaults
	v.SetDefault("cache.ttl", "168h") // 7 days

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 30)
	v.SetDefault("ratelimit.search", 100)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.LLM.APIKey == "" {
		return fmt.Errorf("LLM API key is required (set COPYFORGE_LLM_API_KEY)")
	}

	if config.Scoring.DisclaimerThreshold <= 0 ||
		config.Scoring.AutoAcceptThreshold > 100 ||
		config.Scoring.DisclaimerThreshold >= config.Scoring.AutoAcceptThreshold {
		return fmt.Errorf("scoring thresholds must satisfy 0 < disclaimer < auto_accept <= 100, got %.0f/%.0f",
			config.Scoring.DisclaimerThreshold, config.Scoring.AutoAcceptThreshold)
	}

	if config.Scoring.FuzzyMinSimilarity < 0 || config.Scoring.FuzzyMinSimilarity > 1 {
		return fmt.Errorf("scoring.fuzzy_min_similarity must be in [0,1], got %.2f",
			config.Scoring.FuzzyMinSimilarity)
	}

	if config.Scoring.MaxAlternatives < 0 {
		return fmt.Errorf("scoring.max_alternatives must be >= 0, got %d", config.Scoring.MaxAlternatives)
	}

	return nil
}
