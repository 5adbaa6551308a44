package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Sources   SourcesConfig
	Fetch     FetchConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RetailerCredentials holds API access details for one platform retailer.
// Retailers without credentials are still served via scraping or synthetic data.
type RetailerCredentials struct {
	ID        string `mapstructure:"id"`
	Platform  string `mapstructure:"platform"` // "shopify", "woocommerce" or "generic"
	BaseURL   string `mapstructure:"base_url"`
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
}

// SourcesConfig holds inventory source configuration
type SourcesConfig struct {
	Retailers      []RetailerCredentials `mapstructure:"retailers"`
	EnableScraping bool                  `mapstructure:"enable_scraping"`
	MaxPages       int                   `mapstructure:"max_pages"`
	MaxConcurrent  int                   `mapstructure:"max_concurrent"`
	PageDelay      time.Duration         `mapstructure:"page_delay"`
	SyntheticCount int                   `mapstructure:"synthetic_count"`
}

// FetchConfig holds outbound HTTP configuration
type FetchConfig struct {
	Timeout           time.Duration `mapstructure:"timeout"`
	MaxRetries        int           `mapstructure:"max_retries"`
	MaxBodyBytes      int64         `mapstructure:"max_body_bytes"`
	UserAgent         string        `mapstructure:"user_agent"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds inbound rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute per client IP
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/stylist/")

	// Environment variable settings
	v.SetEnvPrefix("STYLIST")
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

// loadEnvFile loads a local .env file when present. Values already set in the
// environment are never overridden, and a missing file is not an error.
func loadEnvFile() error {
	if err := godotenv.Load(); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Source defaults
	v.SetDefault("sources.enable_scraping", true)
	v.SetDefault("sources.max_pages", 3)
	v.SetDefault("sources.max_concurrent", 3)
	v.SetDefault("sources.page_delay", "500ms")
	v.SetDefault("sources.synthetic_count", 20)

	// Fetch defaults
	v.SetDefault("fetch.timeout", "30s")
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.max_body_bytes", 2<<20) // 2 MiB
	v.SetDefault("fetch.user_agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	v.SetDefault("fetch.requests_per_second", 2.0)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "1h")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Fetch.MaxRetries < 0 {
		return fmt.Errorf("fetch max retries must not be negative, got: %d", config.Fetch.MaxRetries)
	}

	if config.Sources.MaxConcurrent < 1 {
		return fmt.Errorf("sources max concurrent must be at least 1, got: %d", config.Sources.MaxConcurrent)
	}

	if config.Sources.MaxPages < 1 {
		return fmt.Errorf("sources max pages must be at least 1, got: %d", config.Sources.MaxPages)
	}

	for i, r := range config.Sources.Retailers {
		if r.ID == "" {
			return fmt.Errorf("sources.retailers[%d]: retailer id is required", i)
		}
		if r.Platform != "" && r.BaseURL == "" {
			return fmt.Errorf("sources.retailers[%d]: base URL is required for platform %q", i, r.Platform)
		}
	}

	return nil
}
