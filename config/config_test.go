package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("STYLIST_SERVER_PORT")
		os.Unsetenv("STYLIST_SERVER_ENVIRONMENT")
		os.Unsetenv("STYLIST_SOURCES_ENABLE_SCRAPING")
		os.Unsetenv("STYLIST_SOURCES_MAX_PAGES")
		os.Unsetenv("STYLIST_SOURCES_MAX_CONCURRENT")
		os.Unsetenv("STYLIST_FETCH_TIMEOUT")
		os.Unsetenv("STYLIST_FETCH_MAX_RETRIES")
		os.Unsetenv("STYLIST_CACHE_TYPE")
		os.Unsetenv("STYLIST_CACHE_REDIS_URL")
		os.Unsetenv("STYLIST_CACHE_TTL")
		os.Unsetenv("STYLIST_RATELIMIT_PER_IP")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		// Check defaults
		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if !cfg.Sources.EnableScraping {
			t.Error("Sources.EnableScraping = false, want true")
		}
		if cfg.Sources.MaxPages != 3 {
			t.Errorf("Sources.MaxPages = %d, want 3", cfg.Sources.MaxPages)
		}
		if cfg.Sources.MaxConcurrent != 3 {
			t.Errorf("Sources.MaxConcurrent = %d, want 3", cfg.Sources.MaxConcurrent)
		}
		if cfg.Fetch.Timeout != 30*time.Second {
			t.Errorf("Fetch.Timeout = %v, want 30s", cfg.Fetch.Timeout)
		}
		if cfg.Fetch.MaxRetries != 3 {
			t.Errorf("Fetch.MaxRetries = %d, want 3", cfg.Fetch.MaxRetries)
		}
		if cfg.Cache.Type != "memory" {
			t.Errorf("Cache.Type = %s, want memory", cfg.Cache.Type)
		}
		if cfg.Cache.TTL != time.Hour {
			t.Errorf("Cache.TTL = %v, want 1h", cfg.Cache.TTL)
		}
		if cfg.RateLimit.PerIP != 100 {
			t.Errorf("RateLimit.PerIP = %d, want 100", cfg.RateLimit.PerIP)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("STYLIST_SERVER_PORT", "9090")
		os.Setenv("STYLIST_SERVER_ENVIRONMENT", "production")
		os.Setenv("STYLIST_SOURCES_MAX_PAGES", "5")
		os.Setenv("STYLIST_FETCH_TIMEOUT", "10s")
		os.Setenv("STYLIST_FETCH_MAX_RETRIES", "1")
		os.Setenv("STYLIST_CACHE_TYPE", "redis")
		os.Setenv("STYLIST_CACHE_REDIS_URL", "redis://localhost:6379")
		os.Setenv("STYLIST_CACHE_TTL", "24h")
		os.Setenv("STYLIST_RATELIMIT_PER_IP", "200")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Sources.MaxPages != 5 {
			t.Errorf("Sources.MaxPages = %d, want 5", cfg.Sources.MaxPages)
		}
		if cfg.Fetch.Timeout != 10*time.Second {
			t.Errorf("Fetch.Timeout = %v, want 10s", cfg.Fetch.Timeout)
		}
		if cfg.Fetch.MaxRetries != 1 {
			t.Errorf("Fetch.MaxRetries = %d, want 1", cfg.Fetch.MaxRetries)
		}
		if cfg.Cache.Type != "redis" {
			t.Errorf("Cache.Type = %s, want redis", cfg.Cache.Type)
		}
		if cfg.Cache.RedisURL != "redis://localhost:6379" {
			t.Errorf("Cache.RedisURL = %s, want redis://localhost:6379", cfg.Cache.RedisURL)
		}
		if cfg.Cache.TTL != 24*time.Hour {
			t.Errorf("Cache.TTL = %v, want 24h", cfg.Cache.TTL)
		}
		if cfg.RateLimit.PerIP != 200 {
			t.Errorf("RateLimit.PerIP = %d, want 200", cfg.RateLimit.PerIP)
		}
	})

	t.Run("fails validation for invalid cache type", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("STYLIST_CACHE_TYPE", "invalid")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for invalid cache type")
		}
	})

	t.Run("fails validation when redis URL missing for redis cache", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("STYLIST_CACHE_TYPE", "redis")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for missing Redis URL")
		}
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("returns nil when .env file doesn't exist", func(t *testing.T) {
		// Save current directory
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		// Create temp directory
		tempDir := t.TempDir()
		os.Chdir(tempDir)

		err := loadEnvFile()
		if err != nil {
			t.Errorf("loadEnvFile() error = %v, want nil when file doesn't exist", err)
		}
	})

	t.Run("loads variables from .env file", func(t *testing.T) {
		// Save current directory
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		// Create temp directory
		tempDir := t.TempDir()
		os.Chdir(tempDir)

		// Create .env file
		envContent := `
# Comment line
TEST_VAR_1=value1
TEST_VAR_2=value2
`
		err := os.WriteFile(".env", []byte(envContent), 0644)
		if err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		// Clear any existing values
		os.Unsetenv("TEST_VAR_1")
		os.Unsetenv("TEST_VAR_2")

		err = loadEnvFile()
		if err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_VAR_1") != "value1" {
			t.Errorf("TEST_VAR_1 = %s, want value1", os.Getenv("TEST_VAR_1"))
		}
		if os.Getenv("TEST_VAR_2") != "value2" {
			t.Errorf("TEST_VAR_2 = %s, want value2", os.Getenv("TEST_VAR_2"))
		}

		// Cleanup
		os.Unsetenv("TEST_VAR_1")
		os.Unsetenv("TEST_VAR_2")
	})

	t.Run("doesn't override existing environment variables", func(t *testing.T) {
		// Save current directory
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		// Create temp directory
		tempDir := t.TempDir()
		os.Chdir(tempDir)

		// Set existing env var
		os.Setenv("TEST_OVERRIDE", "existing-value")

		// Create .env file that tries to override
		envContent := "TEST_OVERRIDE=new-value"
		err := os.WriteFile(".env", []byte(envContent), 0644)
		if err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		err = loadEnvFile()
		if err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		// Should still have original value
		if os.Getenv("TEST_OVERRIDE") != "existing-value" {
			t.Errorf("TEST_OVERRIDE = %s, want existing-value (should not override)", os.Getenv("TEST_OVERRIDE"))
		}

		os.Unsetenv("TEST_OVERRIDE")
	})
}

func TestValidate(t *testing.T) {
	validBase := func() *Config {
		return &Config{
			Cache: CacheConfig{Type: "memory"},
			Fetch: FetchConfig{MaxRetries: 3},
			Sources: SourcesConfig{
				MaxConcurrent: 3,
				MaxPages:      3,
			},
		}
	}

	t.Run("validates successfully with all required fields", func(t *testing.T) {
		cfg := validBase()

		err := validate(cfg)
		if err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("fails for invalid cache type", func(t *testing.T) {
		cfg := validBase()
		cfg.Cache.Type = "invalid-type"

		err := validate(cfg)
		if err == nil {
			t.Error("validate() error = nil, want error for invalid cache type")
		}
	})

	t.Run("validates redis cache type with URL", func(t *testing.T) {
		cfg := validBase()
		cfg.Cache.Type = "redis"
		cfg.Cache.RedisURL = "redis://localhost:6379"

		err := validate(cfg)
		if err != nil {
			t.Errorf("validate() error = %v, want nil for valid redis config", err)
		}
	})

	t.Run("fails for redis cache without URL", func(t *testing.T) {
		cfg := validBase()
		cfg.Cache.Type = "redis"

		err := validate(cfg)
		if err == nil {
			t.Error("validate() error = nil, want error for redis without URL")
		}
	})

	t.Run("fails for negative retry count", func(t *testing.T) {
		cfg := validBase()
		cfg.Fetch.MaxRetries = -1

		err := validate(cfg)
		if err == nil {
			t.Error("validate() error = nil, want error for negative max retries")
		}
	})

	t.Run("fails for zero max concurrent", func(t *testing.T) {
		cfg := validBase()
		cfg.Sources.MaxConcurrent = 0

		err := validate(cfg)
		if err == nil {
			t.Error("validate() error = nil, want error for zero max concurrent")
		}
	})

	t.Run("fails for retailer entry without id", func(t *testing.T) {
		cfg := validBase()
		cfg.Sources.Retailers = []RetailerCredentials{
			{Platform: "shopify", BaseURL: "https://shop.example.com"},
		}

		err := validate(cfg)
		if err == nil {
			t.Error("validate() error = nil, want error for retailer without id")
		}
	})

	t.Run("allows retailer without credentials", func(t *testing.T) {
		cfg := validBase()
		cfg.Sources.Retailers = []RetailerCredentials{
			{ID: "zara"},
		}

		err := validate(cfg)
		if err != nil {
			t.Errorf("validate() error = %v, want nil for credential-less retailer", err)
		}
	})
}
