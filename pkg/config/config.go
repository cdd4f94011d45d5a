// ABOUTME: Configuration management for the application with environment variable support
// ABOUTME: Defines configuration structures for server, cache, provider, and analysis settings

package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig

	// Cache contains cache configuration
	Cache CacheConfig

	// Provider contains ranking-data provider configuration
	Provider ProviderConfig

	// Labeler contains AI labeling configuration
	Labeler LabelerConfig

	// Analysis contains clustering and detection defaults
	Analysis AnalysisConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (redis/memory)
	Type string

	// TTL is how long cached SERPs stay fresh
	TTL time.Duration

	// StaleOK allows serving expired entries when a live fetch fails
	StaleOK bool

	// Redis contains Redis-specific configuration
	Redis RedisConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string

	// Password is the Redis authentication password
	Password string

	// DB is the Redis database number
	DB int
}

// ProviderConfig holds ranking-data provider credentials and limits
type ProviderConfig struct {
	// Login is the provider API login
	Login string

	// Password is the provider API password
	Password string

	// BatchSize caps the number of keywords per billed provider call
	BatchSize int

	// MaxRetries bounds retry attempts for rate-limited calls
	MaxRetries int
}

// LabelerConfig holds AI labeling service configuration
type LabelerConfig struct {
	// APIKey is the OpenAI API key; empty disables enrichment
	APIKey string

	// Model is the chat model used for intent analysis
	Model string
}

// AnalysisConfig holds clustering and detection defaults
type AnalysisConfig struct {
	// Threshold is the SERP overlap threshold in (0,1]
	Threshold float64

	// Domain is the target domain for cannibalization detection
	Domain string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8000"),
		},
		Cache: CacheConfig{
			Type:    getEnvOrDefault("CACHE_TYPE", "memory"),
			TTL:     time.Duration(getEnvAsIntOrDefault("CACHE_TTL_DAYS", 30)) * 24 * time.Hour,
			StaleOK: getEnvOrDefault("CACHE_STALE_OK", "false") == "true",
			Redis: RedisConfig{
				Address:  getEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
				Password: getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:       getEnvAsIntOrDefault("REDIS_DB", 0),
			},
		},
		Provider: ProviderConfig{
			Login:      getEnvOrDefault("DATAFORSEO_LOGIN", ""),
			Password:   getEnvOrDefault("DATAFORSEO_PASSWORD", ""),
			BatchSize:  getEnvAsIntOrDefault("PROVIDER_BATCH_SIZE", 100),
			MaxRetries: getEnvAsIntOrDefault("PROVIDER_MAX_RETRIES", 3),
		},
		Labeler: LabelerConfig{
			APIKey: getEnvOrDefault("OPENAI_API_KEY", ""),
			Model:  getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		},
		Analysis: AnalysisConfig{
			Threshold: getEnvAsFloatOrDefault("OVERLAP_THRESHOLD", 0.80),
			Domain:    getEnvOrDefault("TARGET_DOMAIN", ""),
		},
	}

	return cfg, nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloatOrDefault returns the environment variable as float64 or a default
func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("port cannot be empty")
	}

	if c.Cache.Type != "redis" && c.Cache.Type != "memory" {
		return errors.New("cache type must be 'redis' or 'memory'")
	}

	if c.Cache.Type == "redis" && c.Cache.Redis.Address == "" {
		return errors.New("redis address cannot be empty when using redis cache")
	}

	if c.Cache.TTL <= 0 {
		return errors.New("cache TTL must be positive")
	}

	if c.Analysis.Threshold <= 0 || c.Analysis.Threshold > 1 {
		return errors.New("overlap threshold must be in (0,1]")
	}

	// Missing credentials would otherwise only surface at the first
	// billed provider call.
	if c.Provider.Login == "" || c.Provider.Password == "" {
		return errors.New("provider credentials must be set")
	}

	if c.Provider.BatchSize < 1 {
		return errors.New("provider batch size must be at least 1")
	}

	if c.Provider.MaxRetries < 0 {
		return errors.New("provider max retries cannot be negative")
	}

	return nil
}
