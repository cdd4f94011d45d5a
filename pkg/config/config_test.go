package config

import (
	"testing"
	"time"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv returned error: %v", err)
	}

	if cfg.Server.Port != "8000" {
		t.Errorf("default port = %q, want 8000", cfg.Server.Port)
	}
	if cfg.Cache.Type != "memory" {
		t.Errorf("default cache type = %q, want memory", cfg.Cache.Type)
	}
	if cfg.Cache.TTL != 30*24*time.Hour {
		t.Errorf("default cache TTL = %v, want 720h", cfg.Cache.TTL)
	}
	if cfg.Analysis.Threshold != 0.80 {
		t.Errorf("default threshold = %v, want 0.80", cfg.Analysis.Threshold)
	}
	if cfg.Provider.BatchSize != 100 {
		t.Errorf("default batch size = %d, want 100", cfg.Provider.BatchSize)
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("CACHE_TYPE", "redis")
	t.Setenv("CACHE_TTL_DAYS", "7")
	t.Setenv("OVERLAP_THRESHOLD", "0.65")
	t.Setenv("TARGET_DOMAIN", "example.com")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv returned error: %v", err)
	}

	if cfg.Cache.Type != "redis" {
		t.Errorf("cache type = %q, want redis", cfg.Cache.Type)
	}
	if cfg.Cache.TTL != 7*24*time.Hour {
		t.Errorf("cache TTL = %v, want 168h", cfg.Cache.TTL)
	}
	if cfg.Analysis.Threshold != 0.65 {
		t.Errorf("threshold = %v, want 0.65", cfg.Analysis.Threshold)
	}
	if cfg.Analysis.Domain != "example.com" {
		t.Errorf("domain = %q, want example.com", cfg.Analysis.Domain)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{Port: "8000"},
			Cache: CacheConfig{
				Type: "memory",
				TTL:  30 * 24 * time.Hour,
			},
			Provider: ProviderConfig{Login: "login", Password: "secret", BatchSize: 100, MaxRetries: 3},
			Analysis: AnalysisConfig{Threshold: 0.80},
		}
	}

	if err := valid().Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty port", func(c *Config) { c.Server.Port = "" }},
		{"bad cache type", func(c *Config) { c.Cache.Type = "memcached" }},
		{"redis without address", func(c *Config) { c.Cache.Type = "redis" }},
		{"zero TTL", func(c *Config) { c.Cache.TTL = 0 }},
		{"threshold zero", func(c *Config) { c.Analysis.Threshold = 0 }},
		{"threshold above one", func(c *Config) { c.Analysis.Threshold = 1.01 }},
		{"missing provider login", func(c *Config) { c.Provider.Login = "" }},
		{"missing provider password", func(c *Config) { c.Provider.Password = "" }},
		{"zero batch size", func(c *Config) { c.Provider.BatchSize = 0 }},
		{"negative retries", func(c *Config) { c.Provider.MaxRetries = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate should reject config")
			}
		})
	}
}
