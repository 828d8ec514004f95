// Package models defines configuration and wire-level data structures.
package models

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration for the service.
// Values are loaded from a YAML file and may be overridden by environment
// variables (CONTENTIQ_* prefix).
type Config struct {
	ListenAddr string `yaml:"listen_addr"`

	// Scraping
	ScrapeTimeoutSeconds int      `yaml:"scrape_timeout_seconds"`
	MaxContentLength     int      `yaml:"max_content_length"`
	MaxResponseBytes     int64    `yaml:"max_response_bytes"`
	MaxRedirects         int      `yaml:"max_redirects"`
	BlockedURLPatterns   []string `yaml:"blocked_url_patterns"`

	// Caching
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	CacheMaxEntries int    `yaml:"cache_max_entries"`
	CacheDBPath     string `yaml:"cache_db_path"` // empty disables the shared tier

	// AI
	OpenAIAPIKey string `yaml:"openai_api_key"`
	OpenAIModel  string `yaml:"openai_model"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:           ":8080",
		ScrapeTimeoutSeconds: 15,
		MaxContentLength:     50000,
		MaxResponseBytes:     10_000_000,
		MaxRedirects:         5,
		CacheTTLSeconds:      3600,
		CacheMaxEntries:      1000,
		OpenAIModel:          "gpt-4o-mini",
	}
}

// LoadConfig reads configuration from a YAML file, applying defaults for
// missing values and environment overrides on top. A missing file is not an
// error; defaults plus environment are used.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if cfg.ScrapeTimeoutSeconds <= 0 {
		cfg.ScrapeTimeoutSeconds = 15
	}
	if cfg.MaxContentLength <= 0 {
		cfg.MaxContentLength = 50000
	}
	if cfg.MaxResponseBytes <= 0 {
		cfg.MaxResponseBytes = 10_000_000
	}
	if cfg.MaxRedirects <= 0 {
		cfg.MaxRedirects = 5
	}
	if cfg.CacheMaxEntries <= 0 {
		cfg.CacheMaxEntries = 1000
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("CONTENTIQ_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("CONTENTIQ_SCRAPE_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.ScrapeTimeoutSeconds = n
		}
	}
	if v := os.Getenv("CONTENTIQ_CACHE_TTL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.CacheTTLSeconds = n
		}
	}
	if v := os.Getenv("CONTENTIQ_CACHE_DB"); v != "" {
		c.CacheDBPath = v
	}
	if v := os.Getenv("CONTENTIQ_BLOCKED_URL_PATTERNS"); v != "" {
		var patterns []string
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				patterns = append(patterns, p)
			}
		}
		c.BlockedURLPatterns = patterns
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAIAPIKey = v
	}
	if v := os.Getenv("CONTENTIQ_OPENAI_MODEL"); v != "" {
		c.OpenAIModel = v
	}
}

// ScrapeTimeout returns the per-request fetch budget as a duration.
func (c *Config) ScrapeTimeout() time.Duration {
	return time.Duration(c.ScrapeTimeoutSeconds) * time.Second
}

// CacheTTL returns the default cache entry lifetime.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
