// Package config centralizes configuration for the retrieval server.
// Everything loads from environment variables with validation and
// defaults; main loads a .env file first so local setups stay simple.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the retrieval system.
type Config struct {
	// Vault settings
	VaultPath       string
	VectorStorePath string

	// Vector cache settings
	CacheTTL      time.Duration
	CacheMaxItems int // 0 means unlimited

	// Remote plugin settings
	PluginBaseURL  string
	PluginAPIKey   string
	PluginTimeout  time.Duration
	PluginRetries  int
	PluginRequired bool // propagate plugin failure instead of falling through

	// Embedding settings
	EmbedConcurrency  int
	EmbedTimeout      time.Duration
	EmbedCacheSize    int
	EmbeddingProvider string // openai, local, or empty for auto-detect
	EmbeddingModel    string
	OpenAIKey         string

	// PreferredModel selects which model's vector to read from store
	// records that carry several embeddings.
	PreferredModel string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		VaultPath:         os.Getenv("NOTECTX_VAULT_PATH"),
		VectorStorePath:   os.Getenv("NOTECTX_VECTOR_STORE_PATH"),
		CacheTTL:          getEnvMillis("NOTECTX_CACHE_TTL_MS", 60000),
		CacheMaxItems:     getEnvInt("NOTECTX_CACHE_MAX_ITEMS", 0),
		PluginBaseURL:     os.Getenv("NOTECTX_PLUGIN_BASE_URL"),
		PluginAPIKey:      os.Getenv("NOTECTX_PLUGIN_API_KEY"),
		PluginTimeout:     getEnvMillis("NOTECTX_PLUGIN_TIMEOUT_MS", 15000),
		PluginRetries:     getEnvInt("NOTECTX_PLUGIN_RETRIES", 2),
		PluginRequired:    getEnvBool("NOTECTX_PLUGIN_REQUIRED", false),
		EmbedConcurrency:  getEnvInt("NOTECTX_EMBED_CONCURRENCY", 1),
		EmbedTimeout:      getEnvMillis("NOTECTX_EMBED_TIMEOUT_MS", 20000),
		EmbedCacheSize:    getEnvInt("NOTECTX_EMBED_CACHE_SIZE", 10000),
		EmbeddingProvider: os.Getenv("NOTECTX_EMBEDDING_PROVIDER"),
		EmbeddingModel:    os.Getenv("NOTECTX_EMBEDDING_MODEL"),
		OpenAIKey:         os.Getenv("OPENAI_API_KEY"),
		PreferredModel:    os.Getenv("NOTECTX_PREFERRED_MODEL"),
	}

	return cfg, cfg.Validate()
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.CacheTTL <= 0 {
		return fmt.Errorf("NOTECTX_CACHE_TTL_MS must be positive, got %s", c.CacheTTL)
	}
	if c.CacheMaxItems < 0 {
		return fmt.Errorf("NOTECTX_CACHE_MAX_ITEMS must be >= 0, got %d", c.CacheMaxItems)
	}
	if c.PluginRetries < 0 || c.PluginRetries > 10 {
		return fmt.Errorf("NOTECTX_PLUGIN_RETRIES must be 0-10, got %d", c.PluginRetries)
	}
	if c.EmbedConcurrency < 1 || c.EmbedConcurrency > 64 {
		return fmt.Errorf("NOTECTX_EMBED_CONCURRENCY must be 1-64, got %d", c.EmbedConcurrency)
	}
	if c.EmbedTimeout <= 0 {
		return fmt.Errorf("NOTECTX_EMBED_TIMEOUT_MS must be positive, got %s", c.EmbedTimeout)
	}
	return nil
}

// Helper functions

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvMillis(key string, defaultMs int) time.Duration {
	return time.Duration(getEnvInt(key, defaultMs)) * time.Millisecond
}
