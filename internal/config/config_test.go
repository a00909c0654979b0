package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, 60*time.Second, cfg.CacheTTL)
	require.Equal(t, 0, cfg.CacheMaxItems)
	require.Equal(t, 15*time.Second, cfg.PluginTimeout)
	require.Equal(t, 2, cfg.PluginRetries)
	require.False(t, cfg.PluginRequired)
	require.Equal(t, 1, cfg.EmbedConcurrency)
	require.Equal(t, 20*time.Second, cfg.EmbedTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("NOTECTX_VAULT_PATH", "/vault")
	t.Setenv("NOTECTX_VECTOR_STORE_PATH", "/vault/.smart-env")
	t.Setenv("NOTECTX_CACHE_TTL_MS", "5000")
	t.Setenv("NOTECTX_CACHE_MAX_ITEMS", "250")
	t.Setenv("NOTECTX_PLUGIN_BASE_URL", "http://127.0.0.1:27123")
	t.Setenv("NOTECTX_PLUGIN_API_KEY", "token")
	t.Setenv("NOTECTX_PLUGIN_RETRIES", "1")
	t.Setenv("NOTECTX_PLUGIN_REQUIRED", "true")
	t.Setenv("NOTECTX_EMBED_CONCURRENCY", "4")
	t.Setenv("NOTECTX_PREFERRED_MODEL", "bge-micro")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "/vault", cfg.VaultPath)
	require.Equal(t, "/vault/.smart-env", cfg.VectorStorePath)
	require.Equal(t, 5*time.Second, cfg.CacheTTL)
	require.Equal(t, 250, cfg.CacheMaxItems)
	require.Equal(t, "http://127.0.0.1:27123", cfg.PluginBaseURL)
	require.Equal(t, "token", cfg.PluginAPIKey)
	require.Equal(t, 1, cfg.PluginRetries)
	require.True(t, cfg.PluginRequired)
	require.Equal(t, 4, cfg.EmbedConcurrency)
	require.Equal(t, "bge-micro", cfg.PreferredModel)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults valid", mutate: func(c *Config) {}},
		{name: "zero ttl", mutate: func(c *Config) { c.CacheTTL = 0 }, wantErr: true},
		{name: "negative max items", mutate: func(c *Config) { c.CacheMaxItems = -1 }, wantErr: true},
		{name: "retries too high", mutate: func(c *Config) { c.PluginRetries = 99 }, wantErr: true},
		{name: "zero concurrency", mutate: func(c *Config) { c.EmbedConcurrency = 0 }, wantErr: true},
		{name: "zero embed timeout", mutate: func(c *Config) { c.EmbedTimeout = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			require.NoError(t, err)
			tt.mutate(cfg)
			err = cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
