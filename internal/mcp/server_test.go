package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/notectx/notectx-mcp/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	vaultDir := t.TempDir()
	return &config.Config{
		VaultPath:         vaultDir,
		VectorStorePath:   filepath.Join(vaultDir, ".smart-env"),
		CacheTTL:          time.Minute,
		PluginTimeout:     time.Second,
		PluginRetries:     1,
		EmbedConcurrency:  1,
		EmbedTimeout:      time.Second,
		EmbedCacheSize:    100,
		EmbeddingProvider: "local",
	}
}

func testServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	srv, err := NewServer(cfg, zap.NewNop())
	require.NoError(t, err)
	return srv
}

func callArgs(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultJSON(t *testing.T, result *mcp.CallToolResult) map[string]interface{} {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "tool result should be text content")
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &payload))
	return payload
}

func TestNewServer(t *testing.T) {
	t.Run("server has all required components", func(t *testing.T) {
		srv := testServer(t, testConfig(t))

		assert.NotNil(t, srv.mcp, "MCP server should be initialized")
		assert.NotNil(t, srv.retriever, "Retriever should be initialized")
		assert.NotNil(t, srv.cache, "Vector cache should be initialized")
		assert.NotNil(t, srv.embedder, "Embedder should be initialized")
		assert.NotNil(t, srv.plugin, "Plugin client should be initialized")
	})

	t.Run("unsupported provider fails construction", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.EmbeddingProvider = "mystery"
		_, err := NewServer(cfg, zap.NewNop())
		require.Error(t, err)
	})
}

func TestSearchVaultValidation(t *testing.T) {
	srv := testServer(t, testConfig(t))

	tests := []struct {
		name     string
		args     map[string]interface{}
		wantCode int
	}{
		{
			name:     "missing query and anchor_path",
			args:     map[string]interface{}{},
			wantCode: ErrorCodeEmptyQuery,
		},
		{
			name:     "limit below range",
			args:     map[string]interface{}{"query": "q", "limit": float64(0)},
			wantCode: ErrorCodeInvalidParams,
		},
		{
			name:     "limit above range",
			args:     map[string]interface{}{"query": "q", "limit": float64(500)},
			wantCode: ErrorCodeInvalidParams,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := srv.handleSearchVault(context.Background(), callArgs("search_vault", tt.args))
			require.Error(t, err)
			var mcpErr *MCPError
			require.ErrorAs(t, err, &mcpErr)
			assert.Equal(t, tt.wantCode, mcpErr.Code)
		})
	}

	t.Run("non-map arguments rejected", func(t *testing.T) {
		req := mcp.CallToolRequest{Params: mcp.CallToolParams{Name: "search_vault", Arguments: "nope"}}
		_, err := srv.handleSearchVault(context.Background(), req)
		require.Error(t, err)
		var mcpErr *MCPError
		require.ErrorAs(t, err, &mcpErr)
		assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
	})
}

func TestSearchVaultLexicalFallback(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.VaultPath, "gardening.md"),
		[]byte("Planting tomatoes and pruning roses in spring"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.VaultPath, "finance.md"),
		[]byte("Budget spreadsheets and quarterly tax filings"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.VaultPath, "cooking.md"),
		[]byte("Recipes for pasta and risotto with parmesan"), 0o644))
	srv := testServer(t, cfg)

	result, err := srv.handleSearchVault(context.Background(), callArgs("search_vault", map[string]interface{}{
		"query": "Planting tomatoes and pruning roses in spring",
	}))
	require.NoError(t, err)

	payload := resultJSON(t, result)
	assert.Equal(t, "lexical", payload["method"])
	results, ok := payload["results"].([]interface{})
	require.True(t, ok)
	require.NotEmpty(t, results)
	first, ok := results[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "gardening.md", first["path"])
}

func TestSearchVaultEmptyVault(t *testing.T) {
	srv := testServer(t, testConfig(t))

	result, err := srv.handleSearchVault(context.Background(), callArgs("search_vault", map[string]interface{}{
		"query": "anything at all",
	}))
	require.NoError(t, err)

	payload := resultJSON(t, result)
	assert.Equal(t, float64(0), payload["count"])
	assert.Equal(t, "lexical", payload["method"])
}

func TestRefreshVectorCache(t *testing.T) {
	srv := testServer(t, testConfig(t))

	result, err := srv.handleRefreshVectorCache(context.Background(), callArgs("refresh_vector_cache", nil))
	require.NoError(t, err)

	payload := resultJSON(t, result)
	assert.Equal(t, true, payload["refreshed"])
}

func TestGetStatus(t *testing.T) {
	cfg := testConfig(t)
	srv := testServer(t, cfg)

	result, err := srv.handleGetStatus(context.Background(), callArgs("get_status", nil))
	require.NoError(t, err)

	payload := resultJSON(t, result)

	serverInfo, ok := payload["server"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, ServerName, serverInfo["name"])

	pluginInfo, ok := payload["plugin"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, false, pluginInfo["configured"], "no base URL or key configured")

	embeddingInfo, ok := payload["embedding"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "local/hash-v1", embeddingInfo["encoder"])
}
