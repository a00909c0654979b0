package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/notectx/notectx-mcp/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
	ErrorCodePluginFailed  = -32001 // Required plugin endpoint could not be reached
	ErrorCodeEmptyQuery    = -32004 // Neither query nor anchor_path provided
)

// handleSearchVault handles the search_vault tool invocation
func (s *Server) handleSearchVault(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query := getStringDefault(args, "query", "")
	anchorPath := getStringDefault(args, "anchor_path", "")
	if query == "" && anchorPath == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "either query or anchor_path is required", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	limit := getIntDefault(args, "limit", 10)
	if limit < 1 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	resp, err := s.retriever.Retrieve(ctx, types.RetrievalRequest{
		Query:      query,
		AnchorPath: anchorPath,
		Limit:      limit,
	})
	if err != nil {
		if errors.Is(err, types.ErrPluginFailed) {
			return nil, newMCPError(ErrorCodePluginFailed, "plugin search failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return nil, newMCPError(ErrorCodeInternalError, "retrieval failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	results := make([]map[string]interface{}, 0, len(resp.Results))
	for _, r := range resp.Results {
		entry := map[string]interface{}{
			"path":  r.Path,
			"score": r.Score,
		}
		if r.Preview != "" {
			entry["preview"] = r.Preview
		}
		results = append(results, entry)
	}

	response := map[string]interface{}{
		"method":     string(resp.Method),
		"results":    results,
		"count":      len(results),
		"elapsed_ms": resp.ElapsedMs,
	}
	if resp.EncoderLabel != "" {
		response["encoder"] = resp.EncoderLabel
	}
	if resp.Dimension > 0 {
		response["dimension"] = resp.Dimension
	}
	if resp.PoolSize > 0 {
		response["pool_size"] = resp.PoolSize
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleRefreshVectorCache handles the refresh_vector_cache tool invocation
func (s *Server) handleRefreshVectorCache(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.cache.Invalidate()
	s.logger.Info("vector cache invalidated by tool call")

	response := map[string]interface{}{
		"refreshed": true,
		"message":   "Vector cache invalidated. The next search reloads from the vector store.",
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	response := map[string]interface{}{
		"server": map[string]interface{}{
			"name":    ServerName,
			"version": ServerVersion,
		},
		"vault": map[string]interface{}{
			"path":              s.cfg.VaultPath,
			"vector_store_path": s.cfg.VectorStorePath,
		},
		"cache": map[string]interface{}{
			"cached_vectors": s.cache.Size(),
			"ttl_ms":         s.cfg.CacheTTL.Milliseconds(),
			"max_items":      s.cfg.CacheMaxItems,
		},
		"plugin": map[string]interface{}{
			"configured": s.plugin.Configured(),
			"required":   s.cfg.PluginRequired,
		},
		"embedding": map[string]interface{}{
			"encoder":     s.embedder.Label(),
			"concurrency": s.cfg.EmbedConcurrency,
			"timeout_ms":  s.cfg.EmbedTimeout.Milliseconds(),
		},
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
