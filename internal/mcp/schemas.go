package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// searchVaultTool returns the tool definition for search_vault
func searchVaultTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_vault",
		Description: "Find vault notes relevant to a query or similar to an existing note",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Free-text search query",
				},
				"anchor_path": map[string]interface{}{
					"type":        "string",
					"description": "Vault-relative note path to find similar notes for (uses its precomputed vector)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-100)",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
			},
		},
	}
}

// refreshVectorCacheTool returns the tool definition for refresh_vector_cache
func refreshVectorCacheTool() mcp.Tool {
	return mcp.Tool{
		Name:        "refresh_vector_cache",
		Description: "Invalidate the cached vector pool so the next search reloads from the vector store (use after re-indexing the vault)",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Report retrieval configuration and cache state",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
