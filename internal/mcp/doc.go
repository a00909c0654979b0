// Package mcp implements the Model Context Protocol (MCP) server for
// note retrieval over a personal knowledge-base vault.
//
// The server exposes three tools to AI assistants:
//   - search_vault: Find notes relevant to a query or similar to a note
//   - refresh_vector_cache: Invalidate the cached vector pool
//   - get_status: Report retrieval configuration and cache state
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// Stdout is reserved for protocol messages; all logging goes to stderr.
//
// # Tool: search_vault
//
// Retrieve notes by free-text query or by similarity to an anchor note:
//
//	Request:
//	{
//	  "name": "search_vault",
//	  "arguments": {
//	    "query": "garden planning for spring",
//	    "limit": 10
//	  }
//	}
//
//	Response:
//	{
//	  "method": "embed",
//	  "encoder": "openai/text-embedding-3-small",
//	  "results": [
//	    {"path": "gardening/spring.md", "score": 0.87}
//	  ],
//	  "count": 1,
//	  "pool_size": 312,
//	  "elapsed_ms": 42
//	}
//
// The method field names the provider that produced the results: plugin,
// cache, embed, or lexical. Providers are tried in that priority order
// and the first non-empty result set wins; scores from different
// providers are never comparable.
//
// Passing anchor_path instead of query ranks the vault against an
// existing note's precomputed vector, with the anchor itself excluded
// from its own results.
//
// # Tool: refresh_vector_cache
//
// Invalidate the in-memory vector pool after re-indexing the vault:
//
//	Request:  {"name": "refresh_vector_cache", "arguments": {}}
//	Response: {"refreshed": true, ...}
//
// # Tool: get_status
//
// Report server, cache, plugin, and embedding configuration:
//
//	Request:  {"name": "get_status", "arguments": {}}
//	Response: {"server": {...}, "cache": {...}, "plugin": {...}, ...}
//
// # Error Handling
//
// Tools return standard JSON-RPC error responses. Error codes:
//   - -32602: Invalid params (bad limit, malformed arguments)
//   - -32603: Internal error
//   - -32001: Required plugin endpoint failed
//   - -32004: Neither query nor anchor_path provided
package mcp
