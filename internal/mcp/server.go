package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/notectx/notectx-mcp/internal/config"
	"github.com/notectx/notectx-mcp/internal/embedder"
	"github.com/notectx/notectx-mcp/internal/plugin"
	"github.com/notectx/notectx-mcp/internal/retriever"
	"github.com/notectx/notectx-mcp/internal/vault"
	"github.com/notectx/notectx-mcp/internal/vectorstore"
)

const (
	// ServerName is the MCP server name.
	ServerName = "notectx-mcp"
	// ServerVersion is the current server version.
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with the retrieval components.
type Server struct {
	mcp       *server.MCPServer
	cfg       *config.Config
	retriever *retriever.Retriever
	cache     *vectorstore.Cache
	embedder  *embedder.Limited
	plugin    *plugin.Client
	logger    *zap.Logger
}

// NewServer wires the retrieval stack from configuration.
func NewServer(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	backend, err := embedder.NewBackend(cfg.EmbeddingProvider, cfg.OpenAIKey, cfg.EmbeddingModel)
	if err != nil {
		return nil, err
	}
	limited := embedder.NewLimited(backend, cfg.EmbedConcurrency, cfg.EmbedTimeout,
		embedder.NewCache(cfg.EmbedCacheSize), logger)

	loader := vectorstore.NewDirLoader(cfg.VectorStorePath, cfg.PreferredModel, logger)
	cache := vectorstore.NewCache(loader, cfg.CacheTTL, cfg.CacheMaxItems, logger)

	pluginClient := plugin.NewClient(cfg.PluginBaseURL, cfg.PluginAPIKey,
		cfg.PluginTimeout, cfg.PluginRetries, logger)

	notes := vault.NewFSSource(cfg.VaultPath, logger)

	retr := retriever.New(pluginClient, cache, limited, notes, retriever.Options{
		PluginRequired: cfg.PluginRequired,
		StoreLabel:     cfg.PreferredModel,
	}, logger)

	s := &Server{
		mcp:       server.NewMCPServer(ServerName, ServerVersion),
		cfg:       cfg,
		retriever: retr,
		cache:     cache,
		embedder:  limited,
		plugin:    pluginClient,
		logger:    logger,
	}
	s.registerTools()
	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown. The
// embedding backend warms up off the query path, and the vector store is
// watched so an external re-index invalidates the cache.
func (s *Server) Serve(ctx context.Context) error {
	s.embedder.Warmup()
	if s.cfg.VectorStorePath != "" {
		if err := vectorstore.Watch(ctx, s.cfg.VectorStorePath, s.cache, s.logger); err != nil {
			s.logger.Warn("vector store watch unavailable", zap.Error(err))
		}
	}
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchVaultTool(), s.handleSearchVault)
	s.mcp.AddTool(refreshVectorCacheTool(), s.handleRefreshVectorCache)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
}
