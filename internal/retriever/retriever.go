// Package retriever orchestrates the heterogeneous retrieval providers
// behind one response contract. A query walks the provider chain in
// priority order — remote plugin, cached note vector, on-demand
// embedding, lexical TF-IDF — and stops at the first non-empty result
// set. Scores from different providers are never comparable, so result
// sets are never blended across providers.
package retriever

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/notectx/notectx-mcp/internal/lexical"
	"github.com/notectx/notectx-mcp/internal/similarity"
	"github.com/notectx/notectx-mcp/internal/vault"
	"github.com/notectx/notectx-mcp/pkg/types"
)

const (
	// DefaultLimit applies when a request does not bound its results.
	DefaultLimit = 10
	// MaxLimit caps any requested limit.
	MaxLimit = 100

	lexicalEncoderLabel = "tf-idf"
	pluginEncoderLabel  = "plugin"
)

// PluginSearcher is the remote plugin provider boundary.
type PluginSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]types.ScoredResult, error)
}

// VectorCache is the precomputed vector pool boundary.
type VectorCache interface {
	Pool(ctx context.Context) []types.NoteVector
	Lookup(ctx context.Context, path string) (types.NoteVector, bool)
}

// Embedder is the on-demand embedding boundary.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	Label() string
}

// Options tunes aggregator policy.
type Options struct {
	// PluginRequired propagates an exhausted-retry plugin error as a
	// terminal failure instead of falling through to the next provider.
	PluginRequired bool
	// StoreLabel names the encoder for results ranked against the
	// precomputed vector store.
	StoreLabel string
}

// Retriever walks the provider chain for each query. Any provider may be
// nil, in which case its stage is skipped.
type Retriever struct {
	plugin PluginSearcher
	cache  VectorCache
	embed  Embedder
	notes  vault.Source
	opts   Options
	logger *zap.Logger
}

// New creates a Retriever over the given providers.
func New(plugin PluginSearcher, cache VectorCache, embed Embedder, notes vault.Source, opts Options, logger *zap.Logger) *Retriever {
	if opts.StoreLabel == "" {
		opts.StoreLabel = "vector-store"
	}
	return &Retriever{
		plugin: plugin,
		cache:  cache,
		embed:  embed,
		notes:  notes,
		opts:   opts,
		logger: logger,
	}
}

// Retrieve answers one query. Exhausting every provider without a raised
// error is a valid outcome: the response carries an empty result set and
// the method of the last attempted provider.
func (r *Retriever) Retrieve(ctx context.Context, req types.RetrievalRequest) (*types.RetrievalResponse, error) {
	start := time.Now()
	logger := r.logger.With(
		zap.String("query_id", uuid.NewString()),
		zap.String("query", req.Query))

	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	// Last attempted provider; reported even when every stage comes up
	// empty.
	method := types.MethodLexical
	empty := func() *types.RetrievalResponse {
		return &types.RetrievalResponse{
			Method:    method,
			Results:   []types.ScoredResult{},
			ElapsedMs: elapsedMs(start),
		}
	}

	// TryPlugin
	if r.plugin != nil && req.Query != "" {
		method = types.MethodPlugin
		results, err := r.plugin.Search(ctx, req.Query, limit)
		switch {
		case err != nil && ctx.Err() != nil:
			return nil, err
		case err != nil && r.opts.PluginRequired:
			return nil, err
		case err != nil:
			logger.Warn("plugin search failed, trying next provider", zap.Error(err))
		case len(results) > 0:
			logger.Debug("plugin search hit", zap.Int("results", len(results)))
			return &types.RetrievalResponse{
				Method:       types.MethodPlugin,
				Results:      truncate(results, limit),
				EncoderLabel: pluginEncoderLabel,
				PoolSize:     len(results),
				ElapsedMs:    elapsedMs(start),
			}, nil
		}
	}

	// TryCache: rank against the anchor note's precomputed vector.
	if r.cache != nil && req.AnchorPath != "" {
		method = types.MethodCache
		if anchor, ok := r.cache.Lookup(ctx, req.AnchorPath); ok {
			pool := r.cache.Pool(ctx)
			// One extra slot so dropping the anchor itself still fills
			// the limit.
			ranked := similarity.TopK(anchor.Vector, anchor.Norm, pool, limit+1)
			results := dropPath(ranked, anchor.Path, limit)
			if len(results) > 0 {
				logger.Debug("vector cache hit", zap.Int("pool", len(pool)))
				return &types.RetrievalResponse{
					Method:       types.MethodCache,
					Results:      results,
					EncoderLabel: r.opts.StoreLabel,
					Dimension:    len(anchor.Vector),
					PoolSize:     len(pool),
					ElapsedMs:    elapsedMs(start),
				}, nil
			}
		}
	}

	// TryEmbedThenRank: embed the query and rank against the cached pool.
	if r.embed != nil && r.cache != nil && req.Query != "" {
		if pool := r.cache.Pool(ctx); len(pool) > 0 {
			method = types.MethodEmbed
			anchor, err := r.embed.Embed(ctx, req.Query)
			switch {
			case err != nil && ctx.Err() != nil:
				return nil, err
			case err != nil:
				// Timeouts and backend failures are absorbed here; the
				// lexical path still stands.
				logger.Warn("query embedding failed, trying next provider", zap.Error(err))
			default:
				results := similarity.TopK(anchor, similarity.Norm(anchor), pool, limit)
				if len(results) > 0 {
					logger.Debug("embed search hit", zap.Int("pool", len(pool)))
					return &types.RetrievalResponse{
						Method:       types.MethodEmbed,
						Results:      results,
						EncoderLabel: r.embed.Label(),
						Dimension:    len(anchor),
						PoolSize:     len(pool),
						ElapsedMs:    elapsedMs(start),
					}, nil
				}
			}
		}
	}

	// TryLexical: TF-IDF over the vault corpus.
	if r.notes != nil && req.Query != "" {
		method = types.MethodLexical
		notes, err := r.notes.ListNotes(ctx)
		if err != nil {
			return nil, err
		}
		if len(notes) > 0 {
			docs := make([]lexical.Document, len(notes))
			for i, n := range notes {
				docs[i] = lexical.Document{Path: n.Path, Text: n.Content}
			}
			ix := lexical.NewIndex(docs)
			results := dropNonPositive(ix.Query(req.Query))
			if len(results) > 0 {
				logger.Debug("lexical search hit", zap.Int("corpus", len(notes)))
				return &types.RetrievalResponse{
					Method:       types.MethodLexical,
					Results:      truncate(results, limit),
					EncoderLabel: lexicalEncoderLabel,
					Dimension:    0,
					PoolSize:     len(notes),
					ElapsedMs:    elapsedMs(start),
				}, nil
			}
		}
	}

	logger.Debug("no provider produced results")
	return empty(), nil
}

func elapsedMs(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}

func truncate(results []types.ScoredResult, limit int) []types.ScoredResult {
	if limit < len(results) {
		return results[:limit]
	}
	return results
}

// dropPath removes the anchor note from its own result list.
func dropPath(results []types.ScoredResult, path string, limit int) []types.ScoredResult {
	out := make([]types.ScoredResult, 0, len(results))
	for _, r := range results {
		if r.Path == path {
			continue
		}
		out = append(out, r)
	}
	return truncate(out, limit)
}

// dropNonPositive removes documents the query shares no terms with;
// returning them would pad the response with irrelevant notes and make
// "no relevant notes found" unreachable.
func dropNonPositive(results []types.ScoredResult) []types.ScoredResult {
	out := make([]types.ScoredResult, 0, len(results))
	for _, r := range results {
		if r.Score > 0 {
			out = append(out, r)
		}
	}
	return out
}
