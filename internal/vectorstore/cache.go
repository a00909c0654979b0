// Package vectorstore serves note vectors that an external indexing tool
// has persisted on disk. Loads go through a TTL snapshot cache so queries
// do not re-scan the store directory; the snapshot is replaced wholesale
// and swapped atomically, so concurrent readers never observe a
// half-built pool.
package vectorstore

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/notectx/notectx-mcp/internal/similarity"
	"github.com/notectx/notectx-mcp/pkg/types"
)

// Loader supplies the full vector pool from the backing store.
type Loader interface {
	LoadAll(ctx context.Context) []types.NoteVector
}

// snapshot is an immutable capture of the loaded pool with an expiry.
type snapshot struct {
	expiresAt time.Time
	vectors   []types.NoteVector
}

// Cache wraps a Loader with TTL-based reuse and an optional size cap.
// It is an explicitly owned object, not process-global state; multiple
// independent vaults can each carry their own Cache.
type Cache struct {
	loader   Loader
	ttl      time.Duration
	maxItems int
	logger   *zap.Logger

	snap  atomic.Pointer[snapshot]
	group singleflight.Group
}

// NewCache creates a cache over loader. ttl bounds snapshot reuse;
// maxItems caps the pool size when positive (0 means unlimited),
// truncating to a stable prefix of load order.
func NewCache(loader Loader, ttl time.Duration, maxItems int, logger *zap.Logger) *Cache {
	return &Cache{
		loader:   loader,
		ttl:      ttl,
		maxItems: maxItems,
		logger:   logger,
	}
}

// Pool returns the current vector pool, reloading from the store when the
// snapshot is absent or expired. Concurrent callers during a reload are
// coalesced onto a single load; readers keep the previous snapshot until
// the new one is fully assembled.
func (c *Cache) Pool(ctx context.Context) []types.NoteVector {
	if s := c.snap.Load(); s != nil && time.Now().Before(s.expiresAt) {
		return s.vectors
	}

	v, _, _ := c.group.Do("reload", func() (interface{}, error) {
		// A waiter may arrive just after the flight that refreshed the
		// snapshot completed; re-check before loading again.
		if s := c.snap.Load(); s != nil && time.Now().Before(s.expiresAt) {
			return s.vectors, nil
		}

		start := time.Now()
		vectors := c.loader.LoadAll(ctx)
		if c.maxItems > 0 && len(vectors) > c.maxItems {
			vectors = vectors[:c.maxItems]
		}
		for i := range vectors {
			vectors[i].Norm = similarity.Norm(vectors[i].Vector)
		}

		c.snap.Store(&snapshot{
			expiresAt: time.Now().Add(c.ttl),
			vectors:   vectors,
		})
		c.logger.Info("vector cache reloaded",
			zap.Int("vectors", len(vectors)),
			zap.Duration("elapsed", time.Since(start)))
		return vectors, nil
	})
	return v.([]types.NoteVector)
}

// Query ranks the pool against the anchor vector and returns the top k
// results. Pool vectors may come from heterogeneous sources, so ranking
// uses shared-prefix cosine semantics.
func (c *Cache) Query(ctx context.Context, anchor []float64, k int) []types.ScoredResult {
	return similarity.TopK(anchor, similarity.Norm(anchor), c.Pool(ctx), k)
}

// Lookup finds the cached vector for a vault-relative note path.
func (c *Cache) Lookup(ctx context.Context, path string) (types.NoteVector, bool) {
	for _, nv := range c.Pool(ctx) {
		if nv.Path == path {
			return nv, true
		}
	}
	return types.NoteVector{}, false
}

// Invalidate forces the next query to reload regardless of expiry.
func (c *Cache) Invalidate() {
	c.snap.Store(nil)
}

// Size reports the current snapshot's pool size, 0 when unloaded.
func (c *Cache) Size() int {
	if s := c.snap.Load(); s != nil {
		return len(s.vectors)
	}
	return 0
}
