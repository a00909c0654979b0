package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Common errors
var (
	ErrEmptyText           = errors.New("text cannot be empty")
	ErrNoProviderEnabled   = errors.New("no embedding provider configured")
	ErrUnsupportedProvider = errors.New("unsupported embedding provider")
)

// Backend generates an embedding vector for arbitrary text. Backends may
// be slow and cold-starting: Init performs any one-time warm-up and is
// guaranteed to be called at most once before the first Embed.
type Backend interface {
	Init(ctx context.Context) error
	Embed(ctx context.Context, text string) ([]float64, error)
	// Label identifies the backend and model for response metadata.
	Label() string
}

// Cache provides in-memory LRU caching of embedding vectors keyed by
// content hash.
type Cache struct {
	cache *lru.Cache[string, []float64]
}

// NewCache creates an embedding cache with LRU eviction.
func NewCache(maxLen int) *Cache {
	if maxLen <= 0 {
		maxLen = 10000
	}
	cache, err := lru.New[string, []float64](maxLen)
	if err != nil {
		// Only possible with a non-positive size.
		cache, _ = lru.New[string, []float64](10000)
	}
	return &Cache{cache: cache}
}

// Get retrieves a copy of a cached vector so caller mutations cannot
// pollute the cache.
func (c *Cache) Get(hash string) ([]float64, bool) {
	vec, ok := c.cache.Get(hash)
	if !ok {
		return nil, false
	}
	out := make([]float64, len(vec))
	copy(out, vec)
	return out, true
}

// Set stores a vector; LRU eviction is automatic at capacity.
func (c *Cache) Set(hash string, vec []float64) {
	c.cache.Add(hash, vec)
}

// Size returns the current cache size.
func (c *Cache) Size() int {
	return c.cache.Len()
}

// ComputeHash computes the SHA-256 hash of text for cache keying.
func ComputeHash(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}
