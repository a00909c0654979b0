package types

// RetrievalMethod identifies which provider produced a retrieval response.
type RetrievalMethod string

const (
	MethodPlugin  RetrievalMethod = "plugin"
	MethodCache   RetrievalMethod = "cache"
	MethodEmbed   RetrievalMethod = "embed"
	MethodLexical RetrievalMethod = "lexical"
)

// ScoredResult is a single ranked note. Transient: produced per query,
// never persisted.
type ScoredResult struct {
	Path    string  `json:"path"`
	Score   float64 `json:"score"`
	Preview string  `json:"preview,omitempty"`
}

// NoteVector pairs a vault-relative note path with its embedding vector
// and precomputed L2 norm. Owned by the vector cache; rebuilt wholesale
// on every refresh, never mutated in place.
type NoteVector struct {
	Path   string
	Vector []float64
	Norm   float64
}

// RetrievalRequest describes a single retrieval query.
type RetrievalRequest struct {
	// Query is the free-text search query.
	Query string
	// AnchorPath optionally names a vault note whose cached vector should
	// be used as the ranking anchor instead of embedding Query.
	AnchorPath string
	// Limit bounds the number of results. A pool smaller than Limit is
	// not an error.
	Limit int
}

// RetrievalResponse is the unified response contract across all providers.
type RetrievalResponse struct {
	Method       RetrievalMethod `json:"method"`
	Results      []ScoredResult  `json:"results"`
	EncoderLabel string          `json:"encoder_label"`
	Dimension    int             `json:"dimension"`
	PoolSize     int             `json:"pool_size"`
	ElapsedMs    int64           `json:"elapsed_ms"`
}
