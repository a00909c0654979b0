// Package embedder turns arbitrary text into embedding vectors through a
// bounded-concurrency wrapper around a pluggable backend.
//
// # Admission and latency budgets
//
// Backends can be slow and stateful, so every call passes through a
// weighted semaphore (default limit 1, i.e. fully serialized) and a
// per-call timeout. Queued callers wait in FIFO order; a call that blows
// its latency budget fails with types.ErrEmbedTimeout, releases its
// admission slot, and drops the backend's eventual answer. The embedder
// never retries; that policy belongs to the caller.
//
// # Backends
//
//	openai — OpenAI embeddings API via sashabaranov/go-openai
//	local  — deterministic hash-derived vectors, offline fallback
//
// Backend selection follows configuration, then API-key auto-detection,
// then the local fallback:
//
//	backend, err := embedder.NewBackend("", os.Getenv("OPENAI_API_KEY"), "")
//	emb := embedder.NewLimited(backend, 1, 20*time.Second, embedder.NewCache(10000), logger)
//	emb.Warmup() // pay cold-start cost off the query path
//
// # Caching
//
// Results are cached by SHA-256 content hash in an LRU cache, so
// repeated queries for the same text skip the backend entirely.
package embedder
