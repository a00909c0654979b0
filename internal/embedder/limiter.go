package embedder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/notectx/notectx-mcp/pkg/types"
)

// Limited wraps a Backend behind a bounded-concurrency admission queue
// and a per-call timeout. At most `concurrency` embed calls are in
// flight at once; excess callers queue in FIFO order on the semaphore.
// The backend handle is initialized lazily and exactly once; concurrent
// first callers share the in-flight initialization.
type Limited struct {
	backend Backend
	sem     *semaphore.Weighted
	timeout time.Duration
	cache   *Cache
	logger  *zap.Logger

	initOnce sync.Once
	initErr  error
}

// NewLimited creates a concurrency-limited embedder. concurrency
// defaults to 1 (full serialization) when non-positive. cache may be nil
// to disable result caching.
func NewLimited(backend Backend, concurrency int, timeout time.Duration, cache *Cache, logger *zap.Logger) *Limited {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Limited{
		backend: backend,
		sem:     semaphore.NewWeighted(int64(concurrency)),
		timeout: timeout,
		cache:   cache,
		logger:  logger,
	}
}

// Embed produces a vector for text. Backend failures and timeouts
// propagate to the caller and are never retried here; retry policy
// belongs to the caller.
func (l *Limited) Embed(ctx context.Context, text string) ([]float64, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	var hash string
	if l.cache != nil {
		hash = ComputeHash(text)
		if vec, ok := l.cache.Get(hash); ok {
			return vec, nil
		}
	}

	if err := l.init(ctx); err != nil {
		return nil, fmt.Errorf("backend init: %w", err)
	}

	if err := l.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer l.sem.Release(1)

	callCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	type result struct {
		vec []float64
		err error
	}
	// Buffered so a late backend return after timeout is dropped on the
	// floor instead of leaking into shared state.
	ch := make(chan result, 1)
	go func() {
		vec, err := l.backend.Embed(callCtx, text)
		ch <- result{vec, err}
	}()

	select {
	case <-callCtx.Done():
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: backend exceeded %s", types.ErrEmbedTimeout, l.timeout)
	case res := <-ch:
		if res.err != nil {
			return nil, res.err
		}
		if l.cache != nil {
			l.cache.Set(hash, res.vec)
		}
		return res.vec, nil
	}
}

// Warmup triggers backend initialization off the query's critical path.
// Best effort: failures are logged and discarded; the next Embed will
// observe the same initialization outcome.
func (l *Limited) Warmup() {
	go func() {
		if err := l.init(context.Background()); err != nil {
			l.logger.Debug("embedder warmup failed", zap.Error(err))
		}
	}()
}

// Label reports the underlying backend label.
func (l *Limited) Label() string {
	return l.backend.Label()
}

func (l *Limited) init(ctx context.Context) error {
	l.initOnce.Do(func() {
		start := time.Now()
		l.initErr = l.backend.Init(ctx)
		if l.initErr == nil {
			l.logger.Debug("embedding backend initialized",
				zap.String("backend", l.backend.Label()),
				zap.Duration("elapsed", time.Since(start)))
		}
	})
	return l.initErr
}
