package vectorstore

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch invalidates the cache whenever the external indexing tool rewrites
// the store directory, so a vault re-index is picked up without waiting
// for the TTL. It returns once the watcher is installed; event handling
// runs until ctx is cancelled. A missing store directory is not an error:
// the watcher simply has nothing to observe yet.
func Watch(ctx context.Context, root string, cache *Cache, logger *zap.Logger) error {
	dir := filepath.Join(root, StoreSubdir)
	if _, err := os.Stat(dir); err != nil {
		logger.Debug("vector store watch skipped", zap.String("dir", dir), zap.Error(err))
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return err
	}

	go func() {
		defer func() { _ = watcher.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
					logger.Debug("vector store changed, invalidating cache",
						zap.String("file", event.Name))
					cache.Invalidate()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("vector store watch error", zap.Error(err))
			}
		}
	}()

	return nil
}
