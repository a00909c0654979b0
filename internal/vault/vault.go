// Package vault gives read-only access to the notes in a personal
// knowledge-base vault. Retrieval only ever consumes note text (to build
// the lexical fallback corpus); nothing here writes to the vault.
package vault

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Note is one vault note with its vault-relative, POSIX-separated path.
type Note struct {
	Path    string
	Content string
}

// Source enumerates the notes available as corpus text.
type Source interface {
	ListNotes(ctx context.Context) ([]Note, error)
}

// FSSource reads markdown notes from a vault directory on disk.
type FSSource struct {
	root   string
	logger *zap.Logger
}

// NewFSSource creates a filesystem-backed note source rooted at the
// vault directory.
func NewFSSource(root string, logger *zap.Logger) *FSSource {
	return &FSSource{root: root, logger: logger}
}

// ListNotes walks the vault and returns every markdown note. Hidden
// directories (like .obsidian or .smart-env) are skipped. An unset or
// missing root yields an empty corpus rather than an error, and a single
// unreadable note never aborts the walk.
func (s *FSSource) ListNotes(ctx context.Context) ([]Note, error) {
	if s.root == "" {
		return nil, nil
	}
	if _, err := os.Stat(s.root); err != nil {
		s.logger.Debug("vault root not readable", zap.String("root", s.root), zap.Error(err))
		return nil, nil
	}

	var notes []Note
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != s.root {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("skipping unreadable note", zap.String("path", path), zap.Error(err))
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return nil
		}
		notes = append(notes, Note{
			Path:    filepath.ToSlash(rel),
			Content: string(content),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return notes, nil
}
