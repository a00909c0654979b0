package vectorstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/notectx/notectx-mcp/pkg/types"
)

const (
	// StoreSubdir is the subtree of the vector store root that holds the
	// per-note record files produced by the external indexing tool.
	StoreSubdir = "multi"
	// RecordSuffix is the accepted record file name suffix.
	RecordSuffix = ".ajson"
)

// storeRecord is the semi-structured shape of one entry in a record file.
type storeRecord struct {
	Path       string `json:"path"`
	Key        string `json:"key"`
	Embeddings map[string]struct {
		Vec []float64 `json:"vec"`
	} `json:"embeddings"`
}

// DirLoader reads note vectors from an on-disk store directory. The store
// is read-only input; DirLoader never writes to it.
type DirLoader struct {
	root           string
	preferredModel string
	logger         *zap.Logger
}

// NewDirLoader creates a loader rooted at the store directory.
// preferredModel selects which embedding model's vector to extract when a
// record carries several; when empty, the lexicographically smallest
// model key is used so selection stays deterministic.
func NewDirLoader(root, preferredModel string, logger *zap.Logger) *DirLoader {
	return &DirLoader{root: root, preferredModel: preferredModel, logger: logger}
}

// LoadAll enumerates record files under <root>/multi, parses each, and
// returns the extracted note vectors in file-name order. A malformed or
// unreadable file is logged and skipped; it never aborts the whole load.
// A missing or unreadable root yields an empty pool, not an error.
func (l *DirLoader) LoadAll(ctx context.Context) []types.NoteVector {
	dir := filepath.Join(l.root, StoreSubdir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		l.logger.Debug("vector store not readable", zap.String("dir", dir), zap.Error(err))
		return []types.NoteVector{}
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), RecordSuffix) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	vectors := make([]types.NoteVector, 0, len(names))
	for _, name := range names {
		if ctx.Err() != nil {
			break
		}
		nvs, err := l.loadFile(filepath.Join(dir, name))
		if err != nil {
			l.logger.Warn("skipping malformed record file",
				zap.String("file", name), zap.Error(err))
			continue
		}
		vectors = append(vectors, nvs...)
	}
	return vectors
}

// loadFile parses one record file. Record files hold comma-terminated
// `"key": {...}` lines; wrapping the content in braces yields a JSON
// object keyed by record id.
func (l *DirLoader) loadFile(path string) ([]types.NoteVector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	body := strings.TrimSpace(string(data))
	body = strings.TrimSuffix(body, ",")
	if !strings.HasPrefix(body, "{") {
		body = "{" + body + "}"
	}

	var records map[string]storeRecord
	if err := json.Unmarshal([]byte(body), &records); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(records))
	for k := range records {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []types.NoteVector
	for _, key := range keys {
		rec := records[key]
		vec := l.selectVector(rec)
		if len(vec) == 0 {
			continue
		}
		out = append(out, types.NoteVector{
			Path:   notePath(rec, key, filepath.Base(path)),
			Vector: vec,
		})
	}
	return out, nil
}

// selectVector picks the embedding to use from a model-keyed mapping.
func (l *DirLoader) selectVector(rec storeRecord) []float64 {
	if len(rec.Embeddings) == 0 {
		return nil
	}
	if l.preferredModel != "" {
		if emb, ok := rec.Embeddings[l.preferredModel]; ok && len(emb.Vec) > 0 {
			return emb.Vec
		}
	}
	models := make([]string, 0, len(rec.Embeddings))
	for m := range rec.Embeddings {
		models = append(models, m)
	}
	sort.Strings(models)
	for _, m := range models {
		if vec := rec.Embeddings[m].Vec; len(vec) > 0 {
			return vec
		}
	}
	return nil
}

// notePath resolves a record's vault-relative note path: explicit path
// field first, then the record key with its type prefix stripped, then
// the file name with the record suffix removed.
func notePath(rec storeRecord, key, fileName string) string {
	if rec.Path != "" {
		return toSlash(rec.Path)
	}
	candidate := rec.Key
	if candidate == "" {
		candidate = key
	}
	if i := strings.Index(candidate, ":"); i >= 0 {
		candidate = candidate[i+1:]
	}
	if candidate != "" {
		return toSlash(candidate)
	}
	return toSlash(strings.TrimSuffix(fileName, RecordSuffix))
}

// toSlash normalizes separators regardless of the host platform; store
// records written on Windows may carry backslash paths.
func toSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
