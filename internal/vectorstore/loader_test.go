package vectorstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeStoreFile(t *testing.T, root, name, content string) {
	t.Helper()
	dir := filepath.Join(root, StoreSubdir)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadAllSingleRecord(t *testing.T) {
	root := t.TempDir()
	writeStoreFile(t, root, "x.ajson",
		`"smart_sources:x.md": {"path":"x.md","embeddings":{"bge-micro":{"vec":[1,0,0]}}},`)

	loader := NewDirLoader(root, "", zap.NewNop())
	vectors := loader.LoadAll(context.Background())

	require.Len(t, vectors, 1)
	require.Equal(t, "x.md", vectors[0].Path)
	require.Equal(t, []float64{1, 0, 0}, vectors[0].Vector)
}

func TestLoadAllSkipsCorruptFile(t *testing.T) {
	root := t.TempDir()
	writeStoreFile(t, root, "good.ajson",
		`"smart_sources:x.md": {"path":"x.md","embeddings":{"bge-micro":{"vec":[1,0,0]}}},`)
	writeStoreFile(t, root, "bad.ajson", `{{{ not json`)

	loader := NewDirLoader(root, "", zap.NewNop())
	vectors := loader.LoadAll(context.Background())

	// One corrupt file never aborts the whole load.
	require.Len(t, vectors, 1)
	require.Equal(t, "x.md", vectors[0].Path)
}

func TestLoadAllMissingRoot(t *testing.T) {
	loader := NewDirLoader(filepath.Join(t.TempDir(), "nope"), "", zap.NewNop())
	vectors := loader.LoadAll(context.Background())
	require.Empty(t, vectors)
}

func TestLoadAllModelSelection(t *testing.T) {
	record := `"smart_sources:n.md": {"path":"n.md","embeddings":{` +
		`"zeta-model":{"vec":[9,9]},"alpha-model":{"vec":[1,1]}}},`

	t.Run("preferred model wins", func(t *testing.T) {
		root := t.TempDir()
		writeStoreFile(t, root, "n.ajson", record)
		loader := NewDirLoader(root, "zeta-model", zap.NewNop())
		vectors := loader.LoadAll(context.Background())
		require.Len(t, vectors, 1)
		require.Equal(t, []float64{9, 9}, vectors[0].Vector)
	})

	t.Run("lexicographic fallback", func(t *testing.T) {
		root := t.TempDir()
		writeStoreFile(t, root, "n.ajson", record)
		loader := NewDirLoader(root, "", zap.NewNop())
		vectors := loader.LoadAll(context.Background())
		require.Len(t, vectors, 1)
		require.Equal(t, []float64{1, 1}, vectors[0].Vector)
	})
}

func TestNotePathFallbacks(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "explicit path field",
			content: `"k": {"path":"notes\\sub\\a.md","embeddings":{"m":{"vec":[1]}}},`,
			want:    "notes/sub/a.md",
		},
		{
			name:    "key with type prefix",
			content: `"smart_sources:daily/b.md": {"embeddings":{"m":{"vec":[1]}}},`,
			want:    "daily/b.md",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeStoreFile(t, root, "rec.ajson", tt.content)
			loader := NewDirLoader(root, "", zap.NewNop())
			vectors := loader.LoadAll(context.Background())
			require.Len(t, vectors, 1)
			require.Equal(t, tt.want, vectors[0].Path)
		})
	}
}

func TestStoreEndToEndQuery(t *testing.T) {
	root := t.TempDir()
	writeStoreFile(t, root, "x.ajson",
		`"smart_sources:x.md": {"path":"x.md","embeddings":{"bge-micro":{"vec":[1,0,0]}}},`)
	writeStoreFile(t, root, "broken.ajson", `"key": {"embeddings":`)

	loader := NewDirLoader(root, "", zap.NewNop())
	cache := NewCache(loader, time.Minute, 0, zap.NewNop())

	pool := cache.Pool(context.Background())
	require.Len(t, pool, 1, "corrupt file skipped, valid record loaded")

	results := cache.Query(context.Background(), []float64{1, 0, 0}, 5)
	require.Len(t, results, 1)
	require.Equal(t, "x.md", results[0].Path)
	require.InDelta(t, 1.0, results[0].Score, 1e-9)
}

func TestLoadAllIgnoresRecordsWithoutEmbeddings(t *testing.T) {
	root := t.TempDir()
	writeStoreFile(t, root, "mixed.ajson",
		`"smart_sources:a.md": {"path":"a.md","embeddings":{"m":{"vec":[1,2]}}},`+"\n"+
			`"smart_sources:b.md": {"path":"b.md"},`)

	loader := NewDirLoader(root, "", zap.NewNop())
	vectors := loader.LoadAll(context.Background())
	require.Len(t, vectors, 1)
	require.Equal(t, "a.md", vectors[0].Path)
}
