// Package lexical implements a TF-IDF fallback index over a small note
// corpus. The index is built once from a corpus snapshot and is immutable
// afterwards; a new corpus requires a new index. Query cost is
// O(terms x documents), which is acceptable only because this is the last
// resort when no semantic provider is available.
package lexical

import (
	"math"
	"regexp"
	"strings"

	"github.com/notectx/notectx-mcp/internal/similarity"
	"github.com/notectx/notectx-mcp/pkg/types"
)

// Document is one corpus entry keyed by its vault-relative path.
type Document struct {
	Path string
	Text string
}

// Index holds IDF weights and precomputed weighted document vectors over
// a fixed vocabulary.
type Index struct {
	vocab   map[string]int // term -> position in the dense vectors
	idf     []float64
	pool    []types.NoteVector // weighted doc vectors, input order
	preview map[string]string
}

var nonWord = regexp.MustCompile(`\W+`)

// Tokenize lower-cases the text and splits on runs of non-word
// characters, discarding empty tokens.
func Tokenize(text string) []string {
	parts := nonWord.Split(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// NewIndex builds a TF-IDF index from the corpus. IDF uses
// ln(N / (1 + df)): the +1 keeps every weight finite, and terms present
// in every document go slightly negative, actively down-weighting them.
func NewIndex(docs []Document) *Index {
	tokenized := make([][]string, len(docs))
	df := make(map[string]int)
	for i, doc := range docs {
		tokenized[i] = Tokenize(doc.Text)
		seen := make(map[string]bool)
		for _, tok := range tokenized[i] {
			if !seen[tok] {
				seen[tok] = true
				df[tok]++
			}
		}
	}

	ix := &Index{
		vocab:   make(map[string]int, len(df)),
		idf:     make([]float64, 0, len(df)),
		preview: make(map[string]string, len(docs)),
	}
	n := float64(len(docs))
	for term, count := range df {
		ix.vocab[term] = len(ix.idf)
		ix.idf = append(ix.idf, math.Log(n/float64(1+count)))
	}

	ix.pool = make([]types.NoteVector, len(docs))
	for i, doc := range docs {
		vec := ix.weightedVector(tokenized[i])
		ix.pool[i] = types.NoteVector{
			Path:   doc.Path,
			Vector: vec,
			Norm:   similarity.Norm(vec),
		}
		ix.preview[doc.Path] = makePreview(doc.Text)
	}

	return ix
}

// Len reports the number of indexed documents.
func (ix *Index) Len() int {
	return len(ix.pool)
}

// Query tokenizes the query with the index's rule, builds a TF-IDF vector
// over the fixed vocabulary (terms absent from the corpus are silently
// ignored), and ranks every document by cosine similarity. All documents
// are returned sorted descending; callers truncate.
func (ix *Index) Query(query string) []types.ScoredResult {
	qvec := ix.weightedVector(Tokenize(query))
	results := similarity.TopK(qvec, similarity.Norm(qvec), ix.pool, len(ix.pool))
	for i := range results {
		results[i].Preview = ix.preview[results[i].Path]
	}
	return results
}

// weightedVector builds a dense tf*idf vector over the index vocabulary.
func (ix *Index) weightedVector(tokens []string) []float64 {
	vec := make([]float64, len(ix.idf))
	for _, tok := range tokens {
		if pos, ok := ix.vocab[tok]; ok {
			vec[pos]++
		}
	}
	for i := range vec {
		vec[i] *= ix.idf[i]
	}
	return vec
}

const previewLen = 160

func makePreview(text string) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= previewLen {
		return text
	}
	return string(runes[:previewLen])
}
