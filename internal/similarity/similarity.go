// Package similarity provides cosine similarity and top-K selection over
// fixed-length numeric vectors. All functions are pure and side-effect free.
package similarity

import (
	"math"
	"sort"

	"github.com/notectx/notectx-mcp/pkg/types"
)

// Cosine computes the cosine similarity of two equal-length vectors.
// Returns types.ErrDimensionMismatch when the lengths differ. A zero
// vector yields a similarity of 0.
func Cosine(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, types.ErrDimensionMismatch
	}
	return cosineN(a, b, len(a)), nil
}

// CosinePrefix compares only the shared prefix min(len(a), len(b)).
// This is a deliberate degradation for pools that mix vectors from
// heterogeneous sources; scores computed over different prefix lengths
// are not comparable with each other.
func CosinePrefix(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	return cosineN(a, b, n)
}

func cosineN(a, b []float64, n int) float64 {
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Norm returns the L2 norm of v.
func Norm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// TopK ranks every pool entry by dot(anchor, v) / (anchorNorm * v.Norm)
// over the shared prefix length, sorts descending (stable, so ties keep
// pool order), and truncates to k. A zero norm on either side is treated
// as 1 to avoid division by zero.
func TopK(anchor []float64, anchorNorm float64, pool []types.NoteVector, k int) []types.ScoredResult {
	if k <= 0 || len(pool) == 0 {
		return []types.ScoredResult{}
	}

	an := anchorNorm
	if an == 0 {
		an = 1
	}

	scored := make([]types.ScoredResult, 0, len(pool))
	for _, nv := range pool {
		n := len(anchor)
		if len(nv.Vector) < n {
			n = len(nv.Vector)
		}
		var dot float64
		for i := 0; i < n; i++ {
			dot += anchor[i] * nv.Vector[i]
		}
		vn := nv.Norm
		if vn == 0 {
			vn = 1
		}
		scored = append(scored, types.ScoredResult{
			Path:  nv.Path,
			Score: dot / (an * vn),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k]
}
