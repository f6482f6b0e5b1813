package textproc

import (
	"fmt"
	"math"
	"strings"

	"github.com/xrash/smetrics"

	"github.com/jonathan/match-engine/internal/types"
)

// EditSimilarity returns 1 - levenshtein(a, b)/max(len(a), len(b)), in [0,1].
// Two empty strings are identical.
func EditSimilarity(a, b string) float64 {
	maxLen := max(len(a), len(b))
	if maxLen == 0 {
		return 1
	}
	dist := smetrics.WagnerFischer(a, b, 1, 1, 1)
	return Clamp(1-float64(dist)/float64(maxLen), 0, 1)
}

// Cosine computes cosine similarity between two equal-length vectors.
// Returns types.ErrZeroVector if either vector has zero norm.
func Cosine(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector length mismatch: %d != %d", len(a), len(b))
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0, types.ErrZeroVector
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb)), nil
}

// Cosine32 is Cosine for float32 embeddings, accumulated in float64.
func Cosine32(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector length mismatch: %d != %d", len(a), len(b))
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0, types.ErrZeroVector
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb)), nil
}

// Jaccard computes |A∩B|/|A∪B| over folded, trimmed items. An empty union scores 0.
func Jaccard(a, b []string) float64 {
	setA := FoldSet(a)
	setB := FoldSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}
	inter := 0
	for k := range setA {
		if _, ok := setB[k]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	return float64(inter) / float64(union)
}

// FoldSet returns the set of folded non-empty items.
func FoldSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		f := strings.TrimSpace(Fold(it))
		if f == "" {
			continue
		}
		set[f] = struct{}{}
	}
	return set
}

// Clamp bounds v to [lo, hi]. NaN becomes lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Round2 rounds to two decimals, the precision scores are reported with.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
