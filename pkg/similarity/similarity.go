// Package similarity implements the text and vector similarity measures used
// by the search engine: character-trigram Jaccard similarity for full-text
// scoring and cosine similarity for embedding vectors.  The Postgres adapter
// delegates these computations to pg_trgm and pgvector; this package provides
// the same semantics for in-memory stores and alternative backends.
package similarity

import (
	"math"
	"strings"
	"unicode"
)

// Trigrams extracts the set of character trigrams from s after normalization:
// lowercase, runs of non-alphanumeric characters collapsed to single spaces,
// and each word padded with two leading and one trailing space.  This mirrors
// the trigram extraction rules of the pg_trgm extension so that in-memory
// scores stay comparable across backends.
func Trigrams(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, word := range normalizeWords(s) {
		padded := "  " + word + " "
		runes := []rune(padded)
		for i := 0; i+3 <= len(runes); i++ {
			set[string(runes[i:i+3])] = struct{}{}
		}
	}
	return set
}

// TrigramSimilarity returns the Jaccard similarity of the trigram sets of a
// and b, in [0,1].  Two blank strings have no trigrams and score 0.
func TrigramSimilarity(a, b string) float64 {
	ta := Trigrams(a)
	tb := Trigrams(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	// Iterate the smaller set.
	if len(tb) < len(ta) {
		ta, tb = tb, ta
	}
	intersection := 0
	for tg := range ta {
		if _, ok := tb[tg]; ok {
			intersection++
		}
	}
	union := len(ta) + len(tb) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// CosineSimilarity returns the cosine of the angle between a and b, in [-1,1].
// Mismatched dimensions or a zero-magnitude operand yield 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// CosineRelevance maps cosine similarity to the [0,1] relevance scale used by
// the semantic scorer: 1 - distance, where distance = 1 - cosine, clamped.
func CosineRelevance(a, b []float32) float64 {
	return Clamp01(CosineSimilarity(a, b))
}

// Clamp01 clamps v into [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func normalizeWords(s string) []string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteRune(' ')
		}
	}
	return strings.Fields(sb.String())
}
