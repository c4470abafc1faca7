package search

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmhernandez2525/patent-intelligence/internal/domain/patent"
)

func scored(number string, score float64) patent.ScoredPatent {
	return patent.ScoredPatent{
		Patent: &patent.Patent{PatentNumber: number, Title: "patent " + number},
		Score:  score,
	}
}

func numbers(list []patent.ScoredPatent) []string {
	out := make([]string, len(list))
	for i, sp := range list {
		out[i] = sp.Patent.PatentNumber
	}
	return out
}

func TestRRFFuseDualAppearanceWins(t *testing.T) {
	t.Parallel()

	fulltext := []patent.ScoredPatent{
		scored("US-1000001-A1", 0.9),
		scored("US-1000002-A1", 0.8),
	}
	semantic := []patent.ScoredPatent{
		scored("US-1000003-A1", 0.95),
		scored("US-1000002-A1", 0.7),
	}

	fused := rrfFuse(fulltext, semantic, 60, 0.5)
	require.Len(t, fused, 3)

	// US-1000002-A1 appears in both lists and outranks the patents that
	// lead a single list.
	assert.Equal(t, "US-1000002-A1", fused[0].Patent.PatentNumber)
	assert.Equal(t, 1.0, fused[0].Score)
}

func TestRRFFuseWeightSkew(t *testing.T) {
	t.Parallel()

	fulltext := []patent.ScoredPatent{
		scored("US-1000001-A1", 0.9),
		scored("US-1000002-A1", 0.8),
	}
	semantic := []patent.ScoredPatent{
		scored("US-1000002-A1", 0.95),
		scored("US-1000001-A1", 0.7),
	}

	// Full weight on the semantic side reproduces the semantic ordering.
	fused := rrfFuse(fulltext, semantic, 60, 1.0)
	assert.Equal(t, []string{"US-1000002-A1", "US-1000001-A1"}, numbers(fused))

	// Full weight on the full-text side reproduces the full-text ordering.
	fused = rrfFuse(fulltext, semantic, 60, 0.0)
	assert.Equal(t, []string{"US-1000001-A1", "US-1000002-A1"}, numbers(fused))
}

func TestRRFFuseTieBreaksByNumber(t *testing.T) {
	t.Parallel()

	// Two patents each leading one list with equal weight get identical
	// fused scores; the lower patent number must come first.
	fulltext := []patent.ScoredPatent{scored("US-1000009-A1", 0.9)}
	semantic := []patent.ScoredPatent{scored("US-1000004-A1", 0.9)}

	fused := rrfFuse(fulltext, semantic, 60, 0.5)
	require.Len(t, fused, 2)
	assert.Equal(t, "US-1000004-A1", fused[0].Patent.PatentNumber)
	assert.Equal(t, "US-1000009-A1", fused[1].Patent.PatentNumber)
	assert.Equal(t, fused[0].Score, fused[1].Score)
}

func TestRRFFuseNormalization(t *testing.T) {
	t.Parallel()

	fulltext := []patent.ScoredPatent{
		scored("US-1000001-A1", 0.9),
		scored("US-1000002-A1", 0.5),
		scored("US-1000003-A1", 0.1),
	}

	fused := rrfFuse(fulltext, nil, 60, 0.4)
	require.Len(t, fused, 3)
	assert.Equal(t, 1.0, fused[0].Score)
	for _, sp := range fused {
		assert.LessOrEqual(t, sp.Score, 1.0)
		assert.Greater(t, sp.Score, 0.0)
		// Four decimal places.
		assert.InDelta(t, math.Round(sp.Score*10000)/10000, sp.Score, 1e-12)
	}
}

func TestRRFFuseEmptyInputs(t *testing.T) {
	t.Parallel()

	assert.Empty(t, rrfFuse(nil, nil, 60, 0.6))

	one := []patent.ScoredPatent{scored("US-1000001-A1", 0.9)}
	fused := rrfFuse(one, nil, 60, 0.6)
	require.Len(t, fused, 1)
	assert.Equal(t, 1.0, fused[0].Score)
}

func TestPaginate(t *testing.T) {
	t.Parallel()

	list := []patent.ScoredPatent{
		scored("US-1000001-A1", 1.0),
		scored("US-1000002-A1", 0.8),
		scored("US-1000003-A1", 0.6),
	}

	tests := []struct {
		name    string
		page    int
		perPage int
		want    []string
	}{
		{name: "first page", page: 1, perPage: 2, want: []string{"US-1000001-A1", "US-1000002-A1"}},
		{name: "partial last page", page: 2, perPage: 2, want: []string{"US-1000003-A1"}},
		{name: "beyond range", page: 5, perPage: 2, want: []string{}},
		{name: "whole list", page: 1, perPage: 10, want: []string{"US-1000001-A1", "US-1000002-A1", "US-1000003-A1"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := paginate(list, tt.page, tt.perPage)
			assert.Equal(t, tt.want, numbers(got))
		})
	}
}
