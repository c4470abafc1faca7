package search

import (
	"math"
	"sort"

	"github.com/dmhernandez2525/patent-intelligence/internal/domain/patent"
)

// fusedEntry accumulates a patent's reciprocal-rank contributions from the
// two source lists.
type fusedEntry struct {
	patent *patent.Patent
	score  float64
}

// rrfFuse merges the full-text and semantic rankings with weighted reciprocal
// rank fusion.  A patent at 0-indexed rank r in a source list contributes
// weight / (k + r + 1); a patent present in both lists sums both
// contributions.  The fused list is sorted descending by total score with
// ties broken by patent number ascending, and scores are normalized by the
// maximum so the top hit reads 1.0.
//
// RRF is rank-based rather than score-based: trigram similarity and cosine
// relevance live in unrelated numeric distributions, so blending their raw
// scores would need per-query calibration, while fusing ranks needs only a
// total order from each source.
func rrfFuse(fulltext, semantic []patent.ScoredPatent, k int, semanticWeight float64) []patent.ScoredPatent {
	textWeight := 1 - semanticWeight

	fused := make(map[string]*fusedEntry, len(fulltext)+len(semantic))
	accumulate := func(list []patent.ScoredPatent, weight float64) {
		for rank, sp := range list {
			number := sp.Patent.PatentNumber
			entry, ok := fused[number]
			if !ok {
				entry = &fusedEntry{patent: sp.Patent}
				fused[number] = entry
			}
			entry.score += weight / float64(k+rank+1)
		}
	}
	accumulate(fulltext, textWeight)
	accumulate(semantic, semanticWeight)

	out := make([]patent.ScoredPatent, 0, len(fused))
	for _, entry := range fused {
		out = append(out, patent.ScoredPatent{Patent: entry.patent, Score: entry.score})
	}
	sortRanked(out)
	normalizeScores(out)
	return out
}

// sortRanked orders descending by score, ties broken by patent number
// ascending so repeated calls with identical inputs are byte-identical.
func sortRanked(list []patent.ScoredPatent) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Score != list[j].Score {
			return list[i].Score > list[j].Score
		}
		return list[i].Patent.PatentNumber < list[j].Patent.PatentNumber
	})
}

// normalizeScores divides every score by the maximum, rounding to four
// decimals, so fused scores land in (0,1] for display.  A zero maximum
// leaves the list untouched.
func normalizeScores(list []patent.ScoredPatent) {
	if len(list) == 0 {
		return
	}
	max := list[0].Score
	if max <= 0 {
		return
	}
	for i := range list {
		list[i].Score = math.Round(list[i].Score/max*10000) / 10000
	}
}

// paginate slices one page out of the fused list.  Pages beyond the end
// return an empty slice, never an error.
func paginate(list []patent.ScoredPatent, page, perPage int) []patent.ScoredPatent {
	start := (page - 1) * perPage
	if start >= len(list) {
		return []patent.ScoredPatent{}
	}
	end := start + perPage
	if end > len(list) {
		end = len(list)
	}
	return list[start:end]
}
