package citation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dmhernandez2525/patent-intelligence/pkg/errors"
)

func TestStats(t *testing.T) {
	t.Parallel()

	repo := repoWith("US-2000000-A1")
	svc := newTestService(t, repo, &stubEdges{}, &stubStats{forward: 4, backward: 12, avg: 3.0})

	stats, err := svc.Stats(context.Background(), "US-2000000-A1")
	require.NoError(t, err)

	assert.Equal(t, "US-2000000-A1", stats.PatentNumber)
	assert.Equal(t, int64(4), stats.ForwardCitations)
	assert.Equal(t, int64(12), stats.BackwardCitations)
	assert.Equal(t, 3.0, stats.AvgFieldCitations)
	require.NotNil(t, stats.CitationIndex)
	assert.Equal(t, 4.0, *stats.CitationIndex)
}

func TestStatsIndexRounded(t *testing.T) {
	t.Parallel()

	repo := repoWith("US-2000000-A1")
	svc := newTestService(t, repo, &stubEdges{}, &stubStats{backward: 10, avg: 3.0})

	stats, err := svc.Stats(context.Background(), "US-2000000-A1")
	require.NoError(t, err)
	require.NotNil(t, stats.CitationIndex)
	assert.Equal(t, 3.33, *stats.CitationIndex)
}

func TestStatsNilIndexOnEmptyCohort(t *testing.T) {
	t.Parallel()

	repo := repoWith("US-2000000-A1")
	svc := newTestService(t, repo, &stubEdges{}, &stubStats{forward: 1, backward: 2, avg: 0})

	stats, err := svc.Stats(context.Background(), "US-2000000-A1")
	require.NoError(t, err)
	assert.Nil(t, stats.CitationIndex)
	assert.Equal(t, 0.0, stats.AvgFieldCitations)
}

func TestStatsNilIndexWithoutCohortKeys(t *testing.T) {
	t.Parallel()

	// No filing date means no cohort, even when the stats source would
	// report a nonzero average.
	repo := repoWith("US-2000000-A1")
	repo.patents["US-2000000-A1"].FilingDate = nil
	svc := newTestService(t, repo, &stubEdges{}, &stubStats{backward: 5, avg: 2.5})

	stats, err := svc.Stats(context.Background(), "US-2000000-A1")
	require.NoError(t, err)
	assert.Nil(t, stats.CitationIndex)
}

func TestStatsUnknownPatent(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, repoWith(), &stubEdges{}, nil)

	_, err := svc.Stats(context.Background(), "US-9999999-A1")
	assert.True(t, apperrors.IsNotFound(err))
}
