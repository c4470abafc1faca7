package priorart

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmhernandez2525/patent-intelligence/internal/config"
	"github.com/dmhernandez2525/patent-intelligence/internal/domain/patent"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/monitoring/logging"
	apperrors "github.com/dmhernandez2525/patent-intelligence/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Test doubles
// ─────────────────────────────────────────────────────────────────────────────

type stubRepo struct {
	patents map[string]*patent.Patent
}

func (r *stubRepo) GetByNumber(_ context.Context, number string) (*patent.Patent, error) {
	if p, ok := r.patents[number]; ok {
		return p, nil
	}
	return nil, apperrors.New(apperrors.ErrCodePatentNotFound, "patent not found: "+number)
}

func (r *stubRepo) GetByNumbers(_ context.Context, nums []string) (map[string]*patent.Patent, error) {
	out := make(map[string]*patent.Patent)
	for _, n := range nums {
		if p, ok := r.patents[n]; ok {
			out[n] = p
		}
	}
	return out, nil
}

func (r *stubRepo) Count(context.Context, patent.Filter) (int64, error)         { return 0, nil }
func (r *stubRepo) CountEmbedded(context.Context, patent.Filter) (int64, error) { return 0, nil }
func (r *stubRepo) ExpiringWithin(context.Context, int, int) ([]*patent.Patent, error) {
	return nil, nil
}

type stubVector struct {
	results []patent.ScoredPatent
}

func (s *stubVector) SearchVector(_ context.Context, _ []float32, filter patent.Filter, limit, _ int) ([]patent.ScoredPatent, int64, error) {
	out := make([]patent.ScoredPatent, 0, limit)
	for _, sp := range s.results {
		if !filter.Matches(sp.Patent) {
			continue
		}
		out = append(out, sp)
		if len(out) == limit {
			break
		}
	}
	return out, int64(len(out)), nil
}

type stubEmbedder struct{ err error }

func (e *stubEmbedder) Embed(context.Context, string) ([]float32, error) {
	return []float32{0.3, 0.7}, e.err
}

type stubEdges struct {
	forward  map[string][]string
	backward map[string][]string
}

func (e *stubEdges) Forward(_ context.Context, citing []string) (map[string][]string, error) {
	out := make(map[string][]string)
	for _, n := range citing {
		if v, ok := e.forward[n]; ok {
			out[n] = v
		}
	}
	return out, nil
}

func (e *stubEdges) Backward(_ context.Context, cited []string) (map[string][]string, error) {
	out := make(map[string][]string)
	for _, n := range cited {
		if v, ok := e.backward[n]; ok {
			out[n] = v
		}
	}
	return out, nil
}

type stubCompetitors struct {
	patents []*patent.Patent
}

func (c *stubCompetitors) TopCitedByClass(context.Context, []string, string, int) ([]*patent.Patent, error) {
	return c.patents, nil
}

func datePtr(y, m, d int) *time.Time {
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return &t
}

func mkPatent(number string, filed *time.Time) *patent.Patent {
	return &patent.Patent{
		PatentNumber:         number,
		Title:                "patent " + number,
		Country:              "US",
		Status:               patent.StatusActive,
		FilingDate:           filed,
		AssigneeOrganization: "Acme Corp",
		CPCCodes:             []string{"H01M0010"},
	}
}

type fixture struct {
	repo   *stubRepo
	vector *stubVector
	edges  *stubEdges
}

func newFixture() *fixture {
	target := mkPatent("US-1000000-A1", datePtr(2020, 1, 1))
	target.EmbeddingVector = []float32{0.5, 0.5}

	f := &fixture{
		repo:   &stubRepo{patents: map[string]*patent.Patent{"US-1000000-A1": target}},
		vector: &stubVector{},
		edges:  &stubEdges{forward: map[string][]string{}, backward: map[string][]string{}},
	}
	return f
}

func (f *fixture) addPatent(p *patent.Patent) {
	f.repo.patents[p.PatentNumber] = p
}

func newTestService(t *testing.T, f *fixture, competitors CompetitorSource) *Service {
	t.Helper()
	svc, err := NewService(Deps{
		Repo:        f.repo,
		Vector:      f.vector,
		Embedder:    &stubEmbedder{},
		Edges:       f.edges,
		Competitors: competitors,
		Logger:      logging.NewNopLogger(),
		Config: config.SearchConfig{
			FetchMultiplier: 3,
			MaxQueryLength:  1000,
		},
	})
	require.NoError(t, err)
	return svc
}

// ─────────────────────────────────────────────────────────────────────────────
// Prior art
// ─────────────────────────────────────────────────────────────────────────────

func TestFindPriorArtMergesAndTags(t *testing.T) {
	t.Parallel()

	f := newFixture()
	cited := mkPatent("US-0900001-A1", datePtr(2015, 3, 1))
	semanticOnly := mkPatent("US-0900002-A1", datePtr(2016, 6, 1))
	both := mkPatent("US-0900003-A1", datePtr(2017, 9, 1))
	f.addPatent(cited)
	f.addPatent(semanticOnly)
	f.addPatent(both)

	f.edges.forward["US-1000000-A1"] = []string{"US-0900001-A1", "US-0900003-A1"}
	f.vector.results = []patent.ScoredPatent{
		{Patent: both, Score: 0.95},
		{Patent: semanticOnly, Score: 0.7},
	}

	svc := newTestService(t, f, nil)
	report, err := svc.FindPriorArt(context.Background(), Request{
		PatentNumber: "US-1000000-A1", TopK: 10, MinScore: 0.4,
	})
	require.NoError(t, err)

	assert.Equal(t, "US-1000000-A1", report.TargetPatent)
	assert.Equal(t, 2, report.CitationCount)
	assert.Equal(t, 2, report.SemanticCount)
	require.Len(t, report.PriorArt, 3)

	bySource := make(map[string]Source)
	byScore := make(map[string]float64)
	for _, r := range report.PriorArt {
		bySource[r.Patent.PatentNumber] = r.Source
		byScore[r.Patent.PatentNumber] = r.Score
	}
	assert.Equal(t, SourceCitation, bySource["US-0900001-A1"])
	assert.Equal(t, SourceSemantic, bySource["US-0900002-A1"])
	assert.Equal(t, SourceBoth, bySource["US-0900003-A1"])

	// The dual hit keeps the better of the two scores.
	assert.Equal(t, 0.95, byScore["US-0900003-A1"])

	// Ordered by score descending.
	assert.Equal(t, "US-0900003-A1", report.PriorArt[0].Patent.PatentNumber)
}

func TestFindPriorArtDateCutoff(t *testing.T) {
	t.Parallel()

	f := newFixture()
	older := mkPatent("US-0900001-A1", datePtr(2015, 1, 1))
	sameDay := mkPatent("US-0900002-A1", datePtr(2020, 1, 1))
	f.addPatent(older)
	f.addPatent(sameDay)
	f.vector.results = []patent.ScoredPatent{
		{Patent: sameDay, Score: 0.9},
		{Patent: older, Score: 0.8},
	}

	svc := newTestService(t, f, nil)
	report, err := svc.FindPriorArt(context.Background(), Request{
		PatentNumber: "US-1000000-A1", TopK: 10, MinScore: 0.4,
	})
	require.NoError(t, err)

	// Prior art must strictly predate the target's filing date, so the
	// same-day patent is out.
	require.Len(t, report.PriorArt, 1)
	assert.Equal(t, "US-0900001-A1", report.PriorArt[0].Patent.PatentNumber)
}

func TestFindPriorArtMinScore(t *testing.T) {
	t.Parallel()

	f := newFixture()
	weak := mkPatent("US-0900001-A1", datePtr(2015, 1, 1))
	f.addPatent(weak)
	f.vector.results = []patent.ScoredPatent{{Patent: weak, Score: 0.2}}

	svc := newTestService(t, f, nil)
	report, err := svc.FindPriorArt(context.Background(), Request{
		PatentNumber: "US-1000000-A1", TopK: 10, MinScore: 0.4,
	})
	require.NoError(t, err)
	assert.Empty(t, report.PriorArt)
}

func TestFindPriorArtByTextQuery(t *testing.T) {
	t.Parallel()

	f := newFixture()
	hit := mkPatent("US-0900001-A1", datePtr(2015, 1, 1))
	f.addPatent(hit)
	f.vector.results = []patent.ScoredPatent{{Patent: hit, Score: 0.6}}

	svc := newTestService(t, f, nil)
	report, err := svc.FindPriorArt(context.Background(), Request{
		TextQuery: "solid state electrolyte", TopK: 10, MinScore: 0.4,
	})
	require.NoError(t, err)

	assert.Empty(t, report.TargetPatent)
	assert.Zero(t, report.CitationCount)
	require.Len(t, report.PriorArt, 1)
	assert.Equal(t, SourceSemantic, report.PriorArt[0].Source)
}

func TestFindPriorArtValidation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newFixture(), nil)

	_, err := svc.FindPriorArt(context.Background(), Request{TopK: 5})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.FindPriorArt(context.Background(), Request{PatentNumber: "US-9999999-A1", TopK: 5})
	assert.True(t, apperrors.IsNotFound(err))
}

// ─────────────────────────────────────────────────────────────────────────────
// Landscape
// ─────────────────────────────────────────────────────────────────────────────

func TestLandscape(t *testing.T) {
	t.Parallel()

	f := newFixture()
	similar := mkPatent("US-0900001-A1", datePtr(2018, 1, 1))
	cited := mkPatent("US-0900002-A1", datePtr(2012, 1, 1))
	citing := mkPatent("US-0900003-A1", datePtr(2022, 1, 1))
	competitor := mkPatent("US-0900004-A1", datePtr(2019, 1, 1))
	competitor.AssigneeOrganization = "Rival Inc"
	f.addPatent(similar)
	f.addPatent(cited)
	f.addPatent(citing)
	f.addPatent(competitor)

	f.vector.results = []patent.ScoredPatent{{Patent: similar, Score: 0.85}}
	f.edges.forward["US-1000000-A1"] = []string{"US-0900002-A1"}
	f.edges.backward["US-1000000-A1"] = []string{"US-0900003-A1"}

	svc := newTestService(t, f, &stubCompetitors{patents: []*patent.Patent{competitor}})

	landscape, err := svc.Landscape(context.Background(), "US-1000000-A1", 10)
	require.NoError(t, err)

	assert.Equal(t, "US-1000000-A1", landscape.Target.PatentNumber)
	require.Len(t, landscape.SimilarPatents, 1)
	assert.Equal(t, "US-0900001-A1", landscape.SimilarPatents[0].Patent.PatentNumber)
	require.Len(t, landscape.CitedPatents, 1)
	assert.Equal(t, "US-0900002-A1", landscape.CitedPatents[0].PatentNumber)
	require.Len(t, landscape.CitingPatents, 1)
	assert.Equal(t, "US-0900003-A1", landscape.CitingPatents[0].PatentNumber)
	require.Len(t, landscape.Competitors, 1)
	assert.Equal(t, "Rival Inc", landscape.Competitors[0].AssigneeOrganization)
}

func TestLandscapeWithoutCompetitorSource(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newFixture(), nil)

	landscape, err := svc.Landscape(context.Background(), "US-1000000-A1", 5)
	require.NoError(t, err)
	assert.Empty(t, landscape.Competitors)

	_, err = svc.Landscape(context.Background(), "US-1000000-A1", 0)
	assert.True(t, apperrors.IsValidation(err))
}
