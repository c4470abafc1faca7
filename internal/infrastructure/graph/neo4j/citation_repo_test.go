package neo4j

import (
	"context"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmhernandez2525/patent-intelligence/internal/domain/citation"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/monitoring/logging"
)

type stubResult struct {
	records []*neo4j.Record
	idx     int
}

func (r *stubResult) Next(_ context.Context) bool {
	if r.idx < len(r.records) {
		r.idx++
		return true
	}
	return false
}

func (r *stubResult) Record() *neo4j.Record { return r.records[r.idx-1] }
func (r *stubResult) Err() error            { return nil }

type stubTx struct {
	records [][]any
	cypher  string
	params  map[string]any
}

func (t *stubTx) Run(_ context.Context, cypher string, params map[string]any) (Result, error) {
	t.cypher = cypher
	t.params = params
	recs := make([]*neo4j.Record, 0, len(t.records))
	for _, values := range t.records {
		recs = append(recs, &neo4j.Record{Values: values, Keys: []string{"src", "dst"}})
	}
	return &stubResult{records: recs}, nil
}

type stubRunner struct {
	tx     *stubTx
	reads  int
	writes int
}

func (r *stubRunner) ExecuteRead(_ context.Context, work TransactionWork) (any, error) {
	r.reads++
	return work(r.tx)
}

func (r *stubRunner) ExecuteWrite(_ context.Context, work TransactionWork) (any, error) {
	r.writes++
	return work(r.tx)
}

func TestForwardBuildsAdjacency(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{tx: &stubTx{records: [][]any{
		{"US-1000000-A1", "US-2000000-B2"},
		{"US-1000000-A1", "US-3000000-B2"},
		{"US-4000000-A1", "US-2000000-B2"},
	}}}
	store := NewEdgeStore(runner, logging.NewNopLogger())

	adj, err := store.Forward(context.Background(), []string{"US-1000000-A1", "US-4000000-A1"})
	require.NoError(t, err)

	assert.Equal(t, []string{"US-2000000-B2", "US-3000000-B2"}, adj["US-1000000-A1"])
	assert.Equal(t, []string{"US-2000000-B2"}, adj["US-4000000-A1"])
	assert.Equal(t, 1, runner.reads)
	assert.Contains(t, runner.tx.cypher, "-[:CITES]->")
	assert.Equal(t, []string{"US-1000000-A1", "US-4000000-A1"}, runner.tx.params["numbers"])
}

func TestBackwardUsesReverseMatch(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{tx: &stubTx{records: [][]any{
		{"US-2000000-B2", "US-1000000-A1"},
	}}}
	store := NewEdgeStore(runner, logging.NewNopLogger())

	adj, err := store.Backward(context.Background(), []string{"US-2000000-B2"})
	require.NoError(t, err)

	assert.Equal(t, []string{"US-1000000-A1"}, adj["US-2000000-B2"])
	assert.Contains(t, runner.tx.cypher, "MATCH (c:Patent)-[:CITES]->")
}

func TestAdjacencyEmptyFrontier(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{tx: &stubTx{}}
	store := NewEdgeStore(runner, logging.NewNopLogger())

	adj, err := store.Forward(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, adj)
	assert.Zero(t, runner.reads)
}

func TestAdjacencyMalformedRecord(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{tx: &stubTx{records: [][]any{{"US-1000000-A1", 42}}}}
	store := NewEdgeStore(runner, logging.NewNopLogger())

	_, err := store.Forward(context.Background(), []string{"US-1000000-A1"})
	assert.Error(t, err)
}

func TestMergeEdges(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{tx: &stubTx{}}
	store := NewEdgeStore(runner, logging.NewNopLogger())

	err := store.MergeEdges(context.Background(), []citation.Edge{
		{Source: "US-1000000-A1", Target: "US-2000000-B2", Type: citation.EdgeCites},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, runner.writes)

	rows := runner.tx.params["rows"].([]map[string]any)
	require.Len(t, rows, 1)
	assert.Equal(t, "US-1000000-A1", rows[0]["citing"])
	assert.Equal(t, "US-2000000-B2", rows[0]["cited"])
}
