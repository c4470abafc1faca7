package neo4j

import (
	"context"

	"github.com/dmhernandez2525/patent-intelligence/internal/domain/citation"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/monitoring/logging"
	"github.com/dmhernandez2525/patent-intelligence/pkg/errors"
)

// Cypher for one BFS frontier.  Ordering by both endpoints keeps truncated
// traversals repeatable across runs.
const (
	forwardQuery = `
		UNWIND $numbers AS num
		MATCH (p:Patent {patent_number: num})-[:CITES]->(c:Patent)
		RETURN num AS src, c.patent_number AS dst
		ORDER BY src, dst`

	backwardQuery = `
		UNWIND $numbers AS num
		MATCH (c:Patent)-[:CITES]->(p:Patent {patent_number: num})
		RETURN num AS src, c.patent_number AS dst
		ORDER BY src, dst`

	mergeEdgesQuery = `
		UNWIND $rows AS row
		MERGE (a:Patent {patent_number: row.citing})
		MERGE (b:Patent {patent_number: row.cited})
		MERGE (a)-[:CITES]->(b)`
)

// EdgeStore implements the citation EdgeSource against a CITES graph.
type EdgeStore struct {
	runner Runner
	log    logging.Logger
}

// NewEdgeStore builds an edge store over the given runner.
func NewEdgeStore(runner Runner, log logging.Logger) *EdgeStore {
	return &EdgeStore{runner: runner, log: log}
}

// Forward returns, for each citing number, the numbers it cites.
func (s *EdgeStore) Forward(ctx context.Context, citing []string) (map[string][]string, error) {
	return s.adjacency(ctx, forwardQuery, citing)
}

// Backward returns, for each cited number, the numbers citing it.
func (s *EdgeStore) Backward(ctx context.Context, cited []string) (map[string][]string, error) {
	return s.adjacency(ctx, backwardQuery, cited)
}

func (s *EdgeStore) adjacency(ctx context.Context, query string, numbers []string) (map[string][]string, error) {
	if len(numbers) == 0 {
		return map[string][]string{}, nil
	}

	out, err := s.runner.ExecuteRead(ctx, func(tx Transaction) (any, error) {
		res, err := tx.Run(ctx, query, map[string]any{"numbers": numbers})
		if err != nil {
			return nil, err
		}

		adj := make(map[string][]string)
		for res.Next(ctx) {
			rec := res.Record()
			src, okSrc := rec.Values[0].(string)
			dst, okDst := rec.Values[1].(string)
			if !okSrc || !okDst {
				return nil, errors.New(errors.ErrCodeDatabaseError, "malformed citation record")
			}
			adj[src] = append(adj[src], dst)
		}
		return adj, res.Err()
	})
	if err != nil {
		return nil, err
	}
	return out.(map[string][]string), nil
}

// MergeEdges upserts citation edges, creating missing patent nodes.  The
// ingestion worker calls this after relational writes.
func (s *EdgeStore) MergeEdges(ctx context.Context, edges []citation.Edge) error {
	if len(edges) == 0 {
		return nil
	}

	rows := make([]map[string]any, 0, len(edges))
	for _, e := range edges {
		rows = append(rows, map[string]any{"citing": e.Source, "cited": e.Target})
	}

	_, err := s.runner.ExecuteWrite(ctx, func(tx Transaction) (any, error) {
		return tx.Run(ctx, mergeEdgesQuery, map[string]any{"rows": rows})
	})
	if err != nil {
		return err
	}

	s.log.Debug("merged citation edges", logging.Int("count", len(edges)))
	return nil
}
