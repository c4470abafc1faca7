// Package citation implements the bounded citation network traversal and the
// citation impact calculator on top of the domain edge and stats ports.
package citation

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/dmhernandez2525/patent-intelligence/internal/config"
	citationdom "github.com/dmhernandez2525/patent-intelligence/internal/domain/citation"
	"github.com/dmhernandez2525/patent-intelligence/internal/domain/patent"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/monitoring/logging"
	apperrors "github.com/dmhernandez2525/patent-intelligence/pkg/errors"
)

// Deps holds the service's injected dependencies.
type Deps struct {
	Patents patent.Repository
	Edges   citationdom.EdgeSource
	Stats   citationdom.StatsSource
	Logger  logging.Logger
	Config  config.CitationConfig
}

// Service walks citation networks and computes impact statistics.
type Service struct {
	patents patent.Repository
	edges   citationdom.EdgeSource
	stats   citationdom.StatsSource
	log     logging.Logger
	cfg     config.CitationConfig
}

// NewService constructs a citation Service.
func NewService(deps Deps) (*Service, error) {
	if deps.Patents == nil || deps.Edges == nil || deps.Stats == nil {
		return nil, apperrors.Internal("citation: missing required dependency")
	}
	log := deps.Logger
	if log == nil {
		log = logging.Default()
	}
	return &Service{
		patents: deps.Patents,
		edges:   deps.Edges,
		stats:   deps.Stats,
		log:     log.Named("citation"),
		cfg:     deps.Config,
	}, nil
}

// Network runs a bounded bidirectional breadth-first traversal from the given
// patent.  depth is clamped to the configured maximum; maxNodes of 0 means
// the configured default.  The center is always part of the result, even when
// maxNodes is 1.
//
// Each BFS level fetches forward and backward edges for the whole frontier in
// two concurrent round trips; the level boundary is the synchronization
// point.  Node admission is ordered by patent number so a truncated network
// is the same network on every run.
func (s *Service) Network(ctx context.Context, number string, depth, maxNodes int) (*citationdom.Network, error) {
	if depth < 1 {
		return nil, apperrors.New(apperrors.ErrCodeCitationDepthInvalid, "depth must be >= 1")
	}
	if depth > s.cfg.MaxDepth {
		depth = s.cfg.MaxDepth
	}
	if maxNodes == 0 {
		maxNodes = s.cfg.DefaultMaxNodes
	}
	if maxNodes < 1 {
		return nil, apperrors.New(apperrors.ErrCodeCitationMaxNodesInvalid, "max_nodes must be >= 1")
	}

	center, err := s.patents.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	w := &walker{
		svc:      s,
		maxNodes: maxNodes,
		visited:  map[string]int{center.PatentNumber: 0},
		nodes:    []*citationdom.Node{nodeFromPatent(center, 0)},
	}
	if err := w.walk(ctx, center.PatentNumber, depth); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeCitationTraversalFailed, "citation traversal failed")
	}

	return &citationdom.Network{
		Center:     center.PatentNumber,
		Nodes:      w.nodes,
		Edges:      w.edgeList,
		TotalNodes: len(w.nodes),
		TotalEdges: len(w.edgeList),
		Depth:      depth,
	}, nil
}

// walker carries one traversal's mutable state.  It is used by a single
// goroutine; only the per-level edge fetches run concurrently.
type walker struct {
	svc      *Service
	maxNodes int

	// visited maps an admitted patent number to the depth it was first
	// reached at.  Revisits through another path are ignored, which also
	// terminates traversal of citation cycles.
	visited  map[string]int
	nodes    []*citationdom.Node
	edgeList []*citationdom.Edge
	edgeSeen map[string]struct{}
}

// candidateEdge is an edge discovered at the current level, before admission
// decides whether its far endpoint becomes a node.
type candidateEdge struct {
	edge     citationdom.Edge
	neighbor string
	forward  bool
}

func (w *walker) walk(ctx context.Context, center string, depth int) error {
	w.edgeSeen = make(map[string]struct{})
	frontier := []string{center}

	for d := 1; d <= depth && len(frontier) > 0; d++ {
		var fwd, bwd map[string][]string
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			fwd, err = w.svc.edges.Forward(gctx, frontier)
			return err
		})
		g.Go(func() error {
			var err error
			bwd, err = w.svc.edges.Backward(gctx, frontier)
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}

		candidates := collectCandidates(frontier, fwd, bwd)

		// Hydrate every unseen neighbor in one fetch.  Numbers missing from
		// the result are citations of patents outside the local corpus.
		unseen := make([]string, 0, len(candidates))
		seenNeighbor := make(map[string]struct{}, len(candidates))
		for _, c := range candidates {
			if _, ok := w.visited[c.neighbor]; ok {
				continue
			}
			if _, ok := seenNeighbor[c.neighbor]; ok {
				continue
			}
			seenNeighbor[c.neighbor] = struct{}{}
			unseen = append(unseen, c.neighbor)
		}
		local, err := w.svc.patents.GetByNumbers(ctx, unseen)
		if err != nil {
			return err
		}

		frontier = w.admit(candidates, local, d)
	}
	return nil
}

// collectCandidates flattens the two edge maps into one deterministic list,
// following frontier order and the source's own ordering within each entry.
func collectCandidates(frontier []string, fwd, bwd map[string][]string) []candidateEdge {
	var out []candidateEdge
	for _, src := range frontier {
		for _, cited := range fwd[src] {
			out = append(out, candidateEdge{
				edge:     citationdom.Edge{Source: src, Target: cited, Type: citationdom.EdgeCites},
				neighbor: cited,
				forward:  true,
			})
		}
		for _, citing := range bwd[src] {
			out = append(out, candidateEdge{
				edge:     citationdom.Edge{Source: src, Target: citing, Type: citationdom.EdgeCitedBy},
				neighbor: citing,
			})
		}
	}
	return out
}

// admit decides, in patent-number order, which discovered neighbors become
// nodes at depth d, then keeps the edges whose far endpoint was retained.
// Forward edges to patents outside the local corpus are kept without a node;
// edges to local patents rejected by the node cap are dropped with them.
func (w *walker) admit(candidates []candidateEdge, local map[string]*patent.Patent, d int) []string {
	admissible := make([]string, 0, len(local))
	for number := range local {
		if _, ok := w.visited[number]; !ok {
			admissible = append(admissible, number)
		}
	}
	sort.Strings(admissible)

	var next []string
	for _, number := range admissible {
		if len(w.visited) >= w.maxNodes {
			break
		}
		w.visited[number] = d
		w.nodes = append(w.nodes, nodeFromPatent(local[number], d))
		next = append(next, number)
	}

	for _, c := range candidates {
		_, retained := w.visited[c.neighbor]
		_, isLocal := local[c.neighbor]
		if !retained && isLocal {
			continue
		}
		if !retained && !isLocal && !c.forward {
			// Backward sources come from local rows only; an unretained
			// non-local one means the cap already dropped it.
			continue
		}
		w.keepEdge(c.edge)
	}
	return next
}

func (w *walker) keepEdge(e citationdom.Edge) {
	key := e.Source + "\x00" + e.Target + "\x00" + string(e.Type)
	if _, ok := w.edgeSeen[key]; ok {
		return
	}
	w.edgeSeen[key] = struct{}{}
	w.edgeList = append(w.edgeList, &citationdom.Edge{Source: e.Source, Target: e.Target, Type: e.Type})
}

func nodeFromPatent(p *patent.Patent, depth int) *citationdom.Node {
	return &citationdom.Node{
		PatentNumber:         p.PatentNumber,
		Title:                p.Title,
		AssigneeOrganization: p.AssigneeOrganization,
		FilingDate:           p.FilingDate,
		Country:              p.Country,
		Depth:                depth,
	}
}
