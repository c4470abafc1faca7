// Package priorart implements prior-art discovery and the patent landscape
// view: semantic neighbors merged with citation evidence, each result tagged
// with the evidence source that produced it.
package priorart

import (
	"context"
	"sort"
	"time"

	"github.com/dmhernandez2525/patent-intelligence/internal/application/search"
	"github.com/dmhernandez2525/patent-intelligence/internal/config"
	citationdom "github.com/dmhernandez2525/patent-intelligence/internal/domain/citation"
	"github.com/dmhernandez2525/patent-intelligence/internal/domain/patent"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/monitoring/logging"
	apperrors "github.com/dmhernandez2525/patent-intelligence/pkg/errors"
)

// Source tags which evidence path produced a prior-art result.  Results found
// by both paths are tagged SourceBoth and keep the higher score.
type Source string

const (
	SourceSemantic Source = "semantic"
	SourceCitation Source = "citation"
	SourceBoth     Source = "both"
)

// citationBaseScore is the relevance assigned to citation-derived prior art,
// which carries no similarity score of its own.
const citationBaseScore = 0.8

// defaultTopK bounds prior-art queries that do not specify a cap.
const defaultTopK = 20

// Result is one prior-art candidate.
type Result struct {
	Patent *patent.Patent `json:"patent"`
	Score  float64        `json:"similarity_score"`
	Source Source         `json:"source"`
}

// Report is the merged prior-art output.
type Report struct {
	TargetPatent     string     `json:"target_patent,omitempty"`
	TargetFilingDate *time.Time `json:"target_filing_date,omitempty"`
	PriorArt         []Result   `json:"prior_art"`
	TotalFound       int        `json:"total_found"`
	SemanticCount    int        `json:"semantic_count"`
	CitationCount    int        `json:"citation_count"`
}

// Landscape is the competitive context around one patent.
type Landscape struct {
	Target         *patent.Patent        `json:"target"`
	SimilarPatents []patent.ScoredPatent `json:"similar_patents"`
	CitedPatents   []*patent.Patent      `json:"cited_patents"`
	CitingPatents  []*patent.Patent      `json:"citing_patents"`
	Competitors    []*patent.Patent      `json:"competitors"`
}

// CompetitorSource lists the most-cited patents sharing any of the CPC codes
// but held by a different organization.
type CompetitorSource interface {
	TopCitedByClass(ctx context.Context, cpcCodes []string, excludeAssignee string, limit int) ([]*patent.Patent, error)
}

// Request parameterizes a prior-art query.  Exactly one of PatentNumber and
// TextQuery must be set; FilingDateBefore defaults to the target patent's
// filing date when querying by number.
type Request struct {
	PatentNumber     string     `json:"patent_number,omitempty"`
	TextQuery        string     `json:"text_query,omitempty"`
	FilingDateBefore *time.Time `json:"filing_date_before,omitempty"`
	TopK             int        `json:"top_k"`
	MinScore         float64    `json:"min_score"`
}

// Deps holds the service's injected dependencies.  Competitors may be nil,
// which leaves the landscape's competitor list empty.
type Deps struct {
	Repo        patent.Repository
	Vector      patent.VectorSearcher
	Embedder    search.Embedder
	Edges       citationdom.EdgeSource
	Competitors CompetitorSource
	Logger      logging.Logger
	Config      config.SearchConfig
}

// Service discovers prior art and builds landscape views.
type Service struct {
	repo        patent.Repository
	vector      patent.VectorSearcher
	embedder    search.Embedder
	edges       citationdom.EdgeSource
	competitors CompetitorSource
	log         logging.Logger
	cfg         config.SearchConfig
}

// NewService constructs a prior-art Service.
func NewService(deps Deps) (*Service, error) {
	if deps.Repo == nil || deps.Vector == nil || deps.Embedder == nil || deps.Edges == nil {
		return nil, apperrors.Internal("priorart: missing required dependency")
	}
	log := deps.Logger
	if log == nil {
		log = logging.Default()
	}
	return &Service{
		repo:        deps.Repo,
		vector:      deps.Vector,
		embedder:    deps.Embedder,
		edges:       deps.Edges,
		competitors: deps.Competitors,
		log:         log.Named("priorart"),
		cfg:         deps.Config,
	}, nil
}

// FindPriorArt merges semantic neighbors filed before the cutoff with the
// patents the target cites.  Citation evidence is admitted first; a patent
// found by both paths is tagged SourceBoth and keeps its best score.
func (s *Service) FindPriorArt(ctx context.Context, req Request) (*Report, error) {
	if req.PatentNumber == "" && req.TextQuery == "" {
		return nil, apperrors.Validation("either patent_number or text_query is required")
	}
	if req.TopK < 1 {
		req.TopK = defaultTopK
	}

	var target *patent.Patent
	if req.PatentNumber != "" {
		p, err := s.repo.GetByNumber(ctx, req.PatentNumber)
		if err != nil {
			return nil, err
		}
		target = p
		if req.FilingDateBefore == nil {
			req.FilingDateBefore = p.FilingDate
		}
	}

	semantic, err := s.semanticPriorArt(ctx, target, req)
	if err != nil {
		return nil, err
	}

	var citation []Result
	if target != nil {
		citation, err = s.citationPriorArt(ctx, target, req.TopK)
		if err != nil {
			return nil, err
		}
	}

	merged := mergePriorArt(citation, semantic)
	if len(merged) > req.TopK {
		merged = merged[:req.TopK]
	}

	return &Report{
		TargetPatent:     req.PatentNumber,
		TargetFilingDate: req.FilingDateBefore,
		PriorArt:         merged,
		TotalFound:       len(merged),
		SemanticCount:    len(semantic),
		CitationCount:    len(citation),
	}, nil
}

// Landscape assembles the competitive context around one patent: its nearest
// semantic neighbors, the patents it cites, the patents citing it, and the
// most-cited patents in its CPC classes held by other organizations.
func (s *Service) Landscape(ctx context.Context, number string, radius int) (*Landscape, error) {
	if radius < 1 {
		return nil, apperrors.Validation("radius must be >= 1")
	}
	target, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	similar, err := s.similarTo(ctx, target, radius)
	if err != nil {
		return nil, err
	}

	fwd, err := s.edges.Forward(ctx, []string{number})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeCitationTraversalFailed, "forward citations failed")
	}
	bwd, err := s.edges.Backward(ctx, []string{number})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeCitationTraversalFailed, "backward citations failed")
	}
	cited, err := s.hydrate(ctx, truncate(fwd[number], radius))
	if err != nil {
		return nil, err
	}
	citing, err := s.hydrate(ctx, truncate(bwd[number], radius))
	if err != nil {
		return nil, err
	}

	var competitors []*patent.Patent
	if s.competitors != nil && len(target.CPCCodes) > 0 {
		competitors, err = s.competitors.TopCitedByClass(ctx, target.CPCCodes, target.AssigneeOrganization, 5)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeSearchFailed, "competitor lookup failed")
		}
	}

	return &Landscape{
		Target:         target,
		SimilarPatents: similar,
		CitedPatents:   cited,
		CitingPatents:  citing,
		Competitors:    competitors,
	}, nil
}

// semanticPriorArt runs the vector scorer bounded by the filing-date cutoff
// and the minimum score.  A target without a stored embedding falls back to
// embedding its own text, so unembedded patents still get prior art.
func (s *Service) semanticPriorArt(ctx context.Context, target *patent.Patent, req Request) ([]Result, error) {
	var vector []float32
	var err error
	switch {
	case target != nil && target.HasEmbedding():
		vector = target.EmbeddingVector
	case target != nil:
		vector, err = s.embedder.Embed(ctx, target.SearchText())
	default:
		vector, err = s.embedder.Embed(ctx, req.TextQuery)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeEmbeddingUnavailable, "query embedding failed")
	}

	filter := patent.Filter{}
	if req.FilingDateBefore != nil {
		filter.DateTo = req.FilingDateBefore
	}

	// Fetch extra so self-exclusion and the strict date cut still fill TopK.
	scored, _, err := s.vector.SearchVector(ctx, vector, filter, req.TopK*2, 0)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeSearchFailed, "semantic prior art failed")
	}

	out := make([]Result, 0, req.TopK)
	for _, sp := range scored {
		if target != nil && sp.Patent.PatentNumber == target.PatentNumber {
			continue
		}
		if sp.Score < req.MinScore {
			continue
		}
		// The date filter is inclusive; prior art must strictly predate.
		if req.FilingDateBefore != nil && sp.Patent.FilingDate != nil &&
			!sp.Patent.FilingDate.Before(*req.FilingDateBefore) {
			continue
		}
		out = append(out, Result{Patent: sp.Patent, Score: sp.Score, Source: SourceSemantic})
		if len(out) == req.TopK {
			break
		}
	}
	return out, nil
}

// citationPriorArt treats everything the target cites as prior art with a
// fixed base relevance.
func (s *Service) citationPriorArt(ctx context.Context, target *patent.Patent, topK int) ([]Result, error) {
	fwd, err := s.edges.Forward(ctx, []string{target.PatentNumber})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeCitationTraversalFailed, "forward citations failed")
	}
	patents, err := s.hydrate(ctx, truncate(fwd[target.PatentNumber], topK))
	if err != nil {
		return nil, err
	}
	out := make([]Result, 0, len(patents))
	for _, p := range patents {
		out = append(out, Result{Patent: p, Score: citationBaseScore, Source: SourceCitation})
	}
	return out, nil
}

func truncate(numbers []string, limit int) []string {
	if len(numbers) > limit {
		return numbers[:limit]
	}
	return numbers
}

// hydrate resolves patent numbers to local rows, preserving input order and
// silently skipping numbers outside the corpus.
func (s *Service) hydrate(ctx context.Context, numbers []string) ([]*patent.Patent, error) {
	if len(numbers) == 0 {
		return nil, nil
	}
	byNumber, err := s.repo.GetByNumbers(ctx, numbers)
	if err != nil {
		return nil, err
	}
	out := make([]*patent.Patent, 0, len(byNumber))
	for _, n := range numbers {
		if p, ok := byNumber[n]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Service) similarTo(ctx context.Context, target *patent.Patent, topK int) ([]patent.ScoredPatent, error) {
	var vector []float32
	var err error
	if target.HasEmbedding() {
		vector = target.EmbeddingVector
	} else {
		vector, err = s.embedder.Embed(ctx, target.SearchText())
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeEmbeddingUnavailable, "target embedding failed")
		}
	}
	scored, _, err := s.vector.SearchVector(ctx, vector, patent.Filter{}, topK+1, 0)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeSearchFailed, "similarity search failed")
	}
	out := make([]patent.ScoredPatent, 0, topK)
	for _, sp := range scored {
		if sp.Patent.PatentNumber == target.PatentNumber {
			continue
		}
		out = append(out, sp)
		if len(out) == topK {
			break
		}
	}
	return out, nil
}

// mergePriorArt deduplicates across the two evidence paths.  Citation hits
// enter first; a semantic duplicate upgrades the entry to SourceBoth with the
// higher score.  The merged set is ordered by score descending, ties by
// patent number.
func mergePriorArt(citation, semantic []Result) []Result {
	index := make(map[string]int, len(citation)+len(semantic))
	out := make([]Result, 0, len(citation)+len(semantic))

	for _, r := range citation {
		index[r.Patent.PatentNumber] = len(out)
		out = append(out, r)
	}
	for _, r := range semantic {
		if i, ok := index[r.Patent.PatentNumber]; ok {
			out[i].Source = SourceBoth
			if r.Score > out[i].Score {
				out[i].Score = r.Score
			}
			continue
		}
		index[r.Patent.PatentNumber] = len(out)
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Patent.PatentNumber < out[j].Patent.PatentNumber
	})
	return out
}
