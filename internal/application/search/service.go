package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmhernandez2525/patent-intelligence/internal/config"
	"github.com/dmhernandez2525/patent-intelligence/internal/domain/patent"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/monitoring/logging"
	apperrors "github.com/dmhernandez2525/patent-intelligence/pkg/errors"
	"github.com/dmhernandez2525/patent-intelligence/pkg/types/common"
)

// Cache is the optional result cache consumed by the service.  A nil Cache
// disables caching; errors from the cache are logged and otherwise ignored,
// the store remains the source of truth.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// Deps holds the service's injected dependencies.
type Deps struct {
	Repo     patent.Repository
	Text     patent.TextSearcher
	Vector   patent.VectorSearcher
	Embedder Embedder
	Cache    Cache
	Logger   logging.Logger
	Config   config.SearchConfig
}

// Service executes full-text, semantic, and hybrid searches.  It is stateless
// and safe for concurrent use; every request runs independently.
type Service struct {
	repo     patent.Repository
	text     patent.TextSearcher
	vector   patent.VectorSearcher
	embedder Embedder
	cache    Cache
	log      logging.Logger
	cfg      config.SearchConfig
}

// NewService constructs a search Service.  Repo, Text, Vector, and Embedder
// are required; Cache may be nil.
func NewService(deps Deps) (*Service, error) {
	if deps.Repo == nil || deps.Text == nil || deps.Vector == nil || deps.Embedder == nil {
		return nil, apperrors.Internal("search: missing required dependency")
	}
	log := deps.Logger
	if log == nil {
		log = logging.Default()
	}
	return &Service{
		repo:     deps.Repo,
		text:     deps.Text,
		vector:   deps.Vector,
		embedder: deps.Embedder,
		cache:    deps.Cache,
		log:      log.Named("search"),
		cfg:      deps.Config,
	}, nil
}

// Search validates the request and dispatches it to the scorer selected by
// its mode.
func (s *Service) Search(ctx context.Context, req Request) (*Response, error) {
	normalized, err := s.normalize(req)
	if err != nil {
		return nil, err
	}

	if cached, ok := s.cacheGet(ctx, normalized); ok {
		return cached, nil
	}

	var resp *Response
	switch normalized.Mode {
	case ModeFullText:
		resp, err = s.fulltext(ctx, normalized)
	case ModeSemantic:
		resp, err = s.semantic(ctx, normalized)
	case ModeHybrid:
		resp, err = s.hybrid(ctx, normalized)
	default:
		return nil, apperrors.New(apperrors.ErrCodeSearchModeInvalid,
			"unsupported search mode: "+string(normalized.Mode))
	}
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, normalized, resp)
	return resp, nil
}

// normalize applies defaults and validates every request field.
func (s *Service) normalize(req Request) (Request, error) {
	if req.Mode == "" {
		req.Mode = ModeHybrid
	}
	if !req.Mode.IsValid() {
		return req, apperrors.New(apperrors.ErrCodeSearchModeInvalid,
			"unsupported search mode: "+string(req.Mode))
	}

	if strings.TrimSpace(req.Query) == "" {
		return req, apperrors.New(apperrors.ErrCodeSearchQueryInvalid, "query must not be empty")
	}
	if len(req.Query) > s.cfg.MaxQueryLength {
		return req, apperrors.New(apperrors.ErrCodeSearchQueryInvalid,
			"query exceeds maximum length").WithDetail("max=" + strconv.Itoa(s.cfg.MaxQueryLength))
	}

	p := common.Pagination{Page: req.Page, PerPage: req.PerPage}.Normalize()
	if err := p.Validate(); err != nil {
		return req, apperrors.Validation(err.Error())
	}
	req.Page, req.PerPage = p.Page, p.PerPage

	if req.SemanticWeight != nil && (*req.SemanticWeight < 0 || *req.SemanticWeight > 1) {
		return req, apperrors.Validation("semantic_weight must be in [0, 1]")
	}

	if err := req.Filter.Validate(); err != nil {
		return req, err
	}
	return req, nil
}

// fulltext runs the trigram scorer with pagination pushed to the store.
func (s *Service) fulltext(ctx context.Context, req Request) (*Response, error) {
	offset := (req.Page - 1) * req.PerPage
	results, total, err := s.text.SearchText(ctx, req.Query, req.Filter, req.PerPage, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeSearchFailed, "fulltext search failed")
	}
	return s.respond(req, results, total, false), nil
}

// semantic embeds the query and runs the vector scorer.  Zero embedding
// coverage yields an empty response with the coverage flag set; an
// unavailable embedding provider is surfaced to the caller since there is
// nothing to fall back to in pure semantic mode.
func (s *Service) semantic(ctx context.Context, req Request) (*Response, error) {
	embedded, err := s.repo.CountEmbedded(ctx, req.Filter)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeSearchFailed, "embedding coverage check failed")
	}
	if embedded == 0 {
		return s.respond(req, nil, 0, true), nil
	}

	vector, err := s.embedder.Embed(ctx, req.Query)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeEmbeddingUnavailable, "query embedding failed")
	}

	offset := (req.Page - 1) * req.PerPage
	results, total, err := s.vector.SearchVector(ctx, vector, req.Filter, req.PerPage, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeSearchFailed, "semantic search failed")
	}
	return s.respond(req, results, total, false), nil
}

// SemanticByPatent ranks patents against the stored embedding of an existing
// patent.  The reference patent itself is excluded from the results, as are
// patents below opts.MinScore and, when opts.ExcludeSameAssignee is set,
// patents held by the reference patent's assignee.  A missing patent or one
// without a stored embedding is a NotFound condition.
func (s *Service) SemanticByPatent(ctx context.Context, number string, filter patent.Filter, opts SimilarOptions) ([]patent.ScoredPatent, error) {
	if opts.TopK < 1 {
		return nil, apperrors.Validation("top_k must be >= 1")
	}
	if opts.MinScore < 0 || opts.MinScore > 1 {
		return nil, apperrors.Validation("min_score must be in [0,1]")
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if !p.HasEmbedding() {
		return nil, apperrors.New(apperrors.ErrCodePatentNotFound,
			"patent has no stored embedding").WithDetail("number=" + number)
	}

	// Overfetch so post-filter drops still fill topK; the window is widest
	// when same-assignee exclusion is on.
	fetchN := opts.TopK + 1
	if opts.ExcludeSameAssignee {
		fetchN = opts.TopK*2 + 1
	}
	results, _, err := s.vector.SearchVector(ctx, p.EmbeddingVector, filter, fetchN, 0)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeSearchFailed, "semantic search failed")
	}
	out := make([]patent.ScoredPatent, 0, opts.TopK)
	for _, sp := range results {
		if sp.Patent.PatentNumber == number {
			continue
		}
		if sp.Score < opts.MinScore {
			// Results arrive score-descending; nothing further can pass.
			break
		}
		if opts.ExcludeSameAssignee && p.AssigneeOrganization != "" &&
			sp.Patent.AssigneeOrganization == p.AssigneeOrganization {
			continue
		}
		out = append(out, sp)
		if len(out) == opts.TopK {
			break
		}
	}
	return out, nil
}

// hybrid fetches a 3x window from each scorer concurrently, fuses the two
// rankings with RRF, and paginates the fused list.  The fusion step is the
// synchronization point: both sub-fetches must finish before it runs.
func (s *Service) hybrid(ctx context.Context, req Request) (*Response, error) {
	weight := s.cfg.DefaultSemanticWeight
	if req.SemanticWeight != nil {
		weight = *req.SemanticWeight
	}
	fetchN := s.cfg.FetchMultiplier * req.PerPage

	var (
		textResults []patent.ScoredPatent
		textTotal   int64

		semResults []patent.ScoredPatent
		noCoverage bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		textResults, textTotal, err = s.text.SearchText(gctx, req.Query, req.Filter, fetchN, 0)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeSearchFailed, "fulltext sub-fetch failed")
		}
		return nil
	})
	g.Go(func() error {
		embedded, err := s.repo.CountEmbedded(gctx, req.Filter)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeSearchFailed, "embedding coverage check failed")
		}
		if embedded == 0 {
			noCoverage = true
			return nil
		}
		vector, err := s.embedder.Embed(gctx, req.Query)
		if err != nil {
			// Provider outages degrade hybrid to full-text only; they are
			// never surfaced as a request failure.
			s.log.Warn("embedding provider unavailable, falling back to fulltext",
				logging.Err(err))
			noCoverage = true
			return nil
		}
		semResults, _, err = s.vector.SearchVector(gctx, vector, req.Filter, fetchN, 0)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeSearchFailed, "semantic sub-fetch failed")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if noCoverage || len(semResults) == 0 {
		// Degraded hybrid is plain full-text.  The fetched window only
		// covers the first pages, so re-run with real pagination.
		if offset := (req.Page - 1) * req.PerPage; offset+req.PerPage > len(textResults) && int64(len(textResults)) < textTotal {
			resp, err := s.fulltext(ctx, req)
			if err != nil {
				return nil, err
			}
			resp.ZeroCoverage = true
			return resp, nil
		}
		page := paginate(textResults, req.Page, req.PerPage)
		return s.respond(req, page, textTotal, true), nil
	}

	fused := rrfFuse(textResults, semResults, s.cfg.RRFK, weight)
	page := paginate(fused, req.Page, req.PerPage)
	return s.respond(req, page, int64(len(fused)), false), nil
}

// respond assembles the paginated response envelope.  Empty result sets are
// valid, successful responses everywhere in this engine.
func (s *Service) respond(req Request, results []patent.ScoredPatent, total int64, zeroCoverage bool) *Response {
	if results == nil {
		results = []patent.ScoredPatent{}
	}
	totalPages := 0
	if req.PerPage > 0 {
		totalPages = int((total + int64(req.PerPage) - 1) / int64(req.PerPage))
	}
	return &Response{
		Results:      results,
		Total:        total,
		Query:        req.Query,
		Mode:         req.Mode,
		Page:         req.Page,
		PerPage:      req.PerPage,
		TotalPages:   totalPages,
		ZeroCoverage: zeroCoverage,
	}
}

func (s *Service) cacheKey(req Request) string {
	raw, err := json.Marshal(req)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(raw)
	return "search:" + hex.EncodeToString(sum[:])
}

func (s *Service) cacheGet(ctx context.Context, req Request) (*Response, bool) {
	if s.cache == nil {
		return nil, false
	}
	key := s.cacheKey(req)
	if key == "" {
		return nil, false
	}
	raw, ok := s.cache.Get(ctx, key)
	if !ok {
		return nil, false
	}
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		s.log.Warn("discarding undecodable cached search result", logging.Err(err))
		return nil, false
	}
	return &resp, true
}

func (s *Service) cacheSet(ctx context.Context, req Request, resp *Response) {
	if s.cache == nil || resp == nil {
		return
	}
	key := s.cacheKey(req)
	if key == "" {
		return
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	s.cache.Set(ctx, key, raw, s.cfg.CacheTTL)
}

