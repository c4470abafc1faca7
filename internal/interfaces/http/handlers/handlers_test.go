package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmhernandez2525/patent-intelligence/internal/application/priorart"
	"github.com/dmhernandez2525/patent-intelligence/internal/application/search"
	"github.com/dmhernandez2525/patent-intelligence/internal/application/stats"
	"github.com/dmhernandez2525/patent-intelligence/internal/domain/citation"
	"github.com/dmhernandez2525/patent-intelligence/internal/domain/patent"
	"github.com/dmhernandez2525/patent-intelligence/internal/domain/trend"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/monitoring/logging"
	apperrors "github.com/dmhernandez2525/patent-intelligence/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ─────────────────────────────────────────────────────────────────────────────
// Stubs
// ─────────────────────────────────────────────────────────────────────────────

type stubSearchService struct {
	searchFn  func(ctx context.Context, req search.Request) (*search.Response, error)
	similarFn func(ctx context.Context, number string, filter patent.Filter, opts search.SimilarOptions) ([]patent.ScoredPatent, error)
}

func (s *stubSearchService) Search(ctx context.Context, req search.Request) (*search.Response, error) {
	return s.searchFn(ctx, req)
}

func (s *stubSearchService) SemanticByPatent(ctx context.Context, number string, filter patent.Filter, opts search.SimilarOptions) ([]patent.ScoredPatent, error) {
	return s.similarFn(ctx, number, filter, opts)
}

type stubCitationService struct {
	networkFn func(ctx context.Context, number string, depth, maxNodes int) (*citation.Network, error)
	statsFn   func(ctx context.Context, number string) (*citation.Stats, error)
}

func (s *stubCitationService) Network(ctx context.Context, number string, depth, maxNodes int) (*citation.Network, error) {
	return s.networkFn(ctx, number, depth, maxNodes)
}

func (s *stubCitationService) Stats(ctx context.Context, number string) (*citation.Stats, error) {
	return s.statsFn(ctx, number)
}

type stubTrendService struct {
	reportFn func(ctx context.Context, filter trend.Filter, years, topN int) (*trend.Report, error)
	exportFn func(ctx context.Context, filter trend.Filter, years, topN int) (string, error)
}

func (s *stubTrendService) Report(ctx context.Context, filter trend.Filter, years, topN int) (*trend.Report, error) {
	return s.reportFn(ctx, filter, years, topN)
}

func (s *stubTrendService) Export(ctx context.Context, filter trend.Filter, years, topN int) (string, error) {
	return s.exportFn(ctx, filter, years, topN)
}

type stubPriorArtService struct {
	findFn      func(ctx context.Context, req priorart.Request) (*priorart.Report, error)
	landscapeFn func(ctx context.Context, number string, radius int) (*priorart.Landscape, error)
}

func (s *stubPriorArtService) FindPriorArt(ctx context.Context, req priorart.Request) (*priorart.Report, error) {
	return s.findFn(ctx, req)
}

func (s *stubPriorArtService) Landscape(ctx context.Context, number string, radius int) (*priorart.Landscape, error) {
	return s.landscapeFn(ctx, number, radius)
}

type stubStatsService struct {
	fn func(ctx context.Context, days int) (*stats.Dashboard, error)
}

func (s *stubStatsService) Dashboard(ctx context.Context, days int) (*stats.Dashboard, error) {
	return s.fn(ctx, days)
}

type stubPatentReader struct {
	fn func(ctx context.Context, number string) (*patent.Patent, error)
}

func (s *stubPatentReader) GetByNumber(ctx context.Context, number string) (*patent.Patent, error) {
	return s.fn(ctx, number)
}

func perform(r http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// ─────────────────────────────────────────────────────────────────────────────
// Search
// ─────────────────────────────────────────────────────────────────────────────

func TestSearchDefaultsToHybrid(t *testing.T) {
	t.Parallel()

	var gotMode search.Mode
	h := NewSearchHandler(&stubSearchService{
		searchFn: func(_ context.Context, req search.Request) (*search.Response, error) {
			gotMode = req.Mode
			return &search.Response{Query: req.Query, Mode: req.Mode, Page: 1, PerPage: 20}, nil
		},
	})
	r := gin.New()
	r.POST("/search", h.Search)

	rec := perform(r, http.MethodPost, "/search", map[string]any{"query": "battery"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, search.ModeHybrid, gotMode)
}

func TestSearchMalformedBody(t *testing.T) {
	t.Parallel()

	h := NewSearchHandler(&stubSearchService{})
	r := gin.New()
	r.POST("/search", h.Search)

	req := httptest.NewRequest(http.MethodPost, "/search", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "COMMON_008")
}

func TestSearchServiceErrorMapped(t *testing.T) {
	t.Parallel()

	h := NewSearchHandler(&stubSearchService{
		searchFn: func(context.Context, search.Request) (*search.Response, error) {
			return nil, apperrors.New(apperrors.ErrCodeSearchQueryInvalid, "query must not be blank")
		},
	})
	r := gin.New()
	r.POST("/search", h.Search)

	rec := perform(r, http.MethodPost, "/search", map[string]any{"query": "  "})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "SRCH_001")
	assert.Contains(t, rec.Body.String(), "query must not be blank")
}

func TestSimilarPassesParams(t *testing.T) {
	t.Parallel()

	h := NewSearchHandler(&stubSearchService{
		similarFn: func(_ context.Context, number string, filter patent.Filter, opts search.SimilarOptions) ([]patent.ScoredPatent, error) {
			assert.Equal(t, "US-1234567-B2", number)
			assert.Equal(t, "US", filter.Country)
			assert.Equal(t, search.SimilarOptions{TopK: 5, MinScore: 0.4, ExcludeSameAssignee: true}, opts)
			return nil, nil
		},
	})
	r := gin.New()
	r.GET("/patents/:number/similar", h.Similar)

	rec := perform(r, http.MethodGet,
		"/patents/US-1234567-B2/similar?top_k=5&country=US&min_score=0.4&exclude_same_assignee=true", nil)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSimilarBadTopK(t *testing.T) {
	t.Parallel()

	h := NewSearchHandler(&stubSearchService{})
	r := gin.New()
	r.GET("/patents/:number/similar", h.Similar)

	rec := perform(r, http.MethodGet, "/patents/US-1-A1/similar?top_k=lots", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

// ─────────────────────────────────────────────────────────────────────────────
// Citations
// ─────────────────────────────────────────────────────────────────────────────

func TestCitationNetworkDefaults(t *testing.T) {
	t.Parallel()

	h := NewCitationHandler(&stubCitationService{
		networkFn: func(_ context.Context, number string, depth, maxNodes int) (*citation.Network, error) {
			assert.Equal(t, 1, depth)
			assert.Equal(t, 100, maxNodes)
			return &citation.Network{Center: number, Depth: depth}, nil
		},
	})
	r := gin.New()
	r.GET("/patents/:number/citations", h.Network)

	rec := perform(r, http.MethodGet, "/patents/US-1-A1/citations", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "US-1-A1")
}

func TestCitationNetworkNotFound(t *testing.T) {
	t.Parallel()

	h := NewCitationHandler(&stubCitationService{
		networkFn: func(context.Context, string, int, int) (*citation.Network, error) {
			return nil, apperrors.New(apperrors.ErrCodePatentNotFound, "patent not found")
		},
	})
	r := gin.New()
	r.GET("/patents/:number/citations", h.Network)

	rec := perform(r, http.MethodGet, "/patents/XX-0-Z9/citations?depth=2", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "PAT_001")
}

func TestCitationStats(t *testing.T) {
	t.Parallel()

	idx := 1.62
	h := NewCitationHandler(&stubCitationService{
		statsFn: func(_ context.Context, number string) (*citation.Stats, error) {
			return &citation.Stats{PatentNumber: number, ForwardCitations: 12, CitationIndex: &idx}, nil
		},
	})
	r := gin.New()
	r.GET("/patents/:number/citations/stats", h.Stats)

	rec := perform(r, http.MethodGet, "/patents/US-1-A1/citations/stats", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "1.62")
}

// ─────────────────────────────────────────────────────────────────────────────
// Trends, prior art, stats, patents
// ─────────────────────────────────────────────────────────────────────────────

func TestTrendReportParams(t *testing.T) {
	t.Parallel()

	h := NewTrendHandler(&stubTrendService{
		reportFn: func(_ context.Context, filter trend.Filter, years, topN int) (*trend.Report, error) {
			assert.Equal(t, "H01L", filter.CPCPrefix)
			assert.Equal(t, "US", filter.Country)
			assert.Equal(t, 5, years)
			assert.Equal(t, 3, topN)
			return &trend.Report{Period: "2021-2025"}, nil
		},
	})
	r := gin.New()
	r.GET("/trends", h.Report)

	rec := perform(r, http.MethodGet, "/trends?cpc_prefix=H01L&country=US&years=5&top_n=3", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "2021-2025")
}

func TestTrendExportReturnsLink(t *testing.T) {
	t.Parallel()

	h := NewTrendHandler(&stubTrendService{
		exportFn: func(context.Context, trend.Filter, int, int) (string, error) {
			return "https://minio.local/trend-reports/r.json?sig=abc", nil
		},
	})
	r := gin.New()
	r.POST("/trends/export", h.Export)

	rec := perform(r, http.MethodPost, "/trends/export", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "download_url")
}

func TestPriorArtFind(t *testing.T) {
	t.Parallel()

	h := NewPriorArtHandler(&stubPriorArtService{
		findFn: func(_ context.Context, req priorart.Request) (*priorart.Report, error) {
			assert.Equal(t, "US-1-A1", req.PatentNumber)
			return &priorart.Report{TargetPatent: req.PatentNumber, TotalFound: 2}, nil
		},
	})
	r := gin.New()
	r.POST("/prior-art", h.Find)

	rec := perform(r, http.MethodPost, "/prior-art", map[string]any{"patent_number": "US-1-A1"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "total_found")
}

func TestLandscapeRadius(t *testing.T) {
	t.Parallel()

	h := NewPriorArtHandler(&stubPriorArtService{
		landscapeFn: func(_ context.Context, number string, radius int) (*priorart.Landscape, error) {
			assert.Equal(t, 25, radius)
			return &priorart.Landscape{}, nil
		},
	})
	r := gin.New()
	r.GET("/patents/:number/landscape", h.Landscape)

	rec := perform(r, http.MethodGet, "/patents/US-1-A1/landscape?radius=25", nil)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestStatsDashboard(t *testing.T) {
	t.Parallel()

	h := NewStatsHandler(&stubStatsService{
		fn: func(_ context.Context, days int) (*stats.Dashboard, error) {
			assert.Equal(t, 30, days)
			return &stats.Dashboard{TotalPatents: 42, ExpiringDays: days}, nil
		},
	})
	r := gin.New()
	r.GET("/stats/dashboard", h.Dashboard)

	rec := perform(r, http.MethodGet, "/stats/dashboard?expiring_days=30", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "\"total_patents\":42")
}

func TestPatentGetNotFound(t *testing.T) {
	t.Parallel()

	h := NewPatentHandler(&stubPatentReader{
		fn: func(context.Context, string) (*patent.Patent, error) {
			return nil, apperrors.New(apperrors.ErrCodePatentNotFound, "patent not found")
		},
	})
	r := gin.New()
	r.GET("/patents/:number", h.Get)

	rec := perform(r, http.MethodGet, "/patents/US-9-Z9", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

// ─────────────────────────────────────────────────────────────────────────────
// Health
// ─────────────────────────────────────────────────────────────────────────────

func TestReadinessAllHealthy(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler(logging.NewNopLogger(),
		ProbeFunc{ProbeName: "postgres", Fn: func(context.Context) error { return nil }},
		ProbeFunc{ProbeName: "redis", Fn: func(context.Context) error { return nil }},
	)
	r := gin.New()
	r.GET("/readyz", h.Readiness)

	rec := perform(r, http.MethodGet, "/readyz", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "\"postgres\":\"ok\"")
}

func TestReadinessFailingProbe(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler(logging.NewNopLogger(),
		ProbeFunc{ProbeName: "postgres", Fn: func(context.Context) error { return nil }},
		ProbeFunc{ProbeName: "redis", Fn: func(context.Context) error { return assert.AnError }},
	)
	r := gin.New()
	r.GET("/readyz", h.Readiness)

	rec := perform(r, http.MethodGet, "/readyz", nil)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "not ready")
}

func TestLiveness(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler(logging.NewNopLogger())
	r := gin.New()
	r.GET("/healthz", h.Liveness)

	rec := perform(r, http.MethodGet, "/healthz", nil)

	require.Equal(t, http.StatusOK, rec.Code)
}
