package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmhernandez2525/patent-intelligence/internal/application/search"
	"github.com/dmhernandez2525/patent-intelligence/internal/domain/patent"
	apperrors "github.com/dmhernandez2525/patent-intelligence/pkg/errors"
)

// SearchService is the slice of the search service the handler consumes.
type SearchService interface {
	Search(ctx context.Context, req search.Request) (*search.Response, error)
	SemanticByPatent(ctx context.Context, number string, filter patent.Filter, opts search.SimilarOptions) ([]patent.ScoredPatent, error)
}

// SearchHandler serves the hybrid search endpoint.
type SearchHandler struct {
	svc SearchService
}

func NewSearchHandler(svc SearchService) *SearchHandler {
	return &SearchHandler{svc: svc}
}

// Search handles POST /api/v1/search. The body is a search.Request; mode
// defaults to hybrid when omitted.
func (h *SearchHandler) Search(c *gin.Context) {
	var req search.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Validation("malformed search request: "+err.Error()))
		return
	}
	if req.Mode == "" {
		req.Mode = search.ModeHybrid
	}

	resp, err := h.svc.Search(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Similar handles GET /api/v1/patents/:number/similar. Query parameters:
// top_k, min_score, exclude_same_assignee, country, status.
func (h *SearchHandler) Similar(c *gin.Context) {
	number := c.Param("number")

	topK, err := intQuery(c, "top_k", 10)
	if err != nil {
		respondError(c, err)
		return
	}
	minScore, err := floatQuery(c, "min_score", 0)
	if err != nil {
		respondError(c, err)
		return
	}
	opts := search.SimilarOptions{
		TopK:                topK,
		MinScore:            minScore,
		ExcludeSameAssignee: c.Query("exclude_same_assignee") == "true",
	}
	filter := patent.Filter{
		Country: c.Query("country"),
		Status:  patent.Status(c.Query("status")),
	}
	if err := filter.Validate(); err != nil {
		respondError(c, err)
		return
	}

	results, err := h.svc.SemanticByPatent(c.Request.Context(), number, filter, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"patent_number": number,
		"results":       results,
		"count":         len(results),
	})
}
