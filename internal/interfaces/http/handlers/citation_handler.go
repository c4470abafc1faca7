package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmhernandez2525/patent-intelligence/internal/domain/citation"
)

// CitationService is the slice of the citation service the handler consumes.
type CitationService interface {
	Network(ctx context.Context, number string, depth, maxNodes int) (*citation.Network, error)
	Stats(ctx context.Context, number string) (*citation.Stats, error)
}

// CitationHandler serves citation network and impact endpoints.
type CitationHandler struct {
	svc CitationService
}

func NewCitationHandler(svc CitationService) *CitationHandler {
	return &CitationHandler{svc: svc}
}

// Network handles GET /api/v1/patents/:number/citations.
// Query parameters: depth (default 1), max_nodes (default 100).
func (h *CitationHandler) Network(c *gin.Context) {
	depth, err := intQuery(c, "depth", 1)
	if err != nil {
		respondError(c, err)
		return
	}
	maxNodes, err := intQuery(c, "max_nodes", 100)
	if err != nil {
		respondError(c, err)
		return
	}

	network, err := h.svc.Network(c.Request.Context(), c.Param("number"), depth, maxNodes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, network)
}

// Stats handles GET /api/v1/patents/:number/citations/stats.
func (h *CitationHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
