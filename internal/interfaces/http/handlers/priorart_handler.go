package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmhernandez2525/patent-intelligence/internal/application/priorart"
	apperrors "github.com/dmhernandez2525/patent-intelligence/pkg/errors"
)

// PriorArtService is the slice of the prior-art service the handler consumes.
type PriorArtService interface {
	FindPriorArt(ctx context.Context, req priorart.Request) (*priorart.Report, error)
	Landscape(ctx context.Context, number string, radius int) (*priorart.Landscape, error)
}

// PriorArtHandler serves prior-art discovery and landscape endpoints.
type PriorArtHandler struct {
	svc PriorArtService
}

func NewPriorArtHandler(svc PriorArtService) *PriorArtHandler {
	return &PriorArtHandler{svc: svc}
}

// Find handles POST /api/v1/prior-art. The body is a priorart.Request with
// either patent_number or text_query set.
func (h *PriorArtHandler) Find(c *gin.Context) {
	var req priorart.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Validation("malformed prior-art request: "+err.Error()))
		return
	}

	report, err := h.svc.FindPriorArt(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Landscape handles GET /api/v1/patents/:number/landscape.
// Query parameter: radius (similar/cited/citing/competitor list size).
func (h *PriorArtHandler) Landscape(c *gin.Context) {
	radius, err := intQuery(c, "radius", 10)
	if err != nil {
		respondError(c, err)
		return
	}

	landscape, err := h.svc.Landscape(c.Request.Context(), c.Param("number"), radius)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, landscape)
}
