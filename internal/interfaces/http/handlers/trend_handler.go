package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmhernandez2525/patent-intelligence/internal/domain/trend"
)

// TrendService is the slice of the trend service the handler consumes.
type TrendService interface {
	Report(ctx context.Context, filter trend.Filter, years, topN int) (*trend.Report, error)
	Export(ctx context.Context, filter trend.Filter, years, topN int) (string, error)
}

// TrendHandler serves trend aggregation endpoints.
type TrendHandler struct {
	svc TrendService
}

func NewTrendHandler(svc TrendService) *TrendHandler {
	return &TrendHandler{svc: svc}
}

func trendParams(c *gin.Context) (trend.Filter, int, int, error) {
	filter := trend.Filter{
		CPCPrefix: c.Query("cpc_prefix"),
		Country:   c.Query("country"),
	}
	years, err := intQuery(c, "years", 0)
	if err != nil {
		return trend.Filter{}, 0, 0, err
	}
	topN, err := intQuery(c, "top_n", 0)
	if err != nil {
		return trend.Filter{}, 0, 0, err
	}
	return filter, years, topN, nil
}

// Report handles GET /api/v1/trends.
// Query parameters: cpc_prefix, country, years, top_n.
func (h *TrendHandler) Report(c *gin.Context) {
	filter, years, topN, err := trendParams(c)
	if err != nil {
		respondError(c, err)
		return
	}

	report, err := h.svc.Report(c.Request.Context(), filter, years, topN)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Export handles POST /api/v1/trends/export. The report is written to the
// object store and the response carries a presigned download link.
func (h *TrendHandler) Export(c *gin.Context) {
	filter, years, topN, err := trendParams(c)
	if err != nil {
		respondError(c, err)
		return
	}

	link, err := h.svc.Export(c.Request.Context(), filter, years, topN)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"download_url": link})
}
