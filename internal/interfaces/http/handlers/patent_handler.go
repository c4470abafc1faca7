package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmhernandez2525/patent-intelligence/internal/application/stats"
	"github.com/dmhernandez2525/patent-intelligence/internal/domain/patent"
)

// PatentReader is the lookup slice of the patent repository.
type PatentReader interface {
	GetByNumber(ctx context.Context, number string) (*patent.Patent, error)
}

// PatentHandler serves single-patent lookups.
type PatentHandler struct {
	repo PatentReader
}

func NewPatentHandler(repo PatentReader) *PatentHandler {
	return &PatentHandler{repo: repo}
}

// Get handles GET /api/v1/patents/:number.
func (h *PatentHandler) Get(c *gin.Context) {
	p, err := h.repo.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// StatsService is the slice of the stats service the handler consumes.
type StatsService interface {
	Dashboard(ctx context.Context, days int) (*stats.Dashboard, error)
}

// StatsHandler serves the dashboard overview.
type StatsHandler struct {
	svc StatsService
}

func NewStatsHandler(svc StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

// Dashboard handles GET /api/v1/stats/dashboard.
// Query parameter: expiring_days.
func (h *StatsHandler) Dashboard(c *gin.Context) {
	days, err := intQuery(c, "expiring_days", 0)
	if err != nil {
		respondError(c, err)
		return
	}

	dashboard, err := h.svc.Dashboard(c.Request.Context(), days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}
