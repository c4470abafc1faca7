package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/monitoring/logging"
)

// probeTimeout bounds each readiness check.
const probeTimeout = 3 * time.Second

// Probe is one dependency's readiness check.
type Probe interface {
	Name() string
	Check(ctx context.Context) error
}

// ProbeFunc adapts a function to the Probe interface.
type ProbeFunc struct {
	ProbeName string
	Fn        func(ctx context.Context) error
}

func (p ProbeFunc) Name() string                    { return p.ProbeName }
func (p ProbeFunc) Check(ctx context.Context) error { return p.Fn(ctx) }

// HealthHandler serves the liveness and readiness endpoints.
type HealthHandler struct {
	probes []Probe
	log    logging.Logger
}

func NewHealthHandler(log logging.Logger, probes ...Probe) *HealthHandler {
	if log == nil {
		log = logging.Default()
	}
	return &HealthHandler{probes: probes, log: log.Named("health")}
}

// Liveness handles GET /healthz. It reports only that the process is up.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz. Every probe must pass; any failure returns
// 503 with per-dependency detail.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
	defer cancel()

	checks := make(map[string]string, len(h.probes))
	healthy := true
	for _, p := range h.probes {
		if err := p.Check(ctx); err != nil {
			healthy = false
			checks[p.Name()] = err.Error()
			h.log.Warn("readiness probe failed",
				logging.String("probe", p.Name()), logging.Err(err))
			continue
		}
		checks[p.Name()] = "ok"
	}

	status := http.StatusOK
	state := "ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "not ready"
	}
	c.JSON(status, gin.H{"status": state, "checks": checks})
}
