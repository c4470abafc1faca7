// Package http wires the gin engine, middleware chain and API routes.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmhernandez2525/patent-intelligence/internal/config"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/monitoring/logging"
	appmetrics "github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/dmhernandez2525/patent-intelligence/internal/interfaces/http/handlers"
	"github.com/dmhernandez2525/patent-intelligence/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies for the
// full route tree. Nil handlers leave their routes unregistered, so partial
// deployments (no object store, no vector backend) still boot.
type RouterConfig struct {
	SearchHandler   *handlers.SearchHandler
	PatentHandler   *handlers.PatentHandler
	CitationHandler *handlers.CitationHandler
	TrendHandler    *handlers.TrendHandler
	PriorArtHandler *handlers.PriorArtHandler
	StatsHandler    *handlers.StatsHandler
	HealthHandler   *handlers.HealthHandler

	RateLimiter *middleware.RateLimiter

	Server  config.ServerConfig
	Logger  logging.Logger
	Metrics *appmetrics.Metrics
}

// NewRouter builds the engine with the global middleware chain, the public
// probe and metrics endpoints, and the /api/v1 resource groups.
func NewRouter(cfg RouterConfig) *gin.Engine {
	switch cfg.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Proxy headers are untrusted so ClientIP cannot be spoofed.
	_ = r.SetTrustedProxies(nil)

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	if cfg.Logger != nil {
		r.Use(middleware.RequestLogger(cfg.Logger))
	}
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Handler())
	}

	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.Liveness)
		r.GET("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api/v1")
	{
		if cfg.SearchHandler != nil {
			api.POST("/search", cfg.SearchHandler.Search)
		}
		if cfg.PriorArtHandler != nil {
			api.POST("/prior-art", cfg.PriorArtHandler.Find)
		}

		patents := api.Group("/patents/:number")
		{
			if cfg.PatentHandler != nil {
				patents.GET("", cfg.PatentHandler.Get)
			}
			if cfg.SearchHandler != nil {
				patents.GET("/similar", cfg.SearchHandler.Similar)
			}
			if cfg.CitationHandler != nil {
				patents.GET("/citations", cfg.CitationHandler.Network)
				patents.GET("/citations/stats", cfg.CitationHandler.Stats)
			}
			if cfg.PriorArtHandler != nil {
				patents.GET("/landscape", cfg.PriorArtHandler.Landscape)
			}
		}

		if cfg.TrendHandler != nil {
			api.GET("/trends", cfg.TrendHandler.Report)
			api.POST("/trends/export", cfg.TrendHandler.Export)
		}
		if cfg.StatsHandler != nil {
			api.GET("/stats/dashboard", cfg.StatsHandler.Dashboard)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{
			"code":    "COMMON_003",
			"message": "route not found",
		}})
	})

	return r
}
