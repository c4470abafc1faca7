// The apiserver command runs the patent-intelligence HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/dmhernandez2525/patent-intelligence/internal/application/citation"
	"github.com/dmhernandez2525/patent-intelligence/internal/application/priorart"
	"github.com/dmhernandez2525/patent-intelligence/internal/application/search"
	"github.com/dmhernandez2525/patent-intelligence/internal/application/stats"
	"github.com/dmhernandez2525/patent-intelligence/internal/application/trends"
	"github.com/dmhernandez2525/patent-intelligence/internal/config"
	citationdom "github.com/dmhernandez2525/patent-intelligence/internal/domain/citation"
	"github.com/dmhernandez2525/patent-intelligence/internal/domain/patent"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/database/postgres"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/database/postgres/repositories"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/database/redis"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/embedding"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/graph/neo4j"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/monitoring/logging"
	appmetrics "github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/search/milvus"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/search/opensearch"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/storage/minio"
	httpiface "github.com/dmhernandez2525/patent-intelligence/internal/interfaces/http"
	"github.com/dmhernandez2525/patent-intelligence/internal/interfaces/http/handlers"
	"github.com/dmhernandez2525/patent-intelligence/internal/interfaces/http/middleware"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "config file path")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logging.NewLogger(logging.LogConfig{
		Level:            cfg.Log.Level,
		Format:           cfg.Log.Format,
		OutputPaths:      cfg.Log.OutputPaths,
		ErrorOutputPaths: cfg.Log.ErrorOutputPaths,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Database.MigrationPath != "" {
		if err := postgres.RunMigrations(postgres.DSN(cfg.Database), cfg.Database.MigrationPath); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
	}

	conn, err := postgres.NewConnection(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer conn.Close()

	patentRepo := repositories.NewPatentRepository(conn.Pool(), log)
	citationRepo := repositories.NewCitationRepository(conn.Pool(), log)
	trendRepo := repositories.NewTrendRepository(conn.Pool(), log)

	metrics := appmetrics.NewMetrics()
	probes := []handlers.Probe{
		handlers.ProbeFunc{ProbeName: "postgres", Fn: conn.HealthCheck},
	}

	var searchCache search.Cache
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer redisClient.Close()
		searchCache = redis.NewSearchCache(redisClient, log)
		probes = append(probes, handlers.ProbeFunc{ProbeName: "redis", Fn: redisClient.HealthCheck})
	}

	embedder, err := embedding.NewClient(cfg.Embedding, log)
	if err != nil {
		return fmt.Errorf("embedding: %w", err)
	}

	var textSearcher patent.TextSearcher = patentRepo
	if cfg.Search.TextBackend == "opensearch" {
		osClient, err := opensearch.NewClient(ctx, cfg.OpenSearch, log)
		if err != nil {
			return fmt.Errorf("opensearch: %w", err)
		}
		textSearcher = opensearch.NewSearcher(osClient, log)
		probes = append(probes, handlers.ProbeFunc{ProbeName: "opensearch", Fn: osClient.HealthCheck})
	}

	var vectorSearcher patent.VectorSearcher = patentRepo
	if cfg.Search.VectorBackend == "milvus" {
		milvusClient, err := milvus.NewClient(ctx, cfg.Milvus, log)
		if err != nil {
			return fmt.Errorf("milvus: %w", err)
		}
		defer milvusClient.Close()
		if err := milvus.EnsureCollection(ctx, milvusClient); err != nil {
			return fmt.Errorf("milvus collection: %w", err)
		}
		vectorSearcher = milvus.NewSearcher(milvusClient, patentRepo, log)
		probes = append(probes, handlers.ProbeFunc{ProbeName: "milvus", Fn: milvusClient.HealthCheck})
	}

	var edgeSource citationdom.EdgeSource = citationRepo
	if cfg.Citation.EdgeSource == "neo4j" && cfg.Neo4j.Enabled {
		driver, err := neo4j.NewDriver(ctx, cfg.Neo4j, log)
		if err != nil {
			return fmt.Errorf("neo4j: %w", err)
		}
		defer driver.Close(context.Background())
		edgeSource = neo4j.NewEdgeStore(driver, log)
		probes = append(probes, handlers.ProbeFunc{ProbeName: "neo4j", Fn: driver.HealthCheck})
	}

	var reportStore trends.ReportStore
	if cfg.MinIO.Enabled {
		minioClient, err := minio.NewClient(ctx, cfg.MinIO, log)
		if err != nil {
			return fmt.Errorf("minio: %w", err)
		}
		reportStore = minio.NewReportStore(minioClient, log)
		probes = append(probes, handlers.ProbeFunc{ProbeName: "minio", Fn: minioClient.HealthCheck})
	}

	searchSvc, err := search.NewService(search.Deps{
		Repo:     patentRepo,
		Text:     textSearcher,
		Vector:   vectorSearcher,
		Embedder: embedder,
		Cache:    searchCache,
		Logger:   log,
		Config:   cfg.Search,
	})
	if err != nil {
		return err
	}

	citationSvc, err := citation.NewService(citation.Deps{
		Patents: patentRepo,
		Edges:   edgeSource,
		Stats:   citationRepo,
		Logger:  log,
		Config:  cfg.Citation,
	})
	if err != nil {
		return err
	}

	trendSvc, err := trends.NewService(trends.Deps{
		Source:  trendRepo,
		Reports: reportStore,
		Logger:  log,
		Config:  cfg.Trend,
	})
	if err != nil {
		return err
	}

	priorArtSvc, err := priorart.NewService(priorart.Deps{
		Repo:        patentRepo,
		Vector:      vectorSearcher,
		Embedder:    embedder,
		Edges:       edgeSource,
		Competitors: patentRepo,
		Logger:      log,
		Config:      cfg.Search,
	})
	if err != nil {
		return err
	}

	statsSvc, err := stats.NewService(stats.Deps{Repo: patentRepo, Logger: log})
	if err != nil {
		return err
	}

	router := httpiface.NewRouter(httpiface.RouterConfig{
		SearchHandler:   handlers.NewSearchHandler(searchSvc),
		PatentHandler:   handlers.NewPatentHandler(patentRepo),
		CitationHandler: handlers.NewCitationHandler(citationSvc),
		TrendHandler:    handlers.NewTrendHandler(trendSvc),
		PriorArtHandler: handlers.NewPriorArtHandler(priorArtSvc),
		StatsHandler:    handlers.NewStatsHandler(statsSvc),
		HealthHandler:   handlers.NewHealthHandler(log, probes...),
		RateLimiter:     middleware.NewRateLimiter(ctx, 50, 100),
		Server:          cfg.Server,
		Logger:          log,
		Metrics:         metrics,
	})
	server := httpiface.NewServer(cfg.Server, router, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
