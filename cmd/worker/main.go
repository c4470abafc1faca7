// The worker command consumes patent-change events and keeps the search
// cache and the optional secondary indexes in sync with the corpus.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmhernandez2525/patent-intelligence/internal/config"
	"github.com/dmhernandez2525/patent-intelligence/internal/domain/patent"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/database/postgres"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/database/postgres/repositories"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/database/redis"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/messaging/kafka"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/monitoring/logging"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/search/milvus"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/search/opensearch"
	apperrors "github.com/dmhernandez2525/patent-intelligence/pkg/errors"
)

const defaultConfigPath = "configs/config.yaml"

// searchCachePrefix matches the key prefix the search service caches under.
const searchCachePrefix = "search:"

func main() {
	configPath := flag.String("config", defaultConfigPath, "config file path")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		os.Exit(1)
	}
}

// syncTarget is one downstream index kept consistent with the corpus.
type syncTarget interface {
	upsert(ctx context.Context, p *patent.Patent) error
	remove(ctx context.Context, number string) error
}

type milvusTarget struct{ searcher *milvus.Searcher }

func (t milvusTarget) upsert(ctx context.Context, p *patent.Patent) error {
	_, err := t.searcher.UpsertEmbeddings(ctx, []*patent.Patent{p})
	return err
}

func (t milvusTarget) remove(ctx context.Context, number string) error {
	return t.searcher.DeleteEmbeddings(ctx, []string{number})
}

type opensearchTarget struct{ indexer *opensearch.Indexer }

func (t opensearchTarget) upsert(ctx context.Context, p *patent.Patent) error {
	_, err := t.indexer.BulkIndex(ctx, []*patent.Patent{p})
	return err
}

func (t opensearchTarget) remove(ctx context.Context, number string) error {
	return t.indexer.Delete(ctx, number)
}

// changeHandler reacts to one corpus change: drop stale cached search
// results, then propagate the change to every secondary index.
type changeHandler struct {
	repo    patent.Repository
	cache   *redis.SearchCache
	targets []syncTarget
	log     logging.Logger
}

func (h *changeHandler) handle(ctx context.Context, event kafka.PatentChangeEvent) error {
	if h.cache != nil {
		removed, err := h.cache.Invalidate(ctx, searchCachePrefix)
		if err != nil {
			h.log.Warn("cache invalidation failed", logging.Err(err))
		} else if removed > 0 {
			h.log.Debug("cache invalidated",
				logging.Int64("keys", removed),
				logging.String("patent", event.PatentNumber))
		}
	}

	switch event.Action {
	case kafka.ActionDeleted:
		for _, target := range h.targets {
			if err := target.remove(ctx, event.PatentNumber); err != nil {
				return err
			}
		}
		return nil

	case kafka.ActionIngested, kafka.ActionUpdated:
		if len(h.targets) == 0 {
			return nil
		}
		p, err := h.repo.GetByNumber(ctx, event.PatentNumber)
		if err != nil {
			// The patent may already be gone again; nothing to sync.
			if apperrors.IsNotFound(err) {
				return nil
			}
			return err
		}
		for _, target := range h.targets {
			if err := target.upsert(ctx, p); err != nil {
				return err
			}
		}
		return nil

	default:
		return nil
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
	log = log.Named("worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := postgres.NewConnection(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer conn.Close()
	patentRepo := repositories.NewPatentRepository(conn.Pool(), log)

	handler := &changeHandler{repo: patentRepo, log: log}

	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer redisClient.Close()
		handler.cache = redis.NewSearchCache(redisClient, log)
	}

	if cfg.Search.VectorBackend == "milvus" {
		milvusClient, err := milvus.NewClient(ctx, cfg.Milvus, log)
		if err != nil {
			return fmt.Errorf("milvus: %w", err)
		}
		defer milvusClient.Close()
		if err := milvus.EnsureCollection(ctx, milvusClient); err != nil {
			return fmt.Errorf("milvus collection: %w", err)
		}
		handler.targets = append(handler.targets,
			milvusTarget{searcher: milvus.NewSearcher(milvusClient, patentRepo, log)})
	}

	if cfg.Search.TextBackend == "opensearch" {
		osClient, err := opensearch.NewClient(ctx, cfg.OpenSearch, log)
		if err != nil {
			return fmt.Errorf("opensearch: %w", err)
		}
		indexer := opensearch.NewIndexer(osClient, log)
		if err := indexer.EnsureIndex(ctx); err != nil {
			return fmt.Errorf("opensearch index: %w", err)
		}
		handler.targets = append(handler.targets, opensearchTarget{indexer: indexer})
	}

	consumer, err := kafka.NewConsumer(cfg.Kafka, handler.handle, log)
	if err != nil {
		return fmt.Errorf("kafka: %w", err)
	}
	if err := consumer.Start(ctx); err != nil {
		return err
	}

	log.Info("worker running",
		logging.String("topic", cfg.Kafka.Topic),
		logging.Int("sync_targets", len(handler.targets)))

	<-ctx.Done()
	if err := consumer.Stop(); err != nil {
		log.Warn("consumer shutdown", logging.Err(err))
	}

	consumed, failed := consumer.Stats()
	log.Info("worker stopped",
		logging.Int64("consumed", consumed),
		logging.Int64("failed", failed))
	return nil
}
