package config

import "time"

// Default value constants.  Search and citation defaults mirror the engine's
// documented contract: RRF k of 60, semantic weight 0.6, a 3x fetch window,
// and a traversal depth cap of 5.
const (
	DefaultServerPort = 8080
	DefaultServerMode = "release"

	DefaultDBHost     = "localhost"
	DefaultDBPort     = 5432
	DefaultDBName     = "patents"
	DefaultDBMaxConns = 25

	DefaultRedisAddr = "localhost:6379"

	DefaultKafkaBroker  = "localhost:9092"
	DefaultKafkaGroupID = "patent-intelligence"
	DefaultKafkaTopic   = "patent-changes"

	DefaultMilvusAddr = "localhost:19530"

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultReportBucket  = "trend-reports"

	DefaultEmbeddingDim = 768

	DefaultTextBackend     = "postgres"
	DefaultVectorBackend   = "postgres"
	DefaultRRFK            = 60
	DefaultSemanticWeight  = 0.6
	DefaultFetchMultiplier = 3
	DefaultMaxQueryLength  = 1000

	DefaultCitationMaxDepth = 5
	DefaultCitationMaxNodes = 100
	DefaultEdgeSource       = "postgres"

	DefaultTrendYears            = 20
	DefaultTrendTopN             = 10
	DefaultGrowthMinEarlierCount = 5

	DefaultWorkerConcurrency = 4

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsPath = "/metrics"
)

// ApplyDefaults fills every zero-value field in cfg with the platform default.
// Fields that have already been set by the caller (non-zero values) are left
// unchanged so that explicit configuration always wins.  It must be called
// after unmarshalling raw config data and before Validate().
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 15 * time.Second
	}

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MigrationPath == "" {
		cfg.Database.MigrationPath = "file://migrations"
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = 5 * time.Minute
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = "patint"
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroupID
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = DefaultKafkaTopic
	}
	if cfg.Kafka.AutoOffsetReset == "" {
		cfg.Kafka.AutoOffsetReset = "earliest"
	}

	// ── OpenSearch ────────────────────────────────────────────────────────────
	if cfg.OpenSearch.Index == "" {
		cfg.OpenSearch.Index = "patents"
	}

	// ── Milvus ────────────────────────────────────────────────────────────────
	if cfg.Milvus.Addr == "" {
		cfg.Milvus.Addr = DefaultMilvusAddr
	}
	if cfg.Milvus.Collection == "" {
		cfg.Milvus.Collection = "patent_embeddings"
	}
	if cfg.Milvus.EmbeddingDim == 0 {
		cfg.Milvus.EmbeddingDim = DefaultEmbeddingDim
	}
	if cfg.Milvus.DefaultTopK == 0 {
		cfg.Milvus.DefaultTopK = 100
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultReportBucket
	}
	if cfg.MinIO.PresignExpiry == 0 {
		cfg.MinIO.PresignExpiry = 24 * time.Hour
	}

	// ── Embedding ─────────────────────────────────────────────────────────────
	if cfg.Embedding.Dimension == 0 {
		cfg.Embedding.Dimension = DefaultEmbeddingDim
	}
	if cfg.Embedding.Timeout == 0 {
		cfg.Embedding.Timeout = 10 * time.Second
	}

	// ── Search ────────────────────────────────────────────────────────────────
	if cfg.Search.TextBackend == "" {
		cfg.Search.TextBackend = DefaultTextBackend
	}
	if cfg.Search.VectorBackend == "" {
		cfg.Search.VectorBackend = DefaultVectorBackend
	}
	if cfg.Search.RRFK == 0 {
		cfg.Search.RRFK = DefaultRRFK
	}
	if cfg.Search.DefaultSemanticWeight == 0 {
		cfg.Search.DefaultSemanticWeight = DefaultSemanticWeight
	}
	if cfg.Search.FetchMultiplier == 0 {
		cfg.Search.FetchMultiplier = DefaultFetchMultiplier
	}
	if cfg.Search.MaxQueryLength == 0 {
		cfg.Search.MaxQueryLength = DefaultMaxQueryLength
	}
	if cfg.Search.CacheTTL == 0 {
		cfg.Search.CacheTTL = 2 * time.Minute
	}

	// ── Citation ──────────────────────────────────────────────────────────────
	if cfg.Citation.MaxDepth == 0 {
		cfg.Citation.MaxDepth = DefaultCitationMaxDepth
	}
	if cfg.Citation.DefaultMaxNodes == 0 {
		cfg.Citation.DefaultMaxNodes = DefaultCitationMaxNodes
	}
	if cfg.Citation.EdgeSource == "" {
		cfg.Citation.EdgeSource = DefaultEdgeSource
	}

	// ── Trend ─────────────────────────────────────────────────────────────────
	if cfg.Trend.DefaultYears == 0 {
		cfg.Trend.DefaultYears = DefaultTrendYears
	}
	if cfg.Trend.DefaultTopN == 0 {
		cfg.Trend.DefaultTopN = DefaultTrendTopN
	}
	if cfg.Trend.GrowthMinEarlierCount == 0 {
		cfg.Trend.GrowthMinEarlierCount = DefaultGrowthMinEarlierCount
	}

	// ── Worker ────────────────────────────────────────────────────────────────
	if cfg.Worker.Concurrency == 0 {
		cfg.Worker.Concurrency = DefaultWorkerConcurrency
	}
	if cfg.Worker.ShutdownTimeout == 0 {
		cfg.Worker.ShutdownTimeout = 10 * time.Second
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
}
