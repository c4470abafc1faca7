// Package config defines all configuration structures for the
// patent-intelligence platform.  No I/O or parsing logic lives here, only
// plain data types and validation.
package config

import (
	"fmt"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MinConns        int           `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrationPath   string        `mapstructure:"migration_path"`
}

// Neo4jConfig holds the optional graph-store connection parameters used by the
// neo4j citation edge source.
type Neo4jConfig struct {
	Enabled               bool          `mapstructure:"enabled"`
	URI                   string        `mapstructure:"uri"`
	User                  string        `mapstructure:"user"`
	Password              string        `mapstructure:"password"`
	Database              string        `mapstructure:"database"`
	MaxConnectionPoolSize int           `mapstructure:"max_connection_pool_size"`
	ConnectionTimeout     time.Duration `mapstructure:"connection_timeout"`
}

// RedisConfig holds Redis connection parameters for the search result cache.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// KafkaConfig holds the patent-change event consumer parameters.
type KafkaConfig struct {
	Brokers         []string `mapstructure:"brokers"`
	GroupID         string   `mapstructure:"group_id"`
	Topic           string   `mapstructure:"topic"`
	AutoOffsetReset string   `mapstructure:"auto_offset_reset"` // "earliest" | "latest"
	MinBytes        int      `mapstructure:"min_bytes"`
	MaxBytes        int      `mapstructure:"max_bytes"`
}

// OpenSearchConfig holds the optional full-text backend parameters.
type OpenSearchConfig struct {
	Addresses          []string `mapstructure:"addresses"`
	User               string   `mapstructure:"user"`
	Password           string   `mapstructure:"password"`
	InsecureSkipVerify bool     `mapstructure:"insecure_skip_verify"`
	Index              string   `mapstructure:"index"`
}

// MilvusConfig holds the optional vector backend parameters.
type MilvusConfig struct {
	Addr         string `mapstructure:"addr"`
	DBName       string `mapstructure:"db_name"`
	Collection   string `mapstructure:"collection"`
	EmbeddingDim int    `mapstructure:"embedding_dim"`
	DefaultTopK  int    `mapstructure:"default_top_k"`
}

// MinIOConfig holds S3-compatible object-storage parameters for trend report
// exports.
type MinIOConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Endpoint      string        `mapstructure:"endpoint"`
	AccessKey     string        `mapstructure:"access_key"`
	SecretKey     string        `mapstructure:"secret_key"`
	Bucket        string        `mapstructure:"bucket"`
	UseSSL        bool          `mapstructure:"use_ssl"`
	PresignExpiry time.Duration `mapstructure:"presign_expiry"`
}

// EmbeddingConfig holds the embedding provider parameters used by the semantic
// scorer.
type EmbeddingConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	Dimension int           `mapstructure:"dimension"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// SearchConfig holds the hybrid search engine tunables.  The RRF constant and
// weights are explicit configuration rather than package globals so that each
// service instance carries its own values.
type SearchConfig struct {
	// TextBackend selects the full-text scorer adapter: "postgres" | "opensearch".
	TextBackend string `mapstructure:"text_backend"`

	// VectorBackend selects the semantic scorer adapter: "postgres" | "milvus".
	VectorBackend string `mapstructure:"vector_backend"`

	// RRFK is the damping constant k in the reciprocal rank fusion formula
	// weight / (k + rank + 1).
	RRFK int `mapstructure:"rrf_k"`

	// DefaultSemanticWeight is used when a hybrid request does not carry an
	// explicit semantic_weight, range [0,1].
	DefaultSemanticWeight float64 `mapstructure:"default_semantic_weight"`

	// FetchMultiplier scales per_page into the per-source fetch window:
	// fetch_n = FetchMultiplier * per_page.
	FetchMultiplier int `mapstructure:"fetch_multiplier"`

	// MaxQueryLength bounds the accepted query string length.
	MaxQueryLength int `mapstructure:"max_query_length"`

	// CacheTTL bounds how long fused search pages stay in the Redis cache.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// CitationConfig holds the citation graph walker tunables.
type CitationConfig struct {
	// MaxDepth caps caller-supplied traversal depth.
	MaxDepth int `mapstructure:"max_depth"`

	// DefaultMaxNodes is used when a request does not carry max_nodes.
	DefaultMaxNodes int `mapstructure:"default_max_nodes"`

	// EdgeSource selects the citation edge adapter: "postgres" | "neo4j".
	EdgeSource string `mapstructure:"edge_source"`
}

// TrendConfig holds the trend aggregator tunables.
type TrendConfig struct {
	DefaultYears int `mapstructure:"default_years"`
	DefaultTopN  int `mapstructure:"default_top_n"`

	// GrowthMinEarlierCount is the minimum earlier-half count a CPC class
	// needs before a growth rate is computed for it.
	GrowthMinEarlierCount int `mapstructure:"growth_min_earlier_count"`
}

// WorkerConfig holds background-worker execution parameters.
type WorkerConfig struct {
	Concurrency     int           `mapstructure:"concurrency"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level            string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format           string   `mapstructure:"format"` // "json" | "console"
	OutputPaths      []string `mapstructure:"output_paths"`
	ErrorOutputPaths []string `mapstructure:"error_output_paths"`
}

// MetricsConfig holds Prometheus exposition parameters.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure for the entire platform.
// Every infrastructure component and application service reads its settings
// from the relevant sub-struct.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Neo4j      Neo4jConfig      `mapstructure:"neo4j"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	OpenSearch OpenSearchConfig `mapstructure:"opensearch"`
	Milvus     MilvusConfig     `mapstructure:"milvus"`
	MinIO      MinIOConfig      `mapstructure:"minio"`
	Embedding  EmbeddingConfig  `mapstructure:"embedding"`
	Search     SearchConfig     `mapstructure:"search"`
	Citation   CitationConfig   `mapstructure:"citation"`
	Trend      TrendConfig      `mapstructure:"trend"`
	Worker     WorkerConfig     `mapstructure:"worker"`
	Log        LogConfig        `mapstructure:"log"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any error as
// fatal and refuse to start the application.
func (c *Config) Validate() error {
	// Server
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	// Database
	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("config: database.port %d is out of range [1, 65535]", c.Database.Port)
	}
	if c.Database.User == "" {
		return fmt.Errorf("config: database.user is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("config: database.db_name is required")
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("config: database.max_conns must be >= 1, got %d", c.Database.MaxConns)
	}

	// Redis
	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			return fmt.Errorf("config: redis.addr is required when redis is enabled")
		}
		if c.Redis.DB < 0 {
			return fmt.Errorf("config: redis.db must be >= 0, got %d", c.Redis.DB)
		}
	}

	// Search
	switch c.Search.TextBackend {
	case "postgres", "opensearch":
	default:
		return fmt.Errorf("config: search.text_backend %q is invalid; expected postgres|opensearch", c.Search.TextBackend)
	}
	switch c.Search.VectorBackend {
	case "postgres", "milvus":
	default:
		return fmt.Errorf("config: search.vector_backend %q is invalid; expected postgres|milvus", c.Search.VectorBackend)
	}
	if c.Search.RRFK < 1 {
		return fmt.Errorf("config: search.rrf_k must be >= 1, got %d", c.Search.RRFK)
	}
	if c.Search.DefaultSemanticWeight < 0 || c.Search.DefaultSemanticWeight > 1 {
		return fmt.Errorf("config: search.default_semantic_weight %v is out of range [0, 1]", c.Search.DefaultSemanticWeight)
	}
	if c.Search.FetchMultiplier < 1 {
		return fmt.Errorf("config: search.fetch_multiplier must be >= 1, got %d", c.Search.FetchMultiplier)
	}
	if c.Search.MaxQueryLength < 1 {
		return fmt.Errorf("config: search.max_query_length must be >= 1, got %d", c.Search.MaxQueryLength)
	}

	// Citation
	if c.Citation.MaxDepth < 1 {
		return fmt.Errorf("config: citation.max_depth must be >= 1, got %d", c.Citation.MaxDepth)
	}
	if c.Citation.DefaultMaxNodes < 1 {
		return fmt.Errorf("config: citation.default_max_nodes must be >= 1, got %d", c.Citation.DefaultMaxNodes)
	}
	switch c.Citation.EdgeSource {
	case "postgres", "neo4j":
	default:
		return fmt.Errorf("config: citation.edge_source %q is invalid; expected postgres|neo4j", c.Citation.EdgeSource)
	}

	// Trend
	if c.Trend.DefaultYears < 1 {
		return fmt.Errorf("config: trend.default_years must be >= 1, got %d", c.Trend.DefaultYears)
	}
	if c.Trend.DefaultTopN < 1 {
		return fmt.Errorf("config: trend.default_top_n must be >= 1, got %d", c.Trend.DefaultTopN)
	}
	if c.Trend.GrowthMinEarlierCount < 0 {
		return fmt.Errorf("config: trend.growth_min_earlier_count must be >= 0, got %d", c.Trend.GrowthMinEarlierCount)
	}

	// Worker
	if c.Worker.Concurrency < 1 {
		return fmt.Errorf("config: worker.concurrency must be >= 1, got %d", c.Worker.Concurrency)
	}

	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}
