// Package neo4j provides the optional graph-store citation edge source.  The
// Postgres adjacency adapter remains the default; deployments with an
// existing citation graph select this one via citations.edge_source.
package neo4j

import (
	"context"
	"sync"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/dmhernandez2525/patent-intelligence/internal/config"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/monitoring/logging"
	"github.com/dmhernandez2525/patent-intelligence/pkg/errors"
)

// Result abstracts neo4j.ResultWithContext for the repository layer.
type Result interface {
	Next(ctx context.Context) bool
	Record() *neo4j.Record
	Err() error
}

// Transaction abstracts neo4j.ManagedTransaction.
type Transaction interface {
	Run(ctx context.Context, cypher string, params map[string]any) (Result, error)
}

// TransactionWork is a unit of work executed inside a managed transaction.
type TransactionWork func(tx Transaction) (any, error)

// Runner executes transactions.  The edge store depends on this rather than
// the concrete driver so tests run without a server.
type Runner interface {
	ExecuteRead(ctx context.Context, work TransactionWork) (any, error)
	ExecuteWrite(ctx context.Context, work TransactionWork) (any, error)
}

type stdResult struct {
	res neo4j.ResultWithContext
}

func (r *stdResult) Next(ctx context.Context) bool { return r.res.Next(ctx) }
func (r *stdResult) Record() *neo4j.Record         { return r.res.Record() }
func (r *stdResult) Err() error                    { return r.res.Err() }

type stdTransaction struct {
	tx neo4j.ManagedTransaction
}

func (t *stdTransaction) Run(ctx context.Context, cypher string, params map[string]any) (Result, error) {
	res, err := t.tx.Run(ctx, cypher, params)
	if err != nil {
		return nil, err
	}
	return &stdResult{res: res}, nil
}

// Driver wraps the bolt driver with session management.
type Driver struct {
	d    neo4j.DriverWithContext
	cfg  config.Neo4jConfig
	log  logging.Logger
	once sync.Once
}

// NewDriver connects to the graph store and verifies connectivity.
func NewDriver(ctx context.Context, cfg config.Neo4jConfig, log logging.Logger) (*Driver, error) {
	if cfg.URI == "" {
		return nil, errors.Validation("neo4j uri is required")
	}

	d, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""), func(c *neo4j.Config) {
		if cfg.MaxConnectionPoolSize > 0 {
			c.MaxConnectionPoolSize = cfg.MaxConnectionPoolSize
		}
		if cfg.ConnectionTimeout > 0 {
			c.ConnectionAcquisitionTimeout = cfg.ConnectionTimeout
		}
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create neo4j driver")
	}

	verifyCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := d.VerifyConnectivity(verifyCtx); err != nil {
		d.Close(ctx)
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "neo4j connection failed")
	}

	log.Info("connected to Neo4j",
		logging.String("uri", cfg.URI),
		logging.String("database", cfg.Database),
	)
	return &Driver{d: d, cfg: cfg, log: log}, nil
}

func (d *Driver) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	db := d.cfg.Database
	if db == "" {
		db = "neo4j"
	}
	return d.d.NewSession(ctx, neo4j.SessionConfig{DatabaseName: db, AccessMode: mode})
}

// ExecuteRead runs work in a managed read transaction.
func (d *Driver) ExecuteRead(ctx context.Context, work TransactionWork) (any, error) {
	session := d.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return work(&stdTransaction{tx: tx})
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "neo4j read failed")
	}
	return out, nil
}

// ExecuteWrite runs work in a managed write transaction.
func (d *Driver) ExecuteWrite(ctx context.Context, work TransactionWork) (any, error) {
	session := d.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	out, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return work(&stdTransaction{tx: tx})
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "neo4j write failed")
	}
	return out, nil
}

// HealthCheck verifies connectivity.
func (d *Driver) HealthCheck(ctx context.Context) error {
	if err := d.d.VerifyConnectivity(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "neo4j health check failed")
	}
	return nil
}

// Close shuts down the driver.  Safe to call more than once.
func (d *Driver) Close(ctx context.Context) error {
	var err error
	d.once.Do(func() {
		err = d.d.Close(ctx)
		if err != nil {
			d.log.Error("failed to close neo4j driver", logging.Err(err))
			return
		}
		d.log.Info("closed neo4j driver")
	})
	return err
}
