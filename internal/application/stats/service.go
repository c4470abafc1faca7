// Package stats assembles the dashboard overview: corpus size, embedding
// coverage, and patents approaching expiration.
package stats

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/dmhernandez2525/patent-intelligence/internal/domain/patent"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/monitoring/logging"
	apperrors "github.com/dmhernandez2525/patent-intelligence/pkg/errors"
)

const (
	defaultExpiringDays  = 90
	defaultExpiringLimit = 10
)

// Dashboard is the overview payload.
type Dashboard struct {
	TotalPatents    int64            `json:"total_patents"`
	EmbeddedPatents int64            `json:"embedded_patents"`
	ExpiringDays    int              `json:"expiring_days"`
	ExpiringSoon    []*patent.Patent `json:"expiring_soon"`
}

// Deps holds the service's injected dependencies.
type Deps struct {
	Repo   patent.Repository
	Logger logging.Logger
}

// Service serves dashboard statistics.
type Service struct {
	repo patent.Repository
	log  logging.Logger
}

// NewService constructs a stats Service.
func NewService(deps Deps) (*Service, error) {
	if deps.Repo == nil {
		return nil, apperrors.Internal("stats: missing required dependency")
	}
	log := deps.Logger
	if log == nil {
		log = logging.Default()
	}
	return &Service{repo: deps.Repo, log: log.Named("stats")}, nil
}

// Dashboard gathers the overview counts concurrently.  days of 0 means the
// default 90-day expiration horizon.
func (s *Service) Dashboard(ctx context.Context, days int) (*Dashboard, error) {
	if days == 0 {
		days = defaultExpiringDays
	}
	if days < 1 {
		return nil, apperrors.Validation("days must be >= 1")
	}

	var (
		total    int64
		embedded int64
		expiring []*patent.Patent
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx, patent.Filter{})
		return err
	})
	g.Go(func() error {
		var err error
		embedded, err = s.repo.CountEmbedded(gctx, patent.Filter{})
		return err
	})
	g.Go(func() error {
		var err error
		expiring, err = s.repo.ExpiringWithin(gctx, days, defaultExpiringLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "dashboard aggregation failed")
	}

	if expiring == nil {
		expiring = []*patent.Patent{}
	}
	return &Dashboard{
		TotalPatents:    total,
		EmbeddedPatents: embedded,
		ExpiringDays:    days,
		ExpiringSoon:    expiring,
	}, nil
}
