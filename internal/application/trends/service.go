// Package trends implements the trend aggregator: yearly filing totals, top
// CPC classes, growth leaders via period-split comparison, and top filers.
package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmhernandez2525/patent-intelligence/internal/config"
	"github.com/dmhernandez2525/patent-intelligence/internal/domain/trend"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/monitoring/logging"
	apperrors "github.com/dmhernandez2525/patent-intelligence/pkg/errors"
)

// ReportStore persists rendered trend reports, returning a retrievable
// location for the stored object.
type ReportStore interface {
	Put(ctx context.Context, name string, payload []byte, contentType string) (string, error)
}

// Deps holds the service's injected dependencies.  Reports may be nil, which
// disables report export.
type Deps struct {
	Source  trend.Source
	Reports ReportStore
	Logger  logging.Logger
	Config  config.TrendConfig

	// Now overrides the clock; nil means time.Now.  The aggregation window
	// is anchored at the current year.
	Now func() time.Time
}

// Service composes trend reports from the aggregate-query port.
type Service struct {
	source  trend.Source
	reports ReportStore
	log     logging.Logger
	cfg     config.TrendConfig
	now     func() time.Time
}

// NewService constructs a trend Service.
func NewService(deps Deps) (*Service, error) {
	if deps.Source == nil {
		return nil, apperrors.Internal("trends: missing required dependency")
	}
	log := deps.Logger
	if log == nil {
		log = logging.Default()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		source:  deps.Source,
		reports: deps.Reports,
		log:     log.Named("trends"),
		cfg:     deps.Config,
		now:     now,
	}, nil
}

// Report aggregates the trend window ending at the current year.  years and
// topN of 0 mean the configured defaults.
//
// The four aggregates are independent reads of the same filtered set and run
// concurrently; the growth computation additionally needs per-class counts
// for each half of the window, fetched as two more grouped queries.
func (s *Service) Report(ctx context.Context, filter trend.Filter, years, topN int) (*trend.Report, error) {
	if years == 0 {
		years = s.cfg.DefaultYears
	}
	if topN == 0 {
		topN = s.cfg.DefaultTopN
	}
	if years < 1 {
		return nil, apperrors.New(apperrors.ErrCodeTrendWindowInvalid, "years must be >= 1")
	}
	if topN < 1 {
		return nil, apperrors.New(apperrors.ErrCodeTrendWindowInvalid, "top_n must be >= 1")
	}

	toYear := s.now().UTC().Year()
	fromYear := toYear - years + 1

	// Window split for growth comparison.  The earlier half takes the floor
	// when the window has an odd year count.
	recentFrom := fromYear + years/2
	earlierTo := recentFrom - 1

	var (
		yearly       []trend.YearCount
		classTotals  map[string]int64
		earlierClass map[string]int64
		recentClass  map[string]int64
		assignees    []trend.AssigneeCount
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		yearly, err = s.source.YearlyCounts(gctx, filter, fromYear, toYear)
		return err
	})
	g.Go(func() error {
		var err error
		classTotals, err = s.source.ClassCounts(gctx, filter, fromYear, toYear)
		return err
	})
	g.Go(func() error {
		var err error
		earlierClass, err = s.source.ClassCounts(gctx, filter, fromYear, earlierTo)
		return err
	})
	g.Go(func() error {
		var err error
		recentClass, err = s.source.ClassCounts(gctx, filter, recentFrom, toYear)
		return err
	})
	g.Go(func() error {
		var err error
		assignees, err = s.source.AssigneeCounts(gctx, filter, fromYear, toYear, topN)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeTrendQueryFailed, "trend aggregation failed")
	}

	return &trend.Report{
		Period:        fmt.Sprintf("%d-%d", fromYear, toYear),
		YearlyTotals:  fillYears(yearly, fromYear, toYear),
		TopCPCTrends:  topClasses(classTotals, topN),
		GrowthLeaders: growthLeaders(earlierClass, recentClass, s.cfg.GrowthMinEarlierCount, topN),
		TopAssignees:  assignees,
	}, nil
}

// Export renders the report as JSON and stores it, returning the stored
// object's location.
func (s *Service) Export(ctx context.Context, filter trend.Filter, years, topN int) (string, error) {
	if s.reports == nil {
		return "", apperrors.New(apperrors.ErrCodeTrendReportFailed, "report store not configured")
	}
	report, err := s.Report(ctx, filter, years, topN)
	if err != nil {
		return "", err
	}
	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeTrendReportFailed, "report encoding failed")
	}
	name := fmt.Sprintf("trends-%s-%s.json", report.Period, s.now().UTC().Format("20060102T150405Z"))
	location, err := s.reports.Put(ctx, name, payload, "application/json")
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeTrendReportFailed, "report upload failed")
	}
	s.log.Info("trend report exported",
		logging.String("object", name),
		logging.String("period", report.Period))
	return location, nil
}

// fillYears densifies the year buckets so every year in the window appears,
// zero-count years included, oldest first.
func fillYears(counts []trend.YearCount, fromYear, toYear int) []trend.YearCount {
	byYear := make(map[int]int64, len(counts))
	for _, yc := range counts {
		byYear[yc.Year] = yc.Count
	}
	out := make([]trend.YearCount, 0, toYear-fromYear+1)
	for y := fromYear; y <= toYear; y++ {
		out = append(out, trend.YearCount{Year: y, Count: byYear[y]})
	}
	return out
}

// topClasses ranks CPC classes by count descending, ties by class ascending.
func topClasses(totals map[string]int64, topN int) []trend.ClassCount {
	out := make([]trend.ClassCount, 0, len(totals))
	for class, count := range totals {
		out = append(out, trend.ClassCount{CPCClass: class, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].CPCClass < out[j].CPCClass
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}

// growthLeaders compares the window halves per CPC class.  Classes below the
// minimum earlier-period count are excluded entirely; a near-zero base would
// otherwise produce spurious extreme growth rates.
func growthLeaders(earlier, recent map[string]int64, minEarlier, topN int) []trend.GrowthLeader {
	out := make([]trend.GrowthLeader, 0, len(earlier))
	for class, earlierCount := range earlier {
		if earlierCount < int64(minEarlier) {
			continue
		}
		recentCount := recent[class]
		out = append(out, trend.GrowthLeader{
			CPCClass:     class,
			EarlierCount: earlierCount,
			RecentCount:  recentCount,
			GrowthRate:   float64(recentCount-earlierCount) / float64(earlierCount),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].GrowthRate != out[j].GrowthRate {
			return out[i].GrowthRate > out[j].GrowthRate
		}
		return out[i].CPCClass < out[j].CPCClass
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}
