package trends

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmhernandez2525/patent-intelligence/internal/config"
	"github.com/dmhernandez2525/patent-intelligence/internal/domain/trend"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/monitoring/logging"
	apperrors "github.com/dmhernandez2525/patent-intelligence/pkg/errors"
)

// stubSource serves canned aggregates and records the windows it was asked
// for, keyed by "from-to".
type stubSource struct {
	mu        sync.Mutex
	yearly    []trend.YearCount
	classes   map[string]map[string]int64
	assignees []trend.AssigneeCount
	windows   []string
}

func window(from, to int) string {
	return fmt.Sprintf("%d-%d", from, to)
}

func (s *stubSource) YearlyCounts(_ context.Context, _ trend.Filter, _, _ int) ([]trend.YearCount, error) {
	return s.yearly, nil
}

func (s *stubSource) ClassCounts(_ context.Context, _ trend.Filter, from, to int) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windows = append(s.windows, window(from, to))
	if s.classes == nil {
		return map[string]int64{}, nil
	}
	return s.classes[window(from, to)], nil
}

func (s *stubSource) AssigneeCounts(_ context.Context, _ trend.Filter, from, to, limit int) ([]trend.AssigneeCount, error) {
	if limit < len(s.assignees) {
		return s.assignees[:limit], nil
	}
	return s.assignees, nil
}

type stubReports struct {
	objects map[string][]byte
}

func (r *stubReports) Put(_ context.Context, name string, payload []byte, _ string) (string, error) {
	if r.objects == nil {
		r.objects = make(map[string][]byte)
	}
	r.objects[name] = payload
	return "s3://trend-reports/" + name, nil
}

func fixedNow() time.Time {
	return time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
}

func newTestService(t *testing.T, source trend.Source, reports ReportStore) *Service {
	t.Helper()
	svc, err := NewService(Deps{
		Source:  source,
		Reports: reports,
		Logger:  logging.NewNopLogger(),
		Config: config.TrendConfig{
			DefaultYears:          20,
			DefaultTopN:           10,
			GrowthMinEarlierCount: 5,
		},
		Now: fixedNow,
	})
	require.NoError(t, err)
	return svc
}

func TestReportWindowAndPeriod(t *testing.T) {
	t.Parallel()

	source := &stubSource{}
	svc := newTestService(t, source, nil)

	report, err := svc.Report(context.Background(), trend.Filter{}, 10, 5)
	require.NoError(t, err)

	// Anchored at 2025, a 10-year window spans 2016-2025 and splits into
	// 2016-2020 and 2021-2025 halves.
	assert.Equal(t, "2016-2025", report.Period)
	assert.ElementsMatch(t,
		[]string{"2016-2025", "2016-2020", "2021-2025"},
		source.windows)
}

func TestReportYearlyTotalsDensified(t *testing.T) {
	t.Parallel()

	source := &stubSource{
		yearly: []trend.YearCount{
			{Year: 2023, Count: 7},
			{Year: 2025, Count: 2},
		},
	}
	svc := newTestService(t, source, nil)

	report, err := svc.Report(context.Background(), trend.Filter{}, 3, 5)
	require.NoError(t, err)

	assert.Equal(t, []trend.YearCount{
		{Year: 2023, Count: 7},
		{Year: 2024, Count: 0},
		{Year: 2025, Count: 2},
	}, report.YearlyTotals)
}

func TestReportTopClasses(t *testing.T) {
	t.Parallel()

	source := &stubSource{
		classes: map[string]map[string]int64{
			window(2016, 2025): {
				"H01M": 40,
				"G06F": 55,
				"A61K": 40,
				"B60L": 9,
			},
		},
	}
	svc := newTestService(t, source, nil)

	report, err := svc.Report(context.Background(), trend.Filter{}, 10, 3)
	require.NoError(t, err)

	// Count descending, equal counts ordered by class.
	assert.Equal(t, []trend.ClassCount{
		{CPCClass: "G06F", Count: 55},
		{CPCClass: "A61K", Count: 40},
		{CPCClass: "H01M", Count: 40},
	}, report.TopCPCTrends)
}

func TestReportGrowthLeaders(t *testing.T) {
	t.Parallel()

	source := &stubSource{
		classes: map[string]map[string]int64{
			window(2016, 2020): {
				"H01M": 10,
				"G06F": 20,
				"B60L": 2, // below the floor
			},
			window(2021, 2025): {
				"H01M": 30,
				"G06F": 25,
				"B60L": 50,
			},
		},
	}
	svc := newTestService(t, source, nil)

	report, err := svc.Report(context.Background(), trend.Filter{}, 10, 5)
	require.NoError(t, err)

	require.Len(t, report.GrowthLeaders, 2)
	assert.Equal(t, trend.GrowthLeader{
		CPCClass: "H01M", EarlierCount: 10, RecentCount: 30, GrowthRate: 2.0,
	}, report.GrowthLeaders[0])
	assert.Equal(t, trend.GrowthLeader{
		CPCClass: "G06F", EarlierCount: 20, RecentCount: 25, GrowthRate: 0.25,
	}, report.GrowthLeaders[1])

	// B60L had earlier_count=2: excluded even with recent_count=50.
	for _, gl := range report.GrowthLeaders {
		assert.NotEqual(t, "B60L", gl.CPCClass)
	}
}

func TestReportDefaultsAndValidation(t *testing.T) {
	t.Parallel()

	source := &stubSource{}
	svc := newTestService(t, source, nil)

	report, err := svc.Report(context.Background(), trend.Filter{}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "2006-2025", report.Period)
	assert.Len(t, report.YearlyTotals, 20)

	_, err = svc.Report(context.Background(), trend.Filter{}, -3, 5)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeTrendWindowInvalid))

	_, err = svc.Report(context.Background(), trend.Filter{}, 5, -1)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeTrendWindowInvalid))
}

func TestExport(t *testing.T) {
	t.Parallel()

	reports := &stubReports{}
	svc := newTestService(t, &stubSource{}, reports)

	location, err := svc.Export(context.Background(), trend.Filter{}, 10, 5)
	require.NoError(t, err)
	assert.Contains(t, location, "trends-2016-2025")
	require.Len(t, reports.objects, 1)

	svc = newTestService(t, &stubSource{}, nil)
	_, err = svc.Export(context.Background(), trend.Filter{}, 10, 5)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeTrendReportFailed))
}
