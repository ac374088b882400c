package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibecoding/devlog/internal/model"
	"github.com/vibecoding/devlog/internal/store"
)

// fakeStatsStore returns canned aggregate rows and records the windows
// it was asked about
type fakeStatsStore struct {
	basic     map[string]interface{}
	daily     []store.DailyCount
	byProject []store.ProjectCount

	projectBasic  map[string]interface{}
	projectDaily  []store.DailyCount
	projectTags   []store.TagCount
	projectWeekly []store.WeeklyActivity

	techBasic  map[string]interface{}
	categories []store.CategoryCount
	usages     []store.TagUsage

	rangeErr error

	lastStart time.Time
	lastEnd   time.Time
}

func (f *fakeStatsStore) RangeBasicStats(ctx context.Context, start, end time.Time) (map[string]interface{}, error) {
	if f.rangeErr != nil {
		return nil, f.rangeErr
	}
	f.lastStart, f.lastEnd = start, end
	return f.basic, nil
}

func (f *fakeStatsStore) DailyCounts(ctx context.Context, start, end time.Time) ([]store.DailyCount, error) {
	return f.daily, nil
}

func (f *fakeStatsStore) ProjectCounts(ctx context.Context, start, end time.Time) ([]store.ProjectCount, error) {
	return f.byProject, nil
}

func (f *fakeStatsStore) ProjectBasicStats(ctx context.Context, projectID int64) (map[string]interface{}, error) {
	return f.projectBasic, nil
}

func (f *fakeStatsStore) ProjectDailyCounts(ctx context.Context, projectID int64) ([]store.DailyCount, error) {
	return f.projectDaily, nil
}

func (f *fakeStatsStore) ProjectTagCounts(ctx context.Context, projectID int64) ([]store.TagCount, error) {
	return f.projectTags, nil
}

func (f *fakeStatsStore) ProjectWeeklyActivity(ctx context.Context, projectID int64) ([]store.WeeklyActivity, error) {
	return f.projectWeekly, nil
}

func (f *fakeStatsStore) TechStackBasicStats(ctx context.Context) (map[string]interface{}, error) {
	return f.techBasic, nil
}

func (f *fakeStatsStore) CategoryCounts(ctx context.Context) ([]store.CategoryCount, error) {
	return f.categories, nil
}

func (f *fakeStatsStore) TagUsages(ctx context.Context) ([]store.TagUsage, error) {
	return f.usages, nil
}

func (f *fakeStatsStore) PopularTagUsages(ctx context.Context, limit int) ([]store.TagUsage, error) {
	return f.usages, nil
}

func (f *fakeStatsStore) RecentTagUsages(ctx context.Context, limit int) ([]store.TagUsage, error) {
	return f.usages, nil
}

func statsFixture(stats *fakeStatsStore) (*StatisticsService, *fakeProjectStore) {
	projects := newFakeProjectStore()
	svc := NewStatisticsService(stats, projects)
	svc.now = func() time.Time { return day(2025, 3, 12) } // a Wednesday
	return svc, projects
}

func TestWeeklyStats(t *testing.T) {
	ctx := context.Background()
	stats := &fakeStatsStore{
		basic: map[string]interface{}{
			"totallogs":        int64(3),
			"totalworkminutes": int64(150),
			"avgworkminutes":   []byte("50.0000000000000000"),
			"activeprojects":   int64(2),
			"workdays":         int64(2),
		},
		daily: []store.DailyCount{{Date: "2025-03-10", Count: 2, WorkMinutes: 100}},
	}
	svc, _ := statsFixture(stats)

	t.Run("anchors the default window at Monday", func(t *testing.T) {
		report, err := svc.WeeklyStats(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, "2025-03-10", report.StartDate)
		assert.Equal(t, "2025-03-16", report.EndDate)
		assert.Equal(t, 3, report.TotalLogs)
		assert.Equal(t, 150, report.TotalWorkMinutes)
		assert.Equal(t, 50, report.AvgWorkMinutes)
		assert.Equal(t, 2, report.WorkDays)
	})

	t.Run("honors an explicit start", func(t *testing.T) {
		start := day(2025, 3, 5)
		report, err := svc.WeeklyStats(ctx, &start)
		require.NoError(t, err)
		assert.Equal(t, "2025-03-05", report.StartDate)
		assert.Equal(t, "2025-03-11", report.EndDate)
	})

	t.Run("last week is the previous Monday", func(t *testing.T) {
		report, err := svc.LastWeekStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, "2025-03-03", report.StartDate)
		assert.Equal(t, "2025-03-09", report.EndDate)
	})
}

func TestMonthlyStats(t *testing.T) {
	ctx := context.Background()
	stats := &fakeStatsStore{
		basic: map[string]interface{}{"totallogs": int64(4)},
		daily: []store.DailyCount{
			{Date: "2025-03-03", Count: 1, WorkMinutes: 60},
			{Date: "2025-03-10", Count: 2, WorkMinutes: 90},
			{Date: "2025-03-30", Count: 1, WorkMinutes: 30},
		},
	}
	svc, _ := statsFixture(stats)

	t.Run("buckets days into 7-day spans from the 1st", func(t *testing.T) {
		report, err := svc.MonthlyStats(ctx, 2025, 3)
		require.NoError(t, err)
		assert.Equal(t, 2025, report.Year)
		assert.Equal(t, 3, report.Month)
		require.Len(t, report.WeeklyCounts, 5)

		// 2025-03-03 falls in week 1 (1st-7th), 03-10 in week 2 (8th-14th)
		assert.Equal(t, 1, report.WeeklyCounts[0].Count)
		assert.Equal(t, 60, report.WeeklyCounts[0].WorkMinutes)
		assert.Equal(t, 2, report.WeeklyCounts[1].Count)
		assert.Equal(t, 90, report.WeeklyCounts[1].WorkMinutes)
		assert.Equal(t, 0, report.WeeklyCounts[2].Count)

		// 03-30 lands in the clamped final span
		assert.Equal(t, 1, report.WeeklyCounts[4].Count)
		assert.Equal(t, "2025-03-29", report.WeeklyCounts[4].StartDate)
		assert.Equal(t, "2025-03-31", report.WeeklyCounts[4].EndDate)
	})

	t.Run("zero year and month default to the current one", func(t *testing.T) {
		report, err := svc.MonthlyStats(ctx, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, "2025-03-01", report.StartDate)
		assert.Equal(t, "2025-03-31", report.EndDate)
	})

	t.Run("month outside the calendar is rejected", func(t *testing.T) {
		_, err := svc.MonthlyStats(ctx, 2025, 14)
		require.Error(t, err)
		assert.True(t, IsValidation(err))
	})

	t.Run("last month wraps correctly", func(t *testing.T) {
		report, err := svc.LastMonthStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, report.Month)
		assert.Equal(t, "2025-02-28", report.EndDate)
	})
}

func TestBucketByWeekNonUTCSpans(t *testing.T) {
	// span bounds carry the server zone while daily dates are plain strings;
	// boundary days must still land in their own week
	seoul := time.FixedZone("UTC+9", 9*60*60)
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, seoul)
	to := time.Date(2025, 3, 31, 0, 0, 0, 0, seoul)

	weeks := bucketByWeek(from, to, []store.DailyCount{
		{Date: "2025-03-01", Count: 1, WorkMinutes: 30},
		{Date: "2025-03-07", Count: 1, WorkMinutes: 60},
	})

	require.Len(t, weeks, 5)
	assert.Equal(t, 2, weeks[0].Count)
	assert.Equal(t, 90, weeks[0].WorkMinutes)
	assert.Equal(t, 0, weeks[1].Count)
}

func TestProjectStats(t *testing.T) {
	ctx := context.Background()
	started := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	stats := &fakeStatsStore{
		projectBasic: map[string]interface{}{
			"projectname":        "devlog backend",
			"projectdescription": []byte("tracking tool"),
			"projectstatus":      "ACTIVE",
			"projectprogress":    int64(40),
			"projectstartdate":   started,
			"projectenddate":     nil,
			"totallogs":          int64(12),
			"totalworkminutes":   int64(720),
			"avgworkminutes":     []byte("60.0"),
			"firstlogdate":       started,
			"lastlogdate":        started.AddDate(0, 1, 0),
			"techtagcount":       int64(4),
		},
	}
	svc, projects := statsFixture(stats)

	p := &model.Project{Name: "devlog backend", Status: model.StatusActive}
	require.NoError(t, projects.Insert(ctx, p))

	t.Run("builds the report from the aggregate row", func(t *testing.T) {
		report, err := svc.ProjectStats(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "devlog backend", report.ProjectName)
		assert.Equal(t, "tracking tool", report.ProjectDescription)
		assert.Equal(t, 40, report.ProjectProgress)
		assert.Equal(t, 12, report.TotalLogs)
		assert.Equal(t, 60, report.AvgWorkMinutes)
		assert.Equal(t, 4, report.TechTagCount)
		require.NotNil(t, report.ProjectStartDate)
		assert.Equal(t, "2025-01-05", *report.ProjectStartDate)
		assert.Nil(t, report.ProjectEndDate)
	})

	t.Run("missing project is a validation error", func(t *testing.T) {
		_, err := svc.ProjectStats(ctx, 9999)
		require.Error(t, err)
		assert.True(t, IsValidation(err))
	})
}

func TestTechStackStats(t *testing.T) {
	ctx := context.Background()
	stats := &fakeStatsStore{
		techBasic: map[string]interface{}{
			"totaltags":       int64(2),
			"totalusagecount": int64(4),
		},
		categories: []store.CategoryCount{
			{Category: model.CategoryLanguage, Count: 1, UsageCount: 3},
			{Category: model.CategoryDatabase, Count: 1, UsageCount: 1},
		},
		usages: []store.TagUsage{
			{TagName: "Go", UsageCount: 3},
			{TagName: "Postgres", UsageCount: 1},
		},
	}
	svc, _ := statsFixture(stats)

	report, err := svc.TechStackStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalTags)
	assert.Equal(t, 4, report.TotalUsageCount)
	assert.InDelta(t, 75.0, report.CategoryCounts[0].Percentage, 0.001)
	assert.InDelta(t, 25.0, report.CategoryCounts[1].Percentage, 0.001)
	assert.InDelta(t, 75.0, report.TagUsages[0].Percentage, 0.001)
}

func TestTechStackStatsZeroTotal(t *testing.T) {
	ctx := context.Background()
	stats := &fakeStatsStore{
		techBasic:  map[string]interface{}{"totaltags": int64(0), "totalusagecount": int64(0)},
		categories: []store.CategoryCount{{Category: model.CategoryTool, Count: 1}},
	}
	svc, _ := statsFixture(stats)

	report, err := svc.TechStackStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.0, report.CategoryCounts[0].Percentage)
}

func TestDashboardStats(t *testing.T) {
	ctx := context.Background()

	t.Run("bundles all three reports", func(t *testing.T) {
		stats := &fakeStatsStore{
			basic:     map[string]interface{}{"totallogs": int64(1)},
			techBasic: map[string]interface{}{"totaltags": int64(1), "totalusagecount": int64(1)},
		}
		svc, _ := statsFixture(stats)

		report, err := svc.DashboardStats(ctx)
		require.NoError(t, err)
		require.NotNil(t, report.Weekly)
		require.NotNil(t, report.Monthly)
		require.NotNil(t, report.TechStack)
		assert.Equal(t, "2025-03-10", report.Weekly.StartDate)
		assert.Equal(t, "2025-03-01", report.Monthly.StartDate)
	})

	t.Run("any sub-report failure fails the whole dashboard", func(t *testing.T) {
		stats := &fakeStatsStore{rangeErr: errors.New("connection reset")}
		svc, _ := statsFixture(stats)

		_, err := svc.DashboardStats(ctx)
		require.Error(t, err)
		assert.Equal(t, KindInternal, KindOf(err))
	})
}
