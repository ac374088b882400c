package service

import (
	"context"
	"time"

	"github.com/vibecoding/devlog/internal/logger"
	"github.com/vibecoding/devlog/internal/model"
	"github.com/vibecoding/devlog/internal/store"
)

// StatsStore runs the aggregate queries behind the statistics operations
type StatsStore interface {
	RangeBasicStats(ctx context.Context, start, end time.Time) (map[string]interface{}, error)
	DailyCounts(ctx context.Context, start, end time.Time) ([]store.DailyCount, error)
	ProjectCounts(ctx context.Context, start, end time.Time) ([]store.ProjectCount, error)
	ProjectBasicStats(ctx context.Context, projectID int64) (map[string]interface{}, error)
	ProjectDailyCounts(ctx context.Context, projectID int64) ([]store.DailyCount, error)
	ProjectTagCounts(ctx context.Context, projectID int64) ([]store.TagCount, error)
	ProjectWeeklyActivity(ctx context.Context, projectID int64) ([]store.WeeklyActivity, error)
	TechStackBasicStats(ctx context.Context) (map[string]interface{}, error)
	CategoryCounts(ctx context.Context) ([]store.CategoryCount, error)
	TagUsages(ctx context.Context) ([]store.TagUsage, error)
	PopularTagUsages(ctx context.Context, limit int) ([]store.TagUsage, error)
	RecentTagUsages(ctx context.Context, limit int) ([]store.TagUsage, error)
}

// projectLookup is the slice of the project store the statistics need
type projectLookup interface {
	FindByID(ctx context.Context, id int64) (*model.Project, error)
}

// WeeklyStats is the aggregate report for one 7-day window
type WeeklyStats struct {
	StartDate        string               `json:"startDate"`
	EndDate          string               `json:"endDate"`
	TotalLogs        int                  `json:"totalLogs"`
	TotalWorkMinutes int                  `json:"totalWorkMinutes"`
	AvgWorkMinutes   int                  `json:"avgWorkMinutes"`
	ActiveProjects   int                  `json:"activeProjects"`
	WorkDays         int                  `json:"workDays"`
	DailyCounts      []store.DailyCount   `json:"dailyCounts"`
	ProjectCounts    []store.ProjectCount `json:"projectCounts"`
}

// WeeklyCount is one sub-week bucket inside a monthly report
type WeeklyCount struct {
	Week        int    `json:"week"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Count       int    `json:"count"`
	WorkMinutes int    `json:"workMinutes"`
}

// MonthlyStats is the aggregate report for one calendar month
type MonthlyStats struct {
	Year             int                  `json:"year"`
	Month            int                  `json:"month"`
	StartDate        string               `json:"startDate"`
	EndDate          string               `json:"endDate"`
	TotalLogs        int                  `json:"totalLogs"`
	TotalWorkMinutes int                  `json:"totalWorkMinutes"`
	AvgWorkMinutes   int                  `json:"avgWorkMinutes"`
	ActiveProjects   int                  `json:"activeProjects"`
	WorkDays         int                  `json:"workDays"`
	DailyCounts      []store.DailyCount   `json:"dailyCounts"`
	WeeklyCounts     []WeeklyCount        `json:"weeklyCounts"`
	ProjectCounts    []store.ProjectCount `json:"projectCounts"`
}

// ProjectStats is the lifetime report for a single project
type ProjectStats struct {
	ProjectID          int64                  `json:"projectId"`
	ProjectName        string                 `json:"projectName"`
	ProjectDescription string                 `json:"projectDescription"`
	ProjectStatus      string                 `json:"projectStatus"`
	ProjectProgress    int                    `json:"projectProgress"`
	ProjectStartDate   *string                `json:"projectStartDate"`
	ProjectEndDate     *string                `json:"projectEndDate"`
	TotalLogs          int                    `json:"totalLogs"`
	TotalWorkMinutes   int                    `json:"totalWorkMinutes"`
	AvgWorkMinutes     int                    `json:"avgWorkMinutes"`
	FirstLogDate       *string                `json:"firstLogDate"`
	LastLogDate        *string                `json:"lastLogDate"`
	TechTagCount       int                    `json:"techTagCount"`
	DailyCounts        []store.DailyCount     `json:"dailyCounts"`
	TagCounts          []store.TagCount       `json:"tagCounts"`
	WeeklyActivity     []store.WeeklyActivity `json:"weeklyActivity"`
}

// TechStackStats is the aggregate report across every tag
type TechStackStats struct {
	TotalTags       int                   `json:"totalTags"`
	TotalUsageCount int                   `json:"totalUsageCount"`
	CategoryCounts  []store.CategoryCount `json:"categoryCounts"`
	TagUsages       []store.TagUsage      `json:"tagUsages"`
	PopularTags     []store.TagUsage      `json:"popularTags"`
	RecentTags      []store.TagUsage      `json:"recentTags"`
}

// DashboardStats bundles the current week, month, and tech stack reports
type DashboardStats struct {
	Weekly    *WeeklyStats    `json:"weeklyStats"`
	Monthly   *MonthlyStats   `json:"monthlyStats"`
	TechStack *TechStackStats `json:"techStackStats"`
}

// StatisticsService computes the aggregate reports
type StatisticsService struct {
	stats    StatsStore
	projects projectLookup
	log      logger.Logger

	// injectable for deterministic window tests
	now func() time.Time
}

// NewStatisticsService creates a statistics service
func NewStatisticsService(stats StatsStore, projects projectLookup) *StatisticsService {
	return &StatisticsService{
		stats:    stats,
		projects: projects,
		log:      logger.Stats(),
		now:      time.Now,
	}
}

// WeeklyStats reports on the 7-day window starting at start. A nil start
// means the current week, anchored at its Monday.
func (s *StatisticsService) WeeklyStats(ctx context.Context, start *time.Time) (*WeeklyStats, error) {
	from, to := weekWindow(start, s.now())
	return s.weeklyStats(ctx, from, to)
}

// LastWeekStats reports on the week before the current one
func (s *StatisticsService) LastWeekStats(ctx context.Context) (*WeeklyStats, error) {
	from := lastWeekStart(s.now())
	return s.weeklyStats(ctx, from, from.AddDate(0, 0, 6))
}

func (s *StatisticsService) weeklyStats(ctx context.Context, from, to time.Time) (*WeeklyStats, error) {
	s.log.Debug("computing weekly stats: %s to %s", from.Format(dayLayout), to.Format(dayLayout))

	basic, err := s.stats.RangeBasicStats(ctx, from, to)
	if err != nil {
		return nil, err
	}
	daily, err := s.stats.DailyCounts(ctx, from, to)
	if err != nil {
		return nil, err
	}
	byProject, err := s.stats.ProjectCounts(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return &WeeklyStats{
		StartDate:        from.Format(dayLayout),
		EndDate:          to.Format(dayLayout),
		TotalLogs:        intValue(basic, "totallogs"),
		TotalWorkMinutes: intValue(basic, "totalworkminutes"),
		AvgWorkMinutes:   intValue(basic, "avgworkminutes"),
		ActiveProjects:   intValue(basic, "activeprojects"),
		WorkDays:         intValue(basic, "workdays"),
		DailyCounts:      daily,
		ProjectCounts:    byProject,
	}, nil
}

// MonthlyStats reports on a calendar month. Zero or negative year/month
// default to the current one.
func (s *StatisticsService) MonthlyStats(ctx context.Context, year, month int) (*MonthlyStats, error) {
	from, to, err := monthWindow(year, month, s.now())
	if err != nil {
		return nil, err
	}
	return s.monthlyStats(ctx, from, to)
}

// LastMonthStats reports on the month before the current one
func (s *StatisticsService) LastMonthStats(ctx context.Context) (*MonthlyStats, error) {
	year, month := lastMonth(s.now())
	return s.MonthlyStats(ctx, year, month)
}

func (s *StatisticsService) monthlyStats(ctx context.Context, from, to time.Time) (*MonthlyStats, error) {
	s.log.Debug("computing monthly stats: %s to %s", from.Format(dayLayout), to.Format(dayLayout))

	basic, err := s.stats.RangeBasicStats(ctx, from, to)
	if err != nil {
		return nil, err
	}
	daily, err := s.stats.DailyCounts(ctx, from, to)
	if err != nil {
		return nil, err
	}
	byProject, err := s.stats.ProjectCounts(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return &MonthlyStats{
		Year:             from.Year(),
		Month:            int(from.Month()),
		StartDate:        from.Format(dayLayout),
		EndDate:          to.Format(dayLayout),
		TotalLogs:        intValue(basic, "totallogs"),
		TotalWorkMinutes: intValue(basic, "totalworkminutes"),
		AvgWorkMinutes:   intValue(basic, "avgworkminutes"),
		ActiveProjects:   intValue(basic, "activeprojects"),
		WorkDays:         intValue(basic, "workdays"),
		DailyCounts:      daily,
		WeeklyCounts:     bucketByWeek(from, to, daily),
		ProjectCounts:    byProject,
	}, nil
}

// bucketByWeek folds per-day counts into the month's 7-day spans
func bucketByWeek(from, to time.Time, daily []store.DailyCount) []WeeklyCount {
	spans := monthWeeks(from, to)
	weeks := make([]WeeklyCount, len(spans))
	for i, span := range spans {
		weeks[i] = WeeklyCount{
			Week:      span.Number,
			StartDate: span.Start.Format(dayLayout),
			EndDate:   span.End.Format(dayLayout),
		}
	}

	// span bounds carry the caller's location while daily dates come back
	// as plain strings, so compare formatted dates rather than instants
	for _, d := range daily {
		for i := range weeks {
			if d.Date >= weeks[i].StartDate && d.Date <= weeks[i].EndDate {
				weeks[i].Count += d.Count
				weeks[i].WorkMinutes += d.WorkMinutes
				break
			}
		}
	}
	return weeks
}

// ProjectStats reports on a single project's lifetime activity.
// A missing project is a validation error.
func (s *StatisticsService) ProjectStats(ctx context.Context, projectID int64) (*ProjectStats, error) {
	s.log.Debug("computing project stats: id=%d", projectID)

	p, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, Validationf("ProjectStats", "project not found with id: %d", projectID)
	}

	basic, err := s.stats.ProjectBasicStats(ctx, projectID)
	if err != nil {
		return nil, err
	}
	daily, err := s.stats.ProjectDailyCounts(ctx, projectID)
	if err != nil {
		return nil, err
	}
	tags, err := s.stats.ProjectTagCounts(ctx, projectID)
	if err != nil {
		return nil, err
	}
	weekly, err := s.stats.ProjectWeeklyActivity(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return &ProjectStats{
		ProjectID:          projectID,
		ProjectName:        stringValue(basic, "projectname"),
		ProjectDescription: stringValue(basic, "projectdescription"),
		ProjectStatus:      stringValue(basic, "projectstatus"),
		ProjectProgress:    intValue(basic, "projectprogress"),
		ProjectStartDate:   dayString(timeValue(basic, "projectstartdate")),
		ProjectEndDate:     dayString(timeValue(basic, "projectenddate")),
		TotalLogs:          intValue(basic, "totallogs"),
		TotalWorkMinutes:   intValue(basic, "totalworkminutes"),
		AvgWorkMinutes:     intValue(basic, "avgworkminutes"),
		FirstLogDate:       dayString(timeValue(basic, "firstlogdate")),
		LastLogDate:        dayString(timeValue(basic, "lastlogdate")),
		TechTagCount:       intValue(basic, "techtagcount"),
		DailyCounts:        daily,
		TagCounts:          tags,
		WeeklyActivity:     weekly,
	}, nil
}

// TechStackStats reports on the whole tag collection
func (s *StatisticsService) TechStackStats(ctx context.Context) (*TechStackStats, error) {
	s.log.Debug("computing tech stack stats")

	basic, err := s.stats.TechStackBasicStats(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.stats.CategoryCounts(ctx)
	if err != nil {
		return nil, err
	}
	usages, err := s.stats.TagUsages(ctx)
	if err != nil {
		return nil, err
	}
	popular, err := s.stats.PopularTagUsages(ctx, defaultPopularLimit)
	if err != nil {
		return nil, err
	}
	recent, err := s.stats.RecentTagUsages(ctx, defaultPopularLimit)
	if err != nil {
		return nil, err
	}

	total := intValue(basic, "totalusagecount")
	for i := range categories {
		categories[i].Percentage = percentage(categories[i].UsageCount, total)
	}
	for i := range usages {
		usages[i].Percentage = percentage(usages[i].UsageCount, total)
	}
	for i := range popular {
		popular[i].Percentage = percentage(popular[i].UsageCount, total)
	}
	for i := range recent {
		recent[i].Percentage = percentage(recent[i].UsageCount, total)
	}

	return &TechStackStats{
		TotalTags:       intValue(basic, "totaltags"),
		TotalUsageCount: total,
		CategoryCounts:  categories,
		TagUsages:       usages,
		PopularTags:     popular,
		RecentTags:      recent,
	}, nil
}

// DashboardStats bundles the current weekly, monthly, and tech stack
// reports. Any sub-report failure fails the whole dashboard.
func (s *StatisticsService) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	s.log.Debug("computing dashboard stats")

	weekly, err := s.WeeklyStats(ctx, nil)
	if err != nil {
		return nil, Internal("DashboardStats", err)
	}
	monthly, err := s.MonthlyStats(ctx, 0, 0)
	if err != nil {
		return nil, Internal("DashboardStats", err)
	}
	techStack, err := s.TechStackStats(ctx)
	if err != nil {
		return nil, Internal("DashboardStats", err)
	}

	return &DashboardStats{Weekly: weekly, Monthly: monthly, TechStack: techStack}, nil
}

const dayLayout = "2006-01-02"

func percentage(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func dayString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dayLayout)
	return &s
}
