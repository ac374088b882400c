package store

import (
	"context"
	"fmt"
	"time"
)

// DailyCount is one day's log count and work time inside a window
type DailyCount struct {
	Date        string `db:"date" json:"date"`
	Count       int    `db:"count" json:"count"`
	WorkMinutes int    `db:"work_minutes" json:"workMinutes"`
}

// ProjectCount is one project's share of the logs inside a window
type ProjectCount struct {
	ProjectID   int64  `db:"project_id" json:"projectId"`
	ProjectName string `db:"project_name" json:"projectName"`
	Count       int    `db:"count" json:"count"`
	WorkMinutes int    `db:"work_minutes" json:"workMinutes"`
}

// TagCount is one tag's usage inside a project
type TagCount struct {
	TagID    int64  `db:"tag_id" json:"tagId"`
	TagName  string `db:"tag_name" json:"tagName"`
	Category string `db:"category" json:"category"`
	Color    string `db:"color" json:"color"`
	Count    int    `db:"count" json:"count"`
}

// WeeklyActivity is one calendar week's activity for a project
type WeeklyActivity struct {
	StartDate   time.Time `db:"week_start" json:"startDate"`
	EndDate     time.Time `db:"-" json:"endDate"`
	LogCount    int       `db:"log_count" json:"logCount"`
	WorkMinutes int       `db:"work_minutes" json:"workMinutes"`
}

// CategoryCount aggregates tag counts and usage per category
type CategoryCount struct {
	Category   string  `db:"category" json:"category"`
	Count      int     `db:"count" json:"count"`
	UsageCount int     `db:"usage_count" json:"usageCount"`
	Percentage float64 `db:"-" json:"percentage"`
}

// TagUsage is one tag's overall usage statistics
type TagUsage struct {
	TagID        int64   `db:"tag_id" json:"tagId"`
	TagName      string  `db:"tag_name" json:"tagName"`
	Category     string  `db:"category" json:"category"`
	Color        string  `db:"color" json:"color"`
	UsageCount   int     `db:"usage_count" json:"usageCount"`
	Percentage   float64 `db:"-" json:"percentage"`
	LastUsedDate *string `db:"last_used_date" json:"lastUsedDate"`
	ProjectCount int     `db:"project_count" json:"projectCount"`
}

// StatsStore runs the aggregate queries behind the statistics endpoints.
// Basic-stats queries return heterogeneous key/value rows; the service layer
// extracts typed values from them defensively.
type StatsStore struct {
	db *DB
}

// NewStatsStore creates a statistics store
func NewStatsStore(db *DB) *StatsStore {
	return &StatsStore{db: db}
}

func (s *StatsStore) mapRow(ctx context.Context, query string, args ...interface{}) (map[string]interface{}, error) {
	row := s.db.QueryRowxContext(ctx, query, args...)
	result := map[string]interface{}{}
	if err := row.MapScan(result); err != nil {
		return nil, fmt.Errorf("failed to scan stats row: %w", err)
	}
	return result, nil
}

// RangeBasicStats returns the scalar aggregates for a date window
func (s *StatsStore) RangeBasicStats(ctx context.Context, start, end time.Time) (map[string]interface{}, error) {
	return s.mapRow(ctx, `
		SELECT COUNT(*)                             AS totallogs,
		       COALESCE(SUM(work_minutes), 0)       AS totalworkminutes,
		       COALESCE(AVG(work_minutes), 0)       AS avgworkminutes,
		       COUNT(DISTINCT project_id)           AS activeprojects,
		       COUNT(DISTINCT log_date)             AS workdays
		FROM dev_logs
		WHERE log_date BETWEEN $1 AND $2`, start, end)
}

// DailyCounts returns the per-day breakdown for a date window
func (s *StatsStore) DailyCounts(ctx context.Context, start, end time.Time) ([]DailyCount, error) {
	counts := []DailyCount{}
	err := s.db.SelectContext(ctx, &counts, `
		SELECT to_char(log_date, 'YYYY-MM-DD')  AS date,
		       COUNT(*)                         AS count,
		       COALESCE(SUM(work_minutes), 0)   AS work_minutes
		FROM dev_logs
		WHERE log_date BETWEEN $1 AND $2
		GROUP BY log_date
		ORDER BY log_date`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load daily counts: %w", err)
	}
	return counts, nil
}

// ProjectCounts returns the per-project breakdown for a date window
func (s *StatsStore) ProjectCounts(ctx context.Context, start, end time.Time) ([]ProjectCount, error) {
	counts := []ProjectCount{}
	err := s.db.SelectContext(ctx, &counts, `
		SELECT p.id                             AS project_id,
		       p.name                           AS project_name,
		       COUNT(*)                         AS count,
		       COALESCE(SUM(l.work_minutes), 0) AS work_minutes
		FROM dev_logs l
		JOIN projects p ON p.id = l.project_id
		WHERE l.log_date BETWEEN $1 AND $2
		GROUP BY p.id, p.name
		ORDER BY count DESC, p.name`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load project counts: %w", err)
	}
	return counts, nil
}

// ProjectBasicStats joins project metadata with its aggregate totals
func (s *StatsStore) ProjectBasicStats(ctx context.Context, projectID int64) (map[string]interface{}, error) {
	return s.mapRow(ctx, `
		SELECT p.name                            AS projectname,
		       p.description                     AS projectdescription,
		       p.status                          AS projectstatus,
		       p.progress                        AS projectprogress,
		       p.start_date::timestamp           AS projectstartdate,
		       p.end_date::timestamp             AS projectenddate,
		       COUNT(l.id)                       AS totallogs,
		       COALESCE(SUM(l.work_minutes), 0)  AS totalworkminutes,
		       COALESCE(AVG(l.work_minutes), 0)  AS avgworkminutes,
		       MIN(l.log_date)::timestamp        AS firstlogdate,
		       MAX(l.log_date)::timestamp        AS lastlogdate,
		       (SELECT COUNT(DISTINCT lt.tag_id)
		        FROM dev_log_tech_tags lt
		        JOIN dev_logs dl ON dl.id = lt.log_id
		        WHERE dl.project_id = p.id)      AS techtagcount
		FROM projects p
		LEFT JOIN dev_logs l ON l.project_id = p.id
		WHERE p.id = $1
		GROUP BY p.id`, projectID)
}

// ProjectDailyCounts returns a project's full per-day breakdown
func (s *StatsStore) ProjectDailyCounts(ctx context.Context, projectID int64) ([]DailyCount, error) {
	counts := []DailyCount{}
	err := s.db.SelectContext(ctx, &counts, `
		SELECT to_char(log_date, 'YYYY-MM-DD')  AS date,
		       COUNT(*)                         AS count,
		       COALESCE(SUM(work_minutes), 0)   AS work_minutes
		FROM dev_logs
		WHERE project_id = $1
		GROUP BY log_date
		ORDER BY log_date`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project daily counts: %w", err)
	}
	return counts, nil
}

// ProjectTagCounts returns how often each tag appears on a project's logs
func (s *StatsStore) ProjectTagCounts(ctx context.Context, projectID int64) ([]TagCount, error) {
	counts := []TagCount{}
	err := s.db.SelectContext(ctx, &counts, `
		SELECT t.id       AS tag_id,
		       t.name     AS tag_name,
		       t.category AS category,
		       t.color    AS color,
		       COUNT(*)   AS count
		FROM dev_log_tech_tags lt
		JOIN tech_tags t ON t.id = lt.tag_id
		JOIN dev_logs l ON l.id = lt.log_id
		WHERE l.project_id = $1
		GROUP BY t.id, t.name, t.category, t.color
		ORDER BY count DESC, t.name`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project tag counts: %w", err)
	}
	return counts, nil
}

// ProjectWeeklyActivity groups a project's logs by calendar week
func (s *StatsStore) ProjectWeeklyActivity(ctx context.Context, projectID int64) ([]WeeklyActivity, error) {
	activities := []WeeklyActivity{}
	err := s.db.SelectContext(ctx, &activities, `
		SELECT date_trunc('week', log_date)::date AS week_start,
		       COUNT(*)                           AS log_count,
		       COALESCE(SUM(work_minutes), 0)     AS work_minutes
		FROM dev_logs
		WHERE project_id = $1
		GROUP BY 1
		ORDER BY 1`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project weekly activity: %w", err)
	}

	for i := range activities {
		activities[i].EndDate = activities[i].StartDate.AddDate(0, 0, 6)
	}
	return activities, nil
}

// TechStackBasicStats returns the tag totals across the whole stack
func (s *StatsStore) TechStackBasicStats(ctx context.Context) (map[string]interface{}, error) {
	return s.mapRow(ctx, `
		SELECT COUNT(*)                     AS totaltags,
		       COALESCE(SUM(usage_count), 0) AS totalusagecount
		FROM tech_tags`)
}

// CategoryCounts aggregates tag counts and usage per category
func (s *StatsStore) CategoryCounts(ctx context.Context) ([]CategoryCount, error) {
	counts := []CategoryCount{}
	err := s.db.SelectContext(ctx, &counts, `
		SELECT category,
		       COUNT(*)                      AS count,
		       COALESCE(SUM(usage_count), 0) AS usage_count
		FROM tech_tags
		GROUP BY category
		ORDER BY usage_count DESC, category`)
	if err != nil {
		return nil, fmt.Errorf("failed to load category counts: %w", err)
	}
	return counts, nil
}

const tagUsageSelect = `
	SELECT t.id                               AS tag_id,
	       t.name                             AS tag_name,
	       t.category                         AS category,
	       t.color                            AS color,
	       t.usage_count                      AS usage_count,
	       to_char(MAX(l.log_date), 'YYYY-MM-DD') AS last_used_date,
	       COUNT(DISTINCT l.project_id)       AS project_count
	FROM tech_tags t
	LEFT JOIN dev_log_tech_tags lt ON lt.tag_id = t.id
	LEFT JOIN dev_logs l ON l.id = lt.log_id
	GROUP BY t.id, t.name, t.category, t.color, t.usage_count`

// TagUsages returns usage statistics for every tag, most used first
func (s *StatsStore) TagUsages(ctx context.Context) ([]TagUsage, error) {
	usages := []TagUsage{}
	err := s.db.SelectContext(ctx, &usages,
		tagUsageSelect+"\n\tORDER BY t.usage_count DESC, t.name")
	if err != nil {
		return nil, fmt.Errorf("failed to load tag usages: %w", err)
	}
	return usages, nil
}

// PopularTagUsages returns the top tags by usage count
func (s *StatsStore) PopularTagUsages(ctx context.Context, limit int) ([]TagUsage, error) {
	usages := []TagUsage{}
	err := s.db.SelectContext(ctx, &usages,
		tagUsageSelect+"\n\tORDER BY t.usage_count DESC, t.name LIMIT $1", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load popular tags: %w", err)
	}
	return usages, nil
}

// RecentTagUsages returns the top tags by most recent use
func (s *StatsStore) RecentTagUsages(ctx context.Context, limit int) ([]TagUsage, error) {
	usages := []TagUsage{}
	err := s.db.SelectContext(ctx, &usages,
		tagUsageSelect+"\n\tORDER BY MAX(l.log_date) DESC NULLS LAST, t.name LIMIT $1", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent tags: %w", err)
	}
	return usages, nil
}
