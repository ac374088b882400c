package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/vibecoding/devlog/internal/model"
)

const devLogSelect = `
	SELECT l.id, l.project_id, l.title, l.description, l.start_time, l.end_time,
	       l.work_minutes, l.achievements, l.challenges, l.learnings,
	       l.code_snippets, l.log_date, l.mood, l.created_at, l.updated_at,
	       p.name AS project_name
	FROM dev_logs l
	LEFT JOIN projects p ON p.id = l.project_id`

// CalendarCount is one day's log count for the calendar view
type CalendarCount struct {
	Date  string `db:"date" json:"date"`
	Count int    `db:"count" json:"count"`
}

// DevLogStore persists dev logs and their tag associations
type DevLogStore struct {
	db *DB
}

// NewDevLogStore creates a dev log store
func NewDevLogStore(db *DB) *DevLogStore {
	return &DevLogStore{db: db}
}

type devLogRow struct {
	model.DevLog
	JoinedProjectName *string `db:"project_name"`
}

func (r devLogRow) toModel() model.DevLog {
	d := r.DevLog
	if r.JoinedProjectName != nil {
		d.ProjectName = *r.JoinedProjectName
	}
	return d
}

func (s *DevLogStore) selectLogs(ctx context.Context, query string, args ...interface{}) ([]model.DevLog, error) {
	var rows []devLogRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select dev logs: %w", err)
	}

	logs := make([]model.DevLog, 0, len(rows))
	for _, r := range rows {
		logs = append(logs, r.toModel())
	}

	if err := s.attachTags(ctx, logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// attachTags loads tag associations for all given logs in one query
func (s *DevLogStore) attachTags(ctx context.Context, logs []model.DevLog) error {
	if len(logs) == 0 {
		return nil
	}

	ids := make([]int64, len(logs))
	byID := make(map[int64]int, len(logs))
	for i := range logs {
		ids[i] = logs[i].ID
		byID[logs[i].ID] = i
		logs[i].TechTags = []model.TechTag{}
	}

	type logTagRow struct {
		LogID int64 `db:"log_id"`
		model.TechTag
	}

	var rows []logTagRow
	query := `
		SELECT lt.log_id, t.id, t.name, t.category, t.color, t.usage_count,
		       t.created_at, t.updated_at
		FROM dev_log_tech_tags lt
		JOIN tech_tags t ON t.id = lt.tag_id
		WHERE lt.log_id = ANY($1)
		ORDER BY t.name`
	if err := s.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("failed to load log tags: %w", err)
	}

	for _, r := range rows {
		i := byID[r.LogID]
		logs[i].TechTags = append(logs[i].TechTags, r.TechTag)
	}
	return nil
}

// devLogQuery starts a builder over the joined log selection
func devLogQuery() sq.SelectBuilder {
	return psql.Select(
		"l.id", "l.project_id", "l.title", "l.description", "l.start_time", "l.end_time",
		"l.work_minutes", "l.achievements", "l.challenges", "l.learnings",
		"l.code_snippets", "l.log_date", "l.mood", "l.created_at", "l.updated_at",
		"p.name AS project_name").
		From("dev_logs l").
		LeftJoin("projects p ON p.id = l.project_id")
}

// FindAll returns logs matching the optional project and date-range filters
func (s *DevLogStore) FindAll(ctx context.Context, projectID *int64, startDate, endDate *time.Time) ([]model.DevLog, error) {
	b := devLogQuery().OrderBy("l.log_date DESC", "l.id DESC")

	if projectID != nil {
		b = b.Where(sq.Eq{"l.project_id": *projectID})
	}
	if startDate != nil {
		b = b.Where(sq.GtOrEq{"l.log_date": *startDate})
	}
	if endDate != nil {
		b = b.Where(sq.LtOrEq{"l.log_date": *endDate})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build dev log query: %w", err)
	}
	return s.selectLogs(ctx, query, args...)
}

// FindByID returns a log with its tags, or nil when absent
func (s *DevLogStore) FindByID(ctx context.Context, id int64) (*model.DevLog, error) {
	var row devLogRow
	err := s.db.GetContext(ctx, &row, devLogSelect+"\n\tWHERE l.id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get dev log: %w", err)
	}

	logs := []model.DevLog{row.toModel()}
	if err := s.attachTags(ctx, logs); err != nil {
		return nil, err
	}
	return &logs[0], nil
}

// Search matches keyword against every free-text field, case-insensitively
func (s *DevLogStore) Search(ctx context.Context, keyword string) ([]model.DevLog, error) {
	pattern := "%" + keyword + "%"
	query := devLogSelect + `
	WHERE l.title ILIKE $1
	   OR l.description ILIKE $1
	   OR l.achievements ILIKE $1
	   OR l.challenges ILIKE $1
	   OR l.learnings ILIKE $1
	ORDER BY l.log_date DESC, l.id DESC`
	return s.selectLogs(ctx, query, pattern)
}

// FindRecent returns the most recently created logs
func (s *DevLogStore) FindRecent(ctx context.Context, limit int) ([]model.DevLog, error) {
	query := devLogSelect + "\n\tORDER BY l.created_at DESC, l.id DESC LIMIT $1"
	return s.selectLogs(ctx, query, limit)
}

// CalendarData returns per-day log counts for a month
func (s *DevLogStore) CalendarData(ctx context.Context, start, end time.Time) ([]CalendarCount, error) {
	counts := []CalendarCount{}
	query := `
		SELECT to_char(log_date, 'YYYY-MM-DD') AS date, COUNT(*) AS count
		FROM dev_logs
		WHERE log_date BETWEEN $1 AND $2
		GROUP BY log_date
		ORDER BY log_date`
	if err := s.db.SelectContext(ctx, &counts, query, start, end); err != nil {
		return nil, fmt.Errorf("failed to load calendar data: %w", err)
	}
	return counts, nil
}

// Insert creates a log and its tag associations in one transaction
func (s *DevLogStore) Insert(ctx context.Context, d *model.DevLog, tagIDs []int64) error {
	return s.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		query, args, err := psql.
			Insert("dev_logs").
			Columns("project_id", "title", "description", "start_time", "end_time",
				"work_minutes", "achievements", "challenges", "learnings",
				"code_snippets", "log_date", "mood").
			Values(d.ProjectID, d.Title, d.Description, d.StartTime, d.EndTime,
				d.WorkMinutes, d.Achievements, d.Challenges, d.Learnings,
				d.CodeSnippets, d.LogDate, d.Mood).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build query: %w", err)
		}

		if err := tx.QueryRowxContext(ctx, query, args...).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return fmt.Errorf("failed to insert dev log: %w", err)
		}

		return linkTags(ctx, tx, d.ID, tagIDs)
	})
}

// Update replaces a log's fields and its full tag set in one transaction
func (s *DevLogStore) Update(ctx context.Context, d *model.DevLog, tagIDs []int64) error {
	return s.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		query, args, err := psql.
			Update("dev_logs").
			Set("project_id", d.ProjectID).
			Set("title", d.Title).
			Set("description", d.Description).
			Set("start_time", d.StartTime).
			Set("end_time", d.EndTime).
			Set("work_minutes", d.WorkMinutes).
			Set("achievements", d.Achievements).
			Set("challenges", d.Challenges).
			Set("learnings", d.Learnings).
			Set("code_snippets", d.CodeSnippets).
			Set("log_date", d.LogDate).
			Set("mood", d.Mood).
			Set("updated_at", sq.Expr("now()")).
			Where(sq.Eq{"id": d.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build query: %w", err)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to update dev log: %w", err)
		}

		// Tag set is replaced wholesale, not diffed
		if err := unlinkTags(ctx, tx, d.ID); err != nil {
			return err
		}
		return linkTags(ctx, tx, d.ID, tagIDs)
	})
}

// Delete removes the tag associations and then the log row in one transaction
func (s *DevLogStore) Delete(ctx context.Context, id int64) error {
	return s.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := unlinkTags(ctx, tx, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM dev_logs WHERE id = $1", id); err != nil {
			return fmt.Errorf("failed to delete dev log: %w", err)
		}
		return nil
	})
}

// linkTags inserts tag associations and bumps each tag's usage counter
func linkTags(ctx context.Context, tx *sqlx.Tx, logID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}

	ins := psql.Insert("dev_log_tech_tags").Columns("log_id", "tag_id")
	for _, tagID := range tagIDs {
		ins = ins.Values(logID, tagID)
	}
	query, args, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to link tags: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE tech_tags
		SET usage_count = usage_count + 1, updated_at = now()
		WHERE id = ANY($1)`, pq.Array(tagIDs))
	if err != nil {
		return fmt.Errorf("failed to increment tag usage: %w", err)
	}
	return nil
}

// unlinkTags removes every association of a log and releases the counters
func unlinkTags(ctx context.Context, tx *sqlx.Tx, logID int64) error {
	var tagIDs []int64
	err := tx.SelectContext(ctx, &tagIDs,
		"SELECT tag_id FROM dev_log_tech_tags WHERE log_id = $1", logID)
	if err != nil {
		return fmt.Errorf("failed to load linked tags: %w", err)
	}
	if len(tagIDs) == 0 {
		return nil
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM dev_log_tech_tags WHERE log_id = $1", logID); err != nil {
		return fmt.Errorf("failed to unlink tags: %w", err)
	}

	// GREATEST keeps the counter invariant even if it was adjusted externally
	_, err = tx.ExecContext(ctx, `
		UPDATE tech_tags
		SET usage_count = GREATEST(usage_count - 1, 0), updated_at = now()
		WHERE id = ANY($1)`, pq.Array(tagIDs))
	if err != nil {
		return fmt.Errorf("failed to decrement tag usage: %w", err)
	}
	return nil
}

// Count returns the total number of logs
func (s *DevLogStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM dev_logs"); err != nil {
		return 0, fmt.Errorf("failed to count dev logs: %w", err)
	}
	return count, nil
}

// CountByDateRange returns the number of logs dated within [start, end]
func (s *DevLogStore) CountByDateRange(ctx context.Context, start, end time.Time) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM dev_logs WHERE log_date BETWEEN $1 AND $2", start, end)
	if err != nil {
		return 0, fmt.Errorf("failed to count dev logs by date range: %w", err)
	}
	return count, nil
}

// CountByProjectID returns the number of logs tied to a project
func (s *DevLogStore) CountByProjectID(ctx context.Context, projectID int64) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM dev_logs WHERE project_id = $1", projectID)
	if err != nil {
		return 0, fmt.Errorf("failed to count dev logs by project: %w", err)
	}
	return count, nil
}
