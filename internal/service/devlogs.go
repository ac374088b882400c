package service

import (
	"context"
	"strings"
	"time"

	"github.com/vibecoding/devlog/internal/logger"
	"github.com/vibecoding/devlog/internal/model"
	"github.com/vibecoding/devlog/internal/store"
)

const defaultRecentLimit = 10

// DevLogStore is the persistence surface the dev log service depends on
type DevLogStore interface {
	FindAll(ctx context.Context, projectID *int64, startDate, endDate *time.Time) ([]model.DevLog, error)
	FindByID(ctx context.Context, id int64) (*model.DevLog, error)
	Search(ctx context.Context, keyword string) ([]model.DevLog, error)
	FindRecent(ctx context.Context, limit int) ([]model.DevLog, error)
	CalendarData(ctx context.Context, start, end time.Time) ([]store.CalendarCount, error)
	Insert(ctx context.Context, d *model.DevLog, tagIDs []int64) error
	Update(ctx context.Context, d *model.DevLog, tagIDs []int64) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
	CountByDateRange(ctx context.Context, start, end time.Time) (int, error)
}

// TagResolver resolves tag names into persisted tags during log writes
type TagResolver interface {
	FindOrCreate(ctx context.Context, name, category string) (*model.TechTag, error)
}

// DevLogInput carries client-supplied dev log fields
type DevLogInput struct {
	ProjectID    *int64      `json:"projectId"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	StartTime    *string     `json:"startTime"`
	EndTime      *string     `json:"endTime"`
	Achievements string      `json:"achievements"`
	Challenges   string      `json:"challenges"`
	Learnings    string      `json:"learnings"`
	CodeSnippets string      `json:"codeSnippets"`
	LogDate      *model.Date `json:"logDate"`
	Mood         string      `json:"mood"`
	TechTags     []string    `json:"techTags"`
}

// DevLogService handles dev log business logic
type DevLogService struct {
	store DevLogStore
	tags  TagResolver
	log   logger.Logger
}

// NewDevLogService creates a dev log service
func NewDevLogService(store DevLogStore, tags TagResolver) *DevLogService {
	return &DevLogService{store: store, tags: tags, log: logger.Service()}
}

// FindAll returns logs matching the optional project and date-range filters
func (s *DevLogService) FindAll(ctx context.Context, projectID *int64, startDate, endDate *time.Time) ([]model.DevLog, error) {
	return s.store.FindAll(ctx, projectID, startDate, endDate)
}

// FindByID returns a log or a not-found error
func (s *DevLogService) FindByID(ctx context.Context, id int64) (*model.DevLog, error) {
	d, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, NotFoundf("FindDevLog", "dev log not found with id: %d", id)
	}
	return d, nil
}

// Search returns logs whose text fields contain the keyword
func (s *DevLogService) Search(ctx context.Context, keyword string) ([]model.DevLog, error) {
	return s.store.Search(ctx, keyword)
}

// FindRecent returns the most recently created logs. A non-positive
// limit falls back to the default of 10.
func (s *DevLogService) FindRecent(ctx context.Context, limit int) ([]model.DevLog, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return s.store.FindRecent(ctx, limit)
}

// CalendarData returns per-day log counts for the given month
func (s *DevLogService) CalendarData(ctx context.Context, year, month int) ([]store.CalendarCount, error) {
	start, end, err := monthWindow(year, month, time.Now())
	if err != nil {
		return nil, err
	}
	return s.store.CalendarData(ctx, start, end)
}

// Create validates the input, derives work minutes, resolves tags, and
// persists the log with its associations
func (s *DevLogService) Create(ctx context.Context, in DevLogInput) (*model.DevLog, error) {
	s.log.Debug("creating dev log: %s", in.Title)

	d, err := s.prepare(ctx, in)
	if err != nil {
		return nil, err
	}

	tagIDs, err := s.resolveTags(ctx, in.TechTags)
	if err != nil {
		return nil, err
	}

	if err := s.store.Insert(ctx, d, tagIDs); err != nil {
		return nil, err
	}

	s.log.Info("dev log created: id=%d title=%s", d.ID, d.Title)
	return s.store.FindByID(ctx, d.ID)
}

// Update validates the input and replaces an existing log, including its
// full tag set
func (s *DevLogService) Update(ctx context.Context, id int64, in DevLogInput) (*model.DevLog, error) {
	s.log.Debug("updating dev log: id=%d", id)

	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, NotFoundf("UpdateDevLog", "dev log not found with id: %d", id)
	}

	d, err := s.prepare(ctx, in)
	if err != nil {
		return nil, err
	}
	d.ID = id

	tagIDs, err := s.resolveTags(ctx, in.TechTags)
	if err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, d, tagIDs); err != nil {
		return nil, err
	}

	s.log.Info("dev log updated: id=%d title=%s", id, d.Title)
	return s.store.FindByID(ctx, id)
}

// Delete removes a log and its tag associations
func (s *DevLogService) Delete(ctx context.Context, id int64) error {
	s.log.Debug("deleting dev log: id=%d", id)

	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return NotFoundf("DeleteDevLog", "dev log not found with id: %d", id)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("dev log deleted: id=%d title=%s", id, existing.Title)
	return nil
}

// Count returns the total number of logs
func (s *DevLogService) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

// DevLogSummary is the headline log count report
type DevLogSummary struct {
	TotalLogs     int `json:"totalLogs"`
	ThisWeekLogs  int `json:"thisWeekLogs"`
	ThisMonthLogs int `json:"thisMonthLogs"`
}

// Summary counts logs overall and within the current week and month
func (s *DevLogService) Summary(ctx context.Context) (*DevLogSummary, error) {
	now := time.Now()

	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, err
	}

	weekStart, weekEnd := weekWindow(nil, now)
	thisWeek, err := s.store.CountByDateRange(ctx, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}

	monthStart, monthEnd, err := monthWindow(0, 0, now)
	if err != nil {
		return nil, err
	}
	thisMonth, err := s.store.CountByDateRange(ctx, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	return &DevLogSummary{
		TotalLogs:     total,
		ThisWeekLogs:  thisWeek,
		ThisMonthLogs: thisMonth,
	}, nil
}

// prepare validates the input and builds the log row to persist
func (s *DevLogService) prepare(ctx context.Context, in DevLogInput) (*model.DevLog, error) {
	if err := validateDevLog(in); err != nil {
		return nil, err
	}

	d := &model.DevLog{
		ProjectID:    in.ProjectID,
		Title:        strings.TrimSpace(in.Title),
		Description:  in.Description,
		StartTime:    in.StartTime,
		EndTime:      in.EndTime,
		Achievements: in.Achievements,
		Challenges:   in.Challenges,
		Learnings:    in.Learnings,
		CodeSnippets: in.CodeSnippets,
		Mood:         in.Mood,
	}
	if in.LogDate != nil && !in.LogDate.IsZero() {
		d.LogDate = *in.LogDate
	} else {
		d.LogDate = model.Today()
	}
	d.WorkMinutes = d.CalculateWorkMinutes()
	return d, nil
}

// resolveTags maps tag names to IDs, creating missing tags on the fly.
// Blank names are skipped; duplicates collapse to one association.
func (s *DevLogService) resolveTags(ctx context.Context, names []string) ([]int64, error) {
	seen := make(map[int64]bool, len(names))
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		tag, err := s.tags.FindOrCreate(ctx, name, model.CategoryTool)
		if err != nil {
			return nil, err
		}
		if seen[tag.ID] {
			continue
		}
		seen[tag.ID] = true
		ids = append(ids, tag.ID)
	}
	return ids, nil
}

func validateDevLog(in DevLogInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return Validationf("ValidateDevLog", "dev log title is required")
	}
	if in.StartTime != nil {
		if _, err := model.ParseTimeOfDay(*in.StartTime); err != nil {
			return Validationf("ValidateDevLog", "invalid start time: %s. Must be HH:MM", *in.StartTime)
		}
	}
	if in.EndTime != nil {
		if _, err := model.ParseTimeOfDay(*in.EndTime); err != nil {
			return Validationf("ValidateDevLog", "invalid end time: %s. Must be HH:MM", *in.EndTime)
		}
	}
	if in.StartTime != nil && in.EndTime != nil {
		start, _ := model.ParseTimeOfDay(*in.StartTime)
		end, _ := model.ParseTimeOfDay(*in.EndTime)
		if end.Before(start) {
			return Validationf("ValidateDevLog", "end time cannot be before start time")
		}
	}
	return nil
}
