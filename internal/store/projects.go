package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/vibecoding/devlog/internal/model"
)

var projectColumns = []string{
	"id", "name", "description", "status", "start_date", "end_date",
	"progress", "created_at", "updated_at",
}

// ProjectStore persists projects
type ProjectStore struct {
	db *DB
}

// NewProjectStore creates a project store
func NewProjectStore(db *DB) *ProjectStore {
	return &ProjectStore{db: db}
}

func (s *ProjectStore) selectProjects(ctx context.Context, b sq.SelectBuilder) ([]model.Project, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var projects []model.Project
	if err := s.db.SelectContext(ctx, &projects, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select projects: %w", err)
	}
	return projects, nil
}

// FindAll returns every project, newest first
func (s *ProjectStore) FindAll(ctx context.Context) ([]model.Project, error) {
	return s.selectProjects(ctx, psql.
		Select(projectColumns...).
		From("projects").
		OrderBy("created_at DESC"))
}

// FindByID returns a project, or nil when absent
func (s *ProjectStore) FindByID(ctx context.Context, id int64) (*model.Project, error) {
	query, args, err := psql.
		Select(projectColumns...).
		From("projects").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var p model.Project
	if err := s.db.GetContext(ctx, &p, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &p, nil
}

// SearchByName returns projects whose name contains keyword, case-insensitively
func (s *ProjectStore) SearchByName(ctx context.Context, keyword string) ([]model.Project, error) {
	return s.selectProjects(ctx, psql.
		Select(projectColumns...).
		From("projects").
		Where(sq.ILike{"name": "%" + keyword + "%"}).
		OrderBy("created_at DESC"))
}

// FindByStatus returns projects in the given status
func (s *ProjectStore) FindByStatus(ctx context.Context, status string) ([]model.Project, error) {
	return s.selectProjects(ctx, psql.
		Select(projectColumns...).
		From("projects").
		Where(sq.Eq{"status": status}).
		OrderBy("created_at DESC"))
}

// Insert creates a project and fills in its generated fields
func (s *ProjectStore) Insert(ctx context.Context, p *model.Project) error {
	query, args, err := psql.
		Insert("projects").
		Columns("name", "description", "status", "start_date", "end_date", "progress").
		Values(p.Name, p.Description, p.Status, p.StartDate, p.EndDate, p.Progress).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	row := s.db.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}
	return nil
}

// Update replaces a project's mutable fields
func (s *ProjectStore) Update(ctx context.Context, p *model.Project) error {
	query, args, err := psql.
		Update("projects").
		Set("name", p.Name).
		Set("description", p.Description).
		Set("status", p.Status).
		Set("start_date", p.StartDate).
		Set("end_date", p.EndDate).
		Set("progress", p.Progress).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": p.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	return nil
}

// UpdateProgress sets only the progress column
func (s *ProjectStore) UpdateProgress(ctx context.Context, id int64, progress int) error {
	query, args, err := psql.
		Update("projects").
		Set("progress", progress).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update project progress: %w", err)
	}
	return nil
}

// UpdateStatus sets only the status column
func (s *ProjectStore) UpdateStatus(ctx context.Context, id int64, status string) error {
	query, args, err := psql.
		Update("projects").
		Set("status", status).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update project status: %w", err)
	}
	return nil
}

// Delete removes a project
func (s *ProjectStore) Delete(ctx context.Context, id int64) error {
	query, args, err := psql.Delete("projects").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// Count returns the total number of projects
func (s *ProjectStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM projects"); err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}
	return count, nil
}

// CountByStatus returns the number of projects in the given status
func (s *ProjectStore) CountByStatus(ctx context.Context, status string) (int, error) {
	query, args, err := psql.
		Select("COUNT(*)").
		From("projects").
		Where(sq.Eq{"status": status}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	var count int
	if err := s.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count projects by status: %w", err)
	}
	return count, nil
}
