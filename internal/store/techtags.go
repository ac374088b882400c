package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/vibecoding/devlog/internal/model"
)

var techTagColumns = []string{
	"id", "name", "category", "color", "usage_count", "created_at", "updated_at",
}

// TechTagStore persists tech tags
type TechTagStore struct {
	db *DB
}

// NewTechTagStore creates a tech tag store
func NewTechTagStore(db *DB) *TechTagStore {
	return &TechTagStore{db: db}
}

func (s *TechTagStore) selectTags(ctx context.Context, b sq.SelectBuilder) ([]model.TechTag, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var tags []model.TechTag
	if err := s.db.SelectContext(ctx, &tags, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select tech tags: %w", err)
	}
	return tags, nil
}

// FindAll returns every tag ordered by name
func (s *TechTagStore) FindAll(ctx context.Context) ([]model.TechTag, error) {
	return s.selectTags(ctx, psql.
		Select(techTagColumns...).
		From("tech_tags").
		OrderBy("name"))
}

// FindByID returns a tag, or nil when absent
func (s *TechTagStore) FindByID(ctx context.Context, id int64) (*model.TechTag, error) {
	query, args, err := psql.
		Select(techTagColumns...).
		From("tech_tags").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var t model.TechTag
	if err := s.db.GetContext(ctx, &t, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get tech tag: %w", err)
	}
	return &t, nil
}

// FindByName returns a tag by exact name, or nil when absent
func (s *TechTagStore) FindByName(ctx context.Context, name string) (*model.TechTag, error) {
	query, args, err := psql.
		Select(techTagColumns...).
		From("tech_tags").
		Where(sq.Eq{"name": name}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var t model.TechTag
	if err := s.db.GetContext(ctx, &t, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get tech tag by name: %w", err)
	}
	return &t, nil
}

// FindByCategory returns all tags in a category
func (s *TechTagStore) FindByCategory(ctx context.Context, category string) ([]model.TechTag, error) {
	return s.selectTags(ctx, psql.
		Select(techTagColumns...).
		From("tech_tags").
		Where(sq.Eq{"category": category}).
		OrderBy("name"))
}

// FindPopular returns the most-used tags
func (s *TechTagStore) FindPopular(ctx context.Context, limit int) ([]model.TechTag, error) {
	return s.selectTags(ctx, psql.
		Select(techTagColumns...).
		From("tech_tags").
		OrderBy("usage_count DESC", "name").
		Limit(uint64(limit)))
}

// Search returns tags whose name contains keyword, case-insensitively
func (s *TechTagStore) Search(ctx context.Context, keyword string) ([]model.TechTag, error) {
	return s.selectTags(ctx, psql.
		Select(techTagColumns...).
		From("tech_tags").
		Where(sq.ILike{"name": "%" + keyword + "%"}).
		OrderBy("name"))
}

// Insert creates a tag and fills in its generated fields
func (s *TechTagStore) Insert(ctx context.Context, t *model.TechTag) error {
	return s.insert(ctx, s.db, t)
}

type execGetter interface {
	sqlx.ExtContext
}

func (s *TechTagStore) insert(ctx context.Context, q execGetter, t *model.TechTag) error {
	query, args, err := psql.
		Insert("tech_tags").
		Columns("name", "category", "color", "usage_count").
		Values(t.Name, t.Category, t.Color, t.UsageCount).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	row := q.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert tech tag: %w", err)
	}
	return nil
}

// FindOrCreate looks a tag up by name and inserts it when absent,
// within a single transaction
func (s *TechTagStore) FindOrCreate(ctx context.Context, name, category string) (*model.TechTag, error) {
	var result model.TechTag
	err := s.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		var existing model.TechTag
		err := tx.GetContext(ctx, &existing,
			"SELECT id, name, category, color, usage_count, created_at, updated_at FROM tech_tags WHERE name = $1",
			name)
		if err == nil {
			result = existing
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to get tech tag by name: %w", err)
		}

		created := model.TechTag{Name: name, Category: category}
		if err := s.insert(ctx, tx, &created); err != nil {
			return err
		}
		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Update replaces a tag's mutable fields
func (s *TechTagStore) Update(ctx context.Context, t *model.TechTag) error {
	query, args, err := psql.
		Update("tech_tags").
		Set("name", t.Name).
		Set("category", t.Category).
		Set("color", t.Color).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": t.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update tech tag: %w", err)
	}
	return nil
}

// Delete removes a tag's log associations and then the tag itself
func (s *TechTagStore) Delete(ctx context.Context, id int64) error {
	return s.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM dev_log_tech_tags WHERE tag_id = $1", id); err != nil {
			return fmt.Errorf("failed to unlink tech tag: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM tech_tags WHERE id = $1", id); err != nil {
			return fmt.Errorf("failed to delete tech tag: %w", err)
		}
		return nil
	})
}

// IncrementUsage adds one to a tag's usage counter
func (s *TechTagStore) IncrementUsage(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE tech_tags
		SET usage_count = usage_count + 1, updated_at = now()
		WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to increment usage: %w", err)
	}
	return nil
}

// DecrementUsage subtracts one from a tag's usage counter.
// The guard keeps the counter from ever going negative under races.
func (s *TechTagStore) DecrementUsage(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE tech_tags
		SET usage_count = usage_count - 1, updated_at = now()
		WHERE id = $1 AND usage_count > 0`, id)
	if err != nil {
		return fmt.Errorf("failed to decrement usage: %w", err)
	}
	return nil
}

// Count returns the total number of tags
func (s *TechTagStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM tech_tags"); err != nil {
		return 0, fmt.Errorf("failed to count tech tags: %w", err)
	}
	return count, nil
}

// CountByCategory returns the number of tags in a category
func (s *TechTagStore) CountByCategory(ctx context.Context, category string) (int, error) {
	query, args, err := psql.
		Select("COUNT(*)").
		From("tech_tags").
		Where(sq.Eq{"category": category}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	var count int
	if err := s.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count tech tags by category: %w", err)
	}
	return count, nil
}
