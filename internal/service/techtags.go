package service

import (
	"context"
	"strings"

	"github.com/vibecoding/devlog/internal/logger"
	"github.com/vibecoding/devlog/internal/model"
)

const defaultPopularLimit = 10

// TechTagStore is the persistence surface the tech tag service depends on
type TechTagStore interface {
	FindAll(ctx context.Context) ([]model.TechTag, error)
	FindByID(ctx context.Context, id int64) (*model.TechTag, error)
	FindByName(ctx context.Context, name string) (*model.TechTag, error)
	FindByCategory(ctx context.Context, category string) ([]model.TechTag, error)
	FindPopular(ctx context.Context, limit int) ([]model.TechTag, error)
	Search(ctx context.Context, keyword string) ([]model.TechTag, error)
	Insert(ctx context.Context, t *model.TechTag) error
	FindOrCreate(ctx context.Context, name, category string) (*model.TechTag, error)
	Update(ctx context.Context, t *model.TechTag) error
	Delete(ctx context.Context, id int64) error
	IncrementUsage(ctx context.Context, id int64) error
	DecrementUsage(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
	CountByCategory(ctx context.Context, category string) (int, error)
}

// TechTagInput carries client-supplied tag fields
type TechTagInput struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Color    string `json:"color"`
}

// TechTagService handles tech tag business logic
type TechTagService struct {
	store TechTagStore
	log   logger.Logger
}

// NewTechTagService creates a tech tag service
func NewTechTagService(store TechTagStore) *TechTagService {
	return &TechTagService{store: store, log: logger.Service()}
}

// FindAll returns every tag
func (s *TechTagService) FindAll(ctx context.Context) ([]model.TechTag, error) {
	return s.store.FindAll(ctx)
}

// FindByID returns a tag or a not-found error
func (s *TechTagService) FindByID(ctx context.Context, id int64) (*model.TechTag, error) {
	t, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, NotFoundf("FindTechTag", "tech tag not found with id: %d", id)
	}
	return t, nil
}

// FindByName returns a tag by exact name or a not-found error
func (s *TechTagService) FindByName(ctx context.Context, name string) (*model.TechTag, error) {
	t, err := s.store.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, NotFoundf("FindTechTag", "tech tag not found with name: %s", name)
	}
	return t, nil
}

// FindByCategory returns all tags in a category
func (s *TechTagService) FindByCategory(ctx context.Context, category string) ([]model.TechTag, error) {
	if !model.ValidCategory(category) {
		return nil, Validationf("FindByCategory", "invalid tag category: %s", category)
	}
	return s.store.FindByCategory(ctx, category)
}

// FindPopular returns the most-used tags. A non-positive limit falls
// back to the default of 10.
func (s *TechTagService) FindPopular(ctx context.Context, limit int) ([]model.TechTag, error) {
	if limit <= 0 {
		limit = defaultPopularLimit
	}
	return s.store.FindPopular(ctx, limit)
}

// Search returns tags whose name contains the keyword
func (s *TechTagService) Search(ctx context.Context, keyword string) ([]model.TechTag, error) {
	return s.store.Search(ctx, keyword)
}

// Create validates the input and persists a new tag. A tag name must be
// unique; a duplicate is a conflict.
func (s *TechTagService) Create(ctx context.Context, in TechTagInput) (*model.TechTag, error) {
	s.log.Debug("creating tech tag: %s", in.Name)

	t, err := tagFromInput(in)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.FindByName(ctx, t.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, Conflictf("CreateTechTag", "tech tag already exists with name: %s", t.Name)
	}

	if err := s.store.Insert(ctx, t); err != nil {
		return nil, err
	}

	s.log.Info("tech tag created: id=%d name=%s", t.ID, t.Name)
	return t, nil
}

// FindOrCreate returns the tag with the given name, creating it in the
// TOOL category when absent
func (s *TechTagService) FindOrCreate(ctx context.Context, name string) (*model.TechTag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, Validationf("FindOrCreateTechTag", "tech tag name is required")
	}
	return s.store.FindOrCreate(ctx, name, model.CategoryTool)
}

// FindOrCreateMultiple resolves a batch of tag names, skipping blanks
func (s *TechTagService) FindOrCreateMultiple(ctx context.Context, names []string) ([]model.TechTag, error) {
	tags := make([]model.TechTag, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		t, err := s.store.FindOrCreate(ctx, name, model.CategoryTool)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *t)
	}
	return tags, nil
}

// Update validates the input and replaces an existing tag's fields
func (s *TechTagService) Update(ctx context.Context, id int64, in TechTagInput) (*model.TechTag, error) {
	s.log.Debug("updating tech tag: id=%d", id)

	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, NotFoundf("UpdateTechTag", "tech tag not found with id: %d", id)
	}

	t, err := tagFromInput(in)
	if err != nil {
		return nil, err
	}

	// Renaming onto another tag's name would break uniqueness
	if t.Name != existing.Name {
		other, err := s.store.FindByName(ctx, t.Name)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, Conflictf("UpdateTechTag", "tech tag already exists with name: %s", t.Name)
		}
	}

	t.ID = id
	if err := s.store.Update(ctx, t); err != nil {
		return nil, err
	}

	s.log.Info("tech tag updated: id=%d name=%s", id, t.Name)
	return s.store.FindByID(ctx, id)
}

// Delete removes a tag and its log associations
func (s *TechTagService) Delete(ctx context.Context, id int64) error {
	s.log.Debug("deleting tech tag: id=%d", id)

	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return NotFoundf("DeleteTechTag", "tech tag not found with id: %d", id)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("tech tag deleted: id=%d name=%s", id, existing.Name)
	return nil
}

// IncrementUsage adds one to a tag's usage counter
func (s *TechTagService) IncrementUsage(ctx context.Context, id int64) (*model.TechTag, error) {
	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, NotFoundf("IncrementUsage", "tech tag not found with id: %d", id)
	}

	if err := s.store.IncrementUsage(ctx, id); err != nil {
		return nil, err
	}
	return s.store.FindByID(ctx, id)
}

// DecrementUsage subtracts one from a tag's usage counter. Decrementing
// a counter already at zero is rejected.
func (s *TechTagService) DecrementUsage(ctx context.Context, id int64) (*model.TechTag, error) {
	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, NotFoundf("DecrementUsage", "tech tag not found with id: %d", id)
	}
	if existing.UsageCount <= 0 {
		return nil, Validationf("DecrementUsage", "usage count is already zero for tag: %s", existing.Name)
	}

	if err := s.store.DecrementUsage(ctx, id); err != nil {
		return nil, err
	}
	return s.store.FindByID(ctx, id)
}

// Count returns the total number of tags
func (s *TechTagService) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

// TechTagSummary is the per-category tag count report
type TechTagSummary struct {
	TotalTags      int            `json:"totalTags"`
	CategoryCounts map[string]int `json:"categoryCounts"`
}

// Summary counts tags overall and per category
func (s *TechTagService) Summary(ctx context.Context) (*TechTagSummary, error) {
	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string]int, len(model.Categories))
	for _, category := range model.Categories {
		n, err := s.store.CountByCategory(ctx, category)
		if err != nil {
			return nil, err
		}
		byCategory[category] = n
	}

	return &TechTagSummary{TotalTags: total, CategoryCounts: byCategory}, nil
}

// CountByCategory returns the number of tags in a category
func (s *TechTagService) CountByCategory(ctx context.Context, category string) (int, error) {
	return s.store.CountByCategory(ctx, category)
}

func tagFromInput(in TechTagInput) (*model.TechTag, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, Validationf("ValidateTechTag", "tech tag name is required")
	}
	category := in.Category
	if category == "" {
		category = model.CategoryTool
	}
	if !model.ValidCategory(category) {
		return nil, Validationf("ValidateTechTag", "invalid tag category: %s", category)
	}
	return &model.TechTag{Name: name, Category: category, Color: in.Color}, nil
}
