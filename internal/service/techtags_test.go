package service

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibecoding/devlog/internal/model"
)

// fakeTechTagStore is an in-memory TechTagStore
type fakeTechTagStore struct {
	tags   map[int64]model.TechTag
	nextID int64
}

func newFakeTechTagStore() *fakeTechTagStore {
	return &fakeTechTagStore{tags: map[int64]model.TechTag{}, nextID: 1}
}

func (f *fakeTechTagStore) FindAll(ctx context.Context) ([]model.TechTag, error) {
	out := []model.TechTag{}
	for _, t := range f.tags {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeTechTagStore) FindByID(ctx context.Context, id int64) (*model.TechTag, error) {
	t, ok := f.tags[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (f *fakeTechTagStore) FindByName(ctx context.Context, name string) (*model.TechTag, error) {
	for _, t := range f.tags {
		if t.Name == name {
			t := t
			return &t, nil
		}
	}
	return nil, nil
}

func (f *fakeTechTagStore) FindByCategory(ctx context.Context, category string) ([]model.TechTag, error) {
	out := []model.TechTag{}
	for _, t := range f.tags {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTechTagStore) FindPopular(ctx context.Context, limit int) ([]model.TechTag, error) {
	all, _ := f.FindAll(ctx)
	sort.Slice(all, func(i, j int) bool { return all[i].UsageCount > all[j].UsageCount })
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeTechTagStore) Search(ctx context.Context, keyword string) ([]model.TechTag, error) {
	out := []model.TechTag{}
	for _, t := range f.tags {
		if strings.Contains(strings.ToLower(t.Name), strings.ToLower(keyword)) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTechTagStore) Insert(ctx context.Context, t *model.TechTag) error {
	t.ID = f.nextID
	f.nextID++
	f.tags[t.ID] = *t
	return nil
}

func (f *fakeTechTagStore) FindOrCreate(ctx context.Context, name, category string) (*model.TechTag, error) {
	if existing, _ := f.FindByName(ctx, name); existing != nil {
		return existing, nil
	}
	t := model.TechTag{Name: name, Category: category}
	if err := f.Insert(ctx, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (f *fakeTechTagStore) Update(ctx context.Context, t *model.TechTag) error {
	existing := f.tags[t.ID]
	existing.Name = t.Name
	existing.Category = t.Category
	existing.Color = t.Color
	f.tags[t.ID] = existing
	return nil
}

func (f *fakeTechTagStore) Delete(ctx context.Context, id int64) error {
	delete(f.tags, id)
	return nil
}

func (f *fakeTechTagStore) IncrementUsage(ctx context.Context, id int64) error {
	t := f.tags[id]
	t.UsageCount++
	f.tags[id] = t
	return nil
}

func (f *fakeTechTagStore) DecrementUsage(ctx context.Context, id int64) error {
	t := f.tags[id]
	if t.UsageCount > 0 {
		t.UsageCount--
	}
	f.tags[id] = t
	return nil
}

func (f *fakeTechTagStore) Count(ctx context.Context) (int, error) {
	return len(f.tags), nil
}

func (f *fakeTechTagStore) CountByCategory(ctx context.Context, category string) (int, error) {
	n := 0
	for _, t := range f.tags {
		if t.Category == category {
			n++
		}
	}
	return n, nil
}

func TestTechTagCreate(t *testing.T) {
	ctx := context.Background()
	svc := NewTechTagService(newFakeTechTagStore())

	t.Run("defaults category to TOOL", func(t *testing.T) {
		tag, err := svc.Create(ctx, TechTagInput{Name: "Docker"})
		require.NoError(t, err)
		assert.Equal(t, model.CategoryTool, tag.Category)
		assert.Equal(t, 0, tag.UsageCount)
	})

	t.Run("duplicate name is a conflict", func(t *testing.T) {
		_, err := svc.Create(ctx, TechTagInput{Name: "Docker"})
		require.Error(t, err)
		assert.True(t, IsConflict(err))
	})

	t.Run("rejects a blank name", func(t *testing.T) {
		_, err := svc.Create(ctx, TechTagInput{Name: "  "})
		require.Error(t, err)
		assert.True(t, IsValidation(err))
	})

	t.Run("rejects an unknown category", func(t *testing.T) {
		_, err := svc.Create(ctx, TechTagInput{Name: "Godot", Category: "GAME_ENGINE"})
		require.Error(t, err)
		assert.True(t, IsValidation(err))
	})
}

func TestTechTagFindOrCreate(t *testing.T) {
	ctx := context.Background()
	svc := NewTechTagService(newFakeTechTagStore())

	first, err := svc.FindOrCreate(ctx, "Go")
	require.NoError(t, err)

	t.Run("is idempotent", func(t *testing.T) {
		again, err := svc.FindOrCreate(ctx, "Go")
		require.NoError(t, err)
		assert.Equal(t, first.ID, again.ID)
	})

	t.Run("trims the name before lookup", func(t *testing.T) {
		trimmed, err := svc.FindOrCreate(ctx, "  Go  ")
		require.NoError(t, err)
		assert.Equal(t, first.ID, trimmed.ID)
	})

	t.Run("rejects blank names", func(t *testing.T) {
		_, err := svc.FindOrCreate(ctx, "   ")
		require.Error(t, err)
		assert.True(t, IsValidation(err))
	})

	t.Run("multiple skips blanks", func(t *testing.T) {
		tags, err := svc.FindOrCreateMultiple(ctx, []string{"Go", "", "Postgres", "  "})
		require.NoError(t, err)
		require.Len(t, tags, 2)
		assert.Equal(t, "Go", tags[0].Name)
		assert.Equal(t, "Postgres", tags[1].Name)
	})
}

func TestTechTagUsageCounters(t *testing.T) {
	ctx := context.Background()
	store := newFakeTechTagStore()
	svc := NewTechTagService(store)

	tag, err := svc.Create(ctx, TechTagInput{Name: "Redis", Category: model.CategoryDatabase})
	require.NoError(t, err)

	t.Run("increment bumps the counter", func(t *testing.T) {
		updated, err := svc.IncrementUsage(ctx, tag.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, updated.UsageCount)
	})

	t.Run("decrement releases it", func(t *testing.T) {
		updated, err := svc.DecrementUsage(ctx, tag.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, updated.UsageCount)
	})

	t.Run("decrement at zero is rejected", func(t *testing.T) {
		_, err := svc.DecrementUsage(ctx, tag.ID)
		require.Error(t, err)
		assert.True(t, IsValidation(err))
	})

	t.Run("unknown tag is not found", func(t *testing.T) {
		_, err := svc.IncrementUsage(ctx, 9999)
		require.Error(t, err)
		assert.True(t, IsNotFound(err))

		_, err = svc.DecrementUsage(ctx, 9999)
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
	})
}

func TestTechTagUpdate(t *testing.T) {
	ctx := context.Background()
	svc := NewTechTagService(newFakeTechTagStore())

	goTag, err := svc.Create(ctx, TechTagInput{Name: "Go", Category: model.CategoryLanguage})
	require.NoError(t, err)
	_, err = svc.Create(ctx, TechTagInput{Name: "Rust", Category: model.CategoryLanguage})
	require.NoError(t, err)

	t.Run("renaming onto an existing tag is a conflict", func(t *testing.T) {
		_, err := svc.Update(ctx, goTag.ID, TechTagInput{Name: "Rust", Category: model.CategoryLanguage})
		require.Error(t, err)
		assert.True(t, IsConflict(err))
	})

	t.Run("keeping the same name is fine", func(t *testing.T) {
		updated, err := svc.Update(ctx, goTag.ID, TechTagInput{
			Name: "Go", Category: model.CategoryLanguage, Color: "#00ADD8",
		})
		require.NoError(t, err)
		assert.Equal(t, "#00ADD8", updated.Color)
	})
}

func TestTechTagFindPopular(t *testing.T) {
	ctx := context.Background()
	store := newFakeTechTagStore()
	svc := NewTechTagService(store)

	for i := 0; i < 15; i++ {
		tag := model.TechTag{Name: string(rune('a' + i)), Category: model.CategoryTool, UsageCount: i}
		require.NoError(t, store.Insert(ctx, &tag))
	}

	t.Run("non-positive limit defaults to ten", func(t *testing.T) {
		tags, err := svc.FindPopular(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, tags, 10)
	})

	t.Run("explicit limit is honored", func(t *testing.T) {
		tags, err := svc.FindPopular(ctx, 3)
		require.NoError(t, err)
		require.Len(t, tags, 3)
		assert.Equal(t, 14, tags[0].UsageCount)
	})
}

func TestTechTagSummary(t *testing.T) {
	ctx := context.Background()
	svc := NewTechTagService(newFakeTechTagStore())

	for _, in := range []TechTagInput{
		{Name: "Go", Category: model.CategoryLanguage},
		{Name: "Python", Category: model.CategoryLanguage},
		{Name: "Postgres", Category: model.CategoryDatabase},
	} {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	sum, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.TotalTags)
	assert.Equal(t, 2, sum.CategoryCounts[model.CategoryLanguage])
	assert.Equal(t, 1, sum.CategoryCounts[model.CategoryDatabase])
	assert.Equal(t, 0, sum.CategoryCounts[model.CategoryFramework])
}
