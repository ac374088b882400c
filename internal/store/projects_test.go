package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibecoding/devlog/internal/model"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewDB(sqlx.NewDb(db, "postgres")), mock
}

func projectRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "description", "status", "start_date", "end_date",
		"progress", "created_at", "updated_at",
	}).AddRow(1, "devlog backend", "tracker", "ACTIVE", nil, nil, 40, now, now)
}

func TestProjectStoreFindByID(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewProjectStore(db)
	ctx := context.Background()

	t.Run("existing row", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM projects WHERE id = \$1`).
			WithArgs(int64(1)).
			WillReturnRows(projectRows(time.Now()))

		p, err := s.FindByID(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, int64(1), p.ID)
		assert.Equal(t, "devlog backend", p.Name)
		assert.Equal(t, 40, p.Progress)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row yields nil, not an error", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM projects WHERE id = \$1`).
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		p, err := s.FindByID(ctx, 99)
		require.NoError(t, err)
		assert.Nil(t, p)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProjectStoreSearchByName(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewProjectStore(db)

	mock.ExpectQuery(`SELECT .* FROM projects WHERE name ILIKE \$1`).
		WithArgs("%dev%").
		WillReturnRows(projectRows(time.Now()))

	projects, err := s.SearchByName(context.Background(), "dev")
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "devlog backend", projects[0].Name)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectStoreInsert(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewProjectStore(db)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO projects .* RETURNING id, created_at, updated_at`).
		WithArgs("devlog backend", "tracker", "ACTIVE", nil, nil, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(7), now, now))

	p := &model.Project{Name: "devlog backend", Description: "tracker", Status: model.StatusActive}
	require.NoError(t, s.Insert(context.Background(), p))
	assert.Equal(t, int64(7), p.ID)
	assert.Equal(t, now, p.CreatedAt)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectStoreUpdateProgress(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewProjectStore(db)

	mock.ExpectExec(`UPDATE projects SET progress = \$1, updated_at = now\(\) WHERE id = \$2`).
		WithArgs(80, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.UpdateProgress(context.Background(), 3, 80))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectStoreCountByStatus(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewProjectStore(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM projects WHERE status = \$1`).
		WithArgs("ACTIVE").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	n, err := s.CountByStatus(context.Background(), "ACTIVE")
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	require.NoError(t, mock.ExpectationsWereMet())
}
