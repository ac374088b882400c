package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes into dir for the duration of the test; t.Chdir needs Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadConfig(t *testing.T) {
	t.Run("no file falls back to defaults", func(t *testing.T) {
		chdir(t, t.TempDir())

		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	})

	t.Run("explicit file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "devlog.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
database:
  url: postgres://localhost/devlog
  max_open_conns: 25
server:
  port: 9090
`), 0644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "postgres://localhost/devlog", cfg.Database.URL)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 9090, cfg.Server.Port)

		// untouched sections keep their defaults
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		_, err := LoadConfig("/nonexistent/devlog.yaml")
		require.Error(t, err)
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "devlog.yaml")
		require.NoError(t, os.WriteFile(path, []byte("log: [broken"), 0644))

		_, err := LoadConfig(path)
		require.Error(t, err)
	})

	t.Run("conventional location is discovered", func(t *testing.T) {
		chdir(t, t.TempDir())
		require.NoError(t, os.WriteFile("devlog.yaml", []byte("log:\n  level: warn\n"), 0644))

		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, "warn", cfg.Log.Level)
	})

	t.Run("DATABASE_URL fills an empty url", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "devlog.yaml")
		require.NoError(t, os.WriteFile(path, []byte("log:\n  level: info\n"), 0644))
		t.Setenv("DATABASE_URL", "postgres://env/devlog")

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "postgres://env/devlog", cfg.Database.URL)
	})
}

func TestStoreConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Database.URL = "postgres://localhost/devlog"

	sc := cfg.StoreConfig()
	assert.Equal(t, "postgres://localhost/devlog", sc.URL)
	assert.Equal(t, cfg.Database.MaxOpenConns, sc.MaxOpenConns)
	assert.Equal(t, cfg.Database.ConnMaxLifetime, sc.ConnMaxLifetime)
}
