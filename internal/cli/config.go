package cli

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vibecoding/devlog/internal/server"
	"github.com/vibecoding/devlog/internal/store"
)

// Config represents the devlog.yaml configuration structure
type Config struct {
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Database struct {
		URL             string        `yaml:"url"`
		MaxOpenConns    int           `yaml:"max_open_conns"`
		MaxIdleConns    int           `yaml:"max_idle_conns"`
		ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	} `yaml:"database"`

	Server server.Config `yaml:"server"`
}

// DefaultConfig returns the configuration defaults
func DefaultConfig() *Config {
	cfg := &Config{Server: server.DefaultConfig()}
	cfg.Log.Level = "info"

	db := store.DefaultConfig()
	cfg.Database.MaxOpenConns = db.MaxOpenConns
	cfg.Database.MaxIdleConns = db.MaxIdleConns
	cfg.Database.ConnMaxLifetime = db.ConnMaxLifetime
	return cfg
}

// LoadConfig reads devlog.yaml, falling back to defaults when no file
// is found. An empty path searches the conventional locations.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		if env := os.Getenv("DEVLOG_CONFIG"); env != "" {
			path = env
		} else {
			locations := []string{"devlog.yaml", "devlog.yml", ".devlog.yaml", ".devlog.yml"}
			for _, loc := range locations {
				if _, err := os.Stat(loc); err == nil {
					path = loc
					break
				}
			}
		}
		if path == "" {
			return DefaultConfig(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if config.Database.URL == "" {
		config.Database.URL = os.Getenv("DATABASE_URL")
	}

	return config, nil
}

// StoreConfig maps the database section onto the store pool settings
func (c *Config) StoreConfig() *store.Config {
	return &store.Config{
		URL:             c.Database.URL,
		MaxOpenConns:    c.Database.MaxOpenConns,
		MaxIdleConns:    c.Database.MaxIdleConns,
		ConnMaxLifetime: c.Database.ConnMaxLifetime,
	}
}
