package store

import (
	"context"
	"embed"
	"fmt"
	"io"
	"log"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// psql builds queries with PostgreSQL placeholders
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Config holds database connection settings
type Config struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns connection settings with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 10 * time.Minute,
	}
}

// DB wraps the sqlx connection pool
type DB struct {
	*sqlx.DB
}

// Connect opens and verifies a database connection
func (cfg *Config) Connect(ctx context.Context) (*DB, error) {
	db, err := sqlx.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// NewDB wraps an existing sqlx connection (tests)
func NewDB(db *sqlx.DB) *DB {
	return &DB{DB: db}
}

// Migrate applies the embedded schema migrations
func (db *DB) Migrate() error {
	// goose writes directly to stdout otherwise
	goose.SetLogger(log.New(io.Discard, "", 0))
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	if err := goose.Up(db.DB.DB, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Close closes the connection pool
func (db *DB) Close() error {
	return db.DB.Close()
}
