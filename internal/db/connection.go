package db

import (
	"database/sql"
	"time"

	"mystical-alchemist/backend-api/pkg/config"

	_ "modernc.org/sqlite"
)

// Fallback pool settings when the config leaves them unset.
const (
	defaultMaxOpenConns    = 5
	defaultMaxIdleConns    = 2
	defaultConnMaxLifetime = 5 * time.Minute
	defaultConnMaxIdleTime = 2 * time.Minute
)

// OpenDB opens the SQLite database described by cfg with connection pooling,
// foreign keys enabled, and WAL mode for better concurrency.
func OpenDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, err
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = defaultMaxOpenConns
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = defaultMaxIdleConns
	}
	maxLifetime := cfg.ConnMaxLifetime
	if maxLifetime <= 0 {
		maxLifetime = defaultConnMaxLifetime
	}
	maxIdleTime := cfg.ConnMaxIdleTime
	if maxIdleTime <= 0 {
		maxIdleTime = defaultConnMaxIdleTime
	}
	conn.SetMaxOpenConns(maxOpen)
	conn.SetMaxIdleConns(maxIdle)
	conn.SetConnMaxLifetime(maxLifetime)
	conn.SetConnMaxIdleTime(maxIdleTime)

	// Enable foreign keys (required for referential integrity)
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, err
	}

	// Enable WAL mode for better concurrency and performance
	if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
		conn.Close()
		return nil, err
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}

	return conn, nil
}

// OpenInMemory opens an in-memory SQLite database with the same settings
// as OpenDB. Useful for testing.
func OpenInMemory() (*sql.DB, error) {
	return OpenDB(config.DatabaseConfig{Path: ":memory:"})
}
