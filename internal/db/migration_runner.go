package db

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// RunMigrations runs all pending migrations from the specified directory.
func RunMigrations(conn *sql.DB, migrationDir string) error {
	if err := prepareGoose(); err != nil {
		return err
	}
	if err := goose.Up(conn, migrationDir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Rollback rolls back the latest migration from the specified directory.
func Rollback(conn *sql.DB, migrationDir string) error {
	if err := prepareGoose(); err != nil {
		return err
	}
	if err := goose.Down(conn, migrationDir); err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}
	return nil
}

// MigrationStatus prints the migration status for the specified directory.
func MigrationStatus(conn *sql.DB, migrationDir string) error {
	if err := prepareGoose(); err != nil {
		return err
	}
	return goose.Status(conn, migrationDir)
}

func prepareGoose() error {
	goose.SetBaseFS(nil)
	goose.SetLogger(log.New(os.Stdout, "[migrations] ", log.LstdFlags))
	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	return nil
}
