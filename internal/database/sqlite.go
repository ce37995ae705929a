package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const MemoryPath = ":memory:"

var (
	sqlxConnect          = sqlx.ConnectContext
	sqliteWithInstanceFn = sqlite3.WithInstance
)

// SQLiteDSN enables foreign keys on every connection; cascades depend on it.
func SQLiteDSN(path string) string {
	if path == MemoryPath {
		return "file::memory:?_foreign_keys=on"
	}
	return fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", path)
}

// OpenSQLite connects to the database file at path. An in-memory database
// is pinned to a single connection so every query sees the same data.
func OpenSQLite(ctx context.Context, path string) (*sqlx.DB, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	db, err := sqlxConnect(ctx, "sqlite3", SQLiteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("OpenSQLite: %w", err)
	}
	if path == MemoryPath {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(4)
		db.SetConnMaxLifetime(5 * time.Minute)
	}
	return db, nil
}

// MigrateSQLite applies every embedded SQLite migration on db.
// db stays open; the caller owns it.
func MigrateSQLite(db *sql.DB) error {
	driver, err := sqliteWithInstanceFn(db, &sqlite3.Config{})
	if err != nil {
		return err
	}

	sourceDriver, err := iofsNewFn(migrationsFS, sqliteMigrationsDir)
	if err != nil {
		return err
	}

	m, err := migrateNewWithInstance("iofs", sourceDriver, "sqlite3", driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
