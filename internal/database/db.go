// Package database persists generated service calendars in SQLite.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// MemoryPath opens a private in-memory store.
const MemoryPath = ":memory:"

// ErrNotFound is returned when a requested calendar has not been stored.
var ErrNotFound = errors.New("calendar not found")

// IsNotFound checks if an error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, sql.ErrNoRows)
}

// DB is the calendar store.
type DB struct {
	*sql.DB
	path   string
	logger *slog.Logger
}

// Open opens the store at path, creating parent directories as needed.
//
// The pool holds a single connection: SQLite serialises writers, and every
// connection to MemoryPath would otherwise see its own empty database.
func Open(path string, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if path != MemoryPath {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	dsn := path + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000"
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("calendar store opened", slog.String("path", path))
	return &DB{DB: sqlDB, path: path, logger: logger}, nil
}

// Close closes the store.
func (db *DB) Close() error {
	db.logger.Info("closing calendar store", slog.String("path", db.path))
	return db.DB.Close()
}

// Health reports an error when the store is unreachable or its schema is
// behind the migrations this build knows about.
func (db *DB) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	version, err := db.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if version != len(migrations) {
		return fmt.Errorf("schema at version %d, want %d", version, len(migrations))
	}
	return nil
}

// SchemaVersion returns the number of migrations applied to the store.
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

// Migrate applies pending migrations in one transaction and returns how
// many were applied. The applied count is kept in SQLite's user_version.
func (db *DB) Migrate(ctx context.Context) (int, error) {
	applied := 0
	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		var current int
		if err := tx.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
			return fmt.Errorf("read schema version: %w", err)
		}
		if current > len(migrations) {
			return fmt.Errorf("schema version %d is newer than this build (%d)", current, len(migrations))
		}

		for i := current; i < len(migrations); i++ {
			db.logger.Info("applying migration", slog.Int("version", i+1))
			if _, err := tx.ExecContext(ctx, migrations[i]); err != nil {
				return fmt.Errorf("execute migration %d: %w", i+1, err)
			}
			applied++
		}

		// PRAGMA takes no bind parameters.
		_, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", len(migrations)))
		return err
	})
	if err != nil {
		return 0, err
	}

	if applied > 0 {
		db.logger.Info("migrations complete", slog.Int("applied", applied))
	}
	return applied, nil
}

// WithTx runs fn in a transaction, committing when fn returns nil and
// rolling back otherwise.
func (db *DB) WithTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
