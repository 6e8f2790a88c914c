//go:build integration

package testdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

const connectTimeout = 5 * time.Second

var (
	migrateOnce sync.Once
	migrateErr  error
)

// URL returns the database URL integration tests should connect to, or ""
// when no test database is configured.
func URL() string {
	if url := os.Getenv("STUDYTRACK_TEST_DATABASE_URL"); url != "" {
		return url
	}
	return os.Getenv("DATABASE_URL")
}

// Get opens a connection to the test database and ensures the schema is
// migrated. The test is skipped when no test database is configured. The
// connection is closed automatically when the test finishes.
func Get(t *testing.T) *sql.DB {
	t.Helper()

	url := URL()
	if url == "" {
		t.Skip("set STUDYTRACK_TEST_DATABASE_URL to run database integration tests")
	}

	db, err := sql.Open("pgx", url)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("ping test database: %v", err)
	}

	migrateOnce.Do(func() { migrateErr = applyMigrations(db) })
	if migrateErr != nil {
		t.Fatalf("migrate test database: %v", migrateErr)
	}
	return db
}

// WithTx runs fn inside a transaction that is rolled back when the test
// finishes, so nothing the test writes survives it.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("begin transaction: %v", err)
	}
	defer func() { _ = tx.Rollback() }()

	fn(t, tx)
}

func applyMigrations(db *sql.DB) error {
	dir, err := migrationsDir()
	if err != nil {
		return err
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	goose.SetLogger(goose.NopLogger())
	return goose.Up(db, dir)
}

// migrationsDir walks up from the working directory until it finds the
// module root, then returns its migrations directory. Tests run with the
// package directory as cwd, so the root is a few levels up.
func migrationsDir() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return filepath.Join(dir, "migrations"), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found walking up from working directory")
		}
		dir = parent
	}
}
