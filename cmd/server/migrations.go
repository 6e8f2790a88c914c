package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
)

// migrationsDir is the on-disk location of the SQL migrations, relative to
// the working directory the server is launched from.
const migrationsDir = "migrations"

// slogGooseLogger adapts goose's logger interface to slog.
type slogGooseLogger struct{}

// Printf forwards goose progress messages to slog.Info.
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...))
}

// Fatalf forwards goose fatal messages to slog.Error. Goose only calls this
// from its CLI paths; the error still propagates through the return value,
// so no exit happens here.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...))
}

// runMigrations executes the requested goose command against the database.
// Supported commands: up, down, status, reset.
func runMigrations(db *sql.DB, command string, logger *slog.Logger) error {
	goose.SetLogger(&slogGooseLogger{})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	logger.Info("running migrations", "command", command, "dir", migrationsDir)

	var err error
	switch command {
	case "up":
		err = goose.Up(db, migrationsDir)
	case "down":
		err = goose.Down(db, migrationsDir)
	case "status":
		err = goose.Status(db, migrationsDir)
	case "reset":
		err = goose.Reset(db, migrationsDir)
	default:
		return fmt.Errorf("unknown migration command %q (want up, down, status or reset)", command)
	}
	if err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}

	logger.Info("migrations finished", "command", command)
	return nil
}
