// Package main implements the entry point for the StudyTrack server,
// a personal study tracker: users register, define subjects, log study
// sessions against them, and review aggregate statistics on a dashboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"

	"github.com/smazzone/studytrack/internal/config"
	"github.com/smazzone/studytrack/internal/platform/logger"
)

func main() {
	var (
		configFile = flag.String("config", "", "path to config file (optional; env vars suffice)")
		migrateCmd = flag.String("migrate", "", "run a migration command (up|down|status|reset) and exit")
	)
	flag.Parse()

	if err := run(*configFile, *migrateCmd); err != nil {
		log.Fatalf("studytrack: %v", err)
	}
}

// run loads configuration, wires the application together and either runs
// the requested migration command or starts the HTTP server.
func run(configFile, migrateCmd string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := openDatabase(cfg, appLogger)
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		defer func() {
			if cerr := db.Close(); cerr != nil {
				appLogger.Error("failed to close database", "error", cerr)
			}
		}()
		return runMigrations(db, migrateCmd, appLogger)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := newApplication(cfg, appLogger, db)
	if err != nil {
		// newApplication does not own the connection until it succeeds.
		if cerr := db.Close(); cerr != nil {
			appLogger.Error("failed to close database", "error", cerr)
		}
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
