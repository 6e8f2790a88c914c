package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/smazzone/studytrack/internal/config"
	"github.com/smazzone/studytrack/internal/platform/postgres"
	"github.com/smazzone/studytrack/internal/service"
	"github.com/smazzone/studytrack/internal/service/auth"
	"github.com/smazzone/studytrack/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (interfaces so handlers and tests can swap implementations)
	userStore    store.UserStore
	subjectStore store.SubjectStore
	sessionStore store.StudySessionStore

	// Services
	sessionService   auth.SessionService
	userService      *service.UserService
	subjectService   *service.SubjectService
	dashboardService *service.DashboardService
}

// newApplication creates a new application instance with all dependencies
// initialized. The database connection must already be established; the
// application owns it from here and closes it in cleanup.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.sessionService, err = auth.NewSessionService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session service: %w", err)
	}
	logger.Info("session service initialized",
		"session_lifetime_minutes", cfg.Auth.SessionLifetimeMinutes)

	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.subjectStore = postgres.NewPostgresSubjectStore(db, logger)
	app.sessionStore = postgres.NewPostgresStudySessionStore(db, logger)

	txRunner := store.NewSQLTxRunner(db)
	hasher := auth.NewBcryptHasher(0)
	app.userService = service.NewUserService(
		txRunner,
		app.userStore,
		app.subjectStore,
		app.sessionStore,
		hasher,
		hasher,
		logger,
	)
	app.subjectService = service.NewSubjectService(txRunner, app.subjectStore, app.sessionStore, logger)
	app.dashboardService = service.NewDashboardService(app.subjectStore, app.sessionStore, logger)

	logger.Info("application initialized")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}
	app.logger.Info("application shutdown completed")
}
