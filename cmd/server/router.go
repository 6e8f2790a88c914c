package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/smazzone/studytrack/internal/api"
	"github.com/smazzone/studytrack/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. Public routes cover the auth pages; everything else sits
// behind RequireLogin.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Trace)

	authMw := middleware.NewAuthMiddleware(app.sessionService)

	authHandler := api.NewAuthHandler(app.userService, app.sessionService, authMw, app.logger)
	subjectHandler := api.NewSubjectHandler(app.subjectStore, app.subjectService, app.logger)
	sessionHandler := api.NewSessionHandler(app.subjectStore, app.sessionStore, app.logger)
	dashboardHandler := api.NewDashboardHandler(app.dashboardService, app.logger)

	// Public pages
	r.Get("/", authHandler.Index)
	r.Get("/register", authHandler.RegisterForm)
	r.Post("/register", authHandler.Register)
	r.Get("/login", authHandler.LoginForm)
	r.Post("/login", authHandler.Login)
	r.Get("/logout", authHandler.Logout)

	// Authenticated pages
	r.Group(func(r chi.Router) {
		r.Use(authMw.RequireLogin)

		r.Get("/dashboard", dashboardHandler.Overview)

		r.Get("/sessions", sessionHandler.List)
		r.Get("/sessions/new", sessionHandler.CreateForm)
		r.Post("/sessions/new", sessionHandler.Create)
		r.Get("/sessions/{id}/edit", sessionHandler.EditForm)
		r.Post("/sessions/{id}/edit", sessionHandler.Edit)
		r.Post("/sessions/{id}/delete", sessionHandler.Delete)

		r.Get("/subjects", subjectHandler.List)
		r.Get("/subjects/new", subjectHandler.CreateForm)
		r.Post("/subjects/new", subjectHandler.Create)
		r.Get("/subjects/{id}", subjectHandler.Detail)
		r.Get("/subjects/{id}/edit", subjectHandler.EditForm)
		r.Post("/subjects/{id}/edit", subjectHandler.Edit)
		r.Post("/subjects/{id}/delete", subjectHandler.Delete)

		r.Post("/account/delete", authHandler.DeleteAccount)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
