package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/smazzone/studytrack/internal/api/middleware"
	"github.com/smazzone/studytrack/internal/api/shared"
	"github.com/smazzone/studytrack/internal/domain"
	"github.com/smazzone/studytrack/internal/platform/logger"
	"github.com/smazzone/studytrack/internal/service"
	"github.com/smazzone/studytrack/internal/service/auth"
	"github.com/smazzone/studytrack/internal/store"
)

// AuthHandler handles registration, login, logout and account deletion.
type AuthHandler struct {
	userService    *service.UserService
	sessionService auth.SessionService
	authMw         *middleware.AuthMiddleware
	logger         *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userService *service.UserService,
	sessionService auth.SessionService,
	authMw *middleware.AuthMiddleware,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		userService:    userService,
		sessionService: sessionService,
		authMw:         authMw,
		logger:         logger.With(slog.String("component", "auth_handler")),
	}
}

// Index handles GET /. It routes by auth state: dashboard for logged-in
// users, login page otherwise.
func (h *AuthHandler) Index(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.authMw.Resolve(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// RegisterForm handles GET /register.
// Already-authenticated users are sent to the dashboard.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.authMw.Resolve(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	shared.RespondWithView(w, r, http.StatusOK, AuthView{})
}

// Register handles POST /register.
// Validation aborts at the first failing rule; the form is re-rendered with
// that rule's message and the submitted username/email (never passwords).
// On success the user is logged in immediately and sent to the dashboard.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.authMw.Resolve(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	log := logger.FromContextOrDefault(r.Context(), h.logger)

	username := strings.TrimSpace(r.PostFormValue("username"))
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	confirmPassword := r.PostFormValue("confirm_password")

	fields := map[string]string{"username": username, "email": email}

	renderError := func(message string) {
		shared.RespondWithView(w, r, http.StatusOK, AuthView{
			Message:  message,
			Category: shared.FlashDanger,
			Fields:   fields,
		})
	}

	switch {
	case username == "" || email == "" || password == "":
		renderError("All fields are required.")
		return
	case utf8.RuneCountInString(username) < 3:
		renderError("Username must be at least 3 characters long.")
		return
	case len(password) < 6:
		renderError("Password must be at least 6 characters long.")
		return
	case password != confirmPassword:
		renderError("Passwords do not match.")
		return
	}

	user, err := h.userService.Register(r.Context(), username, email, password)
	if err != nil {
		switch {
		case store.IsDuplicateError(err):
			renderError("Username or email already registered.")
		case errors.Is(err, domain.ErrPasswordTooLong):
			renderError("Password must be at most 72 characters long.")
		default:
			log.Error("registration failed", slog.String("error", err.Error()))
			renderError("Registration failed. Please try again.")
		}
		return
	}

	h.establishSession(w, r, user.ID, user.Username)
	shared.Redirect(w, r, "/dashboard",
		"Registration complete! Welcome, "+user.Username+"!", shared.FlashSuccess)
}

// LoginForm handles GET /login.
// Already-authenticated users are sent to the dashboard.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.authMw.Resolve(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	shared.RespondWithView(w, r, http.StatusOK, AuthView{
		Next: sanitizeNext(r.URL.Query().Get("next")),
	})
}

// Login handles POST /login.
// A failed login re-displays the form (no redirect) with a message that
// never distinguishes an unknown username from a wrong password.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.authMw.Resolve(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	log := logger.FromContextOrDefault(r.Context(), h.logger)

	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	next := sanitizeNext(r.URL.Query().Get("next"))

	renderError := func(message string) {
		shared.RespondWithView(w, r, http.StatusOK, AuthView{
			Message:  message,
			Category: shared.FlashDanger,
			Fields:   map[string]string{"username": username},
			Next:     next,
		})
	}

	if username == "" || password == "" {
		renderError("Username and password are required.")
		return
	}

	user, err := h.userService.Authenticate(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			renderError("Invalid username or password.")
			return
		}
		log.Error("login failed", slog.String("error", err.Error()))
		renderError("Login failed. Please try again.")
		return
	}

	h.establishSession(w, r, user.ID, user.Username)

	target := next
	if target == "" {
		target = "/dashboard"
	}
	shared.Redirect(w, r, target, "Welcome, "+user.Username+"!", shared.FlashSuccess)
}

// Logout handles GET /logout. It clears the session cookie and redirects
// to the login page with a farewell notice.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	message := "Goodbye!"
	if user, ok := h.authMw.Resolve(r); ok {
		message = "Goodbye, " + user.Username + "!"
	}

	ClearSessionCookie(w)
	shared.Redirect(w, r, "/login", message, shared.FlashInfo)
}

// DeleteAccount handles POST /account/delete (auth required).
// The user's subjects and sessions go with the account, atomically.
func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	log := logger.FromContextOrDefault(r.Context(), h.logger)

	if err := h.userService.DeleteAccount(r.Context(), user.ID); err != nil {
		log.Error("account deletion failed",
			slog.String("error", err.Error()),
			slog.Int64("user_id", user.ID))
		shared.Redirect(w, r, "/dashboard",
			"Failed to delete the account. Please try again.", shared.FlashDanger)
		return
	}

	ClearSessionCookie(w)
	shared.Redirect(w, r, "/login", "Your account has been deleted.", shared.FlashInfo)
}

// establishSession issues a session token for the user and sets the cookie.
// Token signing can only fail on a broken signing setup; the request still
// completes, the user just is not logged in.
func (h *AuthHandler) establishSession(w http.ResponseWriter, r *http.Request, userID int64, username string) {
	token, err := h.sessionService.IssueToken(r.Context(), userID, username)
	if err != nil {
		h.logger.Error("failed to issue session token",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return
	}
	SetSessionCookie(w, token, h.sessionService.Lifetime())
}

// sanitizeNext keeps post-login redirects on-site: only rooted local paths
// survive, anything else (absolute URLs, protocol-relative //host) is
// dropped.
func sanitizeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return ""
	}
	return next
}
