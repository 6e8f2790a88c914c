package api

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/smazzone/studytrack/internal/api/middleware"
	"github.com/smazzone/studytrack/internal/api/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newAuthTestRouter wires the auth handler onto its public routes with
// real session middleware, backed by mock stores.
func newAuthTestRouter(t *testing.T, stores testStores) http.Handler {
	t.Helper()

	sessionService := newTestSessionService(t)
	authMw := middleware.NewAuthMiddleware(sessionService)
	handler := NewAuthHandler(newTestUserService(stores), sessionService, authMw, nil)

	r := chi.NewRouter()
	r.Get("/", handler.Index)
	r.Get("/register", handler.RegisterForm)
	r.Post("/register", handler.Register)
	r.Get("/login", handler.LoginForm)
	r.Post("/login", handler.Login)
	r.Get("/logout", handler.Logout)
	return r
}

func registerForm(username, email, password, confirm string) url.Values {
	return url.Values{
		"username":         {username},
		"email":            {email},
		"password":         {password},
		"confirm_password": {confirm},
	}
}

func TestRegister_Success(t *testing.T) {
	t.Parallel()

	stores := newTestStores()
	router := newAuthTestRouter(t, stores)

	rec := postForm(t, router, "/register", registerForm("alice", "alice@example.com", "secret123", "secret123"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	// The new user is logged in immediately.
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)

	flash := flashFromResponse(t, rec)
	require.NotNil(t, flash)
	assert.Equal(t, "Registration complete! Welcome, alice!", flash.Message)
	assert.Equal(t, shared.FlashSuccess, flash.Category)

	assert.Len(t, stores.users.Users, 1)
}

func TestRegister_EmailShapeNotChecked(t *testing.T) {
	t.Parallel()

	stores := newTestStores()
	router := newAuthTestRouter(t, stores)

	rec := postForm(t, router, "/register", registerForm("alice", "not-an-email", "secret123", "secret123"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	assert.Len(t, stores.users.Users, 1)
}

func TestRegister_ValidationMessages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		form    url.Values
		message string
	}{
		{
			name:    "missing fields",
			form:    registerForm("", "alice@example.com", "secret123", "secret123"),
			message: "All fields are required.",
		},
		{
			name:    "short username",
			form:    registerForm("al", "alice@example.com", "secret123", "secret123"),
			message: "Username must be at least 3 characters long.",
		},
		{
			name:    "short password",
			form:    registerForm("alice", "alice@example.com", "12345", "12345"),
			message: "Password must be at least 6 characters long.",
		},
		{
			name:    "password mismatch",
			form:    registerForm("alice", "alice@example.com", "secret123", "different"),
			message: "Passwords do not match.",
		},
		{
			name:    "multibyte username counted in runes",
			form:    registerForm("ñá", "alice@example.com", "secret123", "secret123"),
			message: "Username must be at least 3 characters long.",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			router := newAuthTestRouter(t, newTestStores())

			rec := postForm(t, router, "/register", tc.form)

			// Validation failures re-render the form, no redirect.
			require.Equal(t, http.StatusOK, rec.Code)
			var view AuthView
			decodeView(t, rec, &view)
			assert.Equal(t, tc.message, view.Message)
			assert.Equal(t, shared.FlashDanger, view.Category)
			assert.Nil(t, sessionCookie(rec))
		})
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	t.Parallel()

	stores := newTestStores()
	router := newAuthTestRouter(t, stores)

	rec := postForm(t, router, "/register", registerForm("alice", "alice@example.com", "secret123", "secret123"))
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = postForm(t, router, "/register", registerForm("alice", "other@example.com", "secret123", "secret123"))
	require.Equal(t, http.StatusOK, rec.Code)

	var view AuthView
	decodeView(t, rec, &view)
	assert.Equal(t, "Username or email already registered.", view.Message)
	// The submitted values survive the re-render, passwords never do.
	assert.Equal(t, "alice", view.Fields["username"])
	assert.NotContains(t, view.Fields, "password")
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	stores := newTestStores()
	router := newAuthTestRouter(t, stores)
	postForm(t, router, "/register", registerForm("alice", "alice@example.com", "secret123", "secret123"))

	rec := postForm(t, router, "/login", url.Values{
		"username": {"alice"},
		"password": {"secret123"},
	})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	require.NotNil(t, sessionCookie(rec))

	flash := flashFromResponse(t, rec)
	require.NotNil(t, flash)
	assert.Equal(t, "Welcome, alice!", flash.Message)
}

func TestLogin_HonorsNextParameter(t *testing.T) {
	t.Parallel()

	stores := newTestStores()
	router := newAuthTestRouter(t, stores)
	postForm(t, router, "/register", registerForm("alice", "alice@example.com", "secret123", "secret123"))

	rec := postForm(t, router, "/login?next=%2Fsessions%2Fnew", url.Values{
		"username": {"alice"},
		"password": {"secret123"},
	})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/sessions/new", rec.Header().Get("Location"))
}

func TestLogin_RejectsOffsiteNext(t *testing.T) {
	t.Parallel()

	stores := newTestStores()
	router := newAuthTestRouter(t, stores)
	postForm(t, router, "/register", registerForm("alice", "alice@example.com", "secret123", "secret123"))

	for _, next := range []string{"https://evil.example", "//evil.example"} {
		rec := postForm(t, router, "/login?next="+url.QueryEscape(next), url.Values{
			"username": {"alice"},
			"password": {"secret123"},
		})
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/dashboard", rec.Header().Get("Location"), "next=%s", next)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	t.Parallel()

	stores := newTestStores()
	router := newAuthTestRouter(t, stores)
	postForm(t, router, "/register", registerForm("alice", "alice@example.com", "secret123", "secret123"))

	tests := []struct {
		name     string
		username string
		password string
		message  string
	}{
		{"wrong password", "alice", "wrongpass", "Invalid username or password."},
		{"unknown username", "nobody", "secret123", "Invalid username or password."},
		{"missing password", "alice", "", "Username and password are required."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := postForm(t, router, "/login", url.Values{
				"username": {tc.username},
				"password": {tc.password},
			})

			require.Equal(t, http.StatusOK, rec.Code)
			var view AuthView
			decodeView(t, rec, &view)
			assert.Equal(t, tc.message, view.Message)
			assert.Nil(t, sessionCookie(rec))
		})
	}
}

func TestIndex_RoutesByAuthState(t *testing.T) {
	t.Parallel()

	stores := newTestStores()
	router := newAuthTestRouter(t, stores)

	// Anonymous goes to the login page.
	rec := get(t, router, "/")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	// Logged in goes to the dashboard.
	reg := postForm(t, router, "/register", registerForm("alice", "alice@example.com", "secret123", "secret123"))
	cookie := sessionCookie(reg)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
}

func TestLoginForm_RedirectsAuthenticated(t *testing.T) {
	t.Parallel()

	stores := newTestStores()
	router := newAuthTestRouter(t, stores)
	reg := postForm(t, router, "/register", registerForm("alice", "alice@example.com", "secret123", "secret123"))
	cookie := sessionCookie(reg)
	require.NotNil(t, cookie)

	for _, path := range []string{"/login", "/register"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusSeeOther, rec.Code, "path=%s", path)
		assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	}
}

func TestLogout(t *testing.T) {
	t.Parallel()

	stores := newTestStores()
	router := newAuthTestRouter(t, stores)
	reg := postForm(t, router, "/register", registerForm("alice", "alice@example.com", "secret123", "secret123"))
	cookie := sessionCookie(reg)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	cleared := sessionCookie(rec)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)

	flash := flashFromResponse(t, rec)
	require.NotNil(t, flash)
	assert.Equal(t, "Goodbye, alice!", flash.Message)
	assert.Equal(t, shared.FlashInfo, flash.Category)
}

func TestLogout_Anonymous(t *testing.T) {
	t.Parallel()

	router := newAuthTestRouter(t, newTestStores())

	rec := get(t, router, "/logout")
	require.Equal(t, http.StatusSeeOther, rec.Code)

	flash := flashFromResponse(t, rec)
	require.NotNil(t, flash)
	assert.Equal(t, "Goodbye!", flash.Message)
}

func TestRegisterForm_RendersFreshForm(t *testing.T) {
	t.Parallel()

	router := newAuthTestRouter(t, newTestStores())

	rec := get(t, router, "/register")
	require.Equal(t, http.StatusOK, rec.Code)

	var view AuthView
	flash := decodeView(t, rec, &view)
	assert.Empty(t, view.Message)
	assert.Nil(t, flash)
}
