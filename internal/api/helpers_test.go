package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/smazzone/studytrack/internal/api/shared"
	"github.com/smazzone/studytrack/internal/config"
	"github.com/smazzone/studytrack/internal/mocks"
	"github.com/smazzone/studytrack/internal/service"
	"github.com/smazzone/studytrack/internal/service/auth"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSessionSecret = "handler-test-secret-that-is-32-chars"

// testStores bundles the mock stores a handler test wires together.
type testStores struct {
	users    *mocks.MockUserStore
	subjects *mocks.MockSubjectStore
	sessions *mocks.MockStudySessionStore
}

func newTestStores() testStores {
	return testStores{
		users:    mocks.NewMockUserStore(),
		subjects: mocks.NewMockSubjectStore(),
		sessions: mocks.NewMockStudySessionStore(),
	}
}

func newTestSessionService(t *testing.T) auth.SessionService {
	t.Helper()
	svc, err := auth.NewSessionService(config.AuthConfig{
		SessionSecret:          testSessionSecret,
		SessionLifetimeMinutes: 60,
	})
	require.NoError(t, err)
	return svc
}

func newTestUserService(stores testStores) *service.UserService {
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	return service.NewUserService(
		&mocks.MockTxRunner{}, stores.users, stores.subjects, stores.sessions, hasher, hasher, nil)
}

// withUser injects an authenticated identity, standing in for RequireLogin.
func withUser(user shared.CurrentUser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(shared.WithCurrentUser(r.Context(), user)))
		})
	}
}

// newAuthedRouter builds a chi router whose routes all see the given user
// as logged in.
func newAuthedRouter(user shared.CurrentUser, register func(r chi.Router)) http.Handler {
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(withUser(user))
		register(r)
	})
	return r
}

func postForm(t *testing.T, handler http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(rec *httptest.ResponseRecorder, out any) error {
	return json.Unmarshal(rec.Body.Bytes(), out)
}

// decodeView unmarshals a view response's data payload into out.
func decodeView(t *testing.T, rec *httptest.ResponseRecorder, out any) *shared.Flash {
	t.Helper()
	var envelope struct {
		Flash *shared.Flash   `json:"flash"`
		Data  json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	if out != nil {
		require.NoError(t, json.Unmarshal(envelope.Data, out))
	}
	return envelope.Flash
}

// flashFromResponse decodes the flash cookie a redirect left behind.
func flashFromResponse(t *testing.T, rec *httptest.ResponseRecorder) *shared.Flash {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == shared.FlashCookieName && cookie.Value != "" {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(cookie)
			return shared.PopFlash(httptest.NewRecorder(), req)
		}
	}
	return nil
}

// sessionCookie extracts the session cookie set on a response, or nil.
func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == SessionCookieName {
			return cookie
		}
	}
	return nil
}
