package middleware

import (
	"net/http"
	"net/url"

	"github.com/smazzone/studytrack/internal/api/shared"
	"github.com/smazzone/studytrack/internal/service/auth"
)

// SessionCookieName mirrors api.SessionCookieName; the middleware package
// cannot import api without a cycle.
const SessionCookieName = "studytrack_session"

// AuthMiddleware resolves the session cookie into an authenticated identity.
type AuthMiddleware struct {
	sessionService auth.SessionService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(sessionService auth.SessionService) *AuthMiddleware {
	return &AuthMiddleware{
		sessionService: sessionService,
	}
}

// RequireLogin is the route guard for authenticated pages. An anonymous
// request (no cookie, invalid token, expired session) is redirected to the
// login page with an informational notice; the originally requested path is
// preserved in the `next` parameter so the user returns there after login.
// Authenticated requests continue with the user identity in the context.
func (m *AuthMiddleware) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := m.Resolve(r)
		if !ok {
			shared.SetFlash(w, "You must log in to access this page.", shared.FlashWarning)
			target := "/login?next=" + url.QueryEscape(r.URL.Path)
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}

		ctx := shared.WithCurrentUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Resolve validates the request's session cookie and returns the identity
// it carries. The second return value is false for anonymous requests.
// Exposed so public pages (login, register, index) can branch on auth state
// without enforcing it.
func (m *AuthMiddleware) Resolve(r *http.Request) (shared.CurrentUser, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return shared.CurrentUser{}, false
	}

	claims, err := m.sessionService.ValidateToken(r.Context(), cookie.Value)
	if err != nil {
		return shared.CurrentUser{}, false
	}

	return shared.CurrentUser{ID: claims.UserID, Username: claims.Username}, true
}
