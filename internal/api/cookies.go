package api

import (
	"net/http"
	"time"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "studytrack_session"

// SetSessionCookie attaches the signed session token to the response.
// The cookie is HttpOnly (no script access) and SameSite=Lax (no cross-site
// sending on unsafe methods); its max-age matches the token's own expiry,
// fixed from the login that issued it.
func SetSessionCookie(w http.ResponseWriter, token string, lifetime time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(lifetime.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie removes the session cookie, logging the client out.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
