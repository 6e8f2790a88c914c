package shared

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

// FlashCookieName is the cookie carrying the one-shot flash message.
const FlashCookieName = "studytrack_flash"

// Flash message categories, mirrored by the template layer's styling.
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
	FlashWarning = "warning"
	FlashInfo    = "info"
)

// Flash is a one-shot notice describing the outcome of the action that
// preceded the current request. It is attached to the next rendered
// response and cleared on read.
type Flash struct {
	Message  string `json:"message"`
	Category string `json:"category"`
}

// SetFlash attaches a flash message to the response via a short-lived
// cookie. The next view-producing request pops it.
func SetFlash(w http.ResponseWriter, message, category string) {
	payload, err := json.Marshal(Flash{Message: message, Category: category})
	if err != nil {
		return // a flash is best-effort; never fail the response over it
	}

	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    base64.URLEncoding.EncodeToString(payload),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash reads and clears the pending flash message, if any.
// A cookie that fails to decode is discarded silently.
func PopFlash(w http.ResponseWriter, r *http.Request) *Flash {
	cookie, err := r.Cookie(FlashCookieName)
	if err != nil {
		return nil
	}

	// Clear regardless of whether the payload decodes.
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	payload, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}

	var flash Flash
	if err := json.Unmarshal(payload, &flash); err != nil {
		return nil
	}
	return &flash
}
