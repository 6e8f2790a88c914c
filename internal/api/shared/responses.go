package shared

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse defines the standard error response structure for requests
// that cannot be expressed as a view or redirect (bad routes, auth APIs).
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// View is the envelope for all rendered view data. The template layer is an
// external collaborator; it receives the pending flash (if any) together
// with the page's data.
type View struct {
	Flash *Flash `json:"flash,omitempty"`
	Data  any    `json:"data"`
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithView writes view data wrapped in the View envelope, consuming
// the pending flash message so it renders exactly once.
func RespondWithView(w http.ResponseWriter, r *http.Request, status int, data any) {
	flash := PopFlash(w, r)
	RespondWithJSON(w, r, status, View{Flash: flash, Data: data})
}

// RespondWithError writes a JSON error response with the given status code
// and message. It also sets the TraceID from the request context if
// available. The message must already be safe for users; raw error detail
// stays in the logs.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	traceID := GetTraceID(r.Context())

	slog.Debug("sending error response",
		"status_code", status,
		"message", message,
		"trace_id", traceID,
		"path", r.URL.Path,
		"method", r.Method)

	RespondWithJSON(w, r, status, ErrorResponse{
		Error:   message,
		TraceID: traceID,
	})
}

// Redirect sends a 303 See Other to the given path with a flash message
// attached for the next view. POST handlers always redirect on success so a
// reload never replays the mutation.
func Redirect(w http.ResponseWriter, r *http.Request, path, message, category string) {
	if message != "" {
		SetFlash(w, message, category)
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}
