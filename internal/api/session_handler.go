package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/smazzone/studytrack/internal/api/shared"
	"github.com/smazzone/studytrack/internal/domain"
	"github.com/smazzone/studytrack/internal/platform/logger"
	"github.com/smazzone/studytrack/internal/store"
)

// dateLayout is the wire format for session dates (YYYY-MM-DD).
const dateLayout = "2006-01-02"

// SessionHandler handles the study session pages: listing, create, edit,
// delete. All routes require authentication; the current user comes from
// the request context.
type SessionHandler struct {
	subjectStore store.SubjectStore
	sessionStore store.StudySessionStore
	logger       *slog.Logger
}

// NewSessionHandler creates a new SessionHandler with the given dependencies.
func NewSessionHandler(
	subjectStore store.SubjectStore,
	sessionStore store.StudySessionStore,
	logger *slog.Logger,
) *SessionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionHandler{
		subjectStore: subjectStore,
		sessionStore: sessionStore,
		logger:       logger.With(slog.String("component", "session_handler")),
	}
}

// List handles GET /sessions.
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	user, _ := shared.UserFromContext(r.Context())
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	sessions, err := h.sessionStore.FindAllByUser(r.Context(), user.ID, 0)
	if err != nil {
		log.Error("failed to list sessions", slog.String("error", err.Error()))
		shared.Redirect(w, r, "/dashboard",
			"Failed to load your sessions. Please try again.", shared.FlashDanger)
		return
	}

	subjects, err := h.subjectStore.FindAllByUser(r.Context(), user.ID)
	if err != nil {
		log.Error("failed to list subjects", slog.String("error", err.Error()))
		shared.Redirect(w, r, "/dashboard",
			"Failed to load your sessions. Please try again.", shared.FlashDanger)
		return
	}

	shared.RespondWithView(w, r, http.StatusOK, SessionListView{
		Sessions: sessions,
		Subjects: subjects,
	})
}

// CreateForm handles GET /sessions/new.
// A user with no subjects yet is sent to create one first.
func (h *SessionHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	user, _ := shared.UserFromContext(r.Context())

	subjects, ok := h.subjectChoices(w, r, user.ID)
	if !ok {
		return
	}

	shared.RespondWithView(w, r, http.StatusOK, FormView{
		Subjects: subjects,
		Today:    time.Now().UTC().Format(dateLayout),
	})
}

// Create handles POST /sessions/new.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := shared.UserFromContext(r.Context())
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	subjects, ok := h.subjectChoices(w, r, user.ID)
	if !ok {
		return
	}

	form, message := h.validateSessionForm(r, user.ID)
	if message != "" {
		h.renderSessionForm(w, r, subjects, message)
		return
	}

	session, err := domain.NewStudySession(
		user.ID, form.subjectID, form.topic, form.duration, form.date, form.notes)
	if err != nil {
		h.renderSessionForm(w, r, subjects, "Invalid session data. Check your input.")
		return
	}

	if err := h.sessionStore.Create(r.Context(), session); err != nil {
		log.Error("failed to create session", slog.String("error", err.Error()))
		h.renderSessionForm(w, r, subjects, "Failed to create the study session. Please try again.")
		return
	}

	shared.Redirect(w, r, "/sessions",
		"Study session created successfully!", shared.FlashSuccess)
}

// EditForm handles GET /sessions/{id}/edit.
func (h *SessionHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	user, _ := shared.UserFromContext(r.Context())

	session, ok := h.findSession(w, r, user.ID)
	if !ok {
		return
	}

	subjects, err := h.subjectStore.FindAllByUser(r.Context(), user.ID)
	if err != nil {
		shared.Redirect(w, r, "/sessions",
			"Failed to load the form. Please try again.", shared.FlashDanger)
		return
	}

	shared.RespondWithView(w, r, http.StatusOK, FormView{
		Fields: map[string]string{
			"topic":            session.Topic,
			"duration_minutes": strconv.Itoa(session.DurationMinutes),
			"subject_id":       strconv.FormatInt(session.SubjectID, 10),
			"date":             session.Date.Format(dateLayout),
			"notes":            session.Notes,
		},
		Subjects: subjects,
		Today:    time.Now().UTC().Format(dateLayout),
	})
}

// Edit handles POST /sessions/{id}/edit.
// All five mutable fields are replaced; clearing the notes field clears
// the stored notes.
func (h *SessionHandler) Edit(w http.ResponseWriter, r *http.Request) {
	user, _ := shared.UserFromContext(r.Context())
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	session, ok := h.findSession(w, r, user.ID)
	if !ok {
		return
	}

	subjects, err := h.subjectStore.FindAllByUser(r.Context(), user.ID)
	if err != nil {
		shared.Redirect(w, r, "/sessions",
			"Failed to load the form. Please try again.", shared.FlashDanger)
		return
	}

	form, message := h.validateSessionForm(r, user.ID)
	if message != "" {
		h.renderSessionForm(w, r, subjects, message)
		return
	}

	session.Topic = form.topic
	session.DurationMinutes = form.duration
	session.SubjectID = form.subjectID
	session.Date = domain.NormalizeDate(form.date)
	session.Notes = form.notes

	if err := h.sessionStore.Update(r.Context(), session); err != nil {
		log.Error("failed to update session",
			slog.String("error", err.Error()),
			slog.Int64("session_id", session.ID))
		h.renderSessionForm(w, r, subjects, "Failed to update the session. Please try again.")
		return
	}

	shared.Redirect(w, r, "/sessions",
		"Session updated successfully!", shared.FlashSuccess)
}

// Delete handles POST /sessions/{id}/delete.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := shared.UserFromContext(r.Context())
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	session, ok := h.findSession(w, r, user.ID)
	if !ok {
		return
	}

	if err := h.sessionStore.Delete(r.Context(), session.ID, user.ID); err != nil {
		if store.IsNotFoundError(err) {
			shared.Redirect(w, r, "/sessions", "Session not found.", shared.FlashDanger)
			return
		}
		log.Error("failed to delete session",
			slog.String("error", err.Error()),
			slog.Int64("session_id", session.ID))
		shared.Redirect(w, r, "/sessions",
			"Failed to delete the session. Please try again.", shared.FlashDanger)
		return
	}

	shared.Redirect(w, r, "/sessions",
		"Session deleted successfully.", shared.FlashSuccess)
}

// sessionForm carries the validated values of a session form submission.
type sessionForm struct {
	topic     string
	duration  int
	subjectID int64
	date      time.Time
	notes     string
}

// validateSessionForm runs the form's validation rules in order, stopping
// at the first failure. A non-empty message means the form must be
// re-rendered with it. The subject check resolves the submitted ID through
// an owner-scoped lookup, so another user's subject ID fails here, before
// anything is persisted.
func (h *SessionHandler) validateSessionForm(r *http.Request, userID int64) (sessionForm, string) {
	topic := strings.TrimSpace(r.PostFormValue("topic"))
	durationStr := r.PostFormValue("duration_minutes")
	subjectIDStr := r.PostFormValue("subject_id")
	dateStr := r.PostFormValue("date")
	notes := strings.TrimSpace(r.PostFormValue("notes"))

	if topic == "" || durationStr == "" || subjectIDStr == "" || dateStr == "" {
		return sessionForm{}, "Please fill in all required fields."
	}

	duration, err := strconv.Atoi(durationStr)
	if err != nil {
		return sessionForm{}, "Invalid format. Check duration and subject."
	}
	subjectID, err := strconv.ParseInt(subjectIDStr, 10, 64)
	if err != nil {
		return sessionForm{}, "Invalid format. Check duration and subject."
	}

	if duration <= 0 {
		return sessionForm{}, "Duration must be greater than 0 minutes."
	}

	if _, err := h.subjectStore.FindByID(r.Context(), subjectID, userID); err != nil {
		return sessionForm{}, "Invalid subject."
	}

	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return sessionForm{}, "Invalid date."
	}

	return sessionForm{
		topic:     topic,
		duration:  duration,
		subjectID: subjectID,
		date:      date,
		notes:     notes,
	}, ""
}

// renderSessionForm re-renders the session form with a validation message
// and the submitted values.
func (h *SessionHandler) renderSessionForm(w http.ResponseWriter, r *http.Request, subjects []*domain.Subject, message string) {
	shared.RespondWithView(w, r, http.StatusOK, FormView{
		Message:  message,
		Category: shared.FlashDanger,
		Fields: map[string]string{
			"topic":            r.PostFormValue("topic"),
			"duration_minutes": r.PostFormValue("duration_minutes"),
			"subject_id":       r.PostFormValue("subject_id"),
			"date":             r.PostFormValue("date"),
			"notes":            r.PostFormValue("notes"),
		},
		Subjects: subjects,
		Today:    time.Now().UTC().Format(dateLayout),
	})
}

// subjectChoices loads the user's subjects for the form dropdown. When the
// user has none yet, it redirects to the subject form (a session cannot
// exist without a subject) and reports false.
func (h *SessionHandler) subjectChoices(w http.ResponseWriter, r *http.Request, userID int64) ([]*domain.Subject, bool) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	subjects, err := h.subjectStore.FindAllByUser(r.Context(), userID)
	if err != nil {
		log.Error("failed to load subjects", slog.String("error", err.Error()))
		shared.Redirect(w, r, "/sessions",
			"Failed to load the form. Please try again.", shared.FlashDanger)
		return nil, false
	}

	if len(subjects) == 0 {
		shared.Redirect(w, r, "/subjects/new",
			"Create a subject first!", shared.FlashWarning)
		return nil, false
	}

	return subjects, true
}

// findSession resolves the {id} URL parameter to one of the user's own
// sessions. Both a malformed ID and someone else's session produce the
// same "not found" redirect.
func (h *SessionHandler) findSession(w http.ResponseWriter, r *http.Request, userID int64) (*domain.StudySession, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.Redirect(w, r, "/sessions", "Session not found.", shared.FlashDanger)
		return nil, false
	}

	session, err := h.sessionStore.FindByID(r.Context(), id, userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			shared.Redirect(w, r, "/sessions", "Session not found.", shared.FlashDanger)
			return nil, false
		}
		logger.FromContextOrDefault(r.Context(), h.logger).Error(
			"failed to load session",
			slog.String("error", err.Error()),
			slog.Int64("session_id", id))
		shared.Redirect(w, r, "/sessions",
			"Failed to load the session. Please try again.", shared.FlashDanger)
		return nil, false
	}

	return session, true
}
