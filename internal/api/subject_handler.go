package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/smazzone/studytrack/internal/api/shared"
	"github.com/smazzone/studytrack/internal/domain"
	"github.com/smazzone/studytrack/internal/platform/logger"
	"github.com/smazzone/studytrack/internal/service"
	"github.com/smazzone/studytrack/internal/store"
)

// SubjectHandler handles the subject pages: listing, create, edit, detail
// and delete. Plain CRUD goes straight to the store; the delete cascade and
// detail assembly go through SubjectService.
type SubjectHandler struct {
	subjectStore   store.SubjectStore
	subjectService *service.SubjectService
	logger         *slog.Logger
}

// NewSubjectHandler creates a new SubjectHandler with the given dependencies.
func NewSubjectHandler(
	subjectStore store.SubjectStore,
	subjectService *service.SubjectService,
	logger *slog.Logger,
) *SubjectHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SubjectHandler{
		subjectStore:   subjectStore,
		subjectService: subjectService,
		logger:         logger.With(slog.String("component", "subject_handler")),
	}
}

// List handles GET /subjects.
func (h *SubjectHandler) List(w http.ResponseWriter, r *http.Request) {
	user, _ := shared.UserFromContext(r.Context())
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	subjects, err := h.subjectStore.FindAllByUser(r.Context(), user.ID)
	if err != nil {
		log.Error("failed to list subjects", slog.String("error", err.Error()))
		shared.Redirect(w, r, "/dashboard",
			"Failed to load your subjects. Please try again.", shared.FlashDanger)
		return
	}

	shared.RespondWithView(w, r, http.StatusOK, SubjectListView{Subjects: subjects})
}

// CreateForm handles GET /subjects/new.
func (h *SubjectHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithView(w, r, http.StatusOK, FormView{
		Fields: map[string]string{"color": domain.DefaultSubjectColor},
	})
}

// Create handles POST /subjects/new.
func (h *SubjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := shared.UserFromContext(r.Context())
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	subject, err := domain.NewSubject(
		user.ID,
		r.PostFormValue("name"),
		r.PostFormValue("description"),
		r.PostFormValue("color"),
	)
	if err != nil {
		h.renderSubjectForm(w, r, subjectFormMessage(err))
		return
	}

	if err := h.subjectStore.Create(r.Context(), subject); err != nil {
		log.Error("failed to create subject", slog.String("error", err.Error()))
		h.renderSubjectForm(w, r, "Failed to create the subject. Please try again.")
		return
	}

	shared.Redirect(w, r, "/subjects",
		"Subject created successfully!", shared.FlashSuccess)
}

// EditForm handles GET /subjects/{id}/edit.
func (h *SubjectHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	user, _ := shared.UserFromContext(r.Context())

	subject, ok := h.findSubject(w, r, user.ID)
	if !ok {
		return
	}

	shared.RespondWithView(w, r, http.StatusOK, FormView{
		Fields: map[string]string{
			"name":        subject.Name,
			"description": subject.Description,
			"color":       subject.Color,
		},
	})
}

// Edit handles POST /subjects/{id}/edit.
// The name is mandatory; an empty description or color keeps the stored
// value instead of clearing it.
func (h *SubjectHandler) Edit(w http.ResponseWriter, r *http.Request) {
	user, _ := shared.UserFromContext(r.Context())
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	subject, ok := h.findSubject(w, r, user.ID)
	if !ok {
		return
	}

	updated := *subject
	updated.Name = strings.TrimSpace(r.PostFormValue("name"))
	if description := strings.TrimSpace(r.PostFormValue("description")); description != "" {
		updated.Description = description
	}
	if color := r.PostFormValue("color"); color != "" {
		updated.Color = color
	}

	if err := updated.Validate(); err != nil {
		h.renderSubjectForm(w, r, subjectFormMessage(err))
		return
	}

	if err := h.subjectStore.Update(r.Context(), &updated); err != nil {
		if store.IsNotFoundError(err) {
			shared.Redirect(w, r, "/subjects", "Subject not found.", shared.FlashDanger)
			return
		}
		log.Error("failed to update subject",
			slog.String("error", err.Error()),
			slog.Int64("subject_id", subject.ID))
		h.renderSubjectForm(w, r, "Failed to update the subject. Please try again.")
		return
	}

	shared.Redirect(w, r, "/subjects",
		"Subject updated successfully!", shared.FlashSuccess)
}

// Detail handles GET /subjects/{id}.
func (h *SubjectHandler) Detail(w http.ResponseWriter, r *http.Request) {
	user, _ := shared.UserFromContext(r.Context())
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.Redirect(w, r, "/subjects", "Subject not found.", shared.FlashDanger)
		return
	}

	detail, err := h.subjectService.Detail(r.Context(), id, user.ID)
	if err != nil {
		if store.IsNotFoundError(err) {
			shared.Redirect(w, r, "/subjects", "Subject not found.", shared.FlashDanger)
			return
		}
		log.Error("failed to load subject detail",
			slog.String("error", err.Error()),
			slog.Int64("subject_id", id))
		shared.Redirect(w, r, "/subjects",
			"Failed to load the subject. Please try again.", shared.FlashDanger)
		return
	}

	shared.RespondWithView(w, r, http.StatusOK, detail)
}

// Delete handles POST /subjects/{id}/delete. The subject's sessions go
// with it.
func (h *SubjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := shared.UserFromContext(r.Context())
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.Redirect(w, r, "/subjects", "Subject not found.", shared.FlashDanger)
		return
	}

	if err := h.subjectService.DeleteSubject(r.Context(), id, user.ID); err != nil {
		if store.IsNotFoundError(err) {
			shared.Redirect(w, r, "/subjects", "Subject not found.", shared.FlashDanger)
			return
		}
		log.Error("failed to delete subject",
			slog.String("error", err.Error()),
			slog.Int64("subject_id", id))
		shared.Redirect(w, r, "/subjects",
			"Failed to delete the subject. Please try again.", shared.FlashDanger)
		return
	}

	shared.Redirect(w, r, "/subjects",
		"Subject and its sessions deleted.", shared.FlashSuccess)
}

// subjectFormMessage maps a subject validation failure to its user-facing
// form message.
func subjectFormMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidColorFormat) {
		return "Color must be a hex value like #3498db."
	}
	return "Subject name is required."
}

// renderSubjectForm re-renders the subject form with a validation message
// and the submitted values.
func (h *SubjectHandler) renderSubjectForm(w http.ResponseWriter, r *http.Request, message string) {
	shared.RespondWithView(w, r, http.StatusOK, FormView{
		Message:  message,
		Category: shared.FlashDanger,
		Fields: map[string]string{
			"name":        r.PostFormValue("name"),
			"description": r.PostFormValue("description"),
			"color":       r.PostFormValue("color"),
		},
	})
}

// findSubject resolves the {id} URL parameter to one of the user's own
// subjects. Malformed IDs and other users' subjects both read as not found.
func (h *SubjectHandler) findSubject(w http.ResponseWriter, r *http.Request, userID int64) (*domain.Subject, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.Redirect(w, r, "/subjects", "Subject not found.", shared.FlashDanger)
		return nil, false
	}

	subject, err := h.subjectStore.FindByID(r.Context(), id, userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			shared.Redirect(w, r, "/subjects", "Subject not found.", shared.FlashDanger)
			return nil, false
		}
		logger.FromContextOrDefault(r.Context(), h.logger).Error(
			"failed to load subject",
			slog.String("error", err.Error()),
			slog.Int64("subject_id", id))
		shared.Redirect(w, r, "/subjects",
			"Failed to load the subject. Please try again.", shared.FlashDanger)
		return nil, false
	}

	return subject, true
}
