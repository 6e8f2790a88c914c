package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/smazzone/studytrack/internal/domain"
	"github.com/smazzone/studytrack/internal/platform/logger"
	"github.com/smazzone/studytrack/internal/store"
)

// SubjectDetail is a subject together with its sessions and the totals
// computed over them, as shown on the subject detail page.
type SubjectDetail struct {
	Subject      *domain.Subject        `json:"subject"`
	Sessions     []*domain.StudySession `json:"sessions"`
	TotalHours   float64                `json:"total_hours"`
	SessionCount int                    `json:"session_count"`
}

// SubjectService implements the compound subject operations: the
// transactional delete cascade and detail-view assembly. Plain CRUD goes
// straight from the handlers to the store.
type SubjectService struct {
	txRunner     store.TxRunner
	subjectStore store.SubjectStore
	sessionStore store.StudySessionStore
	logger       *slog.Logger
}

// NewSubjectService creates a new SubjectService with the given dependencies.
func NewSubjectService(
	txRunner store.TxRunner,
	subjectStore store.SubjectStore,
	sessionStore store.StudySessionStore,
	logger *slog.Logger,
) *SubjectService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SubjectService{
		txRunner:     txRunner,
		subjectStore: subjectStore,
		sessionStore: sessionStore,
		logger:       logger.With(slog.String("component", "subject_service")),
	}
}

// DeleteSubject removes a subject and all of its study sessions in one
// transaction: sessions first, then the subject row. Returns
// store.ErrSubjectNotFound when the subject does not exist under this owner.
func (s *SubjectService) DeleteSubject(ctx context.Context, subjectID, userID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		removed, err := s.sessionStore.WithTx(tx).DeleteBySubject(ctx, subjectID, userID)
		if err != nil {
			return err
		}
		if err := s.subjectStore.WithTx(tx).Delete(ctx, subjectID, userID); err != nil {
			return err
		}

		log.Info("subject deleted with its sessions",
			slog.Int64("subject_id", subjectID),
			slog.Int64("user_id", userID),
			slog.Int64("sessions_removed", removed))
		return nil
	})
	if err != nil && !store.IsNotFoundError(err) {
		log.Error("failed to delete subject",
			slog.String("error", err.Error()),
			slog.Int64("subject_id", subjectID))
	}
	return err
}

// Detail assembles the detail view for one subject: the subject itself, its
// sessions sorted by date descending, and the hour/session totals computed
// over the fetched rows. Returns store.ErrSubjectNotFound when the subject
// does not resolve under this owner.
func (s *SubjectService) Detail(ctx context.Context, subjectID, userID int64) (*SubjectDetail, error) {
	subject, err := s.subjectStore.FindByID(ctx, subjectID, userID)
	if err != nil {
		return nil, err
	}

	sessions, err := s.sessionStore.FindBySubject(ctx, subjectID, userID)
	if err != nil {
		return nil, err
	}

	totalMinutes := 0
	for _, session := range sessions {
		totalMinutes += session.DurationMinutes
	}

	return &SubjectDetail{
		Subject:      subject,
		Sessions:     sessions,
		TotalHours:   domain.RoundHours(totalMinutes),
		SessionCount: len(sessions),
	}, nil
}
