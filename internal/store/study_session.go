package store

import (
	"context"
	"database/sql"

	"github.com/smazzone/studytrack/internal/domain"
)

// SubjectHours summarizes the sessions logged against one subject.
type SubjectHours struct {
	SubjectName  string  `json:"subject_name"`
	SubjectColor string  `json:"subject_color"`
	TotalHours   float64 `json:"total_hours"`
	TotalMinutes int     `json:"total_minutes"`
	SessionCount int     `json:"session_count"`
}

// MonthHours is the total studied in one calendar month of a year.
// Only months with at least one session are produced by the store;
// zero-filling the remaining months is the caller's concern.
type MonthHours struct {
	Month      int     `json:"month"` // 1-12
	TotalHours float64 `json:"total_hours"`
}

// StudySessionStore defines the interface for study session persistence and
// the aggregate queries backing the dashboard. Every operation is scoped to
// the owning user inside the query itself.
type StudySessionStore interface {
	// Create saves a new study session and fills in the assigned ID.
	//
	// Create does not re-validate that the session's subject belongs to its
	// user; handlers verify subject ownership before calling it, matching
	// the behavior of the system this was rebuilt from. Callers other than
	// the form handlers must perform the same check.
	Create(ctx context.Context, session *domain.StudySession) error

	// FindAllByUser returns the user's sessions sorted by date descending,
	// then created_at descending. A limit of 0 returns all rows; a positive
	// limit caps the result to the most recent rows.
	FindAllByUser(ctx context.Context, userID int64, limit int) ([]*domain.StudySession, error)

	// FindByID retrieves a session by ID, scoped to the owning user.
	// Returns ErrStudySessionNotFound when the session does not exist or
	// belongs to a different user.
	FindByID(ctx context.Context, id, userID int64) (*domain.StudySession, error)

	// FindBySubject returns the user's sessions for one subject,
	// sorted by date descending.
	FindBySubject(ctx context.Context, subjectID, userID int64) ([]*domain.StudySession, error)

	// Update replaces all five mutable fields (topic, duration, subject,
	// date, notes). An empty notes value clears the stored notes.
	// Returns ErrStudySessionNotFound if the row no longer exists under
	// the session's owner.
	Update(ctx context.Context, session *domain.StudySession) error

	// Delete removes a session.
	// Returns ErrStudySessionNotFound if nothing was deleted.
	Delete(ctx context.Context, id, userID int64) error

	// DeleteBySubject removes all of the user's sessions for one subject
	// and returns the number of rows removed. Used by the subject cascade.
	DeleteBySubject(ctx context.Context, subjectID, userID int64) (int64, error)

	// DeleteByUser removes all of the user's sessions and returns the
	// number of rows removed. Used by the account cascade.
	DeleteByUser(ctx context.Context, userID int64) (int64, error)

	// CountByUser returns the user's total number of sessions.
	CountByUser(ctx context.Context, userID int64) (int, error)

	// TotalHoursByUser returns the sum of all the user's session durations
	// in hours, rounded to 2 decimals. Returns 0 for a user with no
	// sessions.
	TotalHoursByUser(ctx context.Context, userID int64) (float64, error)

	// TotalHoursBySubject groups the user's sessions by subject, summing
	// minutes and counting rows, sorted by total minutes descending.
	TotalHoursBySubject(ctx context.Context, userID int64) ([]*SubjectHours, error)

	// StudyTrendByMonth groups the user's sessions falling in the given
	// year by calendar month. Months without sessions are absent from the
	// result.
	StudyTrendByMonth(ctx context.Context, userID int64, year int) ([]*MonthHours, error)

	// RecentSessions returns sessions dated within the last `days` days
	// (inclusive), sorted by date descending.
	RecentSessions(ctx context.Context, userID int64, days int) ([]*domain.StudySession, error)

	// WithTx returns a new StudySessionStore instance that uses the
	// provided transaction. The transaction is created and managed by the
	// caller.
	WithTx(tx *sql.Tx) StudySessionStore
}
