package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/smazzone/studytrack/internal/domain"
	"github.com/smazzone/studytrack/internal/platform/logger"
	"github.com/smazzone/studytrack/internal/store"
)

// PostgresStudySessionStore implements the store.StudySessionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresStudySessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStudySessionStore creates a new PostgreSQL implementation of
// the StudySessionStore interface. It accepts a database connection or
// transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresStudySessionStore(db store.DBTX, logger *slog.Logger) *PostgresStudySessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresStudySessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "study_session_store")),
	}
}

// Ensure PostgresStudySessionStore implements store.StudySessionStore interface
var _ store.StudySessionStore = (*PostgresStudySessionStore)(nil)

// WithTx implements store.StudySessionStore.WithTx
func (s *PostgresStudySessionStore) WithTx(tx *sql.Tx) store.StudySessionStore {
	return &PostgresStudySessionStore{db: tx, logger: s.logger}
}

const sessionColumns = `id, topic, duration_minutes, COALESCE(notes, ''), date, created_at, user_id, subject_id`

func scanSession(row interface{ Scan(...any) error }) (*domain.StudySession, error) {
	var session domain.StudySession
	err := row.Scan(
		&session.ID,
		&session.Topic,
		&session.DurationMinutes,
		&session.Notes,
		&session.Date,
		&session.CreatedAt,
		&session.UserID,
		&session.SubjectID,
	)
	if err != nil {
		return nil, err
	}
	session.Date = domain.NormalizeDate(session.Date)
	return &session, nil
}

// Create implements store.StudySessionStore.Create
//
// Subject ownership is not re-validated here; the form handlers resolve the
// subject through an owner-scoped lookup before calling Create. The foreign
// key still rejects subject IDs that do not exist at all.
func (s *PostgresStudySessionStore) Create(ctx context.Context, session *domain.StudySession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("study session validation failed during create",
			slog.String("error", err.Error()),
			slog.Int64("user_id", session.UserID))
		return err
	}

	query := `
		INSERT INTO study_sessions (topic, duration_minutes, notes, date, created_at, user_id, subject_id)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		session.Topic,
		session.DurationMinutes,
		session.Notes,
		session.Date,
		session.CreatedAt,
		session.UserID,
		session.SubjectID,
	).Scan(&session.ID)

	if err != nil {
		log.Error("failed to create study session",
			slog.String("error", err.Error()),
			slog.Int64("user_id", session.UserID),
			slog.Int64("subject_id", session.SubjectID))
		return MapError(err)
	}

	log.Info("study session created successfully",
		slog.Int64("session_id", session.ID),
		slog.Int64("user_id", session.UserID),
		slog.Int("duration_minutes", session.DurationMinutes))
	return nil
}

// FindAllByUser implements store.StudySessionStore.FindAllByUser
func (s *PostgresStudySessionStore) FindAllByUser(ctx context.Context, userID int64, limit int) ([]*domain.StudySession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + sessionColumns + `
		FROM study_sessions
		WHERE user_id = $1
		ORDER BY date DESC, created_at DESC
	`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query study sessions",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	return collectSessions(rows, log)
}

// FindByID implements store.StudySessionStore.FindByID
func (s *PostgresStudySessionStore) FindByID(ctx context.Context, id, userID int64) (*domain.StudySession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + sessionColumns + `
		FROM study_sessions
		WHERE id = $1 AND user_id = $2
	`

	session, err := scanSession(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("study session not found",
				slog.Int64("session_id", id),
				slog.Int64("user_id", userID))
			return nil, store.ErrStudySessionNotFound
		}
		log.Error("failed to get study session by ID",
			slog.String("error", err.Error()),
			slog.Int64("session_id", id))
		return nil, MapError(err)
	}

	return session, nil
}

// FindBySubject implements store.StudySessionStore.FindBySubject
func (s *PostgresStudySessionStore) FindBySubject(ctx context.Context, subjectID, userID int64) ([]*domain.StudySession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + sessionColumns + `
		FROM study_sessions
		WHERE subject_id = $1 AND user_id = $2
		ORDER BY date DESC
	`

	rows, err := s.db.QueryContext(ctx, query, subjectID, userID)
	if err != nil {
		log.Error("failed to query study sessions by subject",
			slog.String("error", err.Error()),
			slog.Int64("subject_id", subjectID),
			slog.Int64("user_id", userID))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	return collectSessions(rows, log)
}

// Update implements store.StudySessionStore.Update
// All five mutable fields are replaced; empty notes clear the stored value.
func (s *PostgresStudySessionStore) Update(ctx context.Context, session *domain.StudySession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("study session validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("session_id", session.ID))
		return err
	}

	query := `
		UPDATE study_sessions
		SET topic = $1, duration_minutes = $2, subject_id = $3, date = $4, notes = NULLIF($5, '')
		WHERE id = $6 AND user_id = $7
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		session.Topic,
		session.DurationMinutes,
		session.SubjectID,
		session.Date,
		session.Notes,
		session.ID,
		session.UserID,
	)
	if err != nil {
		log.Error("failed to update study session",
			slog.String("error", err.Error()),
			slog.Int64("session_id", session.ID))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "study session"); err != nil {
		log.Debug("study session not found for update",
			slog.Int64("session_id", session.ID),
			slog.Int64("user_id", session.UserID))
		return err
	}

	log.Info("study session updated successfully",
		slog.Int64("session_id", session.ID))
	return nil
}

// Delete implements store.StudySessionStore.Delete
func (s *PostgresStudySessionStore) Delete(ctx context.Context, id, userID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx,
		`DELETE FROM study_sessions WHERE id = $1 AND user_id = $2`,
		id,
		userID,
	)
	if err != nil {
		log.Error("failed to delete study session",
			slog.String("error", err.Error()),
			slog.Int64("session_id", id))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "study session"); err != nil {
		log.Debug("study session not found for delete",
			slog.Int64("session_id", id),
			slog.Int64("user_id", userID))
		return err
	}

	log.Info("study session deleted",
		slog.Int64("session_id", id),
		slog.Int64("user_id", userID))
	return nil
}

// DeleteBySubject implements store.StudySessionStore.DeleteBySubject
func (s *PostgresStudySessionStore) DeleteBySubject(ctx context.Context, subjectID, userID int64) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx,
		`DELETE FROM study_sessions WHERE subject_id = $1 AND user_id = $2`,
		subjectID,
		userID,
	)
	if err != nil {
		log.Error("failed to delete subject's sessions",
			slog.String("error", err.Error()),
			slog.Int64("subject_id", subjectID),
			slog.Int64("user_id", userID))
		return 0, MapError(err)
	}

	return result.RowsAffected()
}

// DeleteByUser implements store.StudySessionStore.DeleteByUser
func (s *PostgresStudySessionStore) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx,
		`DELETE FROM study_sessions WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		log.Error("failed to delete user's sessions",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return 0, MapError(err)
	}

	return result.RowsAffected()
}

// CountByUser implements store.StudySessionStore.CountByUser
func (s *PostgresStudySessionStore) CountByUser(ctx context.Context, userID int64) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var count int
	err := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM study_sessions WHERE user_id = $1`,
		userID,
	).Scan(&count)
	if err != nil {
		log.Error("failed to count study sessions",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return 0, MapError(err)
	}

	return count, nil
}

// TotalHoursByUser implements store.StudySessionStore.TotalHoursByUser
func (s *PostgresStudySessionStore) TotalHoursByUser(ctx context.Context, userID int64) (float64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var totalMinutes int
	err := s.db.QueryRowContext(
		ctx,
		`SELECT COALESCE(SUM(duration_minutes), 0) FROM study_sessions WHERE user_id = $1`,
		userID,
	).Scan(&totalMinutes)
	if err != nil {
		log.Error("failed to sum study session minutes",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return 0, MapError(err)
	}

	return domain.RoundHours(totalMinutes), nil
}

// TotalHoursBySubject implements store.StudySessionStore.TotalHoursBySubject
// A single grouped join; ties in total minutes keep the storage layer's
// natural order.
func (s *PostgresStudySessionStore) TotalHoursBySubject(ctx context.Context, userID int64) ([]*store.SubjectHours, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT sub.name, sub.color, SUM(ss.duration_minutes) AS total_minutes, COUNT(ss.id) AS session_count
		FROM study_sessions ss
		JOIN subjects sub ON sub.id = ss.subject_id
		WHERE ss.user_id = $1
		GROUP BY sub.id, sub.name, sub.color
		ORDER BY SUM(ss.duration_minutes) DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to query hours by subject",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	stats := []*store.SubjectHours{}
	for rows.Next() {
		var entry store.SubjectHours
		if err := rows.Scan(
			&entry.SubjectName,
			&entry.SubjectColor,
			&entry.TotalMinutes,
			&entry.SessionCount,
		); err != nil {
			log.Error("failed to scan subject hours row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		entry.TotalHours = domain.RoundHours(entry.TotalMinutes)
		stats = append(stats, &entry)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning subject hours rows",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return stats, nil
}

// StudyTrendByMonth implements store.StudySessionStore.StudyTrendByMonth
// Months without sessions are absent; the dashboard service overlays the
// result onto a zero-filled 12-slot array.
func (s *PostgresStudySessionStore) StudyTrendByMonth(ctx context.Context, userID int64, year int) ([]*store.MonthHours, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT EXTRACT(MONTH FROM date)::int AS month, SUM(duration_minutes) AS total_minutes
		FROM study_sessions
		WHERE user_id = $1 AND EXTRACT(YEAR FROM date) = $2
		GROUP BY month
		ORDER BY month
	`

	rows, err := s.db.QueryContext(ctx, query, userID, year)
	if err != nil {
		log.Error("failed to query monthly trend",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID),
			slog.Int("year", year))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	trend := []*store.MonthHours{}
	for rows.Next() {
		var month, totalMinutes int
		if err := rows.Scan(&month, &totalMinutes); err != nil {
			log.Error("failed to scan monthly trend row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		trend = append(trend, &store.MonthHours{
			Month:      month,
			TotalHours: domain.RoundHours(totalMinutes),
		})
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning monthly trend rows",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return trend, nil
}

// RecentSessions implements store.StudySessionStore.RecentSessions
func (s *PostgresStudySessionStore) RecentSessions(ctx context.Context, userID int64, days int) ([]*domain.StudySession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	threshold := domain.NormalizeDate(time.Now().UTC().AddDate(0, 0, -days))

	query := `
		SELECT ` + sessionColumns + `
		FROM study_sessions
		WHERE user_id = $1 AND date >= $2
		ORDER BY date DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID, threshold)
	if err != nil {
		log.Error("failed to query recent study sessions",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	return collectSessions(rows, log)
}

// collectSessions drains a result set of session rows.
func collectSessions(rows *sql.Rows, log *slog.Logger) ([]*domain.StudySession, error) {
	sessions := []*domain.StudySession{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			log.Error("failed to scan study session row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning study session rows",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return sessions, nil
}
