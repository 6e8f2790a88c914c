package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/smazzone/studytrack/internal/domain"
	"github.com/smazzone/studytrack/internal/platform/logger"
	"github.com/smazzone/studytrack/internal/store"
)

// PostgresSubjectStore implements the store.SubjectStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSubjectStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSubjectStore creates a new PostgreSQL implementation of the
// SubjectStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresSubjectStore(db store.DBTX, logger *slog.Logger) *PostgresSubjectStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSubjectStore{
		db:     db,
		logger: logger.With(slog.String("component", "subject_store")),
	}
}

// Ensure PostgresSubjectStore implements store.SubjectStore interface
var _ store.SubjectStore = (*PostgresSubjectStore)(nil)

// WithTx implements store.SubjectStore.WithTx
func (s *PostgresSubjectStore) WithTx(tx *sql.Tx) store.SubjectStore {
	return &PostgresSubjectStore{db: tx, logger: s.logger}
}

// Create implements store.SubjectStore.Create
func (s *PostgresSubjectStore) Create(ctx context.Context, subject *domain.Subject) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := subject.Validate(); err != nil {
		log.Warn("subject validation failed during create",
			slog.String("error", err.Error()),
			slog.Int64("user_id", subject.UserID))
		return err
	}

	query := `
		INSERT INTO subjects (name, description, color, user_id, created_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		subject.Name,
		subject.Description,
		subject.Color,
		subject.UserID,
		subject.CreatedAt,
	).Scan(&subject.ID)

	if err != nil {
		log.Error("failed to create subject",
			slog.String("error", err.Error()),
			slog.Int64("user_id", subject.UserID))
		return MapError(err)
	}

	log.Info("subject created successfully",
		slog.Int64("subject_id", subject.ID),
		slog.Int64("user_id", subject.UserID))
	return nil
}

// FindAllByUser implements store.SubjectStore.FindAllByUser
func (s *PostgresSubjectStore) FindAllByUser(ctx context.Context, userID int64) ([]*domain.Subject, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, COALESCE(description, ''), color, user_id, created_at
		FROM subjects
		WHERE user_id = $1
		ORDER BY name ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to query subjects",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	subjects := []*domain.Subject{}
	for rows.Next() {
		var subject domain.Subject
		if err := rows.Scan(
			&subject.ID,
			&subject.Name,
			&subject.Description,
			&subject.Color,
			&subject.UserID,
			&subject.CreatedAt,
		); err != nil {
			log.Error("failed to scan subject row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		subjects = append(subjects, &subject)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning subject rows",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return subjects, nil
}

// FindByID implements store.SubjectStore.FindByID
// The owner filter lives in the query itself; a subject belonging to a
// different user is indistinguishable from a missing one.
func (s *PostgresSubjectStore) FindByID(ctx context.Context, id, userID int64) (*domain.Subject, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, COALESCE(description, ''), color, user_id, created_at
		FROM subjects
		WHERE id = $1 AND user_id = $2
	`

	var subject domain.Subject
	err := s.db.QueryRowContext(ctx, query, id, userID).Scan(
		&subject.ID,
		&subject.Name,
		&subject.Description,
		&subject.Color,
		&subject.UserID,
		&subject.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("subject not found",
				slog.Int64("subject_id", id),
				slog.Int64("user_id", userID))
			return nil, store.ErrSubjectNotFound
		}
		log.Error("failed to get subject by ID",
			slog.String("error", err.Error()),
			slog.Int64("subject_id", id))
		return nil, MapError(err)
	}

	return &subject, nil
}

// Update implements store.SubjectStore.Update
func (s *PostgresSubjectStore) Update(ctx context.Context, subject *domain.Subject) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := subject.Validate(); err != nil {
		log.Warn("subject validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("subject_id", subject.ID))
		return err
	}

	query := `
		UPDATE subjects
		SET name = $1, description = NULLIF($2, ''), color = $3
		WHERE id = $4 AND user_id = $5
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		subject.Name,
		subject.Description,
		subject.Color,
		subject.ID,
		subject.UserID,
	)
	if err != nil {
		log.Error("failed to update subject",
			slog.String("error", err.Error()),
			slog.Int64("subject_id", subject.ID))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "subject"); err != nil {
		log.Debug("subject not found for update",
			slog.Int64("subject_id", subject.ID),
			slog.Int64("user_id", subject.UserID))
		return err
	}

	log.Info("subject updated successfully",
		slog.Int64("subject_id", subject.ID))
	return nil
}

// Delete implements store.SubjectStore.Delete
// It removes only the subject row; the session cascade is composed by the
// service layer inside one transaction.
func (s *PostgresSubjectStore) Delete(ctx context.Context, id, userID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx,
		`DELETE FROM subjects WHERE id = $1 AND user_id = $2`,
		id,
		userID,
	)
	if err != nil {
		log.Error("failed to delete subject",
			slog.String("error", err.Error()),
			slog.Int64("subject_id", id))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "subject"); err != nil {
		log.Debug("subject not found for delete",
			slog.Int64("subject_id", id),
			slog.Int64("user_id", userID))
		return err
	}

	log.Info("subject deleted",
		slog.Int64("subject_id", id),
		slog.Int64("user_id", userID))
	return nil
}

// DeleteByUser removes every subject owned by the user. Used by the account
// cascade after the user's sessions are gone.
func (s *PostgresSubjectStore) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM subjects WHERE user_id = $1`, userID)
	if err != nil {
		log.Error("failed to delete user's subjects",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return 0, MapError(err)
	}

	return result.RowsAffected()
}

// CountByUser implements store.SubjectStore.CountByUser
func (s *PostgresSubjectStore) CountByUser(ctx context.Context, userID int64) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var count int
	err := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM subjects WHERE user_id = $1`,
		userID,
	).Scan(&count)
	if err != nil {
		log.Error("failed to count subjects",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return 0, MapError(err)
	}

	return count, nil
}

// closeRows closes a result set, logging a close failure instead of
// masking the caller's error.
func closeRows(rows *sql.Rows, log *slog.Logger) {
	if err := rows.Close(); err != nil {
		log.Error("failed to close rows", slog.String("error", err.Error()))
	}
}
