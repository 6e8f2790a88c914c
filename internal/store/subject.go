package store

import (
	"context"
	"database/sql"

	"github.com/smazzone/studytrack/internal/domain"
)

// SubjectStore defines the interface for subject data persistence.
// Every read and write is scoped to the owning user inside the query
// itself; no operation ever returns another user's subject.
type SubjectStore interface {
	// Create saves a new subject and fills in the assigned ID.
	Create(ctx context.Context, subject *domain.Subject) error

	// FindAllByUser returns all subjects owned by the user,
	// sorted by name ascending.
	FindAllByUser(ctx context.Context, userID int64) ([]*domain.Subject, error)

	// FindByID retrieves a subject by ID, scoped to the owning user.
	// Returns ErrSubjectNotFound when the subject does not exist or
	// belongs to a different user.
	FindByID(ctx context.Context, id, userID int64) (*domain.Subject, error)

	// Update replaces the subject's mutable fields (name, description,
	// color). The caller resolves partial-update semantics before calling:
	// name is always mandatory, absent description/color keep their prior
	// value. Returns ErrSubjectNotFound if the row no longer exists under
	// the subject's owner.
	Update(ctx context.Context, subject *domain.Subject) error

	// Delete removes the subject row only. Cascading removal of the
	// subject's sessions is composed by the service layer inside one
	// transaction. Returns ErrSubjectNotFound if nothing was deleted.
	Delete(ctx context.Context, id, userID int64) error

	// DeleteByUser removes all subjects owned by the user and returns the
	// number of rows removed. Used by the account cascade after the user's
	// sessions have been deleted.
	DeleteByUser(ctx context.Context, userID int64) (int64, error)

	// CountByUser returns the number of subjects owned by the user.
	CountByUser(ctx context.Context, userID int64) (int, error)

	// WithTx returns a new SubjectStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) SubjectStore
}
