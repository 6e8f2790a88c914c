package store

import (
	"context"
	"database/sql"

	"github.com/smazzone/studytrack/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store and fills in the assigned ID.
	// The user must already carry a hashed password; plaintext is never
	// persisted. The unique constraints on username and email are the
	// authoritative duplicate guard: even if the caller checked Exists
	// first, a concurrent registration surfaces here as
	// ErrUsernameExists or ErrEmailExists.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByUsername retrieves a user by their username.
	// Returns ErrUserNotFound if the user does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// Exists reports whether any user already has the given username or
	// email. This is an advisory pre-check only; Create enforces
	// uniqueness atomically.
	Exists(ctx context.Context, username, email string) (bool, error)

	// Delete removes a user. It does not touch the user's subjects or
	// sessions; callers must run the full cascade inside one transaction
	// (see service.UserService.DeleteAccount).
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a new UserStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) UserStore
}
