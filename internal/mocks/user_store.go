package mocks

import (
	"context"
	"database/sql"
	"strings"

	"github.com/smazzone/studytrack/internal/domain"
	"github.com/smazzone/studytrack/internal/store"
)

// MockUserStore implements store.UserStore for testing.
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn        func(ctx context.Context, user *domain.User) error
	GetByIDFn       func(ctx context.Context, id int64) (*domain.User, error)
	GetByUsernameFn func(ctx context.Context, username string) (*domain.User, error)
	ExistsFn        func(ctx context.Context, username, email string) (bool, error)
	DeleteFn        func(ctx context.Context, id int64) error

	// Data for the default in-memory implementation, keyed by ID.
	Users  map[int64]*domain.User
	nextID int64
}

// NewMockUserStore creates a new mock store with initialized defaults.
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		Users:  make(map[int64]*domain.User),
		nextID: 1,
	}
}

// Create implements the UserStore interface.
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	for _, existing := range m.Users {
		if strings.EqualFold(existing.Username, user.Username) {
			return store.ErrUsernameExists
		}
		if strings.EqualFold(existing.Email, user.Email) {
			return store.ErrEmailExists
		}
	}

	user.ID = m.nextID
	m.nextID++
	m.Users[user.ID] = user
	return nil
}

// GetByID implements the UserStore interface.
func (m *MockUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	user, ok := m.Users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

// GetByUsername implements the UserStore interface.
func (m *MockUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}

	for _, user := range m.Users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// Exists implements the UserStore interface.
func (m *MockUserStore) Exists(ctx context.Context, username, email string) (bool, error) {
	if m.ExistsFn != nil {
		return m.ExistsFn(ctx, username, email)
	}

	for _, user := range m.Users {
		if strings.EqualFold(user.Username, username) || strings.EqualFold(user.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

// Delete implements the UserStore interface.
func (m *MockUserStore) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	if _, ok := m.Users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(m.Users, id)
	return nil
}

// WithTx implements the UserStore interface. The mock has no transaction
// state, so it returns itself.
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}
