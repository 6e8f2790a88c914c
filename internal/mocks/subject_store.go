package mocks

import (
	"context"
	"database/sql"
	"sort"

	"github.com/smazzone/studytrack/internal/domain"
	"github.com/smazzone/studytrack/internal/store"
)

// MockSubjectStore implements store.SubjectStore for testing.
type MockSubjectStore struct {
	// Function fields for customizable behavior
	CreateFn        func(ctx context.Context, subject *domain.Subject) error
	FindAllByUserFn func(ctx context.Context, userID int64) ([]*domain.Subject, error)
	FindByIDFn      func(ctx context.Context, id, userID int64) (*domain.Subject, error)
	UpdateFn        func(ctx context.Context, subject *domain.Subject) error
	DeleteFn        func(ctx context.Context, id, userID int64) error
	DeleteByUserFn  func(ctx context.Context, userID int64) (int64, error)
	CountByUserFn   func(ctx context.Context, userID int64) (int, error)

	// Data for the default in-memory implementation, keyed by ID.
	Subjects map[int64]*domain.Subject
	nextID   int64
}

// NewMockSubjectStore creates a new mock store with initialized defaults.
func NewMockSubjectStore() *MockSubjectStore {
	return &MockSubjectStore{
		Subjects: make(map[int64]*domain.Subject),
		nextID:   1,
	}
}

// Add seeds the store with a subject, assigning it an ID. It returns the
// stored subject for convenience in test setup.
func (m *MockSubjectStore) Add(subject *domain.Subject) *domain.Subject {
	subject.ID = m.nextID
	m.nextID++
	m.Subjects[subject.ID] = subject
	return subject
}

// Create implements the SubjectStore interface.
func (m *MockSubjectStore) Create(ctx context.Context, subject *domain.Subject) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, subject)
	}

	m.Add(subject)
	return nil
}

// FindAllByUser implements the SubjectStore interface.
func (m *MockSubjectStore) FindAllByUser(ctx context.Context, userID int64) ([]*domain.Subject, error) {
	if m.FindAllByUserFn != nil {
		return m.FindAllByUserFn(ctx, userID)
	}

	var subjects []*domain.Subject
	for _, subject := range m.Subjects {
		if subject.UserID == userID {
			subjects = append(subjects, subject)
		}
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].Name < subjects[j].Name })
	return subjects, nil
}

// FindByID implements the SubjectStore interface.
func (m *MockSubjectStore) FindByID(ctx context.Context, id, userID int64) (*domain.Subject, error) {
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id, userID)
	}

	subject, ok := m.Subjects[id]
	if !ok || subject.UserID != userID {
		return nil, store.ErrSubjectNotFound
	}
	return subject, nil
}

// Update implements the SubjectStore interface.
func (m *MockSubjectStore) Update(ctx context.Context, subject *domain.Subject) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, subject)
	}

	existing, ok := m.Subjects[subject.ID]
	if !ok || existing.UserID != subject.UserID {
		return store.ErrSubjectNotFound
	}
	m.Subjects[subject.ID] = subject
	return nil
}

// Delete implements the SubjectStore interface.
func (m *MockSubjectStore) Delete(ctx context.Context, id, userID int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id, userID)
	}

	subject, ok := m.Subjects[id]
	if !ok || subject.UserID != userID {
		return store.ErrSubjectNotFound
	}
	delete(m.Subjects, id)
	return nil
}

// DeleteByUser implements the SubjectStore interface.
func (m *MockSubjectStore) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	if m.DeleteByUserFn != nil {
		return m.DeleteByUserFn(ctx, userID)
	}

	var removed int64
	for id, subject := range m.Subjects {
		if subject.UserID == userID {
			delete(m.Subjects, id)
			removed++
		}
	}
	return removed, nil
}

// CountByUser implements the SubjectStore interface.
func (m *MockSubjectStore) CountByUser(ctx context.Context, userID int64) (int, error) {
	if m.CountByUserFn != nil {
		return m.CountByUserFn(ctx, userID)
	}

	count := 0
	for _, subject := range m.Subjects {
		if subject.UserID == userID {
			count++
		}
	}
	return count, nil
}

// WithTx implements the SubjectStore interface. The mock has no transaction
// state, so it returns itself.
func (m *MockSubjectStore) WithTx(tx *sql.Tx) store.SubjectStore {
	return m
}
