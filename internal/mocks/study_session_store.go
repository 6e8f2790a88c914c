package mocks

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/smazzone/studytrack/internal/domain"
	"github.com/smazzone/studytrack/internal/store"
)

// MockStudySessionStore implements store.StudySessionStore for testing.
type MockStudySessionStore struct {
	// Function fields for customizable behavior
	CreateFn              func(ctx context.Context, session *domain.StudySession) error
	FindAllByUserFn       func(ctx context.Context, userID int64, limit int) ([]*domain.StudySession, error)
	FindByIDFn            func(ctx context.Context, id, userID int64) (*domain.StudySession, error)
	FindBySubjectFn       func(ctx context.Context, subjectID, userID int64) ([]*domain.StudySession, error)
	UpdateFn              func(ctx context.Context, session *domain.StudySession) error
	DeleteFn              func(ctx context.Context, id, userID int64) error
	DeleteBySubjectFn     func(ctx context.Context, subjectID, userID int64) (int64, error)
	DeleteByUserFn        func(ctx context.Context, userID int64) (int64, error)
	CountByUserFn         func(ctx context.Context, userID int64) (int, error)
	TotalHoursByUserFn    func(ctx context.Context, userID int64) (float64, error)
	TotalHoursBySubjectFn func(ctx context.Context, userID int64) ([]*store.SubjectHours, error)
	StudyTrendByMonthFn   func(ctx context.Context, userID int64, year int) ([]*store.MonthHours, error)
	RecentSessionsFn      func(ctx context.Context, userID int64, days int) ([]*domain.StudySession, error)

	// Data for the default in-memory implementation, keyed by ID.
	Sessions map[int64]*domain.StudySession
	nextID   int64
}

// NewMockStudySessionStore creates a new mock store with initialized
// defaults.
func NewMockStudySessionStore() *MockStudySessionStore {
	return &MockStudySessionStore{
		Sessions: make(map[int64]*domain.StudySession),
		nextID:   1,
	}
}

// Add seeds the store with a session, assigning it an ID. It returns the
// stored session for convenience in test setup.
func (m *MockStudySessionStore) Add(session *domain.StudySession) *domain.StudySession {
	session.ID = m.nextID
	m.nextID++
	m.Sessions[session.ID] = session
	return session
}

// Create implements the StudySessionStore interface.
func (m *MockStudySessionStore) Create(ctx context.Context, session *domain.StudySession) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, session)
	}

	m.Add(session)
	return nil
}

// FindAllByUser implements the StudySessionStore interface.
func (m *MockStudySessionStore) FindAllByUser(ctx context.Context, userID int64, limit int) ([]*domain.StudySession, error) {
	if m.FindAllByUserFn != nil {
		return m.FindAllByUserFn(ctx, userID, limit)
	}

	sessions := m.userSessions(userID)
	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions, nil
}

// FindByID implements the StudySessionStore interface.
func (m *MockStudySessionStore) FindByID(ctx context.Context, id, userID int64) (*domain.StudySession, error) {
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id, userID)
	}

	session, ok := m.Sessions[id]
	if !ok || session.UserID != userID {
		return nil, store.ErrStudySessionNotFound
	}
	return session, nil
}

// FindBySubject implements the StudySessionStore interface.
func (m *MockStudySessionStore) FindBySubject(ctx context.Context, subjectID, userID int64) ([]*domain.StudySession, error) {
	if m.FindBySubjectFn != nil {
		return m.FindBySubjectFn(ctx, subjectID, userID)
	}

	var sessions []*domain.StudySession
	for _, session := range m.userSessions(userID) {
		if session.SubjectID == subjectID {
			sessions = append(sessions, session)
		}
	}
	return sessions, nil
}

// Update implements the StudySessionStore interface.
func (m *MockStudySessionStore) Update(ctx context.Context, session *domain.StudySession) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, session)
	}

	existing, ok := m.Sessions[session.ID]
	if !ok || existing.UserID != session.UserID {
		return store.ErrStudySessionNotFound
	}
	m.Sessions[session.ID] = session
	return nil
}

// Delete implements the StudySessionStore interface.
func (m *MockStudySessionStore) Delete(ctx context.Context, id, userID int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id, userID)
	}

	session, ok := m.Sessions[id]
	if !ok || session.UserID != userID {
		return store.ErrStudySessionNotFound
	}
	delete(m.Sessions, id)
	return nil
}

// DeleteBySubject implements the StudySessionStore interface.
func (m *MockStudySessionStore) DeleteBySubject(ctx context.Context, subjectID, userID int64) (int64, error) {
	if m.DeleteBySubjectFn != nil {
		return m.DeleteBySubjectFn(ctx, subjectID, userID)
	}

	var removed int64
	for id, session := range m.Sessions {
		if session.UserID == userID && session.SubjectID == subjectID {
			delete(m.Sessions, id)
			removed++
		}
	}
	return removed, nil
}

// DeleteByUser implements the StudySessionStore interface.
func (m *MockStudySessionStore) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	if m.DeleteByUserFn != nil {
		return m.DeleteByUserFn(ctx, userID)
	}

	var removed int64
	for id, session := range m.Sessions {
		if session.UserID == userID {
			delete(m.Sessions, id)
			removed++
		}
	}
	return removed, nil
}

// CountByUser implements the StudySessionStore interface.
func (m *MockStudySessionStore) CountByUser(ctx context.Context, userID int64) (int, error) {
	if m.CountByUserFn != nil {
		return m.CountByUserFn(ctx, userID)
	}
	return len(m.userSessions(userID)), nil
}

// TotalHoursByUser implements the StudySessionStore interface.
func (m *MockStudySessionStore) TotalHoursByUser(ctx context.Context, userID int64) (float64, error) {
	if m.TotalHoursByUserFn != nil {
		return m.TotalHoursByUserFn(ctx, userID)
	}

	minutes := 0
	for _, session := range m.userSessions(userID) {
		minutes += session.DurationMinutes
	}
	return domain.RoundHours(minutes), nil
}

// TotalHoursBySubject implements the StudySessionStore interface. The
// default implementation has no subject names to join against, so tests
// exercising per-subject stats should set TotalHoursBySubjectFn.
func (m *MockStudySessionStore) TotalHoursBySubject(ctx context.Context, userID int64) ([]*store.SubjectHours, error) {
	if m.TotalHoursBySubjectFn != nil {
		return m.TotalHoursBySubjectFn(ctx, userID)
	}
	return nil, nil
}

// StudyTrendByMonth implements the StudySessionStore interface.
func (m *MockStudySessionStore) StudyTrendByMonth(ctx context.Context, userID int64, year int) ([]*store.MonthHours, error) {
	if m.StudyTrendByMonthFn != nil {
		return m.StudyTrendByMonthFn(ctx, userID, year)
	}

	minutesByMonth := make(map[int]int)
	for _, session := range m.userSessions(userID) {
		if session.Date.Year() == year {
			minutesByMonth[int(session.Date.Month())] += session.DurationMinutes
		}
	}

	var trend []*store.MonthHours
	for month := 1; month <= 12; month++ {
		if minutes, ok := minutesByMonth[month]; ok {
			trend = append(trend, &store.MonthHours{
				Month:      month,
				TotalHours: domain.RoundHours(minutes),
			})
		}
	}
	return trend, nil
}

// RecentSessions implements the StudySessionStore interface.
func (m *MockStudySessionStore) RecentSessions(ctx context.Context, userID int64, days int) ([]*domain.StudySession, error) {
	if m.RecentSessionsFn != nil {
		return m.RecentSessionsFn(ctx, userID, days)
	}

	threshold := domain.NormalizeDate(time.Now().UTC().AddDate(0, 0, -days))
	var sessions []*domain.StudySession
	for _, session := range m.userSessions(userID) {
		if !session.Date.Before(threshold) {
			sessions = append(sessions, session)
		}
	}
	return sessions, nil
}

// WithTx implements the StudySessionStore interface. The mock has no
// transaction state, so it returns itself.
func (m *MockStudySessionStore) WithTx(tx *sql.Tx) store.StudySessionStore {
	return m
}

// userSessions returns the user's sessions sorted by date descending, then
// created_at descending, matching the store's ordering contract.
func (m *MockStudySessionStore) userSessions(userID int64) []*domain.StudySession {
	var sessions []*domain.StudySession
	for _, session := range m.Sessions {
		if session.UserID == userID {
			sessions = append(sessions, session)
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].Date.Equal(sessions[j].Date) {
			return sessions[i].Date.After(sessions[j].Date)
		}
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
	return sessions
}
