package service

import (
	"context"
	"testing"
	"time"

	"github.com/smazzone/studytrack/internal/domain"
	"github.com/smazzone/studytrack/internal/mocks"
	"github.com/smazzone/studytrack/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_Overview(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 4, 20, 10, 0, 0, 0, time.UTC)

	subjectStore := mocks.NewMockSubjectStore()
	sessionStore := mocks.NewMockStudySessionStore()

	math := subjectStore.Add(&domain.Subject{Name: "Mathematics", Color: "#ff0000", UserID: 1})

	// Two sessions this year (Jan and Apr), one from last year.
	sessionStore.Add(&domain.StudySession{
		Topic: "Limits", DurationMinutes: 60,
		Date: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), UserID: 1, SubjectID: math.ID,
	})
	recent := sessionStore.Add(&domain.StudySession{
		Topic: "Integrals", DurationMinutes: 90,
		Date: time.Date(2026, 4, 18, 0, 0, 0, 0, time.UTC), UserID: 1, SubjectID: math.ID,
	})
	sessionStore.Add(&domain.StudySession{
		Topic: "Sets", DurationMinutes: 30,
		Date: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), UserID: 1, SubjectID: math.ID,
	})

	sessionStore.TotalHoursBySubjectFn = func(ctx context.Context, userID int64) ([]*store.SubjectHours, error) {
		return []*store.SubjectHours{{
			SubjectName:  "Mathematics",
			SubjectColor: "#ff0000",
			TotalHours:   3,
			TotalMinutes: 180,
			SessionCount: 3,
		}}, nil
	}
	sessionStore.RecentSessionsFn = func(ctx context.Context, userID int64, days int) ([]*domain.StudySession, error) {
		assert.Equal(t, 7, days)
		return []*domain.StudySession{recent}, nil
	}

	svc := NewDashboardService(subjectStore, sessionStore, nil)
	svc.timeFunc = func() time.Time { return now }

	stats, err := svc.Overview(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalSessions)
	assert.Equal(t, 3.0, stats.TotalHours)
	assert.Equal(t, 1, stats.TotalSubjects)
	assert.Equal(t, 2026, stats.Year)
	require.Len(t, stats.SubjectStats, 1)
	assert.Equal(t, "Mathematics", stats.SubjectStats[0].SubjectName)
	require.Len(t, stats.RecentSessions, 1)

	// 12 slots, zero-filled except January (1h) and April (1.5h).
	require.Len(t, stats.MonthlyHours, 12)
	assert.Equal(t, 1.0, stats.MonthlyHours[0])
	assert.Equal(t, 1.5, stats.MonthlyHours[3])
	for i, hours := range stats.MonthlyHours {
		if i != 0 && i != 3 {
			assert.Zero(t, hours, "month index %d", i)
		}
	}

	require.Len(t, stats.MonthLabels, 12)
	assert.Equal(t, "Jan", stats.MonthLabels[0])
	assert.Equal(t, "Dec", stats.MonthLabels[11])
}

func TestDashboardService_Overview_EmptyUser(t *testing.T) {
	t.Parallel()

	svc := NewDashboardService(mocks.NewMockSubjectStore(), mocks.NewMockStudySessionStore(), nil)

	stats, err := svc.Overview(context.Background(), 1)
	require.NoError(t, err)

	assert.Zero(t, stats.TotalSessions)
	assert.Zero(t, stats.TotalHours)
	assert.Zero(t, stats.TotalSubjects)
	assert.Empty(t, stats.SubjectStats)
	assert.Empty(t, stats.RecentSessions)
	require.Len(t, stats.MonthlyHours, 12)
	for _, hours := range stats.MonthlyHours {
		assert.Zero(t, hours)
	}
}
