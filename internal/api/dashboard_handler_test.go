package api

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/smazzone/studytrack/internal/api/shared"
	"github.com/smazzone/studytrack/internal/domain"
	"github.com/smazzone/studytrack/internal/service"
	"github.com/smazzone/studytrack/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDashboardRouter(stores testStores) http.Handler {
	svc := service.NewDashboardService(stores.subjects, stores.sessions, nil)
	handler := NewDashboardHandler(svc, nil)
	return newAuthedRouter(shared.CurrentUser{ID: 1, Username: "alice"}, func(r chi.Router) {
		r.Get("/dashboard", handler.Overview)
	})
}

func TestDashboardOverview(t *testing.T) {
	t.Parallel()

	stores := newTestStores()
	math := stores.subjects.Add(&domain.Subject{Name: "Math", Color: "#ff0000", UserID: 1})

	today := time.Now().UTC().Truncate(24 * time.Hour)
	stores.sessions.Add(&domain.StudySession{
		Topic: "Integrals", DurationMinutes: 90, Date: today, UserID: 1, SubjectID: math.ID,
	})
	stores.sessions.Add(&domain.StudySession{
		Topic: "Derivatives", DurationMinutes: 30, Date: today, UserID: 1, SubjectID: math.ID,
	})
	// Sessions of other users never leak into the aggregates.
	stores.sessions.Add(&domain.StudySession{
		Topic: "Painting", DurationMinutes: 45, Date: today, UserID: 2, SubjectID: 99,
	})

	stores.sessions.TotalHoursBySubjectFn = func(ctx context.Context, userID int64) ([]*store.SubjectHours, error) {
		require.Equal(t, int64(1), userID)
		return []*store.SubjectHours{
			{SubjectName: "Math", SubjectColor: "#ff0000", TotalHours: 2.0, TotalMinutes: 120, SessionCount: 2},
		}, nil
	}

	rec := get(t, newDashboardRouter(stores), "/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats service.DashboardStats
	decodeView(t, rec, &stats)

	assert.Equal(t, 2, stats.TotalSessions)
	assert.InDelta(t, 2.0, stats.TotalHours, 0.001)
	assert.Equal(t, 1, stats.TotalSubjects)
	require.Len(t, stats.SubjectStats, 1)
	assert.Equal(t, "Math", stats.SubjectStats[0].SubjectName)
	assert.Len(t, stats.RecentSessions, 2)
	assert.Equal(t, time.Now().UTC().Year(), stats.Year)
	require.Len(t, stats.MonthlyHours, 12)
	require.Len(t, stats.MonthLabels, 12)
	assert.Equal(t, "Jan", stats.MonthLabels[0])

	var total float64
	for _, hours := range stats.MonthlyHours {
		total += hours
	}
	assert.InDelta(t, 2.0, total, 0.01)
}

func TestDashboardOverview_EmptyAccount(t *testing.T) {
	t.Parallel()

	stores := newTestStores()
	rec := get(t, newDashboardRouter(stores), "/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats service.DashboardStats
	decodeView(t, rec, &stats)

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

func TestDashboardOverview_StoreError(t *testing.T) {
	t.Parallel()

	stores := newTestStores()
	stores.sessions.CountByUserFn = func(ctx context.Context, userID int64) (int, error) {
		return 0, errors.New("connection reset")
	}

	rec := get(t, newDashboardRouter(stores), "/dashboard")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp shared.ErrorResponse
	require.NoError(t, decodeJSON(rec, &resp))
	assert.Equal(t, "Failed to load the dashboard. Please try again.", resp.Error)
}
