package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/smazzone/studytrack/internal/domain"
	"github.com/smazzone/studytrack/internal/platform/logger"
	"github.com/smazzone/studytrack/internal/store"
)

// monthLabels are the chart labels for the 12-slot monthly trend.
var monthLabels = []string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// recentSessionDays is the window for the dashboard's recent-sessions list.
const recentSessionDays = 7

// DashboardStats is the aggregate view data for the dashboard.
type DashboardStats struct {
	TotalSessions  int                    `json:"total_sessions"`
	TotalHours     float64                `json:"total_hours"`
	TotalSubjects  int                    `json:"total_subjects"`
	SubjectStats   []*store.SubjectHours  `json:"subject_stats"`
	RecentSessions []*domain.StudySession `json:"recent_sessions"`
	MonthLabels    []string               `json:"months_labels"`
	MonthlyHours   []float64              `json:"monthly_hours"`
	Year           int                    `json:"current_year"`
}

// DashboardService assembles the aggregate statistics for a user's
// dashboard from the study session store.
type DashboardService struct {
	subjectStore store.SubjectStore
	sessionStore store.StudySessionStore
	timeFunc     func() time.Time // Injectable for testing
	logger       *slog.Logger
}

// NewDashboardService creates a new DashboardService with the given
// dependencies.
func NewDashboardService(
	subjectStore store.SubjectStore,
	sessionStore store.StudySessionStore,
	logger *slog.Logger,
) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		subjectStore: subjectStore,
		sessionStore: sessionStore,
		timeFunc:     time.Now,
		logger:       logger.With(slog.String("component", "dashboard_service")),
	}
}

// Overview computes the dashboard statistics for one user: overall totals,
// the per-subject breakdown, the sessions of the last 7 days, and the
// monthly trend for the current year. The store reports only months that
// have sessions; Overview overlays them onto a zero-filled 12-slot array.
func (s *DashboardService) Overview(ctx context.Context, userID int64) (*DashboardStats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	totalSessions, err := s.sessionStore.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	totalHours, err := s.sessionStore.TotalHoursByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	totalSubjects, err := s.subjectStore.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	subjectStats, err := s.sessionStore.TotalHoursBySubject(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent, err := s.sessionStore.RecentSessions(ctx, userID, recentSessionDays)
	if err != nil {
		return nil, err
	}

	year := s.timeFunc().UTC().Year()
	trend, err := s.sessionStore.StudyTrendByMonth(ctx, userID, year)
	if err != nil {
		return nil, err
	}

	monthlyHours := make([]float64, 12)
	for _, entry := range trend {
		if entry.Month >= 1 && entry.Month <= 12 {
			monthlyHours[entry.Month-1] = entry.TotalHours
		}
	}

	log.Debug("dashboard stats assembled",
		slog.Int64("user_id", userID),
		slog.Int("total_sessions", totalSessions),
		slog.Int("year", year))

	return &DashboardStats{
		TotalSessions:  totalSessions,
		TotalHours:     totalHours,
		TotalSubjects:  totalSubjects,
		SubjectStats:   subjectStats,
		RecentSessions: recent,
		MonthLabels:    monthLabels,
		MonthlyHours:   monthlyHours,
		Year:           year,
	}, nil
}
