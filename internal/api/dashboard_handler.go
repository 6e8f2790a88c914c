package api

import (
	"log/slog"
	"net/http"

	"github.com/smazzone/studytrack/internal/api/shared"
	"github.com/smazzone/studytrack/internal/platform/logger"
	"github.com/smazzone/studytrack/internal/service"
)

// DashboardHandler serves the aggregate dashboard view.
type DashboardHandler struct {
	dashboardService *service.DashboardService
	logger           *slog.Logger
}

// NewDashboardHandler creates a new DashboardHandler with the given
// dependencies.
func NewDashboardHandler(dashboardService *service.DashboardService, logger *slog.Logger) *DashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger.With(slog.String("component", "dashboard_handler")),
	}
}

// Overview handles GET /dashboard.
func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	user, _ := shared.UserFromContext(r.Context())
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	stats, err := h.dashboardService.Overview(r.Context(), user.ID)
	if err != nil {
		log.Error("failed to assemble dashboard",
			slog.String("error", err.Error()),
			slog.Int64("user_id", user.ID))
		shared.RespondWithError(w, r, http.StatusInternalServerError,
			"Failed to load the dashboard. Please try again.")
		return
	}

	shared.RespondWithView(w, r, http.StatusOK, stats)
}
