package handler

import (
	"net/http"

	"marma_admin/internal/api/middleware"
	"marma_admin/internal/app/service"
	"marma_admin/internal/common"
	"marma_admin/internal/common/validate"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	pipe             *middleware.Pipeline
	log              *zap.Logger
}

func NewDashboardHandler(dashboardService *service.DashboardService, pipe *middleware.Pipeline, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, pipe: pipe, log: log}
}

// RegisterAdminRoutes mounts the admin statistics under an /api/admin router.
func (h *DashboardHandler) RegisterAdminRoutes(r chi.Router) {
	r.With(h.pipe.Guarded(validate.Rules{}, middleware.IsAdmin)...).Get("/dashboard", h.adminStats)
}

// RegisterUserRoutes mounts the signed-in user's summary under an /api/user router.
func (h *DashboardHandler) RegisterUserRoutes(r chi.Router) {
	r.With(h.pipe.Guarded(validate.Rules{}, middleware.IsUser)...).Get("/dashboard", h.userDashboard)
}

func (h *DashboardHandler) adminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.AdminStats(r.Context())
	if err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, "Dashboard stats retrieved successfully", stats)
}

func (h *DashboardHandler) userDashboard(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromContext(r.Context())
	common.RespondWithData(w, http.StatusOK, "Welcome to your dashboard", h.dashboardService.UserDashboard(p))
}
