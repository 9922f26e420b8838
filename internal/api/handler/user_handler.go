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

// UserHandler serves the admin user management routes.
type UserHandler struct {
	userService *service.UserService
	pipe        *middleware.Pipeline
	log         *zap.Logger
}

func NewUserHandler(userService *service.UserService, pipe *middleware.Pipeline, log *zap.Logger) *UserHandler {
	return &UserHandler{userService: userService, pipe: pipe, log: log}
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	admin := func(rules validate.Rules) chi.Router { return r.With(h.pipe.Guarded(rules, middleware.IsAdmin)...) }

	admin(validate.ListRules).Get("/users", h.list)
	admin(validate.UserStatusRules).Patch("/users/{id}/status", h.changeStatus)
	admin(validate.ByIDRules).Delete("/users/{id}", h.delete)
}

func (h *UserHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.userService.List(r.Context(), service.UserListQuery{
		Search:    q.Get("search"),
		Role:      q.Get("role"),
		Status:    q.Get("status"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
		Page:      pagination(r),
	})
	if err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, "Users retrieved successfully", page)
}

func (h *UserHandler) changeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	actor, _ := middleware.PrincipalFromContext(r.Context())
	user, err := h.userService.ChangeStatus(r.Context(), actor, id, req.Status)
	if err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, "User status updated successfully", user)
}

func (h *UserHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	actor, _ := middleware.PrincipalFromContext(r.Context())
	if err := h.userService.Delete(r.Context(), actor, id); err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, "User deleted successfully", nil)
}
