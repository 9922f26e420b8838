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

type AuthHandler struct {
	authService *service.AuthService
	pipe        *middleware.Pipeline
	forgotLimit func(http.Handler) http.Handler
	log         *zap.Logger
}

// NewAuthHandler wires the public auth routes. forgotLimit guards the
// forgot-password route and may be nil.
func NewAuthHandler(authService *service.AuthService, pipe *middleware.Pipeline, forgotLimit func(http.Handler) http.Handler, log *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, pipe: pipe, forgotLimit: forgotLimit, log: log}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.With(h.pipe.Public(validate.LoginRules)...).Post("/login", h.login)

	forgot := h.pipe.Public(validate.ForgotPasswordRules)
	if h.forgotLimit != nil {
		forgot = append(chi.Middlewares{h.forgotLimit}, forgot...)
	}
	r.With(forgot...).Post("/forgot-password", h.forgotPassword)

	r.With(h.pipe.Public(validate.ResetPasswordRules)...).Post("/reset-password/{token}", h.resetPassword)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	resp, err := h.authService.Login(r.Context(), req)
	if err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, "Login successful", resp)
}

func (h *AuthHandler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	if err := h.authService.ForgotPassword(r.Context(), req.Email); err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, service.MsgForgotPassword, nil)
}

func (h *AuthHandler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	if err := h.authService.ResetPassword(r.Context(), chi.URLParam(r, "token"), req.Password); err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, "Password has been reset successfully", nil)
}
