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

type OTPHandler struct {
	otpService *service.OTPService
	pipe       *middleware.Pipeline
	log        *zap.Logger
}

func NewOTPHandler(otpService *service.OTPService, pipe *middleware.Pipeline, log *zap.Logger) *OTPHandler {
	return &OTPHandler{otpService: otpService, pipe: pipe, log: log}
}

func (h *OTPHandler) RegisterRoutes(r chi.Router) {
	r.With(h.pipe.Guarded(validate.ListRules, middleware.IsAdmin)...).Get("/otp/logs", h.logs)
	r.With(h.pipe.Guarded(validate.Rules{}, middleware.IsAdmin)...).Get("/otp/stats", h.stats)
}

func (h *OTPHandler) logs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.otpService.Logs(r.Context(), service.OTPListQuery{
		Filter: q.Get("filter"),
		Search: q.Get("search"),
		Page:   pagination(r),
	})
	if err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, "OTP logs retrieved successfully", page)
}

func (h *OTPHandler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.otpService.Stats(r.Context())
	if err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, "OTP stats retrieved successfully", stats)
}
