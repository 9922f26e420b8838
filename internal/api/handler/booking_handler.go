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

type BookingHandler struct {
	bookingService *service.BookingService
	pipe           *middleware.Pipeline
	log            *zap.Logger
}

func NewBookingHandler(bookingService *service.BookingService, pipe *middleware.Pipeline, log *zap.Logger) *BookingHandler {
	return &BookingHandler{bookingService: bookingService, pipe: pipe, log: log}
}

func (h *BookingHandler) RegisterRoutes(r chi.Router) {
	admin := func(rules validate.Rules) chi.Router { return r.With(h.pipe.Guarded(rules, middleware.IsAdmin)...) }

	admin(validate.Rules{}).Get("/bookings/stats", h.stats)
	admin(validate.ListRules).Get("/bookings", h.list)
	admin(validate.ByIDRules).Get("/bookings/{id}", h.get)
	admin(validate.StatusRules).Patch("/bookings/{id}/status", h.updateStatus)
	admin(validate.ByIDRules).Patch("/bookings/{id}/cancel", h.cancel)
}

func (h *BookingHandler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.bookingService.Stats(r.Context())
	if err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, "Booking stats retrieved successfully", stats)
}

func (h *BookingHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.bookingService.List(r.Context(), service.BookingListQuery{
		Status: q.Get("status"),
		Search: q.Get("search"),
		Page:   pagination(r),
	})
	if err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, "Bookings retrieved successfully", page)
}

func (h *BookingHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	booking, err := h.bookingService.Get(r.Context(), id)
	if err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, "Booking retrieved successfully", booking)
}

func (h *BookingHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
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
	booking, err := h.bookingService.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, "Booking status updated successfully", booking)
}

func (h *BookingHandler) cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	booking, err := h.bookingService.Cancel(r.Context(), id)
	if err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, "Booking cancelled successfully", booking)
}
