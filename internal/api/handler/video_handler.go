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

// VideoHandler serves the learner video library.
type VideoHandler struct {
	videoService *service.VideoService
	pipe         *middleware.Pipeline
	log          *zap.Logger
}

func NewVideoHandler(videoService *service.VideoService, pipe *middleware.Pipeline, log *zap.Logger) *VideoHandler {
	return &VideoHandler{videoService: videoService, pipe: pipe, log: log}
}

func (h *VideoHandler) RegisterRoutes(r chi.Router) {
	admin := func(rules validate.Rules) chi.Router { return r.With(h.pipe.Guarded(rules, middleware.IsAdmin)...) }

	admin(validate.Rules{}).Post("/learner", h.create)
	admin(validate.ListRules).Get("/learner", h.list)
	admin(validate.ByIDRules).Get("/learner/{id}", h.get)
	admin(validate.ByIDRules).Put("/learner/{id}", h.update)
	admin(validate.ByIDRules).Delete("/learner/{id}", h.delete)
}

func (h *VideoHandler) create(w http.ResponseWriter, r *http.Request) {
	file, closeFile, err := formUpload(r, "video")
	if err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	defer closeFile()

	name, duration := "", ""
	if v := formString(r, "name"); v != nil {
		name = *v
	}
	if v := formString(r, "duration"); v != nil {
		duration = *v
	}

	video, err := h.videoService.Create(r.Context(), name, duration, file)
	if err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	common.RespondWithData(w, http.StatusCreated, "Video uploaded successfully", video)
}

func (h *VideoHandler) list(w http.ResponseWriter, r *http.Request) {
	page, err := h.videoService.List(r.Context(), pagination(r))
	if err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, "Videos retrieved successfully", page)
}

func (h *VideoHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	video, err := h.videoService.Get(r.Context(), id)
	if err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, "Video retrieved successfully", video)
}

func (h *VideoHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	file, closeFile, err := formUpload(r, "video")
	if err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	defer closeFile()

	video, err := h.videoService.Update(r.Context(), id, formString(r, "name"), formString(r, "duration"), file)
	if err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, "Video updated successfully", video)
}

func (h *VideoHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	if err := h.videoService.Delete(r.Context(), id); err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, "Video deleted successfully", nil)
}
