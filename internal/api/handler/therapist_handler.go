package handler

import (
	"net/http"
	"strconv"
	"strings"

	"marma_admin/internal/api/middleware"
	"marma_admin/internal/app/service"
	"marma_admin/internal/common"
	"marma_admin/internal/common/validate"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TherapistHandler struct {
	therapistService *service.TherapistService
	pipe             *middleware.Pipeline
	log              *zap.Logger
}

func NewTherapistHandler(therapistService *service.TherapistService, pipe *middleware.Pipeline, log *zap.Logger) *TherapistHandler {
	return &TherapistHandler{therapistService: therapistService, pipe: pipe, log: log}
}

func (h *TherapistHandler) RegisterRoutes(r chi.Router) {
	admin := func(rules validate.Rules) chi.Router { return r.With(h.pipe.Guarded(rules, middleware.IsAdmin)...) }

	admin(validate.CreateTherapistRules).Post("/therapists", h.create)
	admin(validate.ListRules).Get("/therapists", h.list)
	admin(validate.Rules{}).Get("/therapists/stats", h.stats)
	admin(validate.ByIDRules).Get("/therapists/{id}", h.get)
	admin(validate.UpdateTherapistRules).Put("/therapists/{id}", h.update)
	admin(validate.ByIDRules).Delete("/therapists/{id}", h.delete)
	admin(validate.StatusRules).Patch("/therapists/{id}/status", h.updateStatus)
}

type therapistPayload struct {
	Name           *string  `json:"name"`
	ClinicName     *string  `json:"clinicName"`
	Email          *string  `json:"email"`
	Phone          *string  `json:"phone"`
	Specialization *string  `json:"specialization"`
	Experience     *int     `json:"experience"`
	Availability   *string  `json:"availability"`
	Rating         *float64 `json:"rating"`
	Status         *string  `json:"status"`
}

// therapistInput reads a multipart/urlencoded form or a JSON body.
func therapistInput(r *http.Request) (service.TherapistInput, error) {
	if !isForm(r) {
		var p therapistPayload
		if err := decodeJSON(r, &p); err != nil {
			return service.TherapistInput{}, err
		}
		return service.TherapistInput(p), nil
	}

	in := service.TherapistInput{
		Name:           formString(r, "name"),
		ClinicName:     formString(r, "clinicName"),
		Email:          formString(r, "email"),
		Phone:          formString(r, "phone"),
		Specialization: formString(r, "specialization"),
		Availability:   formString(r, "availability"),
		Status:         formString(r, "status"),
	}
	if s := formString(r, "experience"); s != nil && strings.TrimSpace(*s) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(*s))
		if err != nil {
			return in, common.BadRequest("Experience must be a whole number")
		}
		in.Experience = &n
	}
	if s := formString(r, "rating"); s != nil && strings.TrimSpace(*s) != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(*s), 64)
		if err != nil {
			return in, common.BadRequest(service.MsgInvalidRating)
		}
		in.Rating = &f
	}
	return in, nil
}

func (h *TherapistHandler) create(w http.ResponseWriter, r *http.Request) {
	in, err := therapistInput(r)
	if err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	file, closeFile, err := formUpload(r, "file")
	if err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	defer closeFile()

	therapist, err := h.therapistService.Create(r.Context(), in, file)
	if err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	common.RespondWithData(w, http.StatusCreated, "Therapist created successfully", therapist)
}

func (h *TherapistHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.therapistService.List(r.Context(), service.TherapistListQuery{
		Status:       q.Get("status"),
		Availability: q.Get("availability"),
		Search:       q.Get("searchTerm"),
		Page:         pagination(r),
	})
	if err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, "Therapists retrieved successfully", page)
}

func (h *TherapistHandler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.therapistService.Stats(r.Context())
	if err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, "Therapist stats retrieved successfully", stats)
}

func (h *TherapistHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	therapist, err := h.therapistService.Get(r.Context(), id)
	if err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, "Therapist retrieved successfully", therapist)
}

func (h *TherapistHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	in, err := therapistInput(r)
	if err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	file, closeFile, err := formUpload(r, "file")
	if err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	defer closeFile()

	therapist, err := h.therapistService.Update(r.Context(), id, in, file)
	if err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, "Therapist updated successfully", therapist)
}

func (h *TherapistHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	if err := h.therapistService.Delete(r.Context(), id); err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, "Therapist deleted successfully", nil)
}

func (h *TherapistHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
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
	therapist, err := h.therapistService.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		common.RespondWithServiceError(w, h.log, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, "Therapist status updated successfully", therapist)
}
