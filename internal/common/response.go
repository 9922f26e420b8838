package common

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Errors  any    `json:"errors"`
}

func RespondWithData(w http.ResponseWriter, code int, message string, data any) {
	RespondWithJSON(w, code, SuccessResponse{Success: true, Message: message, Data: data})
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithErrors(w, code, message, nil)
}

func RespondWithErrors(w http.ResponseWriter, code int, message string, errs any) {
	RespondWithJSON(w, code, ErrorResponse{Success: false, Message: message, Errors: errs})
}

// RespondWithServiceError writes the envelope for err. Unclassified errors are
// logged with their detail and answered with a generic 500.
func RespondWithServiceError(w http.ResponseWriter, log *zap.Logger, err error) {
	status := HTTPStatusFromError(err)
	if status >= http.StatusInternalServerError && log != nil {
		log.Error("request failed", zap.Error(err))
	}
	message, details := PublicMessage(err)
	RespondWithErrors(w, status, message, details)
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"message":"Server error","errors":null}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
