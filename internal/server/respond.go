package server

import (
	"encoding/json"
	"net/http"

	"github.com/vibecoding/devlog/internal/logger"
	"github.com/vibecoding/devlog/internal/service"
)

// errorBody is the uniform error payload
type errorBody struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.HTTP().Error("failed to encode response: %v", err)
	}
}

// writeError maps the service failure classification to an HTTP status
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch service.KindOf(err) {
	case service.KindValidation:
		status = http.StatusBadRequest
	case service.KindNotFound:
		status = http.StatusNotFound
	case service.KindConflict:
		status = http.StatusConflict
	}

	msg := service.Message(err)
	if status == http.StatusInternalServerError {
		logger.HTTP().Error("request failed: %v", err)
		msg = "internal server error"
	}

	writeJSON(w, status, errorBody{Error: msg, Status: status})
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: msg, Status: http.StatusBadRequest})
}
