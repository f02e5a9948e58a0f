package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ethernet-moe/cafeteria-backend/internal/service"
)

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an error response in JSON format
func WriteError(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]string{"error": message}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error("failed to encode error response", "error", err)
	}
}

// statusFor maps service error kinds to HTTP statuses
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError answers with the status of err's kind. Unclassified errors
// are logged and hidden behind a generic message.
func writeServiceError(w http.ResponseWriter, err error, action string, logger *slog.Logger) {
	writeServiceErrorStatus(w, statusFor(err), err, action, logger)
}

func writeServiceErrorStatus(w http.ResponseWriter, status int, err error, action string, logger *slog.Logger) {
	if status == http.StatusInternalServerError {
		logger.Error("failed to "+action, "error", err)
		WriteError(w, status, "Internal server error", logger)
		return
	}
	logger.Info("request rejected", "action", action, "status", status, "reason", err.Error())
	WriteError(w, status, err.Error(), logger)
}

// decodeJSON reads a request body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}, logger *slog.Logger) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		logger.Warn("failed to decode request body", "path", r.URL.Path, "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", logger)
		return false
	}
	return true
}
