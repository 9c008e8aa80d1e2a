package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/restaurant-menu/internal/models"
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
	WriteJSON(w, status, map[string]string{"error": message}, logger)
}

// WriteServiceError maps a menu service error to a response.
// Malformed input is reported back to the client, anything else is hidden.
func WriteServiceError(w http.ResponseWriter, err error, logger *slog.Logger) {
	if errors.Is(err, models.ErrMalformedInput) {
		WriteError(w, http.StatusBadRequest, err.Error(), logger)
		return
	}

	logger.Error("menu operation failed", "error", err)
	WriteError(w, http.StatusInternalServerError, "Internal server error", logger)
}
