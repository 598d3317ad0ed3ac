package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"Thrive/internal/api"
)

// WriteError writes a standardized JSON error response
func WriteError(w http.ResponseWriter, statusCode int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   errorType,
		"message": message,
	}); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}

// writeStoreError maps storage sentinel errors onto HTTP responses.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, api.ErrNotFound):
		WriteError(w, http.StatusNotFound, "NotFound", "The requested resource does not exist")
	case errors.Is(err, api.ErrDuplicate):
		WriteError(w, http.StatusConflict, "Conflict", "The requested state already holds")
	case errors.Is(err, api.ErrNotOwner):
		WriteError(w, http.StatusForbidden, "Forbidden", "You do not own this resource")
	default:
		log.Printf("Unhandled store error: %v", err)
		WriteError(w, http.StatusInternalServerError, "InternalError", "An internal error occurred")
	}
}
