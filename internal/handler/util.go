package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avo-labs/conversation-logger/internal/middleware"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// writeValidationError writes a 400 response with field-level detail.
func writeValidationError(w http.ResponseWriter, err error) {
	var fieldErr *middleware.FieldError
	if errors.As(err, &fieldErr) {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "validation failed",
			"field":  fieldErr.Field,
			"reason": fieldErr.Reason,
		})
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}

// writeText writes a plain-text response.
func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(body))
}
