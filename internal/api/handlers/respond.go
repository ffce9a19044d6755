// Package handlers contains the HTTP handlers for the horoscope API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zodiacal/horoscope-api/internal/contracts"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// statusForError maps the error taxonomy onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, contracts.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, contracts.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// messageForError keeps backend detail out of responses: validation
// and not-found errors carry their own safe messages, everything else
// collapses to a generic one.
func messageForError(err error) string {
	if errors.Is(err, contracts.ErrValidation) || errors.Is(err, contracts.ErrNotFound) {
		return err.Error()
	}
	return "storage backend failure"
}
