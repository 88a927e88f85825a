package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/islaguezul/portfolio-backend/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// statusForError maps the domain's sentinel errors onto HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrCopyInFlight):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
