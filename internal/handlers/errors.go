package handlers

import (
	"errors"
	"net/http"

	"github.com/mohitjoer/travel-planner/internal/models"
)

// statusFromError maps service errors onto HTTP status codes. Anything
// unrecognized is a 500 and gets a generic message.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError sends the error as plain text with the mapped status. Internal
// errors are masked with a generic message.
func writeError(w http.ResponseWriter, err error) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		http.Error(w, "Internal server error", status)
		return
	}
	http.Error(w, err.Error(), status)
}
