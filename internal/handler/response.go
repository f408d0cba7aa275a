package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Akshatcodegenics/Issue-tracker/internal/domain"
)

// errorBody is the flat error shape of the API: {"error": "..."}.
type errorBody struct {
	Error string `json:"error"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write json response", "error", err)
	}
}

// WriteError maps err to an HTTP status and writes the error body.
func WriteError(w http.ResponseWriter, err error) {
	status, msg := mapError(err)
	WriteJSON(w, status, errorBody{Error: msg})
}

func mapError(err error) (int, string) {
	var validationErr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "Issue not found"
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusServiceUnavailable, "Database unavailable"
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Error()
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	default:
		slog.Error("unhandled error", "error", err)
		// The raw message is echoed back, matching the upstream API.
		return http.StatusInternalServerError, err.Error()
	}
}
