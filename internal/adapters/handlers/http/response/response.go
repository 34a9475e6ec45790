// Package response provides shared JSON response helpers for HTTP handlers.
package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"aetherpix/internal/core/domain"
)

// ErrorBody is the body of every error response
type ErrorBody struct {
	Error       string `json:"error"`
	Description string `json:"description"`
}

// JSON writes a JSON-encoded payload with the given HTTP status code.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// Error writes an error response with a stable code and a human description.
func Error(w http.ResponseWriter, status int, code, description string) {
	JSON(w, status, ErrorBody{Error: code, Description: description})
}

// BadRequest writes a 400 response.
func BadRequest(w http.ResponseWriter, description string) {
	Error(w, http.StatusBadRequest, "bad_request", description)
}

// Unauthorized writes a 401 response.
func Unauthorized(w http.ResponseWriter, description string) {
	Error(w, http.StatusUnauthorized, "unauthorized", description)
}

// FromError maps a domain error to its status. Unexpected errors are logged and
// reported without detail.
func FromError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrFileSizeTooBig):
		Error(w, http.StatusRequestEntityTooLarge, "file_too_large", err.Error())
	case errors.Is(err, domain.ErrInvalidFileType):
		Error(w, http.StatusBadRequest, "invalid_file_type", err.Error())
	case errors.Is(err, domain.ErrBadRequest), errors.Is(err, domain.ErrInvalidKey):
		BadRequest(w, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		Unauthorized(w, "authentication required")
	case errors.Is(err, domain.ErrNotFound):
		Error(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrConflict):
		Error(w, http.StatusConflict, "conflict", err.Error())
	default:
		logger.Error("request failed", slog.Any("error", err))
		Error(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
