// Package server provides the HTTP API for interview sessions.
package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/interview-coach/internal/interview"
	"github.com/jonathan/interview-coach/internal/resume"
)

// ErrValidation indicates a malformed request.
type ErrValidation = interview.ValidationError

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var validation *interview.ValidationError
	var parseErr *resume.ParseError
	switch {
	case errors.Is(err, interview.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, interview.ErrConflict):
		return http.StatusConflict
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.Is(err, resume.ErrUnsupported):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &parseErr), errors.Is(err, resume.ErrEmpty):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage hides internal failure details from clients.
func publicMessage(err error, status int) string {
	if status == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}
