package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Common sentinel errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnavailable  = errors.New("service unavailable")
	ErrInternal     = errors.New("internal error")
)

// AppError is an error that knows its HTTP status. Error() is what clients see as detail.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// Invalid reports a request the client must fix (422, as the frontend expects).
func Invalid(message string) *AppError {
	return New(http.StatusUnprocessableEntity, message, nil)
}

// Unavailable reports a backend collaborator that was never configured.
func Unavailable(message string) *AppError {
	return New(http.StatusServiceUnavailable, message, nil)
}

// Internal wraps an unexpected fault behind a caller-facing prefix.
func Internal(message string, err error) *AppError {
	return New(http.StatusInternalServerError, message, err)
}

// MapError maps any error to an AppError with an appropriate HTTP status code.
func MapError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrInvalidInput):
		return New(http.StatusUnprocessableEntity, "Invalid request", err)
	case errors.Is(err, ErrUnavailable):
		return New(http.StatusServiceUnavailable, "Service unavailable", err)
	}

	return New(http.StatusInternalServerError, "Internal server error", err)
}
