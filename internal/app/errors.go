package app

import (
	"errors"
	"fmt"
	"net/http"

	"doctalkie/internal/extract"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrInvalidAPIKey     = errors.New("Invalid API Key")
	ErrForbidden         = errors.New("Assistant not found or access denied")
	ErrBotNotFound       = errors.New("Assistant not found or invalid ID")
	ErrContextTooLarge   = errors.New("context too large")
	ErrPersistence       = errors.New("database error")
	ErrUpstream          = errors.New("llm processing failed")
	ErrEmailExists       = errors.New("email already registered")
	ErrInvalidCredential = errors.New("invalid email or password")
	ErrBotLimitReached   = errors.New("bot limit reached for current plan")
)

// ContextTooLargeError carries the measured and allowed context sizes.
type ContextTooLargeError struct {
	Size  int
	Limit int
}

func (e *ContextTooLargeError) Error() string {
	return fmt.Sprintf("Context is too large (%d characters). The maximum allowed is %d characters.", e.Size, e.Limit)
}

func (e *ContextTooLargeError) Unwrap() error { return ErrContextTooLarge }

func persistenceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrPersistence, op, err)
}

// StatusOf maps a service error to its HTTP status.
func StatusOf(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrInvalidAPIKey), errors.Is(err, ErrInvalidCredential):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrBotLimitReached):
		return http.StatusForbidden
	case errors.Is(err, ErrBotNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmailExists):
		return http.StatusConflict
	case errors.Is(err, ErrContextTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, extract.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}
