package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound  = errors.New("player not found")
	ErrDuplicatePlayer = errors.New("player name or identity already exists")
	ErrSamePlayer      = errors.New("a session needs two distinct players")

	// Session errors
	ErrSessionNotFound     = errors.New("session not found")
	ErrNoSessionInProgress = errors.New("no session in progress between these players")
	ErrSessionFinished     = errors.New("session is not in progress")

	// Board errors
	ErrInvalidBoardState = errors.New("invalid board state")

	// Store errors
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrConcurrentUpdate = errors.New("concurrent update")
)

// ValidationError reports a missing or malformed request field
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a ValidationError for the given field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is (or wraps) a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
