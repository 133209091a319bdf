package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/connectfour/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError. Success is always false.
type ErrorResponse struct {
	Success bool     `json:"success"`
	Error   APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeInvalidBoard        = "INVALID_BOARD"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodeDuplicatePlayer     = "DUPLICATE_PLAYER"
	CodeSamePlayer          = "SAME_PLAYER"
	CodeSessionNotFound     = "SESSION_NOT_FOUND"
	CodeNoSessionInProgress = "NO_SESSION_IN_PROGRESS"
	CodeSessionFinished     = "SESSION_FINISHED"
	CodeConcurrentUpdate    = "CONCURRENT_UPDATE"
	CodeStoreUnavailable    = "STORE_UNAVAILABLE"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Success: false, Error: he.apiError})
}

// Status returns the HTTP status WriteError would use for err
func Status(err error) int {
	return toHTTPError(err).status
}

// WithStatus keeps the code and message err maps to but answers with status.
// Call sites use it where the same domain error means 400 in one place and 404 in another.
func WithStatus(err error, status int) error {
	he := *toHTTPError(err)
	he.status = status
	return &he
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	var ve *model.ValidationError
	if errors.As(err, &ve) {
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, ve.Error()}}
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrInvalidBoardState):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidBoard, "partida must be a JSON object"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrDuplicatePlayer):
		return &httpError{http.StatusConflict, APIError{CodeDuplicatePlayer, "Player name or identity already exists"}}
	case errors.Is(err, model.ErrSamePlayer):
		return &httpError{http.StatusBadRequest, APIError{CodeSamePlayer, "A session needs two different players"}}
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSessionNotFound, "Session not found"}}
	case errors.Is(err, model.ErrNoSessionInProgress):
		return &httpError{http.StatusNotFound, APIError{CodeNoSessionInProgress, "No session in progress between these players"}}
	case errors.Is(err, model.ErrSessionFinished):
		return &httpError{http.StatusBadRequest, APIError{CodeSessionFinished, "Session is not in progress"}}
	case errors.Is(err, model.ErrConcurrentUpdate):
		return &httpError{http.StatusConflict, APIError{CodeConcurrentUpdate, "Concurrent update, try again"}}
	case errors.Is(err, model.ErrStoreUnavailable):
		return &httpError{http.StatusInternalServerError, APIError{CodeStoreUnavailable, "Storage unavailable"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
