package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/connectfour/internal/model"
)

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{model.NewValidationError("jugador1", "required"), http.StatusBadRequest, CodeInvalidRequest},
		{fmt.Errorf("decode: %w", model.ErrInvalidBoardState), http.StatusBadRequest, CodeInvalidBoard},
		{fmt.Errorf("jugador2 %q: %w", "X", model.ErrPlayerNotFound), http.StatusNotFound, CodePlayerNotFound},
		{model.ErrDuplicatePlayer, http.StatusConflict, CodeDuplicatePlayer},
		{model.ErrSamePlayer, http.StatusBadRequest, CodeSamePlayer},
		{model.ErrSessionNotFound, http.StatusNotFound, CodeSessionNotFound},
		{model.ErrNoSessionInProgress, http.StatusNotFound, CodeNoSessionInProgress},
		{model.ErrSessionFinished, http.StatusBadRequest, CodeSessionFinished},
		{model.ErrConcurrentUpdate, http.StatusConflict, CodeConcurrentUpdate},
		{fmt.Errorf("ping: %w", model.ErrStoreUnavailable), http.StatusInternalServerError, CodeStoreUnavailable},
		{errors.New("disk on fire"), http.StatusInternalServerError, CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteError(rr, tt.err)

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.status, Status(tt.err))

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestInternalErrorsDoNotLeak(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, errors.New("pq: password authentication failed"))

	assert.NotContains(t, rr.Body.String(), "password")
	assert.Contains(t, rr.Body.String(), "Internal server error")
}

func TestWithStatusKeepsCode(t *testing.T) {
	err := WithStatus(fmt.Errorf("jugador1: %w", model.ErrPlayerNotFound), http.StatusBadRequest)

	rr := httptest.NewRecorder()
	WriteError(rr, err)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), CodePlayerNotFound)
}

func TestValidationMessage(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, model.NewValidationError("partida", "board state is required"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "partida: board state is required", body.Error.Message)
}
