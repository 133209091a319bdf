package request

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/mcoot/connectfour/internal/model"
)

// PairRequest names the two players of a session, in either order
type PairRequest struct {
	Jugador1 string `json:"jugador1"`
	Jugador2 string `json:"jugador2"`
}

// CreateSessionRequest is the request body for creating a session.
// Partida is optional; an absent or null board starts empty.
type CreateSessionRequest struct {
	Jugador1 string          `json:"jugador1"`
	Jugador2 string          `json:"jugador2"`
	Partida  json.RawMessage `json:"partida,omitempty"`
}

// UpdateLatestRequest is the request body for updating the newest in-progress session of a pair
type UpdateLatestRequest struct {
	Jugador1 string          `json:"jugador1"`
	Jugador2 string          `json:"jugador2"`
	Partida  json.RawMessage `json:"partida"`
}

// UpdateByIDRequest is the request body for updating a session by id
type UpdateByIDRequest struct {
	IDPartida json.Number     `json:"id_partida"`
	Partida   json.RawMessage `json:"partida"`
}

// FinishByIDRequest is the request body for finishing a session by id
type FinishByIDRequest struct {
	IDPartida json.Number `json:"id_partida"`
}

// RematchRequest is the request body for starting a new session after a previous one
type RematchRequest struct {
	Jugador1          string      `json:"jugador1"`
	Jugador2          string      `json:"jugador2"`
	IDPartidaOriginal json.Number `json:"id_partida_original,omitempty"`
}

// WinRequest is the request body for recording a win
type WinRequest struct {
	Ganador  string `json:"ganador"`
	Perdedor string `json:"perdedor"`
}

// SessionID parses a required session id; ids may be sent as numbers or numeric strings
func SessionID(raw json.Number) (model.SessionID, error) {
	return model.ParseSessionID(raw.String())
}

// OptionalSessionID parses a session id that may be absent, returning 0 when it is
func OptionalSessionID(raw json.Number) (model.SessionID, error) {
	if strings.TrimSpace(raw.String()) == "" {
		return 0, nil
	}
	return model.ParseSessionID(raw.String())
}

// Board decodes and normalizes a required board payload
func Board(raw json.RawMessage) (model.BoardState, error) {
	if isAbsent(raw) {
		return model.BoardState{}, model.NewValidationError("partida", "board state is required")
	}
	return model.ParseBoardState(raw)
}

// OptionalBoard decodes a board payload that may be absent, returning nil when it is
func OptionalBoard(raw json.RawMessage) (*model.BoardState, error) {
	if isAbsent(raw) {
		return nil, nil
	}
	state, err := model.ParseBoardState(raw)
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
