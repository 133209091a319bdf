package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoardStateIsEmpty(t *testing.T) {
	s := NewBoardState()

	assert.Equal(t, BoardRows*BoardCols, s.Board.Count(CellEmpty))
	assert.Equal(t, 0, s.Turn)

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.EqualValues(t, 0, decoded["turno"])

	rows, ok := decoded["tablero"].([]any)
	require.True(t, ok)
	require.Len(t, rows, BoardRows)
	for _, row := range rows {
		cells, ok := row.([]any)
		require.True(t, ok)
		require.Len(t, cells, BoardCols)
		for _, cell := range cells {
			assert.Nil(t, cell)
		}
	}
}

func TestBoardStateNormalizesCells(t *testing.T) {
	payload := `{
		"tablero": [
			[0, 1, 2, "1", true, -1, 1.0],
			[null, {"x": 1}, [0], 0, 1, 0.5, 0]
		],
		"turno": 3
	}`

	s, err := ParseBoardState([]byte(payload))
	require.NoError(t, err)

	assert.Equal(t, 3, s.Turn)
	assert.Equal(t, [BoardCols]Cell{CellMarkA, CellMarkB, CellEmpty, CellEmpty, CellEmpty, CellEmpty, CellMarkB}, s.Board[0])
	assert.Equal(t, [BoardCols]Cell{CellEmpty, CellEmpty, CellEmpty, CellMarkA, CellMarkB, CellEmpty, CellMarkA}, s.Board[1])
	for r := 2; r < BoardRows; r++ {
		for c := 0; c < BoardCols; c++ {
			assert.Equal(t, CellEmpty, s.Board[r][c])
		}
	}
}

func TestBoardStatePadsAndTruncates(t *testing.T) {
	payload := `{"tablero": [[1,1,1,1,1,1,1,1,1],[0],[],[],[],[],[],[0,0]], "turno": 1}`

	s, err := ParseBoardState([]byte(payload))
	require.NoError(t, err)

	assert.Equal(t, BoardCols, s.Board.Count(CellMarkB))
	assert.Equal(t, CellMarkA, s.Board[1][0])
	assert.Equal(t, CellEmpty, s.Board[1][1])
	assert.Equal(t, 1, s.Board.Count(CellMarkA))
}

func TestBoardStateNonArrayBoardBecomesEmpty(t *testing.T) {
	s, err := ParseBoardState([]byte(`{"tablero": "garbage", "turno": "x"}`))
	require.NoError(t, err)

	assert.Equal(t, BoardRows*BoardCols, s.Board.Count(CellEmpty))
	assert.Equal(t, 0, s.Turn)
}

func TestBoardStateRejectsNonObject(t *testing.T) {
	for _, payload := range []string{`null`, `[]`, `"board"`, `42`, `{`} {
		_, err := ParseBoardState([]byte(payload))
		assert.ErrorIs(t, err, ErrInvalidBoardState, "payload %s", payload)
	}
}

func TestBoardStateKeepsExtraKeys(t *testing.T) {
	payload := `{"tablero": [], "turno": 1, "ganador": "Ana"}`

	s, err := ParseBoardState([]byte(payload))
	require.NoError(t, err)

	raw, ok := s.Extra("ganador")
	require.True(t, ok)
	assert.JSONEq(t, `"Ana"`, string(raw))

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Ana", decoded["ganador"])
	assert.EqualValues(t, 1, decoded["turno"])
}

func TestBoardStateRoundTripIsStable(t *testing.T) {
	s := NewBoardState()
	s.Board[5][3] = CellMarkA
	s.Board[4][3] = CellMarkB
	s.Turn = 1

	first, err := json.Marshal(s)
	require.NoError(t, err)

	again, err := ParseBoardState(first)
	require.NoError(t, err)
	assert.Equal(t, s, again)

	second, err := json.Marshal(again)
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(second))
}
