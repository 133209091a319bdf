package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Board dimensions
const (
	BoardRows = 6
	BoardCols = 7
)

// Keys of the board-state payload
const (
	boardField = "tablero"
	turnField  = "turno"
)

// Cell is the content of a single board position.
// On the wire an empty cell is null, mark A is 0 and mark B is 1.
type Cell uint8

const (
	CellEmpty Cell = iota
	CellMarkA
	CellMarkB
)

// MarshalJSON encodes the cell as null, 0 or 1
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c {
	case CellMarkA:
		return []byte("0"), nil
	case CellMarkB:
		return []byte("1"), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON never fails: anything other than the numbers 0 and 1 is an empty cell
func (c *Cell) UnmarshalJSON(data []byte) error {
	*c = parseCell(data)
	return nil
}

func parseCell(raw []byte) Cell {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return CellEmpty
	}
	n, ok := v.(json.Number)
	if !ok {
		return CellEmpty
	}
	f, err := n.Float64()
	if err != nil {
		return CellEmpty
	}

	switch f {
	case 0:
		return CellMarkA
	case 1:
		return CellMarkB
	default:
		return CellEmpty
	}
}

// Board is the 6x7 Connect-Four grid, row 0 at the top
type Board [BoardRows][BoardCols]Cell

// UnmarshalJSON decodes a grid of any shape, padding or truncating it to 6x7.
// Rows that are not arrays become empty rows.
func (b *Board) UnmarshalJSON(data []byte) error {
	*b = Board{}

	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil
	}

	for r := 0; r < BoardRows && r < len(rows); r++ {
		var cells []json.RawMessage
		if err := json.Unmarshal(rows[r], &cells); err != nil {
			continue
		}
		for c := 0; c < BoardCols && c < len(cells); c++ {
			b[r][c] = parseCell(cells[c])
		}
	}
	return nil
}

// Count returns how many cells hold the given value
func (b *Board) Count(cell Cell) int {
	n := 0
	for r := range b {
		for c := range b[r] {
			if b[r][c] == cell {
				n++
			}
		}
	}
	return n
}

// BoardState is the payload stored with a session: the grid plus whose turn it is.
// Keys other than the grid and turn are kept verbatim so clients can round-trip
// their own bookkeeping.
type BoardState struct {
	Board Board
	Turn  int

	extra map[string]json.RawMessage
}

// NewBoardState returns an all-empty board with turn 0
func NewBoardState() BoardState {
	return BoardState{}
}

// ParseBoardState decodes and normalizes a payload
func ParseBoardState(data []byte) (BoardState, error) {
	var s BoardState
	if err := s.UnmarshalJSON(data); err != nil {
		return BoardState{}, err
	}
	return s, nil
}

// MarshalJSON encodes the normalized payload
func (s BoardState) MarshalJSON() ([]byte, error) {
	fields := make(map[string]any, len(s.extra)+2)
	for k, v := range s.extra {
		fields[k] = v
	}
	fields[boardField] = s.Board
	fields[turnField] = s.Turn
	return json.Marshal(fields)
}

// UnmarshalJSON accepts any JSON object and normalizes the grid and turn.
// Only a payload that is not an object is rejected.
func (s *BoardState) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return fmt.Errorf("%w: payload must be a JSON object", ErrInvalidBoardState)
	}

	var state BoardState
	if raw, ok := fields[boardField]; ok {
		_ = state.Board.UnmarshalJSON(raw)
	}
	state.Turn = parseTurn(fields[turnField])

	delete(fields, boardField)
	delete(fields, turnField)
	if len(fields) > 0 {
		state.extra = fields
	}

	*s = state
	return nil
}

// Extra returns a preserved client key, if present
func (s *BoardState) Extra(key string) (json.RawMessage, bool) {
	v, ok := s.extra[key]
	return v, ok
}

func parseTurn(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var n json.Number
	if err := dec.Decode(&n); err != nil {
		return 0
	}
	v, err := n.Int64()
	if err != nil {
		return 0
	}
	return int(v)
}
