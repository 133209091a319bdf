package model

import (
	"strconv"
	"strings"
	"time"
)

// SessionID is the storage-generated numeric identifier of a session
type SessionID int64

// ParseSessionID parses a session id from a query or path parameter
func ParseSessionID(raw string) (SessionID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, NewValidationError("id_partida", "session id is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, NewValidationError("id_partida", "session id must be a positive integer")
	}
	return SessionID(id), nil
}

// String returns the decimal form of the id
func (id SessionID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// SessionStatus is the lifecycle phase of a session.
// The values are the ones persisted and returned to clients.
type SessionStatus string

const (
	SessionInProgress SessionStatus = "En progreso"
	SessionFinished   SessionStatus = "Terminada"
)

// TimestampLayout is the format of session creation times in listings
const TimestampLayout = "2006-01-02 15:04:05"

// PlayerRef is a player as referenced by a session
type PlayerRef struct {
	Identity PlayerIdentity
	Name     string
}

// Session is one Connect-Four match between two registered players
type Session struct {
	ID        SessionID
	Player    PlayerRef
	Opponent  PlayerRef
	Status    SessionStatus
	Board     BoardState
	CreatedAt time.Time
}

// IsFinished returns true once the session can no longer be updated
func (s *Session) IsFinished() bool {
	return s.Status == SessionFinished
}

// CreatedAtString formats the creation time for listings
func (s *Session) CreatedAtString() string {
	return s.CreatedAt.UTC().Format(TimestampLayout)
}

// Involves reports whether the session is between the two identities, in either order
func (s *Session) Involves(a, b PlayerIdentity) bool {
	return (s.Player.Identity == a && s.Opponent.Identity == b) ||
		(s.Player.Identity == b && s.Opponent.Identity == a)
}

// PairKey orders two identities so that A-vs-B and B-vs-A share one key
func PairKey(a, b PlayerIdentity) (PlayerIdentity, PlayerIdentity) {
	if b < a {
		return b, a
	}
	return a, b
}
