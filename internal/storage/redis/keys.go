package redis

import (
	"fmt"

	"github.com/mcoot/connectfour/internal/model"
)

// Key prefix for all Connect-Four data
const keyPrefix = "c4"

// Hash fields of a player
const (
	fieldIdentity = "identity"
	fieldName     = "name"
	fieldScore    = "score"
	fieldWins     = "wins"
	fieldDraws    = "draws"
	fieldLosses   = "losses"
)

// Hash fields of a session
const (
	fieldPlayer    = "player"
	fieldOpponent  = "opponent"
	fieldStatus    = "status"
	fieldBoard     = "board"
	fieldCreatedAt = "created_at"
)

// playerKey returns the Redis key for the HASH of a player
func playerKey(identity model.PlayerIdentity) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, identity)
}

// playersIndexKey returns the Redis key for the SET of every player identity
func playersIndexKey() string {
	return fmt.Sprintf("%s:idx:players", keyPrefix)
}

// nameIndexKey returns the Redis key for the case-folded name -> identity index
func nameIndexKey(name string) string {
	return fmt.Sprintf("%s:idx:name:%s", keyPrefix, model.NameKey(name))
}

// sessionSeqKey returns the Redis key of the session id counter
func sessionSeqKey() string {
	return fmt.Sprintf("%s:seq:session", keyPrefix)
}

// sessionKey returns the Redis key for the HASH of a session
func sessionKey(id model.SessionID) string {
	return fmt.Sprintf("%s:session:%d", keyPrefix, id)
}

// sessionsIndexKey returns the Redis key for the ZSET of every session id, scored by creation time
func sessionsIndexKey() string {
	return fmt.Sprintf("%s:idx:sessions", keyPrefix)
}

// pairIndexKey returns the Redis key for the ZSET of in-progress sessions between two players.
// Both orders of the pair share the key.
func pairIndexKey(a, b model.PlayerIdentity) string {
	a, b = model.PairKey(a, b)
	return fmt.Sprintf("%s:idx:pair:%s|%s", keyPrefix, a, b)
}
