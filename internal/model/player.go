package model

import "strings"

// PlayerIdentity is the identity-document string that uniquely identifies a player
type PlayerIdentity string

// Player is a registered participant together with their cumulative results
type Player struct {
	Identity PlayerIdentity
	Name     string // unique, compared case-insensitively at registration
	Score    int    // wins minus losses; may go negative
	Wins     int
	Draws    int
	Losses   int
}

// Stats returns the counters of the player
func (p *Player) Stats() PlayerStats {
	return PlayerStats{
		Score:  p.Score,
		Wins:   p.Wins,
		Draws:  p.Draws,
		Losses: p.Losses,
	}
}

// PlayerStats holds the four counters shown next to a player on the board
type PlayerStats struct {
	Score  int
	Wins   int
	Draws  int
	Losses int
}

// NewPlayer builds a fresh player with every counter at zero.
// Name and identity are trimmed; blank values yield a ValidationError.
func NewPlayer(name, identity string) (*Player, error) {
	name = strings.TrimSpace(name)
	identity = strings.TrimSpace(identity)

	if name == "" {
		return nil, NewValidationError("nombre", "name is required")
	}
	if identity == "" {
		return nil, NewValidationError("identificacion", "identity is required")
	}

	return &Player{
		Identity: PlayerIdentity(identity),
		Name:     name,
	}, nil
}

// NameKey is the case-insensitive form of a player name used for uniqueness checks
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
