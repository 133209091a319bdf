package response

import (
	"github.com/mcoot/connectfour/internal/model"
)

// Result is the plain acknowledgement returned by mutating endpoints
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// OK is the acknowledgement of a successful call
var OK = Result{Success: true}

// SessionCreated is the response for the session creation endpoints
type SessionCreated struct {
	Success   bool  `json:"success"`
	IDPartida int64 `json:"id_partida"`
}

// SessionCreatedFromModel converts a created model.Session
func SessionCreatedFromModel(s *model.Session) SessionCreated {
	return SessionCreated{Success: true, IDPartida: int64(s.ID)}
}

// LeaderboardEntry represents a player in the leaderboard
type LeaderboardEntry struct {
	Identificacion string `json:"Identificacion"`
	Nombre         string `json:"Nombre"`
	Puntuacion     int    `json:"Puntuacion"`
	Ganadas        int    `json:"Ganadas"`
	Empatadas      int    `json:"Empatadas"`
	Perdidas       int    `json:"Perdidas"`
}

// LeaderboardFromModel converts the ordered players, keeping their order
func LeaderboardFromModel(players []model.Player) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, len(players))
	for i, p := range players {
		entries[i] = LeaderboardEntry{
			Identificacion: string(p.Identity),
			Nombre:         p.Name,
			Puntuacion:     p.Score,
			Ganadas:        p.Wins,
			Empatadas:      p.Draws,
			Perdidas:       p.Losses,
		}
	}
	return entries
}

// PlayerStats holds the counters of one player
type PlayerStats struct {
	Puntuacion int `json:"Puntuacion"`
	Ganadas    int `json:"Ganadas"`
	Empatadas  int `json:"Empatadas"`
	Perdidas   int `json:"Perdidas"`
}

// PlayerStatsFromModel converts model.PlayerStats
func PlayerStatsFromModel(s model.PlayerStats) PlayerStats {
	return PlayerStats{
		Puntuacion: s.Score,
		Ganadas:    s.Wins,
		Empatadas:  s.Draws,
		Perdidas:   s.Losses,
	}
}

// SessionSummary represents a session in listings
type SessionSummary struct {
	PartidaID int64  `json:"PartidaID"`
	Jugador1  string `json:"Jugador1"`
	Jugador2  string `json:"Jugador2"`
	Estado    string `json:"Estado"`
	Fecha     string `json:"Fecha"`
}

// SessionSummariesFromModel converts the listed sessions, keeping their order
func SessionSummariesFromModel(sessions []model.Session) []SessionSummary {
	summaries := make([]SessionSummary, len(sessions))
	for i := range sessions {
		s := &sessions[i]
		summaries[i] = SessionSummary{
			PartidaID: int64(s.ID),
			Jugador1:  s.Player.Name,
			Jugador2:  s.Opponent.Name,
			Estado:    string(s.Status),
			Fecha:     s.CreatedAtString(),
		}
	}
	return summaries
}

// Health is the response of the health check
type Health struct {
	Status string `json:"status"`
}
