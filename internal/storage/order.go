package storage

import (
	"sort"

	"github.com/mcoot/connectfour/internal/model"
)

// SortLeaderboard orders players by score descending, then name ascending
// (byte order, as stored)
func SortLeaderboard(players []model.Player) {
	sort.SliceStable(players, func(i, j int) bool {
		if players[i].Score != players[j].Score {
			return players[i].Score > players[j].Score
		}
		return players[i].Name < players[j].Name
	})
}

// SortSessions orders sessions newest first. Ids break ties between sessions
// created within the same instant.
func SortSessions(sessions []model.Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		if !sessions[i].CreatedAt.Equal(sessions[j].CreatedAt) {
			return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
		}
		return sessions[i].ID > sessions[j].ID
	})
}
