// Package views holds the HTML components of the menu and game pages.
// The *_templ.go files are generated from the .templ sources by templ generate.
package views

import (
	"encoding/json"
	"net/url"

	"github.com/mcoot/connectfour/internal/model"
)

// MenuData is everything the landing page shows
type MenuData struct {
	Leaderboard []model.Player
	Sessions    []model.Session
}

// GameData describes one session as shown by the game and read-only views.
// Stats are nil when a player could not be looked up.
type GameData struct {
	Session *model.Session
	Stats1  *model.PlayerStats
	Stats2  *model.PlayerStats
}

// GameURL is the address of the interactive view of a session
func GameURL(id model.SessionID, player1, player2 string) string {
	q := url.Values{}
	q.Set("id_partida", id.String())
	q.Set("jugador1", player1)
	q.Set("jugador2", player2)
	return "/juego?" + q.Encode()
}

// ViewURL is the address of the read-only view of a session
func ViewURL(id model.SessionID) string {
	return "/ver_partida?id_partida=" + id.String()
}

// sessionLink points finished sessions at the read-only view and the rest at the game
func sessionLink(s *model.Session) string {
	if s.IsFinished() {
		return ViewURL(s.ID)
	}
	return GameURL(s.ID, s.Player.Name, s.Opponent.Name)
}

func boardJSON(state model.BoardState) (string, error) {
	b, err := json.Marshal(state)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func cellClass(c model.Cell) string {
	switch c {
	case model.CellMarkA:
		return "celda ficha-0"
	case model.CellMarkB:
		return "celda ficha-1"
	default:
		return "celda"
	}
}
