package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/connectfour/internal/services/players"
	"github.com/mcoot/connectfour/internal/services/sessions"
	"github.com/mcoot/connectfour/internal/web/views"
)

// HomeHandler handles the menu page
type HomeHandler struct {
	players  *players.Service
	sessions *sessions.Service
	logger   *slog.Logger
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(playerService *players.Service, sessionService *sessions.Service, logger *slog.Logger) *HomeHandler {
	return &HomeHandler{
		players:  playerService,
		sessions: sessionService,
		logger:   logger,
	}
}

// Home renders the menu with the leaderboard and every session
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	leaderboard, err := h.players.Leaderboard(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	list, err := h.sessions.List(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	page := views.Layout("Conecta 4", views.Menu(views.MenuData{
		Leaderboard: leaderboard,
		Sessions:    list,
	}))
	render(w, r, h.logger, page)
}
