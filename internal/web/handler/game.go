package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/mcoot/connectfour/internal/middleware"
	"github.com/mcoot/connectfour/internal/model"
	"github.com/mcoot/connectfour/internal/services/players"
	"github.com/mcoot/connectfour/internal/services/sessions"
	"github.com/mcoot/connectfour/internal/web/views"
)

// GameHandler handles the game and read-only views
type GameHandler struct {
	players  *players.Service
	sessions *sessions.Service
	logger   *slog.Logger
}

// NewGameHandler creates a new GameHandler
func NewGameHandler(playerService *players.Service, sessionService *sessions.Service, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		players:  playerService,
		sessions: sessionService,
		logger:   logger,
	}
}

// Play handles GET /juego. Without id_partida it starts a session and redirects
// to it; a finished session redirects to the read-only view.
func (h *GameHandler) Play(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	player1, player2 := q.Get("jugador1"), q.Get("jugador2")
	if player1 == "" || player2 == "" {
		writeError(w, r, h.logger, model.NewValidationError("", "jugador1 and jugador2 are required"))
		return
	}

	if q.Get("id_partida") == "" {
		h.createAndRedirect(w, r, player1, player2)
		return
	}

	id, err := model.ParseSessionID(q.Get("id_partida"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	session, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if session.IsFinished() {
		http.Redirect(w, r, views.ViewURL(session.ID), http.StatusSeeOther)
		return
	}

	h.renderSession(w, r, session, views.Game)
}

// View handles GET /ver_partida
func (h *GameHandler) View(w http.ResponseWriter, r *http.Request) {
	id, err := model.ParseSessionID(r.URL.Query().Get("id_partida"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	session, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.renderSession(w, r, session, views.Viewer)
}

// CreateFromMenu handles GET /api/crear_partida_front, the target of the menu form
func (h *GameHandler) CreateFromMenu(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	player1, player2 := q.Get("jugador1"), q.Get("jugador2")
	if player1 == "" || player2 == "" {
		writeError(w, r, h.logger, model.NewValidationError("", "jugador1 and jugador2 are required"))
		return
	}
	h.createAndRedirect(w, r, player1, player2)
}

func (h *GameHandler) createAndRedirect(w http.ResponseWriter, r *http.Request, player1, player2 string) {
	session, err := h.sessions.Create(r.Context(), player1, player2, nil)
	if err != nil {
		writeError(w, r, h.logger, withStatus(err, http.StatusBadRequest, model.ErrPlayerNotFound))
		return
	}
	http.Redirect(w, r, views.GameURL(session.ID, player1, player2), http.StatusSeeOther)
}

func (h *GameHandler) renderSession(w http.ResponseWriter, r *http.Request, session *model.Session, page func(views.GameData) templ.Component) {
	data := views.GameData{
		Session: session,
		Stats1:  h.stats(r, session.Player.Name),
		Stats2:  h.stats(r, session.Opponent.Name),
	}
	title := session.Player.Name + " vs " + session.Opponent.Name
	render(w, r, h.logger, views.Layout(title, page(data)))
}

// stats returns nil when the player's counters cannot be loaded; the page still renders
func (h *GameHandler) stats(r *http.Request, name string) *model.PlayerStats {
	s, err := h.players.Stats(r.Context(), name)
	if err != nil {
		if !errors.Is(err, model.ErrPlayerNotFound) {
			h.logger.Warn("could not load player stats",
				slog.String("request_id", middleware.RequestIDFrom(r.Context())),
				slog.String("player", name),
				slog.String("error", err.Error()),
			)
		}
		return nil
	}
	return &s
}
