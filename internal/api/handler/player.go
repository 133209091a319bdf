package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mcoot/connectfour/internal/api/response"
	"github.com/mcoot/connectfour/internal/model"
	"github.com/mcoot/connectfour/internal/services/players"
)

// Messages of the registration form, shown to players as-is
const (
	msgRegistered     = "¡%s registrado con éxito!"
	msgMissingFields  = "Debe ingresar nombre e identificación"
	msgDuplicate      = "El nombre o identificación ya existen"
	msgRegisterFailed = "No se pudo registrar al jugador"
)

// PlayerHandler handles player-related endpoints
type PlayerHandler struct {
	players *players.Service
	logger  *slog.Logger
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(playerService *players.Service, logger *slog.Logger) *PlayerHandler {
	return &PlayerHandler{
		players: playerService,
		logger:  logger,
	}
}

// Register handles POST /registro (form fields nombre, identificacion).
// Every outcome answers {success, message}; a duplicate is reported with 200.
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		response.JSON(w, http.StatusBadRequest, response.Result{Message: msgMissingFields})
		return
	}

	player, err := h.players.Register(r.Context(), r.PostForm.Get("nombre"), r.PostForm.Get("identificacion"))
	switch {
	case err == nil:
		response.JSON(w, http.StatusOK, response.Result{
			Success: true,
			Message: fmt.Sprintf(msgRegistered, player.Name),
		})
	case model.IsValidation(err):
		response.JSON(w, http.StatusBadRequest, response.Result{Message: msgMissingFields})
	case errors.Is(err, model.ErrDuplicatePlayer):
		response.JSON(w, http.StatusOK, response.Result{Message: msgDuplicate})
	default:
		h.logger.Error("registration failed", slog.String("error", err.Error()))
		response.JSON(w, http.StatusInternalServerError, response.Result{Message: msgRegisterFailed})
	}
}

// Leaderboard handles GET /api/escalafon
func (h *PlayerHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	list, err := h.players.Leaderboard(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LeaderboardFromModel(list))
}

// Stats handles GET /api/estadisticas?nombre=
func (h *PlayerHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.players.Stats(r.Context(), r.URL.Query().Get("nombre"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerStatsFromModel(stats))
}
