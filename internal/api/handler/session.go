package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mcoot/connectfour/internal/api/request"
	"github.com/mcoot/connectfour/internal/api/response"
	"github.com/mcoot/connectfour/internal/model"
	"github.com/mcoot/connectfour/internal/services/sessions"
)

// SessionHandler handles game-session endpoints
type SessionHandler struct {
	sessions *sessions.Service
	logger   *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService *sessions.Service, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessionService,
		logger:   logger,
	}
}

// Create handles POST /api/crear_partida
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		invalidBody(w)
		return
	}

	board, err := request.OptionalBoard(req.Partida)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	session, err := h.sessions.Create(r.Context(), req.Jugador1, req.Jugador2, board)
	if err != nil {
		writeError(w, r, h.logger, withStatus(err, http.StatusBadRequest, model.ErrPlayerNotFound))
		return
	}

	response.JSON(w, http.StatusOK, response.SessionCreatedFromModel(session))
}

// Rematch handles POST /api/crear_nueva_partida
func (h *SessionHandler) Rematch(w http.ResponseWriter, r *http.Request) {
	var req request.RematchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		invalidBody(w)
		return
	}

	previous, err := request.OptionalSessionID(req.IDPartidaOriginal)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	session, err := h.sessions.Rematch(r.Context(), req.Jugador1, req.Jugador2, previous)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionCreatedFromModel(session))
}

// FinishLatest handles POST /api/terminar_partida
func (h *SessionHandler) FinishLatest(w http.ResponseWriter, r *http.Request) {
	var req request.PairRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		invalidBody(w)
		return
	}

	if _, err := h.sessions.FinishLatest(r.Context(), req.Jugador1, req.Jugador2); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, response.OK)
}

// UpdateLatest handles POST /api/actualizar_partida
func (h *SessionHandler) UpdateLatest(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateLatestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		invalidBody(w)
		return
	}

	board, err := request.Board(req.Partida)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if _, err := h.sessions.UpdateLatestBoard(r.Context(), req.Jugador1, req.Jugador2, board); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, response.OK)
}

// List handles GET /api/listar_partidas
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.sessions.List(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionSummariesFromModel(list))
}

// UpdateByID handles POST /api/actualizar_partida_por_id
func (h *SessionHandler) UpdateByID(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateByIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		invalidBody(w)
		return
	}

	id, err := request.SessionID(req.IDPartida)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	board, err := request.Board(req.Partida)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.sessions.UpdateBoard(r.Context(), id, board); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, response.OK)
}

// FinishByID handles POST /api/terminar_partida_por_id
func (h *SessionHandler) FinishByID(w http.ResponseWriter, r *http.Request) {
	var req request.FinishByIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		invalidBody(w)
		return
	}

	id, err := request.SessionID(req.IDPartida)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.sessions.Finish(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, response.OK)
}
