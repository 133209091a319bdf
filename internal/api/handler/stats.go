package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mcoot/connectfour/internal/api/request"
	"github.com/mcoot/connectfour/internal/api/response"
	"github.com/mcoot/connectfour/internal/services/stats"
)

// StatsHandler handles the result-recording endpoints
type StatsHandler struct {
	stats  *stats.Service
	logger *slog.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *stats.Service, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{
		stats:  statsService,
		logger: logger,
	}
}

// RecordWin handles POST /actualizar_estadisticas
func (h *StatsHandler) RecordWin(w http.ResponseWriter, r *http.Request) {
	var req request.WinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		invalidBody(w)
		return
	}

	if err := h.stats.RecordWin(r.Context(), req.Ganador, req.Perdedor); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, response.OK)
}

// RecordDraw handles POST /actualizar_empate
func (h *StatsHandler) RecordDraw(w http.ResponseWriter, r *http.Request) {
	var req request.PairRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		invalidBody(w)
		return
	}

	if err := h.stats.RecordDraw(r.Context(), req.Jugador1, req.Jugador2); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, response.OK)
}
