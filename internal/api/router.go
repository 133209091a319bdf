package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/connectfour/internal/api/handler"
	"github.com/mcoot/connectfour/internal/api/middleware"
	"github.com/mcoot/connectfour/internal/services/players"
	"github.com/mcoot/connectfour/internal/services/sessions"
	"github.com/mcoot/connectfour/internal/services/stats"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	Store          handler.Pinger
	PlayerService  *players.Service
	SessionService *sessions.Service
	StatsService   *stats.Service
}

// NewRouter creates a new API router with all routes configured.
// Besides /api/* it serves the three form/JSON endpoints the game page posts to at the root.
// Routes hang off the root router, not a subrouter, so a wrong method answers 405.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.PlayerService, cfg.Logger)
	sessionHandler := handler.NewSessionHandler(cfg.SessionService, cfg.Logger)
	statsHandler := handler.NewStatsHandler(cfg.StatsService, cfg.Logger)
	healthHandler := handler.NewHealthHandler(cfg.Store, cfg.Logger)

	// Apply middleware to every route
	r.Use(middleware.Recovery(cfg.Logger))

	// Root endpoints used by the menu and game pages
	r.HandleFunc("/registro", playerHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/actualizar_estadisticas", statsHandler.RecordWin).Methods(http.MethodPost)
	r.HandleFunc("/actualizar_empate", statsHandler.RecordDraw).Methods(http.MethodPost)

	// Player routes
	r.HandleFunc("/api/escalafon", playerHandler.Leaderboard).Methods(http.MethodGet)
	r.HandleFunc("/api/estadisticas", playerHandler.Stats).Methods(http.MethodGet)

	// Session routes
	r.HandleFunc("/api/crear_partida", sessionHandler.Create).Methods(http.MethodPost)
	r.HandleFunc("/api/crear_nueva_partida", sessionHandler.Rematch).Methods(http.MethodPost)
	r.HandleFunc("/api/terminar_partida", sessionHandler.FinishLatest).Methods(http.MethodPost)
	r.HandleFunc("/api/actualizar_partida", sessionHandler.UpdateLatest).Methods(http.MethodPost)
	r.HandleFunc("/api/listar_partidas", sessionHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/api/actualizar_partida_por_id", sessionHandler.UpdateByID).Methods(http.MethodPost)
	r.HandleFunc("/api/terminar_partida_por_id", sessionHandler.FinishByID).Methods(http.MethodPost)

	// Health check endpoint
	r.HandleFunc("/api/health", healthHandler.Health).Methods(http.MethodGet)

	return r
}
