package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/connectfour/internal/services/players"
	"github.com/mcoot/connectfour/internal/services/sessions"
	"github.com/mcoot/connectfour/internal/web/handler"
	"github.com/mcoot/connectfour/internal/web/middleware"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger         *slog.Logger
	PlayerService  *players.Service
	SessionService *sessions.Service
	AssetsDir      string // Served under /Assets/; empty disables it
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Apply global middleware to all routes
	r.Use(middleware.Recovery(cfg.Logger))

	// Create handlers
	homeHandler := handler.NewHomeHandler(cfg.PlayerService, cfg.SessionService, cfg.Logger)
	gameHandler := handler.NewGameHandler(cfg.PlayerService, cfg.SessionService, cfg.Logger)

	// Static files
	if cfg.AssetsDir != "" {
		assets := http.StripPrefix("/Assets/", http.FileServer(http.Dir(cfg.AssetsDir)))
		r.PathPrefix("/Assets/").Handler(assets).Methods(http.MethodGet, http.MethodHead)
	}

	r.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	r.HandleFunc("/juego", gameHandler.Play).Methods(http.MethodGet)
	r.HandleFunc("/ver_partida", gameHandler.View).Methods(http.MethodGet)
	r.HandleFunc("/api/crear_partida_front", gameHandler.CreateFromMenu).Methods(http.MethodGet)

	return r
}
