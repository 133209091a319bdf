package factory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mcoot/connectfour/internal/api"
	"github.com/mcoot/connectfour/internal/dependencies/clock"
	"github.com/mcoot/connectfour/internal/middleware"
	"github.com/mcoot/connectfour/internal/services/players"
	"github.com/mcoot/connectfour/internal/services/sessions"
	"github.com/mcoot/connectfour/internal/services/stats"
	"github.com/mcoot/connectfour/internal/storage"
	"github.com/mcoot/connectfour/internal/storage/memory"
	redisstorage "github.com/mcoot/connectfour/internal/storage/redis"
	"github.com/mcoot/connectfour/internal/storage/sqlstore"
	"github.com/mcoot/connectfour/internal/testutil"
	"github.com/mcoot/connectfour/internal/web"
)

// Storage type constants
const (
	StorageTypeSQLite   = "sqlite"
	StorageTypePostgres = "postgres"
	StorageTypeRedis    = "redis"
	StorageTypeMemory   = "memory"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock

	// Services
	Players  *players.Service
	Sessions *sessions.Service
	Stats    *stats.Service

	logger    *slog.Logger
	assetsDir string
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend
	// If empty, defaults to "sqlite"
	StorageType string
	// SQLConfig holds the database settings for "sqlite" and "postgres"
	// If nil, sqlstore.DefaultConfig() is used
	SQLConfig *sqlstore.Config
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// AssetsDir is served under /Assets/ (optional)
	AssetsDir string
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = testutil.NopLogger()
	}

	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	app := newWithDependencies(store, clock.New(), logger)
	app.assetsDir = cfg.AssetsDir
	return app, nil
}

func openStorage(ctx context.Context, cfg Config, logger *slog.Logger) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeSQLite
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeSQLite, StorageTypePostgres:
		sqlCfg := sqlstore.DefaultConfig()
		if cfg.SQLConfig != nil {
			sqlCfg = *cfg.SQLConfig
		}
		sqlCfg.Driver = storageType
		sqlCfg.Logger = logger
		store, err := sqlstore.Open(ctx, sqlCfg)
		if err != nil {
			return nil, fmt.Errorf("open %s storage: %w", storageType, err)
		}
		return store, nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisCfg := *cfg.RedisConfig
		redisCfg.Logger = logger
		store, err := redisstorage.New(redisCfg)
		if err != nil {
			return nil, fmt.Errorf("open redis storage: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be sqlite, postgres, redis or memory", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, logger *slog.Logger) *App {
	return &App{
		Storage:  store,
		Clock:    clk,
		Players:  players.New(store, logger),
		Sessions: sessions.New(store, clk, logger),
		Stats:    stats.New(store, logger),
		logger:   logger,
	}
}

// Handler composes the JSON API and the pages behind the shared request id and
// access log middleware
func (a *App) Handler() http.Handler {
	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:         a.logger,
		Store:          a.Storage,
		PlayerService:  a.Players,
		SessionService: a.Sessions,
		StatsService:   a.Stats,
	})
	webRouter := web.NewRouter(web.RouterConfig{
		Logger:         a.logger,
		PlayerService:  a.Players,
		SessionService: a.Sessions,
		AssetsDir:      a.assetsDir,
	})

	// Combine routers
	mux := http.NewServeMux()
	mux.Handle("/api/crear_partida_front", webRouter)
	mux.Handle("/api/", apiRouter)
	mux.Handle("/registro", apiRouter)
	mux.Handle("/actualizar_estadisticas", apiRouter)
	mux.Handle("/actualizar_empate", apiRouter)
	mux.Handle("/", webRouter)

	var h http.Handler = mux
	h = middleware.Logging(a.logger)(h)
	h = middleware.RequestID()(h)
	return h
}

// Close releases the storage connections
func (a *App) Close() error {
	return a.Storage.Close()
}
