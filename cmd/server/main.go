package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/connectfour/internal/api"
	"github.com/mcoot/connectfour/internal/config"
	"github.com/mcoot/connectfour/internal/factory"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger, err := newLogger(cfg, os.Stdout)
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.SetDefault(logger)

	// Serve until SIGINT or SIGTERM, then drain
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// newLogger builds the JSON logger at the configured level
func newLogger(cfg config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// run opens storage, serves until ctx is done and closes storage on every path
func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	factoryCfg := factory.Config{
		Logger:      logger,
		StorageType: cfg.StorageType,
		AssetsDir:   findAssetsDir(cfg.AssetsDir, logger),
	}
	switch cfg.StorageType {
	case factory.StorageTypeSQLite, factory.StorageTypePostgres:
		sqlCfg := cfg.SQL()
		factoryCfg.SQLConfig = &sqlCfg
	case factory.StorageTypeRedis:
		redisCfg := cfg.Redis()
		factoryCfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(ctx, factoryCfg)
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close storage", slog.String("error", err.Error()))
		}
	}()
	logger.Info("storage ready", slog.String("storage_type", cfg.StorageType))

	server := api.NewServer(app.Handler(), cfg.Server(), logger)
	return server.Run(ctx)
}

// findAssetsDir returns dir when it exists, otherwise "" so /Assets/ is not served
func findAssetsDir(dir string, logger *slog.Logger) string {
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return dir
	}
	logger.Warn("assets directory not found, /Assets/ disabled", slog.String("dir", dir))
	return ""
}
