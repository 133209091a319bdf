// Package config reads the server settings from the environment
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/mcoot/connectfour/internal/api"
	redisstorage "github.com/mcoot/connectfour/internal/storage/redis"
	"github.com/mcoot/connectfour/internal/storage/sqlstore"
)

// Config holds every setting of the server process
type Config struct {
	HTTPHost        string        `env:"HTTP_HOST"`
	HTTPPort        int           `env:"HTTP_PORT"        envDefault:"5000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	StorageType string `env:"STORAGE_TYPE" envDefault:"sqlite"`
	SQLitePath  string `env:"SQLITE_PATH"  envDefault:"data/connectfour.db"`
	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`

	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS"    envDefault:"16"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS"    envDefault:"8"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
	DBQueryTimeout    time.Duration `env:"DB_QUERY_TIMEOUT"     envDefault:"5s"`

	AssetsDir string `env:"ASSETS_DIR" envDefault:"Assets"`
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
}

// Load parses the process environment
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment
func LoadFrom(environ map[string]string) (Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StorageType {
	case "sqlite", "memory":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL required when STORAGE_TYPE=postgres")
		}
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL required when STORAGE_TYPE=redis")
		}
	default:
		return fmt.Errorf("invalid STORAGE_TYPE %q", c.StorageType)
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP_PORT %d", c.HTTPPort)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the slog level named by LOG_LEVEL
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel)
	}
	return level, nil
}

// Server returns the HTTP server settings
func (c Config) Server() api.ServerConfig {
	cfg := api.DefaultServerConfig()
	cfg.Host = c.HTTPHost
	cfg.Port = c.HTTPPort
	cfg.ShutdownTimeout = c.ShutdownTimeout
	return cfg
}

// SQL returns the database settings for the sqlite and postgres backends
func (c Config) SQL() sqlstore.Config {
	cfg := sqlstore.DefaultConfig()
	cfg.Driver = c.StorageType
	cfg.DSN = c.SQLitePath
	if c.StorageType == "postgres" {
		cfg.DSN = c.DatabaseURL
	}
	cfg.MaxOpenConns = c.DBMaxOpenConns
	cfg.MaxIdleConns = c.DBMaxIdleConns
	cfg.ConnMaxLifetime = c.DBConnMaxLifetime
	cfg.QueryTimeout = c.DBQueryTimeout
	return cfg
}

// Redis returns the redis backend settings
func (c Config) Redis() redisstorage.Config {
	cfg := redisstorage.DefaultConfig()
	cfg.URL = c.RedisURL
	cfg.OpTimeout = c.DBQueryTimeout
	return cfg
}
