package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.HTTPPort)
	assert.Equal(t, "sqlite", cfg.StorageType)
	assert.Equal(t, "data/connectfour.db", cfg.SQLitePath)
	assert.Equal(t, "Assets", cfg.AssetsDir)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)

	sql := cfg.SQL()
	assert.Equal(t, "sqlite", sql.Driver)
	assert.Equal(t, "data/connectfour.db", sql.DSN)
	assert.Equal(t, 16, sql.MaxOpenConns)
	assert.Equal(t, 8, sql.MaxIdleConns)
	assert.Equal(t, 30*time.Minute, sql.ConnMaxLifetime)
	assert.Equal(t, 5*time.Second, sql.QueryTimeout)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestPostgres(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"STORAGE_TYPE":     "postgres",
		"DATABASE_URL":     "postgres://c4@localhost/c4?sslmode=disable",
		"DB_QUERY_TIMEOUT": "2s",
	})
	require.NoError(t, err)

	sql := cfg.SQL()
	assert.Equal(t, "postgres", sql.Driver)
	assert.Equal(t, "postgres://c4@localhost/c4?sslmode=disable", sql.DSN)
	assert.Equal(t, 2*time.Second, sql.QueryTimeout)
}

func TestRedis(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"STORAGE_TYPE": "redis",
		"REDIS_URL":    "redis://localhost:6379/1",
	})
	require.NoError(t, err)
	assert.Equal(t, "redis://localhost:6379/1", cfg.Redis().URL)
}

func TestServerSettings(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"HTTP_HOST":        "127.0.0.1",
		"HTTP_PORT":        "8081",
		"SHUTDOWN_TIMEOUT": "5s",
		"LOG_LEVEL":        "DEBUG",
	})
	require.NoError(t, err)

	server := cfg.Server()
	assert.Equal(t, "127.0.0.1", server.Host)
	assert.Equal(t, 8081, server.Port)
	assert.Equal(t, 5*time.Second, server.ShutdownTimeout)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestInvalid(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
	}{
		{"unknown storage", map[string]string{"STORAGE_TYPE": "mongo"}},
		{"postgres without dsn", map[string]string{"STORAGE_TYPE": "postgres"}},
		{"redis without url", map[string]string{"STORAGE_TYPE": "redis"}},
		{"bad port", map[string]string{"HTTP_PORT": "0"}},
		{"port not a number", map[string]string{"HTTP_PORT": "abc"}},
		{"bad duration", map[string]string{"DB_QUERY_TIMEOUT": "soon"}},
		{"bad log level", map[string]string{"LOG_LEVEL": "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.environ)
			assert.Error(t, err)
		})
	}
}
