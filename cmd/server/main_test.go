package main

import (
	"bytes"
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/connectfour/internal/config"
	"github.com/mcoot/connectfour/internal/testutil"
)

func memoryConfig(t *testing.T, port int) config.Config {
	t.Helper()
	cfg, err := config.LoadFrom(map[string]string{
		"STORAGE_TYPE": "memory",
		"HTTP_HOST":    "127.0.0.1",
		"ASSETS_DIR":   t.TempDir(),
	})
	require.NoError(t, err)
	cfg.HTTPPort = port
	cfg.ShutdownTimeout = 5 * time.Second
	return cfg
}

func TestRunStopsWhenContextIsDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- run(ctx, memoryConfig(t, 0), testutil.NopLogger())
	}()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("run did not return")
	}
}

func TestRunFailsWhenPortIsTaken(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	port := ln.Addr().(*net.TCPAddr).Port
	err = run(context.Background(), memoryConfig(t, port), testutil.NopLogger())
	assert.Error(t, err)
}

func TestRunFailsWhenStorageCannotOpen(t *testing.T) {
	cfg := memoryConfig(t, 0)
	cfg.StorageType = "redis"
	cfg.RedisURL = "not a url"

	err := run(context.Background(), cfg, testutil.NopLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create application")
}

func TestNewLoggerUsesLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(config.Config{LogLevel: "warn"}, &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := newLogger(config.Config{LogLevel: "loud"}, &bytes.Buffer{})
	assert.Error(t, err)
}
