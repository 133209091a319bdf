package redis

import (
	"log/slog"
	"time"
)

// Config holds Redis connection settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379/0)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// OpTimeout bounds every storage call
	OpTimeout time.Duration

	// Logger receives warnings about unreadable stored sessions; nil discards them
	Logger *slog.Logger
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		OpTimeout:    5 * time.Second,
	}
}
