// Package config loads simulator configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the simulator defaults.
type Config struct {
	// Logging
	LogLevel  string
	LogFormat string

	// Files created without explicit size/content
	DefaultFileSize    int64
	DefaultContentChar byte

	// Identity whose bundles are rejected wholesale
	ErrorUser string
}

// Load reads configuration from environment variables with defaults.
func Load() (*Config, error) {
	content := envOr("DAVSIM_DEFAULT_CONTENT", "W")
	if len(content) != 1 {
		return nil, fmt.Errorf("DAVSIM_DEFAULT_CONTENT must be a single byte, got %q", content)
	}

	cfg := &Config{
		LogLevel:           envOr("DAVSIM_LOG_LEVEL", "info"),
		LogFormat:          envOr("DAVSIM_LOG_FORMAT", "json"),
		DefaultFileSize:    envInt64("DAVSIM_DEFAULT_FILE_SIZE", 64),
		DefaultContentChar: content[0],
		ErrorUser:          envOr("DAVSIM_ERROR_USER", "erroruser"),
	}

	if cfg.DefaultFileSize < 0 {
		return nil, fmt.Errorf("DAVSIM_DEFAULT_FILE_SIZE must be non-negative, got %d", cfg.DefaultFileSize)
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return i
}
