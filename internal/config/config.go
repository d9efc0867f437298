// Package config loads server configuration from the environment, with a
// .env file as an optional convenience for local development.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the server.
type Config struct {
	// Bind is the listen address, e.g. "0.0.0.0:8080".
	Bind string

	// DBPath is the SQLite database file path.
	DBPath string

	// JWTSecret signs session tokens.
	JWTSecret string

	// TokenTTL is how long session tokens stay valid.
	TokenTTL time.Duration
}

// Load reads configuration from environment variables, falling back to
// defaults suitable for local development.
//
//	BIND        listen address           (default 0.0.0.0:8080)
//	DB_PATH     SQLite database path     (default ./data/rooms.db)
//	JWT_SECRET  session token secret     (default dev-only-change-me)
//	SESSION_TTL token lifetime, Go duration syntax (default 24h)
func Load() (*Config, error) {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg := &Config{
		Bind:      getEnvDefault("BIND", "0.0.0.0:8080"),
		DBPath:    getEnvDefault("DB_PATH", "./data/rooms.db"),
		JWTSecret: getEnvDefault("JWT_SECRET", "dev-only-change-me"),
	}

	ttl := getEnvDefault("SESSION_TTL", "24h")
	d, err := time.ParseDuration(ttl)
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL %q: %w", ttl, err)
	}
	cfg.TokenTTL = d

	return cfg, nil
}

func getEnvDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
