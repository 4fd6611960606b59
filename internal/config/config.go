package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration
type Config struct {
	Port      string
	DBPath    string
	JWTSecret string

	RateLimit       int
	RateLimitWindow time.Duration
}

// Load reads the configuration from the environment, falling back to
// local-development defaults.
func Load() *Config {
	cfg := &Config{
		Port:            getEnv("PORT", ":8080"),
		DBPath:          getEnv("DB_PATH", "./data/layers.db"),
		JWTSecret:       os.Getenv("JWT_SECRET"), // empty disables auth
		RateLimit:       getEnvInt("RATE_LIMIT", 300),
		RateLimitWindow: time.Minute,
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
