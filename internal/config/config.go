package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	JWTSecret   string
	Port        string
	Env         string

	RateLimitTxMax    int
	RateLimitTxWindow time.Duration

	ReminderInterval time.Duration
}

// Load reads .env if present, then the environment. DATABASE_URL and
// JWT_SECRET are required; everything else has defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		JWTSecret:         strings.TrimSpace(os.Getenv("JWT_SECRET")),
		Port:              envOr("PORT", "8080"),
		Env:               strings.ToLower(envOr("ENV", "dev")),
		RateLimitTxMax:    envInt("RATE_LIMIT_TX_MAX", 60),
		RateLimitTxWindow: time.Duration(envInt("RATE_LIMIT_TX_WINDOW_SECONDS", 60)) * time.Second,
		ReminderInterval:  time.Duration(envInt("REMINDER_INTERVAL_SECONDS", 24*3600)) * time.Second,
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}
