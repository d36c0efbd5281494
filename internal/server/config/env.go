package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays configuration from the process environment. A .env file
// in the working directory is loaded first if present, without overriding
// variables that are already set.
//
// Recognized variables:
//
//	ADDRESS, DATABASE_DSN, TOKEN_SECRET, TOKEN_TTL_MINUTES, BCRYPT_COST,
//	ALLOWED_ORIGINS (comma separated), RATE_LIMIT_WINDOW_SECONDS,
//	RATE_LIMIT_MAX, GIN_MODE
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	cfg.Address = getEnv("ADDRESS", cfg.Address)
	cfg.DatabaseDSN = getEnv("DATABASE_DSN", cfg.DatabaseDSN)
	cfg.TokenSecret = getEnv("TOKEN_SECRET", cfg.TokenSecret)
	cfg.GinMode = getEnv("GIN_MODE", cfg.GinMode)

	if v := getEnvAsInt("TOKEN_TTL_MINUTES", 0); v > 0 {
		cfg.TokenTTL = time.Duration(v) * time.Minute
	}
	if v := getEnvAsInt("BCRYPT_COST", 0); v > 0 {
		cfg.BcryptCost = v
	}
	if v := getEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", 0); v > 0 {
		cfg.RateLimitWindow = time.Duration(v) * time.Second
	}
	if v := getEnvAsInt("RATE_LIMIT_MAX", 0); v > 0 {
		cfg.RateLimitMax = v
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = splitOrigins(origins)
	}
}

func splitOrigins(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// getEnv returns the environment variable value, or def when it is unset
// or empty.
func getEnv(key, def string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return def
}

// getEnvAsInt returns the environment variable parsed as an integer, or def
// when unset or unparsable.
func getEnvAsInt(key string, def int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return def
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return def
	}
	return value
}
