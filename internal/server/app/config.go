package app

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/edumentor/learnconnect/pkg/jwtx"
)

type Config struct {
	Issuer         string        // Issuer claim for access tokens
	DatabaseFile   string        // Path to the SQLite database file
	SigningKeyFile string        // Optional: Ed25519 PEM key path; empty means ephemeral
	KeyID          string        // kid header on issued tokens
	AccessTTL      time.Duration // Access token lifetime
	RefreshTTL     time.Duration // Refresh token lifetime

	Env                  string // Environment (dev, staging, prod)
	LogLevel             string // debug, info, warn, error
	LogFormat            string // json, text
	Port                 int    // HTTP server port
	ShutdownGracePeriod  time.Duration
	HousekeepingInterval time.Duration
}

// LoadConfig reads configuration from the environment, with a .env file as a
// development convenience.
func LoadConfig() Config {
	_ = godotenv.Load()

	return Config{
		Issuer:               getEnvOrDefault("LC_ISSUER", "learnconnect"),
		DatabaseFile:         getEnvOrDefault("LC_DATABASE_FILE", "learnconnect.db"),
		SigningKeyFile:       os.Getenv("LC_SIGNING_KEY_FILE"),
		KeyID:                getEnvOrDefault("LC_KEY_ID", "primary"),
		AccessTTL:            getEnvDurationOrDefault("LC_ACCESS_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTTL:           getEnvDurationOrDefault("LC_REFRESH_TTL", jwtx.DefaultRefreshTokenTTL),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 15*time.Minute),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	return defaultValue
}
