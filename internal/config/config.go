package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port           string
	GinMode        string
	JWTSecret      string
	TokenDuration  time.Duration
	SnapshotDriver string
	SnapshotDSN    string
	SaveInterval   time.Duration
}

func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		JWTSecret:      getEnv("JWT_SECRET", "default-secret-key-change-me"),
		TokenDuration:  getDuration("TOKEN_DURATION_HOURS", 24) * time.Hour,
		SnapshotDriver: getEnv("SNAPSHOT_DRIVER", "sqlite"),
		SnapshotDSN:    getEnv("SNAPSHOT_DSN", "workspace.db"),
		SaveInterval:   getDuration("SAVE_INTERVAL_SECONDS", 60) * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue int64) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return time.Duration(defaultValue)
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil || parsed <= 0 {
		return time.Duration(defaultValue)
	}
	return time.Duration(parsed)
}
