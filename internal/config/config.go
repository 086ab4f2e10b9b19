// Package config loads the Benefits API configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the API server settings. Build it with Load.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "3000".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel is the minimum slog level: debug, info, warn, or error.
	LogLevel string

	// CORSOrigins lists the origins allowed to call the API from a browser.
	// CORS_ORIGINS is comma-separated.
	CORSOrigins []string

	// MaxBodyBytes caps request body size. 0 disables the cap.
	MaxBodyBytes int64

	// AutoMigrate applies pending schema migrations at startup.
	AutoMigrate bool
}

const (
	defaultPort         = "3000"
	defaultLogLevel     = "info"
	defaultCORSOrigins  = "http://localhost:5173"
	defaultMaxBodyBytes = 1 << 20
)

// Load reads a .env file from the working directory when one exists, then
// builds a Config from the environment. Variables already set in the
// environment win over the file. It returns one error naming every missing
// or malformed variable.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load .env: %w", err)
	}

	cfg := Config{
		Port:         getEnv("PORT", defaultPort),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		LogLevel:     strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		CORSOrigins:  splitCSV(getEnv("CORS_ORIGINS", defaultCORSOrigins)),
		MaxBodyBytes: defaultMaxBodyBytes,
		AutoMigrate:  true,
	}

	var problems []string
	if cfg.DatabaseURL == "" {
		problems = append(problems, "DATABASE_URL is required")
	}
	if v := os.Getenv("MAX_BODY_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			problems = append(problems, fmt.Sprintf("MAX_BODY_BYTES must be a non-negative integer, got %q", v))
		}
		cfg.MaxBodyBytes = n
	}
	if v := os.Getenv("AUTO_MIGRATE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			problems = append(problems, fmt.Sprintf("AUTO_MIGRATE must be a boolean, got %q", v))
		}
		cfg.AutoMigrate = b
	}
	if _, err := strconv.ParseUint(cfg.Port, 10, 16); err != nil {
		problems = append(problems, fmt.Sprintf("PORT must be a port number, got %q", cfg.Port))
	}

	if len(problems) > 0 {
		return Config{}, fmt.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits s on commas, trimming spaces and dropping empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
