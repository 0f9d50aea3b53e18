// Package config reads the client's environment configuration.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvAPIURL      = "TRACKER_API_URL"
	EnvHTTPTimeout = "TRACKER_HTTP_TIMEOUT"
	EnvDebounce    = "TRACKER_DEBOUNCE"
	EnvLogLevel    = "TRACKER_LOG_LEVEL"
	EnvDBPath      = "TRACKER_DB"
)

// Config captures environment-derived settings. Empty strings mean "not set" so
// callers can layer flags and stored config on top.
type Config struct {
	APIURL      string
	DBPath      string
	LogLevel    string
	HTTPTimeout time.Duration
	Debounce    time.Duration
}

// LoadDotEnv loads files (default ".env") into the process environment without
// overriding variables that are already set. Missing files are not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// Load reads environment variables into Config, applying defaults for durations.
func Load() Config {
	return Config{
		APIURL:      strings.TrimRight(getEnv(EnvAPIURL, ""), "/"),
		DBPath:      getEnv(EnvDBPath, ""),
		LogLevel:    getEnv(EnvLogLevel, ""),
		HTTPTimeout: getDurationEnv(EnvHTTPTimeout, 10*time.Second),
		Debounce:    getDurationEnv(EnvDebounce, 500*time.Millisecond),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

// FirstNonEmpty returns the first value that is not blank.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
