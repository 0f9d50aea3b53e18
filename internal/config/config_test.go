package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvAPIURL, "")
	t.Setenv(EnvHTTPTimeout, "")
	t.Setenv(EnvDebounce, "not-a-duration")

	cfg := Load()
	if cfg.APIURL != "" {
		t.Fatalf("expected empty api url, got %q", cfg.APIURL)
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Fatalf("expected default timeout, got %s", cfg.HTTPTimeout)
	}
	if cfg.Debounce != 500*time.Millisecond {
		t.Fatalf("expected default debounce, got %s", cfg.Debounce)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv(EnvAPIURL, "https://fit.example.com/api/v1/")
	t.Setenv(EnvHTTPTimeout, "3s")
	t.Setenv(EnvDebounce, "250ms")

	cfg := Load()
	if cfg.APIURL != "https://fit.example.com/api/v1" {
		t.Fatalf("unexpected api url %q", cfg.APIURL)
	}
	if cfg.HTTPTimeout != 3*time.Second || cfg.Debounce != 250*time.Millisecond {
		t.Fatalf("unexpected durations: %+v", cfg)
	}
}

func TestLoadDotEnvDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("TRACKER_LOG_LEVEL=debug\nTRACKER_API_URL=http://from-file\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv(EnvAPIURL, "http://from-env")
	t.Setenv(EnvLogLevel, "")
	os.Unsetenv(EnvLogLevel)

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("load dotenv: %v", err)
	}
	if got := os.Getenv(EnvAPIURL); got != "http://from-env" {
		t.Fatalf("expected env to win, got %q", got)
	}
	if got := os.Getenv(EnvLogLevel); got != "debug" {
		t.Fatalf("expected value from file, got %q", got)
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Fatalf("missing file should be ignored: %v", err)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := FirstNonEmpty("", "  ", "b", "c"); got != "b" {
		t.Fatalf("expected b, got %q", got)
	}
	if got := FirstNonEmpty(); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}
