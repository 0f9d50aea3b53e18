package app

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	appDirName = "workout-tracker"
	dbFileName = "tracker.db"
)

// DefaultDBPath is where the client keeps its config and session cookies.
func DefaultDBPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, appDirName, dbFileName), nil
}

// EnsureDBDir creates the state directory. It is private to the user since the
// database holds the session cookie.
func EnsureDBDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}
	return nil
}
