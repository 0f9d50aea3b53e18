package tracker

import (
	"bufio"
	"database/sql"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/shester1kov/go-online-workout-tracker/internal/api"
	"github.com/shester1kov/go-online-workout-tracker/internal/app"
	"github.com/shester1kov/go-online-workout-tracker/internal/config"
	"github.com/shester1kov/go-online-workout-tracker/internal/db"
)

func withDB(run func(*sql.DB) error) error {
	sqldb, err := openDB()
	if err != nil {
		return err
	}
	defer sqldb.Close()
	return run(sqldb)
}

func openDB() (*sql.DB, error) {
	path, err := resolveDBPath()
	if err != nil {
		return nil, err
	}
	if err := app.EnsureDBDir(path); err != nil {
		return nil, err
	}
	sqldb, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	if err := db.ApplyMigrations(sqldb); err != nil {
		sqldb.Close()
		return nil, err
	}
	return sqldb, nil
}

func resolveDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	if p := config.Load().DBPath; p != "" {
		return p, nil
	}
	return app.DefaultDBPath()
}

func parseIDArg(name, value string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be > 0", name)
	}
	return v, nil
}

// parseDateOrToday reads a YYYY-MM-DD flag value as a UTC midnight, defaulting to today.
func parseDateOrToday(date string) (time.Time, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(api.DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", date)
	}
	return t, nil
}

// readSecret returns flagValue, or the first line of stdin when the flag is empty.
func readSecret(cmd *cobra.Command, name, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read %s from stdin: %w", name, err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", fmt.Errorf("%s is required (use --%s or pipe it on stdin)", name, name)
	}
	return line, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(api.DateLayout)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
