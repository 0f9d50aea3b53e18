// Package store persists client-side state in the local sqlite database: config
// values and the session cookie jar.
package store

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"github.com/shester1kov/go-online-workout-tracker/internal/observability"
)

const (
	ConfigAPIURL   = "api_url"
	ConfigLogLevel = "log_level"
)

var knownConfigKeys = map[string]bool{
	ConfigAPIURL:   true,
	ConfigLogLevel: true,
}

func SetConfig(db *sql.DB, key, value string) error {
	key = strings.TrimSpace(strings.ToLower(key))
	if key == "" {
		return fmt.Errorf("config key is required")
	}
	if !knownConfigKeys[key] {
		return fmt.Errorf("unknown config key %q", key)
	}
	value = strings.TrimSpace(value)
	if key == ConfigAPIURL {
		if err := ValidateAPIURL(value); err != nil {
			return err
		}
		value = strings.TrimRight(value, "/")
	}
	if key == ConfigLogLevel {
		if _, err := observability.ParseLevel(value); err != nil {
			return err
		}
		value = strings.ToLower(value)
	}
	_, err := db.Exec(`
INSERT INTO app_config(key, value, updated_at)
VALUES(?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at
`, key, value)
	if err != nil {
		return fmt.Errorf("set config %q: %w", key, err)
	}
	return nil
}

func GetConfig(db *sql.DB, key string) (string, bool, error) {
	key = strings.TrimSpace(strings.ToLower(key))
	if key == "" {
		return "", false, fmt.Errorf("config key is required")
	}
	var value string
	err := db.QueryRow(`SELECT value FROM app_config WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get config %q: %w", key, err)
	}
	return value, true, nil
}

func ListConfig(db *sql.DB) (map[string]string, error) {
	rows, err := db.Query(`SELECT key, value FROM app_config ORDER BY key ASC`)
	if err != nil {
		return nil, fmt.Errorf("list config: %w", err)
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan config: %w", err)
		}
		out[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate config: %w", err)
	}
	return out, nil
}

func ValidateAPIURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api url %q (expected http(s)://host[/prefix])", raw)
	}
	return nil
}
