package db

import (
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"
)

// stateFileMode keeps the database private; it holds the session cookie.
const stateFileMode = 0o600

// Open opens the local state database with a single connection. Concurrent
// collection fetches never touch sqlite, so there is no pool to size.
func Open(path string) (*sql.DB, error) {
	sqldb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open state database: %w", err)
	}
	sqldb.SetMaxOpenConns(1)
	if err := sqldb.Ping(); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("ping state database: %w", err)
	}
	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
	} {
		if _, err := sqldb.Exec(pragma); err != nil {
			sqldb.Close()
			return nil, fmt.Errorf("configure state database (%s): %w", pragma, err)
		}
	}
	if path != ":memory:" {
		if err := os.Chmod(path, stateFileMode); err != nil {
			sqldb.Close()
			return nil, fmt.Errorf("restrict state database permissions: %w", err)
		}
	}
	return sqldb, nil
}
