package database

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

var DB *sql.DB

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	repo_url TEXT NOT NULL,
	owner TEXT NOT NULL,
	repo TEXT NOT NULL,
	started_at DATETIME NOT NULL,
	finished_at DATETIME NOT NULL,
	commits INTEGER NOT NULL DEFAULT 0,
	emails INTEGER NOT NULL DEFAULT 0,
	resolved INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

// Init opens the run ledger at path, creating the file and schema on first
// use. The ledger is strictly best-effort bookkeeping for the CLI, so a
// single connection is enough.
func Init(path string) error {
	var err error

	// Open SQLite database (creates if doesn't exist)
	DB, err = sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return err
	}

	DB.SetMaxOpenConns(1)

	// Test the connection
	if err = DB.Ping(); err != nil {
		return err
	}

	if _, err = DB.Exec(schema); err != nil {
		return err
	}

	return nil
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
