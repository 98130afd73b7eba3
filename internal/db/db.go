package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// busyTimeoutMS is how long a writer waits on a locked database file.
const busyTimeoutMS = 5000

// OpenDB opens the feather database at path and brings its schema up to
// date. A file database gets WAL and a busy timeout on every pooled
// connection. MemoryPath keeps one connection, since each new connection
// would see an empty database of its own.
func OpenDB(path string) (*sql.DB, error) {
	if path == MemoryPath {
		return open(path, func(d *sql.DB) { d.SetMaxOpenConns(1) })
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	q := url.Values{}
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeoutMS))
	return open(path+"?"+q.Encode(), nil)
}

func open(dsn string, configure func(*sql.DB)) (*sql.DB, error) {
	d, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if configure != nil {
		configure(d)
	}
	if err := Migrate(d); err != nil {
		d.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return d, nil
}
