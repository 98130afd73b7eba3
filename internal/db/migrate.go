package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// Documents are schemaless JSON objects addressed by (collection, id).
// A collection is a slash-separated path such as "users/u1/plans"; nested
// documents (users/u1/inodes/index/dir/index) live in their own collection.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS documents (
		collection  TEXT NOT NULL,
		id          TEXT NOT NULL,
		data        TEXT NOT NULL DEFAULT '{}' CHECK(json_valid(data)),
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		PRIMARY KEY (collection, id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection)`,

	// Plans and labels are always queried by date range.
	`CREATE INDEX IF NOT EXISTS idx_documents_date
		ON documents(collection, json_extract(data, '$.date'))`,

	`ALTER TABLE documents ADD COLUMN version INTEGER NOT NULL DEFAULT 1`,
}
