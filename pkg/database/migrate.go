package database

import (
	"database/sql"
	"fmt"
	"os"
)

const defaultSchemaPath = "docs/schema.sql"

// Migrate applies the sqlite schema. Every statement in the schema file is
// IF NOT EXISTS, so running it on an already-migrated database is a no-op.
func Migrate(db *sql.DB) error {
	path := os.Getenv("CELLARHUB_SCHEMA_PATH")
	if path == "" {
		path = defaultSchemaPath
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read schema %s: %w", path, err)
	}

	if _, err := db.Exec(string(b)); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
