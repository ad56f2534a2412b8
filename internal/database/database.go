package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"foodtruck_backend/pkg/utils"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// documentSchema backs the document store and the Postgres blob store.
const documentSchema = `
CREATE TABLE IF NOT EXISTS content_documents (
    key        TEXT PRIMARY KEY,
    value      JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS content_blobs (
    key          TEXT PRIMARY KEY,
    data         BYTEA NOT NULL,
    content_type TEXT NOT NULL,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// InitDB opens and pings the Postgres pool, then applies the schema.
// schemaPath overrides the built-in schema when set.
func InitDB(ctx context.Context, dsn, schemaPath string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	utils.LogInfo("Successfully connected to the database")

	if err := applySchema(ctx, db, schemaPath); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// applySchema executes the schema file at schemaPath, or the built-in schema.
func applySchema(ctx context.Context, db *sql.DB, schemaPath string) error {
	schema := documentSchema
	if schemaPath != "" {
		content, err := os.ReadFile(schemaPath)
		if err != nil {
			return fmt.Errorf("could not read schema file %s: %w", schemaPath, err)
		}
		schema = string(content)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("could not execute schema script: %w", err)
	}
	utils.LogInfo("Database schema applied", map[string]interface{}{"custom_path": schemaPath != ""})
	return nil
}
