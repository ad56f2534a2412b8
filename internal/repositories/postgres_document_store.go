package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type postgresDocumentStore struct {
	db SQLExecutor
}

// NewPostgresDocumentStore stores documents in the content_documents table.
func NewPostgresDocumentStore(db SQLExecutor) DocumentStore {
	return &postgresDocumentStore{db: db}
}

func (s *postgresDocumentStore) Get(ctx context.Context, key string) (json.RawMessage, error) {
	var value string
	query := `SELECT value FROM content_documents WHERE key = $1`
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting document %q: %v", ErrDatabaseError, key, err)
	}
	return json.RawMessage(value), nil
}

func (s *postgresDocumentStore) Put(ctx context.Context, key string, value json.RawMessage) error {
	query := `
	    INSERT INTO content_documents (key, value, updated_at)
	    VALUES ($1, $2, $3)
	    ON CONFLICT (key)
	    DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

	if _, err := s.db.ExecContext(ctx, query, key, string(value), time.Now().UTC()); err != nil {
		return fmt.Errorf("%w: putting document %q: %v", ErrDatabaseError, key, err)
	}
	return nil
}
