package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type postgresBlobStore struct {
	db SQLExecutor
}

// NewPostgresBlobStore stores blobs as BYTEA rows in content_blobs.
func NewPostgresBlobStore(db SQLExecutor) BlobStore {
	return &postgresBlobStore{db: db}
}

func (s *postgresBlobStore) Get(ctx context.Context, key string) (*Blob, error) {
	b := &Blob{Key: key}
	query := `SELECT data, content_type, created_at FROM content_blobs WHERE key = $1`
	err := s.db.QueryRowContext(ctx, query, key).Scan(&b.Data, &b.ContentType, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting blob %q: %v", ErrDatabaseError, key, err)
	}
	return b, nil
}

func (s *postgresBlobStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	query := `
	    INSERT INTO content_blobs (key, data, content_type, created_at)
	    VALUES ($1, $2, $3, $4)
	    ON CONFLICT (key)
	    DO UPDATE SET data = EXCLUDED.data, content_type = EXCLUDED.content_type, created_at = EXCLUDED.created_at`
	if _, err := s.db.ExecContext(ctx, query, key, data, contentType, time.Now().UTC()); err != nil {
		return fmt.Errorf("%w: putting blob %q: %v", ErrDatabaseError, key, err)
	}
	return nil
}

func (s *postgresBlobStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM content_blobs WHERE key = $1`, key); err != nil {
		return fmt.Errorf("%w: deleting blob %q: %v", ErrDatabaseError, key, err)
	}
	return nil
}

func (s *postgresBlobStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM content_blobs ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("%w: listing blobs: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("%w: scanning blob key: %v", ErrDatabaseError, err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating blob keys: %v", ErrDatabaseError, err)
	}
	return keys, nil
}
