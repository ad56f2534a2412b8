package repositories

import (
	"context"
	"time"
)

// Blob is a stored binary object with its declared content type.
type Blob struct {
	Key         string
	Data        []byte
	ContentType string
	CreatedAt   time.Time
}

// BlobStore holds uploaded images keyed by slash-separated paths.
type BlobStore interface {
	Get(ctx context.Context, key string) (*Blob, error)
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]string, error)
}
