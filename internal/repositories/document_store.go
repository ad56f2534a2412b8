package repositories

import (
	"context"
	"encoding/json"
)

// DocumentStore is a key-value store of whole JSON documents.
// Get returns ErrNotFound when the key has never been written.
type DocumentStore interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Put(ctx context.Context, key string, value json.RawMessage) error
}
