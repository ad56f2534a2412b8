package repositories

import (
	"context"
	"encoding/json"
	"time"
)

type timeoutDocumentStore struct {
	inner   DocumentStore
	timeout time.Duration
}

// WithTimeout bounds every store call so a stuck backend fails the request
// instead of hanging it. A non-positive timeout returns inner unchanged.
func WithTimeout(inner DocumentStore, timeout time.Duration) DocumentStore {
	if timeout <= 0 {
		return inner
	}
	return &timeoutDocumentStore{inner: inner, timeout: timeout}
}

func (s *timeoutDocumentStore) Get(ctx context.Context, key string) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.inner.Get(ctx, key)
}

func (s *timeoutDocumentStore) Put(ctx context.Context, key string, value json.RawMessage) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.inner.Put(ctx, key, value)
}

type timeoutBlobStore struct {
	inner   BlobStore
	timeout time.Duration
}

// WithBlobTimeout is WithTimeout for image storage.
func WithBlobTimeout(inner BlobStore, timeout time.Duration) BlobStore {
	if timeout <= 0 {
		return inner
	}
	return &timeoutBlobStore{inner: inner, timeout: timeout}
}

func (s *timeoutBlobStore) Get(ctx context.Context, key string) (*Blob, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.inner.Get(ctx, key)
}

func (s *timeoutBlobStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.inner.Put(ctx, key, data, contentType)
}

func (s *timeoutBlobStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.inner.Delete(ctx, key)
}

func (s *timeoutBlobStore) List(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.inner.List(ctx)
}
