package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// documentList stores a slice of records as a single JSON array document.
// Read-modify-write cycles in this process are serialized by mu; writers in
// other processes still race (last writer wins).
type documentList[T any] struct {
	mu    sync.Mutex
	store DocumentStore
	key   string
}

func (l *documentList[T]) load(ctx context.Context) ([]T, error) {
	raw, err := l.store.Get(ctx, l.key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []T{}, nil
		}
		return nil, err
	}
	var records []T
	if len(raw) == 0 || string(raw) == "null" {
		return []T{}, nil
	}
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: decoding %s document: %v", ErrDatabaseError, l.key, err)
	}
	return records, nil
}

func (l *documentList[T]) save(ctx context.Context, records []T) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding %s document: %w", l.key, err)
	}
	return l.store.Put(ctx, l.key, raw)
}

func (l *documentList[T]) all(ctx context.Context) ([]T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(ctx)
}

func (l *documentList[T]) append(ctx context.Context, record T) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	records, err := l.load(ctx)
	if err != nil {
		return err
	}
	return l.save(ctx, append(records, record))
}

// replaceRaw swaps the whole document for raw, which must decode as a list.
// It holds mu so it cannot interleave with append or modify.
func (l *documentList[T]) replaceRaw(ctx context.Context, raw json.RawMessage) error {
	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		return fmt.Errorf("%w: %s document is not a list: %v", ErrInvalidDocument, l.key, err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Put(ctx, l.key, raw)
}

// modify runs fn on the record at the index chosen by match. fn reports whether
// it changed anything; nothing is written when it did not.
func (l *documentList[T]) modify(ctx context.Context, match func(*T) bool, fn func(*T) (bool, error)) (*T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	records, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if !match(&records[i]) {
			continue
		}
		changed, err := fn(&records[i])
		if err != nil {
			return nil, err
		}
		if changed {
			if err := l.save(ctx, records); err != nil {
				return nil, err
			}
		}
		out := records[i]
		return &out, nil
	}
	return nil, ErrNotFound
}
