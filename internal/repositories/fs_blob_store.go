package repositories

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

type fsBlobStore struct {
	root string
}

// NewFilesystemBlobStore keeps blobs as files under root. Content type is
// sniffed on read; keys map to relative paths.
func NewFilesystemBlobStore(root string) (BlobStore, error) {
	cleanRoot, err := filepath.Abs(filepath.Clean(root))
	if err != nil {
		return nil, fmt.Errorf("resolving blob root %s: %w", root, err)
	}
	if err := os.MkdirAll(cleanRoot, 0o755); err != nil {
		return nil, fmt.Errorf("creating blob root %s: %w", cleanRoot, err)
	}
	return &fsBlobStore{root: cleanRoot}, nil
}

// resolve refuses keys that would escape the root.
func (s *fsBlobStore) resolve(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", fmt.Errorf("empty blob key")
	}
	cleanRel := strings.TrimPrefix(path.Clean("/"+strings.TrimPrefix(trimmed, "/")), "/")
	if cleanRel == "" {
		return "", fmt.Errorf("invalid blob key: %s", key)
	}
	target := filepath.Clean(filepath.Join(s.root, filepath.FromSlash(cleanRel)))
	if !strings.HasPrefix(target, s.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("refusing blob path outside root: %s", key)
	}
	return target, nil
}

func (s *fsBlobStore) Get(_ context.Context, key string) (*Blob, error) {
	target, err := s.resolve(key)
	if err != nil {
		return nil, ErrNotFound
	}
	data, err := os.ReadFile(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: reading blob %q: %v", ErrDatabaseError, key, err)
	}
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("%w: stat blob %q: %v", ErrDatabaseError, key, err)
	}
	return &Blob{Key: key, Data: data, ContentType: http.DetectContentType(data), CreatedAt: info.ModTime()}, nil
}

func (s *fsBlobStore) Put(_ context.Context, key string, data []byte, _ string) error {
	target, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("%w: creating blob dir for %q: %v", ErrDatabaseError, key, err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("%w: writing blob %q: %v", ErrDatabaseError, key, err)
	}
	return nil
}

func (s *fsBlobStore) Delete(_ context.Context, key string) error {
	target, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: deleting blob %q: %v", ErrDatabaseError, key, err)
	}
	return nil
}

func (s *fsBlobStore) List(_ context.Context) ([]string, error) {
	keys := []string{}
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: listing blobs: %v", ErrDatabaseError, err)
	}
	sort.Strings(keys)
	return keys, nil
}
