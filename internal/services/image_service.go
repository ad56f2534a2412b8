package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"foodtruck_backend/internal/repositories"
	"foodtruck_backend/pkg/utils"
)

const MaxImageSize = 5 * 1024 * 1024

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

var extContentTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
	"gif":  "image/gif",
}

type ImageService interface {
	Upload(ctx context.Context, filename, contentType string, data []byte) (string, error)
	// Restore writes an image back under the key it had when it was backed up.
	Restore(ctx context.Context, key, contentType string, data []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]string, error)
	Get(ctx context.Context, key string) (*repositories.Blob, error)
}

type imageService struct {
	blobs repositories.BlobStore
	now   func() time.Time
}

func NewImageService(blobs repositories.BlobStore) ImageService {
	return &imageService{blobs: blobs, now: time.Now}
}

func (s *imageService) Upload(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	if !allowedImageTypes[contentType] {
		return "", fmt.Errorf("%w: only JPEG, PNG, and WebP are allowed", ErrInvalidImage)
	}
	if len(data) > MaxImageSize {
		return "", fmt.Errorf("%w: file too large, maximum size is 5MB", ErrInvalidImage)
	}

	key := fmt.Sprintf("menu/%d-%s.%s", s.now().UnixMilli(), utils.SanitizeFileStem(filename), utils.FileExt(filename, "jpg"))
	if err := s.blobs.Put(ctx, key, data, contentType); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	utils.LogInfo("Image uploaded", map[string]interface{}{"key": key, "size": len(data), "content_type": contentType})
	return key, nil
}

func (s *imageService) Restore(ctx context.Context, key, contentType string, data []byte) error {
	if utils.IsEmpty(key) {
		return fmt.Errorf("%w: no key provided", ErrInvalidImage)
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = extContentTypes[utils.FileExt(key, "")]
		if contentType == "" {
			contentType = "image/jpeg"
		}
	}
	if err := s.blobs.Put(ctx, key, data, contentType); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	utils.LogInfo("Image restored", map[string]interface{}{"key": key, "content_type": contentType})
	return nil
}

func (s *imageService) Delete(ctx context.Context, key string) error {
	if utils.IsEmpty(key) {
		return fmt.Errorf("%w: no key provided", ErrInvalidImage)
	}
	if err := s.blobs.Delete(ctx, key); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	utils.LogInfo("Image deleted", map[string]interface{}{"key": key})
	return nil
}

func (s *imageService) List(ctx context.Context) ([]string, error) {
	keys, err := s.blobs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return keys, nil
}

func (s *imageService) Get(ctx context.Context, key string) (*repositories.Blob, error) {
	key = strings.TrimPrefix(key, "/")
	if key == "" {
		return nil, ErrImageNotFound
	}
	blob, err := s.blobs.Get(ctx, key)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if blob.ContentType == "" {
		blob.ContentType = "image/jpeg"
	}
	return blob, nil
}
