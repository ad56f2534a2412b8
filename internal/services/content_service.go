package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"foodtruck_backend/internal/models"
	"foodtruck_backend/internal/repositories"
	"foodtruck_backend/pkg/utils"
)

// Shown when a document has never been saved.
var contentDefaults = map[string]json.RawMessage{
	models.ContentMenu:        json.RawMessage(`{"categories":[]}`),
	models.ContentSchedule:    json.RawMessage(`[]`),
	models.ContentHero:        json.RawMessage(`{"title":"","tagline":"","ctaText":"","ctaLink":""}`),
	models.ContentAbout:       json.RawMessage(`{"heading":"","paragraphs":[]}`),
	models.ContentSocialLinks: json.RawMessage(`{"links":[]}`),
	models.ContentSettings:    json.RawMessage(`{"onlineOrderingEnabled":false}`),
	models.ContentFavicon:     json.RawMessage(`{"hasCustomFavicon":false,"siteName":"","themeColor":"#ffffff","metaDescription":""}`),
}

// FaviconImageKeys are the generated favicon variants kept in the blob store.
var FaviconImageKeys = []string{
	"favicon/favicon.ico",
	"favicon/favicon-16x16.png",
	"favicon/favicon-32x32.png",
	"favicon/apple-touch-icon.png",
	"favicon/android-chrome-192x192.png",
	"favicon/android-chrome-512x512.png",
}

type ContentService interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Put(ctx context.Context, key string, value json.RawMessage) error
	ResetFavicon(ctx context.Context) error
	Manifest(ctx context.Context) (map[string]interface{}, error)
}

type contentService struct {
	contentRepo repositories.ContentRepository
	blobs       repositories.BlobStore
}

func NewContentService(contentRepo repositories.ContentRepository, blobs repositories.BlobStore) ContentService {
	return &contentService{contentRepo: contentRepo, blobs: blobs}
}

func (s *contentService) Get(ctx context.Context, key string) (json.RawMessage, error) {
	fallback, ok := contentDefaults[key]
	if !ok {
		return nil, ErrUnknownContentKey
	}
	raw, err := s.contentRepo.GetRaw(ctx, key)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fallback, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if len(raw) == 0 || string(raw) == "null" {
		return fallback, nil
	}
	return raw, nil
}

// Put stores value verbatim after checking it is JSON.
func (s *contentService) Put(ctx context.Context, key string, value json.RawMessage) error {
	if _, ok := contentDefaults[key]; !ok {
		return ErrUnknownContentKey
	}
	if len(value) == 0 || !json.Valid(value) {
		return fmt.Errorf("%w: invalid JSON", ErrInvalidInput)
	}
	if err := s.contentRepo.PutRaw(ctx, key, value); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	utils.LogInfo("Content saved", map[string]interface{}{"key": key, "bytes": len(value)})
	return nil
}

// ResetFavicon removes uploaded favicon variants and clears the metadata.
func (s *contentService) ResetFavicon(ctx context.Context) error {
	for _, key := range FaviconImageKeys {
		if err := s.blobs.Delete(ctx, key); err != nil {
			return fmt.Errorf("%w: deleting %s: %v", ErrPersistence, key, err)
		}
	}
	reset := json.RawMessage(`{"hasCustomFavicon":false,"siteName":"","themeColor":"#ffffff"}`)
	if err := s.contentRepo.PutRaw(ctx, models.ContentFavicon, reset); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	utils.LogInfo("Favicon removed", map[string]interface{}{"deleted_keys": len(FaviconImageKeys)})
	return nil
}

func (s *contentService) Manifest(ctx context.Context) (map[string]interface{}, error) {
	raw, err := s.Get(ctx, models.ContentFavicon)
	if err != nil {
		return nil, err
	}
	var favicon models.FaviconContent
	if err := json.Unmarshal(raw, &favicon); err != nil {
		utils.LogWarn("Favicon document is malformed; using manifest defaults", map[string]interface{}{"error": err.Error()})
		favicon = models.FaviconContent{}
	}

	siteName := favicon.SiteName
	if siteName == "" {
		siteName = "Food Truck"
	}
	themeColor := favicon.ThemeColor
	if themeColor == "" {
		themeColor = "#ffffff"
	}
	return map[string]interface{}{
		"name":       siteName,
		"short_name": siteName,
		"icons": []map[string]string{
			{"src": "/api/images/favicon/android-chrome-192x192.png", "sizes": "192x192", "type": "image/png"},
			{"src": "/api/images/favicon/android-chrome-512x512.png", "sizes": "512x512", "type": "image/png"},
		},
		"theme_color":      themeColor,
		"background_color": "#ffffff",
		"display":          "standalone",
	}, nil
}
