package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"foodtruck_backend/internal/models"
)

// ContentRepository reads and writes the simple content documents.
type ContentRepository interface {
	GetRaw(ctx context.Context, key string) (json.RawMessage, error)
	PutRaw(ctx context.Context, key string, value json.RawMessage) error
	GetMenu(ctx context.Context) (*models.MenuData, error)
	GetSettings(ctx context.Context) (*models.Settings, error)
}

type contentRepository struct {
	store DocumentStore
}

func NewContentRepository(store DocumentStore) ContentRepository {
	return &contentRepository{store: store}
}

func (r *contentRepository) GetRaw(ctx context.Context, key string) (json.RawMessage, error) {
	return r.store.Get(ctx, key)
}

func (r *contentRepository) PutRaw(ctx context.Context, key string, value json.RawMessage) error {
	return r.store.Put(ctx, key, value)
}

// GetMenu returns ErrNotFound when no menu document exists or it has no categories field.
func (r *contentRepository) GetMenu(ctx context.Context) (*models.MenuData, error) {
	raw, err := r.store.Get(ctx, models.ContentMenu)
	if err != nil {
		return nil, err
	}
	var shape struct {
		Categories *[]models.MenuCategory `json:"categories"`
	}
	if err := json.Unmarshal(raw, &shape); err != nil {
		return nil, fmt.Errorf("%w: decoding menu: %v", ErrDatabaseError, err)
	}
	if shape.Categories == nil {
		return nil, ErrNotFound
	}
	return &models.MenuData{Categories: *shape.Categories}, nil
}

// GetSettings treats a missing document as all features off.
func (r *contentRepository) GetSettings(ctx context.Context) (*models.Settings, error) {
	raw, err := r.store.Get(ctx, models.ContentSettings)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return &models.Settings{}, nil
		}
		return nil, err
	}
	var settings models.Settings
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &settings); err != nil {
			return nil, fmt.Errorf("%w: decoding settings: %v", ErrDatabaseError, err)
		}
	}
	return &settings, nil
}
