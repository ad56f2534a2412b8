package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"foodtruck_backend/internal/models"
	"foodtruck_backend/internal/repositories"
	"foodtruck_backend/pkg/utils"
)

const backupVersion = 1

type RestoreRequest struct {
	Content             *models.BackupContent `json:"content"`
	ClearExistingImages bool                  `json:"clearExistingImages"`
}

type BackupService interface {
	Export(ctx context.Context) (*models.Backup, error)
	Restore(ctx context.Context, req RestoreRequest) ([]string, error)
}

type backupService struct {
	contentRepo repositories.ContentRepository
	bookingRepo repositories.BookingRepository
	blobs       repositories.BlobStore
	now         func() time.Time
}

// NewBackupService needs the same BookingRepository the booking service uses,
// so a restore is serialized with booking submissions.
func NewBackupService(contentRepo repositories.ContentRepository, bookingRepo repositories.BookingRepository, blobs repositories.BlobStore) BackupService {
	return &backupService{
		contentRepo: contentRepo,
		bookingRepo: bookingRepo,
		blobs:       blobs,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func (s *backupService) rawOrNil(ctx context.Context, key string) (json.RawMessage, error) {
	raw, err := s.contentRepo.GetRaw(ctx, key)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: reading %s: %v", ErrPersistence, key, err)
	}
	return raw, nil
}

func (s *backupService) Export(ctx context.Context) (*models.Backup, error) {
	backup := &models.Backup{
		Version:    backupVersion,
		ExportedAt: s.now().Format(time.RFC3339Nano),
	}
	targets := []struct {
		key string
		dst *json.RawMessage
	}{
		{models.ContentMenu, &backup.Content.Menu},
		{models.ContentSchedule, &backup.Content.Schedule},
		{models.ContentBookings, &backup.Content.Bookings},
		{models.ContentHero, &backup.Content.Hero},
		{models.ContentAbout, &backup.Content.About},
	}
	for _, t := range targets {
		raw, err := s.rawOrNil(ctx, t.key)
		if err != nil {
			return nil, err
		}
		*t.dst = raw
	}

	keys, err := s.blobs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: listing images: %v", ErrPersistence, err)
	}
	backup.ImageKeys = keys

	utils.LogInfo("Backup created", map[string]interface{}{"image_count": len(keys)})
	return backup, nil
}

// Restore writes every document present in the request. Image clearing is
// best effort: a failed delete is logged and the restore continues.
func (s *backupService) Restore(ctx context.Context, req RestoreRequest) ([]string, error) {
	if req.Content == nil {
		return nil, fmt.Errorf("%w: no content provided", ErrInvalidInput)
	}
	if !isAbsent(req.Content.Bookings) {
		var list []json.RawMessage
		if err := json.Unmarshal(req.Content.Bookings, &list); err != nil {
			return nil, fmt.Errorf("%w: bookings must be a list", ErrInvalidInput)
		}
	}

	if req.ClearExistingImages {
		keys, err := s.blobs.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: listing images: %v", ErrPersistence, err)
		}
		cleared := 0
		for _, key := range keys {
			if err := s.blobs.Delete(ctx, key); err != nil {
				utils.LogWarn("Failed to delete image during restore", map[string]interface{}{"key": key, "error": err.Error()})
				continue
			}
			cleared++
		}
		utils.LogInfo("Cleared existing images", map[string]interface{}{"count": cleared, "listed": len(keys)})
	}

	docs := []struct {
		key   string
		value json.RawMessage
	}{
		{models.ContentMenu, req.Content.Menu},
		{models.ContentSchedule, req.Content.Schedule},
		{models.ContentBookings, req.Content.Bookings},
		{models.ContentHero, req.Content.Hero},
		{models.ContentAbout, req.Content.About},
		{models.ContentFavicon, req.Content.Favicon},
	}
	restored := []string{}
	for _, d := range docs {
		// Export writes null for documents that were never saved.
		if isAbsent(d.value) {
			continue
		}
		var err error
		if d.key == models.ContentBookings {
			err = s.bookingRepo.Replace(ctx, d.value)
		} else {
			err = s.contentRepo.PutRaw(ctx, d.key, d.value)
		}
		if err != nil {
			if errors.Is(err, repositories.ErrInvalidDocument) {
				return restored, fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			return restored, fmt.Errorf("%w: restoring %s: %v", ErrPersistence, d.key, err)
		}
		restored = append(restored, d.key)
	}

	utils.LogInfo("Content restored", map[string]interface{}{"restored_keys": restored})
	return restored, nil
}
