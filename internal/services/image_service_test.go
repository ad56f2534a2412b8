package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"foodtruck_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageService_Upload(t *testing.T) {
	blobs := repositories.NewMemoryBlobStore()
	svc := NewImageService(blobs)
	svc.(*imageService).now = func() time.Time { return time.UnixMilli(1700000000000) }
	ctx := context.Background()

	key, err := svc.Upload(ctx, "Pork Bun (large).PNG", "image/png", []byte("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "menu/1700000000000-Pork-Bun--large-.png", key)

	blob, err := svc.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "image/png", blob.ContentType)
	assert.Equal(t, []byte("png-bytes"), blob.Data)
}

func TestImageService_UploadRejects(t *testing.T) {
	svc := NewImageService(repositories.NewMemoryBlobStore())
	ctx := context.Background()

	_, err := svc.Upload(ctx, "anim.gif", "image/gif", []byte("gif"))
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = svc.Upload(ctx, "huge.jpg", "image/jpeg", bytes.Repeat([]byte{0}, MaxImageSize+1))
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestImageService_RestoreInfersContentType(t *testing.T) {
	blobs := repositories.NewMemoryBlobStore()
	svc := NewImageService(blobs)
	ctx := context.Background()

	require.NoError(t, svc.Restore(ctx, "favicon/favicon-32x32.png", "application/octet-stream", []byte("png")))
	require.NoError(t, svc.Restore(ctx, "menu/legacy", "", []byte("jpg")))

	blob, err := svc.Get(ctx, "favicon/favicon-32x32.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", blob.ContentType)

	blob, err = svc.Get(ctx, "menu/legacy")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", blob.ContentType)

	assert.ErrorIs(t, svc.Restore(ctx, "", "image/png", nil), ErrInvalidImage)
}

func TestImageService_DeleteAndList(t *testing.T) {
	blobs := repositories.NewMemoryBlobStore()
	svc := NewImageService(blobs)
	ctx := context.Background()
	require.NoError(t, blobs.Put(ctx, "menu/a.jpg", []byte("a"), "image/jpeg"))
	require.NoError(t, blobs.Put(ctx, "menu/b.jpg", []byte("b"), "image/jpeg"))

	require.NoError(t, svc.Delete(ctx, "menu/a.jpg"))
	keys, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"menu/b.jpg"}, keys)

	assert.ErrorIs(t, svc.Delete(ctx, ""), ErrInvalidImage)
	_, err = svc.Get(ctx, "menu/a.jpg")
	assert.ErrorIs(t, err, ErrImageNotFound)
	_, err = svc.Get(ctx, "/")
	assert.ErrorIs(t, err, ErrImageNotFound)
}
