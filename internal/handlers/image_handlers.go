package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"foodtruck_backend/internal/services"
	"foodtruck_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type ImageHandler struct {
	imageService services.ImageService
}

func NewImageHandler(is services.ImageService) *ImageHandler {
	return &ImageHandler{imageService: is}
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	// One byte over the cap is enough for the service to reject it.
	return io.ReadAll(io.LimitReader(f, services.MaxImageSize+1))
}

func (h *ImageHandler) respondImageError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, services.ErrInvalidImage) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, detailMessage(err, services.ErrInvalidImage), err.Error()))
		return
	}
	respondServiceError(c, err, fallback)
}

// Upload stores a menu image and returns its key.
func (h *ImageHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		utils.RespondValidationFailed(c, "No file provided")
		return
	}
	data, err := readFormFile(fh)
	if err != nil {
		respondServiceError(c, err, "Failed to upload image")
		return
	}

	key, err := h.imageService.Upload(c.Request.Context(), fh.Filename, fh.Header.Get("Content-Type"), data)
	if err != nil {
		h.respondImageError(c, err, "Failed to upload image")
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key})
}

// Restore puts one image back under the key recorded in a backup.
func (h *ImageHandler) Restore(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		utils.RespondValidationFailed(c, "No file provided")
		return
	}
	key := c.PostForm("key")
	if utils.IsEmpty(key) {
		utils.RespondValidationFailed(c, "No key provided")
		return
	}
	data, err := readFormFile(fh)
	if err != nil {
		respondServiceError(c, err, "Failed to restore image")
		return
	}

	if err := h.imageService.Restore(c.Request.Context(), key, fh.Header.Get("Content-Type"), data); err != nil {
		h.respondImageError(c, err, "Failed to restore image")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "key": key})
}

func (h *ImageHandler) Delete(c *gin.Context) {
	key := c.Query("key")
	if utils.IsEmpty(key) {
		utils.RespondValidationFailed(c, "No key provided")
		return
	}
	if err := h.imageService.Delete(c.Request.Context(), key); err != nil {
		h.respondImageError(c, err, "Failed to delete image")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *ImageHandler) List(c *gin.Context) {
	keys, err := h.imageService.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to list images")
		return
	}
	c.JSON(http.StatusOK, gin.H{"keys": keys})
}

// Serve streams image bytes. Keys never change content, so responses are
// cached for a year.
func (h *ImageHandler) Serve(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("path"), "/")
	if key == "" {
		c.String(http.StatusNotFound, "Not found")
		return
	}

	blob, err := h.imageService.Get(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, services.ErrImageNotFound) {
			c.String(http.StatusNotFound, "Not found")
			return
		}
		respondServiceError(c, err, "Failed to load image")
		return
	}

	sum := sha256.Sum256(blob.Data)
	etag := `"` + hex.EncodeToString(sum[:16]) + `"`
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.Header("ETag", etag)
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Data(http.StatusOK, blob.ContentType, blob.Data)
}
