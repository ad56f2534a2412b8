package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"foodtruck_backend/internal/services"
	"foodtruck_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Content documents are small; menus with many categories stay well below this.
const maxContentBody = 2 << 20

// ContentHandler serves the editable site documents (menu, hero, ...).
type ContentHandler struct {
	contentService services.ContentService
}

func NewContentHandler(cs services.ContentService) *ContentHandler {
	return &ContentHandler{contentService: cs}
}

// Get returns a handler that serves one document or its default.
func (h *ContentHandler) Get(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := h.contentService.Get(c.Request.Context(), key)
		if err != nil {
			respondServiceError(c, err, "Failed to load "+key+".")
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
	}
}

// Put returns a handler that replaces one document with the request body.
func (h *ContentHandler) Put(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxContentBody))
		if err != nil || !json.Valid(body) {
			utils.RespondValidationFailed(c, "Invalid JSON")
			return
		}
		if err := h.contentService.Put(c.Request.Context(), key, body); err != nil {
			respondServiceError(c, err, "Failed to save "+key+".")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// DeleteFavicon drops the custom favicon and its generated variants.
func (h *ContentHandler) DeleteFavicon(c *gin.Context) {
	if err := h.contentService.ResetFavicon(c.Request.Context()); err != nil {
		respondServiceError(c, err, "Failed to delete favicon.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *ContentHandler) Manifest(c *gin.Context) {
	manifest, err := h.contentService.Manifest(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to build manifest.")
		return
	}
	body, err := json.Marshal(manifest)
	if err != nil {
		respondServiceError(c, err, "Failed to build manifest.")
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "application/manifest+json", body)
}
