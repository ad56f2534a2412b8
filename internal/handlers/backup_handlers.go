package handlers

import (
	"errors"
	"net/http"

	"foodtruck_backend/internal/services"
	"foodtruck_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type BackupHandler struct {
	backupService services.BackupService
}

func NewBackupHandler(bs services.BackupService) *BackupHandler {
	return &BackupHandler{backupService: bs}
}

func (h *BackupHandler) Export(c *gin.Context) {
	backup, err := h.backupService.Export(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to create backup")
		return
	}
	c.JSON(http.StatusOK, backup)
}

func (h *BackupHandler) Restore(c *gin.Context) {
	var req services.RestoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidJSON(c, err)
		return
	}

	restored, err := h.backupService.Restore(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			utils.RespondValidationFailed(c, "No content provided")
			return
		}
		respondServiceError(c, err, "Failed to restore content")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Content restored successfully", "restoredKeys": restored})
}
