package handlers

import (
	"errors"
	"net/http"

	"foodtruck_backend/internal/middleware"
	"foodtruck_backend/internal/models"
	"foodtruck_backend/internal/services"
	"foodtruck_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler exchanges the admin key for a session token, so kitchen
// screens and POS tablets need not store the key itself.
type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(as services.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

func (h *AuthHandler) CreateSession(c *gin.Context) {
	var req models.AdminSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondInvalidJSON(c, err)
			return
		}
	}

	session, err := h.authService.CreateSession(c.GetHeader(middleware.AdminKeyHeader), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAdminKey):
			utils.LogWarn("Admin session refused", map[string]interface{}{"device": req.Device})
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Unauthorized", ""))
		case errors.Is(err, services.ErrAdminNotConfigured):
			utils.LogError(err, "Admin session requested but admin auth is not configured")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Server misconfigured", err.Error()))
		default:
			respondServiceError(c, err, "Failed to create session")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "token": session.Token, "expiresAt": session.ExpiresAt})
}
