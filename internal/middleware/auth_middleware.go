package middleware

import (
	"errors"
	"net/http"
	"strings"

	"foodtruck_backend/internal/services"
	"foodtruck_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const AdminKeyHeader = "X-Admin-Key"

// AdminAuthMiddleware admits requests carrying the admin key in X-Admin-Key
// or an admin session token as "Authorization: Bearer <token>".
func AdminAuthMiddleware(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var err error
		if key := c.GetHeader(AdminKeyHeader); key != "" {
			err = authService.VerifyAdminKey(key)
			if err == nil {
				c.Set("adminDevice", "key")
			}
		} else if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
			var claims *utils.AdminClaims
			claims, err = authService.VerifySession(token)
			if err == nil {
				c.Set("adminDevice", claims.Device)
			}
		} else {
			err = authService.VerifyAdminKey("")
		}

		if err != nil {
			if errors.Is(err, services.ErrAdminNotConfigured) {
				utils.LogError(err, "Server misconfigured: admin key not set")
				utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Server misconfigured: ADMIN_KEY not set", ""))
				return
			}
			utils.LogWarn("Unauthorized access attempt", map[string]interface{}{"path": c.FullPath(), "client_ip": c.ClientIP()})
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Unauthorized", ""))
			return
		}

		utils.LogDebug("Admin auth successful", map[string]interface{}{"device": c.GetString("adminDevice")})
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
