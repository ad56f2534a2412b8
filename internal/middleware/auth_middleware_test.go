package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"foodtruck_backend/internal/config"
	"foodtruck_backend/internal/models"
	"foodtruck_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedEngine(cfg config.AdminConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin/ping", AdminAuthMiddleware(services.NewAuthService(cfg)), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"device": c.GetString("adminDevice")})
	})
	return r
}

func TestAdminAuthMiddleware(t *testing.T) {
	cfg := config.AdminConfig{Key: "s3cret", JWTSecret: "jwt-secret", SessionTTL: time.Hour}
	r := newProtectedEngine(cfg)

	session, err := services.NewAuthService(cfg).CreateSession("s3cret", models.AdminSessionRequest{Device: "kds-1"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header map[string]string
		status int
	}{
		{"no credentials", nil, http.StatusUnauthorized},
		{"wrong key", map[string]string{AdminKeyHeader: "guess"}, http.StatusUnauthorized},
		{"right key", map[string]string{AdminKeyHeader: "s3cret"}, http.StatusOK},
		{"session token", map[string]string{"Authorization": "Bearer " + session.Token}, http.StatusOK},
		{"garbage token", map[string]string{"Authorization": "Bearer abc.def.ghi"}, http.StatusUnauthorized},
		{"basic auth", map[string]string{"Authorization": "Basic czNjcmV0"}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestAdminAuthMiddleware_SessionDevice(t *testing.T) {
	cfg := config.AdminConfig{Key: "s3cret", JWTSecret: "jwt-secret", SessionTTL: time.Hour}
	r := newProtectedEngine(cfg)
	session, err := services.NewAuthService(cfg).CreateSession("s3cret", models.AdminSessionRequest{Device: "kds-1"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"device":"kds-1"}`, w.Body.String())
}

func TestAdminAuthMiddleware_Misconfigured(t *testing.T) {
	r := newProtectedEngine(config.AdminConfig{})

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set(AdminKeyHeader, "anything")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "ADMIN_KEY not set")
}
