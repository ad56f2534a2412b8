package services

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"foodtruck_backend/internal/config"
	"foodtruck_backend/internal/models"
	"foodtruck_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

const defaultSessionDevice = "admin"

// AuthService guards the admin surface. Callers present either the shared
// admin key or a session token previously issued for it.
type AuthService interface {
	VerifyAdminKey(key string) error
	CreateSession(key string, req models.AdminSessionRequest) (*models.AdminSession, error)
	VerifySession(token string) (*utils.AdminClaims, error)
}

type authService struct {
	cfg config.AdminConfig
}

func NewAuthService(cfg config.AdminConfig) AuthService {
	return &authService{cfg: cfg}
}

func (s *authService) VerifyAdminKey(key string) error {
	if s.cfg.Key == "" && s.cfg.KeyHash == "" {
		return ErrAdminNotConfigured
	}
	if key == "" {
		return ErrInvalidAdminKey
	}
	if s.cfg.KeyHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.KeyHash), []byte(key)); err != nil {
			if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
				return ErrInvalidAdminKey
			}
			return fmt.Errorf("%w: %v", ErrAdminNotConfigured, err)
		}
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(s.cfg.Key), []byte(key)) != 1 {
		return ErrInvalidAdminKey
	}
	return nil
}

func (s *authService) CreateSession(key string, req models.AdminSessionRequest) (*models.AdminSession, error) {
	if err := s.VerifyAdminKey(key); err != nil {
		return nil, err
	}
	if s.cfg.JWTSecret == "" {
		return nil, ErrAdminNotConfigured
	}
	device := strings.TrimSpace(req.Device)
	if device == "" {
		device = defaultSessionDevice
	}

	token, expiresAt, err := utils.GenerateAdminToken([]byte(s.cfg.JWTSecret), device, s.cfg.SessionTTL)
	if err != nil {
		utils.LogError(err, "Failed to issue admin session")
		return nil, fmt.Errorf("%w: %v", ErrAdminNotConfigured, err)
	}
	utils.LogInfo("Admin session issued", map[string]interface{}{"device": device, "expires_at": expiresAt})
	return &models.AdminSession{Token: token, ExpiresAt: expiresAt}, nil
}

// VerifySession rejects every token when sessions are disabled (no JWT secret).
func (s *authService) VerifySession(token string) (*utils.AdminClaims, error) {
	if s.cfg.JWTSecret == "" {
		return nil, fmt.Errorf("%w: sessions are disabled", ErrInvalidAdminKey)
	}
	claims, err := utils.ValidateAdminToken([]byte(s.cfg.JWTSecret), token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAdminKey, err)
	}
	return claims, nil
}
