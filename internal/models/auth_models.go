package models

import "time"

// AdminSessionRequest trades the admin key for a device-scoped token.
type AdminSessionRequest struct {
	Device string `json:"device"`
}

type AdminSession struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
