package models

import (
	"time"

	"gorm.io/gorm"
)

// APIKey lets a device (the mobile app) act on behalf of a user through the
// X-API-KEY header instead of the session cookie.
type APIKey struct {
	gorm.Model
	UserID     uint       `json:"user_id" gorm:"index"`
	User       User       `json:"-"`
	Key        string     `json:"key" gorm:"uniqueIndex"`
	DeviceName string     `json:"device_name"`
	ExpiresAt  *time.Time `json:"expires_at"`
	LastUsedAt *time.Time `json:"last_used_at"`
}

// Expired reports whether the key is past its expiry at t.
func (k APIKey) Expired(t time.Time) bool {
	return k.ExpiresAt != nil && t.After(*k.ExpiresAt)
}
