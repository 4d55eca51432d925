package models

import (
	"gorm.io/gorm"
)

// User is a parent account. Children ask questions under it; questions asked
// without a session are stored with no user.
type User struct {
	gorm.Model
	DiscordID   string `gorm:"uniqueIndex" json:"-"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Avatar      string `json:"avatar"`
}
