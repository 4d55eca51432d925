package models

import "time"

// Question is one question/answer interaction. Rows are written once by the
// ask flow and never updated.
type Question struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"index" json:"userId"`
	Question  string    `gorm:"not null" json:"question"`
	Answer    string    `gorm:"not null" json:"answer"`
	ImageURL  string    `json:"imageUrl"`
	AudioURL  string    `json:"audioUrl,omitempty"`
	CreatedAt time.Time `gorm:"index;not null" json:"createdAt"`
}
