package models

import "time"

// Achievement is an append-only milestone record for a user.
type Achievement struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"index;not null" json:"user_id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	Icon         string    `gorm:"size:64" json:"icon"`
	AchievedDate time.Time `json:"achieved_date"`
}
