package models

import "time"

// Workout holds an exercise plan created by a user. Exercises is a JSON
// encoded array, opaque to the server. CompletedDate is nil until the workout
// is finished; completing it awards a fixed point bonus.
type Workout struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        uint       `gorm:"index;not null" json:"user_id"`
	Title         string     `gorm:"size:255;not null" json:"title"`
	Description   string     `gorm:"type:text" json:"description"`
	Exercises     string     `gorm:"type:text;not null" json:"exercises"`
	Duration      int        `gorm:"not null" json:"duration"` // minutes
	CompletedDate *time.Time `json:"completed_date"`
}
