package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a FitQuest account. Passwords are stored as bcrypt hashes only.
type User struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	Username           string         `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email              string         `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash       string         `gorm:"size:255" json:"-"`
	AvatarID           int            `gorm:"default:1" json:"avatar_id"`
	Level              int            `gorm:"default:1" json:"level"`
	Points             int            `gorm:"default:0" json:"points"`
	StreakDays         int            `gorm:"default:0" json:"streak_days"`
	FitnessGoal        *string        `gorm:"size:255" json:"fitness_goal"`
	WorkoutDaysPerWeek int            `gorm:"default:3" json:"workout_days_per_week"`
	ThemeColor         int            `gorm:"default:0" json:"theme_color"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

// LevelForPoints computes the level implied by a cumulative balance. Level is
// derived state: persisted for query convenience but recomputed on every
// points mutation, never trusted on its own.
func LevelForPoints(points int) int {
	return points/100 + 1
}

// BeforeCreate hook ensures timestamps and derived fields are set.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	if u.Level == 0 {
		u.Level = LevelForPoints(u.Points)
	}
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}
