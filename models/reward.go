package models

import "time"

// Reward categories. RewardCategoryPhysical is the only one that triggers the
// payment-collection handshake during redemption; nothing else is
// category-specific.
const (
	RewardCategoryDigital  = "Digital"
	RewardCategoryAvatar   = "Avatar"
	RewardCategoryPhysical = "Real World"
)

// Reward is a global catalog entry users redeem points for.
type Reward struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Category    string `gorm:"size:32;not null" json:"category"`
	Icon        string `gorm:"size:64" json:"icon"`
	PointsCost  int    `gorm:"not null" json:"points_cost"`
	IsAvailable bool   `gorm:"default:true" json:"is_available"`
}

// IsPhysical reports whether redeeming this reward requires shipping details
// and a payment-collection session.
func (r *Reward) IsPhysical() bool {
	return r.Category == RewardCategoryPhysical
}

// UserReward records that a user acquired a reward. Append-only.
type UserReward struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"index;not null" json:"user_id"`
	RewardID     uint      `gorm:"index;not null" json:"reward_id"`
	AcquiredDate time.Time `json:"acquired_date"`
}
