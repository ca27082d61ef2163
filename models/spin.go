package models

import "time"

// Spin outcome labels.
const (
	SpinRewardPoints   = "points"
	SpinRewardAvatar   = "avatar"
	SpinRewardSurprise = "surprise"
)

// SpinResult records one daily-wheel draw. Append-only; the most recent entry
// per local calendar day is what exhausts the daily spin.
type SpinResult struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"index;not null" json:"user_id"`
	Reward   string    `gorm:"size:32;not null" json:"reward"`
	Points   *int      `json:"points"` // nil or zero for non-point outcomes
	SpinDate time.Time `gorm:"index;not null" json:"spin_date"`
}

// SameLocalDay reports whether two instants fall on the same calendar day in
// the server's local zone.
func SameLocalDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}
