package engine

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/fitquest/fitquest/models"
	"github.com/fitquest/fitquest/storage"
)

// SpinOutcome is one slot on the wheel. Points is the payout for the
// "points"/"surprise" slots and zero for cosmetic ones.
type SpinOutcome struct {
	Reward string `json:"reward"`
	Points int    `json:"points"`
}

// DefaultSpinOutcomes is the stock wheel: four equally likely slots.
func DefaultSpinOutcomes() []SpinOutcome {
	return []SpinOutcome{
		{Reward: models.SpinRewardPoints, Points: 50},
		{Reward: models.SpinRewardPoints, Points: 100},
		{Reward: models.SpinRewardAvatar, Points: 0},
		{Reward: models.SpinRewardSurprise, Points: 20},
	}
}

// SpinWheel enforces the one-free-spin-per-day rule and draws outcomes. The
// outcome is decided entirely server side; whatever the client animates
// carries no authority.
type SpinWheel struct {
	store    storage.Store
	outcomes []SpinOutcome
	randInt  func(n int) int
}

// NewSpinWheel creates the spin engine. An empty outcomes slice falls back to
// the default table.
func NewSpinWheel(store storage.Store, outcomes []SpinOutcome) *SpinWheel {
	if len(outcomes) == 0 {
		outcomes = DefaultSpinOutcomes()
	}
	return &SpinWheel{
		store:    store,
		outcomes: outcomes,
		randInt:  rand.Intn,
	}
}

// CanSpinToday scans the append-only history for an entry on today's local
// calendar day. There is no "last spin" field to consult; the log is the
// source of truth.
func CanSpinToday(history []models.SpinResult, now time.Time) bool {
	for _, s := range history {
		if models.SameLocalDay(s.SpinDate, now) {
			return false
		}
	}
	return true
}

// Status returns the user's spin history plus the daily-gate verdict.
func (w *SpinWheel) Status(ctx context.Context, userID uint) ([]models.SpinResult, bool, error) {
	history, err := w.store.SpinsByUser(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	return history, CanSpinToday(history, timeNow()), nil
}

// Spin draws a uniformly random outcome and persists it; the store records
// the draw and credits its payout in one atomic step. ErrAlreadySpunToday
// when the daily spin is spent; the store re-checks the gate under the user's
// lock so racing requests cannot both record.
func (w *SpinWheel) Spin(ctx context.Context, userID uint) (*models.SpinResult, error) {
	history, err := w.store.SpinsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := timeNow()
	if !CanSpinToday(history, now) {
		return nil, ErrAlreadySpunToday
	}

	outcome := w.outcomes[w.randInt(len(w.outcomes))]

	result := &models.SpinResult{
		UserID:   userID,
		Reward:   outcome.Reward,
		SpinDate: now,
	}
	if outcome.Points > 0 {
		pts := outcome.Points
		result.Points = &pts
	}

	if err := w.store.CreateSpinResult(ctx, result); err != nil {
		if errors.Is(err, storage.ErrSpinExhausted) {
			return nil, ErrAlreadySpunToday
		}
		return nil, err
	}
	return result, nil
}
