// Package engine holds the progression rules of FitQuest: the points ledger,
// the rewards redemption engine and the daily spin wheel. Everything here
// works against the abstract storage.Store so the rules stay identical across
// the in-memory and the database-backed gateway.
package engine

import (
	"context"
	"time"

	"github.com/fitquest/fitquest/models"
	"github.com/fitquest/fitquest/storage"
)

// timeNow is swapped out by tests that pin the clock.
var timeNow = time.Now

// DefaultWorkoutBonus is the fixed award for finishing any workout,
// independent of its duration or content.
const DefaultWorkoutBonus = 30

// Ledger is the single authority for turning point deltas into consistent
// (points, level) pairs and for the two completion transitions.
type Ledger struct {
	store        storage.Store
	workoutBonus int
}

// NewLedger creates a Ledger. A non-positive workoutBonus falls back to the
// default of 30 points.
func NewLedger(store storage.Store, workoutBonus int) *Ledger {
	if workoutBonus <= 0 {
		workoutBonus = DefaultWorkoutBonus
	}
	return &Ledger{store: store, workoutBonus: workoutBonus}
}

// ApplyPoints applies a delta (negative for debits) and recomputes the level.
// The store refuses debits that would go negative; no clamping happens here.
func (l *Ledger) ApplyPoints(ctx context.Context, userID uint, delta int) (*models.User, error) {
	return l.store.AddPoints(ctx, userID, delta)
}

// UpdateChallengeProgress sets progress on an incomplete challenge. Progress
// outside 0-100 is a validation error. Completed challenges are terminal and
// come back unchanged. Ownership is the caller's concern.
func (l *Ledger) UpdateChallengeProgress(ctx context.Context, challengeID uint, progress int) (*models.Challenge, error) {
	if progress < 0 || progress > 100 {
		return nil, &ValidationError{Fields: []string{"progress"}}
	}
	return l.store.SetChallengeProgress(ctx, challengeID, progress)
}

// CompleteChallenge marks a challenge complete and awards its points to the
// owning user. Record and award commit together in the store, so the award
// fires exactly once: repeated calls return the completed challenge with a
// zero award.
func (l *Ledger) CompleteChallenge(ctx context.Context, challengeID uint) (*models.Challenge, int, error) {
	challenge, first, err := l.store.CompleteChallenge(ctx, challengeID)
	if err != nil {
		return nil, 0, err
	}
	if !first {
		return challenge, 0, nil
	}
	return challenge, challenge.Points, nil
}

// CompleteWorkout stamps the completion time and awards the fixed workout
// bonus, once, in the same store transaction as the stamp. Streak advancement
// is the caller's decision, via IncrementStreak.
func (l *Ledger) CompleteWorkout(ctx context.Context, workoutID uint) (*models.Workout, int, error) {
	workout, first, err := l.store.CompleteWorkout(ctx, workoutID, timeNow(), l.workoutBonus)
	if err != nil {
		return nil, 0, err
	}
	if !first {
		return workout, 0, nil
	}
	return workout, l.workoutBonus, nil
}

// IncrementStreak bumps the consecutive-day counter by one.
func (l *Ledger) IncrementStreak(ctx context.Context, userID uint) (*models.User, error) {
	user, err := l.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return l.store.SetUserStreak(ctx, userID, user.StreakDays+1)
}

// SetStreak overwrites the streak counter; used by re-sync flows.
func (l *Ledger) SetStreak(ctx context.Context, userID uint, days int) (*models.User, error) {
	if days < 0 {
		return nil, &ValidationError{Fields: []string{"streak_days"}}
	}
	return l.store.SetUserStreak(ctx, userID, days)
}
