package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitquest/fitquest/models"
	"github.com/fitquest/fitquest/storage"
)

func newTestUser(t *testing.T, store *storage.MemStore) *models.User {
	t.Helper()
	u := &models.User{
		Username:     "tester",
		Email:        "tester@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, store.CreateUser(context.Background(), u))
	return u
}

func TestLevelForPoints(t *testing.T) {
	cases := []struct {
		points int
		level  int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{199, 2},
		{250, 3},
		{1000, 11},
	}
	for _, c := range cases {
		assert.Equal(t, c.level, models.LevelForPoints(c.points), "points=%d", c.points)
	}
}

func TestApplyPointsRecomputesLevel(t *testing.T) {
	store := storage.NewMemStore()
	ledger := NewLedger(store, 0)
	user := newTestUser(t, store)

	updated, err := ledger.ApplyPoints(context.Background(), user.ID, 250)
	require.NoError(t, err)
	assert.Equal(t, 250, updated.Points)
	assert.Equal(t, 3, updated.Level)

	updated, err = ledger.ApplyPoints(context.Background(), user.ID, -200)
	require.NoError(t, err)
	assert.Equal(t, 50, updated.Points)
	assert.Equal(t, 1, updated.Level)
}

func TestApplyPointsRefusesNegativeBalance(t *testing.T) {
	store := storage.NewMemStore()
	ledger := NewLedger(store, 0)
	user := newTestUser(t, store)

	_, err := ledger.ApplyPoints(context.Background(), user.ID, 100)
	require.NoError(t, err)

	_, err = ledger.ApplyPoints(context.Background(), user.ID, -150)
	var insufficient *storage.InsufficientPointsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 100, insufficient.Have)
	assert.Equal(t, 150, insufficient.Need)
	assert.Equal(t, 50, insufficient.Shortfall())

	// prior state untouched
	current, err := store.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, current.Points)
	assert.Equal(t, 2, current.Level)
}

func TestUpdateChallengeProgress(t *testing.T) {
	store := storage.NewMemStore()
	ledger := NewLedger(store, 0)
	user := newTestUser(t, store)

	challenges, err := store.ChallengesByUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, challenges)
	challenge := challenges[0]

	updated, err := ledger.UpdateChallengeProgress(context.Background(), challenge.ID, 40)
	require.NoError(t, err)
	assert.Equal(t, 40, updated.Progress)

	for _, bad := range []int{-1, 101} {
		_, err := ledger.UpdateChallengeProgress(context.Background(), challenge.ID, bad)
		var validation *ValidationError
		require.ErrorAs(t, err, &validation, "progress=%d", bad)
		assert.Contains(t, validation.Fields, "progress")
	}
}

func TestCompleteChallengeAwardsOnce(t *testing.T) {
	store := storage.NewMemStore()
	ledger := NewLedger(store, 0)
	user := newTestUser(t, store)

	challenges, err := store.ChallengesByUser(context.Background(), user.ID)
	require.NoError(t, err)
	challenge := challenges[0]

	completed, awarded, err := ledger.CompleteChallenge(context.Background(), challenge.ID)
	require.NoError(t, err)
	assert.True(t, completed.IsComplete)
	assert.Equal(t, 100, completed.Progress)
	assert.Equal(t, challenge.Points, awarded)

	// A retried completion must not award again.
	completed, awarded, err = ledger.CompleteChallenge(context.Background(), challenge.ID)
	require.NoError(t, err)
	assert.True(t, completed.IsComplete)
	assert.Zero(t, awarded)

	current, err := store.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, challenge.Points, current.Points)
}

func TestProgressFrozenAfterCompletion(t *testing.T) {
	store := storage.NewMemStore()
	ledger := NewLedger(store, 0)
	user := newTestUser(t, store)

	challenges, err := store.ChallengesByUser(context.Background(), user.ID)
	require.NoError(t, err)
	challenge := challenges[0]

	_, _, err = ledger.CompleteChallenge(context.Background(), challenge.ID)
	require.NoError(t, err)

	after, err := ledger.UpdateChallengeProgress(context.Background(), challenge.ID, 10)
	require.NoError(t, err)
	assert.True(t, after.IsComplete)
	assert.Equal(t, 100, after.Progress)
}

func TestCompleteChallengeNotFound(t *testing.T) {
	store := storage.NewMemStore()
	ledger := NewLedger(store, 0)

	_, _, err := ledger.CompleteChallenge(context.Background(), 9999)
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestCompleteWorkoutFixedBonus(t *testing.T) {
	store := storage.NewMemStore()
	ledger := NewLedger(store, 0)
	user := newTestUser(t, store)

	// Bonus is fixed regardless of duration or exercise content.
	long := &models.Workout{UserID: user.ID, Title: "Leg Day", Exercises: `[{"name":"squat"}]`, Duration: 90}
	require.NoError(t, store.CreateWorkout(context.Background(), long))

	completed, awarded, err := ledger.CompleteWorkout(context.Background(), long.ID)
	require.NoError(t, err)
	require.NotNil(t, completed.CompletedDate)
	assert.Equal(t, DefaultWorkoutBonus, awarded)

	// Completing again is a no-op for points.
	_, awarded, err = ledger.CompleteWorkout(context.Background(), long.ID)
	require.NoError(t, err)
	assert.Zero(t, awarded)

	current, err := store.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, DefaultWorkoutBonus, current.Points)
}

func TestStreakPrimitives(t *testing.T) {
	store := storage.NewMemStore()
	ledger := NewLedger(store, 0)
	user := newTestUser(t, store)

	u, err := ledger.IncrementStreak(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, u.StreakDays)

	u, err = ledger.IncrementStreak(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, u.StreakDays)

	u, err = ledger.SetStreak(context.Background(), user.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, u.StreakDays)

	_, err = ledger.SetStreak(context.Background(), user.ID, -1)
	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)
}
