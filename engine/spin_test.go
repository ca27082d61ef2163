package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitquest/fitquest/models"
	"github.com/fitquest/fitquest/storage"
)

func pinClock(t *testing.T, at time.Time) {
	t.Helper()
	prev := timeNow
	timeNow = func() time.Time { return at }
	t.Cleanup(func() { timeNow = prev })
}

func TestCanSpinToday(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 0, 0, 0, time.Local)

	assert.True(t, CanSpinToday(nil, now))

	yesterday := []models.SpinResult{{SpinDate: now.Add(-24 * time.Hour)}}
	assert.True(t, CanSpinToday(yesterday, now))

	// Same calendar day counts even across a large hour gap.
	thisMorning := []models.SpinResult{{SpinDate: time.Date(2025, 6, 15, 0, 5, 0, 0, time.Local)}}
	assert.False(t, CanSpinToday(thisMorning, now))

	// Just before local midnight is still the previous day.
	lateYesterday := []models.SpinResult{{SpinDate: time.Date(2025, 6, 14, 23, 59, 0, 0, time.Local)}}
	assert.True(t, CanSpinToday(lateYesterday, now))
}

func TestSpinPaysOutPoints(t *testing.T) {
	store := storage.NewMemStore()
	user := newTestUser(t, store)
	wheel := NewSpinWheel(store, nil)
	wheel.randInt = func(n int) int { return 1 } // 100 point slot

	pinClock(t, time.Date(2025, 6, 15, 9, 0, 0, 0, time.Local))

	result, err := wheel.Spin(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SpinRewardPoints, result.Reward)
	require.NotNil(t, result.Points)
	assert.Equal(t, 100, *result.Points)

	current, err := store.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, current.Points)
	assert.Equal(t, 2, current.Level)

	history, canSpin, err := wheel.Status(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
	assert.False(t, canSpin)
}

func TestSpinCosmeticOutcomeHasNilPoints(t *testing.T) {
	store := storage.NewMemStore()
	user := newTestUser(t, store)
	wheel := NewSpinWheel(store, nil)
	wheel.randInt = func(n int) int { return 2 } // avatar slot

	pinClock(t, time.Date(2025, 6, 15, 9, 0, 0, 0, time.Local))

	result, err := wheel.Spin(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SpinRewardAvatar, result.Reward)
	assert.Nil(t, result.Points)

	current, err := store.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Zero(t, current.Points)
}

func TestSpinOncePerDay(t *testing.T) {
	store := storage.NewMemStore()
	user := newTestUser(t, store)
	wheel := NewSpinWheel(store, nil)
	wheel.randInt = func(n int) int { return 3 } // surprise, 20 points

	pinClock(t, time.Date(2025, 6, 15, 9, 0, 0, 0, time.Local))

	_, err := wheel.Spin(context.Background(), user.ID)
	require.NoError(t, err)

	_, err = wheel.Spin(context.Background(), user.ID)
	assert.ErrorIs(t, err, ErrAlreadySpunToday)

	// No second payout.
	current, err := store.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, current.Points)

	// The gate resets on the next local day.
	pinClock(t, time.Date(2025, 6, 16, 0, 1, 0, 0, time.Local))

	_, err = wheel.Spin(context.Background(), user.ID)
	require.NoError(t, err)

	history, _, err := wheel.Status(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestSpinCustomOutcomeTable(t *testing.T) {
	store := storage.NewMemStore()
	user := newTestUser(t, store)
	wheel := NewSpinWheel(store, []SpinOutcome{{Reward: models.SpinRewardPoints, Points: 7}})
	wheel.randInt = func(n int) int {
		require.Equal(t, 1, n)
		return 0
	}

	pinClock(t, time.Date(2025, 6, 15, 9, 0, 0, 0, time.Local))

	result, err := wheel.Spin(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, result.Points)
	assert.Equal(t, 7, *result.Points)
}
