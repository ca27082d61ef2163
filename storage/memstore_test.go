package storage

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitquest/fitquest/models"
)

func createUser(t *testing.T, m *MemStore, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, m.CreateUser(context.Background(), u))
	return u
}

func TestCreateUserSeedsStarterChallenges(t *testing.T) {
	m := NewMemStore()
	u := createUser(t, m, "alice")

	assert.Equal(t, 1, u.Level)
	assert.Equal(t, 1, u.AvatarID)
	assert.Equal(t, 3, u.WorkoutDaysPerWeek)

	challenges, err := m.ChallengesByUser(context.Background(), u.ID)
	require.NoError(t, err)
	require.Len(t, challenges, 4)
	for _, c := range challenges {
		assert.False(t, c.IsComplete)
		assert.Zero(t, c.Progress)
		assert.Positive(t, c.Points)
	}
}

func TestCreateUserRejectsDuplicates(t *testing.T) {
	m := NewMemStore()
	createUser(t, m, "alice")

	sameEmail := &models.User{Username: "alice2", Email: "alice@example.com"}
	assert.ErrorIs(t, m.CreateUser(context.Background(), sameEmail), ErrDuplicate)

	sameName := &models.User{Username: "alice", Email: "other@example.com"}
	assert.ErrorIs(t, m.CreateUser(context.Background(), sameName), ErrDuplicate)
}

func TestAddPointsConcurrent(t *testing.T) {
	m := NewMemStore()
	u := createUser(t, m, "alice")

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := m.AddPoints(context.Background(), u.ID, 10)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	current, err := m.GetUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, workers*10, current.Points)
	assert.Equal(t, models.LevelForPoints(workers*10), current.Level)
}

func TestAddPointsFloor(t *testing.T) {
	m := NewMemStore()
	u := createUser(t, m, "alice")

	_, err := m.AddPoints(context.Background(), u.ID, 40)
	require.NoError(t, err)

	_, err = m.AddPoints(context.Background(), u.ID, -41)
	var insufficient *InsufficientPointsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 40, insufficient.Have)
	assert.Equal(t, 41, insufficient.Need)

	// Draining to exactly zero is fine.
	current, err := m.AddPoints(context.Background(), u.ID, -40)
	require.NoError(t, err)
	assert.Zero(t, current.Points)
	assert.Equal(t, 1, current.Level)
}

func TestCompleteChallengeFirstWins(t *testing.T) {
	m := NewMemStore()
	u := createUser(t, m, "alice")

	challenges, err := m.ChallengesByUser(context.Background(), u.ID)
	require.NoError(t, err)
	id := challenges[0].ID

	const workers = 8
	firsts := make([]bool, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			_, first, err := m.CompleteChallenge(context.Background(), id)
			assert.NoError(t, err)
			firsts[i] = first
		}(i)
	}
	wg.Wait()

	var wins int
	for _, f := range firsts {
		if f {
			wins++
		}
	}
	assert.Equal(t, 1, wins)

	c, err := m.GetChallenge(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, c.IsComplete)
	assert.Equal(t, 100, c.Progress)

	// The award rides in the same operation as the completion flip, so the
	// balance reflects exactly one award.
	current, err := m.GetUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Points, current.Points)
}

func TestSetChallengeProgressIgnoredWhenComplete(t *testing.T) {
	m := NewMemStore()
	u := createUser(t, m, "alice")

	challenges, err := m.ChallengesByUser(context.Background(), u.ID)
	require.NoError(t, err)
	id := challenges[0].ID

	_, _, err = m.CompleteChallenge(context.Background(), id)
	require.NoError(t, err)

	c, err := m.SetChallengeProgress(context.Background(), id, 5)
	require.NoError(t, err)
	assert.Equal(t, 100, c.Progress)
}

func TestCompleteWorkoutStampsOnce(t *testing.T) {
	m := NewMemStore()
	u := createUser(t, m, "alice")

	w := &models.Workout{UserID: u.ID, Title: "Run", Exercises: "[]", Duration: 30}
	require.NoError(t, m.CreateWorkout(context.Background(), w))

	first := time.Date(2025, 6, 15, 8, 0, 0, 0, time.Local)
	done, wasFirst, err := m.CompleteWorkout(context.Background(), w.ID, first, 30)
	require.NoError(t, err)
	assert.True(t, wasFirst)
	require.NotNil(t, done.CompletedDate)
	assert.True(t, done.CompletedDate.Equal(first))

	later := first.Add(time.Hour)
	done, wasFirst, err = m.CompleteWorkout(context.Background(), w.ID, later, 30)
	require.NoError(t, err)
	assert.False(t, wasFirst)
	assert.True(t, done.CompletedDate.Equal(first), "original stamp kept")

	// Bonus credited once, alongside the first stamp only.
	current, err := m.GetUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, current.Points)
}

func TestSeedRewardsIdempotent(t *testing.T) {
	m := NewMemStore()
	require.NoError(t, m.SeedRewards(context.Background()))
	require.NoError(t, m.SeedRewards(context.Background()))

	all, err := m.ListRewards(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, len(DefaultRewards()))
}

func TestRedeemRewardRecordsOwnership(t *testing.T) {
	m := NewMemStore()
	require.NoError(t, m.SeedRewards(context.Background()))
	u := createUser(t, m, "alice")

	all, err := m.ListRewards(context.Background())
	require.NoError(t, err)
	reward := all[0]

	_, err = m.AddPoints(context.Background(), u.ID, reward.PointsCost)
	require.NoError(t, err)

	ur, err := m.RedeemReward(context.Background(), u.ID, reward.ID)
	require.NoError(t, err)
	assert.Equal(t, reward.ID, ur.RewardID)

	owned, err := m.RewardsByUser(context.Background(), u.ID)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, reward.Title, owned[0].Title)

	current, err := m.GetUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Zero(t, current.Points)
}

func TestCreateSpinResultDailyGuard(t *testing.T) {
	m := NewMemStore()
	u := createUser(t, m, "alice")

	day := time.Date(2025, 6, 15, 9, 0, 0, 0, time.Local)
	first := &models.SpinResult{UserID: u.ID, Reward: models.SpinRewardAvatar, SpinDate: day}
	require.NoError(t, m.CreateSpinResult(context.Background(), first))

	same := &models.SpinResult{UserID: u.ID, Reward: models.SpinRewardPoints, SpinDate: day.Add(6 * time.Hour)}
	assert.ErrorIs(t, m.CreateSpinResult(context.Background(), same), ErrSpinExhausted)

	// Another user is unaffected.
	other := createUser(t, m, "bob")
	theirs := &models.SpinResult{UserID: other.ID, Reward: models.SpinRewardPoints, SpinDate: day}
	require.NoError(t, m.CreateSpinResult(context.Background(), theirs))

	// Next day resets the gate; a point-bearing draw credits the payout in
	// the same operation.
	payout := 20
	next := &models.SpinResult{UserID: u.ID, Reward: models.SpinRewardSurprise, Points: &payout, SpinDate: day.Add(24 * time.Hour)}
	require.NoError(t, m.CreateSpinResult(context.Background(), next))

	spins, err := m.SpinsByUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Len(t, spins, 2)

	current, err := m.GetUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, payout, current.Points)
}

func TestTopUsersByPoints(t *testing.T) {
	m := NewMemStore()
	for i := 0; i < 5; i++ {
		u := createUser(t, m, fmt.Sprintf("user%d", i))
		_, err := m.AddPoints(context.Background(), u.ID, (i+1)*100)
		require.NoError(t, err)
	}

	top, err := m.TopUsersByPoints(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, 500, top[0].Points)
	assert.Equal(t, 400, top[1].Points)
	assert.Equal(t, 300, top[2].Points)
}

func TestUpdateUserProfilePartial(t *testing.T) {
	m := NewMemStore()
	u := createUser(t, m, "alice")

	avatar := 4
	goal := "run a marathon"
	updated, err := m.UpdateUserProfile(context.Background(), u.ID, ProfileUpdate{
		AvatarID:    &avatar,
		FitnessGoal: &goal,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.AvatarID)
	require.NotNil(t, updated.FitnessGoal)
	assert.Equal(t, "run a marathon", *updated.FitnessGoal)
	// untouched fields keep their defaults
	assert.Equal(t, 3, updated.WorkoutDaysPerWeek)
	assert.Zero(t, updated.ThemeColor)
}
