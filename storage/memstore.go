package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fitquest/fitquest/models"
)

// MemStore is a map-backed Store used by tests and local development. A
// single mutex serializes every operation, which trivially satisfies the
// per-user atomicity contract.
type MemStore struct {
	mu sync.Mutex

	users        map[uint]*models.User
	challenges   map[uint]*models.Challenge
	workouts     map[uint]*models.Workout
	achievements map[uint]*models.Achievement
	rewards      map[uint]*models.Reward
	userRewards  map[uint]*models.UserReward
	spins        map[uint]*models.SpinResult

	nextUser        uint
	nextChallenge   uint
	nextWorkout     uint
	nextAchievement uint
	nextReward      uint
	nextUserReward  uint
	nextSpin        uint
}

var _ Store = (*MemStore)(nil)

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		users:           map[uint]*models.User{},
		challenges:      map[uint]*models.Challenge{},
		workouts:        map[uint]*models.Workout{},
		achievements:    map[uint]*models.Achievement{},
		rewards:         map[uint]*models.Reward{},
		userRewards:     map[uint]*models.UserReward{},
		spins:           map[uint]*models.SpinResult{},
		nextUser:        1,
		nextChallenge:   1,
		nextWorkout:     1,
		nextAchievement: 1,
		nextReward:      1,
		nextUserReward:  1,
		nextSpin:        1,
	}
}

func (m *MemStore) CreateUser(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return ErrDuplicate
		}
	}

	u.ID = m.nextUser
	m.nextUser++
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	u.UpdatedAt = u.CreatedAt
	u.Level = models.LevelForPoints(u.Points)
	if u.AvatarID == 0 {
		u.AvatarID = 1
	}
	if u.WorkoutDaysPerWeek == 0 {
		u.WorkoutDaysPerWeek = 3
	}
	cp := *u
	m.users[u.ID] = &cp

	for _, c := range StarterChallenges(u.ID) {
		c.ID = m.nextChallenge
		m.nextChallenge++
		ch := c
		m.challenges[ch.ID] = &ch
	}
	return nil
}

func (m *MemStore) GetUser(ctx context.Context, id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MemStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemStore) UpdateUserProfile(ctx context.Context, id uint, upd ProfileUpdate) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.AvatarID != nil {
		u.AvatarID = *upd.AvatarID
	}
	if upd.FitnessGoal != nil {
		goal := *upd.FitnessGoal
		u.FitnessGoal = &goal
	}
	if upd.WorkoutDaysPerWeek != nil {
		u.WorkoutDaysPerWeek = *upd.WorkoutDaysPerWeek
	}
	if upd.ThemeColor != nil {
		u.ThemeColor = *upd.ThemeColor
	}
	u.UpdatedAt = time.Now()
	cp := *u
	return &cp, nil
}

func (m *MemStore) SetUserStreak(ctx context.Context, id uint, days int) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	u.StreakDays = days
	u.UpdatedAt = time.Now()
	cp := *u
	return &cp, nil
}

func (m *MemStore) AddPoints(ctx context.Context, id uint, delta int) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addPointsLocked(id, delta)
}

func (m *MemStore) addPointsLocked(id uint, delta int) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	next := u.Points + delta
	if next < 0 {
		return nil, &InsufficientPointsError{Have: u.Points, Need: -delta}
	}
	u.Points = next
	u.Level = models.LevelForPoints(next)
	u.UpdatedAt = time.Now()
	cp := *u
	return &cp, nil
}

func (m *MemStore) TopUsersByPoints(ctx context.Context, limit int) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Points > out[j].Points })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemStore) CreateChallenge(ctx context.Context, c *models.Challenge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.nextChallenge
	m.nextChallenge++
	c.IsComplete = false
	c.Progress = 0
	cp := *c
	m.challenges[c.ID] = &cp
	return nil
}

func (m *MemStore) GetChallenge(ctx context.Context, id uint) (*models.Challenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.challenges[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *MemStore) ChallengesByUser(ctx context.Context, userID uint) ([]models.Challenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Challenge
	for _, c := range m.challenges {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemStore) SetChallengeProgress(ctx context.Context, id uint, progress int) (*models.Challenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.challenges[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !c.IsComplete {
		c.Progress = progress
	}
	cp := *c
	return &cp, nil
}

func (m *MemStore) CompleteChallenge(ctx context.Context, id uint) (*models.Challenge, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.challenges[id]
	if !ok {
		return nil, false, ErrNotFound
	}
	if c.IsComplete {
		cp := *c
		return &cp, false, nil
	}
	// Award under the same lock as the completion flip, matching the
	// single-transaction contract.
	if _, err := m.addPointsLocked(c.UserID, c.Points); err != nil {
		return nil, false, err
	}
	c.IsComplete = true
	c.Progress = 100
	cp := *c
	return &cp, true, nil
}

func (m *MemStore) CreateWorkout(ctx context.Context, w *models.Workout) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w.ID = m.nextWorkout
	m.nextWorkout++
	w.CompletedDate = nil
	cp := *w
	m.workouts[w.ID] = &cp
	return nil
}

func (m *MemStore) GetWorkout(ctx context.Context, id uint) (*models.Workout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.workouts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (m *MemStore) WorkoutsByUser(ctx context.Context, userID uint) ([]models.Workout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Workout
	for _, w := range m.workouts {
		if w.UserID == userID {
			out = append(out, *w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemStore) CompleteWorkout(ctx context.Context, id uint, at time.Time, bonus int) (*models.Workout, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.workouts[id]
	if !ok {
		return nil, false, ErrNotFound
	}
	if w.CompletedDate != nil {
		cp := *w
		return &cp, false, nil
	}
	if bonus > 0 {
		if _, err := m.addPointsLocked(w.UserID, bonus); err != nil {
			return nil, false, err
		}
	}
	stamp := at
	w.CompletedDate = &stamp
	cp := *w
	return &cp, true, nil
}

func (m *MemStore) CreateAchievement(ctx context.Context, a *models.Achievement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = m.nextAchievement
	m.nextAchievement++
	if a.AchievedDate.IsZero() {
		a.AchievedDate = time.Now()
	}
	cp := *a
	m.achievements[a.ID] = &cp
	return nil
}

func (m *MemStore) AchievementsByUser(ctx context.Context, userID uint) ([]models.Achievement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Achievement
	for _, a := range m.achievements {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemStore) GetReward(ctx context.Context, id uint) (*models.Reward, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rewards[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *MemStore) ListRewards(ctx context.Context) ([]models.Reward, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Reward, 0, len(m.rewards))
	for _, r := range m.rewards {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemStore) RewardsByUser(ctx context.Context, userID uint) ([]models.Reward, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	owned := map[uint]bool{}
	for _, ur := range m.userRewards {
		if ur.UserID == userID {
			owned[ur.RewardID] = true
		}
	}
	var out []models.Reward
	for _, r := range m.rewards {
		if owned[r.ID] {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemStore) RedeemReward(ctx context.Context, userID, rewardID uint) (*models.UserReward, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	reward, ok := m.rewards[rewardID]
	if !ok {
		return nil, ErrNotFound
	}
	if _, err := m.addPointsLocked(userID, -reward.PointsCost); err != nil {
		return nil, err
	}

	ur := &models.UserReward{
		ID:           m.nextUserReward,
		UserID:       userID,
		RewardID:     rewardID,
		AcquiredDate: time.Now(),
	}
	m.nextUserReward++
	m.userRewards[ur.ID] = ur
	cp := *ur
	return &cp, nil
}

func (m *MemStore) SeedRewards(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.rewards) > 0 {
		return nil
	}
	for _, r := range DefaultRewards() {
		r.ID = m.nextReward
		m.nextReward++
		rw := r
		m.rewards[rw.ID] = &rw
	}
	return nil
}

func (m *MemStore) SpinsByUser(ctx context.Context, userID uint) ([]models.SpinResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.SpinResult
	for _, s := range m.spins {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemStore) CreateSpinResult(ctx context.Context, s *models.SpinResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.SpinDate.IsZero() {
		s.SpinDate = time.Now()
	}
	for _, prev := range m.spins {
		if prev.UserID == s.UserID && models.SameLocalDay(prev.SpinDate, s.SpinDate) {
			return ErrSpinExhausted
		}
	}
	if s.Points != nil && *s.Points > 0 {
		if _, err := m.addPointsLocked(s.UserID, *s.Points); err != nil {
			return err
		}
	}
	s.ID = m.nextSpin
	m.nextSpin++
	cp := *s
	m.spins[s.ID] = &cp
	return nil
}
