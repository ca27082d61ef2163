package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fitquest/fitquest/models"
)

// GormStore is the durable Store backed by Postgres through GORM. Points
// mutations run inside transactions that take a FOR UPDATE lock on the user
// row, so concurrent debits serialize at the database.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

// NewGormStore wraps an initialized gorm connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

func (g *GormStore) CreateUser(ctx context.Context, u *models.User) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).
			Where("email = ? OR username = ?", u.Email, u.Username).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicate
		}
		if err := tx.Create(u).Error; err != nil {
			return translate(err)
		}
		starter := StarterChallenges(u.ID)
		return tx.Create(&starter).Error
	})
}

func (g *GormStore) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := g.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (g *GormStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := g.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (g *GormStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := g.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (g *GormStore) UpdateUserProfile(ctx context.Context, id uint, upd ProfileUpdate) (*models.User, error) {
	updates := map[string]interface{}{}
	if upd.AvatarID != nil {
		updates["avatar_id"] = *upd.AvatarID
	}
	if upd.FitnessGoal != nil {
		updates["fitness_goal"] = *upd.FitnessGoal
	}
	if upd.WorkoutDaysPerWeek != nil {
		updates["workout_days_per_week"] = *upd.WorkoutDaysPerWeek
	}
	if upd.ThemeColor != nil {
		updates["theme_color"] = *upd.ThemeColor
	}
	if len(updates) > 0 {
		res := g.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return g.GetUser(ctx, id)
}

func (g *GormStore) SetUserStreak(ctx context.Context, id uint, days int) (*models.User, error) {
	res := g.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("streak_days", days)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return g.GetUser(ctx, id)
}

func (g *GormStore) AddPoints(ctx context.Context, id uint, delta int) (*models.User, error) {
	var out models.User
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return addPointsTx(tx, id, delta, &out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// addPointsTx applies a balance delta inside an open transaction, taking a
// row lock so that concurrent mutations for the same user serialize.
func addPointsTx(tx *gorm.DB, id uint, delta int, out *models.User) error {
	var u models.User
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&u, id).Error; err != nil {
		return translate(err)
	}
	next := u.Points + delta
	if next < 0 {
		return &InsufficientPointsError{Have: u.Points, Need: -delta}
	}
	u.Points = next
	u.Level = models.LevelForPoints(next)
	if err := tx.Save(&u).Error; err != nil {
		return err
	}
	*out = u
	return nil
}

func (g *GormStore) TopUsersByPoints(ctx context.Context, limit int) ([]models.User, error) {
	var users []models.User
	q := g.db.WithContext(ctx).Order("points DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (g *GormStore) CreateChallenge(ctx context.Context, c *models.Challenge) error {
	c.IsComplete = false
	c.Progress = 0
	return translate(g.db.WithContext(ctx).Create(c).Error)
}

func (g *GormStore) GetChallenge(ctx context.Context, id uint) (*models.Challenge, error) {
	var c models.Challenge
	if err := g.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (g *GormStore) ChallengesByUser(ctx context.Context, userID uint) ([]models.Challenge, error) {
	var out []models.Challenge
	if err := g.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (g *GormStore) SetChallengeProgress(ctx context.Context, id uint, progress int) (*models.Challenge, error) {
	// Completed challenges are terminal; the conditional update leaves them
	// untouched and the read below returns the frozen record.
	res := g.db.WithContext(ctx).Model(&models.Challenge{}).
		Where("id = ? AND is_complete = ?", id, false).
		Update("progress", progress)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	return g.GetChallenge(ctx, id)
}

func (g *GormStore) CompleteChallenge(ctx context.Context, id uint) (*models.Challenge, bool, error) {
	// Compare-and-set on is_complete guarantees the completion fires at
	// most once even under concurrent or retried requests; the point award
	// commits in the same transaction so the two can never diverge.
	var c models.Challenge
	var first bool
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Challenge{}).
			Where("id = ? AND is_complete = ?", id, false).
			Updates(map[string]interface{}{"is_complete": true, "progress": 100})
		if res.Error != nil {
			return translate(res.Error)
		}
		first = res.RowsAffected == 1
		if err := tx.First(&c, id).Error; err != nil {
			return translate(err)
		}
		if first {
			var owner models.User
			return addPointsTx(tx, c.UserID, c.Points, &owner)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &c, first, nil
}

func (g *GormStore) CreateWorkout(ctx context.Context, w *models.Workout) error {
	w.CompletedDate = nil
	return translate(g.db.WithContext(ctx).Create(w).Error)
}

func (g *GormStore) GetWorkout(ctx context.Context, id uint) (*models.Workout, error) {
	var w models.Workout
	if err := g.db.WithContext(ctx).First(&w, id).Error; err != nil {
		return nil, translate(err)
	}
	return &w, nil
}

func (g *GormStore) WorkoutsByUser(ctx context.Context, userID uint) ([]models.Workout, error) {
	var out []models.Workout
	if err := g.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (g *GormStore) CompleteWorkout(ctx context.Context, id uint, at time.Time, bonus int) (*models.Workout, bool, error) {
	var w models.Workout
	var first bool
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Workout{}).
			Where("id = ? AND completed_date IS NULL", id).
			Update("completed_date", at)
		if res.Error != nil {
			return translate(res.Error)
		}
		first = res.RowsAffected == 1
		if err := tx.First(&w, id).Error; err != nil {
			return translate(err)
		}
		if first && bonus > 0 {
			var owner models.User
			return addPointsTx(tx, w.UserID, bonus, &owner)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &w, first, nil
}

func (g *GormStore) CreateAchievement(ctx context.Context, a *models.Achievement) error {
	if a.AchievedDate.IsZero() {
		a.AchievedDate = time.Now()
	}
	return translate(g.db.WithContext(ctx).Create(a).Error)
}

func (g *GormStore) AchievementsByUser(ctx context.Context, userID uint) ([]models.Achievement, error) {
	var out []models.Achievement
	if err := g.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (g *GormStore) GetReward(ctx context.Context, id uint) (*models.Reward, error) {
	var r models.Reward
	if err := g.db.WithContext(ctx).First(&r, id).Error; err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

func (g *GormStore) ListRewards(ctx context.Context) ([]models.Reward, error) {
	var out []models.Reward
	if err := g.db.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (g *GormStore) RewardsByUser(ctx context.Context, userID uint) ([]models.Reward, error) {
	var out []models.Reward
	err := g.db.WithContext(ctx).
		Joins("JOIN user_rewards ON user_rewards.reward_id = rewards.id").
		Where("user_rewards.user_id = ?", userID).
		Order("rewards.id").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (g *GormStore) RedeemReward(ctx context.Context, userID, rewardID uint) (*models.UserReward, error) {
	var ur models.UserReward
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reward models.Reward
		if err := tx.First(&reward, rewardID).Error; err != nil {
			return translate(err)
		}
		var debited models.User
		if err := addPointsTx(tx, userID, -reward.PointsCost, &debited); err != nil {
			return err
		}
		ur = models.UserReward{
			UserID:       userID,
			RewardID:     rewardID,
			AcquiredDate: time.Now(),
		}
		return tx.Create(&ur).Error
	})
	if err != nil {
		return nil, err
	}
	return &ur, nil
}

func (g *GormStore) SeedRewards(ctx context.Context) error {
	var count int64
	if err := g.db.WithContext(ctx).Model(&models.Reward{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	rewards := DefaultRewards()
	return g.db.WithContext(ctx).Create(&rewards).Error
}

func (g *GormStore) SpinsByUser(ctx context.Context, userID uint) ([]models.SpinResult, error) {
	var out []models.SpinResult
	if err := g.db.WithContext(ctx).Where("user_id = ?", userID).Order("spin_date DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (g *GormStore) CreateSpinResult(ctx context.Context, s *models.SpinResult) error {
	if s.SpinDate.IsZero() {
		s.SpinDate = time.Now()
	}
	dayStart := time.Date(s.SpinDate.Year(), s.SpinDate.Month(), s.SpinDate.Day(), 0, 0, 0, 0, s.SpinDate.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Serialize on the user row. Locking the (possibly empty) spin set
		// would not block a concurrent transaction that also sees no rows;
		// holding the user's FOR UPDATE lock across the gate check and the
		// insert does.
		var owner models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&owner, s.UserID).Error; err != nil {
			return translate(err)
		}

		var count int64
		err := tx.Model(&models.SpinResult{}).
			Where("user_id = ? AND spin_date >= ? AND spin_date < ?", s.UserID, dayStart, dayEnd).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrSpinExhausted
		}
		if err := tx.Create(s).Error; err != nil {
			return err
		}
		if s.Points != nil && *s.Points > 0 {
			return addPointsTx(tx, s.UserID, *s.Points, &owner)
		}
		return nil
	})
}
