package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fitquest/fitquest/models"
)

// Sentinel errors shared by every Store implementation.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
	// ErrSpinExhausted is returned by CreateSpinResult when the user already
	// has a spin recorded for the same local calendar day.
	ErrSpinExhausted = errors.New("daily spin already recorded")
)

// InsufficientPointsError reports a debit that would drive a balance
// negative. Have is the untouched balance, Need the attempted debit.
type InsufficientPointsError struct {
	Have int
	Need int
}

func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("insufficient points: have %d, need %d (short %d)", e.Have, e.Need, e.Need-e.Have)
}

// Shortfall is the number of points the user is missing.
func (e *InsufficientPointsError) Shortfall() int {
	return e.Need - e.Have
}

// ProfileUpdate carries the user fields that may be changed through the
// profile endpoint. Points, level, streak and credentials are deliberately
// absent; they move only through their dedicated operations.
type ProfileUpdate struct {
	AvatarID           *int
	FitnessGoal        *string
	WorkoutDaysPerWeek *int
	ThemeColor         *int
}

// Store is the persistence gateway. Implementations must make every points
// mutation atomic per user: AddPoints, RedeemReward and CreateSpinResult may
// never let two concurrent callers observe the same stale balance and both
// commit. GormStore uses row-locked transactions; MemStore a store mutex.
type Store interface {
	// Users
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, id uint, upd ProfileUpdate) (*models.User, error)
	SetUserStreak(ctx context.Context, id uint, days int) (*models.User, error)
	// AddPoints applies delta to the balance and recomputes the derived
	// level in one atomic step. A negative delta exceeding the balance
	// fails with *InsufficientPointsError and changes nothing.
	AddPoints(ctx context.Context, id uint, delta int) (*models.User, error)
	TopUsersByPoints(ctx context.Context, limit int) ([]models.User, error)

	// Challenges
	CreateChallenge(ctx context.Context, c *models.Challenge) error
	GetChallenge(ctx context.Context, id uint) (*models.Challenge, error)
	ChallengesByUser(ctx context.Context, userID uint) ([]models.Challenge, error)
	// SetChallengeProgress writes a new progress value unless the challenge
	// is already complete, in which case it returns the record unchanged.
	SetChallengeProgress(ctx context.Context, id uint, progress int) (*models.Challenge, error)
	// CompleteChallenge flips IsComplete false->true, pins progress at 100
	// and credits the challenge's points to its owner, all in one atomic
	// step. The bool reports whether this call performed the transition;
	// the award happens only when it did, so neither a crash between
	// record and award nor a retry can strand or repeat points.
	CompleteChallenge(ctx context.Context, id uint) (*models.Challenge, bool, error)

	// Workouts
	CreateWorkout(ctx context.Context, w *models.Workout) error
	GetWorkout(ctx context.Context, id uint) (*models.Workout, error)
	WorkoutsByUser(ctx context.Context, userID uint) ([]models.Workout, error)
	// CompleteWorkout stamps CompletedDate once and credits bonus points to
	// the owner in the same atomic step; the bool reports whether this call
	// was the first completion (the bonus applies only then).
	CompleteWorkout(ctx context.Context, id uint, at time.Time, bonus int) (*models.Workout, bool, error)

	// Achievements
	CreateAchievement(ctx context.Context, a *models.Achievement) error
	AchievementsByUser(ctx context.Context, userID uint) ([]models.Achievement, error)

	// Rewards
	GetReward(ctx context.Context, id uint) (*models.Reward, error)
	ListRewards(ctx context.Context) ([]models.Reward, error)
	RewardsByUser(ctx context.Context, userID uint) ([]models.Reward, error)
	// RedeemReward debits PointsCost and records ownership as one atomic
	// operation. *InsufficientPointsError leaves both sides untouched.
	RedeemReward(ctx context.Context, userID, rewardID uint) (*models.UserReward, error)
	SeedRewards(ctx context.Context) error

	// Spins
	SpinsByUser(ctx context.Context, userID uint) ([]models.SpinResult, error)
	// CreateSpinResult persists a draw and credits its payout (when Points
	// is set) in one atomic step, enforcing at most one spin per user per
	// local calendar day (ErrSpinExhausted otherwise). Implementations
	// must serialize the gate check against concurrent calls for the same
	// user; a plain existence check is not enough.
	CreateSpinResult(ctx context.Context, s *models.SpinResult) error
}
