package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fitquest/fitquest/engine"
	"github.com/fitquest/fitquest/models"
	"github.com/fitquest/fitquest/storage"
	"github.com/fitquest/fitquest/utils"
)

// WorkoutController serves workout CRUD and completion.
type WorkoutController struct {
	store  storage.Store
	ledger *engine.Ledger
}

// NewWorkoutController creates a WorkoutController.
func NewWorkoutController(store storage.Store, ledger *engine.Ledger) *WorkoutController {
	return &WorkoutController{store: store, ledger: ledger}
}

// ListWorkouts returns the caller's workouts.
func (w *WorkoutController) ListWorkouts(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	workouts, err := w.store.WorkoutsByUser(ctx.Request.Context(), userID)
	if err != nil {
		respondCoreError(ctx, err, 50030, "failed to list workouts")
		return
	}
	utils.Success(ctx, workouts)
}

type createWorkoutRequest struct {
	Title       string          `json:"title" binding:"required,max=255"`
	Description string          `json:"description"`
	Exercises   json.RawMessage `json:"exercises" binding:"required"`
	Duration    int             `json:"duration" binding:"required,gt=0"`
}

// CreateWorkout stores a new workout plan. The exercise list is kept as the
// JSON the client sent, opaque to the server.
func (w *WorkoutController) CreateWorkout(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req createWorkoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	workout := &models.Workout{
		UserID:      userID,
		Title:       utils.Sanitize(req.Title),
		Description: utils.Sanitize(req.Description),
		Exercises:   string(req.Exercises),
		Duration:    req.Duration,
	}
	if err := w.store.CreateWorkout(ctx.Request.Context(), workout); err != nil {
		respondCoreError(ctx, err, 50031, "failed to create workout")
		return
	}
	utils.Created(ctx, workout)
}

// Complete stamps the workout done, awards the fixed bonus once and advances
// the caller's streak.
func (w *WorkoutController) Complete(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40002, "invalid workout id")
		return
	}

	workout, err := w.store.GetWorkout(ctx.Request.Context(), id)
	if err != nil {
		respondCoreError(ctx, err, 50032, "failed to load workout")
		return
	}
	if workout.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40302, "not your workout")
		return
	}

	completed, awarded, err := w.ledger.CompleteWorkout(ctx.Request.Context(), id)
	if err != nil {
		respondCoreError(ctx, err, 50033, "failed to complete workout")
		return
	}

	// Streak advancement is decided here, not inside the ledger primitive:
	// only a first completion counts toward the streak.
	if awarded > 0 {
		if _, err := w.ledger.IncrementStreak(ctx.Request.Context(), userID); err != nil {
			utils.Sugar.Warnf("streak increment failed for user %d: %v", userID, err)
		}
		utils.CacheDelete(leaderboardCacheKey)
	}

	utils.Success(ctx, gin.H{"workout": completed, "points_awarded": awarded})
}
