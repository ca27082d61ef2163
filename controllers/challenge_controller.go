package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fitquest/fitquest/engine"
	"github.com/fitquest/fitquest/models"
	"github.com/fitquest/fitquest/storage"
	"github.com/fitquest/fitquest/utils"
)

// ChallengeController serves the per-user challenge endpoints. Ownership is
// verified here, before any ledger operation runs.
type ChallengeController struct {
	store  storage.Store
	ledger *engine.Ledger
}

// NewChallengeController creates a ChallengeController.
func NewChallengeController(store storage.Store, ledger *engine.Ledger) *ChallengeController {
	return &ChallengeController{store: store, ledger: ledger}
}

// ListChallenges returns the caller's challenges.
func (c *ChallengeController) ListChallenges(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	challenges, err := c.store.ChallengesByUser(ctx.Request.Context(), userID)
	if err != nil {
		respondCoreError(ctx, err, 50020, "failed to list challenges")
		return
	}
	utils.Success(ctx, challenges)
}

type createChallengeRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"required,max=32"`
	Icon        string `json:"icon" binding:"max=64"`
	Points      int    `json:"points" binding:"required,gt=0"`
	Duration    *int   `json:"duration"`
	Reps        *int   `json:"reps"`
}

// CreateChallenge adds a custom challenge for the caller.
func (c *ChallengeController) CreateChallenge(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req createChallengeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	challenge := &models.Challenge{
		UserID:      userID,
		Title:       utils.Sanitize(req.Title),
		Description: utils.Sanitize(req.Description),
		Category:    req.Category,
		Icon:        req.Icon,
		Points:      req.Points,
		Duration:    req.Duration,
		Reps:        req.Reps,
	}
	if err := c.store.CreateChallenge(ctx.Request.Context(), challenge); err != nil {
		respondCoreError(ctx, err, 50021, "failed to create challenge")
		return
	}
	utils.Created(ctx, challenge)
}

type progressRequest struct {
	Progress *int `json:"progress" binding:"required"`
}

// UpdateProgress sets a challenge's progress (0-100).
func (c *ChallengeController) UpdateProgress(ctx *gin.Context) {
	challenge, ok := c.ownedChallenge(ctx)
	if !ok {
		return
	}

	var req progressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "progress is required")
		return
	}

	updated, err := c.ledger.UpdateChallengeProgress(ctx.Request.Context(), challenge.ID, *req.Progress)
	if err != nil {
		respondCoreError(ctx, err, 50022, "failed to update challenge progress")
		return
	}
	utils.Success(ctx, updated)
}

// Complete marks a challenge done and awards its points, at most once.
func (c *ChallengeController) Complete(ctx *gin.Context) {
	challenge, ok := c.ownedChallenge(ctx)
	if !ok {
		return
	}

	completed, awarded, err := c.ledger.CompleteChallenge(ctx.Request.Context(), challenge.ID)
	if err != nil {
		respondCoreError(ctx, err, 50023, "failed to complete challenge")
		return
	}
	if awarded > 0 {
		utils.CacheDelete(leaderboardCacheKey)
	}
	utils.Success(ctx, gin.H{"challenge": completed, "points_awarded": awarded})
}

// ownedChallenge loads the addressed challenge and enforces that it belongs
// to the caller (403 otherwise).
func (c *ChallengeController) ownedChallenge(ctx *gin.Context) (*models.Challenge, bool) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return nil, false
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40002, "invalid challenge id")
		return nil, false
	}
	challenge, err := c.store.GetChallenge(ctx.Request.Context(), id)
	if err != nil {
		respondCoreError(ctx, err, 50024, "failed to load challenge")
		return nil, false
	}
	if challenge.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40301, "not your challenge")
		return nil, false
	}
	return challenge, true
}
