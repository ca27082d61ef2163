package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fitquest/fitquest/engine"
	"github.com/fitquest/fitquest/storage"
	"github.com/fitquest/fitquest/utils"
)

// RewardController serves the reward catalog and redemption endpoints.
type RewardController struct {
	store   storage.Store
	rewards *engine.Rewards
}

// NewRewardController creates a RewardController.
func NewRewardController(store storage.Store, rewards *engine.Rewards) *RewardController {
	return &RewardController{store: store, rewards: rewards}
}

// ListRewards returns the global catalog.
func (r *RewardController) ListRewards(ctx *gin.Context) {
	rewards, err := r.store.ListRewards(ctx.Request.Context())
	if err != nil {
		respondCoreError(ctx, err, 50040, "failed to list rewards")
		return
	}
	utils.Success(ctx, rewards)
}

// MyRewards returns the rewards the caller has acquired.
func (r *RewardController) MyRewards(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	rewards, err := r.store.RewardsByUser(ctx.Request.Context(), userID)
	if err != nil {
		respondCoreError(ctx, err, 50041, "failed to list user rewards")
		return
	}
	utils.Success(ctx, rewards)
}

// Redeem exchanges points for the addressed reward. Digital rewards take an
// empty body; physical ("Real World") rewards require shipping fields and
// come back with a clientSecret for the payment-collection confirmation.
func (r *RewardController) Redeem(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	rewardID, ok := pathID(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40002, "invalid reward id")
		return
	}

	// The body is optional; shipping fields are only meaningful for
	// physical rewards and validated by the engine.
	var shipping engine.ShippingDetails
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&shipping); err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
			return
		}
	}

	redemption, err := r.rewards.Redeem(ctx.Request.Context(), userID, rewardID, &shipping)
	if err != nil {
		respondCoreError(ctx, err, 50042, "failed to redeem reward")
		return
	}
	utils.CacheDelete(leaderboardCacheKey)
	utils.Success(ctx, redemption)
}
