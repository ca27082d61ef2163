package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fitquest/fitquest/storage"
	"github.com/fitquest/fitquest/utils"
)

// StatsController serves the leaderboard and achievement log.
type StatsController struct {
	store storage.Store
}

// NewStatsController creates a StatsController.
func NewStatsController(store storage.Store) *StatsController {
	return &StatsController{store: store}
}

// Leaderboard returns the top ten users by points. The result is cached
// briefly in Redis and busted when an award or debit lands.
func (s *StatsController) Leaderboard(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes(leaderboardCacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	users, err := s.store.TopUsersByPoints(ctx.Request.Context(), 10)
	if err != nil {
		respondCoreError(ctx, err, 50060, "failed to load leaderboard")
		return
	}

	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: users}
	utils.CacheSetJSON(leaderboardCacheKey, wrapper, time.Minute)
	utils.Success(ctx, users)
}

// Achievements returns the caller's achievement log.
func (s *StatsController) Achievements(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	achievements, err := s.store.AchievementsByUser(ctx.Request.Context(), userID)
	if err != nil {
		respondCoreError(ctx, err, 50061, "failed to load achievements")
		return
	}
	utils.Success(ctx, achievements)
}
