package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fitquest/fitquest/engine"
	"github.com/fitquest/fitquest/utils"
)

// SpinController serves the daily wheel endpoints.
type SpinController struct {
	wheel *engine.SpinWheel
}

// NewSpinController creates a SpinController.
func NewSpinController(wheel *engine.SpinWheel) *SpinController {
	return &SpinController{wheel: wheel}
}

// Status returns the caller's spin history and whether today's spin is still
// available.
func (s *SpinController) Status(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	history, canSpin, err := s.wheel.Status(ctx.Request.Context(), userID)
	if err != nil {
		respondCoreError(ctx, err, 50050, "failed to load spin history")
		return
	}
	utils.Success(ctx, gin.H{"spins": history, "can_spin_today": canSpin})
}

// Spin draws today's outcome, persists it and pays out any points.
func (s *SpinController) Spin(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	result, err := s.wheel.Spin(ctx.Request.Context(), userID)
	if err != nil {
		respondCoreError(ctx, err, 50051, "failed to spin")
		return
	}
	if result.Points != nil && *result.Points > 0 {
		utils.CacheDelete(leaderboardCacheKey)
	}
	utils.Created(ctx, result)
}
