package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fitquest/fitquest/engine"
	"github.com/fitquest/fitquest/middleware"
	"github.com/fitquest/fitquest/storage"
	"github.com/fitquest/fitquest/utils"
)

const leaderboardCacheKey = "cache:leaderboard:top10"

func getUserID(ctx *gin.Context) (uint, bool) {
	return middleware.UserID(ctx)
}

func pathID(ctx *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(ctx.Param(name))
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// respondCoreError translates engine and storage errors into the HTTP error
// envelope. The core's error kinds are passed through, never reinterpreted.
func respondCoreError(ctx *gin.Context, err error, fallbackCode int, fallbackMsg string) {
	var insufficient *storage.InsufficientPointsError
	var validation *engine.ValidationError
	var collaborator *engine.ExternalCollaboratorError

	switch {
	case errors.Is(err, storage.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, 40400, "not found")
	case errors.As(err, &insufficient):
		utils.Error(ctx, http.StatusBadRequest, 40021, err.Error())
	case errors.As(err, &validation):
		utils.Error(ctx, http.StatusBadRequest, 40022, err.Error())
	case errors.Is(err, engine.ErrAlreadySpunToday):
		utils.Error(ctx, http.StatusBadRequest, 40023, err.Error())
	case errors.As(err, &collaborator):
		utils.Sugar.Errorf("payment collaborator failure: %v", err)
		utils.Error(ctx, http.StatusBadGateway, 50201, "payment collaborator unavailable")
	default:
		utils.Sugar.Errorf("%s: %v", fallbackMsg, err)
		utils.Error(ctx, http.StatusInternalServerError, fallbackCode, fallbackMsg)
	}
}
