package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fitquest/fitquest/config"
	"github.com/fitquest/fitquest/middleware"
	"github.com/fitquest/fitquest/models"
	"github.com/fitquest/fitquest/storage"
	"github.com/fitquest/fitquest/utils"
)

// AuthController handles registration, login and profile endpoints.
type AuthController struct {
	store storage.Store
}

// NewAuthController creates an AuthController.
func NewAuthController(store storage.Store) *AuthController {
	return &AuthController{store: store}
}

type registerRequest struct {
	Username           string  `json:"username" binding:"required,min=2,max=64"`
	Email              string  `json:"email" binding:"required,email"`
	Password           string  `json:"password" binding:"required,min=6,max=72"`
	AvatarID           int     `json:"avatar_id"`
	FitnessGoal        *string `json:"fitness_goal"`
	WorkoutDaysPerWeek int     `json:"workout_days_per_week"`
}

// Register creates an account with a bcrypt-hashed credential, seeds the
// starter challenges and opens a session.
func (a *AuthController) Register(ctx *gin.Context) {
	var req registerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to hash password")
		return
	}

	user := &models.User{
		Username:           req.Username,
		Email:              req.Email,
		PasswordHash:       hash,
		AvatarID:           req.AvatarID,
		FitnessGoal:        req.FitnessGoal,
		WorkoutDaysPerWeek: req.WorkoutDaysPerWeek,
	}
	if err := a.store.CreateUser(ctx.Request.Context(), user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			utils.Error(ctx, http.StatusConflict, 40901, "user with this email or username already exists")
			return
		}
		respondCoreError(ctx, err, 50002, "failed to register user")
		return
	}

	if !a.openSession(ctx, user) {
		return
	}
	utils.Created(ctx, user)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// Login verifies credentials and opens a session.
func (a *AuthController) Login(ctx *gin.Context) {
	var req loginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	user, err := a.store.GetUserByEmail(ctx.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil || !utils.CheckPassword(user.PasswordHash, req.Password) {
		// Same response for unknown email and wrong password.
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid email or password")
		return
	}

	if !a.openSession(ctx, user) {
		return
	}
	utils.Success(ctx, user)
}

// Logout revokes the current session token and clears the cookie.
func (a *AuthController) Logout(ctx *gin.Context) {
	if raw, ok := ctx.Get(middleware.ContextTokenKey); ok {
		if token, ok := raw.(string); ok && token != "" {
			if claims, err := utils.ParseSessionToken(token); err == nil && claims.ExpiresAt != nil {
				utils.BlacklistToken(token, claims.ExpiresAt.Time)
			}
		}
	}
	ctx.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the authenticated user.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	user, err := a.store.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		respondCoreError(ctx, err, 50010, "failed to load user")
		return
	}
	utils.Success(ctx, user)
}

type profileRequest struct {
	AvatarID           *int    `json:"avatar_id"`
	FitnessGoal        *string `json:"fitness_goal"`
	WorkoutDaysPerWeek *int    `json:"workout_days_per_week"`
	ThemeColor         *int    `json:"theme_color"`
}

// UpdateProfile changes cosmetic and goal fields. Points, level, streak and
// credentials are not reachable from here.
func (a *AuthController) UpdateProfile(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req profileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}
	if req.WorkoutDaysPerWeek != nil && (*req.WorkoutDaysPerWeek < 1 || *req.WorkoutDaysPerWeek > 7) {
		utils.Error(ctx, http.StatusBadRequest, 40011, "workout_days_per_week must be between 1 and 7")
		return
	}

	user, err := a.store.UpdateUserProfile(ctx.Request.Context(), userID, storage.ProfileUpdate{
		AvatarID:           req.AvatarID,
		FitnessGoal:        req.FitnessGoal,
		WorkoutDaysPerWeek: req.WorkoutDaysPerWeek,
		ThemeColor:         req.ThemeColor,
	})
	if err != nil {
		respondCoreError(ctx, err, 50011, "failed to update profile")
		return
	}
	utils.Success(ctx, user)
}

func (a *AuthController) openSession(ctx *gin.Context, user *models.User) bool {
	cfg := config.Get()
	ttl := time.Duration(cfg.SessionTTLHours) * time.Hour
	token, err := utils.NewSessionToken(user.ID, user.Username, ttl)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to create session")
		return false
	}
	ctx.SetCookie(middleware.SessionCookieName, token, int(ttl.Seconds()), "/", "", false, true)
	ctx.Header("X-Session-Token", token)
	return true
}
