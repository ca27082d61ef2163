package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/fitquest/fitquest/config"
	"github.com/fitquest/fitquest/controllers"
	"github.com/fitquest/fitquest/engine"
	"github.com/fitquest/fitquest/middleware"
	"github.com/fitquest/fitquest/storage"
	"github.com/fitquest/fitquest/utils"
)

// SetupRouter wires routes, middlewares, and controllers against the given
// store and engines.
func SetupRouter(store storage.Store, ledger *engine.Ledger, rewards *engine.Rewards, wheel *engine.SpinWheel) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace the default console logger with the file-based zap logger.
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "X-Session-Token"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(store)
	challengeController := controllers.NewChallengeController(store, ledger)
	workoutController := controllers.NewWorkoutController(store, ledger)
	rewardController := controllers.NewRewardController(store, rewards)
	spinController := controllers.NewSpinController(wheel)
	statsController := controllers.NewStatsController(store)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)
	authGroup.PATCH("/profile", middleware.AuthRequired(), authController.UpdateProfile)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired())

	protected.GET("/challenges", challengeController.ListChallenges)
	protected.POST("/challenges", challengeController.CreateChallenge)
	protected.PATCH("/challenges/:id/progress", challengeController.UpdateProgress)
	protected.POST("/challenges/:id/complete", challengeController.Complete)

	protected.GET("/workouts", workoutController.ListWorkouts)
	protected.POST("/workouts", workoutController.CreateWorkout)
	protected.POST("/workouts/:id/complete", workoutController.Complete)

	protected.GET("/achievements", statsController.Achievements)
	protected.GET("/leaderboard", statsController.Leaderboard)

	protected.GET("/rewards", rewardController.ListRewards)
	protected.GET("/rewards/mine", rewardController.MyRewards)
	protected.POST("/rewards/:id/redeem", rewardController.Redeem)

	protected.GET("/spins", spinController.Status)
	protected.POST("/spins", spinController.Spin)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
