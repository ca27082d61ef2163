package main

import (
	"context"

	"github.com/fitquest/fitquest/config"
	"github.com/fitquest/fitquest/engine"
	"github.com/fitquest/fitquest/models"
	"github.com/fitquest/fitquest/payments"
	"github.com/fitquest/fitquest/routes"
	"github.com/fitquest/fitquest/storage"
	"github.com/fitquest/fitquest/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Challenge{},
		&models.Workout{},
		&models.Achievement{},
		&models.Reward{},
		&models.UserReward{},
		&models.SpinResult{},
	)

	store := storage.NewGormStore(db)
	if err := store.SeedRewards(context.Background()); err != nil {
		utils.Sugar.Fatalf("failed to seed reward catalog: %v", err)
	}

	var collector engine.PaymentCollector
	if cfg.StripeSecretKey != "" {
		collector = payments.NewStripeCollector(cfg.StripeSecretKey)
	} else {
		utils.Sugar.Warn("STRIPE_SECRET_KEY not set; physical reward redemption disabled")
	}

	ledger := engine.NewLedger(store, cfg.WorkoutRewardPoints)
	rewards := engine.NewRewards(store, collector)
	wheel := engine.NewSpinWheel(store, spinOutcomes(cfg))

	r := routes.SetupRouter(store, ledger, rewards, wheel)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}

func spinOutcomes(cfg config.AppConfig) []engine.SpinOutcome {
	outcomes := make([]engine.SpinOutcome, 0, len(cfg.SpinOutcomes))
	for _, o := range cfg.SpinOutcomes {
		outcomes = append(outcomes, engine.SpinOutcome{Reward: o.Reward, Points: o.Points})
	}
	return outcomes
}
