package storage

import "github.com/fitquest/fitquest/models"

func intPtr(v int) *int { return &v }

// StarterChallenges is the fixed set created for every new user at
// registration.
func StarterChallenges(userID uint) []models.Challenge {
	return []models.Challenge{
		{
			UserID:      userID,
			Title:       "Morning Workout",
			Description: "Complete a quick morning workout routine",
			Category:    models.CategoryFitness,
			Icon:        "dumbbell",
			Points:      20,
			Duration:    intPtr(15),
		},
		{
			UserID:      userID,
			Title:       "Hydration Goal",
			Description: "Drink 8 cups of water today",
			Category:    models.CategoryHydration,
			Icon:        "glass-water",
			Points:      15,
			Reps:        intPtr(8),
		},
		{
			UserID:      userID,
			Title:       "Mindfulness Break",
			Description: "Take 5 minutes for mindfulness meditation",
			Category:    models.CategoryMindfulness,
			Icon:        "brain",
			Points:      10,
			Duration:    intPtr(5),
		},
		{
			UserID:      userID,
			Title:       "Healthy Meal",
			Description: "Log a healthy meal with protein and vegetables",
			Category:    models.CategoryNutrition,
			Icon:        "utensils",
			Points:      15,
		},
	}
}

// DefaultRewards is the catalog seeded into an empty store.
func DefaultRewards() []models.Reward {
	return []models.Reward{
		{
			Title:       "Premium Avatar",
			Description: "Unlock a premium avatar for your profile",
			Category:    models.RewardCategoryDigital,
			Icon:        "user-astronaut",
			PointsCost:  200,
			IsAvailable: true,
		},
		{
			Title:       "App Wallpaper",
			Description: "Exclusive app wallpaper pack",
			Category:    models.RewardCategoryDigital,
			Icon:        "image",
			PointsCost:  100,
			IsAvailable: true,
		},
		{
			Title:       "$5 Gift Card",
			Description: "Redeem for a $5 digital gift card",
			Category:    models.RewardCategoryPhysical,
			Icon:        "gift",
			PointsCost:  500,
			IsAvailable: true,
		},
		{
			Title:       "Exclusive Badge",
			Description: "Showcase a rare achievement badge on your profile",
			Category:    models.RewardCategoryDigital,
			Icon:        "medal",
			PointsCost:  150,
			IsAvailable: true,
		},
		{
			Title:       "Wireless Earbuds",
			Description: "Perfect for your workouts",
			Category:    models.RewardCategoryPhysical,
			Icon:        "headphones",
			PointsCost:  750,
			IsAvailable: true,
		},
	}
}
