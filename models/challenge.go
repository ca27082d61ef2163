package models

// Challenge categories shown in the app. Stored as plain labels.
const (
	CategoryFitness     = "Fitness"
	CategoryHydration   = "Hydration"
	CategoryMindfulness = "Mindfulness"
	CategoryNutrition   = "Nutrition"
	CategorySleep       = "Sleep"
)

// Challenge is a per-user task with a point reward and a progress/completion
// state. Completion is terminal: once IsComplete flips true the record no
// longer accepts progress updates and the award is never repeated.
type Challenge struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserID      uint   `gorm:"index;not null" json:"user_id"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Category    string `gorm:"size:32;not null" json:"category"`
	Icon        string `gorm:"size:64" json:"icon"`
	Points      int    `gorm:"not null" json:"points"`
	Duration    *int   `json:"duration"` // minutes
	Reps        *int   `json:"reps"`
	IsComplete  bool   `gorm:"default:false" json:"is_complete"`
	Progress    int    `gorm:"default:0" json:"progress"` // 0-100
}
