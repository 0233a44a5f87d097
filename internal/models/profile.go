package models

// Sex is used by the BMR formula.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// Goal adjusts the daily calorie target.
type Goal string

const (
	GoalLose     Goal = "lose"
	GoalMaintain Goal = "maintain"
	GoalGain     Goal = "gain"
)

// Profile holds the measurements targets are computed from.
type Profile struct {
	UserID        string
	DisplayName   string
	Sex           Sex
	Age           int
	HeightCM      float64
	WeightKG      float64
	ActivityLevel string
	Goal          Goal

	// UpdatedAt is the Unix timestamp of the last save.
	UpdatedAt int64
}

// NutritionTargets are per-user daily goals.
// They only change through an explicit profile recalculation.
type NutritionTargets struct {
	Calories int
	Protein  float64
	Carbs    float64
	Fat      float64
}

// Macros returns the targets as a Macros tuple.
func (t NutritionTargets) Macros() Macros {
	return Macros{Calories: t.Calories, Protein: t.Protein, Carbs: t.Carbs, Fat: t.Fat}
}
