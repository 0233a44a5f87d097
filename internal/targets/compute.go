package targets

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/macrotrack/internal/calculator"
	"github.com/mmynk/macrotrack/internal/errs"
	"github.com/mmynk/macrotrack/internal/models"
)

// ActivityMultipliers maps activity levels to their TDEE multiplier.
// It is also the set of valid activity levels.
var ActivityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

// goalAdjustments are kcal/day added to TDEE per goal.
var goalAdjustments = map[models.Goal]float64{
	models.GoalLose:     -500,
	models.GoalMaintain: 0,
	models.GoalGain:     300,
}

// MinCalories is the floor applied to computed calorie targets.
const MinCalories = 1200

// Calorie share and kcal per gram of each macro.
var (
	proteinShare = decimal.RequireFromString("0.30")
	carbsShare   = decimal.RequireFromString("0.40")
	fatShare     = decimal.RequireFromString("0.30")

	kcalPerGramProtein = decimal.NewFromInt(4)
	kcalPerGramCarbs   = decimal.NewFromInt(4)
	kcalPerGramFat     = decimal.NewFromInt(9)
)

// Validate checks that a profile has everything Compute needs.
func Validate(p *models.Profile) error {
	const op = "ComputeTargets"

	switch p.Sex {
	case models.SexMale, models.SexFemale:
	default:
		return errs.Validation(op, "sex must be %q or %q", models.SexMale, models.SexFemale)
	}
	if p.Age < 13 || p.Age > 120 {
		return errs.Validation(op, "age must be between 13 and 120, got %d", p.Age)
	}
	if p.HeightCM < 100 || p.HeightCM > 250 {
		return errs.Validation(op, "height must be between 100 and 250 cm, got %v", p.HeightCM)
	}
	if p.WeightKG < 30 || p.WeightKG > 350 {
		return errs.Validation(op, "weight must be between 30 and 350 kg, got %v", p.WeightKG)
	}
	if _, ok := ActivityMultipliers[p.ActivityLevel]; !ok {
		return errs.Validation(op, "unknown activity level %q", p.ActivityLevel)
	}
	if _, ok := goalAdjustments[p.Goal]; !ok {
		return errs.Validation(op, "unknown goal %q", p.Goal)
	}
	return nil
}

// Compute derives daily targets from a profile.
// BMR uses Mifflin-St Jeor, scaled by the activity multiplier and adjusted
// for the goal. Calories are split 30/40/30 across protein, carbs and fat.
func Compute(p *models.Profile) (models.NutritionTargets, error) {
	if err := Validate(p); err != nil {
		return models.NutritionTargets{}, err
	}

	bmr := 10*p.WeightKG + 6.25*p.HeightCM - 5*float64(p.Age)
	if p.Sex == models.SexMale {
		bmr += 5
	} else {
		bmr -= 161
	}

	calories := calculator.RoundCalories(bmr*ActivityMultipliers[p.ActivityLevel] + goalAdjustments[p.Goal])
	calories = max(calories, MinCalories)

	kcal := decimal.NewFromInt(int64(calories))
	grams := func(share, perGram decimal.Decimal) float64 {
		return kcal.Mul(share).Div(perGram).Round(1).InexactFloat64()
	}

	return models.NutritionTargets{
		Calories: calories,
		Protein:  grams(proteinShare, kcalPerGramProtein),
		Carbs:    grams(carbsShare, kcalPerGramCarbs),
		Fat:      grams(fatShare, kcalPerGramFat),
	}, nil
}
