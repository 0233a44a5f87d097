// Package calculator holds the pure nutrition arithmetic: portion scaling,
// shared-dish splitting and progress percentages.
//
// Rounding rules are applied once, at the edge of each function:
// calories round to the nearest whole number and grams to one decimal place,
// both half away from zero.
package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/macrotrack/internal/errs"
	"github.com/mmynk/macrotrack/internal/models"
)

// ScalePortion computes value * quantity / servingSize without rounding.
// A servingSize of zero or less means "unset" and is treated as 1.
func ScalePortion(value, quantity, servingSize float64) float64 {
	if servingSize <= 0 {
		servingSize = 1
	}
	return decimal.NewFromFloat(value).
		Mul(decimal.NewFromFloat(quantity)).
		Div(decimal.NewFromFloat(servingSize)).
		InexactFloat64()
}

// ScaleSharedPortion computes totalValue * (myPortion / peopleSharing) without
// rounding. It is used when a dish was eaten jointly and the user records only
// their share of it.
func ScaleSharedPortion(totalValue, myPortion, peopleSharing float64) (float64, error) {
	if err := validateShare(myPortion, peopleSharing); err != nil {
		return 0, err
	}
	return decimal.NewFromFloat(totalValue).
		Mul(decimal.NewFromFloat(myPortion)).
		Div(decimal.NewFromFloat(peopleSharing)).
		InexactFloat64(), nil
}

// ScaleMacros scales per-serving macros to the logged quantity and rounds them.
func ScaleMacros(perServing models.Macros, quantity, servingSize float64) models.Macros {
	return models.Macros{
		Calories: RoundCalories(ScalePortion(float64(perServing.Calories), quantity, servingSize)),
		Protein:  RoundGrams(ScalePortion(perServing.Protein, quantity, servingSize)),
		Carbs:    RoundGrams(ScalePortion(perServing.Carbs, quantity, servingSize)),
		Fat:      RoundGrams(ScalePortion(perServing.Fat, quantity, servingSize)),
	}
}

// ShareMacros returns the user's share of a jointly eaten dish, rounded.
func ShareMacros(total models.Macros, myPortion, peopleSharing float64) (models.Macros, error) {
	if err := validateShare(myPortion, peopleSharing); err != nil {
		return models.Macros{}, err
	}
	share := func(v float64) float64 {
		out, _ := ScaleSharedPortion(v, myPortion, peopleSharing)
		return out
	}
	return models.Macros{
		Calories: RoundCalories(share(float64(total.Calories))),
		Protein:  RoundGrams(share(total.Protein)),
		Carbs:    RoundGrams(share(total.Carbs)),
		Fat:      RoundGrams(share(total.Fat)),
	}, nil
}

// RoundCalories rounds to the nearest whole kilocalorie.
func RoundCalories(v float64) int {
	return int(decimal.NewFromFloat(v).Round(0).IntPart())
}

// RoundGrams rounds to one decimal place.
func RoundGrams(v float64) float64 {
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}

func validateShare(myPortion, peopleSharing float64) error {
	if peopleSharing < 1 {
		return errs.Validation("ScaleSharedPortion", "people sharing must be at least 1, got %v", peopleSharing)
	}
	if myPortion <= 0 {
		return errs.Validation("ScaleSharedPortion", "portion must be positive, got %v", myPortion)
	}
	return nil
}
