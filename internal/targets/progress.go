// Package targets computes daily nutrition targets from a profile and tracks
// progress against them.
package targets

import (
	"github.com/mmynk/macrotrack/internal/calculator"
	"github.com/mmynk/macrotrack/internal/models"
)

// MacroProgress is one macro's standing against its target.
type MacroProgress struct {
	Current float64
	Target  float64
	// Percent is capped at 100.
	Percent float64
	// IsOver is current > target, independent of the cap.
	IsOver bool
}

// Report is progress for every tracked macro.
type Report struct {
	Calories MacroProgress
	Protein  MacroProgress
	Carbs    MacroProgress
	Fat      MacroProgress
}

// Progress compares consumed totals against targets.
func Progress(totals models.Macros, targets models.NutritionTargets) Report {
	return Report{
		Calories: track(float64(totals.Calories), float64(targets.Calories)),
		Protein:  track(totals.Protein, targets.Protein),
		Carbs:    track(totals.Carbs, targets.Carbs),
		Fat:      track(totals.Fat, targets.Fat),
	}
}

func track(current, target float64) MacroProgress {
	return MacroProgress{
		Current: current,
		Target:  target,
		Percent: calculator.PercentOfTarget(current, target),
		IsOver:  current > target,
	}
}
