package models

import "time"

// GroupedMeal is a display-time aggregate of entries sharing a group.
// Ungrouped entries are shown as singleton GroupedMeals with a nil Group.
type GroupedMeal struct {
	// Group is nil for a singleton.
	Group *GroupRef

	// Meals are the member entries ordered by LoggedAt ascending.
	Meals []MealLogEntry

	// Totals is the sum of the members' macros.
	Totals Macros

	// LatestLoggedAt is the max LoggedAt across Meals.
	LatestLoggedAt time.Time
}

// Singleton reports whether the meal is an ungrouped single entry.
func (g *GroupedMeal) Singleton() bool {
	return g.Group == nil
}

// DailySummary is the per-day fold of a user's entries.
type DailySummary struct {
	// Date is the ISO calendar date (2006-01-02).
	Date string

	// Totals is the sum over every entry logged that day.
	Totals Macros

	// MealCount is the number of GroupedMeal units, not raw entries.
	MealCount int
}
