// Package models defines the core domain models for macrotrack.
//
// # Persisted Models
//
//   - MealLogEntry: one logged food item (photo, manual or quick item)
//   - QuickItem: a reusable per-serving nutrition template
//   - Profile: body measurements and goal used to compute targets
//   - NutritionTargets: per-user daily goals
//
// # Derived Models
//
// GroupedMeal and DailySummary are never stored. They are recomputed from
// MealLogEntry rows every time they are needed, so their totals cannot drift
// from the entries they summarise.
//
// # Grouping
//
// An entry is either ungrouped (Group == nil) or belongs to exactly one group
// (Group != nil, carrying both the id and the label). There is no state where
// an entry has a group id but no group name.
package models
