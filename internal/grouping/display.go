// Package grouping turns flat meal-log rows into grouped meals and owns every
// operation that changes group membership.
//
// The view model is always recomputed from the entries. Nothing in this
// package stores a total.
package grouping

import (
	"cmp"
	"slices"
	"time"

	"github.com/mmynk/macrotrack/internal/errs"
	"github.com/mmynk/macrotrack/internal/models"
)

// GroupForDisplay partitions entries into grouped meals.
// Ungrouped entries each become a singleton. Members are ordered by LoggedAt
// ascending and meals by LatestLoggedAt descending (most recent first).
// It returns an integrity error if members of one group disagree on its name.
func GroupForDisplay(entries []models.MealLogEntry) ([]models.GroupedMeal, error) {
	meals := make([]models.GroupedMeal, 0, len(entries))
	byGroup := make(map[string]int)

	for _, e := range entries {
		if e.Group == nil {
			meals = append(meals, models.GroupedMeal{Meals: []models.MealLogEntry{e}})
			continue
		}

		idx, ok := byGroup[e.Group.ID]
		if !ok {
			ref := *e.Group
			byGroup[e.Group.ID] = len(meals)
			meals = append(meals, models.GroupedMeal{Group: &ref, Meals: []models.MealLogEntry{e}})
			continue
		}

		if meals[idx].Group.Name != e.Group.Name {
			return nil, errs.Integrity("GroupForDisplay",
				"group %s has conflicting names %q and %q", e.Group.ID, meals[idx].Group.Name, e.Group.Name)
		}
		meals[idx].Meals = append(meals[idx].Meals, e)
	}

	for i := range meals {
		slices.SortFunc(meals[i].Meals, compareEntries)
		meals[i].Totals, meals[i].LatestLoggedAt = summarize(meals[i].Meals)
	}

	slices.SortFunc(meals, func(a, b models.GroupedMeal) int {
		if c := b.LatestLoggedAt.Compare(a.LatestLoggedAt); c != 0 {
			return c
		}
		return cmp.Compare(mealKey(a), mealKey(b))
	})

	return meals, nil
}

// Flatten returns every member entry of meals in display order.
func Flatten(meals []models.GroupedMeal) []models.MealLogEntry {
	var entries []models.MealLogEntry
	for _, m := range meals {
		entries = append(entries, m.Meals...)
	}
	return entries
}

// Sum totals the macros of raw entries.
func Sum(entries []models.MealLogEntry) models.Macros {
	var total models.Macros
	for _, e := range entries {
		total = total.Add(e.Macros)
	}
	return total
}

// GroupSummary describes an existing group for pickers.
type GroupSummary struct {
	Group  models.GroupRef
	Count  int
	Totals models.Macros
}

// Options lists what entryID could be grouped with: the other ungrouped
// entries, and the existing groups it is not already a member of.
func Options(meals []models.GroupedMeal, entryID string) (ungrouped []models.MealLogEntry, groups []GroupSummary) {
	for _, m := range meals {
		if m.Group == nil {
			if m.Meals[0].ID != entryID {
				ungrouped = append(ungrouped, m.Meals[0])
			}
			continue
		}
		if slices.ContainsFunc(m.Meals, func(e models.MealLogEntry) bool { return e.ID == entryID }) {
			continue
		}
		groups = append(groups, GroupSummary{Group: *m.Group, Count: len(m.Meals), Totals: m.Totals})
	}
	return ungrouped, groups
}

func compareEntries(a, b models.MealLogEntry) int {
	if c := a.LoggedAt.Compare(b.LoggedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func summarize(entries []models.MealLogEntry) (models.Macros, time.Time) {
	var latest time.Time
	for _, e := range entries {
		if e.LoggedAt.After(latest) {
			latest = e.LoggedAt
		}
	}
	return Sum(entries), latest
}

// mealKey breaks ordering ties so output is deterministic.
func mealKey(m models.GroupedMeal) string {
	if m.Group != nil {
		return "g:" + m.Group.ID
	}
	return "e:" + m.Meals[0].ID
}
