package service

import (
	"time"

	"github.com/mmynk/macrotrack/internal/calculator"
	"github.com/mmynk/macrotrack/internal/grouping"
	"github.com/mmynk/macrotrack/internal/models"
	"github.com/mmynk/macrotrack/internal/targets"
	"github.com/mmynk/macrotrack/pkg/api"
)

// toAPIMacros rounds grams to one decimal so summed totals match entry values.
func toAPIMacros(m models.Macros) *api.Macros {
	return &api.Macros{
		Calories: int32(m.Calories),
		Protein:  calculator.RoundGrams(m.Protein),
		Carbs:    calculator.RoundGrams(m.Carbs),
		Fat:      calculator.RoundGrams(m.Fat),
	}
}

func fromAPIMacros(m *api.Macros) models.Macros {
	if m == nil {
		return models.Macros{}
	}
	return models.Macros{
		Calories: int(m.Calories),
		Protein:  m.Protein,
		Carbs:    m.Carbs,
		Fat:      m.Fat,
	}
}

func toAPIGroup(g *models.GroupRef) *api.Group {
	if g == nil {
		return nil
	}
	return &api.Group{Id: g.ID, Name: g.Name}
}

func (s *MealService) toAPIEntry(e *models.MealLogEntry) *api.MealEntry {
	return &api.MealEntry{
		Id:          e.ID,
		MealType:    string(e.MealType),
		Description: e.Description,
		ImageUrl:    e.ImageURL,
		QuickItemId: e.QuickItemID,
		Quantity:    e.Quantity,
		Macros:      toAPIMacros(e.Macros),
		Group:       toAPIGroup(e.Group),
		LoggedAt:    s.formatTime(e.LoggedAt),
		CreatedAt:   e.CreatedAt,
	}
}

func (s *MealService) toAPIEntries(entries []models.MealLogEntry) []*api.MealEntry {
	out := make([]*api.MealEntry, len(entries))
	for i := range entries {
		out[i] = s.toAPIEntry(&entries[i])
	}
	return out
}

func (s *MealService) toAPIMeals(meals []models.GroupedMeal) []*api.GroupedMeal {
	out := make([]*api.GroupedMeal, len(meals))
	for i, m := range meals {
		out[i] = &api.GroupedMeal{
			Group:          toAPIGroup(m.Group),
			Meals:          s.toAPIEntries(m.Meals),
			Totals:         toAPIMacros(m.Totals),
			LatestLoggedAt: s.formatTime(m.LatestLoggedAt),
		}
	}
	return out
}

func (s *MealService) formatTime(t time.Time) string {
	return t.In(s.cal.Location()).Format(time.RFC3339)
}

func toAPISummary(d models.DailySummary) *api.DailySummary {
	return &api.DailySummary{
		Date:      d.Date,
		Totals:    toAPIMacros(d.Totals),
		MealCount: int32(d.MealCount),
	}
}

func toAPIGroupSummaries(groups []grouping.GroupSummary) []*api.GroupSummary {
	out := make([]*api.GroupSummary, len(groups))
	for i, g := range groups {
		out[i] = &api.GroupSummary{
			Group:  toAPIGroup(&g.Group),
			Count:  int32(g.Count),
			Totals: toAPIMacros(g.Totals),
		}
	}
	return out
}

func toAPIProgress(r targets.Report) *api.Progress {
	conv := func(p targets.MacroProgress) *api.MacroProgress {
		return &api.MacroProgress{Current: calculator.RoundGrams(p.Current), Target: p.Target, Percent: p.Percent, IsOver: p.IsOver}
	}
	return &api.Progress{
		Calories: conv(r.Calories),
		Protein:  conv(r.Protein),
		Carbs:    conv(r.Carbs),
		Fat:      conv(r.Fat),
	}
}

func toAPIQuickItem(item *models.QuickItem) *api.QuickItem {
	return &api.QuickItem{
		Id:          item.ID,
		Name:        item.Name,
		Unit:        item.Unit,
		ServingSize: item.ServingSize,
		Macros:      toAPIMacros(item.Macros),
		ImageUrl:    item.ImageURL,
		CreatedAt:   item.CreatedAt,
	}
}

func toAPIProfile(p *models.Profile) *api.Profile {
	return &api.Profile{
		DisplayName:   p.DisplayName,
		Sex:           string(p.Sex),
		Age:           int32(p.Age),
		HeightCm:      p.HeightCM,
		WeightKg:      p.WeightKG,
		ActivityLevel: p.ActivityLevel,
		Goal:          string(p.Goal),
		UpdatedAt:     p.UpdatedAt,
	}
}

func toAPITargets(t models.NutritionTargets) *api.NutritionTargets {
	return &api.NutritionTargets{
		Calories: int32(t.Calories),
		Protein:  t.Protein,
		Carbs:    t.Carbs,
		Fat:      t.Fat,
	}
}
