// Package api defines the wire messages of the macrotrack.v1 services.
// Messages are encoded as JSON with camelCase field names.
package api

// Macros is a nutrition tuple. Protein, carbs and fat are grams.
type Macros struct {
	Calories int32   `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

type Group struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

type MealEntry struct {
	Id          string  `json:"id"`
	MealType    string  `json:"mealType"`
	Description string  `json:"description"`
	ImageUrl    string  `json:"imageUrl,omitempty"`
	QuickItemId string  `json:"quickItemId,omitempty"`
	Quantity    float64 `json:"quantity"`
	Macros      *Macros `json:"macros"`
	// Group is absent for ungrouped entries.
	Group *Group `json:"group,omitempty"`
	// LoggedAt is RFC 3339 in the server's configured time zone.
	LoggedAt  string `json:"loggedAt"`
	CreatedAt int64  `json:"createdAt"`
}

// GroupedMeal is a display unit: a group, or a single ungrouped entry.
type GroupedMeal struct {
	Group          *Group       `json:"group,omitempty"`
	Meals          []*MealEntry `json:"meals"`
	Totals         *Macros      `json:"totals"`
	LatestLoggedAt string       `json:"latestLoggedAt"`
}

type DailySummary struct {
	Date      string  `json:"date"`
	Totals    *Macros `json:"totals"`
	MealCount int32   `json:"mealCount"`
}

type MacroProgress struct {
	Current float64 `json:"current"`
	Target  float64 `json:"target"`
	Percent float64 `json:"percent"`
	IsOver  bool    `json:"isOver"`
}

type Progress struct {
	Calories *MacroProgress `json:"calories"`
	Protein  *MacroProgress `json:"protein"`
	Carbs    *MacroProgress `json:"carbs"`
	Fat      *MacroProgress `json:"fat"`
}

type GroupSummary struct {
	Group  *Group  `json:"group"`
	Count  int32   `json:"count"`
	Totals *Macros `json:"totals"`
}

type QuickItem struct {
	Id          string  `json:"id"`
	Name        string  `json:"name"`
	Unit        string  `json:"unit"`
	ServingSize float64 `json:"servingSize"`
	Macros      *Macros `json:"macros"`
	ImageUrl    string  `json:"imageUrl,omitempty"`
	CreatedAt   int64   `json:"createdAt"`
}

type Profile struct {
	DisplayName   string  `json:"displayName"`
	Sex           string  `json:"sex"`
	Age           int32   `json:"age"`
	HeightCm      float64 `json:"heightCm"`
	WeightKg      float64 `json:"weightKg"`
	ActivityLevel string  `json:"activityLevel"`
	Goal          string  `json:"goal"`
	UpdatedAt     int64   `json:"updatedAt"`
}

type NutritionTargets struct {
	Calories int32   `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}
