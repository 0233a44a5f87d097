package models

// Macros is a calorie and macronutrient tuple.
// Calories are whole kilocalories, the rest are grams.
type Macros struct {
	Calories int
	Protein  float64
	Carbs    float64
	Fat      float64
}

// Add returns the element-wise sum of m and o.
func (m Macros) Add(o Macros) Macros {
	return Macros{
		Calories: m.Calories + o.Calories,
		Protein:  m.Protein + o.Protein,
		Carbs:    m.Carbs + o.Carbs,
		Fat:      m.Fat + o.Fat,
	}
}

// Negative reports whether any component is below zero.
func (m Macros) Negative() bool {
	return m.Calories < 0 || m.Protein < 0 || m.Carbs < 0 || m.Fat < 0
}
