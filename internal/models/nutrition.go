package models

import "slices"

// Gender selects the BMR constant.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// Goal is the body-composition goal driving calorie and protein targets.
type Goal string

const (
	GoalCut      Goal = "cut"
	GoalMaintain Goal = "maintain"
	GoalBulk     Goal = "bulk"
)

// Profile holds body measurements and the targets derived from them.
// Height is in centimetres, Weight in kilograms.
type Profile struct {
	Gender         Gender  `json:"gender"`
	Age            int     `json:"age"`
	Height         float64 `json:"height"`
	Weight         float64 `json:"weight"`
	ActivityLevel  float64 `json:"activity_level"`
	Goal           Goal    `json:"goal"`
	TDEE           int     `json:"tdee"`
	TargetCalories int     `json:"target_calories"`
	TargetProtein  int     `json:"target_protein"`
	TargetFat      int     `json:"target_fat"`
	TargetCarbs    int     `json:"target_carbs"`
	GeminiAPIKey   string  `json:"gemini_api_key,omitempty"`
}

// DefaultProfile returns the measurements pre-filled in a new profile form.
func DefaultProfile() Profile {
	return Profile{
		Gender:        Male,
		Age:           30,
		Height:        175,
		Weight:        75,
		ActivityLevel: 1.55,
		Goal:          GoalMaintain,
	}
}

// MealSource records how a meal was entered.
type MealSource string

const (
	SourceManual MealSource = "manual"
	SourceAI     MealSource = "ai"
)

// FoodItem is one line of a meal. Macros are grams, energy is kcal.
type FoodItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Portion  string  `json:"portion,omitempty"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Meal groups food items eaten at one time of day. Time is "HH:MM".
type Meal struct {
	ID     string     `json:"id"`
	Time   string     `json:"time"`
	Name   string     `json:"name"`
	Source MealSource `json:"source"`
	Items  []FoodItem `json:"items"`
}

// DayLog is everything eaten on one calendar date, meals sorted by time.
type DayLog struct {
	Meals []Meal `json:"meals"`
}

// Clone returns a deep copy of d.
func (d DayLog) Clone() DayLog {
	out := DayLog{Meals: make([]Meal, len(d.Meals))}
	for i, m := range d.Meals {
		m.Items = slices.Clone(m.Items)
		out.Meals[i] = m
	}
	return out
}

// DateLayout is the key format of State.NutritionLogs.
const DateLayout = "2006-01-02"
