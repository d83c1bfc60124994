package nutrition

import (
	"errors"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/claude/rpfocus/internal/models"
	"github.com/google/uuid"
)

// ErrEmptyMeal is returned when a meal has no named items.
var ErrEmptyMeal = errors.New("meal has no food items")

// ErrInvalidTime is returned for meal times not in HH:MM form.
var ErrInvalidTime = errors.New("meal time must be HH:MM")

// DefaultMealNames are the quick-pick names offered for a new meal.
var DefaultMealNames = []string{"Breakfast", "Lunch", "Dinner", "Snack"}

const (
	fallbackManualName = "Meal"
	fallbackAIName     = "AI meal"
	timeLayout         = "15:04"
)

// Totals is the sum of energy and macros over a set of items.
type Totals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Add accumulates one food item.
func (t Totals) Add(it models.FoodItem) Totals {
	t.Calories += it.Calories
	t.Protein += it.Protein
	t.Carbs += it.Carbs
	t.Fat += it.Fat
	return t
}

// MealTotals sums the items of a meal.
func MealTotals(m models.Meal) Totals {
	var t Totals
	for _, it := range m.Items {
		t = t.Add(it)
	}
	return t
}

// DailyTotals sums every meal of the day.
func DailyTotals(day models.DayLog) Totals {
	var t Totals
	for _, m := range day.Meals {
		mt := MealTotals(m)
		t.Calories += mt.Calories
		t.Protein += mt.Protein
		t.Carbs += mt.Carbs
		t.Fat += mt.Fat
	}
	return t
}

// RemainingCalories returns what is left of the calorie target, never negative.
func RemainingCalories(p models.Profile, t Totals) int {
	return max(0, p.TargetCalories-int(round(t.Calories)))
}

// ParseAmount parses a user-typed number, returning 0 for anything malformed.
func ParseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ItemInput is a food line as typed by the user.
type ItemInput struct {
	Name     string `json:"name"`
	Portion  string `json:"portion,omitempty"`
	Calories string `json:"calories"`
	Protein  string `json:"protein"`
	Carbs    string `json:"carbs"`
	Fat      string `json:"fat"`
}

// NewItem converts input into a food item. Items with blank names are
// reported as not ok.
func NewItem(in ItemInput) (models.FoodItem, bool) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.FoodItem{}, false
	}
	return models.FoodItem{
		ID:       uuid.NewString(),
		Name:     name,
		Portion:  strings.TrimSpace(in.Portion),
		Calories: ParseAmount(in.Calories),
		Protein:  ParseAmount(in.Protein),
		Carbs:    ParseAmount(in.Carbs),
		Fat:      ParseAmount(in.Fat),
	}, true
}

// NewMeal builds a meal from items, dropping unnamed items. An empty time
// uses now; an empty name uses the source's fixed default ("Meal" or
// "AI meal") whatever the time of day.
func NewMeal(name, hhmm string, source models.MealSource, items []models.FoodItem, now time.Time) (models.Meal, error) {
	if hhmm == "" {
		hhmm = now.Format(timeLayout)
	}
	if _, err := time.Parse(timeLayout, hhmm); err != nil {
		return models.Meal{}, ErrInvalidTime
	}

	kept := make([]models.FoodItem, 0, len(items))
	for _, it := range items {
		it.Name = strings.TrimSpace(it.Name)
		if it.Name == "" {
			continue
		}
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		kept = append(kept, it)
	}
	if len(kept) == 0 {
		return models.Meal{}, ErrEmptyMeal
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = fallbackManualName
		if source == models.SourceAI {
			name = fallbackAIName
		}
	}
	if source != models.SourceAI {
		source = models.SourceManual
	}

	return models.Meal{
		ID:     uuid.NewString(),
		Time:   hhmm,
		Name:   name,
		Source: source,
		Items:  kept,
	}, nil
}

// AddMeal returns day with m inserted, keeping meals ordered by time.
// Meals at the same time keep insertion order.
func AddMeal(day models.DayLog, m models.Meal) models.DayLog {
	out := day.Clone()
	out.Meals = append(out.Meals, m)
	slices.SortStableFunc(out.Meals, func(a, b models.Meal) int {
		return strings.Compare(a.Time, b.Time)
	})
	return out
}

// DeleteMeal returns day without the meal with id. It reports whether
// the meal was found.
func DeleteMeal(day models.DayLog, id string) (models.DayLog, bool) {
	out := day.Clone()
	i := slices.IndexFunc(out.Meals, func(m models.Meal) bool { return m.ID == id })
	if i < 0 {
		return out, false
	}
	out.Meals = slices.Delete(out.Meals, i, i+1)
	return out, true
}
