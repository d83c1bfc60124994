package nutrition

import (
	"errors"
	"testing"
	"time"

	"github.com/claude/rpfocus/internal/models"
)

// TestComputeTargets verifies BMR, TDEE and macro splits for each goal.
func TestComputeTargets(t *testing.T) {
	cases := []struct {
		name    string
		profile models.Profile
		tdee    int
		target  int
		macros  Macros
	}{
		{
			name:    "default maintain",
			profile: models.DefaultProfile(),
			tdee:    2633, target: 2633,
			macros: Macros{Protein: 135, Fat: 73, Carbs: 359},
		},
		{
			name: "female cut",
			profile: models.Profile{
				Gender: models.Female, Age: 25, Height: 165, Weight: 60,
				ActivityLevel: 1.375, Goal: models.GoalCut,
			},
			tdee: 1850, target: 1350,
			macros: Macros{Protein: 132, Fat: 38, Carbs: 120},
		},
		{
			name: "male bulk",
			profile: models.Profile{
				Gender: models.Male, Age: 30, Height: 175, Weight: 75,
				ActivityLevel: 1.55, Goal: models.GoalBulk,
			},
			tdee: 2633, target: 2933,
			macros: Macros{Protein: 120, Fat: 81, Carbs: 431},
		},
	}
	for _, tc := range cases {
		got := ComputeTargets(tc.profile)
		if got.TDEE != tc.tdee || got.TargetCalories != tc.target {
			t.Errorf("%s: tdee/target = %d/%d, want %d/%d", tc.name, got.TDEE, got.TargetCalories, tc.tdee, tc.target)
		}
		m := Macros{Protein: got.TargetProtein, Fat: got.TargetFat, Carbs: got.TargetCarbs}
		if m != tc.macros {
			t.Errorf("%s: macros = %+v, want %+v", tc.name, m, tc.macros)
		}
	}
}

// TestUnknownGoalFallsBack verifies an unknown goal is treated as maintain.
func TestUnknownGoalFallsBack(t *testing.T) {
	p := models.DefaultProfile()
	p.Goal = "recomp"
	got := ComputeTargets(p)
	if got.Goal != models.GoalMaintain {
		t.Errorf("goal = %q, want maintain", got.Goal)
	}
	if got.TargetCalories != got.TDEE {
		t.Errorf("target = %d, want tdee %d", got.TargetCalories, got.TDEE)
	}
}

// TestCarbsNeverNegative verifies carbs clamp at zero for protein-heavy targets.
func TestCarbsNeverNegative(t *testing.T) {
	m := MacrosFor(800, 120, models.GoalCut)
	if m.Carbs != 0 {
		t.Errorf("carbs = %d, want 0", m.Carbs)
	}
}

// TestParseAmount verifies lenient number parsing.
func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"12.5", 12.5},
		{" 7 ", 7},
		{"", 0},
		{"abc", 0},
		{"NaN", 0},
		{"Inf", 0},
	}
	for _, tc := range cases {
		if got := ParseAmount(tc.in); got != tc.want {
			t.Errorf("ParseAmount(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

// TestNewMeal verifies unnamed items are dropped, names default by source
// rather than time of day and an all-empty meal is rejected.
func TestNewMeal(t *testing.T) {
	now := time.Date(2026, 3, 1, 7, 5, 0, 0, time.UTC)
	items := []models.FoodItem{{Name: " oats ", Calories: 300}, {Name: "  "}}

	m, err := NewMeal("", "", models.SourceManual, items, now)
	if err != nil {
		t.Fatal(err)
	}
	if m.Time != "07:05" {
		t.Errorf("time = %q, want 07:05", m.Time)
	}
	if m.Name != "Meal" {
		t.Errorf("name = %q, want Meal", m.Name)
	}
	if len(m.Items) != 1 || m.Items[0].Name != "oats" || m.Items[0].ID == "" {
		t.Errorf("items = %+v", m.Items)
	}

	ai, err := NewMeal("", "12:00", models.SourceAI, items, now)
	if err != nil {
		t.Fatal(err)
	}
	if ai.Name != "AI meal" || ai.Source != models.SourceAI {
		t.Errorf("ai meal = %q/%s", ai.Name, ai.Source)
	}

	if _, err := NewMeal("Lunch", "12:00", models.SourceManual, []models.FoodItem{{Name: ""}}, now); !errors.Is(err, ErrEmptyMeal) {
		t.Errorf("empty meal err = %v", err)
	}
	if _, err := NewMeal("Lunch", "noon", models.SourceManual, items, now); !errors.Is(err, ErrInvalidTime) {
		t.Errorf("bad time err = %v", err)
	}
}

// TestAddAndDeleteMeal verifies meals stay time-ordered and deletion by id.
func TestAddAndDeleteMeal(t *testing.T) {
	var day models.DayLog
	day = AddMeal(day, models.Meal{ID: "dinner", Time: "19:30"})
	day = AddMeal(day, models.Meal{ID: "breakfast", Time: "07:00"})
	day = AddMeal(day, models.Meal{ID: "lunch", Time: "12:15"})

	order := []string{"breakfast", "lunch", "dinner"}
	for i, id := range order {
		if day.Meals[i].ID != id {
			t.Errorf("meal %d = %s, want %s", i, day.Meals[i].ID, id)
		}
	}

	day, ok := DeleteMeal(day, "lunch")
	if !ok || len(day.Meals) != 2 {
		t.Fatalf("delete lunch: ok=%v meals=%d", ok, len(day.Meals))
	}
	if _, ok := DeleteMeal(day, "missing"); ok {
		t.Error("delete missing reported found")
	}
}

// TestDailyTotals verifies items across meals are summed and remaining
// calories clamp at zero.
func TestDailyTotals(t *testing.T) {
	day := models.DayLog{Meals: []models.Meal{
		{Items: []models.FoodItem{{Calories: 400, Protein: 30, Carbs: 40, Fat: 10}}},
		{Items: []models.FoodItem{{Calories: 250.5, Protein: 5}, {Calories: 100, Fat: 11}}},
	}}
	if mt := MealTotals(day.Meals[1]); mt != (Totals{Calories: 350.5, Protein: 5, Fat: 11}) {
		t.Errorf("MealTotals = %+v", mt)
	}

	got := DailyTotals(day)
	want := Totals{Calories: 750.5, Protein: 35, Carbs: 40, Fat: 21}
	if got != want {
		t.Errorf("DailyTotals = %+v, want %+v", got, want)
	}

	p := models.Profile{TargetCalories: 2000}
	if r := RemainingCalories(p, got); r != 1249 {
		t.Errorf("remaining = %d, want 1249", r)
	}
	p.TargetCalories = 500
	if r := RemainingCalories(p, got); r != 0 {
		t.Errorf("remaining = %d, want 0", r)
	}
}
