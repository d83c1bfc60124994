// Package nutrition computes energy and macro targets and keeps the
// per-day meal logs.
package nutrition

import (
	"math"

	"github.com/claude/rpfocus/internal/models"
)

// GoalRule is the calorie offset and protein factor for a goal.
type GoalRule struct {
	Goal          models.Goal `json:"goal"`
	Label         string      `json:"label"`
	CalorieAdjust int         `json:"calorie_adjust"`
	ProteinPerKg  float64     `json:"protein_per_kg"`
}

// Goals lists the supported goals.
var Goals = []GoalRule{
	{Goal: models.GoalCut, Label: "Cut", CalorieAdjust: -500, ProteinPerKg: 2.2},
	{Goal: models.GoalMaintain, Label: "Maintain", CalorieAdjust: 0, ProteinPerKg: 1.8},
	{Goal: models.GoalBulk, Label: "Bulk", CalorieAdjust: 300, ProteinPerKg: 1.6},
}

// RuleFor returns the rule for goal, falling back to maintain.
func RuleFor(goal models.Goal) GoalRule {
	for _, g := range Goals {
		if g.Goal == goal {
			return g
		}
	}
	return Goals[1]
}

// ActivityLevel is a TDEE multiplier with a short description.
type ActivityLevel struct {
	Factor      float64 `json:"factor"`
	Label       string  `json:"label"`
	Description string  `json:"description"`
}

// ActivityLevels lists the selectable activity multipliers.
var ActivityLevels = []ActivityLevel{
	{1.2, "Sedentary", "Desk job, almost no exercise"},
	{1.375, "Lightly active", "Exercise 1-3 days a week"},
	{1.55, "Moderately active", "Exercise 3-5 days a week"},
	{1.725, "Very active", "Exercise 6-7 days a week"},
	{1.9, "Extremely active", "Physical labour or daily hard training"},
}

// round rounds halves up.
func round(x float64) float64 {
	return math.Floor(x + 0.5)
}

// BMR returns the Mifflin-St Jeor basal metabolic rate in kcal/day.
func BMR(gender models.Gender, weightKg, heightCm float64, age int) float64 {
	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if gender == models.Male {
		return base + 5
	}
	return base - 161
}

// TDEE scales BMR by the activity factor.
func TDEE(bmr, activity float64) int {
	return int(round(bmr * activity))
}

// Macros is a daily gram target per macronutrient.
type Macros struct {
	Protein int `json:"protein"`
	Fat     int `json:"fat"`
	Carbs   int `json:"carbs"`
}

// MacrosFor splits target calories into protein, fat and carbs.
// Fat is a quarter of calories; carbs take whatever energy is left.
func MacrosFor(targetCalories int, weightKg float64, goal models.Goal) Macros {
	rule := RuleFor(goal)
	protein := int(round(weightKg * rule.ProteinPerKg))
	fat := int(round(float64(targetCalories) * 0.25 / 9))
	carbKcal := float64(targetCalories - protein*4 - fat*9)
	carbs := int(round(math.Max(0, carbKcal/4)))
	return Macros{Protein: protein, Fat: fat, Carbs: carbs}
}

// ComputeTargets fills the derived fields of p from its measurements.
func ComputeTargets(p models.Profile) models.Profile {
	rule := RuleFor(p.Goal)
	p.Goal = rule.Goal
	p.TDEE = TDEE(BMR(p.Gender, p.Weight, p.Height, p.Age), p.ActivityLevel)
	p.TargetCalories = p.TDEE + rule.CalorieAdjust
	m := MacrosFor(p.TargetCalories, p.Weight, p.Goal)
	p.TargetProtein = m.Protein
	p.TargetFat = m.Fat
	p.TargetCarbs = m.Carbs
	return p
}
