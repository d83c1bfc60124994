package tracking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/claude/rpfocus/internal/models"
	"github.com/claude/rpfocus/internal/nutrition"
)

var (
	ErrInvalidDate    = errors.New("date must be YYYY-MM-DD")
	ErrInvalidProfile = errors.New("invalid nutrition profile")
	ErrMealNotFound   = errors.New("meal not found")
)

// NutritionDay is the meal log of one date with its totals.
type NutritionDay struct {
	Date   string           `json:"date"`
	Meals  []models.Meal    `json:"meals"`
	Totals nutrition.Totals `json:"totals"`
	// MealTotals holds the totals of each meal keyed by meal id.
	MealTotals        map[string]nutrition.Totals `json:"meal_totals"`
	Target            *models.Profile             `json:"target,omitempty"`
	RemainingCalories *int                        `json:"remaining_calories,omitempty"`
}

// Profile returns the stored nutrition profile, or nil when none is set.
func (s *Session) Profile() *models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.NutritionProfile == nil {
		return nil
	}
	p := *s.state.NutritionProfile
	return &p
}

// SaveProfile validates p, derives its targets and stores it. An empty API
// key keeps the one already stored.
func (s *Session) SaveProfile(ctx context.Context, p models.Profile) (models.Profile, error) {
	if err := validateProfile(p); err != nil {
		return models.Profile{}, err
	}
	p = nutrition.ComputeTargets(p)

	s.mu.Lock()
	defer s.mu.Unlock()
	if p.GeminiAPIKey == "" && s.state.NutritionProfile != nil {
		p.GeminiAPIKey = s.state.NutritionProfile.GeminiAPIKey
	}
	stored := p
	s.state.NutritionProfile = &stored
	s.log.Info("nutrition profile saved", "goal", p.Goal, "target_calories", p.TargetCalories)
	return p, s.persist(ctx)
}

// SetGeminiAPIKey stores the analysis key on the profile, creating a
// default profile if none exists.
func (s *Session) SetGeminiAPIKey(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.NutritionProfile == nil {
		p := nutrition.ComputeTargets(models.DefaultProfile())
		s.state.NutritionProfile = &p
	}
	s.state.NutritionProfile.GeminiAPIKey = key
	return s.persist(ctx)
}

func validateProfile(p models.Profile) error {
	switch {
	case p.Gender != models.Male && p.Gender != models.Female:
		return fmt.Errorf("%w: gender %q", ErrInvalidProfile, p.Gender)
	case p.Age <= 0 || p.Age > 120:
		return fmt.Errorf("%w: age %d", ErrInvalidProfile, p.Age)
	case !positive(p.Height) || !positive(p.Weight):
		return fmt.Errorf("%w: height and weight must be positive", ErrInvalidProfile)
	case !positive(p.ActivityLevel):
		return fmt.Errorf("%w: activity level %v", ErrInvalidProfile, p.ActivityLevel)
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func validateDate(date string) error {
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return nil
}

// Today returns the session clock's date key.
func (s *Session) Today() string {
	return s.now().Format(models.DateLayout)
}

// NutritionDay returns the meals and totals of date.
func (s *Session) NutritionDay(date string) (NutritionDay, error) {
	if err := validateDate(date); err != nil {
		return NutritionDay{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	day := s.state.NutritionLogs[date].Clone()
	v := NutritionDay{
		Date:       date,
		Meals:      day.Meals,
		Totals:     nutrition.DailyTotals(day),
		MealTotals: make(map[string]nutrition.Totals, len(day.Meals)),
	}
	for _, m := range day.Meals {
		v.MealTotals[m.ID] = nutrition.MealTotals(m)
	}
	if p := s.state.NutritionProfile; p != nil {
		target := *p
		target.GeminiAPIKey = ""
		remaining := nutrition.RemainingCalories(target, v.Totals)
		v.Target = &target
		v.RemainingCalories = &remaining
	}
	return v, nil
}

// AddMeal builds a meal and inserts it into date's log in time order.
func (s *Session) AddMeal(ctx context.Context, date, name, hhmm string, source models.MealSource, items []models.FoodItem) (models.Meal, error) {
	if err := validateDate(date); err != nil {
		return models.Meal{}, err
	}
	m, err := nutrition.NewMeal(name, hhmm, source, items, s.now())
	if err != nil {
		return models.Meal{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return m, s.addMealLocked(ctx, date, m)
}

func (s *Session) addMealLocked(ctx context.Context, date string, m models.Meal) error {
	s.state.NutritionLogs[date] = nutrition.AddMeal(s.state.NutritionLogs[date], m)
	s.log.Info("meal added", "date", date, "meal", m.Name, "items", len(m.Items), "source", m.Source)
	return s.persist(ctx)
}

// AddManualMeal adds a meal from typed item lines.
func (s *Session) AddManualMeal(ctx context.Context, date, name, hhmm string, inputs []nutrition.ItemInput) (models.Meal, error) {
	items := make([]models.FoodItem, 0, len(inputs))
	for _, in := range inputs {
		if it, ok := nutrition.NewItem(in); ok {
			items = append(items, it)
		}
	}
	return s.AddMeal(ctx, date, name, hhmm, models.SourceManual, items)
}

// DeleteMeal removes meal id from date's log.
func (s *Session) DeleteMeal(ctx context.Context, date, id string) error {
	if err := validateDate(date); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	day, ok := nutrition.DeleteMeal(s.state.NutritionLogs[date], id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrMealNotFound, id)
	}
	if len(day.Meals) == 0 {
		delete(s.state.NutritionLogs, date)
	} else {
		s.state.NutritionLogs[date] = day
	}
	return s.persist(ctx)
}
