package storage

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/claude/rpfocus/internal/models"
)

// LegacyStorageKey is the localStorage key the browser app saved under.
const LegacyStorageKey = "rp_focus_pro_data"

// flexNumber decodes a JSON number, a numeric string or anything else.
// Valid is false for empty strings, null and malformed values.
type flexNumber struct {
	Value float64
	Valid bool
}

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	*n = flexNumber{}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil && string(b) != "null" {
		n.Value, n.Valid = f, true
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			n.Value, n.Valid = v, true
		}
	}
	return nil
}

type legacySetLog struct {
	Weight      flexNumber `json:"weight"`
	Reps        flexNumber `json:"reps"`
	Done        bool       `json:"done"`
	CompletedAt flexNumber `json:"completedAt"`
}

type legacyViewState struct {
	CurrentWeek flexNumber `json:"currentWeek"`
	CurrentDay  flexNumber `json:"currentDay"`
	ShowStats   *bool      `json:"showStats"`
}

type legacyProfile struct {
	Gender         string     `json:"gender"`
	Age            flexNumber `json:"age"`
	Height         flexNumber `json:"height"`
	Weight         flexNumber `json:"weight"`
	ActivityLevel  flexNumber `json:"activityLevel"`
	Goal           string     `json:"goal"`
	TDEE           flexNumber `json:"tdee"`
	TargetCalories flexNumber `json:"targetCalories"`
	TargetProtein  flexNumber `json:"targetProtein"`
	TargetFat      flexNumber `json:"targetFat"`
	TargetCarbs    flexNumber `json:"targetCarbs"`
	GeminiAPIKey   string     `json:"geminiApiKey"`
}

type legacyFoodItem struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Portion  string     `json:"portion"`
	Calories flexNumber `json:"calories"`
	Protein  flexNumber `json:"protein"`
	Carbs    flexNumber `json:"carbs"`
	Fat      flexNumber `json:"fat"`
}

type legacyMeal struct {
	ID     string           `json:"id"`
	Time   string           `json:"time"`
	Name   string           `json:"name"`
	Source string           `json:"source"`
	Items  []legacyFoodItem `json:"items"`
}

type legacyBlob struct {
	Logs                map[string]legacySetLog `json:"logs"`
	History             map[string]flexNumber   `json:"history"`
	Mode                string                  `json:"mode"`
	ViewState           *legacyViewState        `json:"viewState"`
	CustomExerciseNames map[string]string       `json:"customExerciseNames"`
	WeightIncrement     flexNumber              `json:"weightIncrement"`
	ActiveTab           string                  `json:"activeTab"`
	NutritionProfile    *legacyProfile          `json:"nutritionProfile"`
	NutritionLogs       map[string]struct {
		Meals []legacyMeal `json:"meals"`
	} `json:"nutritionLogs"`
}

// decodeLegacy converts the unversioned browser blob. Set logs with keys
// that do not parse are dropped; malformed numbers become empty.
func decodeLegacy(data []byte) (models.State, error) {
	var blob legacyBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return models.State{}, fmt.Errorf("decoding legacy state: %w", err)
	}

	s := models.DefaultState()

	for k, l := range blob.Logs {
		key, err := models.ParseSetKey(k)
		if err != nil {
			continue
		}
		s.Logs[key] = l.toSetLog()
	}
	for id, w := range blob.History {
		if w.Valid {
			s.History[id] = w.Value
		}
	}
	if m := models.TrainingMode(blob.Mode); m.Valid() {
		s.Mode = m
	}
	if v := blob.ViewState; v != nil {
		if v.CurrentWeek.Valid {
			s.View.CurrentWeek = int(v.CurrentWeek.Value)
		}
		if v.CurrentDay.Valid {
			s.View.CurrentDay = int(v.CurrentDay.Value)
		}
		if v.ShowStats != nil {
			s.View.ShowStats = *v.ShowStats
		}
	}
	if blob.ActiveTab != "" {
		s.View.ActiveTab = models.Tab(blob.ActiveTab)
	}
	for id, name := range blob.CustomExerciseNames {
		if name = strings.TrimSpace(name); name != "" {
			s.CustomExerciseNames[id] = name
		}
	}
	if blob.WeightIncrement.Valid {
		s.WeightIncrement = blob.WeightIncrement.Value
	}
	if p := blob.NutritionProfile; p != nil {
		prof := p.toProfile()
		s.NutritionProfile = &prof
	}
	for date, day := range blob.NutritionLogs {
		var out models.DayLog
		for _, m := range day.Meals {
			out.Meals = append(out.Meals, m.toMeal())
		}
		s.NutritionLogs[date] = out
	}

	s.Normalize()
	return s, nil
}

func (l legacySetLog) toSetLog() models.SetLog {
	var out models.SetLog
	if l.Weight.Valid {
		w := l.Weight.Value
		out.Weight = &w
	}
	if l.Reps.Valid {
		r := int(l.Reps.Value)
		out.Reps = &r
	}
	out.Done = l.Done
	if l.Done {
		at := time.Unix(0, 0).UTC()
		if l.CompletedAt.Valid {
			at = time.UnixMilli(int64(l.CompletedAt.Value)).UTC()
		}
		out.CompletedAt = &at
	}
	return out
}

func (p legacyProfile) toProfile() models.Profile {
	def := models.DefaultProfile()
	out := models.Profile{
		Gender:       models.Gender(p.Gender),
		Goal:         models.Goal(p.Goal),
		GeminiAPIKey: p.GeminiAPIKey,
	}
	if out.Gender != models.Female {
		out.Gender = def.Gender
	}
	out.Age = int(pick(p.Age, float64(def.Age)))
	out.Height = pick(p.Height, def.Height)
	out.Weight = pick(p.Weight, def.Weight)
	out.ActivityLevel = pick(p.ActivityLevel, def.ActivityLevel)
	out.TDEE = int(pick(p.TDEE, 0))
	out.TargetCalories = int(pick(p.TargetCalories, 0))
	out.TargetProtein = int(pick(p.TargetProtein, 0))
	out.TargetFat = int(pick(p.TargetFat, 0))
	out.TargetCarbs = int(pick(p.TargetCarbs, 0))
	return out
}

func (m legacyMeal) toMeal() models.Meal {
	out := models.Meal{
		ID:     m.ID,
		Time:   m.Time,
		Name:   m.Name,
		Source: models.SourceManual,
	}
	if m.Source == string(models.SourceAI) {
		out.Source = models.SourceAI
	}
	for _, it := range m.Items {
		out.Items = append(out.Items, models.FoodItem{
			ID:       it.ID,
			Name:     it.Name,
			Portion:  it.Portion,
			Calories: pick(it.Calories, 0),
			Protein:  pick(it.Protein, 0),
			Carbs:    pick(it.Carbs, 0),
			Fat:      pick(it.Fat, 0),
		})
	}
	return out
}

func pick(n flexNumber, def float64) float64 {
	if n.Valid {
		return n.Value
	}
	return def
}
