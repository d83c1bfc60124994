package models

import (
	"maps"
	"time"
)

// StateVersion is the version tag written with every persisted state blob.
const StateVersion = 1

// TrainingMode selects the progression rules of the volume calculator.
type TrainingMode string

const (
	ModeMaintenance TrainingMode = "maintenance"
	ModeBulking     TrainingMode = "bulking"
)

// Valid reports whether m is a known training mode.
func (m TrainingMode) Valid() bool {
	return m == ModeMaintenance || m == ModeBulking
}

// Tab is the top-level view shown to the user.
type Tab string

const (
	TabTraining  Tab = "training"
	TabNutrition Tab = "nutrition"
)

// SetLog records what was entered for one set. CompletedAt is non-nil
// exactly when Done is true.
type SetLog struct {
	Weight      *float64   `json:"weight,omitempty"`
	Reps        *int       `json:"reps,omitempty"`
	Done        bool       `json:"done"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// ViewState is the UI cursor that survives restarts.
type ViewState struct {
	CurrentWeek int  `json:"current_week"`
	CurrentDay  int  `json:"current_day"`
	ShowStats   bool `json:"show_stats"`
	ActiveTab   Tab  `json:"active_tab"`
}

// State is everything persisted between sessions.
type State struct {
	Version             int                `json:"version"`
	Logs                map[SetKey]SetLog  `json:"logs"`
	History             map[string]float64 `json:"history"`
	Mode                TrainingMode       `json:"mode"`
	View                ViewState          `json:"view"`
	CustomExerciseNames map[string]string  `json:"custom_exercise_names,omitempty"`
	WeightIncrement     float64            `json:"weight_increment"`
	NutritionProfile    *Profile           `json:"nutrition_profile,omitempty"`
	NutritionLogs       map[string]DayLog  `json:"nutrition_logs,omitempty"`
}

// DefaultWeightIncrement is the step used by weight adjust buttons on a fresh install.
const DefaultWeightIncrement = 2

// MinWeightIncrement is the smallest accepted weight step.
const MinWeightIncrement = 0.25

// DefaultState returns the state of a fresh install.
func DefaultState() State {
	return State{
		Version: StateVersion,
		Logs:    map[SetKey]SetLog{},
		History: map[string]float64{},
		Mode:    ModeMaintenance,
		View: ViewState{
			CurrentWeek: 1,
			CurrentDay:  0,
			ShowStats:   true,
			ActiveTab:   TabTraining,
		},
		CustomExerciseNames: map[string]string{},
		WeightIncrement:     DefaultWeightIncrement,
		NutritionLogs:       map[string]DayLog{},
	}
}

// Normalize fills zero-valued fields with defaults so a partially populated
// blob behaves like a fresh install for every missing field.
func (s *State) Normalize() {
	def := DefaultState()
	s.Version = StateVersion
	if s.Logs == nil {
		s.Logs = def.Logs
	}
	if s.History == nil {
		s.History = def.History
	}
	if !s.Mode.Valid() {
		s.Mode = def.Mode
	}
	if s.View.CurrentWeek < 1 || s.View.CurrentWeek > 10 {
		s.View.CurrentWeek = def.View.CurrentWeek
	}
	if s.View.CurrentDay < 0 || s.View.CurrentDay > 3 {
		s.View.CurrentDay = def.View.CurrentDay
	}
	if s.View.ActiveTab != TabTraining && s.View.ActiveTab != TabNutrition {
		s.View.ActiveTab = def.View.ActiveTab
	}
	if s.CustomExerciseNames == nil {
		s.CustomExerciseNames = def.CustomExerciseNames
	}
	if s.WeightIncrement <= 0 {
		s.WeightIncrement = def.WeightIncrement
	} else if s.WeightIncrement < MinWeightIncrement {
		s.WeightIncrement = MinWeightIncrement
	}
	if s.NutritionLogs == nil {
		s.NutritionLogs = def.NutritionLogs
	}
	// A set carries a completion time exactly when it is done.
	for k, l := range s.Logs {
		switch {
		case l.Done && l.CompletedAt == nil:
			at := time.Unix(0, 0).UTC()
			l.CompletedAt = &at
		case !l.Done && l.CompletedAt != nil:
			l.CompletedAt = nil
		default:
			continue
		}
		s.Logs[k] = l
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := s
	out.Logs = make(map[SetKey]SetLog, len(s.Logs))
	for k, v := range s.Logs {
		out.Logs[k] = v.clone()
	}
	out.History = maps.Clone(s.History)
	out.CustomExerciseNames = maps.Clone(s.CustomExerciseNames)
	if s.NutritionProfile != nil {
		p := *s.NutritionProfile
		out.NutritionProfile = &p
	}
	out.NutritionLogs = make(map[string]DayLog, len(s.NutritionLogs))
	for date, day := range s.NutritionLogs {
		out.NutritionLogs[date] = day.Clone()
	}
	return out
}

func (l SetLog) clone() SetLog {
	if l.Weight != nil {
		w := *l.Weight
		l.Weight = &w
	}
	if l.Reps != nil {
		r := *l.Reps
		l.Reps = &r
	}
	if l.CompletedAt != nil {
		t := *l.CompletedAt
		l.CompletedAt = &t
	}
	return l
}
