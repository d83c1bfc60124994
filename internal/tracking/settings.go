package tracking

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/claude/rpfocus/internal/models"
	"github.com/claude/rpfocus/internal/program"
	"github.com/claude/rpfocus/internal/storage"
)

// View returns the current view cursor.
func (s *Session) View() models.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.View
}

// Mode returns the current training mode.
func (s *Session) Mode() models.TrainingMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Mode
}

// WeightIncrement returns the step used by AdjustWeight.
func (s *Session) WeightIncrement() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.WeightIncrement
}

// SelectWeek moves the view to week.
func (s *Session) SelectWeek(ctx context.Context, week int) error {
	if err := program.ValidateWeek(week); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.View.CurrentWeek = week
	return s.persist(ctx)
}

// SelectDay moves the view to day.
func (s *Session) SelectDay(ctx context.Context, day int) error {
	if err := program.ValidateDay(day); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.View.CurrentDay = day
	return s.persist(ctx)
}

// SetMode switches the training mode.
func (s *Session) SetMode(ctx context.Context, mode models.TrainingMode) error {
	if err := program.ValidateMode(mode); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Mode = mode
	return s.persist(ctx)
}

// SetShowStats toggles the weekly volume panel.
func (s *Session) SetShowStats(ctx context.Context, show bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.View.ShowStats = show
	return s.persist(ctx)
}

// SetActiveTab switches between training and nutrition.
func (s *Session) SetActiveTab(ctx context.Context, tab models.Tab) error {
	if tab != models.TabTraining && tab != models.TabNutrition {
		return fmt.Errorf("unknown tab %q", tab)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.View.ActiveTab = tab
	return s.persist(ctx)
}

// SetWeightIncrement sets the adjust step, clamped to the minimum, and
// returns the value stored.
func (s *Session) SetWeightIncrement(ctx context.Context, inc float64) (float64, error) {
	if math.IsNaN(inc) || math.IsInf(inc, 0) || inc < models.MinWeightIncrement {
		inc = models.MinWeightIncrement
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.WeightIncrement = inc
	return inc, s.persist(ctx)
}

// WeightIncrementPresets are the quick-pick steps offered in settings.
var WeightIncrementPresets = []float64{1, 1.25, 2, 2.5, 5}

// RenameExercise sets a display name override. A blank name removes it.
func (s *Session) RenameExercise(ctx context.Context, exerciseID, name string) error {
	if _, _, ok := models.LookupExercise(exerciseID); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownExercise, exerciseID)
	}
	name = strings.TrimSpace(name)

	s.mu.Lock()
	defer s.mu.Unlock()
	if name == "" {
		delete(s.state.CustomExerciseNames, exerciseID)
	} else {
		s.state.CustomExerciseNames[exerciseID] = name
	}
	return s.persist(ctx)
}

// ExerciseName returns the override for the exercise or its catalog name.
func (s *Session) ExerciseName(exerciseID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exerciseNameLocked(exerciseID)
}

func (s *Session) exerciseNameLocked(exerciseID string) string {
	if n, ok := s.state.CustomExerciseNames[exerciseID]; ok {
		return n
	}
	if ex, _, ok := models.LookupExercise(exerciseID); ok {
		return ex.Name
	}
	return exerciseID
}

// Reset clears set logs, exercise history and nutrition data and returns
// the view to week 1, day 0. Mode, custom names and the weight increment
// are kept. When the store supports it, the previous state is backed up.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.store.(storage.Backuper); ok {
		if err := b.Backup(ctx, "reset", s.state); err != nil {
			s.log.Warn("backup before reset failed", "error", err)
		}
	}

	for _, job := range s.analyses {
		if job.status == AnalysisPending {
			job.status = AnalysisAbandoned
			job.cancel()
		}
	}

	s.state.Logs = map[models.SetKey]models.SetLog{}
	s.state.History = map[string]float64{}
	s.state.View.CurrentWeek = 1
	s.state.View.CurrentDay = 0
	s.state.NutritionProfile = nil
	s.state.NutritionLogs = map[string]models.DayLog{}
	s.log.Info("state reset")
	return s.persist(ctx)
}
