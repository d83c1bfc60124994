// Package program computes the periodized training plan: which workout falls
// on a given week and day, how many sets each exercise gets, and the weekly
// per-muscle volume that results.
package program

import (
	"errors"
	"fmt"

	"github.com/claude/rpfocus/internal/models"
)

const (
	// Weeks is the length of the program: two 4-week meso-cycles each
	// followed by a deload week.
	Weeks = 10
	// DaysPerWeek is the number of training slots per week.
	DaysPerWeek = 4
)

var (
	ErrWeekOutOfRange = errors.New("week out of range")
	ErrDayOutOfRange  = errors.New("day out of range")
	ErrUnknownMode    = errors.New("unknown training mode")
)

// ValidateWeek returns ErrWeekOutOfRange unless 1 <= week <= Weeks.
func ValidateWeek(week int) error {
	if week < 1 || week > Weeks {
		return fmt.Errorf("%w: %d (want 1-%d)", ErrWeekOutOfRange, week, Weeks)
	}
	return nil
}

// ValidateDay returns ErrDayOutOfRange unless 0 <= day < DaysPerWeek.
func ValidateDay(day int) error {
	if day < 0 || day >= DaysPerWeek {
		return fmt.Errorf("%w: %d (want 0-%d)", ErrDayOutOfRange, day, DaysPerWeek-1)
	}
	return nil
}

// ValidateMode returns ErrUnknownMode for anything but maintenance or bulking.
func ValidateMode(mode models.TrainingMode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	return nil
}

// WorkoutIndex returns the rotation position for (week, day). Four slots a
// week over five workouts means each week starts four positions after the
// previous one.
func WorkoutIndex(week, day int) int {
	n := len(models.WorkoutKeys)
	offset := ((week - 1) * DaysPerWeek) % n
	idx := (offset + day) % n
	if idx < 0 {
		idx += n
	}
	return idx
}

// WorkoutKeyFor returns the workout scheduled for (week, day) without
// validating the range.
func WorkoutKeyFor(week, day int) models.WorkoutKey {
	return models.WorkoutKeys[WorkoutIndex(week, day)]
}

// WorkoutFor returns the catalog workout scheduled for (week, day).
func WorkoutFor(week, day int) (models.Workout, error) {
	if err := ValidateWeek(week); err != nil {
		return models.Workout{}, err
	}
	if err := ValidateDay(day); err != nil {
		return models.Workout{}, err
	}
	key := WorkoutKeyFor(week, day)
	w, ok := models.LookupWorkout(key)
	if !ok {
		return models.Workout{}, fmt.Errorf("workout %s missing from catalog", key)
	}
	return w, nil
}
