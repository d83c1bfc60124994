package program

import "github.com/claude/rpfocus/internal/models"

// IsDeload reports whether week is a deload week.
func IsDeload(week int) bool {
	return week == 5 || week == 10
}

// MesoWeek returns the position of week inside its meso-cycle (1-4).
// Deload weeks map to 0 and 5 and are never used for progression.
func MesoWeek(week int) int {
	if week <= 4 {
		return week
	}
	return week - 5
}

// MesoCycle returns 1 for weeks 1-4, 2 for weeks 6-9 and 0 for deloads.
func MesoCycle(week int) int {
	switch {
	case IsDeload(week):
		return 0
	case week <= 4:
		return 1
	default:
		return 2
	}
}

// Ceiling returns the maximum sets per exercise for the muscle. Small
// muscles recover faster and tolerate more direct work.
func Ceiling(m models.MuscleGroup) int {
	switch m {
	case models.SideDelt, models.RearDelt, models.Calves:
		return 8
	default:
		return 6
	}
}

type progressionKey struct {
	mode  models.TrainingMode
	upper bool
}

// progression returns the uncapped set count for a non-deload week.
type progression func(week, mesoWeek, base int) int

var progressions = map[progressionKey]progression{
	{models.ModeMaintenance, true}: func(_, meso, base int) int {
		return base + (meso - 1)
	},
	{models.ModeMaintenance, false}: func(_, _, base int) int {
		return base
	},
	{models.ModeBulking, true}: func(week, meso, base int) int {
		bonus := 0
		if week > 5 {
			bonus = 1
		}
		return base + bonus + (meso - 1)
	},
	{models.ModeBulking, false}: func(week, _, base int) int {
		return base + (week-1)/4
	},
}

// DeloadSets halves the base prescription, keeping at least one set.
func DeloadSets(base int) int {
	return max(1, base/2)
}

// PrescribedSets returns the number of sets for ex in the given week and mode.
func PrescribedSets(week int, ex models.Exercise, mode models.TrainingMode) (int, error) {
	if err := ValidateWeek(week); err != nil {
		return 0, err
	}
	if err := ValidateMode(mode); err != nil {
		return 0, err
	}
	if IsDeload(week) {
		return DeloadSets(ex.BaseSets), nil
	}

	fn := progressions[progressionKey{mode: mode, upper: ex.IsUpper}]
	sets := fn(week, MesoWeek(week), ex.BaseSets)
	return max(1, min(sets, Ceiling(ex.Muscle))), nil
}
