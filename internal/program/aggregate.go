package program

import "github.com/claude/rpfocus/internal/models"

// VolumeZone classifies weekly sets for a muscle group.
type VolumeZone string

const (
	ZoneNone       VolumeZone = "none"
	ZoneLow        VolumeZone = "low"
	ZoneProductive VolumeZone = "productive"
	ZoneHigh       VolumeZone = "high"
)

// Zone thresholds in weekly sets.
const (
	productiveSets = 12
	highSets       = 18
	fillReference  = 24
)

// ZoneFor returns the volume zone for a weekly set count.
func ZoneFor(sets int) VolumeZone {
	switch {
	case sets <= 0:
		return ZoneNone
	case sets < productiveSets:
		return ZoneLow
	case sets < highSets:
		return ZoneProductive
	default:
		return ZoneHigh
	}
}

// MuscleVolume is the weekly set total for one muscle group.
type MuscleVolume struct {
	Muscle models.MuscleGroup `json:"muscle"`
	Label  string             `json:"label"`
	Sets   int                `json:"sets"`
	Zone   VolumeZone         `json:"zone"`
	Fill   float64            `json:"fill"`
}

// WeeklyVolume totals prescribed sets per muscle group across the four
// training days of week. Every muscle group is present, in declaration order.
func WeeklyVolume(week int, mode models.TrainingMode) ([]MuscleVolume, error) {
	if err := ValidateWeek(week); err != nil {
		return nil, err
	}
	if err := ValidateMode(mode); err != nil {
		return nil, err
	}

	totals := make(map[models.MuscleGroup]int, len(models.AllMuscleGroups))
	for day := range DaysPerWeek {
		w, err := WorkoutFor(week, day)
		if err != nil {
			return nil, err
		}
		for _, ex := range w.Exercises {
			sets, err := PrescribedSets(week, ex, mode)
			if err != nil {
				return nil, err
			}
			totals[ex.Muscle] += sets
		}
	}

	out := make([]MuscleVolume, 0, len(models.AllMuscleGroups))
	for _, m := range models.AllMuscleGroups {
		sets := totals[m]
		out = append(out, MuscleVolume{
			Muscle: m,
			Label:  m.Label(),
			Sets:   sets,
			Zone:   ZoneFor(sets),
			Fill:   min(1, float64(sets)/fillReference),
		})
	}
	return out, nil
}
