package models

// MuscleGroup identifies the muscle an exercise primarily trains.
type MuscleGroup string

const (
	Chest     MuscleGroup = "CHEST"
	Back      MuscleGroup = "BACK"
	Shoulders MuscleGroup = "SHOULDERS"
	SideDelt  MuscleGroup = "SIDE_DELT"
	RearDelt  MuscleGroup = "REAR_DELT"
	Triceps   MuscleGroup = "TRICEPS"
	Biceps    MuscleGroup = "BICEPS"
	Quads     MuscleGroup = "QUADS"
	Hams      MuscleGroup = "HAMS"
	Calves    MuscleGroup = "CALVES"
)

// AllMuscleGroups lists every muscle group in declaration order.
// Volume reports are ordered by this slice.
var AllMuscleGroups = []MuscleGroup{
	Chest, Back, Shoulders, SideDelt, RearDelt,
	Triceps, Biceps, Quads, Hams, Calves,
}

var muscleLabels = map[MuscleGroup]string{
	Chest:     "Chest",
	Back:      "Back",
	Shoulders: "Front Delts",
	SideDelt:  "Side Delts",
	RearDelt:  "Rear Delts",
	Triceps:   "Triceps",
	Biceps:    "Biceps",
	Quads:     "Quads",
	Hams:      "Hamstrings",
	Calves:    "Calves",
}

// Label returns the display name of the muscle group.
func (m MuscleGroup) Label() string {
	if l, ok := muscleLabels[m]; ok {
		return l
	}
	return string(m)
}

// Valid reports whether m is a known muscle group.
func (m MuscleGroup) Valid() bool {
	_, ok := muscleLabels[m]
	return ok
}
