package models

// Exercise is a static catalog entry. BaseSets is the week-1 prescription
// before any progression is applied.
type Exercise struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Muscle   MuscleGroup `json:"muscle"`
	BaseSets int         `json:"base_sets"`
	IsUpper  bool        `json:"is_upper"`
}

// WorkoutKey names one of the five rotating workouts.
type WorkoutKey string

const (
	WorkoutA WorkoutKey = "A"
	WorkoutB WorkoutKey = "B"
	WorkoutC WorkoutKey = "C"
	WorkoutD WorkoutKey = "D"
	WorkoutE WorkoutKey = "E"
)

// WorkoutKeys is the rotation order.
var WorkoutKeys = []WorkoutKey{WorkoutA, WorkoutB, WorkoutC, WorkoutD, WorkoutE}

// WorkoutKind is the movement pattern a workout belongs to.
type WorkoutKind string

const (
	KindPush WorkoutKind = "push"
	KindPull WorkoutKind = "pull"
	KindLegs WorkoutKind = "legs"
)

// Workout is a named, ordered list of exercises.
type Workout struct {
	Key       WorkoutKey  `json:"key"`
	Name      string      `json:"name"`
	Subtitle  string      `json:"subtitle"`
	Kind      WorkoutKind `json:"kind"`
	Exercises []Exercise  `json:"exercises"`
}

var catalog = []Workout{
	{
		Key: WorkoutA, Name: "PUSH A", Subtitle: "Chest focus + triceps", Kind: KindPush,
		Exercises: []Exercise{
			{ID: "bp_flat", Name: "Flat Barbell Bench Press", Muscle: Chest, BaseSets: 4, IsUpper: true},
			{ID: "bp_incline", Name: "Incline Dumbbell Press", Muscle: Chest, BaseSets: 3, IsUpper: true},
			{ID: "fly_cable", Name: "Cable Fly", Muscle: Chest, BaseSets: 3, IsUpper: true},
			{ID: "tri_pushdown", Name: "Triceps Rope Pushdown", Muscle: Triceps, BaseSets: 3, IsUpper: true},
			{ID: "tri_overhead", Name: "Overhead Triceps Extension", Muscle: Triceps, BaseSets: 2, IsUpper: true},
		},
	},
	{
		Key: WorkoutB, Name: "PULL A", Subtitle: "Back thickness + biceps", Kind: KindPull,
		Exercises: []Exercise{
			{ID: "bb_row", Name: "Barbell Row", Muscle: Back, BaseSets: 4, IsUpper: true},
			{ID: "pulldown", Name: "Lat Pulldown", Muscle: Back, BaseSets: 3, IsUpper: true},
			{ID: "db_row", Name: "One-Arm Dumbbell Row", Muscle: Back, BaseSets: 3, IsUpper: true},
			{ID: "bi_curl", Name: "Barbell Curl", Muscle: Biceps, BaseSets: 3, IsUpper: true},
			{ID: "bi_hammer", Name: "Hammer Curl", Muscle: Biceps, BaseSets: 2, IsUpper: true},
		},
	},
	{
		Key: WorkoutC, Name: "PUSH B", Subtitle: "Shoulders + upper chest", Kind: KindPush,
		Exercises: []Exercise{
			{ID: "ohp", Name: "Standing Overhead Press", Muscle: Shoulders, BaseSets: 4, IsUpper: true},
			{ID: "lateral_raise", Name: "Dumbbell Lateral Raise", Muscle: SideDelt, BaseSets: 4, IsUpper: true},
			{ID: "bp_incline_bb", Name: "Incline Barbell Press", Muscle: Chest, BaseSets: 3, IsUpper: true},
			{ID: "tri_dips", Name: "Dips", Muscle: Triceps, BaseSets: 3, IsUpper: true},
		},
	},
	{
		Key: WorkoutD, Name: "PULL B", Subtitle: "Back detail + rear delts", Kind: KindPull,
		Exercises: []Exercise{
			{ID: "pullup", Name: "Pull-Up", Muscle: Back, BaseSets: 3, IsUpper: true},
			{ID: "cable_row", Name: "Seated Cable Row", Muscle: Back, BaseSets: 3, IsUpper: true},
			{ID: "face_pull", Name: "Face Pull", Muscle: RearDelt, BaseSets: 3, IsUpper: true},
			{ID: "rear_fly", Name: "Reverse Pec Deck", Muscle: RearDelt, BaseSets: 3, IsUpper: true},
			{ID: "bi_cable", Name: "Cable Curl", Muscle: Biceps, BaseSets: 2, IsUpper: true},
		},
	},
	{
		Key: WorkoutE, Name: "LEGS", Subtitle: "Lower body maintenance", Kind: KindLegs,
		Exercises: []Exercise{
			{ID: "sq_low_bar", Name: "Low-Bar Back Squat", Muscle: Quads, BaseSets: 3, IsUpper: false},
			{ID: "rdl", Name: "Romanian Deadlift", Muscle: Hams, BaseSets: 3, IsUpper: false},
			{ID: "leg_press", Name: "Leg Press", Muscle: Quads, BaseSets: 2, IsUpper: false},
			{ID: "calf_raise", Name: "Standing Calf Raise", Muscle: Calves, BaseSets: 3, IsUpper: false},
		},
	},
}

var exerciseIndex = buildExerciseIndex()

type exerciseRef struct {
	workout  WorkoutKey
	position int
}

func buildExerciseIndex() map[string]exerciseRef {
	idx := make(map[string]exerciseRef)
	for _, w := range catalog {
		for i, ex := range w.Exercises {
			idx[ex.ID] = exerciseRef{workout: w.Key, position: i}
		}
	}
	return idx
}

// Workouts returns a copy of the full catalog in rotation order.
func Workouts() []Workout {
	out := make([]Workout, len(catalog))
	for i, w := range catalog {
		out[i] = copyWorkout(w)
	}
	return out
}

// LookupWorkout returns the workout for key.
func LookupWorkout(key WorkoutKey) (Workout, bool) {
	for _, w := range catalog {
		if w.Key == key {
			return copyWorkout(w), true
		}
	}
	return Workout{}, false
}

// LookupExercise returns the exercise with the given id and the workout it belongs to.
func LookupExercise(id string) (Exercise, WorkoutKey, bool) {
	ref, ok := exerciseIndex[id]
	if !ok {
		return Exercise{}, "", false
	}
	for _, w := range catalog {
		if w.Key == ref.workout {
			return w.Exercises[ref.position], w.Key, true
		}
	}
	return Exercise{}, "", false
}

func copyWorkout(w Workout) Workout {
	w.Exercises = append([]Exercise(nil), w.Exercises...)
	return w
}
