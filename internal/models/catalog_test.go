package models

import "testing"

// TestCatalogShape verifies the five workouts exist in rotation order and
// only workout E is lower body.
func TestCatalogShape(t *testing.T) {
	ws := Workouts()
	if len(ws) != 5 {
		t.Fatalf("got %d workouts, want 5", len(ws))
	}
	for i, w := range ws {
		if w.Key != WorkoutKeys[i] {
			t.Errorf("workout %d key = %s, want %s", i, w.Key, WorkoutKeys[i])
		}
		for _, ex := range w.Exercises {
			wantUpper := w.Key != WorkoutE
			if ex.IsUpper != wantUpper {
				t.Errorf("%s.IsUpper = %v, want %v", ex.ID, ex.IsUpper, wantUpper)
			}
			if !ex.Muscle.Valid() {
				t.Errorf("%s has unknown muscle %q", ex.ID, ex.Muscle)
			}
			if ex.BaseSets < 1 {
				t.Errorf("%s.BaseSets = %d", ex.ID, ex.BaseSets)
			}
		}
	}
}

// TestWorkoutsReturnsCopy verifies callers cannot mutate the catalog.
func TestWorkoutsReturnsCopy(t *testing.T) {
	ws := Workouts()
	ws[0].Exercises[0].BaseSets = 99

	w, _ := LookupWorkout(WorkoutA)
	if w.Exercises[0].BaseSets != 4 {
		t.Errorf("catalog mutated: bp_flat base = %d", w.Exercises[0].BaseSets)
	}
}

// TestLookupExercise verifies exercises resolve to their owning workout.
func TestLookupExercise(t *testing.T) {
	cases := []struct {
		id      string
		workout WorkoutKey
		muscle  MuscleGroup
	}{
		{"bp_flat", WorkoutA, Chest},
		{"bi_hammer", WorkoutB, Biceps},
		{"lateral_raise", WorkoutC, SideDelt},
		{"face_pull", WorkoutD, RearDelt},
		{"calf_raise", WorkoutE, Calves},
	}
	for _, tc := range cases {
		ex, key, ok := LookupExercise(tc.id)
		if !ok {
			t.Errorf("LookupExercise(%q) not found", tc.id)
			continue
		}
		if key != tc.workout || ex.Muscle != tc.muscle {
			t.Errorf("LookupExercise(%q) = %s/%s, want %s/%s", tc.id, key, ex.Muscle, tc.workout, tc.muscle)
		}
	}

	if _, _, ok := LookupExercise("nope"); ok {
		t.Error("LookupExercise(nope) found, want miss")
	}
}

// TestNormalizeFillsDefaults verifies a sparse state gains default values
// while explicit settings are kept.
func TestNormalizeFillsDefaults(t *testing.T) {
	s := State{Mode: ModeBulking, View: ViewState{CurrentWeek: 14, CurrentDay: 2}, WeightIncrement: 0.1}
	s.Normalize()

	if s.Version != StateVersion {
		t.Errorf("version = %d, want %d", s.Version, StateVersion)
	}
	if s.Mode != ModeBulking {
		t.Errorf("mode = %s, want bulking", s.Mode)
	}
	if s.View.CurrentWeek != 1 {
		t.Errorf("week = %d, want 1", s.View.CurrentWeek)
	}
	if s.View.CurrentDay != 2 {
		t.Errorf("day = %d, want 2", s.View.CurrentDay)
	}
	if s.WeightIncrement != MinWeightIncrement {
		t.Errorf("increment = %v, want %v", s.WeightIncrement, MinWeightIncrement)
	}
	if s.Logs == nil || s.History == nil || s.NutritionLogs == nil {
		t.Error("maps not initialised")
	}
}

// TestCloneIsDeep verifies a clone shares no mutable state with its source.
func TestCloneIsDeep(t *testing.T) {
	s := DefaultState()
	w := 60.0
	key := SetKey{Week: 1, Day: 0, ExerciseID: "bp_flat", Set: 0}
	s.Logs[key] = SetLog{Weight: &w}
	s.History["bp_flat"] = 60
	s.NutritionLogs["2026-01-01"] = DayLog{Meals: []Meal{{ID: "m1", Items: []FoodItem{{Name: "egg"}}}}}

	c := s.Clone()
	*c.Logs[key].Weight = 80
	c.History["bp_flat"] = 80
	c.NutritionLogs["2026-01-01"].Meals[0].Items[0].Name = "rice"

	if *s.Logs[key].Weight != 60 {
		t.Errorf("weight shared with clone")
	}
	if s.History["bp_flat"] != 60 {
		t.Errorf("history shared with clone")
	}
	if s.NutritionLogs["2026-01-01"].Meals[0].Items[0].Name != "egg" {
		t.Errorf("meal items shared with clone")
	}
}
