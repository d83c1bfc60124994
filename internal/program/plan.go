package program

import "github.com/claude/rpfocus/internal/models"

// PrescribedExercise is a catalog exercise with its set count for one week.
type PrescribedExercise struct {
	models.Exercise
	Sets int `json:"sets"`
}

// DayPlan is the workout and prescriptions for one training day.
type DayPlan struct {
	Week      int                  `json:"week"`
	Day       int                  `json:"day"`
	Workout   models.WorkoutKey    `json:"workout"`
	Name      string               `json:"name"`
	Subtitle  string               `json:"subtitle"`
	Kind      models.WorkoutKind   `json:"kind"`
	Deload    bool                 `json:"deload"`
	Exercises []PrescribedExercise `json:"exercises"`
}

// TotalSets sums the prescribed sets of the day.
func (p DayPlan) TotalSets() int {
	n := 0
	for _, ex := range p.Exercises {
		n += ex.Sets
	}
	return n
}

// WeekPlan bundles a week's days with its guidance and volume report.
type WeekPlan struct {
	Week     int                 `json:"week"`
	Mode     models.TrainingMode `json:"mode"`
	Guidance Guidance            `json:"guidance"`
	Days     []DayPlan           `json:"days"`
	Volume   []MuscleVolume      `json:"volume"`
}

// PlanDay builds the plan for a single (week, day).
func PlanDay(week, day int, mode models.TrainingMode) (DayPlan, error) {
	if err := ValidateMode(mode); err != nil {
		return DayPlan{}, err
	}
	w, err := WorkoutFor(week, day)
	if err != nil {
		return DayPlan{}, err
	}

	plan := DayPlan{
		Week:      week,
		Day:       day,
		Workout:   w.Key,
		Name:      w.Name,
		Subtitle:  w.Subtitle,
		Kind:      w.Kind,
		Deload:    IsDeload(week),
		Exercises: make([]PrescribedExercise, 0, len(w.Exercises)),
	}
	for _, ex := range w.Exercises {
		sets, err := PrescribedSets(week, ex, mode)
		if err != nil {
			return DayPlan{}, err
		}
		plan.Exercises = append(plan.Exercises, PrescribedExercise{Exercise: ex, Sets: sets})
	}
	return plan, nil
}

// PlanWeek builds all four days of week plus guidance and volume.
func PlanWeek(week int, mode models.TrainingMode) (WeekPlan, error) {
	g, err := GuidanceFor(week)
	if err != nil {
		return WeekPlan{}, err
	}
	vol, err := WeeklyVolume(week, mode)
	if err != nil {
		return WeekPlan{}, err
	}

	wp := WeekPlan{Week: week, Mode: mode, Guidance: g, Volume: vol}
	for day := range DaysPerWeek {
		dp, err := PlanDay(week, day, mode)
		if err != nil {
			return WeekPlan{}, err
		}
		wp.Days = append(wp.Days, dp)
	}
	return wp, nil
}
