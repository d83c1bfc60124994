package tracking

import (
	"time"

	"github.com/claude/rpfocus/internal/models"
	"github.com/claude/rpfocus/internal/program"
)

// SetView is one prescribed set merged with its log and rest timer.
type SetView struct {
	Key         string     `json:"key"`
	Index       int        `json:"index"`
	Weight      *float64   `json:"weight"`
	Reps        *int       `json:"reps"`
	Done        bool       `json:"done"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Rest        *Rest      `json:"rest,omitempty"`
}

// ExerciseView is one exercise of the displayed day.
type ExerciseView struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	CatalogName       string             `json:"catalog_name"`
	Muscle            models.MuscleGroup `json:"muscle"`
	Sets              int                `json:"sets"`
	DoneSets          int                `json:"done_sets"`
	Completed         bool               `json:"completed"`
	WeightPlaceholder *float64           `json:"weight_placeholder,omitempty"`
	InterExerciseRest *Rest              `json:"inter_exercise_rest,omitempty"`
	SetLogs           []SetView          `json:"set_logs"`
}

// DayView is the full display model for one training day.
type DayView struct {
	Week      int                    `json:"week"`
	Day       int                    `json:"day"`
	Mode      models.TrainingMode    `json:"mode"`
	Workout   models.WorkoutKey      `json:"workout"`
	Name      string                 `json:"name"`
	Subtitle  string                 `json:"subtitle"`
	Deload    bool                   `json:"deload"`
	Guidance  program.Guidance       `json:"guidance"`
	Exercises []ExerciseView         `json:"exercises"`
	TotalSets int                    `json:"total_sets"`
	DoneSets  int                    `json:"done_sets"`
	Volume    []program.MuscleVolume `json:"volume,omitempty"`
}

// volumeCache memoises the weekly volume report for one (week, mode).
type volumeCache struct {
	week  int
	mode  models.TrainingMode
	vol   []program.MuscleVolume
	valid bool
}

func (c *volumeCache) get(week int, mode models.TrainingMode) ([]program.MuscleVolume, error) {
	if c.valid && c.week == week && c.mode == mode {
		return c.vol, nil
	}
	vol, err := program.WeeklyVolume(week, mode)
	if err != nil {
		return nil, err
	}
	*c = volumeCache{week: week, mode: mode, vol: vol, valid: true}
	return vol, nil
}

// WeeklyVolume returns the volume report for week in the current mode.
func (s *Session) WeeklyVolume(week int) ([]program.MuscleVolume, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	vol, err := s.volume.get(week, s.state.Mode)
	if err != nil {
		return nil, err
	}
	return append([]program.MuscleVolume(nil), vol...), nil
}

// CurrentDay builds the view for the selected week and day.
func (s *Session) CurrentDay() (DayView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dayLocked(s.state.View.CurrentWeek, s.state.View.CurrentDay, s.state.View.ShowStats)
}

// Day builds the view for any (week, day). Volume is included when the
// stats panel is enabled.
func (s *Session) Day(week, day int) (DayView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dayLocked(week, day, s.state.View.ShowStats)
}

func (s *Session) dayLocked(week, day int, withVolume bool) (DayView, error) {
	plan, err := program.PlanDay(week, day, s.state.Mode)
	if err != nil {
		return DayView{}, err
	}
	g, err := program.GuidanceFor(week)
	if err != nil {
		return DayView{}, err
	}
	now := s.now()

	v := DayView{
		Week:      week,
		Day:       day,
		Mode:      s.state.Mode,
		Workout:   plan.Workout,
		Name:      plan.Name,
		Subtitle:  plan.Subtitle,
		Deload:    plan.Deload,
		Guidance:  g,
		TotalSets: plan.TotalSets(),
		Exercises: make([]ExerciseView, 0, len(plan.Exercises)),
	}

	var prevLast *models.SetLog
	for _, pe := range plan.Exercises {
		ev := ExerciseView{
			ID:          pe.ID,
			Name:        s.exerciseNameLocked(pe.ID),
			CatalogName: pe.Name,
			Muscle:      pe.Muscle,
			Sets:        pe.Sets,
			SetLogs:     make([]SetView, 0, pe.Sets),
		}
		if h, ok := s.state.History[pe.ID]; ok {
			ev.WeightPlaceholder = &h
		}

		var prev models.SetLog
		for i := range pe.Sets {
			key := models.SetKey{Week: week, Day: day, ExerciseID: pe.ID, Set: i}
			log := s.state.Logs[key]
			sv := SetView{
				Key:         key.String(),
				Index:       i,
				Weight:      log.Weight,
				Reps:        log.Reps,
				Done:        log.Done,
				CompletedAt: log.CompletedAt,
			}
			if i > 0 {
				sv.Rest = restFor(prev, log, now)
			} else if prevLast != nil {
				ev.InterExerciseRest = restFor(*prevLast, log, now)
			}
			if log.Done {
				ev.DoneSets++
			}
			ev.SetLogs = append(ev.SetLogs, sv)
			prev = log
		}
		ev.Completed = pe.Sets > 0 && ev.DoneSets == pe.Sets
		v.DoneSets += ev.DoneSets
		v.Exercises = append(v.Exercises, ev)

		if pe.Sets > 0 {
			last := prev
			prevLast = &last
		}
	}

	if withVolume {
		vol, err := s.volume.get(week, s.state.Mode)
		if err != nil {
			return DayView{}, err
		}
		v.Volume = append([]program.MuscleVolume(nil), vol...)
	}
	return v, nil
}

// Tick is the periodic timer snapshot pushed to live clients.
type Tick struct {
	Time      time.Time       `json:"time"`
	Stopwatch StopwatchStatus `json:"stopwatch"`
	Week      int             `json:"week"`
	Day       int             `json:"day"`
	// LiveRest is the running rest of the selected day, if any.
	LiveRest *Rest `json:"live_rest,omitempty"`
	// LiveRestKey names the pending set the rest leads into.
	LiveRestKey string `json:"live_rest_key,omitempty"`
}

// Tick derives the current timers for the selected day.
func (s *Session) Tick() Tick {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	t := Tick{
		Time:      now,
		Stopwatch: s.stopwatch.status(now),
		Week:      s.state.View.CurrentWeek,
		Day:       s.state.View.CurrentDay,
	}
	dv, err := s.dayLocked(t.Week, t.Day, false)
	if err != nil {
		return t
	}
	for _, ev := range dv.Exercises {
		if r := ev.InterExerciseRest; r != nil && r.Live && len(ev.SetLogs) > 0 {
			t.LiveRest, t.LiveRestKey = r, ev.SetLogs[0].Key
		}
		for _, sv := range ev.SetLogs {
			if sv.Rest != nil && sv.Rest.Live {
				t.LiveRest, t.LiveRestKey = sv.Rest, sv.Key
			}
		}
	}
	return t
}
