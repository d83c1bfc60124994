package mcp

import (
	"context"
	"log/slog"

	"github.com/claude/rpfocus/internal/models"
	"github.com/claude/rpfocus/internal/program"
	"github.com/claude/rpfocus/internal/storage"
	"github.com/claude/rpfocus/internal/tracking"
)

// DataSource abstracts the data layer for MCP tools. Both Local (direct
// store access) and HTTPClient (remote via REST API) satisfy this interface.
// An empty mode means the mode stored in the user's state.
type DataSource interface {
	WeekPlan(ctx context.Context, week int, mode models.TrainingMode) (*program.WeekPlan, error)
	DayPlan(ctx context.Context, week, day int, mode models.TrainingMode) (*program.DayPlan, error)
	WeeklyVolume(ctx context.Context, week int, mode models.TrainingMode) ([]program.MuscleVolume, error)
	Guidance(ctx context.Context, week int) (*program.Guidance, error)
	ExerciseHistory(ctx context.Context) (map[string]float64, error)
	CurrentDay(ctx context.Context) (*tracking.DayView, error)
	// NutritionProfile returns nil without error when no profile is set.
	NutritionProfile(ctx context.Context) (*models.Profile, error)
	// NutritionDay accepts a YYYY-MM-DD date or "today".
	NutritionDay(ctx context.Context, date string) (*tracking.NutritionDay, error)
}

// Local reads straight from the state store. Every call reloads the state
// so a running web server's writes are visible.
type Local struct {
	store storage.Store
	log   *slog.Logger
}

// Compile-time check: Local satisfies DataSource.
var _ DataSource = (*Local)(nil)

// NewLocal returns a DataSource over store.
func NewLocal(store storage.Store, log *slog.Logger) *Local {
	return &Local{store: store, log: log}
}

func (l *Local) session(ctx context.Context) *tracking.Session {
	return tracking.Open(ctx, l.store, l.log, tracking.Options{})
}

func (l *Local) mode(ctx context.Context, mode models.TrainingMode) models.TrainingMode {
	if mode != "" {
		return mode
	}
	return l.session(ctx).Mode()
}

func (l *Local) WeekPlan(ctx context.Context, week int, mode models.TrainingMode) (*program.WeekPlan, error) {
	p, err := program.PlanWeek(week, l.mode(ctx, mode))
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (l *Local) DayPlan(ctx context.Context, week, day int, mode models.TrainingMode) (*program.DayPlan, error) {
	p, err := program.PlanDay(week, day, l.mode(ctx, mode))
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (l *Local) WeeklyVolume(ctx context.Context, week int, mode models.TrainingMode) ([]program.MuscleVolume, error) {
	return program.WeeklyVolume(week, l.mode(ctx, mode))
}

func (l *Local) Guidance(_ context.Context, week int) (*program.Guidance, error) {
	g, err := program.GuidanceFor(week)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (l *Local) ExerciseHistory(ctx context.Context) (map[string]float64, error) {
	return l.session(ctx).History(), nil
}

func (l *Local) CurrentDay(ctx context.Context) (*tracking.DayView, error) {
	dv, err := l.session(ctx).CurrentDay()
	if err != nil {
		return nil, err
	}
	return &dv, nil
}

func (l *Local) NutritionProfile(ctx context.Context) (*models.Profile, error) {
	p := l.session(ctx).Profile()
	if p != nil {
		p.GeminiAPIKey = ""
	}
	return p, nil
}

func (l *Local) NutritionDay(ctx context.Context, date string) (*tracking.NutritionDay, error) {
	s := l.session(ctx)
	if date == "" || date == "today" {
		date = s.Today()
	}
	d, err := s.NutritionDay(date)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
