// Package tracking owns the mutable training and nutrition state of the
// single user. A Session applies mutations, persists the whole state after
// each one and derives the timer and progress views from stored timestamps.
package tracking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/rpfocus/internal/models"
	"github.com/claude/rpfocus/internal/program"
	"github.com/claude/rpfocus/internal/storage"
)

// Options configures a Session.
type Options struct {
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
	// Analyzer runs food photo analysis. Nil disables it.
	Analyzer Analyzer
	// DefaultAPIKey is used when the nutrition profile carries no key.
	DefaultAPIKey string
	// AnalysisTimeout bounds a single analysis. Defaults to two minutes.
	AnalysisTimeout time.Duration
}

// Session is the single owner of the application state.
type Session struct {
	mu    sync.Mutex
	store storage.Store
	log   *slog.Logger
	now   func() time.Time

	state     models.State
	volume    volumeCache
	stopwatch Stopwatch

	analyzer        Analyzer
	defaultAPIKey   string
	analysisTimeout time.Duration
	analyses        map[string]*analysisJob
}

// Open loads the persisted state from store. Load failures never prevent
// startup: a missing or unreadable blob yields the default state.
func Open(ctx context.Context, store storage.Store, log *slog.Logger, opts Options) *Session {
	s := &Session{
		store:           store,
		log:             log,
		now:             opts.Now,
		analyzer:        opts.Analyzer,
		defaultAPIKey:   opts.DefaultAPIKey,
		analysisTimeout: opts.AnalysisTimeout,
		analyses:        make(map[string]*analysisJob),
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.analysisTimeout <= 0 {
		s.analysisTimeout = 2 * time.Minute
	}

	st, err := store.Load(ctx)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		log.Info("no saved state, starting fresh")
		st = models.DefaultState()
	case err != nil:
		log.Warn("failed to load saved state, starting fresh", "error", err)
		st = models.DefaultState()
	default:
		log.Info("state loaded", "logs", len(st.Logs), "week", st.View.CurrentWeek, "mode", st.Mode)
	}
	st.Normalize()
	s.state = st
	return s
}

// Close abandons running analyses. It does not close the store.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, job := range s.analyses {
		if job.status == AnalysisPending {
			job.status = AnalysisAbandoned
			job.cancel()
		}
	}
}

// Snapshot returns a deep copy of the current state.
func (s *Session) Snapshot() models.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Now returns the session clock's current time.
func (s *Session) Now() time.Time {
	return s.now()
}

// persist writes the full state. Callers hold s.mu.
func (s *Session) persist(ctx context.Context) error {
	if err := s.store.Save(ctx, s.state); err != nil {
		s.log.Error("failed to save state", "error", err)
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}

// exerciseFor validates key against the program and returns its exercise.
// The set index must fall within the sets prescribed for mode.
func exerciseFor(key models.SetKey, mode models.TrainingMode) (models.Exercise, error) {
	w, err := program.WorkoutFor(key.Week, key.Day)
	if err != nil {
		return models.Exercise{}, err
	}
	for _, ex := range w.Exercises {
		if ex.ID == key.ExerciseID {
			n, err := program.PrescribedSets(key.Week, ex, mode)
			if err != nil {
				return models.Exercise{}, err
			}
			if key.Set < 0 || key.Set >= n {
				return models.Exercise{}, fmt.Errorf("%w: %d of %d", ErrSetOutOfRange, key.Set, n)
			}
			return ex, nil
		}
	}
	return models.Exercise{}, fmt.Errorf("%w: %s is not part of week %d day %d", ErrUnknownExercise, key.ExerciseID, key.Week, key.Day)
}

var (
	ErrUnknownExercise = errors.New("unknown exercise")
	ErrSetOutOfRange   = errors.New("set index out of range")
)
