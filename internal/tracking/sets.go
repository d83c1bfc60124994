package tracking

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/claude/rpfocus/internal/models"
)

// ToggleSet flips a set between pending and done.
//
// Marking done fills an empty weight from the exercise history, records
// the weight (if any) as the new history value and stamps the completion
// time. Marking pending clears only the completion time.
func (s *Session) ToggleSet(ctx context.Context, key models.SetKey) (models.SetLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := exerciseFor(key, s.state.Mode); err != nil {
		return models.SetLog{}, err
	}

	log := s.state.Logs[key]
	if log.Done {
		log.Done = false
		log.CompletedAt = nil
	} else {
		if log.Weight == nil {
			if h, ok := s.state.History[key.ExerciseID]; ok {
				w := h
				log.Weight = &w
			}
		}
		if log.Weight != nil {
			s.state.History[key.ExerciseID] = *log.Weight
		}
		now := s.now()
		log.Done = true
		log.CompletedAt = &now
	}
	s.state.Logs[key] = log
	return log, s.persist(ctx)
}

// SetWeight stores a typed weight. Empty, negative or malformed input
// clears the field.
func (s *Session) SetWeight(ctx context.Context, key models.SetKey, raw string) (models.SetLog, error) {
	return s.updateLog(ctx, key, func(l *models.SetLog) {
		l.Weight = parseWeight(raw)
	})
}

// SetReps stores a typed rep count. Empty, negative or malformed input
// clears the field.
func (s *Session) SetReps(ctx context.Context, key models.SetKey, raw string) (models.SetLog, error) {
	return s.updateLog(ctx, key, func(l *models.SetLog) {
		l.Reps = parseReps(raw)
	})
}

// AdjustWeight moves the weight one increment up (dir > 0) or down
// (dir < 0), never below zero. An empty weight counts as zero.
func (s *Session) AdjustWeight(ctx context.Context, key models.SetKey, dir int) (models.SetLog, error) {
	s.mu.Lock()
	inc := s.state.WeightIncrement
	s.mu.Unlock()

	step := 0.0
	switch {
	case dir > 0:
		step = inc
	case dir < 0:
		step = -inc
	}
	return s.updateLog(ctx, key, func(l *models.SetLog) {
		cur := 0.0
		if l.Weight != nil {
			cur = *l.Weight
		}
		w := math.Max(0, roundWeight(cur+step))
		l.Weight = &w
	})
}

func (s *Session) updateLog(ctx context.Context, key models.SetKey, fn func(*models.SetLog)) (models.SetLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := exerciseFor(key, s.state.Mode); err != nil {
		return models.SetLog{}, err
	}

	log := s.state.Logs[key]
	fn(&log)
	s.state.Logs[key] = log
	return log, s.persist(ctx)
}

// WeightPlaceholder returns the last completed weight for the exercise.
func (s *Session) WeightPlaceholder(exerciseID string) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.state.History[exerciseID]
	return w, ok
}

// History returns a copy of the last completed weight per exercise.
func (s *Session) History() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]float64, len(s.state.History))
	for k, v := range s.state.History {
		out[k] = v
	}
	return out
}

// SetLog returns the log for key, which is the zero value if never touched.
func (s *Session) SetLog(key models.SetKey) models.SetLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Logs[key]
}

func parseWeight(raw string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return nil
	}
	return &v
}

func parseReps(raw string) *int {
	raw = strings.TrimSpace(raw)
	n, err := strconv.Atoi(raw)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || math.IsNaN(f) || f < 0 || f > 1e6 {
			return nil
		}
		n = int(f)
	}
	if n < 0 {
		return nil
	}
	return &n
}

// roundWeight trims float noise from repeated increments.
func roundWeight(w float64) float64 {
	return math.Round(w*1000) / 1000
}
