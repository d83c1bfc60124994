package tracking

import (
	"fmt"
	"time"

	"github.com/claude/rpfocus/internal/models"
)

// Rest is a displayable rest interval. Live rests are still running.
type Rest struct {
	Seconds int64  `json:"seconds"`
	Display string `json:"display"`
	Live    bool   `json:"live"`
}

func newRest(d time.Duration, live bool) *Rest {
	secs := max(0, int64(d/time.Second))
	return &Rest{Seconds: secs, Display: FormatClock(secs), Live: live}
}

// stamped reports whether l carries a real completion time. Imported legacy
// logs without one are stamped with the Unix epoch.
func stamped(l models.SetLog) bool {
	return l.CompletedAt != nil && l.CompletedAt.Unix() > 0
}

// RestBetween returns the frozen rest between two completed sets.
func RestBetween(prev, next models.SetLog) (time.Duration, bool) {
	if !stamped(prev) || !stamped(next) {
		return 0, false
	}
	return next.CompletedAt.Sub(*prev.CompletedAt), true
}

// RestSince returns the running rest since prev was completed.
func RestSince(prev models.SetLog, now time.Time) (time.Duration, bool) {
	if !stamped(prev) {
		return 0, false
	}
	return now.Sub(*prev.CompletedAt), true
}

// restFor derives the rest shown before next: live while next is pending,
// frozen once both are completed, nothing if prev is not completed.
func restFor(prev, next models.SetLog, now time.Time) *Rest {
	if !stamped(prev) {
		return nil
	}
	if !next.Done {
		d, _ := RestSince(prev, now)
		return newRest(d, true)
	}
	if d, ok := RestBetween(prev, next); ok {
		return newRest(d, false)
	}
	return nil
}

// FormatClock renders seconds as m:ss, or h:mm:ss from one hour up.
func FormatClock(secs int64) string {
	if secs < 0 {
		secs = 0
	}
	h := secs / 3600
	m := (secs % 3600) / 60
	sec := secs % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%d:%02d", m, sec)
}

// Stopwatch is a pausable elapsed-time counter kept as timestamps.
type Stopwatch struct {
	startedAt   *time.Time
	accumulated time.Duration
}

// Running reports whether the stopwatch is counting.
func (w *Stopwatch) Running() bool {
	return w.startedAt != nil
}

// Start resumes counting from the accumulated time. No-op when running.
func (w *Stopwatch) Start(now time.Time) {
	if w.startedAt == nil {
		w.startedAt = &now
	}
}

// Pause folds the running segment into the accumulated time.
func (w *Stopwatch) Pause(now time.Time) {
	if w.startedAt != nil {
		w.accumulated += now.Sub(*w.startedAt)
		w.startedAt = nil
	}
}

// Reset stops and zeroes the stopwatch.
func (w *Stopwatch) Reset() {
	*w = Stopwatch{}
}

// Elapsed returns total counted time at now.
func (w *Stopwatch) Elapsed(now time.Time) time.Duration {
	d := w.accumulated
	if w.startedAt != nil {
		d += now.Sub(*w.startedAt)
	}
	return max(0, d)
}

// StopwatchStatus is the displayable stopwatch state.
type StopwatchStatus struct {
	Running        bool   `json:"running"`
	ElapsedSeconds int64  `json:"elapsed_seconds"`
	Display        string `json:"display"`
}

func (w *Stopwatch) status(now time.Time) StopwatchStatus {
	secs := int64(w.Elapsed(now) / time.Second)
	return StopwatchStatus{Running: w.Running(), ElapsedSeconds: secs, Display: FormatClock(secs)}
}

// StartStopwatch starts or resumes the session stopwatch.
func (s *Session) StartStopwatch() StopwatchStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.stopwatch.Start(now)
	return s.stopwatch.status(now)
}

// PauseStopwatch pauses the session stopwatch.
func (s *Session) PauseStopwatch() StopwatchStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.stopwatch.Pause(now)
	return s.stopwatch.status(now)
}

// ToggleStopwatch pauses a running stopwatch or starts a stopped one.
func (s *Session) ToggleStopwatch() StopwatchStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if s.stopwatch.Running() {
		s.stopwatch.Pause(now)
	} else {
		s.stopwatch.Start(now)
	}
	return s.stopwatch.status(now)
}

// ResetStopwatch stops and zeroes the session stopwatch.
func (s *Session) ResetStopwatch() StopwatchStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopwatch.Reset()
	return s.stopwatch.status(s.now())
}

// StopwatchState returns the current stopwatch status.
func (s *Session) StopwatchState() StopwatchStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopwatch.status(s.now())
}
