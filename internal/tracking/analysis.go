package tracking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/claude/rpfocus/internal/models"
	"github.com/claude/rpfocus/internal/nutrition"
	"github.com/google/uuid"
)

// Analyzer recognises food items in a photo.
type Analyzer interface {
	Analyze(ctx context.Context, apiKey string, image []byte, mimeType string) ([]models.FoodItem, error)
}

// AnalysisStatus is the lifecycle state of a food photo analysis.
type AnalysisStatus string

const (
	AnalysisPending   AnalysisStatus = "pending"
	AnalysisDone      AnalysisStatus = "done"
	AnalysisFailed    AnalysisStatus = "failed"
	AnalysisAbandoned AnalysisStatus = "abandoned"
	AnalysisCommitted AnalysisStatus = "committed"
)

var (
	ErrAnalysisUnavailable = errors.New("food analysis is not configured")
	ErrNoAPIKey            = errors.New("no Gemini API key configured")
	ErrAnalysisNotFound    = errors.New("analysis not found")
	ErrAnalysisPending     = errors.New("analysis still running")
	ErrAnalysisFailed      = errors.New("analysis failed")
	ErrAnalysisAbandoned   = errors.New("analysis was abandoned")
	ErrAnalysisCommitted   = errors.New("analysis already committed")
)

// finished jobs are forgotten after this long.
const analysisRetention = time.Hour

// Analysis is the externally visible state of an analysis job.
type Analysis struct {
	ID         string            `json:"id"`
	Date       string            `json:"date"`
	Status     AnalysisStatus    `json:"status"`
	Items      []models.FoodItem `json:"items,omitempty"`
	Error      string            `json:"error,omitempty"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt *time.Time        `json:"finished_at,omitempty"`
	MealID     string            `json:"meal_id,omitempty"`
}

type analysisJob struct {
	id         string
	date       string
	status     AnalysisStatus
	items      []models.FoodItem
	err        error
	startedAt  time.Time
	finishedAt *time.Time
	mealID     string
	cancel     context.CancelFunc
	done       chan struct{}
}

func (j *analysisJob) view() Analysis {
	a := Analysis{
		ID:         j.id,
		Date:       j.date,
		Status:     j.status,
		Items:      append([]models.FoodItem(nil), j.items...),
		StartedAt:  j.startedAt,
		FinishedAt: j.finishedAt,
		MealID:     j.mealID,
	}
	if j.err != nil {
		a.Error = j.err.Error()
	}
	return a
}

// StartAnalysis sends image to the analyzer in the background. The result
// is held until it is committed as a meal or abandoned; it is never added
// to the nutrition log on its own.
func (s *Session) StartAnalysis(date string, image []byte, mimeType string) (Analysis, error) {
	if err := validateDate(date); err != nil {
		return Analysis{}, err
	}
	if s.analyzer == nil {
		return Analysis{}, ErrAnalysisUnavailable
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.defaultAPIKey
	if p := s.state.NutritionProfile; p != nil && p.GeminiAPIKey != "" {
		key = p.GeminiAPIKey
	}
	if key == "" {
		return Analysis{}, ErrNoAPIKey
	}

	now := s.now()
	s.pruneAnalysesLocked(now)

	ctx, cancel := context.WithTimeout(context.Background(), s.analysisTimeout)
	job := &analysisJob{
		id:        uuid.NewString(),
		date:      date,
		status:    AnalysisPending,
		startedAt: now,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	s.analyses[job.id] = job
	s.log.Info("food analysis started", "id", job.id, "date", date, "bytes", len(image))

	go s.runAnalysis(ctx, job, key, image, mimeType)
	return job.view(), nil
}

func (s *Session) runAnalysis(ctx context.Context, job *analysisJob, key string, image []byte, mimeType string) {
	defer close(job.done)
	defer job.cancel()

	items, err := s.analyzer.Analyze(ctx, key, image, mimeType)

	s.mu.Lock()
	defer s.mu.Unlock()
	if job.status != AnalysisPending {
		s.log.Info("discarding abandoned analysis result", "id", job.id)
		return
	}
	now := s.now()
	job.finishedAt = &now
	if err != nil {
		job.status = AnalysisFailed
		job.err = err
		s.log.Warn("food analysis failed", "id", job.id, "error", err)
		return
	}
	job.status = AnalysisDone
	job.items = items
	s.log.Info("food analysis done", "id", job.id, "items", len(items))
}

func (s *Session) pruneAnalysesLocked(now time.Time) {
	for id, job := range s.analyses {
		if job.status == AnalysisPending {
			continue
		}
		ref := job.startedAt
		if job.finishedAt != nil {
			ref = *job.finishedAt
		}
		if now.Sub(ref) > analysisRetention {
			delete(s.analyses, id)
		}
	}
}

// Analysis returns the current state of job id.
func (s *Session) Analysis(id string) (Analysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.analyses[id]
	if !ok {
		return Analysis{}, fmt.Errorf("%w: %s", ErrAnalysisNotFound, id)
	}
	return job.view(), nil
}

// WaitAnalysis blocks until job id leaves the pending state or ctx ends.
func (s *Session) WaitAnalysis(ctx context.Context, id string) (Analysis, error) {
	s.mu.Lock()
	job, ok := s.analyses[id]
	s.mu.Unlock()
	if !ok {
		return Analysis{}, fmt.Errorf("%w: %s", ErrAnalysisNotFound, id)
	}
	select {
	case <-job.done:
	case <-ctx.Done():
		return Analysis{}, ctx.Err()
	}
	return s.Analysis(id)
}

// AbandonAnalysis discards job id, cancelling the call if it is running.
// Its result can no longer be committed.
func (s *Session) AbandonAnalysis(id string) (Analysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.analyses[id]
	if !ok {
		return Analysis{}, fmt.Errorf("%w: %s", ErrAnalysisNotFound, id)
	}
	if job.status == AnalysisCommitted {
		return Analysis{}, ErrAnalysisCommitted
	}
	if job.status == AnalysisPending {
		job.cancel()
	}
	job.status = AnalysisAbandoned
	job.items = nil
	s.log.Info("food analysis abandoned", "id", id)
	return job.view(), nil
}

// CommitAnalysis adds the analysed items as an AI meal on the job's date.
// Items, when given, replace the recognised ones so the user can correct
// them first.
func (s *Session) CommitAnalysis(ctx context.Context, id, name, hhmm string, items []models.FoodItem) (models.Meal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.analyses[id]
	if !ok {
		return models.Meal{}, fmt.Errorf("%w: %s", ErrAnalysisNotFound, id)
	}
	switch job.status {
	case AnalysisPending:
		return models.Meal{}, ErrAnalysisPending
	case AnalysisAbandoned:
		return models.Meal{}, ErrAnalysisAbandoned
	case AnalysisCommitted:
		return models.Meal{}, ErrAnalysisCommitted
	case AnalysisFailed:
		return models.Meal{}, fmt.Errorf("%w: %v", ErrAnalysisFailed, job.err)
	}

	if items == nil {
		items = job.items
	}
	m, err := nutrition.NewMeal(name, hhmm, models.SourceAI, items, s.now())
	if err != nil {
		return models.Meal{}, err
	}
	if err := s.addMealLocked(ctx, job.date, m); err != nil {
		return models.Meal{}, err
	}
	job.status = AnalysisCommitted
	job.mealID = m.ID
	return m, nil
}
