package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/claude/rpfocus/internal/foodai"
	"github.com/claude/rpfocus/internal/models"
	"github.com/claude/rpfocus/internal/nutrition"
	"github.com/claude/rpfocus/internal/program"
	"github.com/claude/rpfocus/internal/tracking"
)

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}

type muscleInfo struct {
	ID      models.MuscleGroup `json:"id"`
	Label   string             `json:"label"`
	Ceiling int                `json:"ceiling"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	muscles := make([]muscleInfo, 0, len(models.AllMuscleGroups))
	for _, m := range models.AllMuscleGroups {
		muscles = append(muscles, muscleInfo{ID: m, Label: m.Label(), Ceiling: program.Ceiling(m)})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"workouts":                 models.Workouts(),
		"muscles":                  muscles,
		"weeks":                    program.Weeks,
		"days_per_week":            program.DaysPerWeek,
		"weight_increment_presets": tracking.WeightIncrementPresets,
	})
}

func (s *Server) handleWeekPlan(w http.ResponseWriter, r *http.Request) {
	week, err := intParam(r, "week")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	plan, err := program.PlanWeek(week, s.modeParam(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleDayPlan(w http.ResponseWriter, r *http.Request) {
	week, err := intParam(r, "week")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	day, err := intParam(r, "day")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	plan, err := program.PlanDay(week, day, s.modeParam(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleVolume(w http.ResponseWriter, r *http.Request) {
	week, err := intParam(r, "week")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	var vol []program.MuscleVolume
	if r.URL.Query().Get("mode") == "" {
		vol, err = s.session.WeeklyVolume(week)
	} else {
		vol, err = program.WeeklyVolume(week, s.modeParam(r))
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vol)
}

func (s *Server) handleGuidance(w http.ResponseWriter, r *http.Request) {
	week, err := intParam(r, "week")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	g, err := program.GuidanceFor(week)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// modeParam returns ?mode= or the session's current mode.
func (s *Server) modeParam(r *http.Request) models.TrainingMode {
	if m := r.URL.Query().Get("mode"); m != "" {
		return models.TrainingMode(m)
	}
	return s.session.Mode()
}

func intParam(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeJSON reads the request body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return false
	}
	return true
}

// writeError maps domain errors to HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, program.ErrWeekOutOfRange),
		errors.Is(err, program.ErrDayOutOfRange),
		errors.Is(err, program.ErrUnknownMode),
		errors.Is(err, tracking.ErrUnknownExercise),
		errors.Is(err, tracking.ErrSetOutOfRange),
		errors.Is(err, tracking.ErrInvalidDate),
		errors.Is(err, tracking.ErrInvalidProfile),
		errors.Is(err, tracking.ErrNoAPIKey),
		errors.Is(err, nutrition.ErrEmptyMeal),
		errors.Is(err, nutrition.ErrInvalidTime),
		errors.Is(err, foodai.ErrEmptyImage):
		return http.StatusBadRequest
	case errors.Is(err, tracking.ErrMealNotFound),
		errors.Is(err, tracking.ErrAnalysisNotFound):
		return http.StatusNotFound
	case errors.Is(err, tracking.ErrAnalysisPending),
		errors.Is(err, tracking.ErrAnalysisAbandoned),
		errors.Is(err, tracking.ErrAnalysisCommitted):
		return http.StatusConflict
	case errors.Is(err, tracking.ErrAnalysisFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, tracking.ErrAnalysisUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
