package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/claude/rpfocus/internal/models"
	"github.com/claude/rpfocus/internal/tracking"
)

// handleState returns the full state with the Gemini key redacted.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	st := s.session.Snapshot()
	if st.NutritionProfile != nil {
		st.NutritionProfile.GeminiAPIKey = ""
	}
	writeJSON(w, http.StatusOK, st)
}

type viewRequest struct {
	Week      *int        `json:"week"`
	Day       *int        `json:"day"`
	ShowStats *bool       `json:"show_stats"`
	ActiveTab *models.Tab `json:"active_tab"`
}

func (s *Server) handleUpdateView(w http.ResponseWriter, r *http.Request) {
	var req viewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ctx := r.Context()
	if req.Week != nil {
		if err := s.session.SelectWeek(ctx, *req.Week); err != nil {
			s.writeError(w, err)
			return
		}
	}
	if req.Day != nil {
		if err := s.session.SelectDay(ctx, *req.Day); err != nil {
			s.writeError(w, err)
			return
		}
	}
	if req.ShowStats != nil {
		if err := s.session.SetShowStats(ctx, *req.ShowStats); err != nil {
			s.writeError(w, err)
			return
		}
	}
	if req.ActiveTab != nil {
		if err := s.session.SetActiveTab(ctx, *req.ActiveTab); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, s.session.View())
}

type settingsRequest struct {
	Mode            *models.TrainingMode `json:"mode"`
	WeightIncrement *float64             `json:"weight_increment"`
	GeminiAPIKey    *string              `json:"gemini_api_key"`
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ctx := r.Context()
	if req.Mode != nil {
		if err := s.session.SetMode(ctx, *req.Mode); err != nil {
			s.writeError(w, err)
			return
		}
	}
	if req.WeightIncrement != nil {
		if _, err := s.session.SetWeightIncrement(ctx, *req.WeightIncrement); err != nil {
			s.writeError(w, err)
			return
		}
	}
	if req.GeminiAPIKey != nil {
		if err := s.session.SetGeminiAPIKey(ctx, *req.GeminiAPIKey); err != nil {
			s.writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"mode":             s.session.Mode(),
		"weight_increment": s.session.WeightIncrement(),
	})
}

func (s *Server) handleRenameExercise(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	if err := s.session.RenameExercise(r.Context(), id, req.Name); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "name": s.session.ExerciseName(id)})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Reset(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// handleSession returns the selected day, or ?week=&day= when given.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("week") == "" && q.Get("day") == "" {
		dv, err := s.session.CurrentDay()
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, dv)
		return
	}
	view := s.session.View()
	week, day := view.CurrentWeek, view.CurrentDay
	if v := q.Get("week"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid week"})
			return
		}
		week = n
	}
	if v := q.Get("day"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid day"})
			return
		}
		day = n
	}
	dv, err := s.session.Day(week, day)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dv)
}

type setRequest struct {
	Key       models.SetKey `json:"key"`
	Weight    *string       `json:"weight"`
	Reps      *string       `json:"reps"`
	Direction int           `json:"direction"`
}

func (s *Server) handleToggleSet(w http.ResponseWriter, r *http.Request) {
	var req setRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	log, err := s.session.ToggleSet(r.Context(), req.Key)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, log)
}

// handleUpdateSet stores the raw weight and/or reps text of a set.
func (s *Server) handleUpdateSet(w http.ResponseWriter, r *http.Request) {
	var req setRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ctx := r.Context()
	log := s.session.SetLog(req.Key)
	var err error
	if req.Weight != nil {
		if log, err = s.session.SetWeight(ctx, req.Key, *req.Weight); err != nil {
			s.writeError(w, err)
			return
		}
	}
	if req.Reps != nil {
		if log, err = s.session.SetReps(ctx, req.Key, *req.Reps); err != nil {
			s.writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, log)
}

func (s *Server) handleAdjustSet(w http.ResponseWriter, r *http.Request) {
	var req setRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Direction == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "direction must be 1 or -1"})
		return
	}
	log, err := s.session.AdjustWeight(r.Context(), req.Key, req.Direction)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, log)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.History())
}

func (s *Server) handleStopwatch(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.StopwatchState())
}

func (s *Server) handleStopwatchAction(w http.ResponseWriter, r *http.Request) {
	var st tracking.StopwatchStatus
	switch chi.URLParam(r, "action") {
	case "start":
		st = s.session.StartStopwatch()
	case "pause":
		st = s.session.PauseStopwatch()
	case "toggle":
		st = s.session.ToggleStopwatch()
	case "reset":
		st = s.session.ResetStopwatch()
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown stopwatch action"})
		return
	}
	writeJSON(w, http.StatusOK, st)
}
