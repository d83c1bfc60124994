package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/claude/rpfocus/internal/models"
	"github.com/claude/rpfocus/internal/nutrition"
)

// maxImageBytes bounds uploaded food photos.
const maxImageBytes = 10 << 20

func (s *Server) handleNutritionOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"goals":           nutrition.Goals,
		"activity_levels": nutrition.ActivityLevels,
		"meal_names":      nutrition.DefaultMealNames,
		"default_profile": models.DefaultProfile(),
	})
}

type profileResponse struct {
	*models.Profile
	HasAPIKey bool `json:"has_api_key"`
}

func redactProfile(p *models.Profile) profileResponse {
	if p == nil {
		return profileResponse{}
	}
	out := *p
	out.GeminiAPIKey = ""
	return profileResponse{Profile: &out, HasAPIKey: p.GeminiAPIKey != ""}
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p := s.session.Profile()
	if p == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no nutrition profile"})
		return
	}
	writeJSON(w, http.StatusOK, redactProfile(p))
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	var p models.Profile
	if !decodeJSON(w, r, &p) {
		return
	}
	saved, err := s.session.SaveProfile(r.Context(), p)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, redactProfile(&saved))
}

// dateParam resolves {date}, accepting "today" for the session clock.
func (s *Server) dateParam(r *http.Request) string {
	d := chi.URLParam(r, "date")
	if d == "today" {
		return s.session.Today()
	}
	return d
}

func (s *Server) handleNutritionDay(w http.ResponseWriter, r *http.Request) {
	day, err := s.session.NutritionDay(s.dateParam(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

type mealRequest struct {
	Name  string                `json:"name"`
	Time  string                `json:"time"`
	Items []nutrition.ItemInput `json:"items"`
}

func (s *Server) handleAddMeal(w http.ResponseWriter, r *http.Request) {
	var req mealRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	m, err := s.session.AddManualMeal(r.Context(), s.dateParam(r), req.Name, req.Time, req.Items)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleDeleteMeal(w http.ResponseWriter, r *http.Request) {
	if err := s.session.DeleteMeal(r.Context(), s.dateParam(r), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleStartAnalysis accepts a multipart "image" field or a raw image body.
func (s *Server) handleStartAnalysis(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)

	image, mimeType, err := readImage(r)
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "image too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if len(image) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "image is empty"})
		return
	}

	a, err := s.session.StartAnalysis(s.dateParam(r), image, mimeType)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, a)
}

func readImage(r *http.Request) ([]byte, string, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		f, hdr, err := r.FormFile("image")
		if err != nil {
			return nil, "", err
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, "", err
		}
		mime := hdr.Header.Get("Content-Type")
		if mime == "" || mime == "application/octet-stream" {
			mime = http.DetectContentType(data)
		}
		return data, mime, nil
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r.Body); err != nil {
		return nil, "", err
	}
	data := buf.Bytes()
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(data)
	}
	return data, ct, nil
}

// handleGetAnalysis returns the job. With ?wait=1 it blocks until the job
// finishes or the wait times out.
func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if r.URL.Query().Get("wait") == "" {
		a, err := s.session.Analysis(id)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, a)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()
	a, err := s.session.WaitAnalysis(ctx, id)
	if err != nil && ctx.Err() != nil {
		a, err = s.session.Analysis(id)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleAbandonAnalysis(w http.ResponseWriter, r *http.Request) {
	a, err := s.session.AbandonAnalysis(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

type commitRequest struct {
	Name  string             `json:"name"`
	Time  string             `json:"time"`
	Items *[]models.FoodItem `json:"items"`
}

func (s *Server) handleCommitAnalysis(w http.ResponseWriter, r *http.Request) {
	var req commitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	var items []models.FoodItem
	if req.Items != nil {
		items = *req.Items
		if items == nil {
			items = []models.FoodItem{}
		}
	}
	m, err := s.session.CommitAnalysis(r.Context(), chi.URLParam(r, "id"), req.Name, req.Time, items)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}
