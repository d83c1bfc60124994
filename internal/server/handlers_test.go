package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gorilla/websocket"

	"github.com/claude/rpfocus/internal/models"
	"github.com/claude/rpfocus/internal/storage"
	"github.com/claude/rpfocus/internal/tracking"
)

type stubAnalyzer struct {
	items []models.FoodItem
}

func (a stubAnalyzer) Analyze(_ context.Context, _ string, _ []byte, _ string) ([]models.FoodItem, error) {
	return a.items, nil
}

func newTestServer(t *testing.T) (*Server, *tracking.Session) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	session := tracking.Open(context.Background(), storage.NewMemory(), log, tracking.Options{
		Now:           func() time.Time { return now },
		Analyzer:      stubAnalyzer{items: []models.FoodItem{{ID: "x", Name: "Banana", Calories: 105}}},
		DefaultAPIKey: "k",
	})
	t.Cleanup(session.Close)
	return New(session, log), session
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return v
}

// TestHandleMeDefault verifies the /api/v1/me endpoint returns the local
// identity when no Tailscale middleware is active.
func TestHandleMeDefault(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/v1/me", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if info := decode[UserInfo](t, rec); info.Login != "local" {
		t.Errorf("login = %q, want %q", info.Login, "local")
	}
}

// TestPlanEndpoints verifies plan routes and their error statuses.
func TestPlanEndpoints(t *testing.T) {
	s, _ := newTestServer(t)

	cases := []struct {
		path   string
		status int
	}{
		{"/api/v1/catalog", http.StatusOK},
		{"/api/v1/plan/weeks/1", http.StatusOK},
		{"/api/v1/plan/weeks/5/days/3?mode=bulking", http.StatusOK},
		{"/api/v1/plan/weeks/2/volume", http.StatusOK},
		{"/api/v1/plan/weeks/9/guidance", http.StatusOK},
		{"/api/v1/plan/weeks/11", http.StatusBadRequest},
		{"/api/v1/plan/weeks/0/guidance", http.StatusBadRequest},
		{"/api/v1/plan/weeks/x", http.StatusBadRequest},
		{"/api/v1/plan/weeks/1/days/4", http.StatusBadRequest},
		{"/api/v1/plan/weeks/1?mode=cutting", http.StatusBadRequest},
	}
	for _, tc := range cases {
		if rec := do(t, s, http.MethodGet, tc.path, ""); rec.Code != tc.status {
			t.Errorf("GET %s = %d, want %d: %s", tc.path, rec.Code, tc.status, rec.Body)
		}
	}
}

// TestDayPlanDeload verifies a deload week's day plan halves sets.
func TestDayPlanDeload(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/v1/plan/weeks/5/days/0", "")
	plan := decode[struct {
		Deload    bool `json:"deload"`
		Exercises []struct {
			BaseSets int `json:"base_sets"`
			Sets     int `json:"sets"`
		} `json:"exercises"`
	}](t, rec)
	if !plan.Deload {
		t.Fatal("week 5 not a deload")
	}
	for _, ex := range plan.Exercises {
		if want := max(1, ex.BaseSets/2); ex.Sets != want {
			t.Errorf("sets = %d, want %d", ex.Sets, want)
		}
	}
}

// TestSetLifecycle drives a set through weight entry, toggle and adjust.
func TestSetLifecycle(t *testing.T) {
	s, session := newTestServer(t)

	rec := do(t, s, http.MethodPut, "/api/v1/sets", `{"key":"w1-d0-bp_flat-s0","weight":"100","reps":"8"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT /sets = %d: %s", rec.Code, rec.Body)
	}
	rec = do(t, s, http.MethodPost, "/api/v1/sets/toggle", `{"key":"w1-d0-bp_flat-s0"}`)
	if got := decode[models.SetLog](t, rec); !got.Done || got.CompletedAt == nil {
		t.Errorf("toggle = %+v", got)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/history", "")
	if h := decode[map[string]float64](t, rec); h["bp_flat"] != 100 {
		t.Errorf("history = %v", h)
	}

	rec = do(t, s, http.MethodPost, "/api/v1/sets/adjust", `{"key":"w1-d0-bp_flat-s0","direction":-1}`)
	if got := decode[models.SetLog](t, rec); *got.Weight != 98 {
		t.Errorf("adjusted weight = %v, want 98", *got.Weight)
	}

	if rec := do(t, s, http.MethodPost, "/api/v1/sets/toggle", `{"key":"w1-d0-rdl-s0"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("toggle foreign exercise = %d, want 400", rec.Code)
	}
	if rec := do(t, s, http.MethodPost, "/api/v1/sets/toggle", `{"key":"garbage"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("toggle bad key = %d, want 400", rec.Code)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/session", "")
	dv := decode[tracking.DayView](t, rec)
	if dv.DoneSets != 1 || dv.Exercises[0].SetLogs[0].Key != "w1-d0-bp_flat-s0" {
		t.Errorf("session = done %d, first key %q", dv.DoneSets, dv.Exercises[0].SetLogs[0].Key)
	}
	if session.SetLog(models.SetKey{Week: 1, Day: 0, ExerciseID: "bp_flat", Set: 0}).Reps == nil {
		t.Error("reps not stored")
	}
}

// TestViewAndSettings verifies cursor and settings updates.
func TestViewAndSettings(t *testing.T) {
	s, session := newTestServer(t)

	rec := do(t, s, http.MethodPut, "/api/v1/view", `{"week":4,"day":2,"show_stats":false,"active_tab":"nutrition"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT /view = %d: %s", rec.Code, rec.Body)
	}
	v := session.View()
	if v.CurrentWeek != 4 || v.CurrentDay != 2 || v.ShowStats || v.ActiveTab != models.TabNutrition {
		t.Errorf("view = %+v", v)
	}
	if rec := do(t, s, http.MethodPut, "/api/v1/view", `{"week":12}`); rec.Code != http.StatusBadRequest {
		t.Errorf("week 12 = %d, want 400", rec.Code)
	}

	rec = do(t, s, http.MethodPut, "/api/v1/settings", `{"mode":"bulking","weight_increment":0.1,"gemini_api_key":"secret"}`)
	got := decode[map[string]any](t, rec)
	if got["mode"] != "bulking" || got["weight_increment"] != 0.25 {
		t.Errorf("settings = %v", got)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/state", "")
	if strings.Contains(rec.Body.String(), "secret") {
		t.Error("state leaks the API key")
	}

	rec = do(t, s, http.MethodPut, "/api/v1/exercises/ohp/name", `{"name":"Push Press"}`)
	if got := decode[map[string]string](t, rec); got["name"] != "Push Press" {
		t.Errorf("rename = %v", got)
	}
	if rec := do(t, s, http.MethodPut, "/api/v1/exercises/nope/name", `{"name":"x"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("rename unknown = %d, want 400", rec.Code)
	}

	if rec := do(t, s, http.MethodPost, "/api/v1/reset", ""); rec.Code != http.StatusOK {
		t.Errorf("reset = %d", rec.Code)
	}
	if v := session.View(); v.CurrentWeek != 1 || v.CurrentDay != 0 {
		t.Errorf("view after reset = %+v", v)
	}
}

// TestStopwatchEndpoints verifies stopwatch actions.
func TestStopwatchEndpoints(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/stopwatch/start", "")
	if st := decode[tracking.StopwatchStatus](t, rec); !st.Running {
		t.Errorf("start = %+v", st)
	}
	rec = do(t, s, http.MethodPost, "/api/v1/stopwatch/reset", "")
	if st := decode[tracking.StopwatchStatus](t, rec); st.Running || st.Display != "0:00" {
		t.Errorf("reset = %+v", st)
	}
	if rec := do(t, s, http.MethodPost, "/api/v1/stopwatch/lap", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown action = %d, want 404", rec.Code)
	}
}

// TestNutritionEndpoints verifies profile, meal and analysis routes.
func TestNutritionEndpoints(t *testing.T) {
	s, _ := newTestServer(t)

	if rec := do(t, s, http.MethodGet, "/api/v1/nutrition/profile", ""); rec.Code != http.StatusNotFound {
		t.Errorf("empty profile = %d, want 404", rec.Code)
	}
	rec := do(t, s, http.MethodPut, "/api/v1/nutrition/profile",
		`{"gender":"male","age":30,"height":175,"weight":75,"activity_level":1.55,"goal":"maintain","gemini_api_key":"secret"}`)
	p := decode[map[string]any](t, rec)
	if p["tdee"] != float64(2633) || p["has_api_key"] != true || p["gemini_api_key"] != nil {
		t.Errorf("profile = %v", p)
	}

	rec = do(t, s, http.MethodPost, "/api/v1/nutrition/days/today/meals",
		`{"name":"Lunch","time":"12:30","items":[{"name":"Rice","calories":"400"}]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add meal = %d: %s", rec.Code, rec.Body)
	}
	meal := decode[models.Meal](t, rec)

	rec = do(t, s, http.MethodGet, "/api/v1/nutrition/days/2026-03-02", "")
	day := decode[tracking.NutritionDay](t, rec)
	if len(day.Meals) != 1 || day.Totals.Calories != 400 || *day.RemainingCalories != 2233 {
		t.Errorf("day = %+v", day)
	}

	if rec := do(t, s, http.MethodDelete, "/api/v1/nutrition/days/2026-03-02/meals/"+meal.ID, ""); rec.Code != http.StatusNoContent {
		t.Errorf("delete = %d", rec.Code)
	}
	if rec := do(t, s, http.MethodDelete, "/api/v1/nutrition/days/2026-03-02/meals/"+meal.ID, ""); rec.Code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/api/v1/nutrition/days/yesterday", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad date = %d, want 400", rec.Code)
	}
}

// TestAnalysisEndpoints verifies a multipart upload can be awaited and
// committed once.
func TestAnalysisEndpoints(t *testing.T) {
	s, _ := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", "meal.jpg")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte("\xff\xd8\xff\xe0fakejpeg"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/nutrition/days/2026-03-02/analyses", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("start = %d: %s", rec.Code, rec.Body)
	}
	a := decode[tracking.Analysis](t, rec)

	rec = do(t, s, http.MethodGet, "/api/v1/nutrition/analyses/"+a.ID+"?wait=1", "")
	if got := decode[tracking.Analysis](t, rec); got.Status != tracking.AnalysisDone || got.Items[0].Name != "Banana" {
		t.Fatalf("analysis = %+v", got)
	}

	if rec := do(t, s, http.MethodPost, "/api/v1/nutrition/analyses/"+a.ID+"/commit", ""); rec.Code != http.StatusCreated {
		t.Fatalf("commit = %d: %s", rec.Code, rec.Body)
	}
	if rec := do(t, s, http.MethodPost, "/api/v1/nutrition/analyses/"+a.ID+"/commit", ""); rec.Code != http.StatusConflict {
		t.Errorf("second commit = %d, want 409", rec.Code)
	}
	if rec := do(t, s, http.MethodDelete, "/api/v1/nutrition/analyses/missing", ""); rec.Code != http.StatusNotFound {
		t.Errorf("abandon missing = %d, want 404", rec.Code)
	}
	if rec := do(t, s, http.MethodPost, "/api/v1/nutrition/days/2026-03-02/analyses", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("empty image = %d, want 400", rec.Code)
	}
}

// TestTicksWebsocket verifies the tick stream delivers timer snapshots.
func TestTicksWebsocket(t *testing.T) {
	s, session := newTestServer(t)
	s.tickInterval = 10 * time.Millisecond
	session.StartStopwatch()

	ts := httptest.NewServer(s)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/ticks"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	for range 2 {
		var tick tracking.Tick
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		if err := conn.ReadJSON(&tick); err != nil {
			t.Fatalf("read tick: %v", err)
		}
		if !tick.Stopwatch.Running || tick.Week != 1 {
			t.Errorf("tick = %+v", tick)
		}
	}
}

// TestFrontendFallback verifies static files are served and unknown paths
// fall back to index.html while API routes still answer.
func TestFrontendFallback(t *testing.T) {
	srv, _ := newTestServer(t)
	srv.SetFrontend(fstest.MapFS{
		"index.html": {Data: []byte("<html>app</html>")},
		"app.js":     {Data: []byte("console.log(1)")},
	})

	if rec := do(t, srv, http.MethodGet, "/app.js", ""); !strings.Contains(rec.Body.String(), "console.log") {
		t.Errorf("app.js body = %q", rec.Body.String())
	}
	if rec := do(t, srv, http.MethodGet, "/training/week/3", ""); !strings.Contains(rec.Body.String(), "app") {
		t.Errorf("fallback body = %q, want index.html", rec.Body.String())
	}
	if rec := do(t, srv, http.MethodGet, "/api/v1/me", ""); rec.Code != http.StatusOK {
		t.Errorf("/api/v1/me status = %d, want 200", rec.Code)
	}
}
