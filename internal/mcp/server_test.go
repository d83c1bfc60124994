package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/claude/rpfocus/internal/models"
	"github.com/claude/rpfocus/internal/storage"
	"github.com/claude/rpfocus/internal/tracking"
	"github.com/mark3labs/mcp-go/mcp"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// seededHandlers returns handlers over a Local source whose store already
// holds a bench press log of 100 kg in week 1 and bulking mode.
func seededHandlers(t *testing.T) *handlers {
	t.Helper()
	ctx := context.Background()
	store := storage.NewMemory()
	now := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	s := tracking.Open(ctx, store, discardLogger(), tracking.Options{Now: func() time.Time { return now }})
	defer s.Close()

	k := models.SetKey{Week: 1, Day: 0, ExerciseID: "bp_flat", Set: 0}
	if _, err := s.SetWeight(ctx, k, "100"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ToggleSet(ctx, k); err != nil {
		t.Fatal(err)
	}
	if err := s.SetMode(ctx, models.ModeBulking); err != nil {
		t.Fatal(err)
	}

	return &handlers{ds: NewLocal(store, discardLogger()), log: discardLogger()}
}

func callTool(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	switch c := res.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	}
	t.Fatalf("content type %T, want text", res.Content[0])
	return ""
}

func decodeResult[T any](t *testing.T, res *mcp.CallToolResult) T {
	t.Helper()
	if res.IsError {
		t.Fatalf("unexpected IsError: %s", resultText(t, res))
	}
	var v T
	if err := json.Unmarshal([]byte(resultText(t, res)), &v); err != nil {
		t.Fatal(err)
	}
	return v
}

// TestWeekPlanUsesStoredMode verifies an omitted mode falls back to the
// mode saved in the state.
func TestWeekPlanUsesStoredMode(t *testing.T) {
	h := seededHandlers(t)

	res, err := h.getWeekPlan(context.Background(), callTool(map[string]any{"week": float64(2)}))
	if err != nil {
		t.Fatal(err)
	}
	plan := decodeResult[struct {
		Week int                 `json:"week"`
		Mode models.TrainingMode `json:"mode"`
		Days []json.RawMessage   `json:"days"`
	}](t, res)

	if plan.Week != 2 {
		t.Errorf("week = %d, want 2", plan.Week)
	}
	if plan.Mode != models.ModeBulking {
		t.Errorf("mode = %q, want %q", plan.Mode, models.ModeBulking)
	}
	if len(plan.Days) != 4 {
		t.Errorf("days = %d, want 4", len(plan.Days))
	}
}

// TestToolArgumentValidation verifies bad arguments become tool errors
// rather than protocol errors.
func TestToolArgumentValidation(t *testing.T) {
	h := seededHandlers(t)
	ctx := context.Background()

	cases := []struct {
		name string
		call func() (*mcp.CallToolResult, error)
	}{
		{"missing week", func() (*mcp.CallToolResult, error) {
			return h.getWeekPlan(ctx, callTool(map[string]any{}))
		}},
		{"week out of range", func() (*mcp.CallToolResult, error) {
			return h.getWeeklyGuidance(ctx, callTool(map[string]any{"week": float64(11)}))
		}},
		{"day out of range", func() (*mcp.CallToolResult, error) {
			return h.getDayPlan(ctx, callTool(map[string]any{"week": float64(1), "day": float64(4)}))
		}},
		{"unknown mode", func() (*mcp.CallToolResult, error) {
			return h.getWeeklyVolume(ctx, callTool(map[string]any{"week": float64(1), "mode": "cutting"}))
		}},
		{"unknown exercise", func() (*mcp.CallToolResult, error) {
			return h.getExerciseHistory(ctx, callTool(map[string]any{"exercise": "nope"}))
		}},
		{"bad date", func() (*mcp.CallToolResult, error) {
			return h.getNutritionDay(ctx, callTool(map[string]any{"date": "03/02/2026"}))
		}},
		{"no profile", func() (*mcp.CallToolResult, error) {
			return h.getNutritionTargets(ctx, callTool(nil))
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := tc.call()
			if err != nil {
				t.Fatalf("unexpected protocol error: %v", err)
			}
			if !res.IsError {
				t.Errorf("IsError = false, want true (%s)", resultText(t, res))
			}
		})
	}
}

// TestExerciseHistoryTool verifies both the full map and the single
// exercise form.
func TestExerciseHistoryTool(t *testing.T) {
	h := seededHandlers(t)
	ctx := context.Background()

	res, err := h.getExerciseHistory(ctx, callTool(nil))
	if err != nil {
		t.Fatal(err)
	}
	hist := decodeResult[map[string]float64](t, res)
	if hist["bp_flat"] != 100 {
		t.Errorf("bp_flat = %v, want 100", hist["bp_flat"])
	}

	res, err = h.getExerciseHistory(ctx, callTool(map[string]any{"exercise": "bp_flat"}))
	if err != nil {
		t.Fatal(err)
	}
	entry := decodeResult[struct {
		Exercise string   `json:"exercise"`
		Weight   *float64 `json:"weight"`
	}](t, res)
	if entry.Exercise != "bp_flat" || entry.Weight == nil || *entry.Weight != 100 {
		t.Errorf("entry = %+v", entry)
	}
}

// TestNutritionDayTool verifies an empty day reports zero totals.
func TestNutritionDayTool(t *testing.T) {
	h := seededHandlers(t)

	res, err := h.getNutritionDay(context.Background(), callTool(map[string]any{"date": "2026-03-01"}))
	if err != nil {
		t.Fatal(err)
	}
	day := decodeResult[tracking.NutritionDay](t, res)
	if day.Date != "2026-03-01" {
		t.Errorf("date = %q, want 2026-03-01", day.Date)
	}
	if len(day.Meals) != 0 || day.Totals.Calories != 0 {
		t.Errorf("day = %+v, want empty", day)
	}
}

// TestResources verifies the catalog and today resources return JSON
// under the requested URI.
func TestResources(t *testing.T) {
	h := seededHandlers(t)
	ctx := context.Background()

	cases := []struct {
		uri  string
		read func(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error)
		key  string
	}{
		{"rpfocus://catalog", h.catalog, "workouts"},
		{"rpfocus://today", h.today, "training"},
	}

	for _, tc := range cases {
		t.Run(tc.uri, func(t *testing.T) {
			var req mcp.ReadResourceRequest
			req.Params.URI = tc.uri

			contents, err := tc.read(ctx, req)
			if err != nil {
				t.Fatal(err)
			}
			text, ok := contents[0].(mcp.TextResourceContents)
			if !ok {
				t.Fatalf("content type %T", contents[0])
			}
			if text.URI != tc.uri {
				t.Errorf("uri = %q, want %q", text.URI, tc.uri)
			}
			var body map[string]json.RawMessage
			if err := json.Unmarshal([]byte(text.Text), &body); err != nil {
				t.Fatal(err)
			}
			if _, ok := body[tc.key]; !ok {
				t.Errorf("missing %q in %s", tc.key, text.Text)
			}
		})
	}
}

// TestNewRegistersEverything verifies the server builds with a remote source.
func TestNewRegistersEverything(t *testing.T) {
	if s := New(NewHTTPClient("http://127.0.0.1:1"), "test", discardLogger()); s == nil {
		t.Fatal("New returned nil")
	}
}
