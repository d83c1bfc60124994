package mcp

import (
	"context"
	"fmt"
	"regexp"

	"github.com/claude/rpfocus/internal/models"
	"github.com/claude/rpfocus/internal/program"
	"github.com/mark3labs/mcp-go/mcp"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

var (
	weekDesc = fmt.Sprintf("Program week, 1-%d", program.Weeks)
	dayDesc  = fmt.Sprintf("Training day within the week, 0-%d", program.DaysPerWeek-1)
)

// modeArg reads the optional "mode" argument. Empty means the stored mode.
func modeArg(req mcp.CallToolRequest) (models.TrainingMode, error) {
	mode := models.TrainingMode(req.GetString("mode", ""))
	if mode != "" && !mode.Valid() {
		return "", fmt.Errorf("unknown mode %q", mode)
	}
	return mode, nil
}

func weekArg(req mcp.CallToolRequest) (int, error) {
	week, err := req.RequireInt("week")
	if err != nil {
		return 0, fmt.Errorf("week parameter is required")
	}
	if err := program.ValidateWeek(week); err != nil {
		return 0, err
	}
	return week, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// --- Tool definitions ---

var toolGetWeekPlan = mcp.NewTool("get_week_plan",
	mcp.WithDescription("Prescribed workouts and working sets for every training day of a program week."),
	mcp.WithNumber("week", mcp.Required(), mcp.Description(weekDesc), mcp.Min(1), mcp.Max(program.Weeks)),
	mcp.WithString("mode", mcp.Description("Training mode. Defaults to the mode saved in the tracker."), mcp.Enum(string(models.ModeMaintenance), string(models.ModeBulking))),
)

var toolGetDayPlan = mcp.NewTool("get_day_plan",
	mcp.WithDescription("Workout and per-exercise set prescription for one training day."),
	mcp.WithNumber("week", mcp.Required(), mcp.Description(weekDesc), mcp.Min(1), mcp.Max(program.Weeks)),
	mcp.WithNumber("day", mcp.Required(), mcp.Description(dayDesc), mcp.Min(0), mcp.Max(program.DaysPerWeek-1)),
	mcp.WithString("mode", mcp.Description("Training mode. Defaults to the mode saved in the tracker."), mcp.Enum(string(models.ModeMaintenance), string(models.ModeBulking))),
)

var toolGetWeeklyVolume = mcp.NewTool("get_weekly_volume",
	mcp.WithDescription("Weekly working sets per muscle group with volume zone (none, low, productive, high) and ceiling."),
	mcp.WithNumber("week", mcp.Required(), mcp.Description(weekDesc), mcp.Min(1), mcp.Max(program.Weeks)),
	mcp.WithString("mode", mcp.Description("Training mode. Defaults to the mode saved in the tracker."), mcp.Enum(string(models.ModeMaintenance), string(models.ModeBulking))),
)

var toolGetWeeklyGuidance = mcp.NewTool("get_weekly_guidance",
	mcp.WithDescription("RIR target, phase and coaching tips for a program week."),
	mcp.WithNumber("week", mcp.Required(), mcp.Description(weekDesc), mcp.Min(1), mcp.Max(program.Weeks)),
)

var toolGetExerciseHistory = mcp.NewTool("get_exercise_history",
	mcp.WithDescription("Most recently logged working weight (kg) per exercise. Optionally filtered to one exercise id."),
	mcp.WithString("exercise", mcp.Description("Exercise id (e.g. bp_flat). Omit for all exercises.")),
)

var toolGetNutritionTargets = mcp.NewTool("get_nutrition_targets",
	mcp.WithDescription("Saved nutrition profile with computed BMR, TDEE and daily calorie and macro targets."),
)

var toolGetNutritionDay = mcp.NewTool("get_nutrition_day",
	mcp.WithDescription("Meals logged on a date with calorie and macro totals and the remaining calories against target."),
	mcp.WithString("date", mcp.Description("Date (YYYY-MM-DD). Defaults to today.")),
)

// --- Tool handlers ---

func (h *handlers) getWeekPlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	week, err := weekArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mode, err := modeArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	plan, err := h.ds.WeekPlan(ctx, week, mode)
	if err != nil {
		h.log.Error("mcp get_week_plan", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(plan)
}

func (h *handlers) getDayPlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	week, err := weekArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	day, err := req.RequireInt("day")
	if err != nil {
		return mcp.NewToolResultError("day parameter is required"), nil
	}
	if err := program.ValidateDay(day); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mode, err := modeArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	plan, err := h.ds.DayPlan(ctx, week, day, mode)
	if err != nil {
		h.log.Error("mcp get_day_plan", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(plan)
}

func (h *handlers) getWeeklyVolume(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	week, err := weekArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mode, err := modeArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	vol, err := h.ds.WeeklyVolume(ctx, week, mode)
	if err != nil {
		h.log.Error("mcp get_weekly_volume", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(vol)
}

func (h *handlers) getWeeklyGuidance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	week, err := weekArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	g, err := h.ds.Guidance(ctx, week)
	if err != nil {
		h.log.Error("mcp get_weekly_guidance", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(g)
}

func (h *handlers) getExerciseHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	hist, err := h.ds.ExerciseHistory(ctx)
	if err != nil {
		h.log.Error("mcp get_exercise_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	id := req.GetString("exercise", "")
	if id == "" {
		return jsonResult(hist)
	}
	if _, _, ok := models.LookupExercise(id); !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown exercise %q", id)), nil
	}
	entry := map[string]any{"exercise": id}
	if w, ok := hist[id]; ok {
		entry["weight"] = w
	} else {
		entry["weight"] = nil
	}
	return jsonResult(entry)
}

func (h *handlers) getNutritionTargets(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := h.ds.NutritionProfile(ctx)
	if err != nil {
		h.log.Error("mcp get_nutrition_targets", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if p == nil {
		return mcp.NewToolResultError("no nutrition profile saved"), nil
	}
	return jsonResult(p)
}

func (h *handlers) getNutritionDay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date := req.GetString("date", "today")
	if date != "today" && !datePattern.MatchString(date) {
		return mcp.NewToolResultError("invalid date format: want YYYY-MM-DD"), nil
	}

	day, err := h.ds.NutritionDay(ctx, date)
	if err != nil {
		h.log.Error("mcp get_nutrition_day", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(day)
}
