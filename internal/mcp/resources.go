package mcp

import (
	"context"
	"encoding/json"

	"github.com/claude/rpfocus/internal/models"
	"github.com/claude/rpfocus/internal/program"
	"github.com/mark3labs/mcp-go/mcp"
)

type catalogMuscle struct {
	ID      models.MuscleGroup `json:"id"`
	Label   string             `json:"label"`
	Ceiling int                `json:"ceiling"`
}

func (h *handlers) catalog(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	muscles := make([]catalogMuscle, 0, len(models.AllMuscleGroups))
	for _, m := range models.AllMuscleGroups {
		muscles = append(muscles, catalogMuscle{ID: m, Label: m.Label(), Ceiling: program.Ceiling(m)})
	}

	return jsonContents(req, map[string]any{
		"workouts":      models.Workouts(),
		"muscles":       muscles,
		"weeks":         program.Weeks,
		"days_per_week": program.DaysPerWeek,
	})
}

func (h *handlers) today(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	day, err := h.ds.CurrentDay(ctx)
	if err != nil {
		return nil, err
	}

	summary := map[string]any{"training": day}

	nutrition, err := h.ds.NutritionDay(ctx, "today")
	if err != nil {
		h.log.Warn("today: nutrition query failed", "error", err)
	} else {
		summary["nutrition"] = nutrition
	}

	return jsonContents(req, summary)
}

func jsonContents(req mcp.ReadResourceRequest, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
