// Package mcp exposes the training plan, tracked progress and nutrition log
// as read-only Model Context Protocol tools and resources.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("RP Focus", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("RP Focus training tracker. Query the 10-week hypertrophy program, weekly muscle volume, RIR guidance, logged working weights and the nutrition log. All tools are read-only."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetWeekPlan, Handler: h.getWeekPlan},
		server.ServerTool{Tool: toolGetDayPlan, Handler: h.getDayPlan},
		server.ServerTool{Tool: toolGetWeeklyVolume, Handler: h.getWeeklyVolume},
		server.ServerTool{Tool: toolGetWeeklyGuidance, Handler: h.getWeeklyGuidance},
		server.ServerTool{Tool: toolGetExerciseHistory, Handler: h.getExerciseHistory},
		server.ServerTool{Tool: toolGetNutritionTargets, Handler: h.getNutritionTargets},
		server.ServerTool{Tool: toolGetNutritionDay, Handler: h.getNutritionDay},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resCatalog, Handler: h.catalog},
		server.ServerResource{Resource: resToday, Handler: h.today},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resCatalog = mcp.NewResource(
	"rpfocus://catalog",
	"Program Catalog",
	mcp.WithResourceDescription("The five workouts with their exercises, muscle groups and weekly set ceilings"),
	mcp.WithMIMEType("application/json"),
)

var resToday = mcp.NewResource(
	"rpfocus://today",
	"Today",
	mcp.WithResourceDescription("The selected training day with logged sets, plus today's meals and nutrition totals"),
	mcp.WithMIMEType("application/json"),
)
