package mcp

import (
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/liftlog/internal/session"
)

// New creates an MCP server with all tools and resources registered. opts
// selects the previous-session policy and the calendar zone.
func New(ds DataSource, opts session.Options, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("LiftLog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("LiftLog strength training log. Look up what was lifted last time, exercise history, weekly volume and muscle-group balance. Weights are reported in the user's preferred unit unless a unit is given."),
	)

	if opts.Location == nil {
		opts.Location = time.Local
	}
	h := &handlers{ds: ds, opts: opts, log: log, now: time.Now}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetPreviousSets, Handler: h.getPreviousSets},
		server.ServerTool{Tool: toolGetExerciseHistory, Handler: h.getExerciseHistory},
		server.ServerTool{Tool: toolGetWeeklyVolume, Handler: h.getWeeklyVolume},
		server.ServerTool{Tool: toolGetMuscleGroupBreakdown, Handler: h.getMuscleGroupBreakdown},
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
		server.ServerTool{Tool: toolGetWorkoutDay, Handler: h.getWorkoutDay},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resExerciseCatalog, Handler: h.exerciseCatalog},
		server.ServerResource{Resource: resRecentSessions, Handler: h.recentSessions},
		server.ServerResource{Resource: resPreferences, Handler: h.preferences},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds   DataSource
	opts session.Options
	log  *slog.Logger
	now  func() time.Time
}

// --- Resource definitions ---

var resExerciseCatalog = mcp.NewResource(
	"liftlog://exercise_catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("Every exercise with its target muscle group, instructions and form cues"),
	mcp.WithMIMEType("application/json"),
)

var resRecentSessions = mcp.NewResource(
	"liftlog://recent_sessions",
	"Recent Sessions",
	mcp.WithResourceDescription("Training days from the last 14 days with per-exercise sets and volume"),
	mcp.WithMIMEType("application/json"),
)

var resPreferences = mcp.NewResource(
	"liftlog://preferences",
	"Preferences",
	mcp.WithResourceDescription("Preferred weight unit, rest timer and health sync settings"),
	mcp.WithMIMEType("application/json"),
)
