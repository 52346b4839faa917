package mcp

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/liftlog/internal/analytics"
	"github.com/meltforce/liftlog/internal/display"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/session"
	"github.com/meltforce/liftlog/internal/storage"
	"github.com/meltforce/liftlog/internal/units"
)

// defaultTimeRange returns start/end defaulting to the last days days.
func defaultTimeRange(startStr, endStr string, days int) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -days)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse(time.DateOnly, s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

var unitOption = mcp.WithString("unit",
	mcp.Description("Weight unit for the result. Defaults to the user's preferred unit."),
	mcp.Enum("lbs", "kg"))

// --- Tool definitions ---

var toolGetPreviousSets = mcp.NewTool("get_previous_sets",
	mcp.WithDescription("What was lifted the last time an exercise was trained: weight and reps for each set position of the most recent session."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name (case-insensitive) or ID")),
	mcp.WithString("before", mcp.Description("Only consider sessions before this time (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
	unitOption,
)

var toolGetExerciseHistory = mcp.NewTool("get_exercise_history",
	mcp.WithDescription("Per-day training history of one exercise with volume, heaviest set and lifetime totals."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name (case-insensitive) or ID")),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 365 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
	unitOption,
)

var toolGetWeeklyVolume = mcp.NewTool("get_weekly_volume",
	mcp.WithDescription("Training volume (reps x weight) per ISO week, optionally limited to one muscle group."),
	mcp.WithNumber("weeks", mcp.Description("Number of weeks including the current one. Defaults to 12.")),
	mcp.WithString("muscle_group", mcp.Description("Only count exercises targeting this muscle group")),
	unitOption,
)

var toolGetMuscleGroupBreakdown = mcp.NewTool("get_muscle_group_breakdown",
	mcp.WithDescription("Share of training volume per muscle group, with the contributing exercises."),
	mcp.WithNumber("days", mcp.Description("Look-back window in days. Defaults to 30.")),
	unitOption,
)

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List exercises with how often they were trained, when last, and the heaviest weight logged."),
	mcp.WithString("muscle_group", mcp.Description("Filter by target muscle group")),
	unitOption,
)

var toolGetWorkoutDay = mcp.NewTool("get_workout_day",
	mcp.WithDescription("Everything logged on one calendar day, grouped by exercise."),
	mcp.WithString("date", mcp.Description("Day as YYYY-MM-DD. Defaults to today.")),
	unitOption,
)

// --- Helpers ---

// unit resolves the requested unit, falling back to the stored preference.
func (h *handlers) unit(ctx context.Context, req mcp.CallToolRequest) (models.WeightUnit, error) {
	if raw := req.GetString("unit", ""); raw != "" {
		return models.ParseWeightUnit(raw)
	}
	p, err := h.ds.GetOrCreatePreferences(ctx)
	if err != nil {
		return "", err
	}
	return p.WeightUnit, nil
}

// exercise resolves an ID or a case-insensitive name.
func (h *handlers) exercise(ctx context.Context, ref string) (*models.Exercise, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return h.ds.GetExercise(ctx, id)
	}
	return h.ds.FindExerciseByName(ctx, ref)
}

func (h *handlers) toolError(tool string, err error) *mcp.CallToolResult {
	if errors.Is(err, storage.ErrNotFound) {
		return mcp.NewToolResultError("exercise not found")
	}
	h.log.Error("mcp "+tool, "error", err)
	return mcp.NewToolResultError("query failed: " + err.Error())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// --- Tool handlers ---

func (h *handlers) getPreviousSets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}
	unit, err := h.unit(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	before := h.now()
	if raw := req.GetString("before", ""); raw != "" {
		if before, err = parseFlexTime(raw); err != nil {
			return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
		}
	}

	ex, err := h.exercise(ctx, ref)
	if err != nil {
		return h.toolError("get_previous_sets", err), nil
	}
	logs, err := h.ds.ListSetLogs(ctx, models.SetLogFilter{ExerciseID: &ex.ID})
	if err != nil {
		return h.toolError("get_previous_sets", err), nil
	}

	opts := h.opts
	opts.Before = before
	prev := display.NewPrevious(ex.ID, session.Resolve(logs, ex.ID, opts), unit)
	return jsonResult(map[string]any{
		"exercise": ex.Name,
		"unit":     unit,
		"sets":     prev.Sets,
	})
}

func (h *handlers) getExerciseHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""), 365)
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}
	unit, err := h.unit(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ex, err := h.exercise(ctx, ref)
	if err != nil {
		return h.toolError("get_exercise_history", err), nil
	}
	logs, err := h.ds.ListSetLogs(ctx, models.SetLogFilter{ExerciseID: &ex.ID, Start: start, End: end})
	if err != nil {
		return h.toolError("get_exercise_history", err), nil
	}

	sessions, summary := analytics.ExerciseSummary(logs, h.opts.Location)
	return jsonResult(map[string]any{
		"exercise": ex.Name,
		"history":  display.NewHistory(ex.ID, sessions, summary, unit),
	})
}

func (h *handlers) getWeeklyVolume(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weeks := req.GetInt("weeks", 12)
	if weeks < 1 {
		return mcp.NewToolResultError("weeks must be positive"), nil
	}
	unit, err := h.unit(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	since := analytics.WeekStart(h.now(), h.opts.Location).AddDate(0, 0, -7*(weeks-1))
	records, err := h.ds.ListSetLogs(ctx, models.SetLogFilter{Start: since})
	if err != nil {
		return h.toolError("get_weekly_volume", err), nil
	}
	group := req.GetString("muscle_group", "")
	if group != "" {
		exercises, err := h.ds.ListExercises(ctx, "")
		if err != nil {
			return h.toolError("get_weekly_volume", err), nil
		}
		records = analytics.FilterByMuscleGroup(records, exercises, group)
	}

	return jsonResult(map[string]any{
		"unit":         unit,
		"muscle_group": group,
		"weeks":        display.WeeklyVolume(analytics.WeeklyVolume(records, h.opts.Location), unit),
	})
}

func (h *handlers) getMuscleGroupBreakdown(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := req.GetInt("days", 30)
	if days < 1 {
		return mcp.NewToolResultError("days must be positive"), nil
	}
	unit, err := h.unit(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	since := session.StartOfDay(h.now(), h.opts.Location).AddDate(0, 0, -(days - 1))
	records, err := h.ds.ListSetLogs(ctx, models.SetLogFilter{Start: since})
	if err != nil {
		return h.toolError("get_muscle_group_breakdown", err), nil
	}
	exercises, err := h.ds.ListExercises(ctx, "")
	if err != nil {
		return h.toolError("get_muscle_group_breakdown", err), nil
	}

	return jsonResult(map[string]any{
		"unit":   unit,
		"since":  since.Format(time.DateOnly),
		"groups": display.MuscleGroups(analytics.MuscleGroupBreakdown(records, exercises, since), unit),
	})
}

type exerciseListing struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	MuscleGroup string    `json:"muscle_group"`
	Workouts    int       `json:"workouts"`
	LastTrained *string   `json:"last_trained,omitempty"`
	BestWeight  *float64  `json:"best_weight,omitempty"`
	BestDisplay string    `json:"best_display,omitempty"`
}

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	unit, err := h.unit(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	exercises, err := h.ds.ListExercises(ctx, req.GetString("muscle_group", ""))
	if err != nil {
		return h.toolError("list_exercises", err), nil
	}
	records, err := h.ds.ListSetLogs(ctx, models.SetLogFilter{})
	if err != nil {
		return h.toolError("list_exercises", err), nil
	}

	byExercise := make(map[uuid.UUID][]models.SetLog)
	for _, r := range records {
		if r.ExerciseID != nil {
			byExercise[*r.ExerciseID] = append(byExercise[*r.ExerciseID], r)
		}
	}

	out := make([]exerciseListing, 0, len(exercises))
	for _, e := range exercises {
		l := exerciseListing{ID: e.ID, Name: e.Name, MuscleGroup: e.TargetMuscleGroup}
		logs := byExercise[e.ID]
		if len(logs) > 0 {
			sessions, summary := analytics.ExerciseSummary(logs, h.opts.Location)
			last := sessions[len(sessions)-1].Day.Format(time.DateOnly)
			best := units.ToDisplay(summary.MaxWeightLbs, unit)
			l.Workouts = summary.Workouts
			l.LastTrained = &last
			l.BestWeight = &best
			l.BestDisplay = units.DisplayWeight(summary.MaxWeightLbs, unit, units.DefaultDecimals)
		}
		out = append(out, l)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return jsonResult(map[string]any{"unit": unit, "exercises": out})
}

func (h *handlers) getWorkoutDay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	loc := h.opts.Location
	day := session.StartOfDay(h.now(), loc)
	if raw := req.GetString("date", ""); raw != "" {
		d, err := time.ParseInLocation(time.DateOnly, raw, loc)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid date %q, want YYYY-MM-DD", raw)), nil
		}
		day = d
	}
	unit, err := h.unit(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	records, err := h.ds.ListSetLogs(ctx, models.SetLogFilter{
		Start: day,
		End:   day.AddDate(0, 0, 1).Add(-time.Millisecond),
	})
	if err != nil {
		return h.toolError("get_workout_day", err), nil
	}
	exercises, err := h.ds.ListExercises(ctx, "")
	if err != nil {
		return h.toolError("get_workout_day", err), nil
	}

	return jsonResult(display.NewDay(analytics.DayDetail(records, exercises, day, loc), unit))
}
