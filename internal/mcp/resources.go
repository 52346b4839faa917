package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/liftlog/internal/analytics"
	"github.com/meltforce/liftlog/internal/display"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/session"
)

const recentSessionDays = 14

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

type catalogEntry struct {
	models.Exercise
	Cues []string `json:"cues,omitempty"`
}

func (h *handlers) exerciseCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	exercises, err := h.ds.ListExercises(ctx, "")
	if err != nil {
		return nil, err
	}
	out := make([]catalogEntry, 0, len(exercises))
	for _, e := range exercises {
		out = append(out, catalogEntry{Exercise: e, Cues: e.FormCueList()})
	}
	return jsonContents(req.Params.URI, out)
}

func (h *handlers) recentSessions(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	p, err := h.ds.GetOrCreatePreferences(ctx)
	if err != nil {
		return nil, err
	}
	loc := h.opts.Location
	since := session.StartOfDay(h.now(), loc).AddDate(0, 0, -(recentSessionDays - 1))

	records, err := h.ds.ListSetLogs(ctx, models.SetLogFilter{Start: since})
	if err != nil {
		return nil, err
	}
	exercises, err := h.ds.ListExercises(ctx, "")
	if err != nil {
		return nil, err
	}

	// newest day first
	workoutDays := analytics.WorkoutDays(records, loc)
	days := make([]display.Day, 0, len(workoutDays))
	for i := len(workoutDays) - 1; i >= 0; i-- {
		d := analytics.DayDetail(records, exercises, workoutDays[i], loc)
		days = append(days, display.NewDay(d, p.WeightUnit))
	}

	return jsonContents(req.Params.URI, map[string]any{
		"since": since.Format(time.DateOnly),
		"unit":  p.WeightUnit,
		"days":  days,
	})
}

func (h *handlers) preferences(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	p, err := h.ds.GetOrCreatePreferences(ctx)
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, p)
}
