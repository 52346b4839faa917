package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/session"
	"github.com/meltforce/liftlog/internal/storage"
	"github.com/meltforce/liftlog/internal/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memSource is an in-memory DataSource.
type memSource struct {
	exercises []models.Exercise
	logs      []models.SetLog
	prefs     models.UserPreferences
}

func (m *memSource) ListExercises(_ context.Context, muscleGroup string) ([]models.Exercise, error) {
	out := []models.Exercise{}
	for _, e := range m.exercises {
		if muscleGroup == "" || e.TargetMuscleGroup == muscleGroup {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memSource) GetExercise(_ context.Context, id uuid.UUID) (*models.Exercise, error) {
	for _, e := range m.exercises {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memSource) FindExerciseByName(_ context.Context, name string) (*models.Exercise, error) {
	for _, e := range m.exercises {
		if strings.EqualFold(e.Name, name) {
			return &e, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memSource) ListSetLogs(_ context.Context, f models.SetLogFilter) ([]models.SetLog, error) {
	out := []models.SetLog{}
	for _, l := range m.logs {
		if f.ExerciseID != nil && !l.BelongsTo(*f.ExerciseID) {
			continue
		}
		if !f.Start.IsZero() && l.LoggedAt.Before(f.Start) {
			continue
		}
		if !f.End.IsZero() && l.LoggedAt.After(f.End) {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (m *memSource) GetOrCreatePreferences(context.Context) (*models.UserPreferences, error) {
	p := m.prefs
	return &p, nil
}

var (
	bench = models.Exercise{ID: uuid.New(), Name: "Bench Press", TargetMuscleGroup: "Chest"}
	squat = models.Exercise{ID: uuid.New(), Name: "Squat", TargetMuscleGroup: "Legs"}
	plank = models.Exercise{ID: uuid.New(), Name: "Plank", TargetMuscleGroup: "Core"}
	// Thursday
	testNow = time.Date(2026, 3, 12, 18, 0, 0, 0, time.UTC)
)

func setLog(ex models.Exercise, n, reps int, lbs float64, at time.Time) models.SetLog {
	id := ex.ID
	return models.SetLog{ID: uuid.New(), ExerciseID: &id, SetNumber: n, Reps: reps, WeightLbs: lbs, LoggedAt: at}
}

func newTestHandlers() *handlers {
	mar5 := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)
	mar10 := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	ds := &memSource{
		exercises: []models.Exercise{squat, bench, plank},
		logs: []models.SetLog{
			setLog(bench, 1, 8, 135, mar5),
			setLog(bench, 2, 6, 135, mar5.Add(3*time.Minute)),
			setLog(bench, 1, 5, 145, mar10),
			setLog(squat, 1, 5, 225, mar10.Add(30*time.Minute)),
		},
		prefs: models.DefaultPreferences(),
	}
	return &handlers{
		ds:   ds,
		opts: session.Options{Location: time.UTC},
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:  func() time.Time { return testNow },
	}
}

func toolRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func decodeResult[T any](t *testing.T, res *mcp.CallToolResult) T {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "content is %T", res.Content[0])
	require.False(t, res.IsError, text.Text)

	var v T
	require.NoError(t, json.Unmarshal([]byte(text.Text), &v))
	return v
}

type previousResult struct {
	Exercise string `json:"exercise"`
	Unit     string `json:"unit"`
	Sets     []struct {
		SetNumber int     `json:"set_number"`
		Weight    float64 `json:"weight"`
		WeightLbs float64 `json:"weight_lbs"`
		Reps      int     `json:"reps"`
		Display   string  `json:"display"`
	} `json:"sets"`
}

// TestGetPreviousSets verifies the most recent session is returned in the
// requested unit and that before moves the cutoff.
func TestGetPreviousSets(t *testing.T) {
	h := newTestHandlers()
	ctx := context.Background()

	res, err := h.getPreviousSets(ctx, toolRequest(map[string]any{"exercise": "bench press", "unit": "kg"}))
	require.NoError(t, err)
	got := decodeResult[previousResult](t, res)
	assert.Equal(t, "Bench Press", got.Exercise)
	assert.Equal(t, "kg", got.Unit)
	require.Len(t, got.Sets, 1)
	assert.Equal(t, 145.0, got.Sets[0].WeightLbs)
	assert.Equal(t, 5, got.Sets[0].Reps)
	assert.Equal(t, "65.8 kg", got.Sets[0].Display)

	res, err = h.getPreviousSets(ctx, toolRequest(map[string]any{"exercise": bench.ID.String(), "before": "2026-03-10"}))
	require.NoError(t, err)
	got = decodeResult[previousResult](t, res)
	assert.Equal(t, "lbs", got.Unit)
	require.Len(t, got.Sets, 2)
	assert.Equal(t, 1, got.Sets[0].SetNumber)
	assert.Equal(t, 8, got.Sets[0].Reps)
	assert.Equal(t, 2, got.Sets[1].SetNumber)
	assert.Equal(t, "135.0 lbs", got.Sets[1].Display)
}

// TestGetPreviousSetsErrors verifies argument and lookup failures surface as
// tool errors rather than protocol errors.
func TestGetPreviousSetsErrors(t *testing.T) {
	h := newTestHandlers()
	tests := []struct {
		name string
		args map[string]any
	}{
		{"missing exercise", map[string]any{}},
		{"unknown exercise", map[string]any{"exercise": "Deadlift"}},
		{"bad unit", map[string]any{"exercise": "Squat", "unit": "stone"}},
		{"bad before", map[string]any{"exercise": "Squat", "before": "yesterday"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := h.getPreviousSets(context.Background(), toolRequest(tt.args))
			require.NoError(t, err)
			assert.True(t, res.IsError)
		})
	}
}

// TestGetExerciseHistory verifies sessions come newest first with totals.
func TestGetExerciseHistory(t *testing.T) {
	h := newTestHandlers()
	res, err := h.getExerciseHistory(context.Background(), toolRequest(map[string]any{
		"exercise": "Bench Press",
		"start":    "2026-01-01",
		"end":      "2026-03-12T23:00:00Z",
	}))
	require.NoError(t, err)

	got := decodeResult[struct {
		History struct {
			Sessions []struct {
				Day    time.Time `json:"day"`
				Volume float64   `json:"volume"`
			} `json:"sessions"`
			Summary struct {
				Workouts    int     `json:"workouts"`
				TotalVolume float64 `json:"total_volume"`
				MaxWeight   float64 `json:"max_weight"`
			} `json:"summary"`
		} `json:"history"`
	}](t, res)

	require.Len(t, got.History.Sessions, 2)
	assert.Equal(t, 10, got.History.Sessions[0].Day.Day())
	assert.Equal(t, 725.0, got.History.Sessions[0].Volume)
	assert.Equal(t, 1890.0, got.History.Sessions[1].Volume)
	assert.Equal(t, 2, got.History.Summary.Workouts)
	assert.Equal(t, 2615.0, got.History.Summary.TotalVolume)
	assert.Equal(t, 145.0, got.History.Summary.MaxWeight)
}

// TestGetWeeklyVolume verifies the muscle group filter narrows the weeks.
func TestGetWeeklyVolume(t *testing.T) {
	h := newTestHandlers()
	sum := func(args map[string]any) float64 {
		res, err := h.getWeeklyVolume(context.Background(), toolRequest(args))
		require.NoError(t, err)
		got := decodeResult[struct {
			Weeks []struct {
				Volume float64 `json:"volume"`
			} `json:"weeks"`
		}](t, res)
		var total float64
		for _, w := range got.Weeks {
			total += w.Volume
		}
		return total
	}

	assert.Equal(t, 3740.0, sum(map[string]any{"weeks": 2}))
	assert.Equal(t, 2615.0, sum(map[string]any{"weeks": 2, "muscle_group": "Chest"}))
	// only the current week
	assert.Equal(t, 1850.0, sum(map[string]any{"weeks": 1}))

	res, err := h.getWeeklyVolume(context.Background(), toolRequest(map[string]any{"weeks": 0}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

// TestGetMuscleGroupBreakdown verifies shares across groups.
func TestGetMuscleGroupBreakdown(t *testing.T) {
	h := newTestHandlers()
	res, err := h.getMuscleGroupBreakdown(context.Background(), toolRequest(map[string]any{"days": 30}))
	require.NoError(t, err)

	got := decodeResult[struct {
		Groups []struct {
			Group      string  `json:"group"`
			Volume     float64 `json:"volume"`
			Percentage float64 `json:"percentage"`
		} `json:"groups"`
	}](t, res)

	byGroup := make(map[string]float64)
	var pct float64
	for _, g := range got.Groups {
		byGroup[g.Group] = g.Volume
		pct += g.Percentage
	}
	assert.Equal(t, 2615.0, byGroup["Chest"])
	assert.Equal(t, 1125.0, byGroup["Legs"])
	assert.InDelta(t, 100, pct, 0.01)
}

// TestListExercises verifies per-exercise training stats and name ordering.
func TestListExercises(t *testing.T) {
	h := newTestHandlers()
	res, err := h.listExercises(context.Background(), toolRequest(nil))
	require.NoError(t, err)

	got := decodeResult[struct {
		Exercises []exerciseListing `json:"exercises"`
	}](t, res)

	require.Len(t, got.Exercises, 3)
	assert.Equal(t, "Bench Press", got.Exercises[0].Name)
	assert.Equal(t, "Plank", got.Exercises[1].Name)
	assert.Equal(t, "Squat", got.Exercises[2].Name)

	b := got.Exercises[0]
	assert.Equal(t, 2, b.Workouts)
	require.NotNil(t, b.LastTrained)
	assert.Equal(t, "2026-03-10", *b.LastTrained)
	require.NotNil(t, b.BestWeight)
	assert.Equal(t, 145.0, *b.BestWeight)

	assert.Zero(t, got.Exercises[1].Workouts)
	assert.Nil(t, got.Exercises[1].LastTrained)
}

// TestGetWorkoutDay verifies a day's volume in kilograms.
func TestGetWorkoutDay(t *testing.T) {
	h := newTestHandlers()
	res, err := h.getWorkoutDay(context.Background(), toolRequest(map[string]any{"date": "2026-03-10", "unit": "kg"}))
	require.NoError(t, err)

	got := decodeResult[struct {
		Date      string  `json:"date"`
		Volume    float64 `json:"volume"`
		Exercises []struct {
			Name string `json:"name"`
		} `json:"exercises"`
	}](t, res)

	assert.Equal(t, "2026-03-10", got.Date)
	assert.InDelta(t, units.ToDisplay(1850, models.Kilograms), got.Volume, 1e-9)
	assert.Len(t, got.Exercises, 2)

	res, err = h.getWorkoutDay(context.Background(), toolRequest(map[string]any{"date": "03/10/2026"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func readResource(t *testing.T, fn func(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error), uri string, v any) {
	t.Helper()
	var req mcp.ReadResourceRequest
	req.Params.URI = uri
	contents, err := fn(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, contents, 1)
	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, uri, text.URI)
	require.NoError(t, json.Unmarshal([]byte(text.Text), v))
}

// TestResources verifies the catalog, recent sessions and preferences
// resources.
func TestResources(t *testing.T) {
	h := newTestHandlers()

	var catalog []models.Exercise
	readResource(t, h.exerciseCatalog, "liftlog://exercise_catalog", &catalog)
	assert.Len(t, catalog, 3)

	var recent struct {
		Unit string `json:"unit"`
		Days []struct {
			Date string `json:"date"`
		} `json:"days"`
	}
	readResource(t, h.recentSessions, "liftlog://recent_sessions", &recent)
	assert.Equal(t, "lbs", recent.Unit)
	require.Len(t, recent.Days, 2)
	assert.Equal(t, "2026-03-10", recent.Days[0].Date)
	assert.Equal(t, "2026-03-05", recent.Days[1].Date)

	var prefs models.UserPreferences
	readResource(t, h.preferences, "liftlog://preferences", &prefs)
	assert.Equal(t, models.Pounds, prefs.WeightUnit)
	assert.Equal(t, 90, prefs.DefaultRestSeconds)
}

// TestNewRegistersTools verifies the server advertises every tool.
func TestNewRegistersTools(t *testing.T) {
	s := New(&memSource{prefs: models.DefaultPreferences()}, session.Options{}, "test", slog.New(slog.NewTextHandler(io.Discard, nil)))
	msg := s.HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))

	raw, err := json.Marshal(msg)
	require.NoError(t, err)
	var resp struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(raw, &resp))

	var names []string
	for _, tool := range resp.Result.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"get_previous_sets", "get_exercise_history", "get_weekly_volume",
		"get_muscle_group_breakdown", "list_exercises", "get_workout_day",
	}, names)
}

// TestDefaultTimeRange verifies time range defaults and parsing.
func TestDefaultTimeRange(t *testing.T) {
	// Both empty: last N days
	start, end, err := defaultTimeRange("", "", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	diff := end.Sub(start)
	if diff.Hours() < 167 || diff.Hours() > 169 {
		t.Errorf("default range = %.0f hours, want ~168", diff.Hours())
	}

	// Explicit dates
	start, end, err = defaultTimeRange("2024-01-01", "2024-01-31", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Year() != 2024 || start.Month() != 1 || start.Day() != 1 {
		t.Errorf("start = %v, want 2024-01-01", start)
	}
	if end.Year() != 2024 || end.Month() != 1 || end.Day() != 31 {
		t.Errorf("end = %v, want 2024-01-31", end)
	}

	// Only end: start is N days before it
	start, _, err = defaultTimeRange("", "2024-01-31", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Day() != 1 {
		t.Errorf("start = %v, want 2024-01-01", start)
	}

	// RFC3339
	start, _, err = defaultTimeRange("2024-06-15T10:30:00Z", "", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Hour() != 10 || start.Minute() != 30 {
		t.Errorf("start = %v, want 10:30", start)
	}

	// Invalid
	if _, _, err = defaultTimeRange("not-a-date", "", 7); err == nil {
		t.Error("expected error for invalid date")
	}
}
