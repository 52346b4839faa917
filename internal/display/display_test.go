package display

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/analytics"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSet_Kilograms(t *testing.T) {
	ex := uuid.New()
	l := models.SetLog{ID: uuid.New(), ExerciseID: &ex, SetNumber: 1, Reps: 5, WeightLbs: 132.277}

	s := NewSet(l, models.Kilograms)
	assert.Equal(t, "60.0 kg", s.Display)
	assert.InDelta(t, 60.0, s.Weight, 1e-3)
	assert.Equal(t, 132.277, s.WeightLbs)

	// The view decodes back into the stored shape.
	data, err := json.Marshal(s)
	require.NoError(t, err)
	var back models.SetLog
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, l.ID, back.ID)
	assert.Equal(t, 132.277, back.WeightLbs)
}

func TestNewPrevious_Ordered(t *testing.T) {
	prev := session.Previous{
		3: {WeightLbs: 135, Reps: 8},
		1: {WeightLbs: 135, Reps: 12},
		2: {WeightLbs: 135, Reps: 10},
	}
	p := NewPrevious(uuid.New(), prev, models.Pounds)
	require.Len(t, p.Sets, 3)
	for i, want := range []int{12, 10, 8} {
		assert.Equal(t, i+1, p.Sets[i].SetNumber)
		assert.Equal(t, want, p.Sets[i].Reps)
		assert.Equal(t, "135.0 lbs", p.Sets[i].Display)
	}
}

func TestNewPlan_EntriesConverted(t *testing.T) {
	ex := models.NewExercise("Bench Press", "Chest")
	prev := session.Previous{1: {WeightLbs: 220.462262, Reps: 5}}
	entries := session.Prefill(prev, session.PrefillPadded)

	p := NewPlan(ex, prev, entries, models.Kilograms)
	require.Len(t, p.Entries, 1)
	assert.InDelta(t, 100.0, p.Entries[0].Weight, 1e-3)
	require.NotNil(t, p.Entries[0].Previous)
	assert.Equal(t, "100.0 kg", p.Entries[0].Previous.Display)
}

func TestNewHistory_NewestFirst(t *testing.T) {
	ex := uuid.New()
	loc := time.UTC
	logs := []models.SetLog{
		{ExerciseID: &ex, SetNumber: 1, Reps: 10, WeightLbs: 100, LoggedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, loc)},
		{ExerciseID: &ex, SetNumber: 1, Reps: 10, WeightLbs: 110, LoggedAt: time.Date(2024, 3, 4, 10, 0, 0, 0, loc)},
	}
	sessions, sum := analytics.ExerciseSummary(logs, loc)

	h := NewHistory(ex, sessions, sum, models.Pounds)
	require.Len(t, h.Sessions, 2)
	assert.Equal(t, 4, h.Sessions[0].Day.Day())
	assert.Equal(t, 2, h.Summary.Workouts)
	assert.Equal(t, 110.0, h.Summary.MaxWeight)
	assert.Equal(t, 2100.0, h.Summary.TotalVolume)
}

func TestMuscleGroups_PercentUnchanged(t *testing.T) {
	groups := []analytics.MuscleGroupVolume{{
		Group: "Chest", Volume: 2204.62262, Percentage: 100,
		Exercises: []analytics.ExerciseVolume{{Name: "Bench", Volume: 2204.62262}},
	}}
	out := MuscleGroups(groups, models.Kilograms)
	assert.InDelta(t, 1000.0, out[0].Volume, 1e-3)
	assert.InDelta(t, 1000.0, out[0].Exercises[0].Volume, 1e-3)
	assert.Equal(t, 100.0, out[0].Percentage)
	// Input is not modified.
	assert.Equal(t, 2204.62262, groups[0].Exercises[0].Volume)
}

func TestDates(t *testing.T) {
	days := []time.Time{time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, []string{"2024-03-01"}, Dates(days))
}
