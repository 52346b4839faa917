// Package display renders stored records in a presentation unit. Everything
// below the API boundary is in pounds; these views are the only place where
// weights are converted for output.
package display

import (
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/analytics"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/session"
	"github.com/meltforce/liftlog/internal/units"
)

// Set is a stored set log in the display unit. Its JSON keeps the stored
// fields, so it also decodes back into a models.SetLog.
type Set struct {
	ID         uuid.UUID         `json:"id"`
	ExerciseID *uuid.UUID        `json:"exercise_id"`
	SetNumber  int               `json:"set_number"`
	Reps       int               `json:"reps"`
	Weight     float64           `json:"weight"`
	WeightLbs  float64           `json:"weight_lbs"`
	Unit       models.WeightUnit `json:"unit"`
	Display    string            `json:"display"`
	Notes      *string           `json:"notes,omitempty"`
	LoggedAt   time.Time         `json:"logged_at"`
}

func NewSet(l models.SetLog, unit models.WeightUnit) Set {
	return Set{
		ID:         l.ID,
		ExerciseID: l.ExerciseID,
		SetNumber:  l.SetNumber,
		Reps:       l.Reps,
		Weight:     units.ToDisplay(l.WeightLbs, unit),
		WeightLbs:  l.WeightLbs,
		Unit:       unit,
		Display:    units.DisplayWeight(l.WeightLbs, unit, units.DefaultDecimals),
		Notes:      l.Notes,
		LoggedAt:   l.LoggedAt,
	}
}

func Sets(logs []models.SetLog, unit models.WeightUnit) []Set {
	out := make([]Set, 0, len(logs))
	for _, l := range logs {
		out = append(out, NewSet(l, unit))
	}
	return out
}

// Performance is one position of a previous session.
type Performance struct {
	SetNumber int     `json:"set_number"`
	Weight    float64 `json:"weight"`
	WeightLbs float64 `json:"weight_lbs"`
	Reps      int     `json:"reps"`
	Display   string  `json:"display"`
}

func newPerformance(n int, p session.Performance, unit models.WeightUnit) Performance {
	return Performance{
		SetNumber: n,
		Weight:    units.ToDisplay(p.WeightLbs, unit),
		WeightLbs: p.WeightLbs,
		Reps:      p.Reps,
		Display:   units.DisplayWeight(p.WeightLbs, unit, units.DefaultDecimals),
	}
}

// Previous lists a previous session in set-number order.
type Previous struct {
	ExerciseID uuid.UUID         `json:"exercise_id"`
	Unit       models.WeightUnit `json:"unit"`
	Sets       []Performance     `json:"sets"`
}

func NewPrevious(exerciseID uuid.UUID, prev session.Previous, unit models.WeightUnit) Previous {
	out := Previous{ExerciseID: exerciseID, Unit: unit, Sets: make([]Performance, 0, len(prev))}
	for _, n := range prev.Positions() {
		out.Sets = append(out.Sets, newPerformance(n, prev[n], unit))
	}
	return out
}

// Entry is a pre-filled session row.
type Entry struct {
	SetNumber int          `json:"set_number"`
	Weight    float64      `json:"weight"`
	Reps      int          `json:"reps"`
	Completed bool         `json:"completed"`
	Previous  *Performance `json:"previous,omitempty"`
}

// Plan is the starting state of one exercise in a session.
type Plan struct {
	Exercise models.Exercise   `json:"exercise"`
	Unit     models.WeightUnit `json:"unit"`
	Previous []Performance     `json:"previous"`
	Entries  []Entry           `json:"entries"`
}

func NewPlan(ex models.Exercise, prev session.Previous, entries []session.Entry, unit models.WeightUnit) Plan {
	p := Plan{
		Exercise: ex,
		Unit:     unit,
		Previous: NewPrevious(ex.ID, prev, unit).Sets,
		Entries:  make([]Entry, 0, len(entries)),
	}
	for _, e := range entries {
		entry := Entry{
			SetNumber: e.SetNumber,
			Weight:    units.ToDisplay(e.WeightLbs, unit),
			Reps:      e.Reps,
			Completed: e.Completed,
		}
		if e.Previous != nil {
			perf := newPerformance(e.SetNumber, *e.Previous, unit)
			entry.Previous = &perf
		}
		p.Entries = append(p.Entries, entry)
	}
	return p
}

// DaySession is one calendar day of an exercise's history.
type DaySession struct {
	Day       time.Time `json:"day"`
	Volume    float64   `json:"volume"`
	MaxWeight float64   `json:"max_weight"`
	TotalReps int       `json:"total_reps"`
	SetCount  int       `json:"set_count"`
	Sets      []Set     `json:"sets"`
}

// Summary holds lifetime totals in the display unit.
type Summary struct {
	Workouts          int     `json:"workouts"`
	TotalSets         int     `json:"total_sets"`
	TotalVolume       float64 `json:"total_volume"`
	MaxWeight         float64 `json:"max_weight"`
	BestSessionVolume float64 `json:"best_session_volume"`
}

// History is an exercise's per-day sessions, newest first, with totals.
type History struct {
	ExerciseID uuid.UUID         `json:"exercise_id"`
	Unit       models.WeightUnit `json:"unit"`
	Sessions   []DaySession      `json:"sessions"`
	Summary    Summary           `json:"summary"`
}

func NewHistory(exerciseID uuid.UUID, sessions []analytics.DaySession, sum analytics.Summary, unit models.WeightUnit) History {
	h := History{
		ExerciseID: exerciseID,
		Unit:       unit,
		Sessions:   make([]DaySession, 0, len(sessions)),
		Summary: Summary{
			Workouts:          sum.Workouts,
			TotalSets:         sum.TotalSets,
			TotalVolume:       units.ToDisplay(sum.TotalVolume, unit),
			MaxWeight:         units.ToDisplay(sum.MaxWeightLbs, unit),
			BestSessionVolume: units.ToDisplay(sum.BestSessionVolume, unit),
		},
	}
	for i := len(sessions) - 1; i >= 0; i-- {
		ds := sessions[i]
		h.Sessions = append(h.Sessions, DaySession{
			Day:       ds.Day,
			Volume:    units.ToDisplay(ds.Volume, unit),
			MaxWeight: units.ToDisplay(ds.MaxWeightLbs, unit),
			TotalReps: ds.TotalReps,
			SetCount:  ds.SetCount,
			Sets:      Sets(ds.Sets, unit),
		})
	}
	return h
}

// WeekVolume is one ISO week of volume.
type WeekVolume struct {
	WeekStart time.Time `json:"week_start"`
	Volume    float64   `json:"volume"`
	Sets      int       `json:"sets"`
}

func WeeklyVolume(weeks []analytics.WeekVolume, unit models.WeightUnit) []WeekVolume {
	out := make([]WeekVolume, 0, len(weeks))
	for _, w := range weeks {
		out = append(out, WeekVolume{
			WeekStart: w.WeekStart,
			Volume:    units.ToDisplay(w.Volume, unit),
			Sets:      w.Sets,
		})
	}
	return out
}

// MuscleGroups converts a breakdown's volumes. Percentages are unit-free.
func MuscleGroups(groups []analytics.MuscleGroupVolume, unit models.WeightUnit) []analytics.MuscleGroupVolume {
	out := make([]analytics.MuscleGroupVolume, 0, len(groups))
	for _, g := range groups {
		c := analytics.MuscleGroupVolume{
			Group:      g.Group,
			Volume:     units.ToDisplay(g.Volume, unit),
			Percentage: g.Percentage,
			Exercises:  make([]analytics.ExerciseVolume, 0, len(g.Exercises)),
		}
		for _, e := range g.Exercises {
			e.Volume = units.ToDisplay(e.Volume, unit)
			c.Exercises = append(c.Exercises, e)
		}
		out = append(out, c)
	}
	return out
}

// ExerciseDay is one exercise's sets on a calendar day.
type ExerciseDay struct {
	ExerciseID  *uuid.UUID `json:"exercise_id"`
	Name        string     `json:"name"`
	MuscleGroup string     `json:"muscle_group"`
	Volume      float64    `json:"volume"`
	MaxWeight   float64    `json:"max_weight"`
	Sets        []Set      `json:"sets"`
}

// Day is the detail of one calendar day.
type Day struct {
	Date      string            `json:"date"`
	Unit      models.WeightUnit `json:"unit"`
	Volume    float64           `json:"volume"`
	Exercises []ExerciseDay     `json:"exercises"`
}

func NewDay(d analytics.Day, unit models.WeightUnit) Day {
	out := Day{
		Date:      d.Date.Format(time.DateOnly),
		Unit:      unit,
		Volume:    units.ToDisplay(d.Volume, unit),
		Exercises: make([]ExerciseDay, 0, len(d.Exercises)),
	}
	for _, e := range d.Exercises {
		out.Exercises = append(out.Exercises, ExerciseDay{
			ExerciseID:  e.ExerciseID,
			Name:        e.Name,
			MuscleGroup: e.MuscleGroup,
			Volume:      units.ToDisplay(e.Volume, unit),
			MaxWeight:   units.ToDisplay(e.MaxWeightLbs, unit),
			Sets:        Sets(e.Sets, unit),
		})
	}
	return out
}

// Dates formats calendar days as YYYY-MM-DD.
func Dates(days []time.Time) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, d.Format(time.DateOnly))
	}
	return out
}
