package analytics

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/session"
)

// UnknownMuscleGroup labels sets whose exercise no longer resolves.
const UnknownMuscleGroup = "Unknown"

// WeekVolume is the volume of one ISO week, keyed by its Monday.
type WeekVolume struct {
	WeekStart time.Time `json:"week_start"`
	Volume    float64   `json:"volume"`
	Sets      int       `json:"sets"`
}

// WeeklyVolume buckets records into ISO weeks, oldest first.
func WeeklyVolume(records []models.SetLog, loc *time.Location) []WeekVolume {
	weeks := make(map[time.Time]*WeekVolume)
	for _, r := range records {
		start := WeekStart(r.LoggedAt, loc)
		w, ok := weeks[start]
		if !ok {
			w = &WeekVolume{WeekStart: start}
			weeks[start] = w
		}
		w.Volume += r.Volume()
		w.Sets++
	}

	result := make([]WeekVolume, 0, len(weeks))
	for _, w := range weeks {
		result = append(result, *w)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].WeekStart.Before(result[j].WeekStart)
	})
	return result
}

// WeekStart returns local midnight of the Monday starting t's ISO week.
func WeekStart(t time.Time, loc *time.Location) time.Time {
	day := session.StartOfDay(t, loc)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	return day.AddDate(0, 0, -offset)
}

// ExerciseVolume is one exercise's share of a muscle group.
type ExerciseVolume struct {
	ExerciseID uuid.UUID `json:"exercise_id"`
	Name       string    `json:"name"`
	Volume     float64   `json:"volume"`
	SetCount   int       `json:"set_count"`
}

// MuscleGroupVolume is the volume attributed to one muscle group.
type MuscleGroupVolume struct {
	Group      string           `json:"group"`
	Volume     float64          `json:"volume"`
	Percentage float64          `json:"percentage"`
	Exercises  []ExerciseVolume `json:"exercises"`
}

// MuscleGroupBreakdown attributes volume to muscle groups, largest first.
// Records before since are ignored when since is non-zero. Sets whose exercise
// is missing count towards UnknownMuscleGroup but are not listed per exercise.
func MuscleGroupBreakdown(records []models.SetLog, exercises []models.Exercise, since time.Time) []MuscleGroupVolume {
	byID := make(map[uuid.UUID]models.Exercise, len(exercises))
	for _, e := range exercises {
		byID[e.ID] = e
	}

	groups := make(map[string]*MuscleGroupVolume)
	perExercise := make(map[string]map[uuid.UUID]*ExerciseVolume)
	var total float64

	for _, r := range records {
		if !since.IsZero() && r.LoggedAt.Before(since) {
			continue
		}
		group := UnknownMuscleGroup
		var ex *models.Exercise
		if r.ExerciseID != nil {
			if e, ok := byID[*r.ExerciseID]; ok {
				ex = &e
				group = e.TargetMuscleGroup
			}
		}

		g, ok := groups[group]
		if !ok {
			g = &MuscleGroupVolume{Group: group}
			groups[group] = g
			perExercise[group] = make(map[uuid.UUID]*ExerciseVolume)
		}
		v := r.Volume()
		g.Volume += v
		total += v

		if ex == nil {
			continue
		}
		ev, ok := perExercise[group][ex.ID]
		if !ok {
			ev = &ExerciseVolume{ExerciseID: ex.ID, Name: ex.Name}
			perExercise[group][ex.ID] = ev
		}
		ev.Volume += v
		ev.SetCount++
	}

	result := make([]MuscleGroupVolume, 0, len(groups))
	for name, g := range groups {
		if total > 0 {
			g.Percentage = g.Volume / total * 100
		}
		for _, ev := range perExercise[name] {
			g.Exercises = append(g.Exercises, *ev)
		}
		sort.Slice(g.Exercises, func(i, j int) bool {
			if g.Exercises[i].Volume != g.Exercises[j].Volume {
				return g.Exercises[i].Volume > g.Exercises[j].Volume
			}
			return g.Exercises[i].Name < g.Exercises[j].Name
		})
		result = append(result, *g)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Volume != result[j].Volume {
			return result[i].Volume > result[j].Volume
		}
		return result[i].Group < result[j].Group
	})
	return result
}

// FilterByMuscleGroup keeps records whose exercise targets group.
// An empty group keeps everything.
func FilterByMuscleGroup(records []models.SetLog, exercises []models.Exercise, group string) []models.SetLog {
	if group == "" {
		return records
	}
	ids := make(map[uuid.UUID]bool)
	for _, e := range exercises {
		if e.TargetMuscleGroup == group {
			ids[e.ID] = true
		}
	}
	var out []models.SetLog
	for _, r := range records {
		if r.ExerciseID != nil && ids[*r.ExerciseID] {
			out = append(out, r)
		}
	}
	return out
}
