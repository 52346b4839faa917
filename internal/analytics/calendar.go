package analytics

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/session"
)

// WorkoutDays returns the distinct local days with at least one set, ascending.
func WorkoutDays(records []models.SetLog, loc *time.Location) []time.Time {
	seen := make(map[time.Time]bool)
	var days []time.Time
	for _, r := range records {
		d := session.StartOfDay(r.LoggedAt, loc)
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// ExerciseDay is one exercise's sets on a calendar day.
type ExerciseDay struct {
	ExerciseID   *uuid.UUID      `json:"exercise_id"`
	Name         string          `json:"name"`
	MuscleGroup  string          `json:"muscle_group"`
	Sets         []models.SetLog `json:"sets"`
	Volume       float64         `json:"volume"`
	MaxWeightLbs float64         `json:"max_weight_lbs"`
}

// Day is everything logged on one calendar day.
type Day struct {
	Date      time.Time     `json:"date"`
	Volume    float64       `json:"volume"`
	Exercises []ExerciseDay `json:"exercises"`
}

// DayDetail groups the sets logged on day by exercise. Sets of deleted
// exercises are reported under UnknownMuscleGroup.
func DayDetail(records []models.SetLog, exercises []models.Exercise, day time.Time, loc *time.Location) Day {
	start := session.StartOfDay(day, loc)
	end := start.AddDate(0, 0, 1)

	byID := make(map[uuid.UUID]models.Exercise, len(exercises))
	for _, e := range exercises {
		byID[e.ID] = e
	}

	result := Day{Date: start}
	index := make(map[string]int)
	for _, r := range records {
		if r.LoggedAt.Before(start) || !r.LoggedAt.Before(end) {
			continue
		}
		key := ""
		name, group := UnknownMuscleGroup, UnknownMuscleGroup
		if r.ExerciseID != nil {
			key = r.ExerciseID.String()
			if e, ok := byID[*r.ExerciseID]; ok {
				name, group = e.Name, e.TargetMuscleGroup
			}
		}
		i, ok := index[key]
		if !ok {
			i = len(result.Exercises)
			index[key] = i
			result.Exercises = append(result.Exercises, ExerciseDay{
				ExerciseID:  r.ExerciseID,
				Name:        name,
				MuscleGroup: group,
			})
		}
		ed := &result.Exercises[i]
		ed.Sets = append(ed.Sets, r)
		ed.Volume += r.Volume()
		if r.WeightLbs > ed.MaxWeightLbs {
			ed.MaxWeightLbs = r.WeightLbs
		}
		result.Volume += r.Volume()
	}

	for i := range result.Exercises {
		sets := result.Exercises[i].Sets
		sort.SliceStable(sets, func(a, b int) bool { return sets[a].SetNumber < sets[b].SetNumber })
	}
	sort.SliceStable(result.Exercises, func(i, j int) bool {
		return result.Exercises[i].Name < result.Exercises[j].Name
	})
	return result
}
