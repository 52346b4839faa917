// Package analytics aggregates set logs into per-day sessions, weekly volume,
// muscle-group breakdowns and calendar views. Grouping here is always by local
// calendar day, independent of the previous-session policy.
package analytics

import (
	"sort"
	"time"

	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/session"
)

// DaySession aggregates the sets of one calendar day.
type DaySession struct {
	Day          time.Time       `json:"day"`
	Sets         []models.SetLog `json:"sets"`
	Volume       float64         `json:"volume"`
	MaxWeightLbs float64         `json:"max_weight_lbs"`
	TotalReps    int             `json:"total_reps"`
	SetCount     int             `json:"set_count"`
}

// Summary holds lifetime totals for one exercise.
type Summary struct {
	Workouts          int     `json:"workouts"`
	TotalSets         int     `json:"total_sets"`
	TotalVolume       float64 `json:"total_volume"`
	MaxWeightLbs      float64 `json:"max_weight_lbs"`
	BestSessionVolume float64 `json:"best_session_volume"`
}

// Volume sums reps × weight over records.
func Volume(records []models.SetLog) float64 {
	var v float64
	for _, r := range records {
		v += r.Volume()
	}
	return v
}

// GroupByDay buckets records by local calendar day, oldest day first.
// Sets within a day are ordered by set number.
func GroupByDay(records []models.SetLog, loc *time.Location) []DaySession {
	day2sets := make(map[time.Time][]models.SetLog)
	for _, r := range records {
		day := session.StartOfDay(r.LoggedAt, loc)
		day2sets[day] = append(day2sets[day], r)
	}

	sessions := make([]DaySession, 0, len(day2sets))
	for day, sets := range day2sets {
		sort.SliceStable(sets, func(i, j int) bool {
			return sets[i].SetNumber < sets[j].SetNumber
		})
		ds := DaySession{Day: day, Sets: sets, SetCount: len(sets)}
		for _, s := range sets {
			ds.Volume += s.Volume()
			ds.TotalReps += s.Reps
			if s.WeightLbs > ds.MaxWeightLbs {
				ds.MaxWeightLbs = s.WeightLbs
			}
		}
		sessions = append(sessions, ds)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Day.Before(sessions[j].Day)
	})
	return sessions
}

// Summarize computes lifetime totals from per-day sessions.
func Summarize(sessions []DaySession) Summary {
	s := Summary{Workouts: len(sessions)}
	for _, ds := range sessions {
		s.TotalSets += ds.SetCount
		s.TotalVolume += ds.Volume
		if ds.MaxWeightLbs > s.MaxWeightLbs {
			s.MaxWeightLbs = ds.MaxWeightLbs
		}
		if ds.Volume > s.BestSessionVolume {
			s.BestSessionVolume = ds.Volume
		}
	}
	return s
}

// ExerciseSummary groups records by day and summarizes them.
func ExerciseSummary(records []models.SetLog, loc *time.Location) ([]DaySession, Summary) {
	sessions := GroupByDay(records, loc)
	return sessions, Summarize(sessions)
}
