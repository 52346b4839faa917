// Package health exports finished workouts to an external health store.
// Exports are best effort: failures are logged and never affect local data.
package health

import (
	"context"
	"errors"
	"time"
)

// CaloriesPerMinute is the moderate strength-training burn rate used for
// estimates.
const CaloriesPerMinute = 7.5

// ActivityStrengthTraining is the activity type attached to exported workouts.
const ActivityStrengthTraining = "traditional_strength_training"

// Errors reported by exporters.
var (
	ErrNotAuthorized = errors.New("health export not authorized")
	ErrNotAvailable  = errors.New("health export not available")
)

// Workout is one finished training session as sent to the health store.
type Workout struct {
	ActivityType string    `json:"activity_type"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	DurationSec  float64   `json:"duration_sec"`
	Calories     float64   `json:"calories_kcal"`
	Source       string    `json:"source"`
}

// NewWorkout builds a strength-training workout spanning start to end with
// an estimated calorie burn.
func NewWorkout(start, end time.Time) Workout {
	d := end.Sub(start)
	if d < 0 {
		d = 0
	}
	return Workout{
		ActivityType: ActivityStrengthTraining,
		Start:        start,
		End:          end,
		DurationSec:  d.Seconds(),
		Calories:     EstimateCalories(d.Minutes()),
		Source:       "liftlog",
	}
}

// EstimateCalories returns durationMinutes × 7.5 kcal.
func EstimateCalories(durationMinutes float64) float64 {
	return durationMinutes * CaloriesPerMinute
}

// Exporter writes workouts to a health store.
type Exporter interface {
	Authorize(ctx context.Context) error
	SaveWorkout(ctx context.Context, w Workout) error
}

// NoopExporter is used when export is disabled. It accepts everything.
type NoopExporter struct{}

func (NoopExporter) Authorize(context.Context) error            { return nil }
func (NoopExporter) SaveWorkout(context.Context, Workout) error { return nil }
