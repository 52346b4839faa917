package models

import (
	"time"

	"github.com/google/uuid"
)

// SetLog is one logged set. WeightLbs is always pounds, whatever the user's
// display unit; conversion happens at the presentation boundary only.
type SetLog struct {
	ID         uuid.UUID  `json:"id"`
	ExerciseID *uuid.UUID `json:"exercise_id"`
	SetNumber  int        `json:"set_number"`
	Reps       int        `json:"reps"`
	WeightLbs  float64    `json:"weight_lbs"`
	Notes      *string    `json:"notes,omitempty"`
	LoggedAt   time.Time  `json:"logged_at"`
}

// Volume returns reps × weight in pounds.
func (s SetLog) Volume() float64 {
	return float64(s.Reps) * s.WeightLbs
}

// BelongsTo reports whether the set references the given exercise.
// Orphaned sets (nil reference) belong to nothing.
func (s SetLog) BelongsTo(exerciseID uuid.UUID) bool {
	return s.ExerciseID != nil && *s.ExerciseID == exerciseID
}

// SetLogFilter narrows a set log query. Zero values mean "no constraint".
type SetLogFilter struct {
	ExerciseID *uuid.UUID
	Start      time.Time
	End        time.Time
}
