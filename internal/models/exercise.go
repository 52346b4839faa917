package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Exercise is a movement the user can log sets for.
type Exercise struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	TargetMuscleGroup string    `json:"target_muscle_group"`
	Instructions      *string   `json:"instructions,omitempty"`
	FormCues          *string   `json:"form_cues,omitempty"`
	VideoURL          *string   `json:"video_url,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// NewExercise returns an Exercise with a fresh ID.
func NewExercise(name, muscleGroup string) Exercise {
	return Exercise{
		ID:                uuid.New(),
		Name:              name,
		TargetMuscleGroup: muscleGroup,
		CreatedAt:         time.Now(),
	}
}

// FormCueList splits the newline-delimited form cues, dropping blank lines.
func (e Exercise) FormCueList() []string {
	if e.FormCues == nil {
		return nil
	}
	var cues []string
	for _, line := range strings.Split(*e.FormCues, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			cues = append(cues, line)
		}
	}
	return cues
}
