package alpha

import "strings"

// UnknownMuscleGroup is assigned when no keyword matches.
const UnknownMuscleGroup = "Unknown"

// muscleKeywords is checked in order; the first hit wins.
var muscleKeywords = []struct {
	keyword string
	group   string
}{
	{"calf", "Legs"},
	{"leg raise", "Core"},
	{"crunch", "Core"},
	{"plank", "Core"},
	{"hyperextension", "Back"},
	{"deadlift", "Back"},
	{"row", "Back"},
	{"pulldown", "Back"},
	{"pull-up", "Back"},
	{"pullup", "Back"},
	{"chin-up", "Back"},
	{"bench", "Chest"},
	{"chest", "Chest"},
	{"fly", "Chest"},
	{"push-up", "Chest"},
	{"dip", "Chest"},
	{"squat", "Legs"},
	{"lunge", "Legs"},
	{"leg", "Legs"},
	{"hip thrust", "Legs"},
	{"overhead press", "Shoulders"},
	{"shoulder", "Shoulders"},
	{"lateral raise", "Shoulders"},
	{"face pull", "Shoulders"},
	{"curl", "Arms"},
	{"tricep", "Arms"},
	{"skull", "Arms"},
	{"pushdown", "Arms"},
}

// InferMuscleGroup guesses a muscle group from an exercise name.
func InferMuscleGroup(name string) string {
	lower := strings.ToLower(name)
	for _, k := range muscleKeywords {
		if strings.Contains(lower, k.keyword) {
			return k.group
		}
	}
	return UnknownMuscleGroup
}
