package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Weekday names a routine day. One routine exists per weekday.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// Weekdays lists the routine days in display order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ParseWeekday accepts a weekday name in any case.
func ParseWeekday(s string) (Weekday, error) {
	for _, d := range Weekdays {
		if strings.EqualFold(string(d), strings.TrimSpace(s)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown weekday %q", s)
}

// Routine is the ordered set of exercises planned for one weekday.
// It holds membership only, no per-routine set or rep targets.
type Routine struct {
	Day         Weekday     `json:"day_of_week"`
	ExerciseIDs []uuid.UUID `json:"exercise_ids"`
}
