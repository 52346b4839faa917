// Package session finds what a user did for an exercise in their most recent
// session and turns it into pre-filled entries for a new one.
package session

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/models"
)

// Policy decides which records count as the same session as the most recent one.
type Policy int

const (
	// SameCalendarDay groups records on the anchor's local calendar day.
	SameCalendarDay Policy = iota
	// SlidingWindow groups records within Options.Window of the anchor,
	// regardless of day boundaries.
	SlidingWindow
)

// DefaultWindow is the SlidingWindow span when none is configured.
const DefaultWindow = 5 * time.Minute

func (p Policy) String() string {
	switch p {
	case SameCalendarDay:
		return "same_day"
	case SlidingWindow:
		return "window"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy maps a config value onto a Policy. Empty selects SameCalendarDay.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "same_day", "day", "calendar_day":
		return SameCalendarDay, nil
	case "window", "sliding_window":
		return SlidingWindow, nil
	}
	return 0, fmt.Errorf("unknown session policy %q", s)
}

// Options configures Resolve.
type Options struct {
	Policy Policy
	// Window is the SlidingWindow span; zero means DefaultWindow.
	Window time.Duration
	// Location defines calendar days for SameCalendarDay; nil means time.Local.
	Location *time.Location
	// Before, when set, ignores records logged at or after it, so an
	// in-progress session is never its own "previous".
	Before time.Time
}

// Performance is what was lifted for one set position.
type Performance struct {
	WeightLbs float64 `json:"weight_lbs"`
	Reps      int     `json:"reps"`
}

// Previous maps a 1-based set position to the most recent performance there.
type Previous map[int]Performance

// Positions returns the set positions in ascending order.
func (p Previous) Positions() []int {
	keys := make([]int, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Resolve returns the per-position performance of the most recent session of
// exerciseID in records. It returns an empty map when there is no history.
func Resolve(records []models.SetLog, exerciseID uuid.UUID, opts Options) Previous {
	logs := make([]models.SetLog, 0, len(records))
	for _, r := range records {
		if !r.BelongsTo(exerciseID) {
			continue
		}
		if !opts.Before.IsZero() && !r.LoggedAt.Before(opts.Before) {
			continue
		}
		logs = append(logs, r)
	}

	result := make(Previous)
	if len(logs) == 0 {
		return result
	}

	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].LoggedAt.After(logs[j].LoggedAt)
	})

	anchor := logs[0].LoggedAt
	inSession := sessionMatcher(anchor, opts)

	// Descending order: the first record seen for a position is the most recent.
	for _, l := range logs {
		if !inSession(l.LoggedAt) {
			continue
		}
		if _, seen := result[l.SetNumber]; seen {
			continue
		}
		result[l.SetNumber] = Performance{WeightLbs: l.WeightLbs, Reps: l.Reps}
	}
	return result
}

func sessionMatcher(anchor time.Time, opts Options) func(time.Time) bool {
	switch opts.Policy {
	case SlidingWindow:
		window := opts.Window
		if window <= 0 {
			window = DefaultWindow
		}
		return func(t time.Time) bool {
			d := anchor.Sub(t)
			if d < 0 {
				d = -d
			}
			return d <= window
		}
	default:
		loc := opts.Location
		if loc == nil {
			loc = time.Local
		}
		day := StartOfDay(anchor, loc)
		next := day.AddDate(0, 0, 1)
		return func(t time.Time) bool {
			return !t.Before(day) && t.Before(next)
		}
	}
}

// StartOfDay returns local midnight of the day containing t.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
