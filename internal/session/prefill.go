package session

// PrefillMode selects how a Previous map becomes an entry sequence.
type PrefillMode int

const (
	// PrefillPresent emits one entry per known position, or a single empty
	// entry when there is no history.
	PrefillPresent PrefillMode = iota
	// PrefillPadded emits positions 1..max with empty entries for gaps, or
	// DefaultEmptySets empty entries when there is no history.
	PrefillPadded
)

// DefaultEmptySets is how many blank sets a padded session starts with.
const DefaultEmptySets = 3

// Entry is one row of a logging session. Weight is in pounds.
type Entry struct {
	SetNumber int          `json:"set_number"`
	WeightLbs float64      `json:"weight_lbs"`
	Reps      int          `json:"reps"`
	Completed bool         `json:"completed"`
	Previous  *Performance `json:"previous,omitempty"`
}

// Prefill turns the previous session into the starting entries of a new one.
func Prefill(prev Previous, mode PrefillMode) []Entry {
	if len(prev) == 0 {
		n := 1
		if mode == PrefillPadded {
			n = DefaultEmptySets
		}
		entries := make([]Entry, n)
		for i := range entries {
			entries[i].SetNumber = i + 1
		}
		return entries
	}

	positions := prev.Positions()
	if last := positions[len(positions)-1]; mode == PrefillPadded && last >= 1 {
		entries := make([]Entry, 0, last)
		for n := 1; n <= last; n++ {
			entries = append(entries, entryFor(prev, n))
		}
		return entries
	}

	entries := make([]Entry, 0, len(positions))
	for _, n := range positions {
		entries = append(entries, entryFor(prev, n))
	}
	return entries
}

func entryFor(prev Previous, n int) Entry {
	e := Entry{SetNumber: n}
	if p, ok := prev[n]; ok {
		e.WeightLbs = p.WeightLbs
		e.Reps = p.Reps
		e.Previous = &p
	}
	return e
}
