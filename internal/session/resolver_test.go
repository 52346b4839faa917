package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/models"
)

func setLog(ex uuid.UUID, n, reps int, lbs float64, at time.Time) models.SetLog {
	return models.SetLog{
		ID:         uuid.New(),
		ExerciseID: &ex,
		SetNumber:  n,
		Reps:       reps,
		WeightLbs:  lbs,
		LoggedAt:   at,
	}
}

var utc = Options{Location: time.UTC}

// TestResolveBenchPressExample verifies the canonical scenario: three sets logged
// at the same instant come back keyed 1, 2, 3 with weight and reps intact.
func TestResolveBenchPressExample(t *testing.T) {
	bench := uuid.New()
	t0 := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	records := []models.SetLog{
		setLog(bench, 1, 12, 135, t0),
		setLog(bench, 2, 10, 135, t0),
		setLog(bench, 3, 8, 135, t0),
	}

	got := Resolve(records, bench, utc)

	want := Previous{1: {135, 12}, 2: {135, 10}, 3: {135, 8}}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d (%v)", len(got), len(want), got)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("position %d = %+v, want %+v", k, got[k], v)
		}
	}
	if _, ok := got[0]; ok {
		t.Error("positions must be 1-based, found key 0")
	}
}

// TestResolveEmpty verifies missing history yields an empty, non-nil map.
func TestResolveEmpty(t *testing.T) {
	got := Resolve(nil, uuid.New(), utc)
	if got == nil || len(got) != 0 {
		t.Fatalf("Resolve(nil) = %v, want empty map", got)
	}
}

// TestResolveLatestDayOnly verifies that of two sessions on different days only
// the later one is returned.
func TestResolveLatestDayOnly(t *testing.T) {
	ex := uuid.New()
	monday := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	thursday := monday.AddDate(0, 0, 3)
	records := []models.SetLog{
		setLog(ex, 1, 5, 225, thursday),
		setLog(ex, 1, 8, 185, monday),
		setLog(ex, 2, 8, 185, monday),
		setLog(ex, 3, 8, 185, monday),
	}

	for _, policy := range []Policy{SameCalendarDay, SlidingWindow} {
		got := Resolve(records, ex, Options{Policy: policy, Location: time.UTC})
		if len(got) != 1 || got[1] != (Performance{225, 5}) {
			t.Errorf("%s: got %v, want only thursday's set", policy, got)
		}
	}
}

// TestResolveIsolatesExercises verifies overlapping set positions of another
// exercise never leak into the result, and orphaned sets are ignored.
func TestResolveIsolatesExercises(t *testing.T) {
	e1, e2 := uuid.New(), uuid.New()
	at := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	orphan := models.SetLog{SetNumber: 3, Reps: 1, WeightLbs: 999, LoggedAt: at.Add(time.Minute)}
	records := []models.SetLog{
		setLog(e1, 1, 10, 100, at),
		setLog(e1, 2, 10, 100, at),
		setLog(e2, 1, 20, 50, at.Add(time.Second)),
		setLog(e2, 2, 20, 50, at.Add(time.Second)),
		orphan,
	}

	r1 := Resolve(records, e1, utc)
	r2 := Resolve(records, e2, utc)
	if r1[1] != (Performance{100, 10}) || r1[2] != (Performance{100, 10}) || len(r1) != 2 {
		t.Errorf("e1 = %v", r1)
	}
	if r2[1] != (Performance{50, 20}) || r2[2] != (Performance{50, 20}) || len(r2) != 2 {
		t.Errorf("e2 = %v", r2)
	}
}

// TestResolveDuplicatePositionMostRecentWins verifies that a re-logged set
// within the session replaces the earlier value for that position.
func TestResolveDuplicatePositionMostRecentWins(t *testing.T) {
	ex := uuid.New()
	at := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	records := []models.SetLog{
		setLog(ex, 1, 10, 135, at),
		setLog(ex, 1, 9, 140, at.Add(2*time.Minute)),
		setLog(ex, 2, 8, 135, at.Add(time.Minute)),
	}

	for _, policy := range []Policy{SameCalendarDay, SlidingWindow} {
		got := Resolve(records, ex, Options{Policy: policy, Location: time.UTC})
		if got[1] != (Performance{140, 9}) {
			t.Errorf("%s: position 1 = %+v, want the later 140x9", policy, got[1])
		}
		if got[2] != (Performance{135, 8}) {
			t.Errorf("%s: position 2 = %+v", policy, got[2])
		}
	}
}

// TestResolveZeroValuesKept verifies zero weight or reps is real history.
func TestResolveZeroValuesKept(t *testing.T) {
	ex := uuid.New()
	at := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	got := Resolve([]models.SetLog{setLog(ex, 1, 0, 0, at)}, ex, utc)
	p, ok := got[1]
	if !ok || p != (Performance{0, 0}) {
		t.Errorf("got %v, want position 1 with zero values", got)
	}
}

// TestResolvePoliciesDiverge verifies the two session policies disagree exactly
// where expected: across midnight and for sessions longer than the window.
func TestResolvePoliciesDiverge(t *testing.T) {
	ex := uuid.New()

	t.Run("across midnight", func(t *testing.T) {
		before := time.Date(2026, 3, 2, 23, 58, 0, 0, time.UTC)
		after := time.Date(2026, 3, 3, 0, 1, 0, 0, time.UTC)
		records := []models.SetLog{setLog(ex, 1, 10, 100, before), setLog(ex, 2, 8, 100, after)}

		day := Resolve(records, ex, Options{Policy: SameCalendarDay, Location: time.UTC})
		if len(day) != 1 || day[2] != (Performance{100, 8}) {
			t.Errorf("same day = %v, want only the post-midnight set", day)
		}
		win := Resolve(records, ex, Options{Policy: SlidingWindow, Location: time.UTC})
		if len(win) != 2 {
			t.Errorf("window = %v, want both sets", win)
		}
	})

	t.Run("long session", func(t *testing.T) {
		start := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
		records := []models.SetLog{
			setLog(ex, 1, 10, 100, start),
			setLog(ex, 2, 10, 100, start.Add(4*time.Minute)),
			setLog(ex, 3, 10, 100, start.Add(12*time.Minute)),
		}

		day := Resolve(records, ex, Options{Policy: SameCalendarDay, Location: time.UTC})
		if len(day) != 3 {
			t.Errorf("same day = %v, want 3 sets", day)
		}
		win := Resolve(records, ex, Options{Policy: SlidingWindow, Location: time.UTC})
		if len(win) != 1 || win[3] != (Performance{100, 10}) {
			t.Errorf("window = %v, want only the anchor set", win)
		}
		wide := Resolve(records, ex, Options{Policy: SlidingWindow, Window: 15 * time.Minute})
		if len(wide) != 3 {
			t.Errorf("15m window = %v, want 3 sets", wide)
		}
	})
}

// TestResolveCalendarDayUsesLocation verifies that day boundaries follow the
// configured location rather than UTC.
func TestResolveCalendarDayUsesLocation(t *testing.T) {
	ex := uuid.New()
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 18:00 and 21:00 New York (EST) fall on the same local day but on
	// different UTC days.
	a := time.Date(2026, 3, 2, 18, 0, 0, 0, ny)
	b := time.Date(2026, 3, 2, 21, 0, 0, 0, ny)
	records := []models.SetLog{setLog(ex, 1, 10, 100, a.UTC()), setLog(ex, 2, 10, 100, b.UTC())}

	if got := Resolve(records, ex, Options{Location: ny}); len(got) != 2 {
		t.Errorf("new york day = %v, want both sets", got)
	}
	if got := Resolve(records, ex, Options{Location: time.UTC}); len(got) != 1 {
		t.Errorf("utc day = %v, want one set", got)
	}
}

// TestResolveBeforeExcludesCurrentSession verifies the Before cutoff hides sets
// logged in the running session.
func TestResolveBeforeExcludesCurrentSession(t *testing.T) {
	ex := uuid.New()
	yesterday := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	sessionStart := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	records := []models.SetLog{
		setLog(ex, 1, 10, 100, yesterday),
		setLog(ex, 1, 12, 110, sessionStart.Add(time.Minute)),
	}

	got := Resolve(records, ex, Options{Location: time.UTC, Before: sessionStart})
	if got[1] != (Performance{100, 10}) {
		t.Errorf("got %v, want yesterday's set", got)
	}
}

// TestParsePolicy verifies config spellings.
func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"", SameCalendarDay, false},
		{"same_day", SameCalendarDay, false},
		{"Window", SlidingWindow, false},
		{"sliding_window", SlidingWindow, false},
		{"hourly", 0, true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePolicy(%q) err = %v", tt.in, err)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParsePolicy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
