package alpha

import (
	"strings"
	"testing"
	"time"
)

const sampleCSV = `
"Legs · Day 2 · Week 4 · Push-Pull-Legs";"2026-02-19 4:54 h";"1:02 hr"
"1. Hack Squats · Machine · 8 reps";"WU1 · 37,5 kg · 9 reps<br>WU2 · 72,5 kg · 7 reps"
#;KG;REPS;RIR
1;115;8;1
2;115;10;1
3;115;10;1
"2. Sumo Squats · Smith machine · 10 reps";"WU1 · 35 kg · 8 reps"
#;KG;REPS;RIR
1;70;8;1
2;70;12;1
"3. Hyperextensions on Roman Chair · Bodyweight · 10 reps";"WU1 · +0 kg · 8 reps"
#;KG;REPS;RIR
1;+35;10;0
2;+35;9;1
3;+35;10;0
"4. Hanging Leg Raises · Bodyweight · 12 reps · 2 dropsets"
#;KG;REPS;RIR
1;+0;12;1
2;+0;12;0,5

"Push · Day 1 · Week 4 · Push-Pull-Legs";"2026-02-17 17:04 h";"45 min"
"1. Bench Press · Barbell · 6 reps";"WU1 · 22,5 kg · 10 reps<br>WU2 · 47,5 kg · 8 reps<br>WU3 · 77,5 kg · 6 reps"
#;KG;REPS;RIR
1;102,5;6;0
2;102,5;6;0
3;100;6;0
`

// TestParseCompleteSessions verifies parsing a multi-session export with exercises and sets.
// This is the primary integration test for the parser and covers the happy path end-to-end.
func TestParseCompleteSessions(t *testing.T) {
	sessions, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(sessions))
	}

	s1 := sessions[0]
	if s1.Name != "Legs · Day 2 · Week 4 · Push-Pull-Legs" {
		t.Errorf("s1.Name = %q", s1.Name)
	}
	if want := time.Date(2026, 2, 19, 4, 54, 0, 0, time.Local); !s1.Start.Equal(want) {
		t.Errorf("s1.Start = %v, want %v", s1.Start, want)
	}
	if s1.Duration != 62*time.Minute {
		t.Errorf("s1.Duration = %v, want 1h2m", s1.Duration)
	}
	if len(s1.Exercises) != 4 {
		t.Fatalf("s1 exercises = %d, want 4", len(s1.Exercises))
	}

	tests := []struct {
		idx       int
		name      string
		equipment string
		target    int
		sets      int
		working   int
	}{
		{0, "Hack Squats", "Machine", 8, 5, 3},
		{1, "Sumo Squats", "Smith machine", 10, 3, 2},
		{2, "Hyperextensions on Roman Chair", "Bodyweight", 10, 4, 3},
		{3, "Hanging Leg Raises", "Bodyweight", 12, 2, 2},
	}
	for _, tt := range tests {
		ex := s1.Exercises[tt.idx]
		if ex.Name != tt.name || ex.Equipment != tt.equipment || ex.TargetReps != tt.target {
			t.Errorf("exercise %d = %q/%q/%d, want %q/%q/%d",
				tt.idx, ex.Name, ex.Equipment, ex.TargetReps, tt.name, tt.equipment, tt.target)
		}
		if len(ex.Sets) != tt.sets || len(ex.WorkingSets()) != tt.working {
			t.Errorf("%s sets = %d (working %d), want %d (%d)",
				tt.name, len(ex.Sets), len(ex.WorkingSets()), tt.sets, tt.working)
		}
	}

	if rir := s1.Exercises[3].Sets[1].RIR; rir != 0.5 {
		t.Errorf("fractional RIR = %v, want 0.5", rir)
	}

	s2 := sessions[1]
	if s2.Start.Hour() != 17 || s2.Duration != 45*time.Minute {
		t.Errorf("s2 start/duration = %v/%v", s2.Start, s2.Duration)
	}
	if w := s2.Exercises[0].WorkingSets()[0].WeightKg; w != 102.5 {
		t.Errorf("bench set 1 = %v kg, want 102.5", w)
	}
}

// TestParseErrors verifies structurally broken exports are rejected with the line number.
func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"exercise before session", `"1. Bench Press · Barbell · 6 reps"`},
		{"set before exercise", "\"Push\";\"2026-02-17 5:04 h\";\"1:12 hr\"\n1;100;5;1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			if err == nil || !strings.Contains(err.Error(), "line ") {
				t.Errorf("err = %v, want a line-numbered error", err)
			}
		})
	}
}

// TestParseWeight verifies decimal commas and the +N bodyweight notation.
// "+35" means bodyweight plus 35 kg, "+0" bodyweight only.
func TestParseWeight(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantBW bool
	}{
		{"102,5", 102.5, false},
		{"115", 115, false},
		{"+35", 35, true},
		{"+0", 0, true},
		{"junk", 0, false},
	}
	for _, tt := range tests {
		got, bw := parseWeight(tt.in)
		if got != tt.want || bw != tt.wantBW {
			t.Errorf("parseWeight(%q) = %v, %v; want %v, %v", tt.in, got, bw, tt.want, tt.wantBW)
		}
	}
}

// TestParseDuration verifies both duration spellings.
func TestParseDuration(t *testing.T) {
	tests := map[string]time.Duration{
		"1:02 hr": 62 * time.Minute,
		"0:45 h":  45 * time.Minute,
		"45 min":  45 * time.Minute,
		"forever": 0,
	}
	for in, want := range tests {
		if got := parseDuration(in); got != want {
			t.Errorf("parseDuration(%q) = %v, want %v", in, got, want)
		}
	}
}

// TestWarmupParsing verifies warmup extraction from the exercise header's second field.
// Warmups use <br> as separator and decimal commas.
func TestWarmupParsing(t *testing.T) {
	sets := parseWarmups("WU1 · 37,5 kg · 9 reps<br>WU2 · +0 kg · 7 reps")
	if len(sets) != 2 {
		t.Fatalf("warmup sets = %d, want 2", len(sets))
	}
	if sets[0].WeightKg != 37.5 || sets[0].Reps != 9 || !sets[0].Warmup {
		t.Errorf("wu1 = %+v", sets[0])
	}
	if !sets[1].BodyweightPlus || sets[1].WeightKg != 0 {
		t.Errorf("wu2 = %+v", sets[1])
	}
	if parseWarmups("") != nil {
		t.Error("empty warmup field should yield nil")
	}
}

// TestEmptyInput verifies that empty input returns no sessions without error.
func TestEmptyInput(t *testing.T) {
	sessions, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("sessions = %d, want 0", len(sessions))
	}
}

// TestInferMuscleGroup verifies keyword matching, including names that
// contain more than one keyword.
func TestInferMuscleGroup(t *testing.T) {
	tests := map[string]string{
		"Bench Press":                    "Chest",
		"Hack Squats":                    "Legs",
		"Standing Calf Raises":           "Legs",
		"Hanging Leg Raises":             "Core",
		"Hyperextensions on Roman Chair": "Back",
		"Chest Press Machine":            "Chest",
		"EZ Bar Curl":                    "Arms",
		"Turkish Get-Up":                 UnknownMuscleGroup,
	}
	for name, want := range tests {
		if got := InferMuscleGroup(name); got != want {
			t.Errorf("InferMuscleGroup(%q) = %q, want %q", name, got, want)
		}
	}
}
