package models

import (
	"testing"

	"github.com/google/uuid"
)

// TestSetLogVolumeAndOwnership verifies volume math and that orphaned sets
// belong to no exercise.
func TestSetLogVolumeAndOwnership(t *testing.T) {
	id := uuid.New()
	s := SetLog{ExerciseID: &id, Reps: 8, WeightLbs: 135}
	if got := s.Volume(); got != 1080 {
		t.Errorf("Volume() = %v, want 1080", got)
	}
	if !s.BelongsTo(id) {
		t.Error("BelongsTo(own id) = false")
	}
	if s.BelongsTo(uuid.New()) {
		t.Error("BelongsTo(other id) = true")
	}
	orphan := SetLog{Reps: 5, WeightLbs: 100}
	if orphan.BelongsTo(uuid.Nil) {
		t.Error("orphaned set claims to belong to uuid.Nil")
	}
}

// TestParseWeekday verifies case-insensitive weekday parsing.
func TestParseWeekday(t *testing.T) {
	tests := []struct {
		in      string
		want    Weekday
		wantErr bool
	}{
		{"Monday", Monday, false},
		{"sunday", Sunday, false},
		{" FRIDAY ", Friday, false},
		{"Funday", "", true},
	}
	for _, tt := range tests {
		got, err := ParseWeekday(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseWeekday(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseWeekday(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestPreferencesValidate verifies the rest range and step plus unit checks.
func TestPreferencesValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*UserPreferences)
		wantErr bool
	}{
		{"defaults", func(*UserPreferences) {}, false},
		{"min rest", func(p *UserPreferences) { p.DefaultRestSeconds = MinRestSeconds }, false},
		{"max rest", func(p *UserPreferences) { p.DefaultRestSeconds = MaxRestSeconds }, false},
		{"below min", func(p *UserPreferences) { p.DefaultRestSeconds = 15 }, true},
		{"above max", func(p *UserPreferences) { p.DefaultRestSeconds = 315 }, true},
		{"off step", func(p *UserPreferences) { p.DefaultRestSeconds = 100 }, true},
		{"kg", func(p *UserPreferences) { p.WeightUnit = Kilograms }, false},
		{"stone", func(p *UserPreferences) { p.WeightUnit = "st" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultPreferences()
			tt.mutate(&p)
			if err := p.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestWeightUnitNames verifies display labels and parsing.
func TestWeightUnitNames(t *testing.T) {
	if Pounds.DisplayName() != "Pounds (lbs)" || Kilograms.DisplayName() != "Kilograms (kg)" {
		t.Errorf("display names = %q, %q", Pounds.DisplayName(), Kilograms.DisplayName())
	}
	if u, err := ParseWeightUnit("KG"); err != nil || u != Kilograms {
		t.Errorf("ParseWeightUnit(KG) = %q, %v", u, err)
	}
	if _, err := ParseWeightUnit("grams"); err == nil {
		t.Error("ParseWeightUnit(grams) succeeded")
	}
}

// TestFormCueList verifies blank lines are dropped.
func TestFormCueList(t *testing.T) {
	cues := "Brace core\n\n  Drive through heels  \n"
	e := Exercise{FormCues: &cues}
	got := e.FormCueList()
	if len(got) != 2 || got[0] != "Brace core" || got[1] != "Drive through heels" {
		t.Errorf("FormCueList() = %q", got)
	}
	if (Exercise{}).FormCueList() != nil {
		t.Error("nil cues should yield nil")
	}
}
