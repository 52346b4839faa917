package models

import (
	"fmt"
	"strings"
)

// PreferencesID is the fixed identity of the single preferences row.
const PreferencesID = "singleton"

// Rest duration bounds, in seconds.
const (
	MinRestSeconds     = 30
	MaxRestSeconds     = 300
	RestSecondsStep    = 15
	DefaultRestSeconds = 90
)

// WeightUnit is a display unit for weights.
type WeightUnit string

const (
	Pounds    WeightUnit = "lbs"
	Kilograms WeightUnit = "kg"
)

// Abbreviation returns the short label, e.g. "kg".
func (u WeightUnit) Abbreviation() string {
	return string(u)
}

// DisplayName returns the long label, e.g. "Kilograms (kg)".
func (u WeightUnit) DisplayName() string {
	switch u {
	case Pounds:
		return "Pounds (lbs)"
	case Kilograms:
		return "Kilograms (kg)"
	default:
		return string(u)
	}
}

// ParseWeightUnit maps common spellings onto a WeightUnit.
func ParseWeightUnit(s string) (WeightUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lbs", "lb", "pounds", "pound":
		return Pounds, nil
	case "kg", "kgs", "kilograms", "kilogram":
		return Kilograms, nil
	}
	return "", fmt.Errorf("unknown weight unit %q", s)
}

// UserPreferences is the single persisted settings record.
type UserPreferences struct {
	ID                 string     `json:"-"`
	WeightUnit         WeightUnit `json:"weight_unit"`
	RestTimerEnabled   bool       `json:"rest_timer_enabled"`
	DefaultRestSeconds int        `json:"default_rest_seconds"`
	HealthSyncEnabled  bool       `json:"health_sync_enabled"`
}

// DefaultPreferences returns the values a fresh install starts with.
func DefaultPreferences() UserPreferences {
	return UserPreferences{
		ID:                 PreferencesID,
		WeightUnit:         Pounds,
		RestTimerEnabled:   true,
		DefaultRestSeconds: DefaultRestSeconds,
	}
}

// Validate checks the unit and the rest duration range.
func (p UserPreferences) Validate() error {
	if p.WeightUnit != Pounds && p.WeightUnit != Kilograms {
		return fmt.Errorf("invalid weight unit %q", p.WeightUnit)
	}
	if p.DefaultRestSeconds < MinRestSeconds || p.DefaultRestSeconds > MaxRestSeconds {
		return fmt.Errorf("default rest must be between %d and %d seconds", MinRestSeconds, MaxRestSeconds)
	}
	if p.DefaultRestSeconds%RestSecondsStep != 0 {
		return fmt.Errorf("default rest must be a multiple of %d seconds", RestSecondsStep)
	}
	return nil
}
