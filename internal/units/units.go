// Package units converts weights between the storage unit (pounds) and the
// user's display unit, and formats them for display.
package units

import (
	"fmt"

	"github.com/meltforce/liftlog/internal/models"
)

// Conversion ratios. They are independent constants rather than exact
// reciprocals, so a round trip is only accurate to about 1e-4.
const (
	PoundsToKg = 0.45359237
	KgToPounds = 2.20462262
)

// StorageUnit is the unit every weight is persisted in.
const StorageUnit = models.Pounds

// DefaultDecimals is the precision used by DisplayWeight and DisplayValue callers
// that have no preference of their own.
const DefaultDecimals = 1

// KgToLbs converts kilograms to pounds.
func KgToLbs(kg float64) float64 {
	return kg * KgToPounds
}

// LbsToKg converts pounds to kilograms.
func LbsToKg(lbs float64) float64 {
	return lbs * PoundsToKg
}

// Convert converts weight between units. Pairs other than pounds/kilograms
// return the input unchanged.
func Convert(weight float64, from, to models.WeightUnit) float64 {
	if from == to {
		return weight
	}
	switch {
	case from == models.Pounds && to == models.Kilograms:
		return LbsToKg(weight)
	case from == models.Kilograms && to == models.Pounds:
		return KgToLbs(weight)
	default:
		return weight
	}
}

// ToDisplay converts a stored weight (pounds) into the display unit.
func ToDisplay(storedLbs float64, unit models.WeightUnit) float64 {
	return Convert(storedLbs, StorageUnit, unit)
}

// ToStorage converts a weight entered in the display unit into pounds.
func ToStorage(entered float64, unit models.WeightUnit) float64 {
	return Convert(entered, unit, StorageUnit)
}

// DisplayWeight formats a stored weight with its unit label, e.g. "60.0 kg".
func DisplayWeight(storedLbs float64, unit models.WeightUnit, decimals int) string {
	return fmt.Sprintf("%.*f %s", clampDecimals(decimals), ToDisplay(storedLbs, unit), unit.Abbreviation())
}

// DisplayValue formats a stored weight without a unit label.
func DisplayValue(storedLbs float64, unit models.WeightUnit, decimals int) string {
	return fmt.Sprintf("%.*f", clampDecimals(decimals), ToDisplay(storedLbs, unit))
}

// DetailedDisplay formats a stored weight with two decimals and the long unit name.
func DetailedDisplay(storedLbs float64, unit models.WeightUnit) string {
	return fmt.Sprintf("%.2f %s", ToDisplay(storedLbs, unit), unit.DisplayName())
}

func clampDecimals(d int) int {
	if d < 0 {
		return 0
	}
	return d
}
