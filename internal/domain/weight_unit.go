package domain

import "math"

// Weight units a user can track in
const (
	UnitKilograms = "kg"
	UnitPounds    = "lbs"
)

const kilogramsPerPound = 0.45359237

// ValidUnit reports whether unit is a supported weight unit
func ValidUnit(unit string) bool {
	return unit == UnitKilograms || unit == UnitPounds
}

// ToKilograms converts a weight tracked in unit to kilograms, rounded to 2 decimals
func ToKilograms(weight float64, unit string) float64 {
	if unit == UnitPounds {
		weight *= kilogramsPerPound
	}
	return math.Round(weight*100) / 100
}

// ConvertWeight converts a weight between units, rounded to 2 decimals
func ConvertWeight(weight float64, from, to string) float64 {
	if from == to || !ValidUnit(from) || !ValidUnit(to) {
		return weight
	}
	if to == UnitKilograms {
		return ToKilograms(weight, from)
	}
	return math.Round(weight/kilogramsPerPound*100) / 100
}
