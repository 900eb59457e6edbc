// internal/metrics/metrics.go
package metrics

import (
	"math"
)

// activityMultipliers maps activity level strings to grams of protein per kg
// of body weight. This is the single source of truth for valid activity levels.
var activityMultipliers = map[string]float64{
	"Sedentary":         0.8,
	"Light Activity":    1.0,
	"Moderately Active": 1.2,
	"Very Active":       1.4,
}

const defaultMultiplier = 0.8

// ActivityMultiplier returns the protein multiplier for an activity level.
// Unrecognized levels fall back to the Sedentary multiplier rather than
// erroring, so the calculator is total over arbitrary stored strings.
func ActivityMultiplier(level string) float64 {
	if m, ok := activityMultipliers[level]; ok {
		return m
	}
	return defaultMultiplier
}

// Calculate derives BMI and the daily protein goal from the three profile
// inputs. Pure: same inputs always produce the same outputs. Inputs are
// assumed positive; a non-positive height yields a mathematically meaningless
// but non-crashing result.
func Calculate(weightKg, heightCm float64, activityLevel string) (bmi, proteinGoalG float64) {
	heightM := heightCm / 100
	bmi = weightKg / (heightM * heightM)
	proteinGoalG = weightKg * ActivityMultiplier(activityLevel)
	return bmi, proteinGoalG
}

// CmToFeetInches converts a canonical height to the cached display pair.
// Conversion is presentation-only; cm stays the stored unit.
func CmToFeetInches(cm float64) (feet, inches int) {
	totalInches := int(math.Round(cm / 2.54))
	return totalInches / 12, totalInches % 12
}

// FeetInchesToCm converts a display height back to the canonical unit.
func FeetInchesToCm(feet, inches int) float64 {
	return (float64(feet)*12 + float64(inches)) * 2.54
}

// KgToLbs and LbsToKg convert weights for display. kg stays the stored unit.
func KgToLbs(kg float64) float64 { return kg * 2.20462 }

func LbsToKg(lbs float64) float64 { return lbs / 2.20462 }
