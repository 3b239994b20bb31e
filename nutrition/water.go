package nutrition

import "math"

// WaterIntakeLiters estimates daily water needs, rounded to 2 decimals.
func WaterIntakeLiters(weightKG float64, lvl ActivityLevel, age int, g Gender, c Climate) float64 {
	lvl = ParseActivityLevel(string(lvl))

	base := 0.035 * weightKG
	if age >= 70 {
		base *= 0.9
	}

	ageAdj := 1.0
	if age >= 60 {
		ageAdj = math.Max(0.85, 1.0-float64(age-60)*0.01)
	}

	climateMult := 1.0
	if c == ClimateHot {
		climateMult = 1.2
	}

	sexBoost := 1.0
	if g == GenderMale && lvl == VeryActive && age < 50 {
		sexBoost = 1.05
	}

	return roundTo(base*waterActivityMultipliers[lvl]*ageAdj*climateMult*sexBoost, 2)
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func roundInt(v float64) int {
	return int(math.Round(v))
}
