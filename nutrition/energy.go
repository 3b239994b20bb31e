package nutrition

import "math"

const (
	// kcalPerKG is the energy content of one kilogram of body-mass change.
	kcalPerKG = 7700.0

	minWeeks = 6
	maxWeeks = 104

	// minorMaxAge is the oldest age that still uses the WHO minor formula.
	minorMaxAge   = 18
	minorBMRFloor = 1000.0
)

/* ─── BMR / TDEE ─────────────────────────────────────────────────────── */

// BMR returns the basal metabolic rate in kcal/day.
//
// Adults use Mifflin-St Jeor. Minors (age <= 18) use the WHO linear
// approximation on weight only, floored at 1000 kcal. The adult formula is
// never applied to a minor and vice versa.
func BMR(weightKG, heightCM float64, age int, g Gender) float64 {
	if age <= minorMaxAge {
		return minorBMR(weightKG, g)
	}
	bmr := 10*weightKG + 6.25*NormalizeHeightCM(heightCM) - 5*float64(age)
	if g == GenderMale {
		return bmr + 5
	}
	return bmr - 161
}

// minorBMR implements the WHO 10-18 equations.
func minorBMR(weightKG float64, g Gender) float64 {
	var bmr float64
	if g == GenderMale {
		bmr = 17.5*weightKG + 651
	} else {
		bmr = 12.2*weightKG + 746
	}
	return math.Max(bmr, minorBMRFloor)
}

// NormalizeHeightCM treats heights of 3 or less as meters.
func NormalizeHeightCM(h float64) float64 {
	if h <= 3 {
		return h * 100
	}
	return h
}

// TDEE scales bmr by the activity multiplier.
func TDEE(bmr float64, lvl ActivityLevel) float64 {
	return bmr * ActivityMultiplier(lvl)
}

/* ─── Safe weekly rate ───────────────────────────────────────────────── */

// SafeWeeklyRate bounds how fast weight may change, in kg/week. It is 0 for
// maintenance or when there is nothing to change. Weight-loss goals use the
// loss parameters; every other goal uses the gain parameters.
func SafeWeeklyRate(age int, currentKG, totalChangeKG float64, goal Goal, g Gender) float64 {
	if goal == GoalMaintenance || totalChangeKG <= 0 {
		return 0
	}
	isLoss := goal == GoalWeightLoss

	base, minRate, maxRate := 0.50, 0.15, 0.8
	if isLoss {
		base, minRate, maxRate = 0.75, 0.18, 1.0
	}

	var ageFactor float64
	switch {
	case age < 30:
		ageFactor = 1.0
	case age < 50:
		ageFactor = 0.9
	case age < 65:
		ageFactor = 0.8
	case age < 75:
		ageFactor = 0.65
	default:
		ageFactor = 0.55
	}

	genderFactor := 1.0
	if g == GenderFemale {
		genderFactor = 0.95
	}

	// Large total changes asymptote to 0.6 of the base rate.
	magnitudeFactor := 0.6 + 0.4*math.Exp(-totalChangeKG/math.Max(20, currentKG))

	if currentKG < 45 {
		minRate *= 0.75
		maxRate *= 0.6
	}
	if currentKG > 140 {
		maxRate *= 1.2
	}

	rate := base * ageFactor * genderFactor * magnitudeFactor
	return math.Max(math.Min(rate, maxRate), minRate)
}

// weeksFor is ceil(totalChange / rate) clamped to [minWeeks, maxWeeks].
func weeksFor(totalChangeKG, rate float64) int {
	w := math.Ceil(totalChangeKG / rate)
	return int(math.Min(math.Max(w, minWeeks), maxWeeks))
}

// dailyAdjust is the signed daily kcal surplus/deficit that moves deltaKG
// over the given number of weeks.
func dailyAdjust(deltaKG float64, weeks int) float64 {
	return deltaKG * kcalPerKG / (float64(weeks) * 7)
}

/* ─── Calorie bounds ─────────────────────────────────────────────────── */

// CalorieBounds returns the safe [lower, upper] daily calorie range. The
// returned lower is always strictly below upper.
func CalorieBounds(bmr, tdee, weightKG float64, age int, g Gender) (lower, upper float64) {
	switch {
	case age < 50:
		lower = math.Max(bmr*1.00, 9.5*weightKG+200)
	case age < 65:
		lower = math.Max(bmr*1.05, 9.5*weightKG+250)
	default:
		lower = math.Max(bmr*1.10, 9.5*weightKG+300)
	}
	floor := 1400.0
	if g == GenderFemale {
		floor = 1200
	}
	lower = math.Max(lower, floor)

	upper = min(tdee*1.25, bmr*1.9, 40*weightKG)

	// Degenerate bounds: widen around TDEE, then fall back to BMR-based bounds.
	if lower >= upper {
		lower = math.Min(lower, tdee*0.95)
		upper = math.Max(upper, tdee*1.05)
	}
	if lower >= upper {
		lower = bmr
		upper = math.Max(bmr*1.4, weightKG*30)
	}
	return lower, upper
}
