package nutrition

import (
	"math"
	"strings"
)

// negligibleDeltaKG is the largest target/current difference still treated
// as maintenance.
const negligibleDeltaKG = 1e-6

// ComputePlan runs the full pipeline: BMR, TDEE, safe rate, timeframe,
// calorie target, bounds clamp, macro split and overrides, water target.
//
// Errors wrap ErrInvalidInput for bad profiles and are ErrUnreachableRate
// when no safe rate can be derived. No partial plan is returned on error.
func ComputePlan(in ProfileInput) (Plan, error) {
	if err := validate(in); err != nil {
		return Plan{}, err
	}

	g := ParseGender(string(in.Gender))
	goal := normalizeGoal(in.Goal)
	lvl := ParseActivityLevel(string(in.ActivityLevel))
	heightCM := NormalizeHeightCM(in.HeightCM)
	weight := in.WeightKG

	bmr := BMR(weight, heightCM, in.Age, g)
	tdee := TDEE(bmr, lvl)

	var flags flagList
	var (
		calorieTarget float64
		weeks         int
		base          MacroSplit
	)

	delta := in.targetWeight() - weight
	if goal == GoalMaintenance || math.Abs(delta) < negligibleDeltaKG {
		calorieTarget = math.Round(tdee)
		base = maintenanceSplit
	} else {
		totalChange := math.Abs(delta)
		rate := SafeWeeklyRate(in.Age, weight, totalChange, goal, g)
		if rate <= 0 {
			return Plan{}, ErrUnreachableRate
		}
		weeks = weeksFor(totalChange, rate)
		calorieTarget = tdee + dailyAdjust(delta, weeks)

		lower, upper := CalorieBounds(bmr, tdee, weight, in.Age, g)
		switch {
		case calorieTarget < lower:
			flags.add(FlagCalorieBelowLowerBound, SeverityWarning, "Calorie target below safe lower bound")
			weeks = weeksFor(totalChange, math.Max(rate, 0.35))
			calorieTarget = math.Max(lower, tdee+dailyAdjust(delta, weeks))
			flags.add(FlagTimeframeExtended, SeverityInfo, "Timeframe extended to respect calorie floor")
		case calorieTarget > upper:
			flags.add(FlagCalorieAboveUpperBound, SeverityWarning, "Calorie target above safe upper bound")
			weeks = weeksFor(totalChange, math.Max(rate*0.7, 0.25))
			calorieTarget = math.Min(upper, tdee+dailyAdjust(delta, weeks))
			flags.add(FlagTimeframeExtended, SeverityInfo, "Timeframe extended to respect calorie ceiling")
		}

		if delta < 0 {
			base = lossSplit
		} else {
			base = gainSplit
		}
	}

	split, macroFlags := ApplyMacroOverrides(in.Age, g, base)
	flags = append(flags, macroFlags...)
	advisoryFlags(&flags, in.Age, weight)

	kcal := roundInt(calorieTarget)
	carbs, protein, fat := split.grams(kcal)

	plan := Plan{
		CalorieTarget:  kcal,
		CarbsG:         carbs,
		ProteinG:       protein,
		FatG:           fat,
		TimeFrameWeeks: weeks,
		WaterL:         WaterIntakeLiters(weight, lvl, in.Age, g, ParseClimate(string(in.Climate))),
		Flags:          []Flag(flags),
	}
	if plan.Flags == nil {
		plan.Flags = []Flag{}
	}
	return plan, nil
}

// normalizeGoal maps known spellings onto the Goal constants. Unknown text is
// kept (lowercased) so it takes the non-loss path instead of silently
// becoming maintenance.
func normalizeGoal(g Goal) Goal {
	if parsed, ok := ParseGoal(string(g)); ok {
		return parsed
	}
	return Goal(strings.ToLower(strings.TrimSpace(string(g))))
}
