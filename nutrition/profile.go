// Package nutrition derives a daily nutrition plan (calorie target, macro
// grams, timeframe and water target) from a biometric profile.
//
// Everything here is a pure function of its inputs: no I/O, no logging and no
// package-level mutable state, so plans can be computed concurrently from any
// goroutine. Persisting the result is the caller's job.
package nutrition

import "strings"

// Gender as used by the formulas. Anything that is not male or female is
// treated as GenderOther, which shares the female constants.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// ParseGender normalizes free text (trim + lowercase). Only "male" and
// "female" are recognized; anything else, abbreviations included, is other.
func ParseGender(s string) Gender {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male":
		return GenderMale
	case "female":
		return GenderFemale
	default:
		return GenderOther
	}
}

// ActivityLevel is one of the four supported activity bands.
type ActivityLevel string

const (
	Sedentary        ActivityLevel = "sedentary"
	LightlyActive    ActivityLevel = "lightly active"
	ModeratelyActive ActivityLevel = "moderately active"
	VeryActive       ActivityLevel = "very active"
)

// activityMultipliers maps each activity level to its TDEE multiplier.
var activityMultipliers = map[ActivityLevel]float64{
	Sedentary:        1.2,
	LightlyActive:    1.375,
	ModeratelyActive: 1.55,
	VeryActive:       1.725,
}

// waterActivityMultipliers scales the base water target per activity level.
var waterActivityMultipliers = map[ActivityLevel]float64{
	Sedentary:        1.0,
	LightlyActive:    1.08,
	ModeratelyActive: 1.16,
	VeryActive:       1.24,
}

// ParseActivityLevel trims and lowercases s. Unrecognized levels fall back to
// Sedentary rather than failing.
func ParseActivityLevel(s string) ActivityLevel {
	lvl := ActivityLevel(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := activityMultipliers[lvl]; ok {
		return lvl
	}
	return Sedentary
}

// ActivityMultiplier returns the TDEE multiplier for lvl after normalizing it.
func ActivityMultiplier(lvl ActivityLevel) float64 {
	return activityMultipliers[ParseActivityLevel(string(lvl))]
}

// Goal is the user's primary weight goal.
type Goal string

const (
	GoalMaintenance Goal = "maintenance"
	GoalWeightLoss  Goal = "weight loss"
	GoalWeightGain  Goal = "weight gain"
)

// ParseGoal normalizes s. An empty string means maintenance. ok is false for
// text that names none of the goals; callers decide whether that is an error.
func ParseGoal(s string) (g Goal, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "maintenance", "maintain", "maintain weight":
		return GoalMaintenance, true
	case "weight loss", "lose weight", "loss":
		return GoalWeightLoss, true
	case "weight gain", "gain weight", "gain", "build muscle":
		return GoalWeightGain, true
	default:
		return GoalMaintenance, false
	}
}

// Climate adjusts the water target.
type Climate string

const (
	ClimateTemperate Climate = "temperate"
	ClimateHot       Climate = "hot"
)

// ParseClimate defaults to ClimateTemperate for anything but "hot".
func ParseClimate(s string) Climate {
	if strings.ToLower(strings.TrimSpace(s)) == string(ClimateHot) {
		return ClimateHot
	}
	return ClimateTemperate
}

// ProfileInput is the biometric profile a plan is computed from.
// TargetWeightKG defaults to WeightKG when nil or zero.
type ProfileInput struct {
	Age            int           `json:"age"`
	Gender         Gender        `json:"gender"`
	WeightKG       float64       `json:"weight_kg"`
	HeightCM       float64       `json:"height_cm"`
	ActivityLevel  ActivityLevel `json:"activity_level"`
	Goal           Goal          `json:"goal"`
	TargetWeightKG *float64      `json:"target_weight_kg,omitempty"`
	Climate        Climate       `json:"climate,omitempty"`
}

// targetWeight resolves the optional target weight. Zero counts as unset.
func (p ProfileInput) targetWeight() float64 {
	if p.TargetWeightKG == nil || *p.TargetWeightKG == 0 {
		return p.WeightKG
	}
	return *p.TargetWeightKG
}

// Plan is the computed daily nutrition plan. TimeFrameWeeks is 0 for
// maintenance.
type Plan struct {
	CalorieTarget  int     `json:"calorie_target"`
	CarbsG         int     `json:"carbs_g"`
	ProteinG       int     `json:"protein_g"`
	FatG           int     `json:"fat_g"`
	TimeFrameWeeks int     `json:"time_frame"`
	WaterL         float64 `json:"water_l"`
	Flags          []Flag  `json:"flags"`
}

// HasFlag reports whether a flag with the given code fired.
func (p Plan) HasFlag(code string) bool {
	for _, f := range p.Flags {
		if f.Code == code {
			return true
		}
	}
	return false
}
