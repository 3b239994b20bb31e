package nutrition

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kg(v float64) *float64 { return &v }

/* ─── Worked scenarios ───────────────────────────────────────────────── */

func TestComputePlan_Scenarios(t *testing.T) {
	cases := []struct {
		name  string
		in    ProfileInput
		want  Plan
		flags []string
	}{
		{
			// BMR = 10*80 + 6.25*180 - 5*25 + 5 = 1805, TDEE = 1805*1.55 = 2797.75.
			name: "adult male maintenance",
			in:   ProfileInput{Age: 25, Gender: "male", WeightKG: 80, HeightCM: 180, ActivityLevel: "moderately active", Goal: GoalMaintenance},
			want: Plan{CalorieTarget: 2798, CarbsG: 350, ProteinG: 175, FatG: 78, TimeFrameWeeks: 0, WaterL: 3.25},
		},
		{
			name:  "female over fifty losing weight hits the floor",
			in:    ProfileInput{Age: 55, Gender: "female", WeightKG: 70, HeightCM: 165, ActivityLevel: "sedentary", Goal: GoalWeightLoss, TargetWeightKG: kg(60)},
			want:  Plan{CalorieTarget: 1360, CarbsG: 119, ProteinG: 119, FatG: 45, TimeFrameWeeks: 19, WaterL: 2.45},
			flags: []string{FlagCalorieBelowLowerBound, FlagTimeframeExtended, FlagProteinIncreasedForAge},
		},
		{
			name: "female over fifty gaining weight hits the ceiling",
			in:   ProfileInput{Age: 55, Gender: "Female", WeightKG: 70, HeightCM: 165, ActivityLevel: "sedentary", Goal: GoalWeightGain, TargetWeightKG: kg(75)},
			want: Plan{CalorieTarget: 1829, CarbsG: 192, ProteinG: 137, FatG: 57, TimeFrameWeeks: 20, WaterL: 2.45},
			flags: []string{
				FlagCalorieAboveUpperBound, FlagTimeframeExtended,
				FlagProteinIncreasedForAge, FlagFatRaisedForGender,
			},
		},
		{
			// Minor formula: 17.5*60 + 651 = 1701, TDEE = 2041.2.
			name:  "minor male",
			in:    ProfileInput{Age: 16, Gender: "male", WeightKG: 60, HeightCM: 175, ActivityLevel: "sedentary"},
			want:  Plan{CalorieTarget: 2041, CarbsG: 255, ProteinG: 128, FatG: 57, WaterL: 2.1},
			flags: []string{FlagMinorUser},
		},
		{
			name:  "extreme weight",
			in:    ProfileInput{Age: 30, Gender: "male", WeightKG: 190, HeightCM: 185, ActivityLevel: "sedentary", Goal: GoalMaintenance},
			want:  Plan{CalorieTarget: 3494, CarbsG: 437, ProteinG: 218, FatG: 97, WaterL: 6.65},
			flags: []string{FlagExtremeWeightRange},
		},
		{
			name:  "young female loss hits the floor",
			in:    ProfileInput{Age: 30, Gender: "female", WeightKG: 55, HeightCM: 160, ActivityLevel: "sedentary", Goal: GoalWeightLoss, TargetWeightKG: kg(45)},
			want:  Plan{CalorieTarget: 1239, CarbsG: 124, ProteinG: 93, FatG: 41, TimeFrameWeeks: 17, WaterL: 1.93},
			flags: []string{FlagCalorieBelowLowerBound, FlagTimeframeExtended},
		},
		{
			name:  "lean male bulk hits the ceiling",
			in:    ProfileInput{Age: 25, Gender: "male", WeightKG: 60, HeightCM: 180, ActivityLevel: "very active", Goal: GoalWeightGain, TargetWeightKG: kg(80)},
			want:  Plan{CalorieTarget: 2400, CarbsG: 300, ProteinG: 150, FatG: 67, TimeFrameWeeks: 65, WaterL: 2.73},
			flags: []string{FlagCalorieAboveUpperBound, FlagTimeframeExtended},
		},
		{
			name: "loss within bounds",
			in:   ProfileInput{Age: 40, Gender: "male", WeightKG: 100, HeightCM: 180, ActivityLevel: "lightly active", Goal: GoalWeightLoss, TargetWeightKG: kg(85)},
			want: Plan{CalorieTarget: 1966, CarbsG: 197, ProteinG: 147, FatG: 66, TimeFrameWeeks: 24, WaterL: 3.78},
		},
		{
			name:  "elderly male in hot climate",
			in:    ProfileInput{Age: 72, Gender: "male", WeightKG: 75, HeightCM: 175, ActivityLevel: "moderately active", Goal: GoalMaintenance, Climate: ClimateHot},
			want:  Plan{CalorieTarget: 2308, CarbsG: 260, ProteinG: 173, FatG: 64, WaterL: 2.89},
			flags: []string{FlagProteinIncreasedForAge, FlagElderlyUser},
		},
		{
			name:  "heavy loss capped at two years",
			in:    ProfileInput{Age: 35, Gender: "male", WeightKG: 200, HeightCM: 190, ActivityLevel: "sedentary", Goal: GoalWeightLoss, TargetWeightKG: kg(100)},
			want:  Plan{CalorieTarget: 3018, CarbsG: 302, ProteinG: 226, FatG: 101, TimeFrameWeeks: 104, WaterL: 7},
			flags: []string{FlagCalorieBelowLowerBound, FlagTimeframeExtended, FlagExtremeWeightRange},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ComputePlan(tc.in)
			require.NoError(t, err)

			if tc.flags == nil {
				tc.flags = []string{}
			}
			assert.Equal(t, tc.flags, codes(got.Flags))

			got.Flags = nil
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("plan mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestComputePlan_TargetEqualToCurrentIsMaintenance(t *testing.T) {
	in := ProfileInput{Age: 30, Gender: "male", WeightKG: 80, HeightCM: 180, ActivityLevel: "sedentary", Goal: GoalWeightLoss, TargetWeightKG: kg(80)}
	got, err := ComputePlan(in)
	require.NoError(t, err)
	assert.Equal(t, 0, got.TimeFrameWeeks)
	assert.Equal(t, 2136, got.CalorieTarget)
}

func TestComputePlan_HeightInMeters(t *testing.T) {
	inMeters := ProfileInput{Age: 30, Gender: "male", WeightKG: 80, HeightCM: 1.8, ActivityLevel: "sedentary"}
	inCM := inMeters
	inCM.HeightCM = 180

	a, err := ComputePlan(inMeters)
	require.NoError(t, err)
	b, err := ComputePlan(inCM)
	require.NoError(t, err)
	assert.Equal(t, b, a)
}

func TestComputePlan_FlagsNeverNil(t *testing.T) {
	got, err := ComputePlan(ProfileInput{Age: 30, Gender: "male", WeightKG: 80, HeightCM: 180})
	require.NoError(t, err)
	assert.NotNil(t, got.Flags)
	assert.Empty(t, got.Flags)
}

func TestComputePlan_FlagSeverities(t *testing.T) {
	got, err := ComputePlan(ProfileInput{Age: 16, Gender: "female", WeightKG: 38, HeightCM: 150, Goal: GoalWeightGain, TargetWeightKG: kg(48)})
	require.NoError(t, err)
	for _, f := range got.Flags {
		switch f.Code {
		case FlagCalorieBelowLowerBound, FlagCalorieAboveUpperBound, FlagMinorUser, FlagExtremeWeightRange, FlagMacroFallbackApplied:
			assert.Equal(t, SeverityWarning, f.Severity, f.Code)
		default:
			assert.Equal(t, SeverityInfo, f.Severity, f.Code)
		}
		assert.NotEmpty(t, f.Message)
	}
	assert.True(t, got.HasFlag(FlagMinorUser))
	assert.True(t, got.HasFlag(FlagExtremeWeightRange))
}

/* ─── Errors ─────────────────────────────────────────────────────────── */

func TestComputePlan_InvalidInput(t *testing.T) {
	valid := ProfileInput{Age: 30, Gender: "male", WeightKG: 80, HeightCM: 180}
	cases := []struct {
		name  string
		mutFn func(p *ProfileInput)
		field string
	}{
		{"negative age", func(p *ProfileInput) { p.Age = -1 }, "age"},
		{"zero weight", func(p *ProfileInput) { p.WeightKG = 0 }, "weight"},
		{"negative weight", func(p *ProfileInput) { p.WeightKG = -70 }, "weight"},
		{"NaN weight", func(p *ProfileInput) { p.WeightKG = math.NaN() }, "weight"},
		{"zero height", func(p *ProfileInput) { p.HeightCM = 0 }, "height"},
		{"negative target", func(p *ProfileInput) { p.TargetWeightKG = kg(-5) }, "target weight"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mutFn(&in)
			got, err := ComputePlan(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.NotErrorIs(t, err, ErrUnreachableRate)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.field, verr.Field)
			assert.Equal(t, Plan{}, got)
		})
	}
}

/* ─── Properties ─────────────────────────────────────────────────────── */

// profileGrid enumerates a spread of valid profiles for property checks.
func profileGrid() []ProfileInput {
	var out []ProfileInput
	for _, age := range []int{0, 12, 17, 18, 25, 45, 49, 50, 64, 70, 80, 95} {
		for _, g := range []Gender{GenderMale, GenderFemale, GenderOther} {
			for _, w := range []float64{30, 55, 80, 120, 190} {
				for _, lvl := range []ActivityLevel{Sedentary, ModeratelyActive, VeryActive} {
					for _, goal := range []Goal{GoalMaintenance, GoalWeightLoss, GoalWeightGain} {
						target := w
						switch goal {
						case GoalWeightLoss:
							target = w * 0.8
						case GoalWeightGain:
							target = w * 1.15
						}
						out = append(out, ProfileInput{
							Age: age, Gender: g, WeightKG: w, HeightCM: 170,
							ActivityLevel: lvl, Goal: goal, TargetWeightKG: kg(target),
						})
					}
				}
			}
		}
	}
	return out
}

func TestComputePlan_Properties(t *testing.T) {
	for _, in := range profileGrid() {
		name := fmt.Sprintf("%d/%s/%.0f/%s/%s", in.Age, in.Gender, in.WeightKG, in.ActivityLevel, in.Goal)
		got, err := ComputePlan(in)
		require.NoError(t, err, name)

		assert.GreaterOrEqual(t, got.TimeFrameWeeks, 0, name)
		assert.LessOrEqual(t, got.TimeFrameWeeks, maxWeeks, name)

		bmr := BMR(in.WeightKG, in.HeightCM, in.Age, in.Gender)
		tdee := TDEE(bmr, in.ActivityLevel)

		if in.Goal == GoalMaintenance {
			assert.Equal(t, 0, got.TimeFrameWeeks, name)
			assert.Equal(t, int(math.Round(tdee)), got.CalorieTarget, name)
		} else {
			assert.GreaterOrEqual(t, got.TimeFrameWeeks, minWeeks, name)
			lower, upper := CalorieBounds(bmr, tdee, in.WeightKG, in.Age, in.Gender)
			kcal := float64(got.CalorieTarget)
			within := kcal >= lower-1 && kcal <= upper+1
			clamped := got.HasFlag(FlagCalorieBelowLowerBound) || got.HasFlag(FlagCalorieAboveUpperBound)
			assert.True(t, within || clamped, "%s: %d outside [%.1f, %.1f] without a clamp flag", name, got.CalorieTarget, lower, upper)
		}

		// Each gram figure is rounded on its own, so the energy total can be
		// off by at most 2 + 2 + 4.5 kcal.
		energy := got.CarbsG*4 + got.ProteinG*4 + got.FatG*9
		assert.InDelta(t, got.CalorieTarget, energy, 8.5, name)
	}
}

func TestComputePlan_Idempotent(t *testing.T) {
	for _, in := range profileGrid() {
		a, errA := ComputePlan(in)
		b, errB := ComputePlan(in)
		require.NoError(t, errA)
		require.NoError(t, errB)
		if diff := cmp.Diff(a, b); diff != "" {
			t.Fatalf("non-deterministic plan for %+v:\n%s", in, diff)
		}
	}
}

func TestComputePlan_ConcurrentCallsAgree(t *testing.T) {
	in := ProfileInput{Age: 55, Gender: "female", WeightKG: 70, HeightCM: 165, Goal: GoalWeightLoss, TargetWeightKG: kg(60)}
	want, err := ComputePlan(in)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]Plan, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = ComputePlan(in)
		}(i)
	}
	wg.Wait()
	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestComputePlan_ProteinNeverDropsAtFifty(t *testing.T) {
	for _, g := range []Gender{GenderMale, GenderFemale} {
		for _, goal := range []Goal{GoalMaintenance, GoalWeightLoss, GoalWeightGain} {
			base := ProfileInput{Gender: g, WeightKG: 90, HeightCM: 180, ActivityLevel: Sedentary, Goal: goal, TargetWeightKG: kg(85)}
			if goal == GoalWeightGain {
				base.TargetWeightKG = kg(95)
			}
			at49, at50 := base, base
			at49.Age, at50.Age = 49, 50

			p49, err := ComputePlan(at49)
			require.NoError(t, err)
			p50, err := ComputePlan(at50)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, p50.ProteinG, p49.ProteinG, "%s %s", g, goal)
			assert.True(t, p50.HasFlag(FlagProteinIncreasedForAge))
		}
	}
}
