package nutrition

// MacroSplit is the fraction of calories allotted to each macronutrient.
type MacroSplit struct {
	Carb    float64 `json:"carb"`
	Protein float64 `json:"protein"`
	Fat     float64 `json:"fat"`
}

var (
	maintenanceSplit = MacroSplit{Carb: 0.50, Protein: 0.25, Fat: 0.25}
	lossSplit        = MacroSplit{Carb: 0.40, Protein: 0.30, Fat: 0.30}
	gainSplit        = MacroSplit{Carb: 0.50, Protein: 0.25, Fat: 0.25}
	fallbackSplit    = MacroSplit{Carb: 0.45, Protein: 0.30, Fat: 0.25}
)

const (
	agedProteinBoost = 0.05
	agedProteinCap   = 0.35
	femaleFatFloor   = 0.28
	overrideFloor    = 0.20

	minProtein = 0.18
	minCarb    = 0.35
	minFat     = 0.20
)

func (m MacroSplit) sum() float64 { return m.Carb + m.Protein + m.Fat }

func (m MacroSplit) normalized() MacroSplit {
	t := m.sum()
	return MacroSplit{Carb: m.Carb / t, Protein: m.Protein / t, Fat: m.Fat / t}
}

// ApplyMacroOverrides adjusts a base split for age and gender, then
// renormalizes, applies the post-normalization floors and renormalizes again.
// The order matters: floors are only applied after the overrides.
// Flags that fire are appended to the returned slice in firing order.
func ApplyMacroOverrides(age int, g Gender, base MacroSplit) (MacroSplit, []Flag) {
	var flags flagList
	m := base

	if age >= 50 {
		newProt := min(m.Protein+agedProteinBoost, agedProteinCap)
		if newProt > m.Protein {
			delta := newProt - m.Protein
			m.Protein = newProt
			taken := min(m.Carb, delta)
			m.Carb -= taken
			if rem := delta - taken; rem > 0 {
				m.Fat = max(overrideFloor, m.Fat-rem)
			}
			flags.add(FlagProteinIncreasedForAge, SeverityInfo, "Protein increased for age >= 50")
		}
	}

	if g == GenderFemale && m.Fat < femaleFatFloor {
		needed := femaleFatFloor - m.Fat
		m.Fat = femaleFatFloor
		taken := min(m.Carb, needed)
		m.Carb -= taken
		if rem := needed - taken; rem > 0 {
			m.Protein = max(overrideFloor, m.Protein-rem)
		}
		flags.add(FlagFatRaisedForGender, SeverityInfo, "Fat raised to minimum for female users")
	}

	if m.sum() <= 0 {
		flags.add(FlagMacroFallbackApplied, SeverityWarning, "Fallback macros applied")
		return fallbackSplit, flags
	}

	m = m.normalized()
	m.Protein = max(m.Protein, minProtein)
	m.Carb = max(m.Carb, minCarb)
	m.Fat = max(m.Fat, minFat)
	return m.normalized(), flags
}

// grams converts a calorie target and split to whole grams
// (4 kcal/g carbs and protein, 9 kcal/g fat).
func (m MacroSplit) grams(kcal int) (carbs, protein, fat int) {
	k := float64(kcal)
	return roundInt(k * m.Carb / 4), roundInt(k * m.Protein / 4), roundInt(k * m.Fat / 9)
}
