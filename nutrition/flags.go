package nutrition

// Severity of an advisory flag.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Flag explains an automatic adjustment or a condition worth a human look.
type Flag struct {
	Code     string   `json:"code"`
	Severity Severity `json:"level"`
	Message  string   `json:"message"`
}

// Flag codes, in the order they can fire during a computation.
const (
	FlagCalorieBelowLowerBound = "calorie_below_lower_bound"
	FlagCalorieAboveUpperBound = "calorie_above_upper_bound"
	FlagTimeframeExtended      = "timeframe_extended_for_safety"
	FlagProteinIncreasedForAge = "protein_increased_for_age"
	FlagFatRaisedForGender     = "fat_raised_for_gender"
	FlagMacroFallbackApplied   = "macro_fallback_applied"
	FlagMinorUser              = "minor_user_warning"
	FlagElderlyUser            = "elderly_user_warning"
	FlagExtremeWeightRange     = "extreme_weight_range"
)

// flagList accumulates flags for a single computation. Flags are only ever
// appended, so the slice order is the firing order.
type flagList []Flag

func (l *flagList) add(code string, sev Severity, msg string) {
	*l = append(*l, Flag{Code: code, Severity: sev, Message: msg})
}

// advisoryFlags appends the age and weight advisories that do not depend on
// the calorie or macro logic.
func advisoryFlags(flags *flagList, age int, weightKG float64) {
	if age < 18 {
		flags.add(FlagMinorUser, SeverityWarning, "User is a minor; parental/clinical oversight recommended")
	}
	if age >= 70 {
		flags.add(FlagElderlyUser, SeverityInfo, "Elderly user; consider clinical review for major changes")
	}
	if weightKG < 40 || weightKG > 180 {
		flags.add(FlagExtremeWeightRange, SeverityWarning, "User weight in extreme range; consider clinical review")
	}
}
