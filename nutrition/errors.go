package nutrition

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidInput is matched by every *ValidationError.
	ErrInvalidInput = errors.New("invalid profile input")

	// ErrUnreachableRate means the safe weekly rate came out non-positive for a
	// goal that needs one. The rate floors make this unreachable, so seeing it
	// is an internal bug rather than bad input.
	ErrUnreachableRate = errors.New("computed weekly rate is zero; cannot estimate timeframe")
)

// ValidationError reports the first profile field that failed validation.
type ValidationError struct {
	Field string
	Value float64
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %g", e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// validate rejects profiles the formulas cannot handle. NaN fails the
// positivity checks as well.
func validate(p ProfileInput) error {
	if p.Age < 0 {
		return &ValidationError{Field: "age", Value: float64(p.Age)}
	}
	if !(p.WeightKG > 0) {
		return &ValidationError{Field: "weight", Value: p.WeightKG}
	}
	if !(p.HeightCM > 0) {
		return &ValidationError{Field: "height", Value: p.HeightCM}
	}
	if t := p.TargetWeightKG; t != nil && (*t < 0 || math.IsNaN(*t)) {
		return &ValidationError{Field: "target weight", Value: *p.TargetWeightKG}
	}
	return nil
}
