// Package finmath implements the time-value-of-money calculators behind the
// Finovo tools: SIP growth, EMI amortization, retirement corpus sizing and
// goal-based SIP sizing.
//
// Every function is pure. Rates are annual percentages compounded monthly,
// durations are whole years and amounts are in a single currency unit.
// A zero rate is never an error: each formula falls back to its closed-form
// limit.
package finmath

import (
	"errors"
	"fmt"
	"math"
)

const (
	// MaxYears bounds every duration input.
	MaxYears = 100
	// MaxRatePercent bounds every annual rate input.
	MaxRatePercent = 100.0
	// MaxAmount bounds every currency input.
	MaxAmount = 1e12

	monthsPerYear = 12
)

// ErrValidation matches every *ValidationError via errors.Is.
var ErrValidation = errors.New("invalid calculator input")

// ValidationError reports an input rejected before computation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func checkAmount(field string, v float64) error {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return invalid(field, "must be a finite number")
	case v <= 0:
		return invalid(field, "must be greater than zero")
	case v > MaxAmount:
		return invalid(field, fmt.Sprintf("must not exceed %.0f", MaxAmount))
	}
	return nil
}

func checkYears(field string, years int) error {
	if years <= 0 {
		return invalid(field, "must be at least one year")
	}
	if years > MaxYears {
		return invalid(field, fmt.Sprintf("must not exceed %d years", MaxYears))
	}
	return nil
}

func checkRate(field string, pct float64) error {
	switch {
	case math.IsNaN(pct) || math.IsInf(pct, 0):
		return invalid(field, "must be a finite percentage")
	case pct < 0:
		return invalid(field, "must not be negative")
	case pct > MaxRatePercent:
		return invalid(field, fmt.Sprintf("must not exceed %.0f%%", MaxRatePercent))
	}
	return nil
}

func monthlyRate(annualPct float64) float64 {
	return annualPct / 100 / monthsPerYear
}

// sipFutureValue is the annuity-due future value of n contributions of p.
func sipFutureValue(p, r float64, n int) float64 {
	if r == 0 {
		return p * float64(n)
	}
	growth := math.Pow(1+r, float64(n))
	return p * ((growth - 1) / r) * (1 + r)
}

// sipContribution inverts sipFutureValue for p.
func sipContribution(target, r float64, n int) float64 {
	if r == 0 {
		return target / float64(n)
	}
	growth := math.Pow(1+r, float64(n))
	return target * r / ((growth - 1) * (1 + r))
}
