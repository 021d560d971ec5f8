package finmath

import (
	"errors"
	"math"
)

// RetirementPlan sizes the corpus needed at retirement and the monthly SIP
// that reaches it.
type RetirementPlan struct {
	YearsToRetirement     int     `json:"years_to_retirement"`
	FutureMonthlyExpenses float64 `json:"future_monthly_expenses"`
	RequiredCorpus        float64 `json:"required_corpus"`
	RequiredMonthlySIP    float64 `json:"required_monthly_sip"`
}

// GoalPlan is the monthly contribution that grows into a target amount.
type GoalPlan struct {
	RequiredMonthlySIP float64 `json:"required_monthly_sip"`
	TotalInvested      float64 `json:"total_invested"`
	ExpectedGains      float64 `json:"expected_gains"`
}

// ComputeRetirementPlan inflates today's monthly expenses to the retirement
// date and sizes a corpus whose yearly return at expectedReturnPct covers
// them forever. The corpus is a perpetuity: it is never drawn down.
//
// A zero expected return makes the perpetuity undefined and is rejected.
func ComputeRetirementPlan(currentAge, retirementAge int, monthlyExpenses, inflationPct, expectedReturnPct float64) (RetirementPlan, error) {
	if currentAge <= 0 {
		return RetirementPlan{}, invalid("current age", "must be greater than zero")
	}
	if retirementAge <= currentAge {
		return RetirementPlan{}, invalid("retirement age", "must be greater than current age")
	}
	years := retirementAge - currentAge
	if err := checkYears("years to retirement", years); err != nil {
		return RetirementPlan{}, err
	}
	if err := checkAmount("monthly expenses", monthlyExpenses); err != nil {
		return RetirementPlan{}, err
	}
	if err := checkRate("inflation", inflationPct); err != nil {
		return RetirementPlan{}, err
	}
	if err := checkRate("expected return", expectedReturnPct); err != nil {
		return RetirementPlan{}, err
	}
	if expectedReturnPct == 0 {
		return RetirementPlan{}, invalid("expected return", "must be greater than zero to size a corpus")
	}

	future := monthlyExpenses * math.Pow(1+inflationPct/100, float64(years))
	corpus := future * monthsPerYear / (expectedReturnPct / 100)
	sip := sipContribution(corpus, monthlyRate(expectedReturnPct), years*monthsPerYear)

	return RetirementPlan{
		YearsToRetirement:     years,
		FutureMonthlyExpenses: future,
		RequiredCorpus:        corpus,
		RequiredMonthlySIP:    sip,
	}, nil
}

// ComputeGoalSIP returns the monthly contribution, invested at the start of
// each month, that grows to target after years at expectedReturnPct.
func ComputeGoalSIP(target float64, years int, expectedReturnPct float64) (GoalPlan, error) {
	if err := checkAmount("target amount", target); err != nil {
		return GoalPlan{}, err
	}
	if err := checkYears("duration", years); err != nil {
		return GoalPlan{}, err
	}
	if err := checkRate("expected return", expectedReturnPct); err != nil {
		return GoalPlan{}, err
	}
	n := years * monthsPerYear
	sip := sipContribution(target, monthlyRate(expectedReturnPct), n)
	invested := sip * float64(n)
	return GoalPlan{
		RequiredMonthlySIP: sip,
		TotalInvested:      invested,
		ExpectedGains:      target - invested,
	}, nil
}

// Kind names a calculator for logging and metrics.
type Kind string

const (
	KindSIP          Kind = "sip"
	KindSIPSchedule  Kind = "sip_schedule"
	KindEMI          Kind = "emi"
	KindAmortization Kind = "amortization"
	KindRetirement   Kind = "retirement"
	KindGoal         Kind = "goal"
)

func (k Kind) String() string { return string(k) }

// Outcome labels a calculator result for metrics.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrValidation):
		return "rejected"
	default:
		return "error"
	}
}
