package finmath

import "math"

// EMIResult is the repayment summary of a reducing-balance loan.
type EMIResult struct {
	MonthlyEMI    float64 `json:"monthly_emi"`
	TotalPayable  float64 `json:"total_payable"`
	TotalInterest float64 `json:"total_interest"`
}

// AmortizationRow aggregates one year of repayments.
type AmortizationRow struct {
	Year           int     `json:"year"`
	PrincipalPaid  float64 `json:"principal_paid"`
	InterestPaid   float64 `json:"interest_paid"`
	ClosingBalance float64 `json:"closing_balance"`
}

func validateLoan(principal, annualRatePct float64, tenureYears int) error {
	if err := checkAmount("principal", principal); err != nil {
		return err
	}
	if err := checkRate("interest rate", annualRatePct); err != nil {
		return err
	}
	return checkYears("tenure", tenureYears)
}

func emi(principal, r float64, n int) float64 {
	if r == 0 {
		return principal / float64(n)
	}
	growth := math.Pow(1+r, float64(n))
	return principal * r * growth / (growth - 1)
}

// ComputeEMI returns the fixed monthly installment for principal borrowed at
// annualRatePct over tenureYears.
func ComputeEMI(principal, annualRatePct float64, tenureYears int) (EMIResult, error) {
	if err := validateLoan(principal, annualRatePct, tenureYears); err != nil {
		return EMIResult{}, err
	}
	n := tenureYears * monthsPerYear
	installment := emi(principal, monthlyRate(annualRatePct), n)
	total := installment * float64(n)
	return EMIResult{
		MonthlyEMI:    installment,
		TotalPayable:  total,
		TotalInterest: total - principal,
	}, nil
}

// ComputeAmortization walks the loan month by month and reports one row per
// year. The last installment settles whatever balance is left, so the final
// closing balance is exactly zero.
func ComputeAmortization(principal, annualRatePct float64, tenureYears int) ([]AmortizationRow, error) {
	if err := validateLoan(principal, annualRatePct, tenureYears); err != nil {
		return nil, err
	}
	r := monthlyRate(annualRatePct)
	n := tenureYears * monthsPerYear
	installment := emi(principal, r, n)

	rows := make([]AmortizationRow, 0, tenureYears)
	balance := principal
	var row AmortizationRow
	for month := 1; month <= n; month++ {
		interest := balance * r
		paid := installment - interest
		if month == n {
			paid = balance
		}
		balance -= paid
		row.PrincipalPaid += paid
		row.InterestPaid += interest

		if month%monthsPerYear == 0 {
			row.Year = month / monthsPerYear
			row.ClosingBalance = balance
			rows = append(rows, row)
			row = AmortizationRow{}
		}
	}
	return rows, nil
}
