package finmath

// SIPResult is the outcome of a fixed monthly contribution plan.
type SIPResult struct {
	TotalInvested float64 `json:"total_invested"`
	FutureValue   float64 `json:"future_value"`
	TotalReturns  float64 `json:"total_returns"`
}

// SIPYear is one row of the year-by-year SIP breakdown.
type SIPYear struct {
	Year     int     `json:"year"`
	Invested float64 `json:"invested"`
	Value    float64 `json:"value"`
	Returns  float64 `json:"returns"`
}

func validateSIP(monthly, annualReturnPct float64, years int) error {
	if err := checkAmount("monthly amount", monthly); err != nil {
		return err
	}
	if err := checkRate("annual return", annualReturnPct); err != nil {
		return err
	}
	return checkYears("duration", years)
}

// ComputeSIP returns the future value of investing monthly at the start of
// every month for years, compounded monthly at annualReturnPct.
func ComputeSIP(monthly, annualReturnPct float64, years int) (SIPResult, error) {
	if err := validateSIP(monthly, annualReturnPct, years); err != nil {
		return SIPResult{}, err
	}
	n := years * monthsPerYear
	fv := sipFutureValue(monthly, monthlyRate(annualReturnPct), n)
	invested := monthly * float64(n)
	return SIPResult{
		TotalInvested: invested,
		FutureValue:   fv,
		TotalReturns:  fv - invested,
	}, nil
}

// ComputeSIPSchedule returns one row per year, each evaluated with the SIP
// formula over year*12 contributions. The slice has exactly years entries.
func ComputeSIPSchedule(monthly, annualReturnPct float64, years int) ([]SIPYear, error) {
	if err := validateSIP(monthly, annualReturnPct, years); err != nil {
		return nil, err
	}
	r := monthlyRate(annualReturnPct)
	rows := make([]SIPYear, 0, years)
	for year := 1; year <= years; year++ {
		n := year * monthsPerYear
		value := sipFutureValue(monthly, r, n)
		invested := monthly * float64(n)
		rows = append(rows, SIPYear{
			Year:     year,
			Invested: invested,
			Value:    value,
			Returns:  value - invested,
		})
	}
	return rows, nil
}
