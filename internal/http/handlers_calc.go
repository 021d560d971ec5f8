package http

import (
	"errors"
	"net/http"

	"finovo/internal/finmath"
	"finovo/internal/http/schema"
	"finovo/internal/log"
	"finovo/internal/metrics"
)

type sipRequest struct {
	MonthlyAmount   float64 `json:"monthly_amount"`
	AnnualReturnPct float64 `json:"annual_return_pct"`
	Years           int     `json:"years"`
}

type emiRequest struct {
	Principal     float64 `json:"principal"`
	AnnualRatePct float64 `json:"annual_rate_pct"`
	TenureYears   int     `json:"tenure_years"`
}

type retirementRequest struct {
	CurrentAge        int     `json:"current_age"`
	RetirementAge     int     `json:"retirement_age"`
	MonthlyExpenses   float64 `json:"monthly_expenses"`
	InflationPct      float64 `json:"inflation_pct"`
	ExpectedReturnPct float64 `json:"expected_return_pct"`
}

type goalPlanRequest struct {
	TargetAmount      float64 `json:"target_amount"`
	Years             int     `json:"years"`
	ExpectedReturnPct float64 `json:"expected_return_pct"`
}

// calc decodes the body into a fresh Req, runs compute and writes the
// result, counting the run by kind and outcome.
func calc[Req, Res any](s *Server, kind finmath.Kind, schemaName string, compute func(Req) (Res, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Req
		if err := s.decode(r, schemaName, &req); err != nil {
			metrics.CalculatorRuns.WithLabelValues(kind.String(), decodeOutcome(err)).Inc()
			writeError(w, r, err)
			return
		}
		res, err := compute(req)
		metrics.CalculatorRuns.WithLabelValues(kind.String(), finmath.Outcome(err)).Inc()
		if err != nil {
			log.FromContext(r.Context()).DebugContext(r.Context(), "Calculator input rejected",
				log.FieldCalculator, kind.String(), log.FieldError, err)
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// decodeOutcome labels a body that never reached the calculator: malformed
// requests apart from ones the schema rejected.
func decodeOutcome(err error) string {
	var br badRequest
	if errors.As(err, &br) {
		return "bad_request"
	}
	return finmath.Outcome(finmath.ErrValidation)
}

func (s *Server) handleSIP(w http.ResponseWriter, r *http.Request) {
	calc(s, finmath.KindSIP, schema.SIP, func(q sipRequest) (finmath.SIPResult, error) {
		return finmath.ComputeSIP(q.MonthlyAmount, q.AnnualReturnPct, q.Years)
	})(w, r)
}

func (s *Server) handleSIPSchedule(w http.ResponseWriter, r *http.Request) {
	calc(s, finmath.KindSIPSchedule, schema.SIP, func(q sipRequest) ([]finmath.SIPYear, error) {
		return finmath.ComputeSIPSchedule(q.MonthlyAmount, q.AnnualReturnPct, q.Years)
	})(w, r)
}

func (s *Server) handleEMI(w http.ResponseWriter, r *http.Request) {
	calc(s, finmath.KindEMI, schema.EMI, func(q emiRequest) (finmath.EMIResult, error) {
		return finmath.ComputeEMI(q.Principal, q.AnnualRatePct, q.TenureYears)
	})(w, r)
}

func (s *Server) handleEMISchedule(w http.ResponseWriter, r *http.Request) {
	calc(s, finmath.KindAmortization, schema.EMI, func(q emiRequest) ([]finmath.AmortizationRow, error) {
		return finmath.ComputeAmortization(q.Principal, q.AnnualRatePct, q.TenureYears)
	})(w, r)
}

func (s *Server) handleRetirement(w http.ResponseWriter, r *http.Request) {
	calc(s, finmath.KindRetirement, schema.Retirement, func(q retirementRequest) (finmath.RetirementPlan, error) {
		return finmath.ComputeRetirementPlan(q.CurrentAge, q.RetirementAge, q.MonthlyExpenses, q.InflationPct, q.ExpectedReturnPct)
	})(w, r)
}

func (s *Server) handleGoalPlan(w http.ResponseWriter, r *http.Request) {
	calc(s, finmath.KindGoal, schema.GoalPlan, func(q goalPlanRequest) (finmath.GoalPlan, error) {
		return finmath.ComputeGoalSIP(q.TargetAmount, q.Years, q.ExpectedReturnPct)
	})(w, r)
}
