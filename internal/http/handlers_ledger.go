package http

import (
	"net/http"

	"finovo/internal/core"
	"finovo/internal/http/schema"
	"finovo/internal/services"
)

type expenseRequest struct {
	Category    string           `json:"category"`
	Amount      core.Money       `json:"amount"`
	Description string           `json:"description"`
	Date        core.Date        `json:"date"`
	Type        core.ExpenseType `json:"type"`
}

type expensePatch struct {
	Type core.ExpenseType `json:"type"`
}

type investmentRequest struct {
	Type         string                    `json:"type"`
	Amount       core.Money                `json:"amount"`
	CurrentValue core.Optional[core.Money] `json:"current_value"`
	Date         core.Date                 `json:"date"`
	Platform     string                    `json:"platform"`
}

type valuePatch struct {
	CurrentValue core.Money `json:"current_value"`
}

type goalRequest struct {
	Name          string            `json:"name"`
	TargetAmount  core.Money        `json:"target_amount"`
	CurrentAmount core.Money        `json:"current_amount"`
	TargetDate    core.Date         `json:"target_date"`
	Priority      core.GoalPriority `json:"priority"`
	Category      core.GoalCategory `json:"category"`
}

type goalPatch struct {
	CurrentAmount core.Money `json:"current_amount"`
}

// listOf keeps empty lists as [] rather than null.
func listOf[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	items, err := s.deps.Ledger.ListExpenses(r.Context(), authContext(r).UserID())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listOf(items))
}

// handleCreateExpense answers with the stored entry. Savings come back as
// an investment, so the body carries its kind.
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := s.decode(r, schema.Expense, &req); err != nil {
		writeError(w, r, err)
		return
	}
	entry, err := s.deps.Ledger.AddExpense(r.Context(), authContext(r).UserID(), services.ExpenseInput{
		Category:    sanitizeInput(req.Category),
		Amount:      req.Amount,
		Description: sanitizeInput(req.Description),
		Date:        req.Date,
		Type:        req.Type,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handlePatchExpense(w http.ResponseWriter, r *http.Request) {
	var req expensePatch
	if err := s.decode(r, schema.ExpensePatch, &req); err != nil {
		writeError(w, r, err)
		return
	}
	e, err := s.deps.Ledger.UpdateExpenseType(r.Context(), authContext(r).UserID(), r.PathValue("id"), req.Type)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Ledger.DeleteExpense(r.Context(), authContext(r).UserID(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListInvestments(w http.ResponseWriter, r *http.Request) {
	items, err := s.deps.Ledger.ListInvestments(r.Context(), authContext(r).UserID())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listOf(items))
}

func (s *Server) handleCreateInvestment(w http.ResponseWriter, r *http.Request) {
	var req investmentRequest
	if err := s.decode(r, schema.Investment, &req); err != nil {
		writeError(w, r, err)
		return
	}
	inv, err := s.deps.Ledger.AddInvestment(r.Context(), authContext(r).UserID(), services.InvestmentInput{
		Type:         sanitizeInput(req.Type),
		Amount:       req.Amount,
		Date:         req.Date,
		Platform:     sanitizeInput(req.Platform),
		CurrentValue: req.CurrentValue,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

func (s *Server) handlePatchInvestment(w http.ResponseWriter, r *http.Request) {
	var req valuePatch
	if err := s.decode(r, schema.ValuePatch, &req); err != nil {
		writeError(w, r, err)
		return
	}
	inv, err := s.deps.Ledger.UpdateInvestmentValue(r.Context(), authContext(r).UserID(), r.PathValue("id"), req.CurrentValue)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (s *Server) handleDeleteInvestment(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Ledger.DeleteInvestment(r.Context(), authContext(r).UserID(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	items, err := s.deps.Ledger.ListGoals(r.Context(), authContext(r).UserID())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listOf(items))
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := s.decode(r, schema.Goal, &req); err != nil {
		writeError(w, r, err)
		return
	}
	g, err := s.deps.Ledger.AddGoal(r.Context(), authContext(r).UserID(), services.GoalInput{
		Name:          sanitizeInput(req.Name),
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		TargetDate:    req.TargetDate,
		Priority:      req.Priority,
		Category:      req.Category,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (s *Server) handlePatchGoal(w http.ResponseWriter, r *http.Request) {
	var req goalPatch
	if err := s.decode(r, schema.GoalPatch, &req); err != nil {
		writeError(w, r, err)
		return
	}
	g, err := s.deps.Ledger.UpdateGoalProgress(r.Context(), authContext(r).UserID(), r.PathValue("id"), req.CurrentAmount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Ledger.DeleteGoal(r.Context(), authContext(r).UserID(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
