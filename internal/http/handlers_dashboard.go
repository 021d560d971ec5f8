package http

import (
	"errors"
	"net/http"

	"finovo/internal/core"
	"finovo/internal/http/schema"
	"finovo/internal/services"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	a, err := s.deps.Dashboard.Analysis(r.Context(), authContext(r).UserID(), s.now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	writeJSON(w, http.StatusOK, map[string][]string{
		"expense_categories":    core.ExpenseCategories,
		"investment_categories": core.InvestmentCategories,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	exp, err := s.deps.Accounts.Export(r.Context(), authContext(r).UserID())
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+services.ExportFilename(exp.ExportDate)+`"`)
	writeJSON(w, http.StatusOK, exp)
}

type deleteAccountRequest struct {
	Confirmation string `json:"confirmation"`
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	var req deleteAccountRequest
	if err := s.decode(r, schema.AccountDelete, &req); err != nil {
		writeError(w, r, err)
		return
	}
	err := s.deps.Accounts.DeleteAccount(r.Context(), authContext(r).UserID(), req.Confirmation)
	if errors.Is(err, services.ErrConfirmationMismatch) {
		writeAPIError(w, http.StatusBadRequest, CodeBadRequest,
			`Type "`+services.DeleteConfirmation+`" to confirm account deletion.`, nil)
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
