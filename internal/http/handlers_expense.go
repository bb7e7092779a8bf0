package http

import (
	"net/http"

	"garasi/internal/core"
	"garasi/internal/services"
)

type expenseRequest struct {
	Deskripsi string     `json:"deskripsi"`
	Harga     jsonAmount `json:"harga"`
	Tanggal   string     `json:"tanggal"`
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.expenses.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if expenses == nil {
		expenses = []core.Expense{}
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tanggal, err := parseDay(req.Tanggal)
	if err != nil {
		writeDomainError(w, r, core.ErrInvalidTanggal)
		return
	}

	e, err := s.expenses.Create(r.Context(), services.ExpenseInput{
		Deskripsi: sanitizeInput(req.Deskripsi),
		Harga:     req.Harga.Money,
		Tanggal:   tanggal,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.invalidateDashboard()
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.expenses.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.invalidateDashboard()
	w.WriteHeader(http.StatusNoContent)
}
