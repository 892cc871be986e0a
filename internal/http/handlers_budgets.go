package http

import (
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

type budgetRequest struct {
	Category *string     `json:"category"`
	Limit    *core.Money `json:"limit"`
	Month    *int        `json:"month"`
	Year     *int        `json:"year"`
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.store.ListBudgets(r.Context(), s.currentUserID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if budgets == nil {
		budgets = []core.Budget{}
	}
	writeJSON(w, http.StatusOK, budgets)
}

func (s *Server) handleListBudgetsByMonth(w http.ResponseWriter, r *http.Request) {
	month, year, ok := periodParams(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid month or year")
		return
	}
	budgets, err := s.store.ListBudgetsByMonth(r.Context(), s.currentUserID(r), month, year)
	if err != nil {
		writeError(w, err)
		return
	}
	if budgets == nil {
		budgets = []core.Budget{}
	}
	writeJSON(w, http.StatusOK, budgets)
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	in := core.BudgetInput{UserID: s.currentUserID(r)}
	if req.Category != nil {
		in.Category = *req.Category
	}
	if req.Limit != nil {
		in.Limit = *req.Limit
	}
	if req.Month != nil {
		in.Month = *req.Month
	}
	if req.Year != nil {
		in.Year = *req.Year
	}

	if err := in.Validate(); err != nil {
		writeError(w, err)
		return
	}
	budget, err := s.store.CreateBudget(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	s.summaries.InvalidateUser(budget.UserID)
	log.FromContext(r.Context()).Info("Budget created",
		log.FieldBudgetID, budget.ID,
		log.FieldUserID, budget.UserID,
		log.FieldCategory, budget.Category,
		log.FieldOperation, log.OpCreate)
	writeJSON(w, http.StatusCreated, budget)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid budget id")
		return
	}
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	patch := core.BudgetPatch{
		Category: req.Category,
		Limit:    req.Limit,
		Month:    req.Month,
		Year:     req.Year,
	}
	if err := patch.Validate(); err != nil {
		writeError(w, err)
		return
	}
	budget, err := s.store.UpdateBudget(r.Context(), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	s.summaries.InvalidateUser(budget.UserID)
	log.FromContext(r.Context()).Info("Budget updated",
		log.FieldBudgetID, budget.ID,
		log.FieldUserID, budget.UserID,
		log.FieldOperation, log.OpUpdate)
	writeJSON(w, http.StatusOK, budget)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid budget id")
		return
	}
	budget, err := s.store.GetBudget(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.DeleteBudget(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	s.summaries.InvalidateUser(budget.UserID)
	log.FromContext(r.Context()).Info("Budget deleted",
		log.FieldBudgetID, budget.ID,
		log.FieldUserID, budget.UserID,
		log.FieldOperation, log.OpDelete)
	w.WriteHeader(http.StatusNoContent)
}
