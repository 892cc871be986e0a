package http

import (
	"net/http"

	"fintrack/internal/core"
)

// entryRequest is the wire shape for entry create and update. All
// fields are pointers so updates can distinguish absent from zero.
type entryRequest struct {
	Category    *string     `json:"category"`
	Amount      *core.Money `json:"amount"`
	IsIncome    *bool       `json:"isIncome"`
	Description *string     `json:"description"`
	Date        *string     `json:"date"`
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.entries.List(r.Context(), s.currentUserID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if entries == nil {
		entries = []core.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleListEntriesByMonth(w http.ResponseWriter, r *http.Request) {
	month, year, ok := periodParams(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid month or year")
		return
	}
	entries, err := s.entries.ListByMonth(r.Context(), s.currentUserID(r), month, year)
	if err != nil {
		writeError(w, err)
		return
	}
	if entries == nil {
		entries = []core.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	in := core.EntryInput{UserID: s.currentUserID(r)}
	if req.Category != nil {
		in.Category = *req.Category
	}
	if req.Amount != nil {
		in.Amount = *req.Amount
	}
	if req.IsIncome != nil {
		in.IsIncome = *req.IsIncome
	}
	in.Description = req.Description
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid date: "+err.Error())
			return
		}
		in.Date = date
	}

	if err := in.Validate(); err != nil {
		writeError(w, err)
		return
	}
	entry, err := s.entries.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid entry id")
		return
	}
	var req entryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	patch := core.EntryPatch{
		Category:    req.Category,
		Amount:      req.Amount,
		IsIncome:    req.IsIncome,
		Description: req.Description,
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid date: "+err.Error())
			return
		}
		patch.Date = &date
	}

	if err := patch.Validate(); err != nil {
		writeError(w, err)
		return
	}
	entry, err := s.entries.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid entry id")
		return
	}
	if err := s.entries.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
