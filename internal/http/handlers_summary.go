package http

import (
	"net/http"
	"strconv"
	"time"
)

// handleSummary serves the monthly dashboard aggregate. The period
// defaults to the current calendar month; ?month= and ?year= override.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	month := int(now.Month())
	year := now.Year()

	if v := r.URL.Query().Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid month")
			return
		}
		month = m
	}
	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = y
	}

	summary, err := s.summaries.Get(r.Context(), s.currentUserID(r), month, year)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
