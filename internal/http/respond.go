package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"fintrack/internal/advice"
	"fintrack/internal/core"
	"fintrack/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// validationErrors are boundary failures that map to 400.
var validationErrors = []error{
	core.ErrInvalidAmount,
	core.ErrInvalidMonth,
	core.ErrInvalidYear,
	core.ErrEmptyCategory,
	core.ErrEmptyUsername,
	core.ErrEmptyPassword,
	core.ErrEmptyQuery,
	core.ErrDescriptionLong,
}

// writeError translates the error taxonomy into a status code and a
// JSON {"message": ...} body. Only this layer maps errors to statuses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrUsernameTaken):
		// Conceptually a conflict; kept as 400 for client compatibility.
		writeMessage(w, http.StatusBadRequest, "username already taken")
	case isValidation(err):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, advice.ErrNotConfigured), errors.Is(err, advice.ErrTimeout):
		writeMessage(w, http.StatusInternalServerError, advice.Fallback)
	default:
		writeMessage(w, http.StatusInternalServerError, "internal server error")
	}
}

func isValidation(err error) bool {
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// idParam parses the {id} path parameter.
func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// periodParams parses the {month}/{year} path parameters.
func periodParams(r *http.Request) (month, year int, ok bool) {
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	year, err = strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1000 || year > 9999 {
		return 0, 0, false
	}
	return month, year, true
}

// parseDate accepts RFC 3339 timestamps or bare YYYY-MM-DD dates.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
