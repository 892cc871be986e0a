// Package memory provides an in-process Store backed by maps. It is the
// default backend and the reference for store semantics; data does not
// survive a restart.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

// table holds one record kind with its own identifier sequence.
// Identifiers start at 1 and are never reused after a delete.
type table[R any] struct {
	rows   map[int64]R
	nextID int64
}

func newTable[R any]() table[R] {
	return table[R]{rows: make(map[int64]R), nextID: 1}
}

func (t *table[R]) insert(build func(id int64) R) R {
	id := t.nextID
	t.nextID++
	r := build(id)
	t.rows[id] = r
	return r
}

// Store implements store.Store entirely in memory. All methods are safe
// for concurrent use; a single mutex keeps every operation atomic.
type Store struct {
	mu      sync.Mutex
	loc     *time.Location
	users   table[core.User]
	entries table[core.Entry]
	budgets table[core.Budget]
	advice  table[core.AdviceRequest]
}

// New returns an empty store. Month filtering for entries interprets
// timestamps in loc; a nil loc means time.Local.
func New(loc *time.Location) *Store {
	if loc == nil {
		loc = time.Local
	}
	return &Store{
		loc:     loc,
		users:   newTable[core.User](),
		entries: newTable[core.Entry](),
		budgets: newTable[core.Budget](),
		advice:  newTable[core.AdviceRequest](),
	}
}

func (s *Store) CreateUser(_ context.Context, in core.UserInput) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users.rows {
		if u.Username == in.Username {
			return core.User{}, store.ErrUsernameTaken
		}
	}
	return s.users.insert(func(id int64) core.User {
		return core.User{ID: id, Username: in.Username, Password: in.Password}
	}), nil
}

func (s *Store) GetUser(_ context.Context, id int64) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users.rows[id]
	if !ok {
		return core.User{}, store.ErrNotFound
	}
	return u, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users.rows {
		if u.Username == username {
			return u, nil
		}
	}
	return core.User{}, store.ErrNotFound
}

func (s *Store) CreateEntry(_ context.Context, in core.EntryInput) (core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}
	return s.entries.insert(func(id int64) core.Entry {
		return core.Entry{
			ID:          id,
			UserID:      in.UserID,
			Category:    in.Category,
			Amount:      in.Amount,
			IsIncome:    in.IsIncome,
			Description: in.Description,
			Date:        date,
		}
	}), nil
}

func (s *Store) GetEntry(_ context.Context, id int64) (core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries.rows[id]
	if !ok {
		return core.Entry{}, store.ErrNotFound
	}
	return e, nil
}

func (s *Store) ListEntries(_ context.Context, userID int64) ([]core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Entry
	for _, e := range s.entries.rows {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sortEntries(out)
	return out, nil
}

func (s *Store) ListEntriesByMonth(_ context.Context, userID int64, month, year int, loc *time.Location) ([]core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if loc == nil {
		loc = s.loc
	}
	var out []core.Entry
	for _, e := range s.entries.rows {
		if e.UserID != userID {
			continue
		}
		m, y := core.MonthYear(e.Date, loc)
		if m == month && y == year {
			out = append(out, e)
		}
	}
	sortEntries(out)
	return out, nil
}

func (s *Store) UpdateEntry(_ context.Context, id int64, patch core.EntryPatch) (core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries.rows[id]
	if !ok {
		return core.Entry{}, store.ErrNotFound
	}
	if patch.Category != nil {
		e.Category = *patch.Category
	}
	if patch.Amount != nil {
		e.Amount = *patch.Amount
	}
	if patch.IsIncome != nil {
		e.IsIncome = *patch.IsIncome
	}
	if patch.Description != nil {
		e.Description = patch.Description
	}
	if patch.Date != nil {
		e.Date = *patch.Date
	}
	s.entries.rows[id] = e
	return e, nil
}

func (s *Store) DeleteEntry(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries.rows[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.entries.rows, id)
	return nil
}

func (s *Store) CreateBudget(_ context.Context, in core.BudgetInput) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.budgets.insert(func(id int64) core.Budget {
		return core.Budget{
			ID:       id,
			UserID:   in.UserID,
			Category: in.Category,
			Limit:    in.Limit,
			Month:    in.Month,
			Year:     in.Year,
		}
	}), nil
}

func (s *Store) GetBudget(_ context.Context, id int64) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.budgets.rows[id]
	if !ok {
		return core.Budget{}, store.ErrNotFound
	}
	return b, nil
}

func (s *Store) ListBudgets(_ context.Context, userID int64) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Budget
	for _, b := range s.budgets.rows {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sortBudgets(out)
	return out, nil
}

func (s *Store) ListBudgetsByMonth(_ context.Context, userID int64, month, year int) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Budget
	for _, b := range s.budgets.rows {
		if b.UserID == userID && b.Month == month && b.Year == year {
			out = append(out, b)
		}
	}
	sortBudgets(out)
	return out, nil
}

func (s *Store) UpdateBudget(_ context.Context, id int64, patch core.BudgetPatch) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.budgets.rows[id]
	if !ok {
		return core.Budget{}, store.ErrNotFound
	}
	if patch.Category != nil {
		b.Category = *patch.Category
	}
	if patch.Limit != nil {
		b.Limit = *patch.Limit
	}
	if patch.Month != nil {
		b.Month = *patch.Month
	}
	if patch.Year != nil {
		b.Year = *patch.Year
	}
	s.budgets.rows[id] = b
	return b, nil
}

func (s *Store) DeleteBudget(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.budgets.rows[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.budgets.rows, id)
	return nil
}

func (s *Store) CreateAdviceRequest(_ context.Context, in core.AdviceInput) (core.AdviceRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.advice.insert(func(id int64) core.AdviceRequest {
		return core.AdviceRequest{
			ID:     id,
			UserID: in.UserID,
			Query:  in.Query,
			Date:   time.Now(),
		}
	}), nil
}

func (s *Store) ListAdviceRequests(_ context.Context, userID int64) ([]core.AdviceRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.AdviceRequest
	for _, r := range s.advice.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) SetAdviceResponse(_ context.Context, id int64, response string) (core.AdviceRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.advice.rows[id]
	if !ok {
		return core.AdviceRequest{}, store.ErrNotFound
	}
	r.Response = &response
	s.advice.rows[id] = r
	return r, nil
}

func sortEntries(entries []core.Entry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
}

func sortBudgets(budgets []core.Budget) {
	sort.Slice(budgets, func(i, j int) bool { return budgets[i].ID < budgets[j].ID })
}

var _ store.Store = (*Store)(nil)
