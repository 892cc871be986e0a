// Package store defines the persistence port for fintrack entities.
// Backends implement Store; callers depend on this interface only.
package store

import (
	"context"
	"errors"
	"time"

	"fintrack/internal/core"
)

// ErrNotFound is returned by reads and updates that target a record
// that does not exist. Backends must return this exact sentinel so
// callers can match it with errors.Is.
var ErrNotFound = errors.New("record not found")

// ErrUsernameTaken is returned by CreateUser when the username is
// already registered.
var ErrUsernameTaken = errors.New("username already taken")

// Store is the persistence contract shared by all backends.
//
// Identifiers are assigned by the store, start at 1 per record kind,
// increase monotonically, and are never reused, even after deletes.
type Store interface {
	// Users.
	CreateUser(ctx context.Context, in core.UserInput) (core.User, error)
	GetUser(ctx context.Context, id int64) (core.User, error)
	GetUserByUsername(ctx context.Context, username string) (core.User, error)

	// Entries.
	CreateEntry(ctx context.Context, in core.EntryInput) (core.Entry, error)
	GetEntry(ctx context.Context, id int64) (core.Entry, error)
	ListEntries(ctx context.Context, userID int64) ([]core.Entry, error)
	ListEntriesByMonth(ctx context.Context, userID int64, month, year int, loc *time.Location) ([]core.Entry, error)
	UpdateEntry(ctx context.Context, id int64, patch core.EntryPatch) (core.Entry, error)
	DeleteEntry(ctx context.Context, id int64) error

	// Budgets.
	CreateBudget(ctx context.Context, in core.BudgetInput) (core.Budget, error)
	GetBudget(ctx context.Context, id int64) (core.Budget, error)
	ListBudgets(ctx context.Context, userID int64) ([]core.Budget, error)
	ListBudgetsByMonth(ctx context.Context, userID int64, month, year int) ([]core.Budget, error)
	UpdateBudget(ctx context.Context, id int64, patch core.BudgetPatch) (core.Budget, error)
	DeleteBudget(ctx context.Context, id int64) error

	// Advice requests.
	CreateAdviceRequest(ctx context.Context, in core.AdviceInput) (core.AdviceRequest, error)
	ListAdviceRequests(ctx context.Context, userID int64) ([]core.AdviceRequest, error)
	SetAdviceResponse(ctx context.Context, id int64, response string) (core.AdviceRequest, error)
}
