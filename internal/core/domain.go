package core

import (
	"errors"
	"strings"
	"time"
)

// ExpenseCategories and IncomeCategories are the suggested vocabularies for
// form population. The store does not enforce membership; category is free
// text end to end.
var (
	ExpenseCategories = []string{
		"Housing", "Food", "Transportation", "Utilities", "Entertainment",
		"Healthcare", "Education", "Clothing", "Personal", "Debt", "Savings",
		"Other",
	}
	IncomeCategories = []string{
		"Salary", "Freelance", "Business", "Investments", "Rental", "Gift",
		"Other",
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidMonth    = errors.New("invalid month")
	ErrInvalidYear     = errors.New("invalid year")
	ErrEmptyCategory   = errors.New("empty category")
	ErrEmptyUsername   = errors.New("empty username")
	ErrEmptyPassword   = errors.New("empty password")
	ErrEmptyQuery      = errors.New("empty query")
	ErrDescriptionLong = errors.New("description too long (max 200 characters)")
)

type (
	// User is an account record. The password is an opaque string compared
	// verbatim at login; this mirrors the demo-grade auth stub and is not a
	// secure credential store.
	User struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Password string `json:"-"`
	}

	// Entry is a single income or expense transaction.
	Entry struct {
		ID          int64     `json:"id"`
		UserID      int64     `json:"userId"`
		Category    string    `json:"category"`
		Amount      Money     `json:"amount"`
		IsIncome    bool      `json:"isIncome"`
		Description *string   `json:"description"`
		Date        time.Time `json:"date"`
	}

	// Budget is a per-category spending ceiling for one calendar month.
	// At most one budget per (user, category, month, year) is the intended
	// shape, but the store does not enforce uniqueness.
	Budget struct {
		ID       int64  `json:"id"`
		UserID   int64  `json:"userId"`
		Category string `json:"category"`
		Limit    Money  `json:"limit"`
		Month    int    `json:"month"`
		Year     int    `json:"year"`
	}

	// AdviceRequest is one query to the external advice generator. A nil
	// Response means the request is still pending (or the generator failed);
	// it is set at most once and never cleared.
	AdviceRequest struct {
		ID       int64     `json:"id"`
		UserID   int64     `json:"userId"`
		Query    string    `json:"query"`
		Response *string   `json:"response"`
		Date     time.Time `json:"date"`
	}
)

// Insert shapes. These are the boundary-validated inputs; the store assigns
// identifiers and fills creation-time defaults.
type (
	UserInput struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	EntryInput struct {
		UserID      int64     `json:"userId"`
		Category    string    `json:"category"`
		Amount      Money     `json:"amount"`
		IsIncome    bool      `json:"isIncome"`
		Description *string   `json:"description"`
		Date        time.Time `json:"date"`
	}

	BudgetInput struct {
		UserID   int64  `json:"userId"`
		Category string `json:"category"`
		Limit    Money  `json:"limit"`
		Month    int    `json:"month"`
		Year     int    `json:"year"`
	}

	AdviceInput struct {
		UserID int64  `json:"userId"`
		Query  string `json:"query"`
	}
)

// Patch shapes for partial updates. A nil field is retained as-is by the
// store; only non-nil fields are merged onto the existing record.
type (
	EntryPatch struct {
		Category    *string    `json:"category"`
		Amount      *Money     `json:"amount"`
		IsIncome    *bool      `json:"isIncome"`
		Description *string    `json:"description"`
		Date        *time.Time `json:"date"`
	}

	BudgetPatch struct {
		Category *string `json:"category"`
		Limit    *Money  `json:"limit"`
		Month    *int    `json:"month"`
		Year     *int    `json:"year"`
	}
)

// PublicUser is the outward view of a User: everything except the password.
type PublicUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Public strips the password from a user record for API responses.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username}
}

func (in UserInput) Validate() error {
	if strings.TrimSpace(in.Username) == "" {
		return ErrEmptyUsername
	}
	if in.Password == "" {
		return ErrEmptyPassword
	}
	return nil
}

func (in EntryInput) Validate() error {
	if strings.TrimSpace(in.Category) == "" {
		return ErrEmptyCategory
	}
	if err := in.Amount.Validate(); err != nil {
		return err
	}
	if in.Description != nil && len(*in.Description) > 200 {
		return ErrDescriptionLong
	}
	return nil
}

func (in BudgetInput) Validate() error {
	if strings.TrimSpace(in.Category) == "" {
		return ErrEmptyCategory
	}
	if err := in.Limit.Validate(); err != nil {
		return err
	}
	if in.Month < 1 || in.Month > 12 {
		return ErrInvalidMonth
	}
	if in.Year < 1000 || in.Year > 9999 {
		return ErrInvalidYear
	}
	return nil
}

func (in AdviceInput) Validate() error {
	if strings.TrimSpace(in.Query) == "" {
		return ErrEmptyQuery
	}
	if len(in.Query) > 1000 {
		return errors.New("query too long (max 1000 characters)")
	}
	return nil
}

// Validate checks only the fields present in the patch.
func (p EntryPatch) Validate() error {
	if p.Category != nil && strings.TrimSpace(*p.Category) == "" {
		return ErrEmptyCategory
	}
	if p.Amount != nil {
		if err := p.Amount.Validate(); err != nil {
			return err
		}
	}
	if p.Description != nil && len(*p.Description) > 200 {
		return ErrDescriptionLong
	}
	return nil
}

// Validate checks only the fields present in the patch.
func (p BudgetPatch) Validate() error {
	if p.Category != nil && strings.TrimSpace(*p.Category) == "" {
		return ErrEmptyCategory
	}
	if p.Limit != nil {
		if err := p.Limit.Validate(); err != nil {
			return err
		}
	}
	if p.Month != nil && (*p.Month < 1 || *p.Month > 12) {
		return ErrInvalidMonth
	}
	if p.Year != nil && (*p.Year < 1000 || *p.Year > 9999) {
		return ErrInvalidYear
	}
	return nil
}

// MonthYear reports the calendar month and year of t as seen in loc.
//
// Which location to use is a real policy decision: the original system
// derived month/year from whatever timezone the process happened to run in,
// so a 23:30 March 31st UTC entry lands in April when the server runs east
// of UTC. The store is handed one explicit *time.Location at construction
// and applies it consistently; it does NOT silently normalize to UTC.
func MonthYear(t time.Time, loc *time.Location) (month, year int) {
	if loc != nil {
		t = t.In(loc)
	}
	return int(t.Month()), t.Year()
}
