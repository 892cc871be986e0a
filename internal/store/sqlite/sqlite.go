// Package sqlite provides a Store backed by a local SQLite database,
// using the modernc.org driver (no cgo). Schema setup runs through
// embedded golang-migrate migrations at open time.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/store"

	_ "modernc.org/sqlite"
)

// Store implements store.Store on a SQLite database. Entry timestamps
// are stored as RFC 3339 text; month filtering happens Go-side so the
// configured time location applies, same as the memory backend.
type Store struct {
	db  *sql.DB
	loc *time.Location
}

// Open opens (creating if needed) the database at dbPath and applies
// pending migrations. A nil loc means time.Local.
func Open(dbPath string, loc *time.Location) (*Store, error) {
	if loc == nil {
		loc = time.Local
	}
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db, loc: loc}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) CreateUser(ctx context.Context, in core.UserInput) (core.User, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE username = ?`, in.Username).Scan(&exists)
	if err != nil {
		return core.User{}, fmt.Errorf("check username: %w", err)
	}
	if exists > 0 {
		return core.User{}, store.ErrUsernameTaken
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password) VALUES (?, ?)`,
		in.Username, in.Password)
	if err != nil {
		return core.User{}, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.User{}, fmt.Errorf("user id: %w", err)
	}
	return core.User{ID: id, Username: in.Username, Password: in.Password}, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (core.User, error) {
	var u core.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, password FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Username, &u.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, store.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (core.User, error) {
	var u core.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, password FROM users WHERE username = ?`, username).
		Scan(&u.ID, &u.Username, &u.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, store.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user by username: %w", err)
	}
	return u, nil
}

func (s *Store) CreateEntry(ctx context.Context, in core.EntryInput) (core.Entry, error) {
	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (user_id, category, amount_cents, is_income, description, date)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		in.UserID, in.Category, in.Amount.Cents, in.IsIncome,
		nullString(in.Description), date.Format(time.RFC3339Nano))
	if err != nil {
		return core.Entry{}, fmt.Errorf("insert entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Entry{}, fmt.Errorf("entry id: %w", err)
	}
	return core.Entry{
		ID:          id,
		UserID:      in.UserID,
		Category:    in.Category,
		Amount:      in.Amount,
		IsIncome:    in.IsIncome,
		Description: in.Description,
		Date:        date,
	}, nil
}

func (s *Store) GetEntry(ctx context.Context, id int64) (core.Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, category, amount_cents, is_income, description, date
		 FROM entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Entry{}, store.ErrNotFound
	}
	if err != nil {
		return core.Entry{}, fmt.Errorf("get entry: %w", err)
	}
	return e, nil
}

func (s *Store) ListEntries(ctx context.Context, userID int64) ([]core.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, category, amount_cents, is_income, description, date
		 FROM entries WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var out []core.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) ListEntriesByMonth(ctx context.Context, userID int64, month, year int, loc *time.Location) ([]core.Entry, error) {
	// Filtering by calendar month depends on the configured location, so
	// it happens here rather than in SQL on the stored offset.
	all, err := s.ListEntries(ctx, userID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		loc = s.loc
	}
	var out []core.Entry
	for _, e := range all {
		m, y := core.MonthYear(e.Date, loc)
		if m == month && y == year {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) UpdateEntry(ctx context.Context, id int64, patch core.EntryPatch) (core.Entry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Entry{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT id, user_id, category, amount_cents, is_income, description, date
		 FROM entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Entry{}, store.ErrNotFound
	}
	if err != nil {
		return core.Entry{}, fmt.Errorf("get entry: %w", err)
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

	_, err = tx.ExecContext(ctx,
		`UPDATE entries SET category = ?, amount_cents = ?, is_income = ?, description = ?, date = ?
		 WHERE id = ?`,
		e.Category, e.Amount.Cents, e.IsIncome,
		nullString(e.Description), e.Date.Format(time.RFC3339Nano), id)
	if err != nil {
		return core.Entry{}, fmt.Errorf("update entry: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return core.Entry{}, fmt.Errorf("commit: %w", err)
	}
	return e, nil
}

func (s *Store) DeleteEntry(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "entries", id)
}

func (s *Store) CreateBudget(ctx context.Context, in core.BudgetInput) (core.Budget, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO budgets (user_id, category, limit_cents, month, year)
		 VALUES (?, ?, ?, ?, ?)`,
		in.UserID, in.Category, in.Limit.Cents, in.Month, in.Year)
	if err != nil {
		return core.Budget{}, fmt.Errorf("insert budget: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Budget{}, fmt.Errorf("budget id: %w", err)
	}
	return core.Budget{
		ID:       id,
		UserID:   in.UserID,
		Category: in.Category,
		Limit:    in.Limit,
		Month:    in.Month,
		Year:     in.Year,
	}, nil
}

func (s *Store) GetBudget(ctx context.Context, id int64) (core.Budget, error) {
	var b core.Budget
	var cents int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, category, limit_cents, month, year FROM budgets WHERE id = ?`, id).
		Scan(&b.ID, &b.UserID, &b.Category, &cents, &b.Month, &b.Year)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, store.ErrNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	b.Limit = core.Money{Cents: cents}
	return b, nil
}

func (s *Store) ListBudgets(ctx context.Context, userID int64) ([]core.Budget, error) {
	return s.queryBudgets(ctx,
		`SELECT id, user_id, category, limit_cents, month, year
		 FROM budgets WHERE user_id = ? ORDER BY id`, userID)
}

func (s *Store) ListBudgetsByMonth(ctx context.Context, userID int64, month, year int) ([]core.Budget, error) {
	return s.queryBudgets(ctx,
		`SELECT id, user_id, category, limit_cents, month, year
		 FROM budgets WHERE user_id = ? AND month = ? AND year = ? ORDER BY id`,
		userID, month, year)
}

func (s *Store) UpdateBudget(ctx context.Context, id int64, patch core.BudgetPatch) (core.Budget, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Budget{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var b core.Budget
	var cents int64
	err = tx.QueryRowContext(ctx,
		`SELECT id, user_id, category, limit_cents, month, year FROM budgets WHERE id = ?`, id).
		Scan(&b.ID, &b.UserID, &b.Category, &cents, &b.Month, &b.Year)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, store.ErrNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	b.Limit = core.Money{Cents: cents}

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

	_, err = tx.ExecContext(ctx,
		`UPDATE budgets SET category = ?, limit_cents = ?, month = ?, year = ? WHERE id = ?`,
		b.Category, b.Limit.Cents, b.Month, b.Year, id)
	if err != nil {
		return core.Budget{}, fmt.Errorf("update budget: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return core.Budget{}, fmt.Errorf("commit: %w", err)
	}
	return b, nil
}

func (s *Store) DeleteBudget(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "budgets", id)
}

func (s *Store) CreateAdviceRequest(ctx context.Context, in core.AdviceInput) (core.AdviceRequest, error) {
	date := time.Now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO advice_requests (user_id, query, response, date) VALUES (?, ?, NULL, ?)`,
		in.UserID, in.Query, date.Format(time.RFC3339Nano))
	if err != nil {
		return core.AdviceRequest{}, fmt.Errorf("insert advice request: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.AdviceRequest{}, fmt.Errorf("advice request id: %w", err)
	}
	return core.AdviceRequest{ID: id, UserID: in.UserID, Query: in.Query, Date: date}, nil
}

func (s *Store) ListAdviceRequests(ctx context.Context, userID int64) ([]core.AdviceRequest, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, query, response, date
		 FROM advice_requests WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list advice requests: %w", err)
	}
	defer rows.Close()

	var out []core.AdviceRequest
	for rows.Next() {
		var r core.AdviceRequest
		var response sql.NullString
		var date string
		if err := rows.Scan(&r.ID, &r.UserID, &r.Query, &response, &date); err != nil {
			return nil, fmt.Errorf("scan advice request: %w", err)
		}
		if response.Valid {
			v := response.String
			r.Response = &v
		}
		r.Date, err = time.Parse(time.RFC3339Nano, date)
		if err != nil {
			return nil, fmt.Errorf("parse advice date: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) SetAdviceResponse(ctx context.Context, id int64, response string) (core.AdviceRequest, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE advice_requests SET response = ? WHERE id = ?`, response, id)
	if err != nil {
		return core.AdviceRequest{}, fmt.Errorf("set advice response: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.AdviceRequest{}, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.AdviceRequest{}, store.ErrNotFound
	}

	var r core.AdviceRequest
	var resp sql.NullString
	var date string
	err = s.db.QueryRowContext(ctx,
		`SELECT id, user_id, query, response, date FROM advice_requests WHERE id = ?`, id).
		Scan(&r.ID, &r.UserID, &r.Query, &resp, &date)
	if err != nil {
		return core.AdviceRequest{}, fmt.Errorf("get advice request: %w", err)
	}
	if resp.Valid {
		v := resp.String
		r.Response = &v
	}
	r.Date, err = time.Parse(time.RFC3339Nano, date)
	if err != nil {
		return core.AdviceRequest{}, fmt.Errorf("parse advice date: %w", err)
	}
	return r, nil
}

func (s *Store) deleteByID(ctx context.Context, tbl string, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM `+tbl+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", tbl, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) queryBudgets(ctx context.Context, query string, args ...any) ([]core.Budget, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var b core.Budget
		var cents int64
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &cents, &b.Month, &b.Year); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		b.Limit = core.Money{Cents: cents}
		out = append(out, b)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (core.Entry, error) {
	var e core.Entry
	var cents int64
	var desc sql.NullString
	var date string
	if err := row.Scan(&e.ID, &e.UserID, &e.Category, &cents, &e.IsIncome, &desc, &date); err != nil {
		return core.Entry{}, err
	}
	e.Amount = core.Money{Cents: cents}
	if desc.Valid {
		v := desc.String
		e.Description = &v
	}
	parsed, err := time.Parse(time.RFC3339Nano, date)
	if err != nil {
		return core.Entry{}, fmt.Errorf("parse entry date: %w", err)
	}
	e.Date = parsed
	return e, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

var _ store.Store = (*Store)(nil)
