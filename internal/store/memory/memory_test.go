package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(time.UTC)
}

func entryInput(userID int64, category string, cents int64, income bool, date time.Time) core.EntryInput {
	return core.EntryInput{
		UserID:   userID,
		Category: category,
		Amount:   core.Money{Cents: cents},
		IsIncome: income,
		Date:     date,
	}
}

func TestEntryIDsMonotonicNeverReused(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	date := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	e1, err := s.CreateEntry(ctx, entryInput(1, "Food", 1000, false, date))
	require.NoError(t, err)
	e2, err := s.CreateEntry(ctx, entryInput(1, "Food", 2000, false, date))
	require.NoError(t, err)
	e3, err := s.CreateEntry(ctx, entryInput(1, "Food", 3000, false, date))
	require.NoError(t, err)

	assert.Equal(t, int64(1), e1.ID)
	assert.Equal(t, int64(2), e2.ID)
	assert.Equal(t, int64(3), e3.ID)

	require.NoError(t, s.DeleteEntry(ctx, e2.ID))

	// The freed identifier stays retired.
	e4, err := s.CreateEntry(ctx, entryInput(1, "Food", 4000, false, date))
	require.NoError(t, err)
	assert.Equal(t, int64(4), e4.ID)

	_, err = s.GetEntry(ctx, e2.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestEntryRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	desc := "groceries at the market"
	date := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	created, err := s.CreateEntry(ctx, core.EntryInput{
		UserID:      1,
		Category:    "Food",
		Amount:      core.Money{Cents: 4550},
		IsIncome:    false,
		Description: &desc,
		Date:        date,
	})
	require.NoError(t, err)

	got, err := s.GetEntry(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	require.NotNil(t, got.Description)
	assert.Equal(t, desc, *got.Description)
}

func TestEntryCreateDefaultsDate(t *testing.T) {
	s := newTestStore(t)

	before := time.Now()
	e, err := s.CreateEntry(context.Background(), entryInput(1, "Food", 100, false, time.Time{}))
	require.NoError(t, err)
	assert.False(t, e.Date.Before(before))
	assert.False(t, e.Date.After(time.Now()))
}

func TestEntryMergeUpdate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	desc := "original"
	date := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	e, err := s.CreateEntry(ctx, core.EntryInput{
		UserID:      1,
		Category:    "Food",
		Amount:      core.Money{Cents: 1000},
		Description: &desc,
		Date:        date,
	})
	require.NoError(t, err)

	// Only the amount changes; everything else is retained.
	newAmount := core.Money{Cents: 2500}
	updated, err := s.UpdateEntry(ctx, e.ID, core.EntryPatch{Amount: &newAmount})
	require.NoError(t, err)

	assert.Equal(t, int64(2500), updated.Amount.Cents)
	assert.Equal(t, "Food", updated.Category)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "original", *updated.Description)
	assert.True(t, updated.Date.Equal(date))
	assert.Equal(t, e.ID, updated.ID)
	assert.Equal(t, e.UserID, updated.UserID)
}

func TestEntryUpdateAbsent(t *testing.T) {
	s := newTestStore(t)

	cat := "Food"
	_, err := s.UpdateEntry(context.Background(), 42, core.EntryPatch{Category: &cat})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestEntryDeleteAbsent(t *testing.T) {
	s := newTestStore(t)
	err := s.DeleteEntry(context.Background(), 42)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListEntriesByMonth(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	inMarch := []time.Time{
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC),
	}
	outOfMarch := []time.Time{
		time.Date(2025, 2, 28, 23, 59, 59, 0, time.UTC),
		time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), // same month, wrong year
	}
	for _, d := range inMarch {
		_, err := s.CreateEntry(ctx, entryInput(1, "Food", 100, false, d))
		require.NoError(t, err)
	}
	for _, d := range outOfMarch {
		_, err := s.CreateEntry(ctx, entryInput(1, "Food", 100, false, d))
		require.NoError(t, err)
	}
	// Another user's March entry must not leak in.
	_, err := s.CreateEntry(ctx, entryInput(2, "Food", 100, false, inMarch[0]))
	require.NoError(t, err)

	got, err := s.ListEntriesByMonth(ctx, 1, 3, 2025, time.UTC)
	require.NoError(t, err)
	assert.Len(t, got, len(inMarch))
	for _, e := range got {
		assert.Equal(t, int64(1), e.UserID)
	}
}

func TestListEntriesByMonthLocation(t *testing.T) {
	helsinki, err := time.LoadLocation("Europe/Helsinki")
	require.NoError(t, err)

	s := newTestStore(t)
	ctx := context.Background()

	// 23:30 UTC on March 31st is already April in Helsinki.
	boundary := time.Date(2025, 3, 31, 23, 30, 0, 0, time.UTC)
	_, err = s.CreateEntry(ctx, entryInput(1, "Food", 100, false, boundary))
	require.NoError(t, err)

	utcMarch, err := s.ListEntriesByMonth(ctx, 1, 3, 2025, time.UTC)
	require.NoError(t, err)
	assert.Len(t, utcMarch, 1)

	helsinkiMarch, err := s.ListEntriesByMonth(ctx, 1, 3, 2025, helsinki)
	require.NoError(t, err)
	assert.Empty(t, helsinkiMarch)

	helsinkiApril, err := s.ListEntriesByMonth(ctx, 1, 4, 2025, helsinki)
	require.NoError(t, err)
	assert.Len(t, helsinkiApril, 1)
}

func TestBudgetCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	b, err := s.CreateBudget(ctx, core.BudgetInput{
		UserID:   1,
		Category: "Food",
		Limit:    core.Money{Cents: 30000},
		Month:    3,
		Year:     2025,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), b.ID)

	newLimit := core.Money{Cents: 40000}
	updated, err := s.UpdateBudget(ctx, b.ID, core.BudgetPatch{Limit: &newLimit})
	require.NoError(t, err)
	assert.Equal(t, int64(40000), updated.Limit.Cents)
	assert.Equal(t, "Food", updated.Category)
	assert.Equal(t, 3, updated.Month)

	byMonth, err := s.ListBudgetsByMonth(ctx, 1, 3, 2025)
	require.NoError(t, err)
	assert.Len(t, byMonth, 1)

	otherMonth, err := s.ListBudgetsByMonth(ctx, 1, 4, 2025)
	require.NoError(t, err)
	assert.Empty(t, otherMonth)

	require.NoError(t, s.DeleteBudget(ctx, b.ID))
	_, err = s.GetBudget(ctx, b.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUserLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, core.UserInput{Username: "demo", Password: "password"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)

	byName, err := s.GetUserByUsername(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, u, byName)

	_, err = s.CreateUser(ctx, core.UserInput{Username: "demo", Password: "other"})
	assert.ErrorIs(t, err, store.ErrUsernameTaken)

	_, err = s.GetUserByUsername(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAdviceRequestLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r, err := s.CreateAdviceRequest(ctx, core.AdviceInput{UserID: 1, Query: "How do I save more?"})
	require.NoError(t, err)
	assert.Nil(t, r.Response, "a fresh request is pending")
	assert.False(t, r.Date.IsZero())

	answered, err := s.SetAdviceResponse(ctx, r.ID, "Spend less than you earn.")
	require.NoError(t, err)
	require.NotNil(t, answered.Response)
	assert.Equal(t, "Spend less than you earn.", *answered.Response)

	list, err := s.ListAdviceRequests(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Response)
}
