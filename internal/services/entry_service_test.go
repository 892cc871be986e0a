package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
	"fintrack/internal/store"
	"fintrack/internal/store/memory"
)

func TestEntryServiceCreateDelete(t *testing.T) {
	st := memory.New(time.UTC)
	summaries := NewSummaryService(st, time.UTC)
	svc := NewEntryService(st, nil, summaries, nil)
	ctx := context.Background()

	entry, err := svc.Create(ctx, core.EntryInput{
		UserID:   1,
		Category: "Food",
		Amount:   core.Money{Cents: 2500},
		Date:     time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), entry.ID)

	require.NoError(t, svc.Delete(ctx, entry.ID))
	_, err = svc.Get(ctx, entry.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Deleting again reports absence.
	assert.ErrorIs(t, svc.Delete(ctx, entry.ID), store.ErrNotFound)
}

func TestEntryServiceWritesInvalidateSummaryCache(t *testing.T) {
	st := memory.New(time.UTC)
	summaries := NewSummaryService(st, time.UTC)
	svc := NewEntryService(st, nil, summaries, nil)
	ctx := context.Background()

	date := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	entry, err := svc.Create(ctx, core.EntryInput{
		UserID: 1, Category: "Food", Amount: core.Money{Cents: 2500}, Date: date,
	})
	require.NoError(t, err)

	sum, err := summaries.Get(ctx, 1, 3, 2025)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), sum.Expenses.Cents)

	newAmount := core.Money{Cents: 4000}
	_, err = svc.Update(ctx, entry.ID, core.EntryPatch{Amount: &newAmount})
	require.NoError(t, err)

	sum, err = summaries.Get(ctx, 1, 3, 2025)
	require.NoError(t, err)
	assert.Equal(t, int64(4000), sum.Expenses.Cents)

	require.NoError(t, svc.Delete(ctx, entry.ID))
	sum, err = summaries.Get(ctx, 1, 3, 2025)
	require.NoError(t, err)
	assert.Equal(t, int64(0), sum.Expenses.Cents)
}
