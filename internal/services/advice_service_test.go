package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
	"fintrack/internal/store/memory"
)

type stubGenerator struct {
	text string
	err  error
}

func (g stubGenerator) Generate(_ context.Context, _ string) (string, error) {
	return g.text, g.err
}

func TestAdviceServiceAsk(t *testing.T) {
	st := memory.New(time.UTC)
	svc := NewAdviceService(st, stubGenerator{text: "Track every expense for a month."}, nil)

	req, err := svc.Ask(context.Background(), core.AdviceInput{UserID: 1, Query: "Where does my money go?"})
	require.NoError(t, err)
	require.NotNil(t, req.Response)
	assert.Equal(t, "Track every expense for a month.", *req.Response)

	history, err := svc.History(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.NotNil(t, history[0].Response)
}

func TestAdviceServiceAskGeneratorFailure(t *testing.T) {
	st := memory.New(time.UTC)
	genErr := errors.New("upstream unavailable")
	svc := NewAdviceService(st, stubGenerator{err: genErr}, nil)

	req, err := svc.Ask(context.Background(), core.AdviceInput{UserID: 1, Query: "Help"})
	assert.ErrorIs(t, err, genErr)

	// The query is persisted even though generation failed.
	assert.NotZero(t, req.ID)
	assert.Nil(t, req.Response)

	history, histErr := svc.History(context.Background(), 1)
	require.NoError(t, histErr)
	require.Len(t, history, 1)
	assert.Nil(t, history[0].Response)
}

func TestAdviceServiceNoGenerator(t *testing.T) {
	st := memory.New(time.UTC)
	svc := NewAdviceService(st, nil, nil)

	req, err := svc.Ask(context.Background(), core.AdviceInput{UserID: 1, Query: "Help"})
	assert.Error(t, err)
	assert.NotZero(t, req.ID)
	assert.Nil(t, req.Response)
}
