package services

import (
	"context"
	"fmt"

	"fintrack/internal/advice"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/store"
)

// AdviceService records advice requests and fills in responses from the
// generator. The request row is written before the upstream call, so a
// failed generation leaves a pending record rather than losing the query.
type AdviceService struct {
	store     store.Store
	generator advice.Generator
	logger    *log.Logger
}

func NewAdviceService(st store.Store, gen advice.Generator, logger *log.Logger) *AdviceService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &AdviceService{
		store:     st,
		generator: gen,
		logger:    logger.WithComponent(log.ComponentAdvice),
	}
}

// Ask stores the query, generates advice, and persists the response.
// When generation fails the record is returned still pending together
// with the generation error; the query is never lost.
func (s *AdviceService) Ask(ctx context.Context, in core.AdviceInput) (core.AdviceRequest, error) {
	req, err := s.store.CreateAdviceRequest(ctx, in)
	if err != nil {
		return core.AdviceRequest{}, fmt.Errorf("create advice request: %w", err)
	}

	text, genErr := s.generate(ctx, in.Query)
	if genErr != nil {
		s.logger.WarnContext(ctx, "Advice generation failed",
			log.FieldAdviceID, req.ID,
			log.FieldError, genErr)
		return req, genErr
	}

	answered, err := s.store.SetAdviceResponse(ctx, req.ID, text)
	if err != nil {
		return req, fmt.Errorf("set advice response: %w", err)
	}
	return answered, nil
}

// History returns the user's past advice requests.
func (s *AdviceService) History(ctx context.Context, userID int64) ([]core.AdviceRequest, error) {
	return s.store.ListAdviceRequests(ctx, userID)
}

func (s *AdviceService) generate(ctx context.Context, query string) (string, error) {
	if s.generator == nil {
		return "", advice.ErrNotConfigured
	}
	return s.generator.Generate(ctx, query)
}
