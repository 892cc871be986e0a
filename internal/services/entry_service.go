// Package services orchestrates store access with the side channels
// around it: AMQP change events, the summary cache, and the advice
// generator.
package services

import (
	"context"
	"fmt"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/store"
)

// EntryService wraps entry persistence and publishes change events.
// The broker is optional; publish failures never fail the request.
type EntryService struct {
	store      store.Store
	amqpClient *amqp.Client
	summaries  *SummaryService
	logger     *log.Logger
}

func NewEntryService(st store.Store, amqpClient *amqp.Client, summaries *SummaryService, logger *log.Logger) *EntryService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &EntryService{
		store:      st,
		amqpClient: amqpClient,
		summaries:  summaries,
		logger:     logger.WithComponent(log.ComponentEntry),
	}
}

func (s *EntryService) Create(ctx context.Context, in core.EntryInput) (core.Entry, error) {
	entry, err := s.store.CreateEntry(ctx, in)
	if err != nil {
		return core.Entry{}, fmt.Errorf("create entry: %w", err)
	}

	s.invalidateSummary(entry.UserID)
	s.publish(ctx, entry.ID, amqp.ActionCreated)

	s.logger.InfoContext(ctx, "Entry created",
		log.FieldEntryID, entry.ID,
		log.FieldUserID, entry.UserID,
		log.FieldCategory, entry.Category,
		log.FieldAmount, entry.Amount.Cents)
	return entry, nil
}

func (s *EntryService) Get(ctx context.Context, id int64) (core.Entry, error) {
	return s.store.GetEntry(ctx, id)
}

func (s *EntryService) List(ctx context.Context, userID int64) ([]core.Entry, error) {
	return s.store.ListEntries(ctx, userID)
}

// ListByMonth filters by calendar month in the store's configured
// location (nil lets the backend apply its own).
func (s *EntryService) ListByMonth(ctx context.Context, userID int64, month, year int) ([]core.Entry, error) {
	return s.store.ListEntriesByMonth(ctx, userID, month, year, nil)
}

func (s *EntryService) Update(ctx context.Context, id int64, patch core.EntryPatch) (core.Entry, error) {
	entry, err := s.store.UpdateEntry(ctx, id, patch)
	if err != nil {
		return core.Entry{}, err
	}
	s.invalidateSummary(entry.UserID)
	return entry, nil
}

func (s *EntryService) Delete(ctx context.Context, id int64) error {
	entry, err := s.store.GetEntry(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteEntry(ctx, id); err != nil {
		return err
	}

	s.invalidateSummary(entry.UserID)
	s.publish(ctx, id, amqp.ActionDeleted)
	return nil
}

func (s *EntryService) invalidateSummary(userID int64) {
	if s.summaries != nil {
		s.summaries.InvalidateUser(userID)
	}
}

func (s *EntryService) publish(ctx context.Context, id int64, action string) {
	if s.amqpClient == nil {
		return
	}
	if err := s.amqpClient.PublishEntryEvent(ctx, id, action); err != nil {
		// Entry is already saved locally; the event stream is best effort.
		s.logger.ErrorContext(ctx, "Failed to publish entry event",
			log.FieldEntryID, id,
			log.FieldOperation, log.OpPublish,
			"action", action,
			log.FieldError, err)
	}
}
