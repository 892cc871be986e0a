// Package worker mirrors entry changes into an append-only JSONL
// archive file, fed by the AMQP event stream. The archive is an audit
// trail, not a backup: deletes are recorded as tombstone lines, not
// removed.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/store"
)

// ArchiveRecord is one line of the archive file.
type ArchiveRecord struct {
	Action     string      `json:"action"`
	EntryID    int64       `json:"entryId"`
	Entry      *core.Entry `json:"entry,omitempty"`
	ArchivedAt time.Time   `json:"archivedAt"`
}

// ArchiveWorker consumes entry events and appends them to a JSONL
// file. Records are buffered and written out when the batch fills;
// callers should also Flush on a timer and at shutdown.
type ArchiveWorker struct {
	store     store.Store
	path      string
	batchSize int
	logger    *log.Logger

	mu      sync.Mutex
	file    *os.File
	pending [][]byte
}

func NewArchiveWorker(st store.Store, path string, batchSize int, logger *log.Logger) (*ArchiveWorker, error) {
	if batchSize < 1 {
		batchSize = 1
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create archive directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open archive file: %w", err)
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ArchiveWorker{
		store:     st,
		path:      path,
		batchSize: batchSize,
		logger:    logger.WithComponent(log.ComponentWorker),
		file:      f,
	}, nil
}

// HandleEntryEvent processes a single entry event from AMQP.
func (w *ArchiveWorker) HandleEntryEvent(ctx context.Context, msg *amqp.EntryEventMessage) error {
	record := ArchiveRecord{
		Action:     msg.Action,
		EntryID:    msg.ID,
		ArchivedAt: time.Now(),
	}

	if msg.Action == amqp.ActionCreated {
		entry, err := w.store.GetEntry(ctx, msg.ID)
		switch {
		case err == nil:
			record.Entry = &entry
		case errors.Is(err, store.ErrNotFound):
			// Created then deleted before we got here; record the event
			// without the snapshot.
			w.logger.WarnContext(ctx, "Entry gone before archiving",
				log.FieldEntryID, msg.ID)
		default:
			return fmt.Errorf("get entry for archive: %w", err)
		}
	}

	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal archive record: %w", err)
	}
	line = append(line, '\n')

	w.mu.Lock()
	w.pending = append(w.pending, line)
	full := len(w.pending) >= w.batchSize
	w.mu.Unlock()

	if full {
		if err := w.Flush(); err != nil {
			return err
		}
	}

	w.logger.InfoContext(ctx, "Archived entry event",
		log.FieldEntryID, msg.ID,
		log.FieldOperation, log.OpConsume,
		"action", msg.Action)
	return nil
}

// Flush writes all buffered records to the archive file.
func (w *ArchiveWorker) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return errors.New("archive file closed")
	}
	for len(w.pending) > 0 {
		if _, err := w.file.Write(w.pending[0]); err != nil {
			return fmt.Errorf("append archive record: %w", err)
		}
		w.pending = w.pending[1:]
	}
	return nil
}

// Close flushes remaining records and closes the archive file.
func (w *ArchiveWorker) Close() error {
	if err := w.Flush(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}
