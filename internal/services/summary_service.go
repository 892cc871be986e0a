package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/store"
)

// SummaryService fetches a user's entries and budgets for a period and
// derives the monthly summary. Results are cached briefly; any entry or
// budget write for the user invalidates their cached summaries.
type SummaryService struct {
	store  store.Store
	loc    *time.Location
	cache  *cache.LRUCache[core.Summary]
	logger *log.Logger

	mu   sync.Mutex
	keys map[int64]map[string]struct{} // cached keys per user, for invalidation
}

const (
	summaryCacheSize = 256
	summaryCacheTTL  = 30 * time.Second
)

func NewSummaryService(st store.Store, loc *time.Location) *SummaryService {
	if loc == nil {
		loc = time.Local
	}
	return &SummaryService{
		store:  st,
		loc:    loc,
		cache:  cache.NewLRUCache[core.Summary](summaryCacheSize, summaryCacheTTL),
		logger: log.New(log.DefaultConfig()).WithComponent(log.ComponentSummary),
		keys:   make(map[int64]map[string]struct{}),
	}
}

// Get returns the summary for one user and calendar month.
func (s *SummaryService) Get(ctx context.Context, userID int64, month, year int) (core.Summary, error) {
	if month < 1 || month > 12 {
		return core.Summary{}, core.ErrInvalidMonth
	}
	if year < 1000 || year > 9999 {
		return core.Summary{}, core.ErrInvalidYear
	}

	key := summaryKey(userID, month, year)
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	entries, err := s.store.ListEntriesByMonth(ctx, userID, month, year, s.loc)
	if err != nil {
		return core.Summary{}, fmt.Errorf("list entries: %w", err)
	}
	budgets, err := s.store.ListBudgetsByMonth(ctx, userID, month, year)
	if err != nil {
		return core.Summary{}, fmt.Errorf("list budgets: %w", err)
	}

	summary := core.ComputeSummary(entries, budgets, month, year)
	s.cache.Set(key, summary)
	s.remember(userID, key)

	s.logger.DebugContext(ctx, "Summary computed",
		log.FieldUserID, userID,
		log.FieldMonth, month,
		log.FieldYear, year)
	return summary, nil
}

// InvalidateUser drops all cached summaries for the user.
func (s *SummaryService) InvalidateUser(userID int64) {
	s.mu.Lock()
	keys := s.keys[userID]
	delete(s.keys, userID)
	s.mu.Unlock()

	for key := range keys {
		s.cache.Delete(key)
	}
}

func (s *SummaryService) remember(userID int64, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.keys[userID] == nil {
		s.keys[userID] = make(map[string]struct{})
	}
	s.keys[userID][key] = struct{}{}
}

func summaryKey(userID int64, month, year int) string {
	return fmt.Sprintf("%d-%04d-%02d", userID, year, month)
}
