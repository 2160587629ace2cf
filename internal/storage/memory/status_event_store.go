package memory

import (
	"context"
	"sort"
	"sync"

	"spl-token-creator/internal/domain"
	"spl-token-creator/internal/storage"
)

// StatusEventStore is an in-memory implementation of storage.StatusEventStore.
type StatusEventStore struct {
	mu     sync.RWMutex
	events []*domain.StatusEvent
}

// NewStatusEventStore creates a new in-memory status event store.
func NewStatusEventStore() *StatusEventStore {
	return &StatusEventStore{}
}

// Append adds status events.
func (s *StatusEventStore) Append(_ context.Context, events []*domain.StatusEvent) error {
	for _, e := range events {
		if e == nil || e.Kind == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range events {
		eventCopy := *e
		s.events = append(s.events, &eventCopy)
	}
	return nil
}

// GetByRunID retrieves all events of a run, ordered by timestamp ASC.
func (s *StatusEventStore) GetByRunID(_ context.Context, runID string) ([]*domain.StatusEvent, error) {
	return s.filter(func(e *domain.StatusEvent) bool {
		return e.RunID == runID
	}), nil
}

// GetByTimeRange retrieves events within [start, end] (inclusive), ordered by timestamp ASC.
func (s *StatusEventStore) GetByTimeRange(_ context.Context, start, end int64) ([]*domain.StatusEvent, error) {
	return s.filter(func(e *domain.StatusEvent) bool {
		return e.Timestamp >= start && e.Timestamp <= end
	}), nil
}

func (s *StatusEventStore) filter(match func(*domain.StatusEvent) bool) []*domain.StatusEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.StatusEvent
	for _, e := range s.events {
		if match(e) {
			eventCopy := *e
			result = append(result, &eventCopy)
		}
	}

	// Stable keeps append order for equal timestamps
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp < result[j].Timestamp
	})
	return result
}

var _ storage.StatusEventStore = (*StatusEventStore)(nil)
