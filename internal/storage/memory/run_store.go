package memory

import (
	"context"
	"sort"
	"sync"

	"spl-token-creator/internal/domain"
	"spl-token-creator/internal/storage"
)

// RunStore is an in-memory implementation of storage.RunStore.
type RunStore struct {
	mu     sync.RWMutex
	byID   map[string]*domain.Run // keyed by run_id
	byMint map[string]*domain.Run // keyed by mint (unique when set)
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{
		byID:   make(map[string]*domain.Run),
		byMint: make(map[string]*domain.Run),
	}
}

// Insert adds a finished run. Returns ErrDuplicateKey if run_id or mint already exists.
func (s *RunStore) Insert(_ context.Context, r *domain.Run) error {
	if r == nil || r.RunID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[r.RunID]; exists {
		return storage.ErrDuplicateKey
	}
	if r.Mint != "" {
		if _, exists := s.byMint[r.Mint]; exists {
			return storage.ErrDuplicateKey
		}
	}

	runCopy := copyRun(r)
	s.byID[r.RunID] = runCopy
	if r.Mint != "" {
		s.byMint[r.Mint] = runCopy
	}
	return nil
}

// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
func (s *RunStore) GetByID(_ context.Context, runID string) (*domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.byID[runID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return copyRun(r), nil
}

// GetByMint retrieves the run that created mint. Returns ErrNotFound if not exists.
func (s *RunStore) GetByMint(_ context.Context, mint string) (*domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.byMint[mint]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return copyRun(r), nil
}

// List retrieves runs ordered by started_at DESC.
func (s *RunStore) List(_ context.Context, owner string, limit int) ([]*domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Run
	for _, r := range s.byID {
		if owner != "" && r.Owner != owner {
			continue
		}
		result = append(result, copyRun(r))
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].StartedAt != result[j].StartedAt {
			return result[i].StartedAt > result[j].StartedAt
		}
		return result[i].RunID < result[j].RunID
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// copyRun returns a deep copy so callers cannot mutate stored state.
func copyRun(r *domain.Run) *domain.Run {
	runCopy := *r
	if r.Signatures != nil {
		runCopy.Signatures = make([]domain.StepSignature, len(r.Signatures))
		copy(runCopy.Signatures, r.Signatures)
	}
	return &runCopy
}

var _ storage.RunStore = (*RunStore)(nil)
