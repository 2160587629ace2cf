package storage

import (
	"context"

	"spl-token-creator/internal/domain"
)

// RunStore provides access to token_runs storage.
type RunStore interface {
	// Insert adds a finished run. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, r *domain.Run) error

	// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, runID string) (*domain.Run, error)

	// GetByMint retrieves the run that created mint. Returns ErrNotFound if not exists.
	GetByMint(ctx context.Context, mint string) (*domain.Run, error)

	// List retrieves runs ordered by started_at DESC. An empty owner matches
	// all owners; limit <= 0 means no limit.
	List(ctx context.Context, owner string, limit int) ([]*domain.Run, error)
}

// StatusEventStore provides access to status_events storage.
type StatusEventStore interface {
	// Append adds status events. Events are never updated.
	Append(ctx context.Context, events []*domain.StatusEvent) error

	// GetByRunID retrieves all events of a run, ordered by timestamp ASC.
	GetByRunID(ctx context.Context, runID string) ([]*domain.StatusEvent, error)

	// GetByTimeRange retrieves events within [start, end] (inclusive), ordered by timestamp ASC.
	GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.StatusEvent, error)
}
