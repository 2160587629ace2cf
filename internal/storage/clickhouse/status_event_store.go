package clickhouse

import (
	"context"
	"fmt"
	"time"

	"spl-token-creator/internal/domain"
	"spl-token-creator/internal/observability"
	"spl-token-creator/internal/storage"
)

// StatusEventStore implements storage.StatusEventStore using ClickHouse.
type StatusEventStore struct {
	conn *Conn
}

// NewStatusEventStore creates a new StatusEventStore.
func NewStatusEventStore(conn *Conn) *StatusEventStore {
	return &StatusEventStore{conn: conn}
}

// Compile-time interface check.
var _ storage.StatusEventStore = (*StatusEventStore)(nil)

// Append adds status events in one batch.
func (s *StatusEventStore) Append(ctx context.Context, events []*domain.StatusEvent) (err error) {
	if len(events) == 0 {
		return nil
	}
	for _, e := range events {
		if e == nil || e.Kind == "" {
			return storage.ErrInvalidInput
		}
	}

	start := time.Now()
	defer func() {
		observability.RecordDBQuery("clickhouse", "append_status_events", time.Since(start).Seconds(), err)
	}()

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO status_events (
			run_id, kind, message, timestamp_ms
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, e := range events {
		err = batch.Append(e.RunID, string(e.Kind), e.Message, uint64(e.Timestamp))
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByRunID retrieves all events of a run, ordered by timestamp ASC.
func (s *StatusEventStore) GetByRunID(ctx context.Context, runID string) ([]*domain.StatusEvent, error) {
	query := `
		SELECT run_id, kind, message, timestamp_ms
		FROM status_events
		WHERE run_id = ?
		ORDER BY timestamp_ms ASC
	`
	return s.query(ctx, query, runID)
}

// GetByTimeRange retrieves events within [start, end] (inclusive), ordered by timestamp ASC.
func (s *StatusEventStore) GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.StatusEvent, error) {
	query := `
		SELECT run_id, kind, message, timestamp_ms
		FROM status_events
		WHERE timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY timestamp_ms ASC
	`
	return s.query(ctx, query, uint64(start), uint64(end))
}

func (s *StatusEventStore) query(ctx context.Context, query string, args ...interface{}) ([]*domain.StatusEvent, error) {
	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query status events: %w", err)
	}
	defer rows.Close()

	var result []*domain.StatusEvent
	for rows.Next() {
		var (
			e    domain.StatusEvent
			kind string
			ts   uint64
		)
		if err := rows.Scan(&e.RunID, &kind, &e.Message, &ts); err != nil {
			return nil, fmt.Errorf("scan status event: %w", err)
		}
		e.Kind = domain.StatusKind(kind)
		e.Timestamp = int64(ts)
		result = append(result, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status events: %w", err)
	}

	return result, nil
}
