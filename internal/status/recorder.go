package status

import (
	"context"

	"go.uber.org/zap"

	"spl-token-creator/internal/domain"
	"spl-token-creator/internal/storage"
)

// maxBatch caps the events appended in one store call.
const maxBatch = 100

// Recorder persists every status transition to a StatusEventStore.
type Recorder struct {
	reporter *Reporter
	store    storage.StatusEventStore
	logger   *zap.Logger
}

// NewRecorder creates a Recorder.
func NewRecorder(reporter *Reporter, store storage.StatusEventStore, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		reporter: reporter,
		store:    store,
		logger:   logger.Named("status_recorder"),
	}
}

// Run appends transitions until ctx is done or the reporter is closed.
// Store failures are logged and the events dropped.
func (r *Recorder) Run(ctx context.Context) error {
	ch, cancel := r.reporter.Subscribe()
	defer cancel()
	return r.consume(ctx, ch)
}

// Start subscribes before returning and records in the background, so no
// transition after Start is missed. The channel yields the result of the run.
func (r *Recorder) Start(ctx context.Context) <-chan error {
	ch, cancel := r.reporter.Subscribe()
	done := make(chan error, 1)
	go func() {
		defer cancel()
		done <- r.consume(ctx, ch)
	}()
	return done
}

func (r *Recorder) consume(ctx context.Context, ch <-chan domain.Status) error {
	// The first delivery is the status at subscription time, not a transition.
	select {
	case <-ctx.Done():
		return ctx.Err()
	case _, ok := <-ch:
		if !ok {
			return nil
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case st, ok := <-ch:
			if !ok {
				return nil
			}
			batch := []*domain.StatusEvent{toEvent(st)}
		drain:
			for len(batch) < maxBatch {
				select {
				case next, ok := <-ch:
					if !ok {
						break drain
					}
					batch = append(batch, toEvent(next))
				default:
					break drain
				}
			}
			if err := r.store.Append(ctx, batch); err != nil {
				r.logger.Error("append status events", zap.Int("count", len(batch)), zap.Error(err))
			}
		}
	}
}

func toEvent(st domain.Status) *domain.StatusEvent {
	return &domain.StatusEvent{
		RunID:     st.RunID,
		Kind:      st.Kind,
		Message:   st.Message,
		Timestamp: st.At.UnixMilli(),
	}
}
