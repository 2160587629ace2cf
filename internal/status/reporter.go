// Package status owns the single visible workflow status and fans it out to
// subscribers.
package status

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"spl-token-creator/internal/domain"
)

// DefaultClearAfter is how long a success or error status stays visible.
const DefaultClearAfter = 5 * time.Second

// subscriberBuffer is the per-subscriber channel capacity.
const subscriberBuffer = 64

// Reporter holds the current workflow status. Terminal statuses return to
// idle after the clear delay unless a newer status supersedes them first.
type Reporter struct {
	clearAfter time.Duration
	now        func() time.Time
	logger     *zap.Logger

	mu      sync.Mutex
	current domain.Status
	gen     uint64 // bumped on every transition; a stale clear timer is a no-op
	timer   *time.Timer
	subs    map[int]chan domain.Status
	nextSub int
	closed  bool
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithClearAfter overrides the terminal status clear delay.
func WithClearAfter(d time.Duration) Option {
	return func(r *Reporter) {
		if d > 0 {
			r.clearAfter = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Reporter) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithClock sets the time source used for status timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Reporter) {
		if now != nil {
			r.now = now
		}
	}
}

// NewReporter creates a Reporter in the idle state.
func NewReporter(opts ...Option) *Reporter {
	r := &Reporter{
		clearAfter: DefaultClearAfter,
		now:        time.Now,
		logger:     zap.NewNop(),
		subs:       make(map[int]chan domain.Status),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.Named("status")
	r.current = domain.Status{Kind: domain.StatusIdle, At: r.now()}
	return r
}

// Set replaces the current status.
func (r *Reporter) Set(kind domain.StatusKind, message string) {
	r.SetRun("", kind, message)
}

// SetRun replaces the current status and tags it with runID.
func (r *Reporter) SetRun(runID string, kind domain.StatusKind, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}

	r.gen++
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}

	st := domain.Status{Kind: kind, Message: message, RunID: runID, At: r.now()}
	r.current = st
	r.broadcastLocked(st)

	if kind == domain.StatusError {
		r.logger.Warn("status", zap.String("kind", string(kind)), zap.String("message", message), zap.String("run_id", runID))
	} else {
		r.logger.Debug("status", zap.String("kind", string(kind)), zap.String("message", message), zap.String("run_id", runID))
	}

	if kind.Terminal() {
		gen := r.gen
		r.timer = time.AfterFunc(r.clearAfter, func() { r.clear(gen) })
	}
}

// clear resets to idle if no transition happened since generation gen.
func (r *Reporter) clear(gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.gen != gen {
		return
	}
	r.gen++
	r.timer = nil
	st := domain.Status{Kind: domain.StatusIdle, At: r.now()}
	r.current = st
	r.broadcastLocked(st)
}

// Current returns the visible status.
func (r *Reporter) Current() domain.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Subscribe returns a channel receiving every subsequent transition, starting
// with the current status, and a function that cancels the subscription.
// A subscriber that falls behind loses its oldest undelivered statuses.
func (r *Reporter) Subscribe() (<-chan domain.Status, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch := make(chan domain.Status, subscriberBuffer)
	if r.closed {
		close(ch)
		return ch, func() {}
	}

	id := r.nextSub
	r.nextSub++
	r.subs[id] = ch
	ch <- r.current

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			if sub, ok := r.subs[id]; ok {
				delete(r.subs, id)
				close(sub)
			}
		})
	}
}

// Close stops the clear timer and closes every subscription.
func (r *Reporter) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	for id, ch := range r.subs {
		delete(r.subs, id)
		close(ch)
	}
}

func (r *Reporter) broadcastLocked(st domain.Status) {
	for _, ch := range r.subs {
		select {
		case ch <- st:
		default:
			// Full: drop the oldest so the latest status is always delivered.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- st:
			default:
			}
		}
	}
}
