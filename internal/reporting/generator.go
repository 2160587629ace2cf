package reporting

import (
	"context"
	"time"

	"spl-token-creator/internal/domain"
	"spl-token-creator/internal/storage"
)

// Generator produces reports from stored run history.
type Generator struct {
	runStore   storage.RunStore
	eventStore storage.StatusEventStore // optional
	now        func() time.Time         // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator. eventStore may be nil.
func NewGenerator(runStore storage.RunStore, eventStore storage.StatusEventStore) *Generator {
	return &Generator{
		runStore:   runStore,
		eventStore: eventStore,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate produces the run history of owner. An empty owner covers all
// owners; limit <= 0 means no limit.
func (g *Generator) Generate(ctx context.Context, owner string, limit int) (*Report, error) {
	runs, err := g.runStore.List(ctx, owner, limit)
	if err != nil {
		return nil, err
	}

	report := &Report{
		GeneratedAt: g.now(),
		Owner:       owner,
		Runs:        make([]RunRow, 0, len(runs)),
	}
	for _, r := range runs {
		report.Runs = append(report.Runs, toRow(r))
		report.Summary.TotalRuns++
		switch r.Outcome {
		case domain.OutcomeSuccess:
			report.Summary.Succeeded++
		case domain.OutcomeFailed:
			report.Summary.Failed++
			if r.Mint != "" {
				report.Summary.FailedWithMint++
			}
		}
	}
	return report, nil
}

// Receipt produces the detailed record of one run.
func (g *Generator) Receipt(ctx context.Context, runID string) (*Receipt, error) {
	r, err := g.runStore.GetByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	return g.receipt(ctx, r)
}

// ReceiptForMint produces the record of the run that created mint.
func (g *Generator) ReceiptForMint(ctx context.Context, mint string) (*Receipt, error) {
	r, err := g.runStore.GetByMint(ctx, mint)
	if err != nil {
		return nil, err
	}
	return g.receipt(ctx, r)
}

// Events returns status transitions of all runs within [start, end] (Unix ms).
// Without an event store the result is empty.
func (g *Generator) Events(ctx context.Context, start, end int64) ([]EventRow, error) {
	rows := []EventRow{}
	if g.eventStore == nil {
		return rows, nil
	}
	events, err := g.eventStore.GetByTimeRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	for _, e := range events {
		rows = append(rows, EventRow{
			RunID:     e.RunID,
			Timestamp: e.Timestamp,
			Kind:      string(e.Kind),
			Message:   e.Message,
		})
	}
	return rows, nil
}

func (g *Generator) receipt(ctx context.Context, r *domain.Run) (*Receipt, error) {
	receipt := &Receipt{
		GeneratedAt: g.now(),
		Run:         toRow(r),
		Name:        r.Name,
		ImageURL:    r.ImageURL,
	}
	for _, s := range r.Signatures {
		receipt.Signatures = append(receipt.Signatures, SignatureRow{
			Stage:     string(s.Stage),
			Signature: s.Signature,
		})
	}

	if g.eventStore != nil {
		events, err := g.eventStore.GetByRunID(ctx, r.RunID)
		if err != nil {
			return nil, err
		}
		for _, e := range events {
			receipt.Events = append(receipt.Events, EventRow{
				Timestamp: e.Timestamp,
				Kind:      string(e.Kind),
				Message:   e.Message,
			})
		}
	}

	return receipt, nil
}

func toRow(r *domain.Run) RunRow {
	return RunRow{
		RunID:       r.RunID,
		Owner:       r.Owner,
		Mint:        r.Mint,
		Symbol:      r.Symbol,
		Supply:      r.Supply,
		Decimals:    r.Decimals,
		Stage:       string(r.Stage),
		Outcome:     string(r.Outcome),
		Message:     r.Message,
		StartedAt:   r.StartedAt,
		DurationMs:  r.FinishedAt - r.StartedAt,
		Signatures:  len(r.Signatures),
		MetadataURL: r.MetadataURL,
	}
}
