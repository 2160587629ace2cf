package reporting

import (
	"context"
	"strings"
	"testing"
	"time"

	"spl-token-creator/internal/domain"
	"spl-token-creator/internal/storage/memory"
)

func setupTestData(t *testing.T) (*memory.RunStore, *memory.StatusEventStore) {
	ctx := context.Background()

	runStore := memory.NewRunStore()
	eventStore := memory.NewStatusEventStore()

	runs := []*domain.Run{
		{
			RunID: "r1", Owner: "owner1", Mint: "mint1", Name: "Alpha", Symbol: "ALP",
			Decimals: 9, Supply: "1000000", Stage: domain.StageSuccess, Outcome: domain.OutcomeSuccess,
			Message:    "Token created successfully! Mint Address: mint1",
			Signatures: []domain.StepSignature{{Stage: domain.StageCreatingMint, Signature: "sig1"}},
			StartedAt:  1000000, FinishedAt: 1004000,
			ImageURL: "https://gw/ipfs/img", MetadataURL: "https://gw/ipfs/meta",
		},
		{
			RunID: "r2", Owner: "owner1", Mint: "mint2", Name: "Beta", Symbol: "B|T",
			Decimals: 6, Supply: "500", Stage: domain.StageMintingTokens, Outcome: domain.OutcomeFailed,
			Message:   "Failed to mint tokens: user rejected the request (mint address: mint2)",
			StartedAt: 2000000, FinishedAt: 2001000,
		},
		{
			RunID: "r3", Owner: "owner2", Name: "Gamma", Symbol: "GAM",
			Decimals: 0, Supply: "1", Stage: domain.StageUploadingImage, Outcome: domain.OutcomeFailed,
			Message:   "Failed to upload image to IPFS",
			StartedAt: 3000000, FinishedAt: 3000500,
		},
	}
	for _, r := range runs {
		if err := runStore.Insert(ctx, r); err != nil {
			t.Fatalf("Insert run failed: %v", err)
		}
	}

	events := []*domain.StatusEvent{
		{RunID: "r1", Kind: domain.StatusLoading, Message: "Preparing transaction...", Timestamp: 1000001},
		{RunID: "r1", Kind: domain.StatusSuccess, Message: "Token created successfully! Mint Address: mint1", Timestamp: 1004000},
	}
	if err := eventStore.Append(ctx, events); err != nil {
		t.Fatalf("Append events failed: %v", err)
	}

	return runStore, eventStore
}

func fixedClock() time.Time {
	return time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
}

func TestGenerator_Generate(t *testing.T) {
	runStore, eventStore := setupTestData(t)
	gen := NewGenerator(runStore, eventStore).WithClock(fixedClock)

	report, err := gen.Generate(context.Background(), "owner1", 0)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !report.GeneratedAt.Equal(fixedClock()) {
		t.Errorf("GeneratedAt = %v", report.GeneratedAt)
	}
	if report.Summary.TotalRuns != 2 || report.Summary.Succeeded != 1 || report.Summary.Failed != 1 {
		t.Errorf("unexpected summary %+v", report.Summary)
	}
	if report.Summary.FailedWithMint != 1 {
		t.Errorf("FailedWithMint = %d, want 1", report.Summary.FailedWithMint)
	}
	// Newest first.
	if report.Runs[0].RunID != "r2" {
		t.Errorf("first run = %s, want r2", report.Runs[0].RunID)
	}
	if report.Runs[1].DurationMs != 4000 {
		t.Errorf("DurationMs = %d", report.Runs[1].DurationMs)
	}
}

func TestGenerator_GenerateAllOwners(t *testing.T) {
	runStore, _ := setupTestData(t)
	gen := NewGenerator(runStore, nil)

	report, err := gen.Generate(context.Background(), "", 2)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(report.Runs) != 2 || report.Runs[0].RunID != "r3" {
		t.Errorf("unexpected runs %+v", report.Runs)
	}
}

func TestGenerator_Receipt(t *testing.T) {
	runStore, eventStore := setupTestData(t)
	gen := NewGenerator(runStore, eventStore).WithClock(fixedClock)

	receipt, err := gen.Receipt(context.Background(), "r1")
	if err != nil {
		t.Fatalf("Receipt failed: %v", err)
	}
	if len(receipt.Signatures) != 1 || receipt.Signatures[0].Stage != string(domain.StageCreatingMint) {
		t.Errorf("unexpected signatures %+v", receipt.Signatures)
	}
	if len(receipt.Events) != 2 || receipt.Events[1].Kind != "success" {
		t.Errorf("unexpected events %+v", receipt.Events)
	}

	md := RenderReceiptMarkdown(receipt)
	for _, want := range []string{"# Alpha (ALP)", "| Mint | mint1 |", "1. CREATING_MINT `sig1`", "## Status Log"} {
		if !strings.Contains(md, want) {
			t.Errorf("receipt missing %q:\n%s", want, md)
		}
	}
}

func TestGenerator_ReceiptNotFound(t *testing.T) {
	runStore, _ := setupTestData(t)
	if _, err := NewGenerator(runStore, nil).Receipt(context.Background(), "missing"); err == nil {
		t.Error("expected error for missing run")
	}
}

func TestGenerator_ReceiptForMint(t *testing.T) {
	runStore, eventStore := setupTestData(t)
	gen := NewGenerator(runStore, eventStore).WithClock(fixedClock)

	receipt, err := gen.ReceiptForMint(context.Background(), "mint2")
	if err != nil {
		t.Fatalf("ReceiptForMint failed: %v", err)
	}
	if receipt.Run.RunID != "r2" {
		t.Errorf("expected run r2, got %s", receipt.Run.RunID)
	}
	if len(receipt.Events) != 0 {
		t.Errorf("expected no events for r2, got %d", len(receipt.Events))
	}

	if _, err := gen.ReceiptForMint(context.Background(), "unknown"); err == nil {
		t.Error("expected error for unknown mint")
	}
}

func TestGenerator_Events(t *testing.T) {
	runStore, eventStore := setupTestData(t)
	gen := NewGenerator(runStore, eventStore)

	rows, err := gen.Events(context.Background(), 1000000, 1000001)
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if len(rows) != 1 || rows[0].RunID != "r1" || rows[0].Kind != "loading" {
		t.Errorf("unexpected events %+v", rows)
	}

	rows, err = NewGenerator(runStore, nil).Events(context.Background(), 0, 1<<62)
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no events without an event store, got %d", len(rows))
	}
}

func TestRenderMarkdown(t *testing.T) {
	runStore, _ := setupTestData(t)
	report, err := NewGenerator(runStore, nil).WithClock(fixedClock).Generate(context.Background(), "owner1", 0)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	md := RenderMarkdown(report)

	for _, want := range []string{
		"# Token Creation History",
		"Generated: 2024-01-15T12:00:00Z",
		"| Total Runs | 2 |",
		"B\\|T",
		"### Needs Attention",
		"- `mint2`: Failed to mint tokens",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestRenderMarkdown_Empty(t *testing.T) {
	md := RenderMarkdown(&Report{GeneratedAt: fixedClock()})
	if !strings.Contains(md, "No runs recorded.") {
		t.Errorf("unexpected markdown:\n%s", md)
	}
}

func TestRenderCSV(t *testing.T) {
	runStore, _ := setupTestData(t)
	report, _ := NewGenerator(runStore, nil).Generate(context.Background(), "", 0)

	csv := RenderCSV(report.Runs)
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "run_id,owner,mint,") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.HasPrefix(lines[3], "r1,owner1,mint1,ALP,1000000,9,SUCCESS,SUCCESS,1000000,4000,1,") {
		t.Errorf("unexpected row %q", lines[3])
	}
}
