package reporting

import "time"

// Report represents the run history report structure.
type Report struct {
	// Metadata
	GeneratedAt time.Time `json:"generatedAt"`
	Owner       string    `json:"owner"` // empty for all owners

	// Summary
	Summary Summary `json:"summary"`

	// Runs (sorted by started_at DESC)
	Runs []RunRow `json:"runs"`
}

// Summary counts runs by outcome.
type Summary struct {
	TotalRuns      int `json:"totalRuns"`
	Succeeded      int `json:"succeeded"`
	Failed         int `json:"failed"`
	FailedWithMint int `json:"failedWithMint"` // failed after the mint existed; needs manual follow-up
}

// RunRow represents one row in the runs table.
type RunRow struct {
	RunID       string `json:"runId"`
	Owner       string `json:"owner"`
	Mint        string `json:"mint"`
	Symbol      string `json:"symbol"`
	Supply      string `json:"supply"`
	Decimals    int    `json:"decimals"`
	Stage       string `json:"stage"`
	Outcome     string `json:"outcome"`
	Message     string `json:"message"`
	StartedAt   int64  `json:"startedAt"` // Unix ms
	DurationMs  int64  `json:"durationMs"`
	Signatures  int    `json:"signatures"`
	MetadataURL string `json:"metadataURL"`
}

// Receipt is the detailed record of one run.
type Receipt struct {
	GeneratedAt time.Time      `json:"generatedAt"`
	Run         RunRow         `json:"run"`
	Name        string         `json:"name"`
	ImageURL    string         `json:"imageURL"`
	Signatures  []SignatureRow `json:"signatures"`
	Events      []EventRow     `json:"events"` // status transitions, ordered by timestamp
}

// SignatureRow is one confirmed transaction of a run.
type SignatureRow struct {
	Stage     string `json:"stage"`
	Signature string `json:"signature"`
}

// EventRow is one status transition.
type EventRow struct {
	RunID     string `json:"runId,omitempty"`
	Timestamp int64  `json:"timestamp"` // Unix ms
	Kind      string `json:"kind"`
	Message   string `json:"message"`
}
