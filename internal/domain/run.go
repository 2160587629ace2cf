package domain

// Stage names a step of the token creation workflow.
type Stage string

const (
	StageIdle                      Stage = "IDLE"
	StagePreparing                 Stage = "PREPARING_TX"
	StageCheckingBalance           Stage = "CHECKING_BALANCE"
	StageUploadingImage            Stage = "UPLOADING_IMAGE"
	StageUploadingMetadata         Stage = "UPLOADING_METADATA"
	StageCreatingMint              Stage = "CREATING_MINT"
	StageCreatingAssociatedAccount Stage = "CREATING_ASSOCIATED_ACCOUNT"
	StageMintingTokens             Stage = "MINTING_TOKENS"
	StageCreatingMetadataAccount   Stage = "CREATING_METADATA_ACCOUNT"
	StageRevokingAuthorities       Stage = "REVOKING_AUTHORITIES"
	StageTransferringFee           Stage = "TRANSFERRING_FEE"
	StageSuccess                   Stage = "SUCCESS"
	StageError                     Stage = "ERROR"
)

// RunOutcome is the terminal result of a workflow run.
type RunOutcome string

const (
	OutcomeSuccess RunOutcome = "SUCCESS"
	OutcomeFailed  RunOutcome = "FAILED"
)

// StepSignature records a confirmed transaction of a run.
type StepSignature struct {
	Stage     Stage  `json:"stage"`
	Signature string `json:"signature"`
}

// Run is the history record of one workflow invocation.
// Corresponds to the token_runs table in PostgreSQL.
type Run struct {
	RunID    string
	Owner    string
	Mint     string // empty when the run failed before the mint existed
	Name     string
	Symbol   string
	Decimals int
	Supply   string

	RevokeFreeze bool
	RevokeMint   bool

	ImageURL    string
	MetadataURL string
	Stage       Stage // last stage reached
	Outcome     RunOutcome
	Message     string
	Signatures  []StepSignature
	StartedAt   int64 // ms
	FinishedAt  int64 // ms
}

// StatusEvent is one status transition, stored append-only.
// Corresponds to the status_events table in ClickHouse.
type StatusEvent struct {
	RunID     string
	Kind      StatusKind
	Message   string
	Timestamp int64 // ms
}
