// Package verification checks that the on-chain state of a created token
// matches what its run record says was done.
package verification

import (
	"context"
	"errors"
	"fmt"

	"spl-token-creator/internal/domain"
)

var (
	// ErrRunNotFound is returned when the run ID doesn't exist.
	ErrRunNotFound = errors.New("run not found")

	// ErrNoMint is returned for runs that failed before the mint existed.
	ErrNoMint = errors.New("run has no mint")
)

// Checked fields.
const (
	FieldMintAccount     = "MintAccount"
	FieldMintAuthority   = "MintAuthority"
	FieldMetadataAccount = "MetadataAccount"
	FieldOwnerBalance    = "OwnerBalance"
)

const (
	present = "present"
	missing = "missing"
	revoked = "revoked"
)

// FieldDivergence represents a mismatch between expected and observed values.
type FieldDivergence struct {
	Field    string      `json:"field"`
	Expected interface{} `json:"expected"` // derived from the run record
	Actual   interface{} `json:"actual"`   // observed on chain
}

// VerificationResult contains the result of verifying a single run.
type VerificationResult struct {
	RunID       string            `json:"runId"`
	Mint        string            `json:"mint"`
	Match       bool              `json:"match"`
	Divergences []FieldDivergence `json:"divergences"`
}

// VerificationReport contains results for batch verification.
type VerificationReport struct {
	TotalRuns     int                  `json:"totalRuns"`
	MatchedRuns   int                  `json:"matchedRuns"`
	DivergentRuns int                  `json:"divergentRuns"`
	SkippedRuns   int                  `json:"skippedRuns"` // no mint to check
	Results       []VerificationResult `json:"results"`
}

// Verifier checks runs against the chain.
type Verifier interface {
	// VerifyRun verifies a single run by ID.
	VerifyRun(ctx context.Context, runID string) (*VerificationResult, error)

	// VerifyAll verifies the runs of owner; an empty owner covers everyone.
	VerifyAll(ctx context.Context, owner string, limit int) (*VerificationReport, error)
}

// TokenState is the on-chain state of a token relevant to its run.
type TokenState struct {
	MintExists     bool
	MintAuthority  *string // nil when revoked
	MetadataExists bool
	OwnerBalance   *uint64 // nil when the owner has no token account
}

// stageOrder lists the workflow stages in execution order.
var stageOrder = []domain.Stage{
	domain.StagePreparing,
	domain.StageCheckingBalance,
	domain.StageUploadingImage,
	domain.StageUploadingMetadata,
	domain.StageCreatingMint,
	domain.StageCreatingAssociatedAccount,
	domain.StageMintingTokens,
	domain.StageCreatingMetadataAccount,
	domain.StageRevokingAuthorities,
	domain.StageTransferringFee,
}

// completed reports whether run got past stage.
func completed(run *domain.Run, stage domain.Stage) bool {
	if run.Outcome == domain.OutcomeSuccess {
		return true
	}
	reached, target := -1, -1
	for i, s := range stageOrder {
		if s == run.Stage {
			reached = i
		}
		if s == stage {
			target = i
		}
	}
	return reached > target
}

// CompareRun compares the state implied by run with the observed state.
// Only the steps the run completed are checked.
func CompareRun(run *domain.Run, observed TokenState) ([]FieldDivergence, error) {
	var divergences []FieldDivergence

	if !observed.MintExists {
		return []FieldDivergence{{Field: FieldMintAccount, Expected: present, Actual: missing}}, nil
	}

	// Mint authority stays with the owner unless a completed revocation removed it.
	wantAuthority := run.Owner
	if run.RevokeMint && completed(run, domain.StageRevokingAuthorities) {
		wantAuthority = revoked
	}
	gotAuthority := revoked
	if observed.MintAuthority != nil {
		gotAuthority = *observed.MintAuthority
	}
	if wantAuthority != gotAuthority {
		divergences = append(divergences, FieldDivergence{
			Field:    FieldMintAuthority,
			Expected: wantAuthority,
			Actual:   gotAuthority,
		})
	}

	if completed(run, domain.StageCreatingMetadataAccount) && !observed.MetadataExists {
		divergences = append(divergences, FieldDivergence{
			Field:    FieldMetadataAccount,
			Expected: present,
			Actual:   missing,
		})
	}

	if completed(run, domain.StageMintingTokens) {
		supply, err := parseSupply(run.Supply)
		if err != nil {
			return nil, err
		}
		want, err := domain.BaseUnits(supply, uint8(run.Decimals))
		if err != nil {
			return nil, fmt.Errorf("run %s supply: %w", run.RunID, err)
		}
		switch {
		case observed.OwnerBalance == nil:
			divergences = append(divergences, FieldDivergence{
				Field:    FieldOwnerBalance,
				Expected: want,
				Actual:   missing,
			})
		case *observed.OwnerBalance != want:
			divergences = append(divergences, FieldDivergence{
				Field:    FieldOwnerBalance,
				Expected: want,
				Actual:   *observed.OwnerBalance,
			})
		}
	}

	return divergences, nil
}
