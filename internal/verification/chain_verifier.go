package verification

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"spl-token-creator/internal/domain"
	"spl-token-creator/internal/solana"
	"spl-token-creator/internal/storage"
)

// ChainVerifier implements Verifier against a Solana RPC node.
type ChainVerifier struct {
	runStore storage.RunStore
	chain    solana.Chain
}

var _ Verifier = (*ChainVerifier)(nil)

// NewChainVerifier creates a new ChainVerifier.
func NewChainVerifier(runStore storage.RunStore, chain solana.Chain) *ChainVerifier {
	return &ChainVerifier{runStore: runStore, chain: chain}
}

// VerifyRun verifies a single run against the current chain state.
func (v *ChainVerifier) VerifyRun(ctx context.Context, runID string) (*VerificationResult, error) {
	// 1. Load stored run
	run, err := v.runStore.GetByID(ctx, runID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}
	return v.verify(ctx, run)
}

func (v *ChainVerifier) verify(ctx context.Context, run *domain.Run) (*VerificationResult, error) {
	if run.Mint == "" {
		return nil, ErrNoMint
	}

	// 2. Observe chain
	observed, err := v.observe(ctx, run)
	if err != nil {
		return nil, err
	}

	// 3. Compare
	divergences, err := CompareRun(run, observed)
	if err != nil {
		return nil, err
	}

	return &VerificationResult{
		RunID:       run.RunID,
		Mint:        run.Mint,
		Match:       len(divergences) == 0,
		Divergences: divergences,
	}, nil
}

// VerifyAll verifies the runs of owner. Runs without a mint are skipped.
func (v *ChainVerifier) VerifyAll(ctx context.Context, owner string, limit int) (*VerificationReport, error) {
	runs, err := v.runStore.List(ctx, owner, limit)
	if err != nil {
		return nil, err
	}

	report := &VerificationReport{
		Results: make([]VerificationResult, 0, len(runs)),
	}

	for _, run := range runs {
		report.TotalRuns++
		if run.Mint == "" {
			report.SkippedRuns++
			continue
		}

		result, err := v.verify(ctx, run)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// Record error as divergence
			report.Results = append(report.Results, VerificationResult{
				RunID: run.RunID,
				Mint:  run.Mint,
				Match: false,
				Divergences: []FieldDivergence{
					{Field: "Error", Expected: nil, Actual: err.Error()},
				},
			})
			report.DivergentRuns++
			continue
		}

		report.Results = append(report.Results, *result)
		if result.Match {
			report.MatchedRuns++
		} else {
			report.DivergentRuns++
		}
	}

	return report, nil
}

// observe reads the mint, its metadata account and the owner's token balance.
func (v *ChainVerifier) observe(ctx context.Context, run *domain.Run) (TokenState, error) {
	var state TokenState

	mintInfo, err := v.chain.GetAccountInfo(ctx, run.Mint)
	if err != nil {
		return state, fmt.Errorf("get mint account: %w", err)
	}
	if mintInfo == nil {
		return state, nil
	}
	state.MintExists = true

	state.MintAuthority, err = v.chain.GetMintAuthority(ctx, run.Mint)
	if err != nil {
		return state, fmt.Errorf("get mint authority: %w", err)
	}

	mintKey, err := solana.ParsePublicKey(run.Mint)
	if err != nil {
		return state, err
	}
	metadata, err := solana.MetadataAddress(mintKey)
	if err != nil {
		return state, err
	}
	metaInfo, err := v.chain.GetAccountInfo(ctx, metadata.ToBase58())
	if err != nil {
		return state, fmt.Errorf("get metadata account: %w", err)
	}
	state.MetadataExists = metaInfo != nil

	accounts, err := v.chain.GetTokenAccountsByOwner(ctx, run.Owner)
	if err != nil {
		return state, fmt.Errorf("list token accounts: %w", err)
	}
	for _, acc := range accounts {
		if acc.Mint != run.Mint {
			continue
		}
		amount, err := strconv.ParseUint(acc.Amount, 10, 64)
		if err != nil {
			return state, fmt.Errorf("token account %s amount %q: %w", acc.Address, acc.Amount, err)
		}
		total := amount
		if state.OwnerBalance != nil {
			total += *state.OwnerBalance
		}
		state.OwnerBalance = &total
	}

	return state, nil
}

func parseSupply(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid supply %q: %w", s, err)
	}
	return d, nil
}
