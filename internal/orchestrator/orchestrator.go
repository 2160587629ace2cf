// Package orchestrator runs the token creation workflow.
// It coordinates: balance guard → asset upload → mint → token account → supply → metadata → revocation → fee
package orchestrator

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"go.uber.org/zap"

	"spl-token-creator/internal/domain"
	"spl-token-creator/internal/idhash"
	"spl-token-creator/internal/observability"
	"spl-token-creator/internal/pinning"
	"spl-token-creator/internal/solana"
	"spl-token-creator/internal/status"
	"spl-token-creator/internal/storage"
)

// Transaction labels passed to the wallet.
const (
	LabelCreateMint      = "create-mint"
	LabelCreateAccount   = "create-associated-account"
	LabelMintTokens      = "mint-tokens"
	LabelCreateMetadata  = "create-metadata"
	LabelRevokeAuthority = "revoke-authorities"
	LabelFeeTransfer     = "fee-transfer"
)

// Orchestrator coordinates one token creation at a time.
type Orchestrator struct {
	chain     solana.Chain
	wallet    solana.Wallet
	publisher pinning.Publisher
	reporter  *status.Reporter
	runs      storage.RunStore

	fees        domain.FeePolicy
	feeLamports uint64
	operator    common.PublicKey
	creator     pinning.Creator

	logger *zap.Logger
	now    func() time.Time

	running atomic.Bool
}

// Options for creating Orchestrator.
type Options struct {
	// Required collaborators
	Chain     solana.Chain
	Wallet    solana.Wallet
	Publisher pinning.Publisher
	Reporter  *status.Reporter

	// RunStore records each run. Optional.
	RunStore storage.RunStore

	// Fees prices the balance guard.
	Fees domain.FeePolicy
	// FeeLamports is transferred to Operator as the last step.
	FeeLamports uint64
	Operator    common.PublicKey

	// Creator is listed in the metadata document. Defaults to pinning.DefaultCreator.
	Creator *pinning.Creator

	Logger *zap.Logger
	Now    func() time.Time
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	creator := pinning.DefaultCreator()
	if opts.Creator != nil {
		creator = *opts.Creator
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Orchestrator{
		chain:       opts.Chain,
		wallet:      opts.Wallet,
		publisher:   opts.Publisher,
		reporter:    opts.Reporter,
		runs:        opts.RunStore,
		fees:        opts.Fees,
		feeLamports: opts.FeeLamports,
		operator:    opts.Operator,
		creator:     creator,
		logger:      logger.Named("orchestrator"),
		now:         now,
	}
}

// Running reports whether a workflow is in progress.
func (o *Orchestrator) Running() bool {
	return o.running.Load()
}

// run is the state threaded through the workflow steps.
type run struct {
	record *domain.Run
	req    domain.TokenCreationRequest
	owner  common.PublicKey

	fees   domain.FeeSchedule
	assets domain.AssetReferences
	mint   types.Account
	ata    common.PublicKey
}

// mintAddress returns the mint once its account exists, for error reporting.
func (r *run) mintAddress() string {
	return r.record.Mint
}

// step is one workflow stage. A non-empty message is published as the
// loading status before the step runs.
type step struct {
	stage   domain.Stage
	message string
	skip    func(r *run) bool
	exec    func(ctx context.Context, r *run) error
}

func (o *Orchestrator) steps() []step {
	return []step{
		{stage: domain.StagePreparing, message: "Preparing transaction...", exec: o.prepare},
		{stage: domain.StageCheckingBalance, exec: o.checkBalance},
		{stage: domain.StageUploadingImage, message: "Uploading image to IPFS...", exec: o.uploadImage},
		{stage: domain.StageUploadingMetadata, message: "Uploading metadata to IPFS...", exec: o.uploadMetadata},
		{stage: domain.StageCreatingMint, message: "Creating mint account...", exec: o.createMint},
		{stage: domain.StageCreatingAssociatedAccount, message: "Creating associated token account...", exec: o.ensureAssociatedAccount},
		{stage: domain.StageMintingTokens, message: "Minting tokens...", exec: o.mintSupply},
		{stage: domain.StageCreatingMetadataAccount, message: "Creating metadata...", exec: o.createMetadata},
		{
			stage:   domain.StageRevokingAuthorities,
			message: "Revoking authorities...",
			skip:    func(r *run) bool { return !r.req.RevokeFreeze && !r.req.RevokeMint },
			exec:    o.revokeAuthorities,
		},
		{stage: domain.StageTransferringFee, message: "Sending final transaction...", exec: o.transferFee},
	}
}

// Create runs the workflow for a validated request. Steps run strictly in
// order and the first failure halts the run without undoing earlier steps.
// The returned run record is non-nil once the workflow started.
func (o *Orchestrator) Create(ctx context.Context, req domain.TokenCreationRequest) (*domain.Run, error) {
	if !o.running.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer o.running.Store(false)

	owner := o.wallet.PublicKey()
	if owner == (common.PublicKey{}) {
		return nil, ErrNoWallet
	}

	startedAt := o.now()
	r := &run{
		req:   req,
		owner: owner,
		record: &domain.Run{
			RunID:        idhash.ComputeRunID(owner.ToBase58(), req.Symbol, startedAt.UnixMilli()),
			Owner:        owner.ToBase58(),
			Name:         req.Name,
			Symbol:       req.Symbol,
			Decimals:     int(req.Decimals),
			Supply:       req.Supply.String(),
			RevokeFreeze: req.RevokeFreeze,
			RevokeMint:   req.RevokeMint,
			Stage:        domain.StageIdle,
			StartedAt:    startedAt.UnixMilli(),
		},
	}

	observability.RecordRunStarted()
	o.logger.Info("token creation started",
		zap.String("run_id", idhash.ShortID(r.record.RunID)),
		zap.String("owner", r.record.Owner),
		zap.String("symbol", req.Symbol))

	err := o.execute(ctx, r)
	o.finish(ctx, r, startedAt, err)
	return r.record, err
}

func (o *Orchestrator) execute(ctx context.Context, r *run) error {
	for _, s := range o.steps() {
		if s.skip != nil && s.skip(r) {
			o.logger.Debug("step skipped", zap.String("stage", string(s.stage)))
			continue
		}
		if err := ctx.Err(); err != nil {
			return &ChainError{Stage: s.stage, Mint: r.mintAddress(), Err: err}
		}

		r.record.Stage = s.stage
		if s.message != "" {
			o.reporter.SetRun(r.record.RunID, domain.StatusLoading, s.message)
		}

		start := time.Now()
		err := s.exec(ctx, r)
		observability.RecordStage(string(s.stage), time.Since(start).Seconds())
		if err != nil {
			o.logger.Warn("step failed", zap.String("stage", string(s.stage)), zap.Error(err))
			return err
		}
		o.logger.Debug("step completed", zap.String("stage", string(s.stage)))
	}
	return nil
}

// finish publishes the terminal status, records metrics and persists the run.
func (o *Orchestrator) finish(ctx context.Context, r *run, startedAt time.Time, err error) {
	finishedAt := o.now()
	rec := r.record
	rec.FinishedAt = finishedAt.UnixMilli()
	rec.ImageURL = r.assets.ImageURL
	rec.MetadataURL = r.assets.MetadataURL

	failedStage := ""
	if err != nil {
		failedStage = string(rec.Stage)
		rec.Outcome = domain.OutcomeFailed
		rec.Message = statusMessage(err)
		o.reporter.SetRun(rec.RunID, domain.StatusError, rec.Message)
	} else {
		rec.Stage = domain.StageSuccess
		rec.Outcome = domain.OutcomeSuccess
		rec.Message = "Token created successfully! Mint Address: " + rec.Mint
		o.reporter.SetRun(rec.RunID, domain.StatusSuccess, rec.Message)
		o.logger.Info("token created", zap.String("mint", rec.Mint), zap.Int("transactions", len(rec.Signatures)))
	}

	observability.RecordRunFinished(string(rec.Outcome), failedStage,
		finishedAt.Sub(startedAt).Seconds(), finishedAt.Unix())

	if o.runs == nil {
		return
	}
	// Recording must not turn a finished workflow into a failure.
	if insertErr := o.runs.Insert(context.WithoutCancel(ctx), rec); insertErr != nil {
		if errors.Is(insertErr, storage.ErrDuplicateKey) {
			o.logger.Warn("run already recorded", zap.String("run_id", rec.RunID))
			return
		}
		o.logger.Error("record run", zap.String("run_id", rec.RunID), zap.Error(insertErr))
	}
}

// submit performs one submit-and-confirm cycle and records the signature.
func (o *Orchestrator) submit(ctx context.Context, r *run, label string, ins []types.Instruction, cosigners ...types.Account) error {
	bh, err := o.chain.GetLatestBlockhash(ctx)
	if err != nil {
		return err
	}

	sig, err := o.wallet.SignAndSend(ctx, solana.TxRequest{
		Label:           label,
		Instructions:    ins,
		RecentBlockhash: bh.Blockhash,
		Cosigners:       cosigners,
	})
	if err != nil {
		return err
	}
	o.logger.Debug("transaction sent", zap.String("label", label), zap.String("signature", sig))

	if err := o.chain.ConfirmTransaction(ctx, sig, bh); err != nil {
		return err
	}

	r.record.Signatures = append(r.record.Signatures, domain.StepSignature{
		Stage:     r.record.Stage,
		Signature: sig,
	})
	return nil
}
