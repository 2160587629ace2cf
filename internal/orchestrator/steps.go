package orchestrator

import (
	"context"

	"github.com/blocto/solana-go-sdk/types"
	"go.uber.org/zap"

	"spl-token-creator/internal/domain"
	"spl-token-creator/internal/observability"
	"spl-token-creator/internal/pinning"
	"spl-token-creator/internal/solana"
)

func (o *Orchestrator) prepare(_ context.Context, r *run) error {
	r.fees = o.fees.Schedule(r.req.RevokeFreeze, r.req.RevokeMint)
	return nil
}

// checkBalance reads the owner balance once. It is not repeated between
// later transactions.
func (o *Orchestrator) checkBalance(ctx context.Context, r *run) error {
	balance, err := o.chain.GetBalance(ctx, r.owner.ToBase58())
	if err != nil {
		return &ChainError{Stage: domain.StageCheckingBalance, Err: err}
	}

	required := r.fees.RequiredLamports()
	o.logger.Debug("balance checked",
		zap.Uint64("balance", balance),
		zap.Uint64("required", required))

	if balance < required {
		observability.RecordInsufficientFunds()
		return &InsufficientFundsError{Required: r.fees.Total(), Balance: balance}
	}
	return nil
}

func (o *Orchestrator) uploadImage(ctx context.Context, r *run) error {
	url, err := o.publisher.PublishImage(ctx, r.req.Image)
	if err != nil {
		return &PublishError{Stage: domain.StageUploadingImage, Err: err}
	}
	r.assets.ImageURL = url
	return nil
}

func (o *Orchestrator) uploadMetadata(ctx context.Context, r *run) error {
	doc := pinning.BuildMetadata(r.req, r.assets.ImageURL, o.creator)
	url, err := o.publisher.PublishMetadata(ctx, doc)
	if err != nil {
		return &PublishError{Stage: domain.StageUploadingMetadata, Err: err}
	}
	r.assets.MetadataURL = url
	return nil
}

// createMint allocates and initializes a fresh mint account in one
// transaction signed by the owner and the new mint key.
func (o *Orchestrator) createMint(ctx context.Context, r *run) error {
	r.mint = types.NewAccount()

	rent, err := o.chain.GetMinimumBalanceForRentExemption(ctx, solana.MintAccountSize)
	if err != nil {
		return &ChainError{Stage: domain.StageCreatingMint, Err: err}
	}

	ins := solana.CreateMintInstructions(r.owner, r.mint.PublicKey, r.req.Decimals, rent)
	if err := o.submit(ctx, r, LabelCreateMint, ins, r.mint); err != nil {
		return &ChainError{Stage: domain.StageCreatingMint, Err: err}
	}

	r.record.Mint = r.mint.PublicKey.ToBase58()
	o.logger.Info("mint created", zap.String("mint", r.record.Mint))
	return nil
}

// ensureAssociatedAccount creates the owner's token account only when missing.
func (o *Orchestrator) ensureAssociatedAccount(ctx context.Context, r *run) error {
	ata, err := solana.AssociatedTokenAddress(r.owner, r.mint.PublicKey)
	if err != nil {
		return &ChainError{Stage: domain.StageCreatingAssociatedAccount, Mint: r.mintAddress(), Err: err}
	}
	r.ata = ata

	info, err := o.chain.GetAccountInfo(ctx, ata.ToBase58())
	if err != nil {
		return &ChainError{Stage: domain.StageCreatingAssociatedAccount, Mint: r.mintAddress(), Err: err}
	}
	if info != nil {
		o.logger.Debug("associated token account exists", zap.String("address", ata.ToBase58()))
		return nil
	}

	ins := solana.CreateAssociatedAccountInstruction(r.owner, r.owner, r.mint.PublicKey, ata)
	if err := o.submit(ctx, r, LabelCreateAccount, []types.Instruction{ins}); err != nil {
		return &ChainError{Stage: domain.StageCreatingAssociatedAccount, Mint: r.mintAddress(), Err: err}
	}
	return nil
}

func (o *Orchestrator) mintSupply(ctx context.Context, r *run) error {
	amount, err := domain.BaseUnits(r.req.Supply, r.req.Decimals)
	if err != nil {
		return &ChainError{Stage: domain.StageMintingTokens, Mint: r.mintAddress(), Err: err}
	}

	ins := solana.MintToInstruction(r.mint.PublicKey, r.ata, r.owner, amount)
	if err := o.submit(ctx, r, LabelMintTokens, []types.Instruction{ins}); err != nil {
		return &ChainError{Stage: domain.StageMintingTokens, Mint: r.mintAddress(), Err: err}
	}
	return nil
}

func (o *Orchestrator) createMetadata(ctx context.Context, r *run) error {
	metadata, err := solana.MetadataAddress(r.mint.PublicKey)
	if err != nil {
		return &ChainError{Stage: domain.StageCreatingMetadataAccount, Mint: r.mintAddress(), Err: err}
	}

	ins := solana.CreateMetadataInstruction(r.owner, r.mint.PublicKey, metadata, solana.MetadataParams{
		Name:   r.req.Name,
		Symbol: r.req.Symbol,
		URI:    r.assets.MetadataURL,
	})
	if err := o.submit(ctx, r, LabelCreateMetadata, []types.Instruction{ins}); err != nil {
		return &ChainError{Stage: domain.StageCreatingMetadataAccount, Mint: r.mintAddress(), Err: err}
	}
	return nil
}

func (o *Orchestrator) revokeAuthorities(ctx context.Context, r *run) error {
	ins := solana.RevokeInstructions(r.mint.PublicKey, r.owner, r.req.RevokeFreeze, r.req.RevokeMint)
	if err := o.submit(ctx, r, LabelRevokeAuthority, ins); err != nil {
		return &ChainError{Stage: domain.StageRevokingAuthorities, Mint: r.mintAddress(), Err: err}
	}

	if r.req.RevokeFreeze {
		observability.RecordRevocation("freeze")
	}
	if r.req.RevokeMint {
		observability.RecordRevocation("mint")
	}
	return nil
}

// transferFee pays the service fee. It always runs last.
func (o *Orchestrator) transferFee(ctx context.Context, r *run) error {
	ins := solana.TransferInstruction(r.owner, o.operator, o.feeLamports)
	if err := o.submit(ctx, r, LabelFeeTransfer, []types.Instruction{ins}); err != nil {
		return &ChainError{Stage: domain.StageTransferringFee, Mint: r.mintAddress(), Err: err}
	}
	return nil
}
