// Package revoke lists the tokens whose mint authority the wallet still holds
// and revokes it on request.
package revoke

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"spl-token-creator/internal/domain"
	"spl-token-creator/internal/observability"
	"spl-token-creator/internal/solana"
	"spl-token-creator/internal/status"
)

// LabelRevokeMint is the wallet label of the revocation transaction.
const LabelRevokeMint = "revoke-mint-authority"

// ErrNoSelection is returned when Revoke is called without a mint.
var ErrNoSelection = errors.New("please select a token first")

// Service revokes mint authority on existing tokens.
type Service struct {
	chain    solana.Chain
	wallet   solana.Wallet
	reporter *status.Reporter
	logger   *zap.Logger
}

// NewService creates a Service.
func NewService(chain solana.Chain, wallet solana.Wallet, reporter *status.Reporter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		chain:    chain,
		wallet:   wallet,
		reporter: reporter,
		logger:   logger.Named("revoke"),
	}
}

// ListOwnedTokens returns the wallet's token accounts whose mint authority is
// the wallet itself. Mints that cannot be read are skipped.
func (s *Service) ListOwnedTokens(ctx context.Context) ([]domain.TokenSummary, error) {
	if !s.wallet.Connected() {
		return nil, solana.ErrWalletNotConnected
	}
	owner := s.wallet.PublicKey().ToBase58()

	accounts, err := s.chain.GetTokenAccountsByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list token accounts: %w", err)
	}

	authorities := make(map[string]*string)
	tokens := make([]domain.TokenSummary, 0, len(accounts))
	for _, acc := range accounts {
		auth, seen := authorities[acc.Mint]
		if !seen {
			auth, err = s.chain.GetMintAuthority(ctx, acc.Mint)
			if err != nil {
				s.logger.Warn("read mint", zap.String("mint", acc.Mint), zap.Error(err))
				continue
			}
			authorities[acc.Mint] = auth
		}
		if auth == nil || *auth != owner {
			continue
		}

		tokens = append(tokens, domain.TokenSummary{
			Address:       acc.Address,
			Mint:          acc.Mint,
			Name:          domain.PlaceholderName(acc.Mint),
			Amount:        uiAmount(acc),
			MintAuthority: auth,
		})
	}
	return tokens, nil
}

// Revoke sets the mint authority of mint to none in a single transaction,
// waits for confirmation and returns the refreshed token list.
func (s *Service) Revoke(ctx context.Context, mint string) ([]domain.TokenSummary, error) {
	mint = strings.TrimSpace(mint)
	if mint == "" {
		s.reporter.Set(domain.StatusError, "Please select a token first")
		return nil, ErrNoSelection
	}

	if err := s.revoke(ctx, mint); err != nil {
		s.reporter.Set(domain.StatusError, "Failed to revoke mint authority: "+err.Error())
		return nil, err
	}

	observability.RecordRevocation("mint")
	s.reporter.Set(domain.StatusSuccess, "Mint authority revoked for "+mint)
	s.logger.Info("mint authority revoked", zap.String("mint", mint))

	return s.ListOwnedTokens(ctx)
}

func (s *Service) revoke(ctx context.Context, mint string) error {
	if !s.wallet.Connected() {
		return solana.ErrWalletNotConnected
	}
	mintKey, err := solana.ParsePublicKey(mint)
	if err != nil {
		return err
	}
	owner := s.wallet.PublicKey()

	bh, err := s.chain.GetLatestBlockhash(ctx)
	if err != nil {
		return err
	}

	sig, err := s.wallet.SignAndSend(ctx, solana.TxRequest{
		Label:           LabelRevokeMint,
		Instructions:    solana.RevokeInstructions(mintKey, owner, false, true),
		RecentBlockhash: bh.Blockhash,
	})
	if err != nil {
		return err
	}
	return s.chain.ConfirmTransaction(ctx, sig, bh)
}

func uiAmount(acc solana.TokenAccount) string {
	if acc.UIAmountString != "" {
		return acc.UIAmountString
	}
	var base uint64
	if _, err := fmt.Sscan(acc.Amount, &base); err != nil {
		return acc.Amount
	}
	return domain.FromBaseUnits(base, uint8(acc.Decimals)).String()
}
