package orchestrator

import (
	"context"

	"go.uber.org/zap"

	"spl-token-creator/internal/domain"
	"spl-token-creator/internal/solana"
	"spl-token-creator/internal/status"
)

// Collector is the entry point for creation requests. It makes sure a wallet
// is connected and the request is complete before the workflow starts.
type Collector struct {
	wallet   solana.Wallet
	reporter *status.Reporter
	orch     *Orchestrator
	logger   *zap.Logger
}

// NewCollector creates a Collector.
func NewCollector(wallet solana.Wallet, reporter *status.Reporter, orch *Orchestrator, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{
		wallet:   wallet,
		reporter: reporter,
		orch:     orch,
		logger:   logger.Named("collector"),
	}
}

// Submit starts a token creation. Without a connected wallet it requests a
// connection and returns solana.ErrWalletNotConnected instead of proceeding.
func (c *Collector) Submit(ctx context.Context, req domain.TokenCreationRequest) (*domain.Run, error) {
	if !c.wallet.Connected() {
		c.reporter.Set(domain.StatusError, "Please connect your wallet")
		if err := c.wallet.Connect(ctx); err != nil {
			c.logger.Warn("wallet connection failed", zap.Error(err))
		}
		return nil, solana.ErrWalletNotConnected
	}

	if err := req.Validate(); err != nil {
		c.reporter.Set(domain.StatusError, err.Error())
		return nil, err
	}

	return c.orch.Create(ctx, req)
}
