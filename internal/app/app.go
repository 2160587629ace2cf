// Package app wires configuration into the running services shared by the
// server and the command line tool.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"spl-token-creator/internal/config"
	"spl-token-creator/internal/domain"
	"spl-token-creator/internal/orchestrator"
	"spl-token-creator/internal/pinning"
	"spl-token-creator/internal/reporting"
	"spl-token-creator/internal/revoke"
	"spl-token-creator/internal/solana"
	"spl-token-creator/internal/status"
	"spl-token-creator/internal/storage"
	chstore "spl-token-creator/internal/storage/clickhouse"
	"spl-token-creator/internal/storage/memory"
	"spl-token-creator/internal/storage/migrations"
	pgstore "spl-token-creator/internal/storage/postgres"
	"spl-token-creator/internal/verification"
)

// Stores holds the run history stores.
type Stores struct {
	Runs   storage.RunStore
	Events storage.StatusEventStore
}

// App holds every wired component.
type App struct {
	Config *config.Config
	Logger *zap.Logger

	Chain     *solana.Client
	Wallet    *solana.KeypairWallet
	Publisher *pinning.PinataClient
	Stores    Stores

	Reporter     *status.Reporter
	Recorder     *status.Recorder
	Orchestrator *orchestrator.Orchestrator
	Collector    *orchestrator.Collector
	Revoker      *revoke.Service
	Reports      *reporting.Generator
	Verifier     *verification.ChainVerifier
	Fees         domain.FeePolicy

	closers []func()
}

// New builds the application from a validated configuration. approver
// decides on each wallet signature; nil approves everything.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, approver solana.Approver) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	fees, err := cfg.FeePolicy()
	if err != nil {
		return nil, err
	}
	a.Fees = fees
	feeLamports, err := cfg.FeeLamports()
	if err != nil {
		return nil, err
	}
	operator, err := solana.ParseWalletAddress(cfg.Fees.OperatorAddress)
	if err != nil {
		return nil, fmt.Errorf("fees.operator_address: %w", err)
	}

	stores, err := a.createStores(ctx)
	if err != nil {
		return nil, err
	}
	a.Stores = stores

	a.Chain, err = a.createChain(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Publisher, err = pinning.NewPinataClient(cfg.PinataConfig(), pinning.WithLogger(logger))
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Wallet = solana.NewKeypairWallet(a.Chain, cfg.Wallet.KeypairPath, approver, logger)
	if cfg.Wallet.KeypairPath != "" {
		if err := a.Wallet.Connect(ctx); err != nil {
			logger.Warn("wallet not connected", zap.Error(err))
		}
	}

	a.Reporter = status.NewReporter(
		status.WithClearAfter(cfg.Status.ClearAfter),
		status.WithLogger(logger),
	)
	a.closers = append(a.closers, a.Reporter.Close)
	a.Recorder = status.NewRecorder(a.Reporter, stores.Events, logger)

	creator := cfg.Creator()
	a.Orchestrator = orchestrator.New(orchestrator.Options{
		Chain:       a.Chain,
		Wallet:      a.Wallet,
		Publisher:   a.Publisher,
		Reporter:    a.Reporter,
		RunStore:    stores.Runs,
		Fees:        fees,
		FeeLamports: feeLamports,
		Operator:    operator,
		Creator:     &creator,
		Logger:      logger,
	})
	a.Collector = orchestrator.NewCollector(a.Wallet, a.Reporter, a.Orchestrator, logger)
	a.Revoker = revoke.NewService(a.Chain, a.Wallet, a.Reporter, logger)
	a.Reports = reporting.NewGenerator(stores.Runs, stores.Events)
	a.Verifier = verification.NewChainVerifier(stores.Runs, a.Chain)

	return a, nil
}

// Close releases connections in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *App) createStores(ctx context.Context) (Stores, error) {
	cfg := a.Config.Storage
	if cfg.UseMemory {
		a.Logger.Info("using in-memory run history")
		return Stores{
			Runs:   memory.NewRunStore(),
			Events: memory.NewStatusEventStore(),
		}, nil
	}

	// PostgreSQL
	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return Stores{}, err
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return Stores{}, fmt.Errorf("postgres migrations: %w", err)
	}

	// ClickHouse
	conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
	if err != nil {
		pool.Close()
		return Stores{}, fmt.Errorf("clickhouse migrations: %w", err)
	}

	a.closers = append(a.closers, pool.Close, func() { _ = conn.Close() })
	return Stores{
		Runs:   pgstore.NewRunStore(pool),
		Events: chstore.NewStatusEventStore(conn),
	}, nil
}

func (a *App) createChain(ctx context.Context) (*solana.Client, error) {
	cfg := a.Config.RPC
	rpc := solana.NewHTTPClient(cfg.Endpoint,
		solana.WithTimeout(cfg.Timeout),
		solana.WithMaxRetries(cfg.MaxRetries),
		solana.WithConfirmPollInterval(cfg.ConfirmPollInterval),
		solana.WithLogger(a.Logger),
	)

	if cfg.WSEndpoint == "" {
		return solana.NewClient(rpc, nil, a.Logger), nil
	}

	ws, err := solana.NewWSClient(ctx, cfg.WSEndpoint, nil, a.Logger)
	if err != nil {
		// Confirmation still works by polling.
		a.Logger.Warn("websocket unavailable", zap.String("endpoint", cfg.WSEndpoint), zap.Error(err))
		return solana.NewClient(rpc, nil, a.Logger), nil
	}
	a.closers = append(a.closers, func() { _ = ws.Close() })
	return solana.NewClient(rpc, ws, a.Logger), nil
}
