package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"spl-token-creator/internal/app"
	"spl-token-creator/internal/config"
	"spl-token-creator/internal/logging"
	"spl-token-creator/internal/solana"
)

type rootOptions struct {
	configFile string
	yes        bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "tokenctl",
		Short:         "Create SPL tokens and manage their authorities",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "config file (yaml, toml or json)")
	pf.BoolVarP(&opts.yes, "yes", "y", false, "sign every transaction without asking")
	pf.String("rpc-endpoint", "", "Solana RPC HTTP endpoint")
	pf.String("ws-endpoint", "", "Solana WebSocket endpoint")
	pf.String("keypair", "", "path to the signing keypair JSON file")
	pf.String("postgres-dsn", "", "PostgreSQL connection string")
	pf.String("clickhouse-dsn", "", "ClickHouse connection string")
	pf.Bool("use-memory", true, "keep run history in memory only")
	pf.String("log-level", "warn", "log level")
	pf.Bool("log-development", false, "human readable logs")

	cmd.AddCommand(
		newCreateCmd(opts),
		newTokensCmd(opts),
		newRevokeCmd(opts),
		newFeesCmd(opts),
		newHistoryCmd(opts),
		newVerifyCmd(opts),
		newLimitsCmd(),
		newKeygenCmd(),
	)
	return cmd
}

// loadConfig reads the configuration with cmd's flags taking precedence.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(o.configFile, cmd.Flags())
}

// loadApp builds the full application. The caller must Close it.
func (o *rootOptions) loadApp(ctx context.Context, cmd *cobra.Command) (*app.App, error) {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, err
	}

	var approver solana.Approver = newPromptApprover()
	if o.yes {
		approver = solana.AutoApprove
	}

	a, err := app.New(ctx, cfg, logger, approver)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	if !a.Wallet.Connected() {
		a.Close()
		return nil, fmt.Errorf("%w: set --keypair or wallet.keypair_path", solana.ErrWalletNotConnected)
	}
	logger.Debug("wallet connected", zap.String("address", a.Wallet.PublicKey().ToBase58()))
	return a, nil
}
