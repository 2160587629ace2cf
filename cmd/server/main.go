// Package main runs the token creator HTTP service:
// - API: token creation, fees, owned tokens, mint authority revocation
// - Status: current status and a websocket stream of transitions
// - History: run reports and receipts, status events recorded in the background
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"spl-token-creator/internal/api"
	"spl-token-creator/internal/app"
	"spl-token-creator/internal/config"
	"spl-token-creator/internal/logging"
	"spl-token-creator/internal/solana"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	flags := pflag.NewFlagSet("server", pflag.ExitOnError)
	configFile := flags.String("config", "", "Config file (yaml, toml or json)")
	flags.String("rpc-endpoint", "", "Solana RPC HTTP endpoint")
	flags.String("ws-endpoint", "", "Solana WebSocket endpoint")
	flags.String("keypair", "", "Path to the signing keypair JSON file")
	flags.String("postgres-dsn", "", "PostgreSQL connection string")
	flags.String("clickhouse-dsn", "", "ClickHouse connection string")
	flags.Bool("use-memory", true, "Use in-memory storage instead of PostgreSQL and ClickHouse")
	flags.String("addr", ":8080", "HTTP listen address")
	flags.String("log-level", "info", "Log level")
	flags.Bool("log-development", false, "Human readable logs")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return err
	}

	cfg, err := config.Load(*configFile, flags)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger, solana.AutoApprove)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	defer a.Close()

	srv := api.NewServer(api.Options{
		Collector:   a.Collector,
		Revoker:     a.Revoker,
		Reporter:    a.Reporter,
		Reports:     a.Reports,
		Verifier:    a.Verifier,
		Fees:        a.Fees,
		Wallet:      a.Wallet,
		Logger:      logger,
		BaseContext: ctx,
	})
	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.Recorder.Run(gctx)
	})

	g.Go(func() error {
		logger.Info("http server listening", zap.String("addr", cfg.Server.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}
