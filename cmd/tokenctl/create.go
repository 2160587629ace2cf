package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"spl-token-creator/internal/domain"
)

type createOptions struct {
	name        string
	symbol      string
	decimals    uint8
	supply      string
	imagePath   string
	description string
	website     string
	twitter     string
	telegram    string
	discord     string

	revokeFreeze bool
	revokeMint   bool
}

func newCreateCmd(root *rootOptions) *cobra.Command {
	opts := &createOptions{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new SPL token with metadata",
		Long: `Create a new SPL token. The image and metadata are pinned to IPFS, then
the mint, the associated token account, the initial supply and the metadata
account are created in separate transactions. Freeze and mint authorities can
be revoked as part of the run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := opts.request()
			if err != nil {
				return err
			}
			if err := req.Validate(); err != nil {
				return err
			}
			return runCreate(cmd.Context(), cmd, root, req)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.name, "name", "", "token name")
	f.StringVar(&opts.symbol, "symbol", "", "token symbol")
	f.Uint8Var(&opts.decimals, "decimals", domain.DefaultDecimals, "decimal places")
	f.StringVar(&opts.supply, "supply", fmt.Sprint(domain.DefaultSupply), "initial supply in whole tokens")
	f.StringVar(&opts.imagePath, "image", "", "path to the token image")
	f.StringVar(&opts.description, "description", "", "token description")
	f.StringVar(&opts.website, "website", "", "website URL")
	f.StringVar(&opts.twitter, "twitter", "", "twitter URL")
	f.StringVar(&opts.telegram, "telegram", "", "telegram URL")
	f.StringVar(&opts.discord, "discord", "", "discord URL")
	f.BoolVar(&opts.revokeFreeze, "revoke-freeze", true, "revoke the freeze authority")
	f.BoolVar(&opts.revokeMint, "revoke-mint", false, "revoke the mint authority")
	return cmd
}

// request builds the creation request from flags. Missing required values
// are reported by Validate.
func (o *createOptions) request() (domain.TokenCreationRequest, error) {
	req := domain.NewTokenCreationRequest()
	req.Name = o.name
	req.Symbol = o.symbol
	req.Decimals = o.decimals
	req.Description = o.description
	req.Website = o.website
	req.Twitter = o.twitter
	req.Telegram = o.telegram
	req.Discord = o.discord
	req.RevokeFreeze = o.revokeFreeze
	req.RevokeMint = o.revokeMint

	supply, err := decimal.NewFromString(o.supply)
	if err != nil {
		return req, fmt.Errorf("invalid supply %q", o.supply)
	}
	req.Supply = supply

	if o.imagePath != "" {
		data, err := os.ReadFile(o.imagePath)
		if err != nil {
			return req, fmt.Errorf("read image: %w", err)
		}
		req.Image = domain.Image{Filename: filepath.Base(o.imagePath), Data: data}
	}
	return req, nil
}

func runCreate(ctx context.Context, cmd *cobra.Command, root *rootOptions, req domain.TokenCreationRequest) error {
	a, err := root.loadApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	recorded := a.Recorder.Start(ctx)

	updates, unsubscribe := a.Reporter.Subscribe()
	defer unsubscribe()
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		printStatuses(cmd.OutOrStdout(), updates)
	}()

	run, err := a.Collector.Submit(ctx, req)

	// Closing the reporter ends both subscriptions once they are drained.
	a.Reporter.Close()
	<-printed
	if rerr := <-recorded; rerr != nil {
		a.Logger.Warn("status recorder stopped", zap.Error(rerr))
	}

	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nmint:     %s\n", run.Mint)
	fmt.Fprintf(out, "run id:   %s\n", run.RunID)
	fmt.Fprintf(out, "metadata: %s\n", run.MetadataURL)
	return nil
}

// printStatuses writes each non-idle status until updates is closed.
func printStatuses(w io.Writer, updates <-chan domain.Status) {
	for st := range updates {
		if st.Kind == domain.StatusIdle {
			continue
		}
		fmt.Fprintf(w, "[%s] %s\n", st.Kind, st.Message)
	}
}
