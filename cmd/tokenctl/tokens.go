package main

import (
	"context"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"spl-token-creator/internal/domain"
)

func newTokensCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens",
		Short: "List tokens whose mint authority the wallet still holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			tokens, err := listTokens(ctx, cmd, root)
			if err != nil {
				return err
			}
			renderTokens(cmd.OutOrStdout(), tokens)
			return nil
		},
	}
}

func listTokens(ctx context.Context, cmd *cobra.Command, root *rootOptions) ([]domain.TokenSummary, error) {
	a, err := root.loadApp(ctx, cmd)
	if err != nil {
		return nil, err
	}
	defer a.Close()
	return a.Revoker.ListOwnedTokens(ctx)
}

func renderTokens(w io.Writer, tokens []domain.TokenSummary) {
	if len(tokens) == 0 {
		fmt.Fprintln(w, "No tokens with mint authority found.")
		return
	}
	table := tablewriter.NewWriter(w)
	table.Header("Name", "Mint", "Token Account", "Amount")
	for _, t := range tokens {
		_ = table.Append([]string{t.Name, t.Mint, t.Address, t.Amount})
	}
	_ = table.Render()
}
