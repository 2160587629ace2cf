package main

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"spl-token-creator/internal/domain"
)

func newRevokeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke [mint]",
		Short: "Revoke the mint authority of a token",
		Long: `Revoke the mint authority of a token so no further supply can be minted.
Without a mint address the tokens whose mint authority the wallet holds are
offered for selection.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := root.loadApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			var mint string
			if len(args) == 1 {
				mint = args[0]
			} else {
				tokens, err := a.Revoker.ListOwnedTokens(ctx)
				if err != nil {
					return err
				}
				mint, err = selectToken(tokens)
				if err != nil {
					return err
				}
			}

			remaining, err := a.Revoker.Revoke(ctx, mint)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, a.Reporter.Current().Message)
			renderTokens(out, remaining)
			return nil
		},
	}
}

// selectToken asks which token to revoke. An empty result means nothing was
// chosen; Revoke reports that to the user.
func selectToken(tokens []domain.TokenSummary) (string, error) {
	if len(tokens) == 0 {
		return "", nil
	}
	items := make([]string, len(tokens))
	for i, t := range tokens {
		items[i] = fmt.Sprintf("%s  %s  (%s)", t.Name, t.Mint, t.Amount)
	}
	idx, _, err := selectRunner(promptui.Select{
		Label: "Select a token",
		Items: items,
	})
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return "", nil
		}
		return "", err
	}
	return tokens[idx].Mint, nil
}
