package main

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"spl-token-creator/internal/verification"
)

func newVerifyCmd(root *rootOptions) *cobra.Command {
	var (
		owner string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "verify [run-id]",
		Short: "Compare recorded runs with the current chain state",
		Long: `Check that each created token still looks the way its run left it: the mint
exists, the mint authority is held or revoked as requested, the metadata
account exists and the owner holds the minted supply. Only steps the run
completed are checked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := root.loadApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				result, err := a.Verifier.VerifyRun(ctx, args[0])
				if err != nil {
					return err
				}
				renderVerification(out, []verification.VerificationResult{*result})
				return nil
			}

			if owner == "" {
				owner = a.Wallet.PublicKey().ToBase58()
			}
			report, err := a.Verifier.VerifyAll(ctx, owner, limit)
			if err != nil {
				return err
			}
			renderVerification(out, report.Results)
			fmt.Fprintf(out, "%d runs: %d matched, %d divergent, %d skipped\n",
				report.TotalRuns, report.MatchedRuns, report.DivergentRuns, report.SkippedRuns)
			return nil
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "owner address (defaults to the wallet)")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of runs")
	return cmd
}

func renderVerification(w io.Writer, results []verification.VerificationResult) {
	table := tablewriter.NewWriter(w)
	table.Header("Run", "Mint", "Result", "Field", "Expected", "Actual")
	for _, r := range results {
		if r.Match {
			_ = table.Append([]string{r.RunID, r.Mint, "ok", "", "", ""})
			continue
		}
		for _, d := range r.Divergences {
			_ = table.Append([]string{
				r.RunID, r.Mint, "diverged", d.Field,
				fmt.Sprint(d.Expected), fmt.Sprint(d.Actual),
			})
		}
	}
	_ = table.Render()
}
