package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"spl-token-creator/internal/reporting"
)

func newHistoryCmd(root *rootOptions) *cobra.Command {
	var (
		owner  string
		limit  int
		format string
	)
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show past token creation runs",
		Long: `Show past token creation runs of the wallet, or the receipt of a single run
when a run id is given. Output formats: markdown, csv, json.`,
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
				receipt, err := a.Reports.Receipt(ctx, args[0])
				if err != nil {
					return err
				}
				if format == "json" {
					return writeJSON(cmd, receipt)
				}
				fmt.Fprint(out, reporting.RenderReceiptMarkdown(receipt))
				return nil
			}

			if owner == "" {
				owner = a.Wallet.PublicKey().ToBase58()
			}
			report, err := a.Reports.Generate(ctx, owner, limit)
			if err != nil {
				return err
			}
			switch format {
			case "csv":
				fmt.Fprint(out, reporting.RenderCSV(report.Runs))
			case "json":
				return writeJSON(cmd, report)
			default:
				fmt.Fprint(out, reporting.RenderMarkdown(report))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "owner address (defaults to the wallet)")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of runs")
	cmd.Flags().StringVar(&format, "format", "markdown", "output format: markdown, csv or json")
	return cmd
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
