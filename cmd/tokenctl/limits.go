package main

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"spl-token-creator/internal/domain"
)

// maxListedDecimals is the largest decimals value shown by limits.
const maxListedDecimals = 9

func newLimitsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "limits",
		Short: "Show the largest mintable supply per decimals",
		Long: `Show the largest supply that fits the 64-bit base unit amount for each
decimals value. Larger supplies are accepted by create but fail when minting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("Decimals", "Max Supply")
			for d := 0; d <= maxListedDecimals; d++ {
				_ = table.Append([]string{fmt.Sprint(d), domain.MaxSupply(uint8(d)).StringFixed(0)})
			}
			_ = table.Render()
			return nil
		},
	}
}
