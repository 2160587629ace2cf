package main

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newFeesCmd(root *rootOptions) *cobra.Command {
	var revokeFreeze, revokeMint bool
	cmd := &cobra.Command{
		Use:   "fees",
		Short: "Show the cost of creating a token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}
			policy, err := cfg.FeePolicy()
			if err != nil {
				return err
			}
			fs := policy.Schedule(revokeFreeze, revokeMint)

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("Item", "SOL")
			_ = table.Append([]string{"Base cost", fs.BaseCost.String()})
			_ = table.Append([]string{"Revoke freeze authority", fs.RevokeFreeze.String()})
			_ = table.Append([]string{"Revoke mint authority", fs.RevokeMint.String()})
			_ = table.Append([]string{"Total", fs.Total().String()})
			_ = table.Append([]string{"Network fee buffer", fs.NetworkFeeBuffer.String()})
			_ = table.Render()

			fmt.Fprintf(cmd.OutOrStdout(), "Required balance: %d lamports\n", fs.RequiredLamports())
			return nil
		},
	}
	cmd.Flags().BoolVar(&revokeFreeze, "revoke-freeze", true, "include freeze authority revocation")
	cmd.Flags().BoolVar(&revokeMint, "revoke-mint", false, "include mint authority revocation")
	return cmd
}
