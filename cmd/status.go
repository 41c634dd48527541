package main

import (
	"github.com/spf13/cobra"

	"github.com/pitchintel/brief-cli/internal/monitoring"
)

var statusLookbackHours int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show brief generation metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		snap, err := monitoring.NewCollector(st).Collect(ctx, statusLookbackHours)
		if err != nil {
			return err
		}
		return printJSON(snap)
	},
}

func init() {
	statusCmd.Flags().IntVar(&statusLookbackHours, "lookback-hours", 0, "restrict metrics to briefs created in the last N hours (0 = all)")
	rootCmd.AddCommand(statusCmd)
}
