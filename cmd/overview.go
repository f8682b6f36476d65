package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dqlens-cli/internal/report"
)

var overviewFormat string

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show record counts and statistics for every dataset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(overviewFormat)
		if err != nil {
			return err
		}
		store, results, err := loadStore("", "")
		if err != nil {
			return err
		}
		snap := store.Snapshot()
		if format == "json" {
			return writeJSON(cmd.OutOrStdout(), report.NewOverviewValue(snap))
		}
		fmt.Fprint(cmd.OutOrStdout(), report.Overview(snap))
		for _, r := range results {
			if r.Err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "\n⚠ %s not loaded: %v\n", r.Source.Kind.Title(), r.Err)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(overviewCmd)
	overviewCmd.Flags().StringVar(&overviewFormat, "format", "", "output format: markdown|json (default from config)")
}
