package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dqlens-cli/internal/dataset"
	"github.com/KaramelBytes/dqlens-cli/internal/query"
	"github.com/KaramelBytes/dqlens-cli/internal/report"
)

var (
	summaryFile   string
	summaryFormat string

	schemasFile   string
	schemasFormat string
)

var summaryCmd = &cobra.Command{
	Use:   "summary <kind>",
	Short: "Show grouped statistics for one dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(summaryFormat)
		if err != nil {
			return err
		}
		d, err := loadDataset(args[0], summaryFile)
		if err != nil {
			return err
		}
		if format == "json" {
			return writeJSON(cmd.OutOrStdout(), report.SummaryValue(d))
		}
		fmt.Fprint(cmd.OutOrStdout(), report.Summary(d))
		return nil
	},
}

var schemasCmd = &cobra.Command{
	Use:   "schemas <kind>",
	Short: "List the distinct schema names of one dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(schemasFormat)
		if err != nil {
			return err
		}
		d, err := loadDataset(args[0], schemasFile)
		if err != nil {
			return err
		}
		schemas := query.UniqueSchemas(d)
		if format == "json" {
			return writeJSON(cmd.OutOrStdout(), schemas)
		}
		fmt.Fprint(cmd.OutOrStdout(), report.Catalog(d.Kind, schemas))
		return nil
	},
}

func loadDataset(kindArg, file string) (dataset.Dataset, error) {
	kind, err := dataset.ParseKind(kindArg)
	if err != nil {
		return dataset.Dataset{}, err
	}
	store, _, err := loadStore(kind, file)
	if err != nil {
		return dataset.Dataset{}, err
	}
	return store.Get(kind), nil
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().StringVarP(&summaryFile, "file", "f", "", "read this kind from the given file instead of the configured one")
	summaryCmd.Flags().StringVar(&summaryFormat, "format", "", "output format: markdown|json (default from config)")

	rootCmd.AddCommand(schemasCmd)
	schemasCmd.Flags().StringVarP(&schemasFile, "file", "f", "", "read this kind from the given file instead of the configured one")
	schemasCmd.Flags().StringVar(&schemasFormat, "format", "", "output format: markdown|json (default from config)")
}
