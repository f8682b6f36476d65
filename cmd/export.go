package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dqlens-cli/internal/report"
)

var (
	exportView viewFlags
	exportOut  string
)

var exportCmd = &cobra.Command{
	Use:   "export <kind>",
	Short: "Write a view and its statistics to an XLSX workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportOut == "" {
			return fmt.Errorf("--output is required")
		}
		if !strings.EqualFold(filepath.Ext(exportOut), ".xlsx") {
			return fmt.Errorf("output must be an .xlsx file: %s", exportOut)
		}
		d, _, rows, err := resolveView(args[0], exportView)
		if err != nil {
			return err
		}
		if err := report.WriteXLSX(exportOut, d, rows); err != nil {
			return err
		}
		logger.Debug().Str("kind", string(d.Kind)).Str("path", exportOut).Int("rows", len(rows)).Msg("workbook written")
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d of %d records to %s\n", len(rows), d.Len(), exportOut)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportView.bind(exportCmd)
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "workbook path (.xlsx)")
}
