package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dqlens-cli/internal/dataset"
	"github.com/KaramelBytes/dqlens-cli/internal/query"
	"github.com/KaramelBytes/dqlens-cli/internal/report"
)

var (
	showView   viewFlags
	showFormat string
	showLimit  int

	inspectView   viewFlags
	inspectFormat string
)

var showCmd = &cobra.Command{
	Use:   "show <kind>",
	Short: "Search, filter and sort the records of one dataset",
	Long: `Show renders the records of one dataset after applying search, filters and sort.

Kinds: schema-change (new-old-delete), name-mismatch (column-name-mismatch),
dtype-mismatch (column-dtype).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(showFormat)
		if err != nil {
			return err
		}
		d, st, rows, err := resolveView(args[0], showView)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if format == "json" {
			return writeJSON(out, struct {
				Kind  dataset.Kind     `json:"kind"`
				State query.State      `json:"state"`
				Total int              `json:"total"`
				Shown int              `json:"shown"`
				Rows  []map[string]any `json:"rows"`
			}{d.Kind, st, d.Len(), len(rows), report.RowsValue(rows)})
		}
		limit := showLimit
		if !cmd.Flags().Changed("limit") && cfg != nil {
			limit = cfg.RowLimit
		}
		width := 0
		if cfg != nil {
			width = cfg.MaxCellWidth
		}
		fmt.Fprint(out, report.Table(d, rows, report.TableOptions{Limit: limit, MaxCellWidth: width}))
		return nil
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <kind> <n>",
	Short: "Show every field of the n-th record of a view",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(inspectFormat)
		if err != nil {
			return err
		}
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid record number: %s (must be >= 1)", args[1])
		}
		d, _, rows, err := resolveView(args[0], inspectView)
		if err != nil {
			return err
		}
		if n > len(rows) {
			return fmt.Errorf("record %d out of range: view has %d records", n, len(rows))
		}
		out := cmd.OutOrStdout()
		if format == "json" {
			return writeJSON(out, report.RowsValue(rows[n-1:n])[0])
		}
		fmt.Fprint(out, report.Detail(d, rows[n-1], n))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showView.bind(showCmd)
	showCmd.Flags().StringVar(&showFormat, "format", "", "output format: markdown|json (default from config)")
	showCmd.Flags().IntVarP(&showLimit, "limit", "n", 0, "max rows to render (0 = all)")

	rootCmd.AddCommand(inspectCmd)
	inspectView.bind(inspectCmd)
	inspectCmd.Flags().StringVar(&inspectFormat, "format", "", "output format: markdown|json (default from config)")
}
