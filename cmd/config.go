package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/dqlens-cli/internal/config"
	"github.com/KaramelBytes/dqlens-cli/internal/dataset"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set dqlens configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "data_dir: %s\n", cfg.DataDir)
		for _, k := range dataset.Kinds {
			fmt.Fprintf(out, "%s: %s\n", fileKey(k), cfg.SourcePath(k))
		}
		if cfg.Delimiter != "" {
			fmt.Fprintf(out, "delimiter: %q\n", cfg.Delimiter)
		}
		fmt.Fprintf(out, "decimal_separator: %s\n", cfg.DecimalSeparator)
		if cfg.ThousandsSeparator != "" {
			fmt.Fprintf(out, "thousands_separator: %q\n", cfg.ThousandsSeparator)
		}
		if cfg.SheetName != "" {
			fmt.Fprintf(out, "sheet_name: %s\n", cfg.SheetName)
		}
		fmt.Fprintf(out, "output_format: %s\n", cfg.OutputFormat)
		fmt.Fprintf(out, "max_cell_width: %d\n", cfg.MaxCellWidth)
		fmt.Fprintf(out, "row_limit: %d\n", cfg.RowLimit)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "data_dir":
			cfg.DataDir = val
		case "schema_change_file":
			cfg.SetSourceFile(dataset.SchemaChange, val)
		case "name_mismatch_file":
			cfg.SetSourceFile(dataset.NameMismatch, val)
		case "dtype_mismatch_file":
			cfg.SetSourceFile(dataset.DtypeMismatch, val)
		case "delimiter":
			switch strings.ToLower(val) {
			case ",", "comma", ";", "semicolon", "tab", "":
				cfg.Delimiter = val
			default:
				return fmt.Errorf("invalid delimiter: %s (use ',' | ';' | 'tab')", val)
			}
		case "decimal_separator":
			switch strings.ToLower(val) {
			case "auto", "":
				cfg.DecimalSeparator = "auto"
			case ".", "dot":
				cfg.DecimalSeparator = "."
			case ",", "comma":
				cfg.DecimalSeparator = ","
			default:
				return fmt.Errorf("invalid decimal_separator: %s (use 'auto'|'.'|'comma')", val)
			}
		case "thousands_separator":
			switch strings.ToLower(val) {
			case ",", ".", "space", "":
				cfg.ThousandsSeparator = val
			default:
				return fmt.Errorf("invalid thousands_separator: %s (use ','|'.'|'space')", val)
			}
		case "sheet_name":
			cfg.SheetName = val
		case "output_format":
			f, err := outputFormat(val)
			if err != nil {
				return err
			}
			cfg.OutputFormat = f
		case "max_cell_width":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for max_cell_width: %v", val)
			}
			cfg.MaxCellWidth = i
		case "row_limit":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for row_limit: %v", val)
			}
			cfg.RowLimit = i
		case "log_level":
			switch strings.ToLower(val) {
			case "debug", "info", "warn", "error":
				cfg.LogLevel = strings.ToLower(val)
			default:
				return fmt.Errorf("invalid log_level: %s (use debug|info|warn|error)", val)
			}
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func fileKey(k dataset.Kind) string {
	switch k {
	case dataset.SchemaChange:
		return "schema_change_file"
	case dataset.NameMismatch:
		return "name_mismatch_file"
	case dataset.DtypeMismatch:
		return "dtype_mismatch_file"
	}
	return string(k)
}
