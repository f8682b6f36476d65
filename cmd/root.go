package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/dqlens-cli/internal/config"
	"github.com/KaramelBytes/dqlens-cli/internal/dataset"
	"github.com/KaramelBytes/dqlens-cli/internal/ingest"
	"github.com/KaramelBytes/dqlens-cli/internal/logging"
)

var (
	// Global flags (override config if set)
	cfgFile string
	debug   bool

	flagDataDir           string
	flagSchemaChangeFile  string
	flagNameMismatchFile  string
	flagDtypeMismatchFile string

	// Loaded configuration
	cfg    *cfgpkg.Global
	logger = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "dqlens",
	Short: "dqlens: search, filter and summarize data-quality finding reports",
	Long: `dqlens reads the schema-change, column-name-mismatch and column-dtype-mismatch
reports produced by data-quality checks and turns them into filtered, sorted
views and per-schema summary statistics.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ~/.dqlens/config.yaml)")
	pf.BoolVar(&debug, "debug", false, "enable debug output")
	pf.StringVar(&flagDataDir, "data-dir", "", "directory holding the report files (overrides config)")
	pf.StringVar(&flagSchemaChangeFile, "schema-change-file", "", "schema-change report file (overrides config)")
	pf.StringVar(&flagNameMismatchFile, "name-mismatch-file", "", "column-name-mismatch report file (overrides config)")
	pf.StringVar(&flagDtypeMismatchFile, "dtype-mismatch-file", "", "column-dtype-mismatch report file (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{OutputFormat: "markdown", DecimalSeparator: "auto"}
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("data-dir") {
		cfg.DataDir = flagDataDir
	}
	if f.Changed("schema-change-file") {
		cfg.SchemaChangeFile = flagSchemaChangeFile
	}
	if f.Changed("name-mismatch-file") {
		cfg.NameMismatchFile = flagNameMismatchFile
	}
	if f.Changed("dtype-mismatch-file") {
		cfg.DtypeMismatchFile = flagDtypeMismatchFile
	}

	logger = logging.Setup(os.Stderr, cfg.LogLevel, debug)
}

// ingestOptions maps the decoding config onto ingest.Options.
func ingestOptions() (ingest.Options, error) {
	opt := ingest.DefaultOptions()
	if cfg == nil {
		return opt, nil
	}
	switch strings.ToLower(cfg.Delimiter) {
	case "":
	case ",", "comma":
		opt.Delimiter = ','
	case ";", "semicolon":
		opt.Delimiter = ';'
	case "\t", "tab":
		opt.Delimiter = '\t'
	default:
		return opt, fmt.Errorf("unsupported delimiter: %s (use ',' | ';' | 'tab')", cfg.Delimiter)
	}
	switch strings.ToLower(strings.TrimSpace(cfg.DecimalSeparator)) {
	case "", "auto":
		opt.DecimalSeparator = 0
	case ".", "dot":
		opt.DecimalSeparator = '.'
	case ",", "comma":
		opt.DecimalSeparator = ','
	default:
		return opt, fmt.Errorf("unsupported decimal_separator: %s (use 'auto'|'.'|'comma')", cfg.DecimalSeparator)
	}
	switch strings.ToLower(cfg.ThousandsSeparator) {
	case "":
	case ",":
		opt.ThousandsSeparator = ','
	case ".":
		opt.ThousandsSeparator = '.'
	case "space", " ":
		opt.ThousandsSeparator = ' '
	default:
		return opt, fmt.Errorf("unsupported thousands_separator: %s (use ','|'.'|'space')", cfg.ThousandsSeparator)
	}
	opt.SheetName = cfg.SheetName
	return opt, nil
}

// sources lists the configured report file of every kind, with override
// replacing the file of one kind when set.
func sources(override dataset.Kind, file string) []ingest.Source {
	c := cfg
	if c == nil {
		c = &cfgpkg.Global{}
	}
	out := make([]ingest.Source, 0, len(dataset.Kinds))
	for _, k := range dataset.Kinds {
		p := c.SourcePath(k)
		if k == override && file != "" {
			p = file
		}
		out = append(out, ingest.Source{Kind: k, Path: p})
	}
	return out
}

// loadStore builds a store from the configured sources. Sources that fail
// to load leave their kind empty and are reported as warnings.
func loadStore(override dataset.Kind, file string) (*dataset.Store, []ingest.Result, error) {
	opt, err := ingestOptions()
	if err != nil {
		return nil, nil, err
	}
	store := dataset.NewStore()
	results := ingest.LoadAll(store, sources(override, file), opt, logger)
	// An explicitly requested file must load.
	if file != "" {
		for _, r := range results {
			if r.Source.Kind == override && r.Err != nil {
				return nil, results, fmt.Errorf("load %s: %w", file, r.Err)
			}
		}
	}
	return store, results, nil
}
