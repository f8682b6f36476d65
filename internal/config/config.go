package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/dqlens-cli/internal/dataset"
	"github.com/KaramelBytes/dqlens-cli/internal/utils"
)

// Global configuration structure.
type Global struct {
	// Source files, resolved against DataDir when relative.
	DataDir           string `mapstructure:"data_dir" yaml:"data_dir"`
	SchemaChangeFile  string `mapstructure:"schema_change_file" yaml:"schema_change_file"`
	NameMismatchFile  string `mapstructure:"name_mismatch_file" yaml:"name_mismatch_file"`
	DtypeMismatchFile string `mapstructure:"dtype_mismatch_file" yaml:"dtype_mismatch_file"`

	// Decoding
	Delimiter          string `mapstructure:"delimiter" yaml:"delimiter"`
	DecimalSeparator   string `mapstructure:"decimal_separator" yaml:"decimal_separator"`
	ThousandsSeparator string `mapstructure:"thousands_separator" yaml:"thousands_separator"`
	SheetName          string `mapstructure:"sheet_name" yaml:"sheet_name"`

	// Output
	OutputFormat string `mapstructure:"output_format" yaml:"output_format"`
	MaxCellWidth int    `mapstructure:"max_cell_width" yaml:"max_cell_width"`
	RowLimit     int    `mapstructure:"row_limit" yaml:"row_limit"`

	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// DefaultFile is the conventional file name for each kind.
func DefaultFile(kind dataset.Kind) string {
	switch kind {
	case dataset.SchemaChange:
		return "new_old_delete.csv"
	case dataset.NameMismatch:
		return "column_name_mismatch.csv"
	case dataset.DtypeMismatch:
		return "column_dtype.csv"
	}
	return ""
}

// SourcePath returns the configured file for kind, joined to DataDir when relative.
func (c *Global) SourcePath(kind dataset.Kind) string {
	var name string
	switch kind {
	case dataset.SchemaChange:
		name = c.SchemaChangeFile
	case dataset.NameMismatch:
		name = c.NameMismatchFile
	case dataset.DtypeMismatch:
		name = c.DtypeMismatchFile
	}
	if name == "" {
		name = DefaultFile(kind)
	}
	if filepath.IsAbs(name) || c.DataDir == "" {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

// SetSourceFile overrides the file for kind.
func (c *Global) SetSourceFile(kind dataset.Kind, name string) {
	switch kind {
	case dataset.SchemaChange:
		c.SchemaChangeFile = name
	case dataset.NameMismatch:
		c.NameMismatchFile = name
	case dataset.DtypeMismatch:
		c.DtypeMismatchFile = name
	}
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.dqlens/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".dqlens")
		if err := utils.EnsureDir(dir); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults; command flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("DQLENS")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data_dir", ".")
	v.SetDefault("schema_change_file", DefaultFile(dataset.SchemaChange))
	v.SetDefault("name_mismatch_file", DefaultFile(dataset.NameMismatch))
	v.SetDefault("dtype_mismatch_file", DefaultFile(dataset.DtypeMismatch))
	v.SetDefault("delimiter", "")
	v.SetDefault("decimal_separator", "auto")
	v.SetDefault("thousands_separator", "")
	v.SetDefault("sheet_name", "")
	v.SetDefault("output_format", "markdown")
	v.SetDefault("max_cell_width", 40)
	v.SetDefault("row_limit", 0)
	v.SetDefault("log_level", "info")

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, ".dqlens"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
