package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/dqlens-cli/internal/dataset"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.OutputFormat != "markdown" || c.MaxCellWidth != 40 || c.LogLevel != "info" || c.DecimalSeparator != "auto" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if got := c.SourcePath(dataset.NameMismatch); got != filepath.Join(".", "column_name_mismatch.csv") {
		t.Fatalf("SourcePath = %q", got)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "dqlens.yaml")
	body := "data_dir: /srv/reports\ndtype_mismatch_file: dtypes.tsv\nmax_cell_width: 12\n"
	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("DQLENS_OUTPUT_FORMAT", "json")

	c, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.MaxCellWidth != 12 || c.OutputFormat != "json" {
		t.Fatalf("file/env values not applied: %+v", c)
	}
	if got := c.SourcePath(dataset.DtypeMismatch); got != filepath.Join("/srv/reports", "dtypes.tsv") {
		t.Fatalf("SourcePath = %q", got)
	}
	c.SetSourceFile(dataset.SchemaChange, "/abs/changes.csv")
	if got := c.SourcePath(dataset.SchemaChange); got != "/abs/changes.csv" {
		t.Fatalf("absolute source should not be joined, got %q", got)
	}
}

func TestSaveThenLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c.DataDir = "/data/dq"
	c.RowLimit = 25
	if err := Save(c, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if back.DataDir != "/data/dq" || back.RowLimit != 25 {
		t.Fatalf("saved values not read back: %+v", back)
	}
}
