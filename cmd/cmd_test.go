package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/KaramelBytes/dqlens-cli/internal/dataset"
	"github.com/KaramelBytes/dqlens-cli/internal/ingest"
)

const (
	schemaChangeCSV = "schema_name,table_name,new_columns_count,new_columns_name,deleted_columns_count,deleted_columns_name\n" +
		"SALES,orders,2,a|b,0,\n" +
		"SALES,SALES_FACT,0,,1,old_col\n" +
		"HR,people,,,,\n"
	nameMismatchFixture = "schema_name,table_name,column_count,column_name_mismatch_count,percent_column_name_mismatch\n" +
		"SALES,orders,10,2,20\n" +
		"SALES,SALES_FACT,8,0,0\n" +
		"HR,people,5,3,60\n"
)

// resetFlags restores every flag to its default so state does not leak
// between invocations of the shared rootCmd.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execCmd(args ...string) (string, error) {
	resetFlags(rootCmd)
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execCmd(args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

// setupData points HOME at a temp dir and writes the schema-change and
// name-mismatch reports; the dtype report is left missing.
func setupData(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, "reports")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	files := map[string]string{
		"new_old_delete.csv":       schemaChangeCSV,
		"column_name_mismatch.csv": nameMismatchFixture,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestShowSearchAndSort(t *testing.T) {
	dir := setupData(t)
	out := runCmd(t, "show", "new-old-delete", "--data-dir", dir, "--search", "sal", "--sort", "table_name", "--desc")
	if !strings.Contains(out, "Showing 2 of 3 records") {
		t.Fatalf("missing record count:\n%s", out)
	}
	i, j := strings.Index(out, "| orders |"), strings.Index(out, "| SALES_FACT |")
	if i < 0 || j < 0 || i > j {
		t.Fatalf("expected orders before SALES_FACT in descending order:\n%s", out)
	}
	if strings.Contains(out, "people") {
		t.Fatalf("search should exclude HR rows:\n%s", out)
	}
}

func TestShowJSONWithDeletedFilter(t *testing.T) {
	dir := setupData(t)
	out := runCmd(t, "show", "schema-change", "--data-dir", dir, "--has-deleted", "true", "--format", "json")
	var got struct {
		Total int              `json:"total"`
		Shown int              `json:"shown"`
		Rows  []map[string]any `json:"rows"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if got.Total != 3 || got.Shown != 1 || got.Rows[0]["table_name"] != "SALES_FACT" {
		t.Fatalf("unexpected view: %+v", got)
	}
}

func TestShowLimitAndRange(t *testing.T) {
	dir := setupData(t)
	out := runCmd(t, "show", "name-mismatch", "--data-dir", dir, "--range", "75")
	if !strings.Contains(out, "Showing 1 of 3 records") || !strings.Contains(out, "| HR | people |") {
		t.Fatalf("range 75 should keep only the 60%% row:\n%s", out)
	}
	out = runCmd(t, "show", "name-mismatch", "--data-dir", dir, "--limit", "1")
	if !strings.Contains(out, "(2 more rows not shown") {
		t.Fatalf("limit note missing:\n%s", out)
	}
}

func TestShowRejectsBadInput(t *testing.T) {
	dir := setupData(t)
	if _, err := execCmd("show", "bogus", "--data-dir", dir); !errors.Is(err, dataset.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
	if _, err := execCmd("show", "name-mismatch", "--data-dir", dir, "--range", "33"); err == nil {
		t.Fatalf("expected invalid range error")
	}
	if _, err := execCmd("show", "name-mismatch", "--data-dir", dir, "--format", "yaml"); err == nil {
		t.Fatalf("expected invalid format error")
	}
}

func TestInspect(t *testing.T) {
	dir := setupData(t)
	out := runCmd(t, "inspect", "schema-change", "2", "--data-dir", dir, "--schema", "SALES")
	for _, want := range []string{"RECORD 2", "- table_name: SALES_FACT", "- deleted_columns_name: old_col", "- new_columns_name: -"} {
		if !strings.Contains(out, want) {
			t.Fatalf("inspect missing %q:\n%s", want, out)
		}
	}
	if _, err := execCmd("inspect", "schema-change", "4", "--data-dir", dir); err == nil {
		t.Fatalf("expected out of range error")
	}
}

func TestSummaryAndSoftFail(t *testing.T) {
	dir := setupData(t)
	out := runCmd(t, "summary", "name-mismatch", "--data-dir", dir)
	for _, want := range []string{"Tables with mismatches: 2 (66.7% of total tables)", "| 51-75% | 1 | 33.3% |"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}

	// The dtype report is missing: the kind is empty, not an error.
	out = runCmd(t, "summary", "dtype-mismatch", "--data-dir", dir)
	if !strings.Contains(out, "Total tables: 0") {
		t.Fatalf("missing source should summarize as empty:\n%s", out)
	}
	// An explicit --file must exist.
	if _, err := execCmd("summary", "dtype-mismatch", "--data-dir", dir, "--file", filepath.Join(dir, "nope.csv")); err == nil {
		t.Fatalf("expected error for missing --file")
	}
}

func TestShowDecimalCommaPercentages(t *testing.T) {
	dir := setupData(t)
	body := "schema_name,table_name,column_name_mismatch_count,percent_column_name_mismatch\n" +
		"EU,orders,1,\"12,5\"\n" +
		"EU,lines,3,\"80,0\"\n"
	if err := os.WriteFile(filepath.Join(dir, "column_name_mismatch.csv"), []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := runCmd(t, "show", "name-mismatch", "--data-dir", dir, "--range", "25")
	if !strings.Contains(out, "Showing 1 of 2 records") || !strings.Contains(out, "| EU | orders |") {
		t.Fatalf("12,5 should fall in the 1-25%% bucket:\n%s", out)
	}
	if _, err := execCmd("config", "set", "decimal_separator", "semicolon"); err == nil {
		t.Fatalf("expected invalid decimal_separator error")
	}
}

func TestSummaryJSONEmpty(t *testing.T) {
	dir := setupData(t)
	out := runCmd(t, "summary", "dtype-mismatch", "--data-dir", dir, "--format", "json")
	if !strings.Contains(out, `"chartData": []`) || !strings.Contains(out, `"stats": null`) {
		t.Fatalf("unexpected empty summary json:\n%s", out)
	}
}

func TestSchemasCatalog(t *testing.T) {
	dir := setupData(t)
	out := runCmd(t, "schemas", "schema-change", "--data-dir", dir, "--format", "json")
	var got []string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if len(got) != 2 || got[0] != "SALES" || got[1] != "HR" {
		t.Fatalf("unexpected schemas: %v", got)
	}
}

func TestOverview(t *testing.T) {
	dir := setupData(t)
	out := runCmd(t, "overview", "--data-dir", dir)
	for _, want := range []string{
		"[DATA QUALITY OVERVIEW]",
		"- Schema Changes: 3 records (from ",
		"- Column Data Type Mismatches: 0 records",
		"⚠ Column Data Type Mismatches not loaded",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("overview missing %q:\n%s", want, out)
		}
	}
}

func TestFileOverride(t *testing.T) {
	dir := setupData(t)
	alt := filepath.Join(dir, "upload.csv")
	if err := os.WriteFile(alt, []byte("schema_name,table_name,new_columns_count\nOPS,jobs,4\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := runCmd(t, "show", "schema-change", "--data-dir", dir, "--file", alt)
	if !strings.Contains(out, "Showing 1 of 1 records") || !strings.Contains(out, "| OPS | jobs | 4 |") {
		t.Fatalf("file override not applied:\n%s", out)
	}
}

func TestExportXLSX(t *testing.T) {
	dir := setupData(t)
	dest := filepath.Join(dir, "out", "schema.xlsx")
	out := runCmd(t, "export", "schema-change", "--data-dir", dir, "-o", dest, "--schema", "SALES")
	if !strings.Contains(out, "Exported 2 of 3 records") {
		t.Fatalf("unexpected export output: %s", out)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("workbook not written: %v", err)
	}
	if _, err := execCmd("export", "schema-change", "--data-dir", dir, "-o", filepath.Join(dir, "x.csv")); err == nil {
		t.Fatalf("expected error for non-xlsx output")
	}
}

func TestConfigSetAndShow(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	runCmd(t, "config", "set", "row_limit", "5")
	runCmd(t, "config", "set", "data_dir", "/srv/dq")
	if _, err := os.Stat(filepath.Join(home, ".dqlens", "config.yaml")); err != nil {
		t.Fatalf("config not saved: %v", err)
	}
	out := runCmd(t, "config", "show")
	for _, want := range []string{"row_limit: 5", "data_dir: /srv/dq", "schema_change_file: /srv/dq/new_old_delete.csv"} {
		if !strings.Contains(out, want) {
			t.Fatalf("config show missing %q:\n%s", want, out)
		}
	}
	if _, err := execCmd("config", "set", "nope", "1"); err == nil {
		t.Fatalf("expected unknown key error")
	}
	if _, err := execCmd("config", "set", "log_level", "loud"); err == nil {
		t.Fatalf("expected invalid log_level error")
	}
}

func TestWatchSourcesReloadsChangedKind(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "new_old_delete.csv")
	if err := os.WriteFile(p, []byte(schemaChangeCSV), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	srcs := []ingest.Source{
		{Kind: dataset.SchemaChange, Path: p},
		{Kind: dataset.NameMismatch, Path: filepath.Join(dir, "column_name_mismatch.csv")},
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	counts := make(chan int, 16)
	done := make(chan error, 1)
	go func() {
		done <- watchSources(ctx, dataset.NewStore(), srcs, ingest.DefaultOptions(), 20*time.Millisecond, func(s dataset.Snapshot) {
			counts <- s.Datasets[dataset.SchemaChange].Len()
		})
	}()

	timeout := time.After(5 * time.Second)
	select {
	case n := <-counts:
		if n != 3 {
			t.Fatalf("initial load = %d rows, want 3", n)
		}
	case <-timeout:
		t.Fatalf("no initial render")
	}

	if err := os.WriteFile(p, []byte("schema_name,table_name\nOPS,jobs\n"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	for n := -1; n != 1; {
		select {
		case n = <-counts:
		case <-timeout:
			t.Fatalf("no render after change")
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("watch returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("watch did not stop")
	}
}
