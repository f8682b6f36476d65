// Package report renders query views and aggregate summaries as Markdown,
// JSON-ready values and XLSX workbooks.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/dqlens-cli/internal/aggregate"
	"github.com/KaramelBytes/dqlens-cli/internal/dataset"
)

// TableOptions controls Markdown table rendering.
type TableOptions struct {
	// Limit caps the rendered rows; 0 means all.
	Limit int
	// MaxCellWidth clips long cells; 0 means no clipping.
	MaxCellWidth int
}

// Table renders rows, the result of a query over d, as a Markdown table.
func Table(d dataset.Dataset, rows []dataset.Row, opt TableOptions) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s]\n", strings.ToUpper(d.Kind.Title())))
	b.WriteString(fmt.Sprintf("Showing %d of %d records\n", len(rows), d.Len()))
	if len(rows) == 0 {
		return b.String()
	}
	cols := d.Columns()
	b.WriteString("\n| # | ")
	b.WriteString(strings.Join(cols, " | "))
	b.WriteString(" |\n|---|")
	b.WriteString(strings.Repeat("---|", len(cols)))
	b.WriteString("\n")

	shown := rows
	if opt.Limit > 0 && len(shown) > opt.Limit {
		shown = shown[:opt.Limit]
	}
	for i, r := range shown {
		b.WriteString(fmt.Sprintf("| %d | ", i+1))
		for j, c := range cols {
			if j > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(clip(safeVal(r.Display(c)), opt.MaxCellWidth))
		}
		b.WriteString(" |\n")
	}
	if hidden := len(rows) - len(shown); hidden > 0 {
		b.WriteString(fmt.Sprintf("\n(%d more rows not shown; raise --limit to see them)\n", hidden))
	}
	return b.String()
}

// Detail renders every column of one row, absent values shown as "-".
func Detail(d dataset.Dataset, r dataset.Row, n int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s: RECORD %d]\n", strings.ToUpper(d.Kind.Title()), n))
	for _, c := range d.Columns() {
		if _, declared := d.Kind.FieldType(c); !declared && r.Get(c).IsNull() {
			continue
		}
		b.WriteString(fmt.Sprintf("- %s: %s\n", c, safeVal(r.Display(c))))
	}
	return b.String()
}

// Catalog renders the distinct schema names of a dataset.
func Catalog(kind dataset.Kind, schemas []string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s: SCHEMAS]\n", strings.ToUpper(kind.Title())))
	if len(schemas) == 0 {
		b.WriteString("(no schemas)\n")
		return b.String()
	}
	for _, s := range schemas {
		b.WriteString("- ")
		b.WriteString(safeVal(s))
		b.WriteString("\n")
	}
	return b.String()
}

// Summary renders the aggregate of d according to its kind.
func Summary(d dataset.Dataset) string {
	switch d.Kind {
	case dataset.SchemaChange:
		return SchemaChangeMarkdown(aggregate.SchemaChanges(d))
	case dataset.NameMismatch:
		return NameMismatchMarkdown(aggregate.NameMismatches(d))
	case dataset.DtypeMismatch:
		return DtypeMismatchMarkdown(aggregate.DtypeMismatches(d))
	}
	return ""
}

// SummaryValue returns the aggregate of d for JSON output.
func SummaryValue(d dataset.Dataset) any {
	switch d.Kind {
	case dataset.SchemaChange:
		return aggregate.SchemaChanges(d)
	case dataset.NameMismatch:
		return aggregate.NameMismatches(d)
	case dataset.DtypeMismatch:
		return aggregate.DtypeMismatches(d)
	}
	return nil
}

// SchemaChangeMarkdown renders schema-change totals and the per-schema table.
func SchemaChangeMarkdown(s aggregate.SchemaChangeSummary) string {
	var b strings.Builder
	b.WriteString("[SCHEMA CHANGES SUMMARY]\n")
	st := s.Stats
	if st == nil {
		st = &aggregate.SchemaChangeStats{}
	}
	b.WriteString(fmt.Sprintf("Total tables: %d\n", st.TotalTables))
	b.WriteString(fmt.Sprintf("Tables with new columns: %d (%.1f%% of total tables)\n",
		st.TablesWithNewColumns, aggregate.Share(st.TablesWithNewColumns, st.TotalTables)))
	b.WriteString(fmt.Sprintf("Tables with deleted columns: %d (%.1f%% of total tables)\n",
		st.TablesWithDeletedColumns, aggregate.Share(st.TablesWithDeletedColumns, st.TotalTables)))
	b.WriteString(fmt.Sprintf("New columns: %s\n", formatNum(st.TotalNewColumns)))
	b.WriteString(fmt.Sprintf("Deleted columns: %s\n", formatNum(st.TotalDeletedColumns)))
	if len(s.ChartData) > 0 {
		b.WriteString("\n[BY SCHEMA]\n")
		b.WriteString("| schema | new columns | deleted columns | tables |\n|---|---|---|---|\n")
		for _, p := range s.ChartData {
			b.WriteString(fmt.Sprintf("| %s | %s | %s | %d |\n",
				safeVal(p.Schema), formatNum(p.NewColumns), formatNum(p.DeletedColumns), p.Tables))
		}
	}
	return b.String()
}

// NameMismatchMarkdown renders name-mismatch totals and the bucket distribution.
func NameMismatchMarkdown(s aggregate.NameMismatchSummary) string {
	var b strings.Builder
	b.WriteString("[COLUMN NAME MISMATCHES SUMMARY]\n")
	writeMismatchStats(&b, s.Stats)
	if len(s.ChartData) > 0 {
		b.WriteString("\n[MISMATCH DISTRIBUTION]\n")
		b.WriteString("| range | tables | share |\n|---|---|---|\n")
		for _, p := range s.ChartData {
			b.WriteString(fmt.Sprintf("| %s | %d | %.1f%% |\n", p.Range, p.Count, p.Percentage))
		}
	}
	return b.String()
}

// DtypeMismatchMarkdown renders dtype-mismatch totals and the per-schema table.
func DtypeMismatchMarkdown(s aggregate.DtypeMismatchSummary) string {
	var b strings.Builder
	b.WriteString("[COLUMN DATA TYPE MISMATCHES SUMMARY]\n")
	writeMismatchStats(&b, s.Stats)
	if len(s.ChartData) > 0 {
		b.WriteString("\n[BY SCHEMA]\n")
		b.WriteString("| schema | mismatches | tables | avg mismatch |\n|---|---|---|---|\n")
		for _, p := range s.ChartData {
			b.WriteString(fmt.Sprintf("| %s | %s | %d | %.1f%% |\n",
				safeVal(p.Schema), formatNum(p.TotalMismatches), p.Tables, p.AvgMismatchPercent))
		}
	}
	return b.String()
}

func writeMismatchStats(b *strings.Builder, st *aggregate.MismatchStats) {
	if st == nil {
		st = &aggregate.MismatchStats{}
	}
	b.WriteString(fmt.Sprintf("Total tables: %d\n", st.TotalTables))
	b.WriteString(fmt.Sprintf("Tables with mismatches: %d (%.1f%% of total tables)\n",
		st.TablesWithMismatches, aggregate.Share(st.TablesWithMismatches, st.TotalTables)))
	b.WriteString(fmt.Sprintf("Total mismatches: %s\n", formatNum(st.TotalMismatches)))
	b.WriteString(fmt.Sprintf("Average mismatch: %.1f%%\n", st.AvgMismatchPercent))
}

// Overview renders record counts of every dataset and their summaries.
func Overview(snap dataset.Snapshot) string {
	var b strings.Builder
	b.WriteString("[DATA QUALITY OVERVIEW]\n")
	b.WriteString(fmt.Sprintf("Last updated: %s\n", snap.LastUpdated.Format(time.RFC3339)))
	for _, k := range dataset.Kinds {
		d := snap.Datasets[k]
		line := fmt.Sprintf("- %s: %d records", k.Title(), d.Len())
		if l, ok := snap.Loads[k]; ok && l.Source != "" {
			line += fmt.Sprintf(" (from %s)", l.Source)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	for _, k := range dataset.Kinds {
		b.WriteString("\n")
		b.WriteString(Summary(snap.Datasets[k]))
	}
	return b.String()
}

// OverviewValue is the JSON form of Overview.
type OverviewValue struct {
	LastUpdated time.Time                     `json:"lastUpdated"`
	Records     map[dataset.Kind]int          `json:"records"`
	Loads       map[dataset.Kind]dataset.Load `json:"loads"`
	Summaries   map[dataset.Kind]any          `json:"summaries"`
}

// NewOverviewValue builds the JSON overview of snap.
func NewOverviewValue(snap dataset.Snapshot) OverviewValue {
	v := OverviewValue{
		LastUpdated: snap.LastUpdated,
		Records:     make(map[dataset.Kind]int, len(dataset.Kinds)),
		Loads:       snap.Loads,
		Summaries:   make(map[dataset.Kind]any, len(dataset.Kinds)),
	}
	for _, k := range dataset.Kinds {
		d := snap.Datasets[k]
		v.Records[k] = d.Len()
		v.Summaries[k] = SummaryValue(d)
	}
	return v
}

// RowsValue converts rows to plain maps for JSON output.
func RowsValue(rows []dataset.Row) []map[string]any {
	out := make([]map[string]any, len(rows))
	for i, r := range rows {
		m := make(map[string]any, len(r))
		for k, v := range r {
			if f, ok := v.Number(); ok {
				m[k] = f
			} else if !v.IsNull() {
				m[k] = v.String()
			}
		}
		out[i] = m
	}
	return out
}

func formatNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func clip(s string, width int) string {
	if width <= 3 || len([]rune(s)) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width-3]) + "..."
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
