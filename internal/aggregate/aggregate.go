// Package aggregate derives the per-schema and per-bucket statistics shown
// in the summary charts. Every function reads the whole dataset and ignores
// any active search or filter.
package aggregate

import (
	"math"

	"github.com/KaramelBytes/dqlens-cli/internal/dataset"
)

// UnknownSchema groups rows that carry no schema name.
const UnknownSchema = "Unknown"

// SchemaChangeStats are the totals of a schema-change dataset.
type SchemaChangeStats struct {
	TotalTables              int     `json:"totalTables"`
	TablesWithNewColumns     int     `json:"tablesWithNewColumns"`
	TablesWithDeletedColumns int     `json:"tablesWithDeletedColumns"`
	TotalNewColumns          float64 `json:"totalNewColumns"`
	TotalDeletedColumns      float64 `json:"totalDeletedColumns"`
}

// SchemaChangePoint is one schema's bar in the schema-change chart.
type SchemaChangePoint struct {
	Schema         string  `json:"schema"`
	NewColumns     float64 `json:"newColumns"`
	DeletedColumns float64 `json:"deletedColumns"`
	Tables         int     `json:"tables"`
}

// SchemaChangeSummary is the chart data and totals of a schema-change dataset.
// Stats is nil for an empty dataset.
type SchemaChangeSummary struct {
	ChartData []SchemaChangePoint `json:"chartData"`
	Stats     *SchemaChangeStats  `json:"stats"`
}

// MismatchStats are the totals shared by both mismatch kinds.
type MismatchStats struct {
	TotalTables          int     `json:"totalTables"`
	TablesWithMismatches int     `json:"tablesWithMismatches"`
	TotalMismatches      float64 `json:"totalMismatches"`
	AvgMismatchPercent   float64 `json:"avgMismatchPercent"`
}

// BucketPoint is one slice of the mismatch-percentage distribution.
type BucketPoint struct {
	Range      string  `json:"range"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// NameMismatchSummary is the distribution and totals of a name-mismatch dataset.
type NameMismatchSummary struct {
	ChartData []BucketPoint  `json:"chartData"`
	Stats     *MismatchStats `json:"stats"`
}

// DtypeSchemaPoint is one schema's bar in the dtype-mismatch chart.
type DtypeSchemaPoint struct {
	Schema             string  `json:"schema"`
	TotalMismatches    float64 `json:"totalMismatches"`
	Tables             int     `json:"tables"`
	AvgMismatchPercent float64 `json:"avgMismatchPercent"`
}

// DtypeMismatchSummary is the per-schema chart data and totals of a dtype-mismatch dataset.
type DtypeMismatchSummary struct {
	ChartData []DtypeSchemaPoint `json:"chartData"`
	Stats     *MismatchStats     `json:"stats"`
}

// SchemaChanges groups a schema-change dataset by schema in first-seen order.
func SchemaChanges(d dataset.Dataset) SchemaChangeSummary {
	out := SchemaChangeSummary{ChartData: []SchemaChangePoint{}}
	if d.Len() == 0 {
		return out
	}
	st := &SchemaChangeStats{TotalTables: d.Len()}
	index := map[string]int{}
	for _, r := range d.Rows {
		added := r.Num(dataset.FieldNewColumnsCount)
		deleted := r.Num(dataset.FieldDeletedColumnsCount)
		if added > 0 {
			st.TablesWithNewColumns++
		}
		if deleted > 0 {
			st.TablesWithDeletedColumns++
		}
		st.TotalNewColumns += added
		st.TotalDeletedColumns += deleted

		i, ok := index[schemaOf(r)]
		if !ok {
			i = len(out.ChartData)
			index[schemaOf(r)] = i
			out.ChartData = append(out.ChartData, SchemaChangePoint{Schema: schemaOf(r)})
		}
		p := &out.ChartData[i]
		p.NewColumns += added
		p.DeletedColumns += deleted
		p.Tables++
	}
	out.Stats = st
	return out
}

// NameMismatches buckets a name-mismatch dataset by mismatch percentage.
// Only buckets that occur are returned, in ascending bucket order.
func NameMismatches(d dataset.Dataset) NameMismatchSummary {
	out := NameMismatchSummary{ChartData: []BucketPoint{}}
	if d.Len() == 0 {
		return out
	}
	out.Stats = mismatchStats(d, dataset.FieldNameMismatchCount, dataset.FieldNameMismatchPercent)

	counts := make(map[dataset.Bucket]int, len(dataset.Buckets))
	for _, r := range d.Rows {
		counts[dataset.BucketOf(r.Num(dataset.FieldNameMismatchPercent))]++
	}
	for _, b := range dataset.Buckets {
		n := counts[b]
		if n == 0 {
			continue
		}
		out.ChartData = append(out.ChartData, BucketPoint{
			Range:      b.Label(),
			Count:      n,
			Percentage: Round1(float64(n) * 100 / float64(d.Len())),
		})
	}
	return out
}

// DtypeMismatches groups a dtype-mismatch dataset by schema in first-seen order.
func DtypeMismatches(d dataset.Dataset) DtypeMismatchSummary {
	out := DtypeMismatchSummary{ChartData: []DtypeSchemaPoint{}}
	if d.Len() == 0 {
		return out
	}
	out.Stats = mismatchStats(d, dataset.FieldDtypeMismatchCount, dataset.FieldDtypeMismatchPercent)

	index := map[string]int{}
	sums := []float64{}
	for _, r := range d.Rows {
		name := schemaOf(r)
		i, ok := index[name]
		if !ok {
			i = len(out.ChartData)
			index[name] = i
			out.ChartData = append(out.ChartData, DtypeSchemaPoint{Schema: name})
			sums = append(sums, 0)
		}
		p := &out.ChartData[i]
		p.TotalMismatches += r.Num(dataset.FieldDtypeMismatchCount)
		p.Tables++
		sums[i] += r.Num(dataset.FieldDtypeMismatchPercent)
	}
	for i := range out.ChartData {
		out.ChartData[i].AvgMismatchPercent = Round1(sums[i] / float64(out.ChartData[i].Tables))
	}
	return out
}

func mismatchStats(d dataset.Dataset, countField, percentField string) *MismatchStats {
	st := &MismatchStats{TotalTables: d.Len()}
	var pctSum float64
	for _, r := range d.Rows {
		c := r.Num(countField)
		if c > 0 {
			st.TablesWithMismatches++
		}
		st.TotalMismatches += c
		pctSum += r.Num(percentField)
	}
	st.AvgMismatchPercent = pctSum / float64(d.Len())
	return st
}

func schemaOf(r dataset.Row) string {
	if s := r.Text(dataset.FieldSchemaName); s != "" {
		return s
	}
	return UnknownSchema
}

// Share returns part as a percentage of total. A zero total is treated as 1
// so an empty dataset reads as 0%.
func Share(part, total int) float64 {
	if total == 0 {
		total = 1
	}
	return float64(part) * 100 / float64(total)
}

// Round1 rounds x to one decimal place.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}
