package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/dqlens-cli/internal/aggregate"
	"github.com/KaramelBytes/dqlens-cli/internal/dataset"
	"github.com/KaramelBytes/dqlens-cli/internal/utils"
)

const (
	viewSheet    = "View"
	summarySheet = "Summary"
)

// WriteXLSX writes a workbook with the query view of d on one sheet and
// the aggregate chart data of the whole dataset on another. The file is
// replaced atomically and its directory created when missing.
func WriteXLSX(path string, d dataset.Dataset, rows []dataset.Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", viewSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	cols := d.Columns()
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	records := make([][]any, len(rows))
	for i, r := range rows {
		rec := make([]any, len(cols))
		for j, c := range cols {
			v := r.Get(c)
			if n, ok := v.Number(); ok {
				rec[j] = n
			} else {
				rec[j] = v.String()
			}
		}
		records[i] = rec
	}
	if err := writeSheet(f, viewSheet, header, records, headerStyle); err != nil {
		return err
	}

	sHeader, sRecords := summaryRecords(d)
	if err := writeSheet(f, summarySheet, sHeader, sRecords, headerStyle); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("encode xlsx: %w", err)
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, header []any, records [][]any, style int) error {
	if len(header) == 0 {
		return nil
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return fmt.Errorf("header range: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}
	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
		rec := rec
		if err := f.SetSheetRow(sheet, cell, &rec); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func summaryRecords(d dataset.Dataset) ([]any, [][]any) {
	var records [][]any
	switch d.Kind {
	case dataset.SchemaChange:
		for _, p := range aggregate.SchemaChanges(d).ChartData {
			records = append(records, []any{p.Schema, p.NewColumns, p.DeletedColumns, p.Tables})
		}
		return []any{"schema", "newColumns", "deletedColumns", "tables"}, records
	case dataset.NameMismatch:
		for _, p := range aggregate.NameMismatches(d).ChartData {
			records = append(records, []any{p.Range, p.Count, p.Percentage})
		}
		return []any{"range", "count", "percentage"}, records
	case dataset.DtypeMismatch:
		for _, p := range aggregate.DtypeMismatches(d).ChartData {
			records = append(records, []any{p.Schema, p.TotalMismatches, p.Tables, p.AvgMismatchPercent})
		}
		return []any{"schema", "totalMismatches", "tables", "avgMismatchPercent"}, records
	}
	return nil, nil
}
