package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/dqlens-cli/internal/dataset"
)

type xlsxReader struct{}

func (xlsxReader) CanRead(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".xlsx")
}

// Read decodes the selected sheet (the first one by default); its first
// row is the header.
func (xlsxReader) Read(path string, kind dataset.Kind, opt Options) ([]dataset.Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	sheet := opt.SheetName
	if sheet == "" {
		if len(sheets) == 0 {
			return []dataset.Row{}, nil
		}
		sheet = sheets[0]
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx == -1 {
		return nil, fmt.Errorf("sheet '%s' not found in workbook '%s'. Available sheets: %s",
			sheet, filepath.Base(path), strings.Join(sheets, ", "))
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return []dataset.Row{}, nil
	}
	return FromRecords(rows[0], rows[1:], kind, opt), nil
}
