// Package ingest turns CSV, TSV and XLSX finding reports into typed rows
// and loads them into a dataset.Store.
package ingest

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/KaramelBytes/dqlens-cli/internal/dataset"
)

// ErrUnsupported indicates a file format no reader accepts.
var ErrUnsupported = errors.New("unsupported file format")

// Options controls how source files are decoded.
type Options struct {
	// Delimiter for CSV. If 0, '\t' for .tsv files and ',' otherwise.
	Delimiter rune
	// SheetName selects an XLSX sheet; empty means the first sheet.
	SheetName string
	// Numeric parsing locale. A zero DecimalSeparator is detected per value.
	DecimalSeparator   rune
	ThousandsSeparator rune // optional; if 0, ',' '.' and space are stripped when not the decimal
}

// DefaultOptions returns the decoding defaults: decimal mark detected,
// delimiter by extension, first sheet.
func DefaultOptions() Options {
	return Options{}
}

// Reader decodes one file format into rows of a kind.
type Reader interface {
	CanRead(path string) bool
	Read(path string, kind dataset.Kind, opt Options) ([]dataset.Row, error)
}

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

// ReadFile selects a reader by file name and decodes path as kind.
func ReadFile(path string, kind dataset.Kind, opt Options) ([]dataset.Row, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", dataset.ErrUnknownKind, kind)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	for _, r := range registry {
		if r.CanRead(path) {
			return r.Read(path, kind, opt)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
}

func init() {
	Register(csvReader{})
	Register(xlsxReader{})
}

// FromRecords converts a header and its records into rows, typing each
// field by the kind's declared schema. Undeclared fields become numbers
// when they parse as one. Empty cells are left absent.
func FromRecords(header []string, records [][]string, kind dataset.Kind, opt Options) []dataset.Row {
	names := make([]string, len(header))
	for i, h := range header {
		names[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	rows := make([]dataset.Row, 0, len(records))
	for _, rec := range records {
		if blankRecord(rec) {
			continue
		}
		row := make(dataset.Row, len(names))
		for j, name := range names {
			if name == "" || j >= len(rec) {
				continue
			}
			v := strings.TrimSpace(rec[j])
			if v == "" {
				continue
			}
			row[name] = typedValue(kind, name, v, opt)
		}
		rows = append(rows, row)
	}
	return rows
}

func typedValue(kind dataset.Kind, name, raw string, opt Options) dataset.Value {
	ft, declared := kind.FieldType(name)
	if declared && ft == dataset.TextField {
		return dataset.Text(raw)
	}
	if x, ok := parseNumeric(raw, opt); ok {
		return dataset.Num(x)
	}
	return dataset.Text(raw)
}

func blankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
